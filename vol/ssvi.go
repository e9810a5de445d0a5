package vol

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

// SSVI is the surface SVI parameterization of Gatheral and Jacquier. It is
// fitted in two stages: first an ATM total variance curve theta(T), then the
// global shape parameters [rho, eta, gamma] with skew function
// phi(theta) = eta * theta^(-gamma).
type SSVI struct {
	V0, VInf, KappaTheta float64
	Rho, Eta, Gamma      float64

	spot       float64
	calibrated bool
}

// theta returns the ATM total implied variance at maturity t.
func (s *SSVI) theta(t float64) float64 {
	x := s.KappaTheta * t
	blend := 1.0
	if x > 1e-12 {
		blend = (1.0 - math.Exp(-x)) / x
	}
	return (blend*(s.V0-s.VInf) + s.VInf) * t
}

func ssviTotalVariance(k, theta, rho, eta, gamma float64) float64 {
	phi := eta * math.Pow(theta, -gamma)
	pk := phi * k
	return 0.5 * theta * (1.0 + rho*pk + math.Sqrt((pk+rho)*(pk+rho)+1.0-rho*rho))
}

func (s *SSVI) Calibrate(spot float64, quotes []Quote) error {
	if err := validateQuotes(spot, quotes); err != nil {
		return err
	}
	ts, groups := groupByMaturity(quotes)

	// Stage 1: fit [v0, vInf, kappa] to the ATM variance per maturity.
	atmT := make([]float64, len(ts))
	atmW := make([]float64, len(ts))
	for i, t := range ts {
		v := atmVol(spot, groups[i])
		atmT[i] = t
		atmW[i] = v * v * t
	}
	stage1 := optimize.Problem{
		Func: func(p []float64) float64 {
			v0, vInf, kappa := math.Exp(p[0]), math.Exp(p[1]), math.Exp(p[2])
			ssr := 0.0
			for i := range atmT {
				tmp := SSVI{V0: v0, VInf: vInf, KappaTheta: kappa}
				d := tmp.theta(atmT[i]) - atmW[i]
				ssr += d * d
			}
			return ssr
		},
	}
	x0 := []float64{math.Log(atmW[0] / math.Max(atmT[0], 1e-8)), math.Log(atmW[len(atmW)-1] / atmT[len(atmT)-1]), math.Log(1.0)}
	res, err := optimize.Minimize(stage1, x0, nil, &optimize.NelderMead{})
	if err != nil {
		return fmt.Errorf("vol: ssvi atm stage: %w", err)
	}
	s.V0, s.VInf, s.KappaTheta = math.Exp(res.X[0]), math.Exp(res.X[1]), math.Exp(res.X[2])

	// Stage 2: fit [rho, eta, gamma] across the whole surface. rho in (-1, 1)
	// via tanh, eta positive via exp, gamma in (0, 1) via the logistic map.
	stage2 := optimize.Problem{
		Func: func(p []float64) float64 {
			rho := math.Tanh(p[0])
			eta := math.Exp(p[1])
			gamma := 1.0 / (1.0 + math.Exp(-p[2]))
			ssr := 0.0
			for i, t := range ts {
				th := s.theta(t)
				for _, q := range groups[i] {
					k := math.Log(q.Strike / spot)
					d := ssviTotalVariance(k, th, rho, eta, gamma) - q.Vol*q.Vol*t
					ssr += d * d
				}
			}
			return ssr
		},
	}
	res, err = optimize.Minimize(stage2, []float64{0.0, math.Log(1.0), 0.0}, nil, &optimize.NelderMead{})
	if err != nil {
		return fmt.Errorf("vol: ssvi shape stage: %w", err)
	}
	s.Rho = math.Tanh(res.X[0])
	s.Eta = math.Exp(res.X[1])
	s.Gamma = 1.0 / (1.0 + math.Exp(-res.X[2]))

	s.spot = spot
	s.calibrated = true
	return nil
}

// atmVol reads the at-the-money vol of one maturity slice, interpolating
// linearly between the strikes bracketing the spot when no exact ATM quote
// exists. Outside the quoted strike range the nearest quote is used.
func atmVol(spot float64, quotes []Quote) float64 {
	var below, above *Quote
	for i := range quotes {
		q := &quotes[i]
		switch {
		case q.Strike == spot:
			return q.Vol
		case q.Strike < spot && (below == nil || q.Strike > below.Strike):
			below = q
		case q.Strike > spot && (above == nil || q.Strike < above.Strike):
			above = q
		}
	}
	if below == nil {
		return above.Vol
	}
	if above == nil {
		return below.Vol
	}
	u := (spot - below.Strike) / (above.Strike - below.Strike)
	return below.Vol + u*(above.Vol-below.Vol)
}

func (s *SSVI) Vol(k, t float64) (float64, error) {
	if !s.calibrated {
		return 0, ErrNotCalibrated
	}
	if t <= 0 {
		t = 1e-8
	}
	w := ssviTotalVariance(math.Log(k/s.spot), s.theta(t), s.Rho, s.Eta, s.Gamma)
	if w < 0 {
		w = 0
	}
	return math.Sqrt(w / t), nil
}
