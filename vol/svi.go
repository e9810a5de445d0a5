package vol

import (
	"fmt"
	"math"

	"github.com/schollz/progressbar/v3"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/optimize"

	"github.com/banachtech/quantpricer/curve"
)

// sviSlice holds the raw SVI parameters [a, b, rho, m, sigma] of one maturity.
type sviSlice struct {
	a, b, rho, m, sigma float64
}

func (p sviSlice) totalVariance(k float64) float64 {
	d := k - p.m
	return p.a + p.b*(p.rho*d+math.Sqrt(d*d+p.sigma*p.sigma))
}

// SVI is an implied volatility surface fitted slice by slice with the raw SVI
// parameterization, parameters interpolated across maturities with a cubic
// spline and held flat beyond the quoted range.
type SVI struct {
	// ShowProgress renders a progress bar over the per-maturity fits.
	ShowProgress bool
	// Curve supplies the rate entering the vega weights. A nil curve, or a
	// failed lookup, weights with a zero rate.
	Curve *curve.RateCurve

	spot       float64
	maturities []float64
	slices     []sviSlice
	params     [5]interp.Predictor
	calibrated bool
}

func (s *SVI) Calibrate(spot float64, quotes []Quote) error {
	if err := validateQuotes(spot, quotes); err != nil {
		return err
	}
	ts, groups := groupByMaturity(quotes)

	var bar *progressbar.ProgressBar
	if s.ShowProgress {
		bar = progressbar.NewOptions(len(ts),
			progressbar.OptionSetDescription("svi calibration"),
			progressbar.OptionClearOnFinish(),
		)
	}

	slices := make([]sviSlice, len(ts))
	for i, t := range ts {
		sl, err := fitSVISlice(spot, t, s.rateAt(t), groups[i])
		if err != nil {
			return fmt.Errorf("vol: svi slice t=%v: %w", t, err)
		}
		slices[i] = sl
		if bar != nil {
			bar.Add(1)
		}
	}
	s.spot = spot
	s.maturities = ts
	s.slices = slices
	if err := s.fitParamInterp(); err != nil {
		return err
	}
	s.calibrated = true
	return nil
}

// rateAt reads the vega-weighting rate off the attached curve.
func (s *SVI) rateAt(t float64) float64 {
	if s.Curve == nil {
		return 0
	}
	r, err := s.Curve.Rate(t)
	if err != nil {
		return 0
	}
	return r
}

// fitSVISlice fits [a, b, rho, m, sigma] to one maturity by vega-weighted
// least squares on total variance. b and sigma are kept positive with a log
// transform, rho inside (-1, 1) with atanh.
func fitSVISlice(spot, t, r float64, quotes []Quote) (sviSlice, error) {
	type point struct {
		k, w, weight float64
	}
	pts := make([]point, len(quotes))
	for i, q := range quotes {
		k := math.Log(q.Strike / spot)
		pts[i] = point{
			k:      k,
			w:      q.Vol * q.Vol * t,
			weight: BSVega(spot, q.Strike, r, q.Vol, t),
		}
	}

	decode := func(p []float64) sviSlice {
		return sviSlice{
			a:     p[0],
			b:     math.Exp(p[1]),
			rho:   math.Tanh(p[2]),
			m:     p[3],
			sigma: math.Exp(p[4]),
		}
	}
	problem := optimize.Problem{
		Func: func(p []float64) float64 {
			sl := decode(p)
			mse := 0.0
			wsum := 0.0
			for _, pt := range pts {
				d := sl.totalVariance(pt.k) - pt.w
				mse += pt.weight * d * d
				wsum += pt.weight
			}
			if wsum == 0 {
				return math.Inf(1)
			}
			return mse / wsum
		},
	}
	atmW := pts[0].w
	x0 := []float64{0.5 * atmW, math.Log(0.1), 0.0, 0.0, math.Log(0.1)}
	res, err := optimize.Minimize(problem, x0, nil, &optimize.NelderMead{})
	if err != nil {
		return sviSlice{}, err
	}
	sl := decode(res.X)
	if sl.a+sl.b*sl.sigma*math.Sqrt(1-sl.rho*sl.rho) < 0 {
		return sviSlice{}, fmt.Errorf("fitted slice admits negative total variance")
	}
	return sl, nil
}

func (s *SVI) fitParamInterp() error {
	if len(s.maturities) == 1 {
		// single slice, nothing to interpolate
		return nil
	}
	cols := [5][]float64{}
	for _, sl := range s.slices {
		cols[0] = append(cols[0], sl.a)
		cols[1] = append(cols[1], sl.b)
		cols[2] = append(cols[2], sl.rho)
		cols[3] = append(cols[3], sl.m)
		cols[4] = append(cols[4], sl.sigma)
	}
	for i := range cols {
		if len(s.maturities) < 3 {
			pl := &interp.PiecewiseLinear{}
			if err := pl.Fit(s.maturities, cols[i]); err != nil {
				return fmt.Errorf("vol: svi parameter interpolation: %w", err)
			}
			s.params[i] = pl
			continue
		}
		nc := &interp.NaturalCubic{}
		if err := nc.Fit(s.maturities, cols[i]); err != nil {
			return fmt.Errorf("vol: svi parameter interpolation: %w", err)
		}
		s.params[i] = nc
	}
	return nil
}

func (s *SVI) sliceAt(t float64) sviSlice {
	if len(s.maturities) == 1 {
		return s.slices[0]
	}
	tc := t
	if tc < s.maturities[0] {
		tc = s.maturities[0]
	}
	if tc > s.maturities[len(s.maturities)-1] {
		tc = s.maturities[len(s.maturities)-1]
	}
	return sviSlice{
		a:     s.params[0].Predict(tc),
		b:     math.Max(s.params[1].Predict(tc), 0),
		rho:   math.Max(-1, math.Min(1, s.params[2].Predict(tc))),
		m:     s.params[3].Predict(tc),
		sigma: math.Max(s.params[4].Predict(tc), 1e-8),
	}
}

func (s *SVI) Vol(k, t float64) (float64, error) {
	if !s.calibrated {
		return 0, ErrNotCalibrated
	}
	if t <= 0 {
		t = 1e-8
	}
	sl := s.sliceAt(t)
	w := sl.totalVariance(math.Log(k / s.spot))
	if w < 0 {
		w = 0
	}
	return math.Sqrt(w / t), nil
}
