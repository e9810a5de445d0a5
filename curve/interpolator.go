package curve

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/optimize"
)

// ErrNotCalibrated is returned when a curve or interpolator is queried before Calibrate.
var ErrNotCalibrated = errors.New("curve: not calibrated")

// Interpolator fits a scalar maturity -> rate function from sparse pillars.
type Interpolator interface {
	// Calibrate fits the model to the given pillars. Maturities must be sorted ascending.
	Calibrate(maturities, rates []float64) error
	// Interpolate returns the fitted rate at maturity t. Values outside the pillar
	// range are extrapolated flat (Linear, CubicSpline) or by the fitted model
	// (NelsonSiegel, Svensson).
	Interpolate(t float64) float64
}

// NewInterpolator maps a plain method tag to a constructor.
func NewInterpolator(method string) (Interpolator, error) {
	switch method {
	case "linear":
		return &Linear{}, nil
	case "cubic":
		return &CubicSpline{}, nil
	case "nelson-siegel":
		return &NelsonSiegel{}, nil
	case "svensson":
		return &Svensson{}, nil
	default:
		return nil, fmt.Errorf("curve: unknown interpolation method %q", method)
	}
}

func validatePillars(maturities, rates []float64) error {
	if len(maturities) != len(rates) {
		return fmt.Errorf("curve: %d maturities but %d rates", len(maturities), len(rates))
	}
	if len(maturities) < 2 {
		return fmt.Errorf("curve: need at least 2 pillars, got %d", len(maturities))
	}
	for i := 1; i < len(maturities); i++ {
		if maturities[i] <= maturities[i-1] {
			return fmt.Errorf("curve: maturities must be strictly increasing at index %d", i)
		}
	}
	return nil
}

// Linear interpolates rates piecewise-linearly between pillars, flat outside.
type Linear struct {
	pl         interp.PiecewiseLinear
	tMin, tMax float64
	calibrated bool
}

func (l *Linear) Calibrate(maturities, rates []float64) error {
	if err := validatePillars(maturities, rates); err != nil {
		return err
	}
	if err := l.pl.Fit(maturities, rates); err != nil {
		return fmt.Errorf("curve: linear fit: %w", err)
	}
	l.tMin, l.tMax = maturities[0], maturities[len(maturities)-1]
	l.calibrated = true
	return nil
}

func (l *Linear) Interpolate(t float64) float64 {
	return l.pl.Predict(clamp(t, l.tMin, l.tMax))
}

// CubicSpline interpolates rates with a natural cubic spline, flat outside.
type CubicSpline struct {
	nc         interp.NaturalCubic
	tMin, tMax float64
	calibrated bool
}

func (c *CubicSpline) Calibrate(maturities, rates []float64) error {
	if err := validatePillars(maturities, rates); err != nil {
		return err
	}
	if err := c.nc.Fit(maturities, rates); err != nil {
		return fmt.Errorf("curve: cubic fit: %w", err)
	}
	c.tMin, c.tMax = maturities[0], maturities[len(maturities)-1]
	c.calibrated = true
	return nil
}

func (c *CubicSpline) Interpolate(t float64) float64 {
	return c.nc.Predict(clamp(t, c.tMin, c.tMax))
}

// NelsonSiegel fits the four-parameter Nelson-Siegel yield model by non-linear
// least squares. The decay parameter tau is kept positive by optimizing its log,
// the same transform trick used for the bounded model fits in the mc package.
type NelsonSiegel struct {
	Beta0, Beta1, Beta2, Tau float64

	calibrated bool
}

func nsLoading(t, tau float64) float64 {
	x := t / tau
	if x < 1e-12 {
		return 1.0
	}
	return (1.0 - math.Exp(-x)) / x
}

func nelsonSiegel(t, b0, b1, b2, tau float64) float64 {
	l := nsLoading(t, tau)
	return b0 + b1*l + b2*(l-math.Exp(-t/tau))
}

func (n *NelsonSiegel) Calibrate(maturities, rates []float64) error {
	if err := validatePillars(maturities, rates); err != nil {
		return err
	}
	// Parameters mapped to (-Inf, Inf): tau -> log(tau).
	x0 := []float64{0.02, -0.02, 0.02, math.Log(1.0)}
	problem := optimize.Problem{
		Func: func(p []float64) float64 {
			tau := math.Exp(p[3])
			ssr := 0.0
			for i := range maturities {
				d := nelsonSiegel(maturities[i], p[0], p[1], p[2], tau) - rates[i]
				ssr += d * d
			}
			return ssr
		},
	}
	res, err := optimize.Minimize(problem, x0, nil, &optimize.NelderMead{})
	if err != nil {
		return fmt.Errorf("curve: nelson-siegel calibration did not converge: %w", err)
	}
	n.Beta0, n.Beta1, n.Beta2 = res.X[0], res.X[1], res.X[2]
	n.Tau = math.Exp(res.X[3])
	n.calibrated = true
	return nil
}

func (n *NelsonSiegel) Interpolate(t float64) float64 {
	return nelsonSiegel(t, n.Beta0, n.Beta1, n.Beta2, n.Tau)
}

// Svensson extends Nelson-Siegel with a second hump term.
type Svensson struct {
	Beta0, Beta1, Beta2, Beta3 float64
	Tau1, Tau2                 float64

	calibrated bool
}

func svensson(t, b0, b1, b2, b3, tau1, tau2 float64) float64 {
	l1 := nsLoading(t, tau1)
	l2 := nsLoading(t, tau2)
	return b0 + b1*l1 + b2*(l1-math.Exp(-t/tau1)) + b3*(l2-math.Exp(-t/tau2))
}

func (s *Svensson) Calibrate(maturities, rates []float64) error {
	if err := validatePillars(maturities, rates); err != nil {
		return err
	}
	x0 := []float64{0.02, -0.02, 0.02, 0.01, math.Log(1.0), math.Log(2.0)}
	problem := optimize.Problem{
		Func: func(p []float64) float64 {
			tau1, tau2 := math.Exp(p[4]), math.Exp(p[5])
			ssr := 0.0
			for i := range maturities {
				d := svensson(maturities[i], p[0], p[1], p[2], p[3], tau1, tau2) - rates[i]
				ssr += d * d
			}
			return ssr
		},
	}
	res, err := optimize.Minimize(problem, x0, nil, &optimize.NelderMead{})
	if err != nil {
		return fmt.Errorf("curve: svensson calibration did not converge: %w", err)
	}
	s.Beta0, s.Beta1, s.Beta2, s.Beta3 = res.X[0], res.X[1], res.X[2], res.X[3]
	s.Tau1, s.Tau2 = math.Exp(res.X[4]), math.Exp(res.X[5])
	s.calibrated = true
	return nil
}

func (s *Svensson) Interpolate(t float64) float64 {
	return svensson(t, s.Beta0, s.Beta1, s.Beta2, s.Beta3, s.Tau1, s.Tau2)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
