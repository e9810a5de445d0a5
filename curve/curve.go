// Package curve provides zero-rate term structures built from sparse market
// pillars with pluggable interpolation.
package curve

import (
	"math"
)

// RateCurve is a continuously-compounded zero rate curve r(t).
type RateCurve struct {
	Maturities []float64
	Rates      []float64

	interp     Interpolator
	calibrated bool
}

// NewRateCurve builds and calibrates a curve from pillars using the named
// interpolation method ("linear", "cubic", "nelson-siegel", "svensson").
func NewRateCurve(maturities, rates []float64, method string) (*RateCurve, error) {
	ip, err := NewInterpolator(method)
	if err != nil {
		return nil, err
	}
	c := &RateCurve{Maturities: maturities, Rates: rates, interp: ip}
	if err := c.Calibrate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Calibrate fits the interpolator to the curve's pillars.
func (c *RateCurve) Calibrate() error {
	if c.interp == nil {
		c.interp = &Linear{}
	}
	if err := c.interp.Calibrate(c.Maturities, c.Rates); err != nil {
		return err
	}
	c.calibrated = true
	return nil
}

// Rate returns the zero rate at maturity t.
func (c *RateCurve) Rate(t float64) (float64, error) {
	if !c.calibrated {
		return 0, ErrNotCalibrated
	}
	return c.interp.Interpolate(t), nil
}

// DiscountFactor returns exp(-r(t)*t).
func (c *RateCurve) DiscountFactor(t float64) (float64, error) {
	r, err := c.Rate(t)
	if err != nil {
		return 0, err
	}
	return math.Exp(-r * t), nil
}

// ForwardRate returns the continuously-compounded forward rate between t1 and t2.
func (c *RateCurve) ForwardRate(t1, t2 float64) (float64, error) {
	if !c.calibrated {
		return 0, ErrNotCalibrated
	}
	if t2 <= t1 {
		return c.interp.Interpolate(t1), nil
	}
	r1 := c.interp.Interpolate(t1)
	r2 := c.interp.Interpolate(t2)
	return (r2*t2 - r1*t1) / (t2 - t1), nil
}

// ForwardDiscountFactor returns the discount factor between t1 and t2.
func (c *RateCurve) ForwardDiscountFactor(t1, t2 float64) (float64, error) {
	f, err := c.ForwardRate(t1, t2)
	if err != nil {
		return 0, err
	}
	return math.Exp(-f * (t2 - t1)), nil
}

// Bump returns a recalibrated copy with every pillar rate shifted by delta.
func (c *RateCurve) Bump(delta float64) (*RateCurve, error) {
	rates := make([]float64, len(c.Rates))
	for i, r := range c.Rates {
		rates[i] = r + delta
	}
	var method string
	switch c.interp.(type) {
	case *CubicSpline:
		method = "cubic"
	case *NelsonSiegel:
		method = "nelson-siegel"
	case *Svensson:
		method = "svensson"
	default:
		method = "linear"
	}
	return NewRateCurve(append([]float64(nil), c.Maturities...), rates, method)
}
