package vol

import (
	"math"

	"gonum.org/v1/gonum/diff/fd"
)

// Local is a Dupire local volatility surface derived from an implied surface:
//
//	sigma_loc^2(K,T) = (dC/dT + r*K*dC/dK) / (0.5 * K^2 * d2C/dK2)
//
// with call prices rebuilt from the implied surface through Black-Scholes.
type Local struct {
	Implied Surface
	Rate    float64

	spot       float64
	calibrated bool
}

func (l *Local) Calibrate(spot float64, quotes []Quote) error {
	if err := l.Implied.Calibrate(spot, quotes); err != nil {
		return err
	}
	l.spot = spot
	l.calibrated = true
	return nil
}

func (l *Local) call(k, t float64) float64 {
	sigma, err := l.Implied.Vol(k, t)
	if err != nil || math.IsNaN(sigma) {
		return math.NaN()
	}
	return BSCall(l.spot, k, l.Rate, sigma, t)
}

func step(x float64) float64 {
	return math.Max(0.01*math.Abs(x), 1e-4)
}

func (l *Local) Vol(k, t float64) (float64, error) {
	if !l.calibrated {
		return 0, ErrNotCalibrated
	}
	if t <= 0 {
		t = 1e-4
	}

	central := &fd.Settings{Formula: fd.Central, Step: step(t)}
	dCdT := fd.Derivative(func(x float64) float64 { return l.call(k, x) }, t, central)

	central.Step = step(k)
	dCdK := fd.Derivative(func(x float64) float64 { return l.call(x, t) }, k, central)

	second := &fd.Settings{Formula: fd.Central2nd, Step: step(k)}
	d2CdK2 := fd.Derivative(func(x float64) float64 { return l.call(x, t) }, k, second)

	num := dCdT + l.Rate*k*dCdK
	den := 0.5 * k * k * d2CdK2
	if num < 0 {
		num = 0
	}
	if den <= 1e-12 {
		// degenerate density, fall back on the implied vol
		return l.Implied.Vol(k, t)
	}
	return math.Sqrt(num / den), nil
}
