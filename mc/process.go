// Package mc provides stochastic processes and Monte Carlo path generation
// for the pricing engines.
package mc

import (
	"fmt"
)

// Process generates a discretized price path from a seed. Paths have Steps+1
// points, the first being the spot.
type Process interface {
	Path(seed uint64) []float64
	Spot() float64
	Horizon() float64
	NumSteps() int
}

// BlackScholes is a lognormal diffusion with a deterministic per-step drift,
// so a term structure of forward rates can drive the paths.
type BlackScholes struct {
	S0    float64
	T     float64
	Steps int
	// Drift holds one continuously-compounded drift rate per step.
	Drift []float64
	Vol   float64
}

// NewBlackScholes validates and builds a constant-drift lognormal process.
func NewBlackScholes(s0, t float64, steps int, drift, vol float64) (BlackScholes, error) {
	drifts := make([]float64, steps)
	for i := range drifts {
		drifts[i] = drift
	}
	m := BlackScholes{S0: s0, T: t, Steps: steps, Drift: drifts, Vol: vol}
	return m, m.validate()
}

func (m BlackScholes) validate() error {
	if m.S0 <= 0 {
		return fmt.Errorf("mc: spot must be positive, got %v", m.S0)
	}
	if m.T <= 0 {
		return fmt.Errorf("mc: horizon must be positive, got %v", m.T)
	}
	if m.Steps < 1 {
		return fmt.Errorf("mc: need at least 1 step, got %d", m.Steps)
	}
	if len(m.Drift) != m.Steps {
		return fmt.Errorf("mc: %d drift entries for %d steps", len(m.Drift), m.Steps)
	}
	if m.Vol < 0 {
		return fmt.Errorf("mc: vol must be non-negative, got %v", m.Vol)
	}
	return nil
}

func (m BlackScholes) Spot() float64    { return m.S0 }
func (m BlackScholes) Horizon() float64 { return m.T }
func (m BlackScholes) NumSteps() int    { return m.Steps }

// Heston is the square-root stochastic variance model.
type Heston struct {
	S0    float64
	T     float64
	Steps int
	Drift []float64

	V0    float64
	Kappa float64
	Theta float64
	Xi    float64
	Rho   float64
}

// NewHeston validates and builds a Heston process with constant drift.
func NewHeston(s0, t float64, steps int, drift, v0, kappa, theta, xi, rho float64) (Heston, error) {
	drifts := make([]float64, steps)
	for i := range drifts {
		drifts[i] = drift
	}
	m := Heston{S0: s0, T: t, Steps: steps, Drift: drifts, V0: v0, Kappa: kappa, Theta: theta, Xi: xi, Rho: rho}
	return m, m.validate()
}

func (m Heston) validate() error {
	bs := BlackScholes{S0: m.S0, T: m.T, Steps: m.Steps, Drift: m.Drift, Vol: 0}
	if err := bs.validate(); err != nil {
		return err
	}
	if m.V0 < 0 {
		return fmt.Errorf("mc: initial variance must be non-negative, got %v", m.V0)
	}
	if m.Kappa < 0 || m.Theta < 0 || m.Xi < 0 {
		return fmt.Errorf("mc: kappa, theta and xi must be non-negative")
	}
	if m.Rho < -1 || m.Rho > 1 {
		return fmt.Errorf("mc: correlation must lie in [-1, 1], got %v", m.Rho)
	}
	return nil
}

func (m Heston) Spot() float64    { return m.S0 }
func (m Heston) Horizon() float64 { return m.T }
func (m Heston) NumSteps() int    { return m.Steps }
