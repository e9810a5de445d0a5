// Package market aggregates the calibrated rate curve, the volatility surface
// and the underlying reference into the single input the engines consume.
package market

import (
	"fmt"

	"github.com/banachtech/quantpricer/curve"
	"github.com/banachtech/quantpricer/util"
	"github.com/banachtech/quantpricer/vol"
)

// Underlying identifies the reference asset of a pricing run.
type Underlying struct {
	Ticker    string
	ISIN      string
	IsIndex   bool
	LastPrice float64
}

// Market is the single source of truth for a pricing run. It is a value type:
// the Bump methods return fresh copies sharing the untouched components, the
// receiver is never modified.
type Market struct {
	Spot       float64
	Curve      *curve.RateCurve
	Surface    vol.Surface
	DayCount   util.DayCount
	Underlying Underlying
}

// New validates and assembles a market from calibrated components.
func New(spot float64, c *curve.RateCurve, s vol.Surface, dc util.DayCount) (Market, error) {
	if spot <= 0 {
		return Market{}, fmt.Errorf("market: spot must be positive, got %v", spot)
	}
	if c == nil {
		return Market{}, fmt.Errorf("market: nil rate curve")
	}
	if s == nil {
		return Market{}, fmt.Errorf("market: nil vol surface")
	}
	if _, err := c.Rate(1.0); err != nil {
		return Market{}, fmt.Errorf("market: rate curve: %w", err)
	}
	if dc == "" {
		dc = util.Act365
	}
	return Market{Spot: spot, Curve: c, Surface: s, DayCount: dc}, nil
}

// Rate returns the zero rate at maturity t.
func (m Market) Rate(t float64) (float64, error) {
	return m.Curve.Rate(t)
}

// DiscountFactor returns the discount factor at maturity t.
func (m Market) DiscountFactor(t float64) (float64, error) {
	return m.Curve.DiscountFactor(t)
}

// ForwardRate returns the forward rate between t1 and t2.
func (m Market) ForwardRate(t1, t2 float64) (float64, error) {
	return m.Curve.ForwardRate(t1, t2)
}

// ForwardDiscountFactor returns the discount factor between t1 and t2.
func (m Market) ForwardDiscountFactor(t1, t2 float64) (float64, error) {
	return m.Curve.ForwardDiscountFactor(t1, t2)
}

// Vol returns the implied volatility at strike k, maturity t.
func (m Market) Vol(k, t float64) (float64, error) {
	return m.Surface.Vol(k, t)
}

// BumpSpot returns a copy with the spot shifted by delta. Curve and surface
// are shared, not copied.
func (m Market) BumpSpot(delta float64) (Market, error) {
	s := m.Spot + delta
	if s <= 0 {
		return Market{}, fmt.Errorf("market: bumped spot must be positive, got %v", s)
	}
	out := m
	out.Spot = s
	return out, nil
}

// BumpVol returns a copy whose surface reports vols shifted by delta. The
// underlying surface is wrapped, never refitted or mutated.
func (m Market) BumpVol(delta float64) Market {
	out := m
	out.Surface = &vol.Shift{Surface: m.Surface, Delta: delta}
	return out
}

// BumpRate returns a copy with a recalibrated curve whose pillar rates are
// shifted by delta. The original curve is untouched.
func (m Market) BumpRate(delta float64) (Market, error) {
	c, err := m.Curve.Bump(delta)
	if err != nil {
		return Market{}, err
	}
	out := m
	out.Curve = c
	return out, nil
}
