package payoff

import (
	"fmt"
	"math"
)

// participation carries the common terms of the capital participation
// products. Barriers are per 100 of the initial fixing.
type participation struct {
	T            float64
	UpperBarrier float64
	LowerBarrier float64
	Rebate       float64
	Leverage     float64
}

func (p participation) Maturity() float64 { return p.T }

func (p participation) validate() error {
	if p.T <= 0 {
		return fmt.Errorf("payoff: maturity must be positive, got %v", p.T)
	}
	if p.UpperBarrier <= p.LowerBarrier {
		return fmt.Errorf("payoff: upper barrier %v must exceed lower barrier %v", p.UpperBarrier, p.LowerBarrier)
	}
	return nil
}

func (p participation) performance(path []float64) float64 {
	return path[len(path)-1] / path[0] * 100.0
}

// TwinWin participates in the absolute move of the underlying between its
// barriers, pays a fixed rebate above the upper barrier and a geared loss
// below the lower one.
type TwinWin struct {
	participation
}

func NewTwinWin(maturity, upperBarrier, lowerBarrier, rebate, leverage float64) (TwinWin, error) {
	t := TwinWin{participation{T: maturity, UpperBarrier: upperBarrier, LowerBarrier: lowerBarrier, Rebate: rebate, Leverage: leverage}}
	return t, t.validate()
}

func (p TwinWin) Payoff(path []float64) float64 {
	perf := p.performance(path)
	switch {
	case perf > p.UpperBarrier:
		return 100.0 + p.Rebate
	case perf < p.LowerBarrier:
		return 100.0 + p.Leverage*(perf-100.0)
	default:
		return 100.0 + p.Leverage*math.Abs(perf-100.0)
	}
}

// Airbag participates in upside only, returns par in the buffer zone between
// the lower barrier and par, and takes a leveraged loss below the barrier.
type Airbag struct {
	participation
}

func NewAirbag(maturity, upperBarrier, lowerBarrier, rebate, leverage float64) (Airbag, error) {
	a := Airbag{participation{T: maturity, UpperBarrier: upperBarrier, LowerBarrier: lowerBarrier, Rebate: rebate, Leverage: leverage}}
	return a, a.validate()
}

func (p Airbag) Payoff(path []float64) float64 {
	perf := p.performance(path)
	switch {
	case perf > p.UpperBarrier:
		return 100.0 + p.Rebate
	case perf < p.LowerBarrier:
		return 100.0 + p.Leverage*(perf-100.0)
	case perf < 100.0:
		return 100.0
	default:
		return 100.0 + p.Leverage*(perf-100.0)
	}
}
