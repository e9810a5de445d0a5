package payoff

import (
	"fmt"
	"math"
)

// BarrierDirection tells which side the barrier sits on.
type BarrierDirection int

const (
	Up BarrierDirection = iota
	Down
)

// KnockType distinguishes knock-in from knock-out.
type KnockType int

const (
	In KnockType = iota
	Out
)

// Barrier is a single-barrier option monitored on every path point. Any two
// options differing only in KnockType partition each path, so in + out
// replicates the vanilla exactly.
type Barrier struct {
	Type      OptionType
	Direction BarrierDirection
	Knock     KnockType
	K         float64
	B         float64
	T         float64
}

// NewBarrier validates the barrier configuration. Knock-out options whose
// barrier sits on the wrong side of the strike would be worthless by
// construction and are rejected.
func NewBarrier(typ OptionType, dir BarrierDirection, knock KnockType, strike, barrier, maturity float64) (Barrier, error) {
	if err := validateOption(maturity, strike); err != nil {
		return Barrier{}, err
	}
	if barrier <= 0 {
		return Barrier{}, fmt.Errorf("payoff: barrier must be positive, got %v", barrier)
	}
	if knock == Out {
		if typ == Call && dir == Up && barrier <= strike {
			return Barrier{}, fmt.Errorf("payoff: up-and-out call barrier %v must exceed strike %v", barrier, strike)
		}
		if typ == Put && dir == Down && barrier >= strike {
			return Barrier{}, fmt.Errorf("payoff: down-and-out put barrier %v must be below strike %v", barrier, strike)
		}
	}
	return Barrier{Type: typ, Direction: dir, Knock: knock, K: strike, B: barrier, T: maturity}, nil
}

func (o Barrier) Maturity() float64 { return o.T }
func (o Barrier) Strike() float64   { return o.K }

func (o Barrier) breached(path []float64) bool {
	for _, s := range path {
		if o.Direction == Up && s >= o.B {
			return true
		}
		if o.Direction == Down && s <= o.B {
			return true
		}
	}
	return false
}

func (o Barrier) Payoff(path []float64) float64 {
	hit := o.breached(path)
	if (o.Knock == In && !hit) || (o.Knock == Out && hit) {
		return 0
	}
	s := path[len(path)-1]
	if o.Type == Call {
		return math.Max(s-o.K, 0)
	}
	return math.Max(o.K-s, 0)
}
