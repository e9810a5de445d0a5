package payoff

import (
	"fmt"
)

// Leg is one signed position inside a strategy.
type Leg struct {
	Option PathPayoff
	Long   bool
}

// Strategy is a linear combination of options priced leg by leg.
type Strategy struct {
	Name string
	Legs []Leg
}

// Maturity reports the longest leg maturity.
func (s Strategy) Maturity() float64 {
	m := 0.0
	for _, l := range s.Legs {
		if t := l.Option.Maturity(); t > m {
			m = t
		}
	}
	return m
}

// Payoff sums the signed leg payoffs over one path. Note this treats all legs
// as sharing the path grid; the engine prices legs independently instead when
// maturities differ.
func (s Strategy) Payoff(path []float64) float64 {
	total := 0.0
	for _, l := range s.Legs {
		p := l.Option.Payoff(path)
		if l.Long {
			total += p
		} else {
			total -= p
		}
	}
	return total
}

func mustEuropean(typ OptionType, strike, maturity float64) (European, error) {
	return NewEuropean(typ, strike, maturity)
}

// NewStraddle is long (or short) a call and a put at the same strike.
func NewStraddle(maturity, strike float64, longCall, longPut bool) (Strategy, error) {
	call, err := mustEuropean(Call, strike, maturity)
	if err != nil {
		return Strategy{}, err
	}
	put, err := mustEuropean(Put, strike, maturity)
	if err != nil {
		return Strategy{}, err
	}
	return Strategy{Name: "straddle", Legs: []Leg{{call, longCall}, {put, longPut}}}, nil
}

// NewStrangle is a straddle with the put struck below the call.
func NewStrangle(maturity, strikePut, strikeCall float64, longCall, longPut bool) (Strategy, error) {
	if strikePut >= strikeCall {
		return Strategy{}, fmt.Errorf("payoff: strangle put strike %v must be below call strike %v", strikePut, strikeCall)
	}
	call, err := mustEuropean(Call, strikeCall, maturity)
	if err != nil {
		return Strategy{}, err
	}
	put, err := mustEuropean(Put, strikePut, maturity)
	if err != nil {
		return Strategy{}, err
	}
	return Strategy{Name: "strangle", Legs: []Leg{{call, longCall}, {put, longPut}}}, nil
}

// NewBullSpread is long the low-strike call, short the high-strike call.
func NewBullSpread(maturity, strikeLow, strikeHigh float64) (Strategy, error) {
	if strikeLow >= strikeHigh {
		return Strategy{}, fmt.Errorf("payoff: bull spread strikes must be increasing")
	}
	low, err := mustEuropean(Call, strikeLow, maturity)
	if err != nil {
		return Strategy{}, err
	}
	high, err := mustEuropean(Call, strikeHigh, maturity)
	if err != nil {
		return Strategy{}, err
	}
	return Strategy{Name: "bull spread", Legs: []Leg{{low, true}, {high, false}}}, nil
}

// NewBearSpread is long the high-strike put, short the low-strike put.
func NewBearSpread(maturity, strikeLow, strikeHigh float64) (Strategy, error) {
	if strikeLow >= strikeHigh {
		return Strategy{}, fmt.Errorf("payoff: bear spread strikes must be increasing")
	}
	low, err := mustEuropean(Put, strikeLow, maturity)
	if err != nil {
		return Strategy{}, err
	}
	high, err := mustEuropean(Put, strikeHigh, maturity)
	if err != nil {
		return Strategy{}, err
	}
	return Strategy{Name: "bear spread", Legs: []Leg{{low, false}, {high, true}}}, nil
}

// NewButterfly is long the wings, short two calls at the body strike.
func NewButterfly(maturity, strikeLow, strikeMid, strikeHigh float64) (Strategy, error) {
	if !(strikeLow < strikeMid && strikeMid < strikeHigh) {
		return Strategy{}, fmt.Errorf("payoff: butterfly strikes must be increasing")
	}
	low, err := mustEuropean(Call, strikeLow, maturity)
	if err != nil {
		return Strategy{}, err
	}
	mid, err := mustEuropean(Call, strikeMid, maturity)
	if err != nil {
		return Strategy{}, err
	}
	high, err := mustEuropean(Call, strikeHigh, maturity)
	if err != nil {
		return Strategy{}, err
	}
	return Strategy{Name: "butterfly", Legs: []Leg{{low, true}, {mid, false}, {mid, false}, {high, true}}}, nil
}

// NewCondor is long the outer strikes, short the two inner ones.
func NewCondor(maturity, k1, k2, k3, k4 float64) (Strategy, error) {
	if !(k1 < k2 && k2 < k3 && k3 < k4) {
		return Strategy{}, fmt.Errorf("payoff: condor strikes must be increasing")
	}
	c1, err := mustEuropean(Call, k1, maturity)
	if err != nil {
		return Strategy{}, err
	}
	c2, err := mustEuropean(Call, k2, maturity)
	if err != nil {
		return Strategy{}, err
	}
	c3, err := mustEuropean(Call, k3, maturity)
	if err != nil {
		return Strategy{}, err
	}
	c4, err := mustEuropean(Call, k4, maturity)
	if err != nil {
		return Strategy{}, err
	}
	return Strategy{Name: "condor", Legs: []Leg{{c1, true}, {c2, false}, {c3, false}, {c4, true}}}, nil
}

// NewCalendarSpread is short the near call, long the far call, same strike.
func NewCalendarSpread(strike, maturityNear, maturityFar float64) (Strategy, error) {
	if maturityNear >= maturityFar {
		return Strategy{}, fmt.Errorf("payoff: calendar spread maturities must be increasing")
	}
	near, err := mustEuropean(Call, strike, maturityNear)
	if err != nil {
		return Strategy{}, err
	}
	far, err := mustEuropean(Call, strike, maturityFar)
	if err != nil {
		return Strategy{}, err
	}
	return Strategy{Name: "calendar spread", Legs: []Leg{{near, false}, {far, true}}}, nil
}

// NewCollar is long the put, short the call.
func NewCollar(maturity, strikePut, strikeCall float64) (Strategy, error) {
	if strikePut >= strikeCall {
		return Strategy{}, fmt.Errorf("payoff: collar put strike %v must be below call strike %v", strikePut, strikeCall)
	}
	call, err := mustEuropean(Call, strikeCall, maturity)
	if err != nil {
		return Strategy{}, err
	}
	put, err := mustEuropean(Put, strikePut, maturity)
	if err != nil {
		return Strategy{}, err
	}
	return Strategy{Name: "collar", Legs: []Leg{{call, false}, {put, true}}}, nil
}

// NewStrip is one call and two puts at the same strike.
func NewStrip(maturity, strike float64, long bool) (Strategy, error) {
	call, err := mustEuropean(Call, strike, maturity)
	if err != nil {
		return Strategy{}, err
	}
	put, err := mustEuropean(Put, strike, maturity)
	if err != nil {
		return Strategy{}, err
	}
	return Strategy{Name: "strip", Legs: []Leg{{call, long}, {put, long}, {put, long}}}, nil
}

// NewStrap is two calls and one put at the same strike.
func NewStrap(maturity, strike float64, long bool) (Strategy, error) {
	call, err := mustEuropean(Call, strike, maturity)
	if err != nil {
		return Strategy{}, err
	}
	put, err := mustEuropean(Put, strike, maturity)
	if err != nil {
		return Strategy{}, err
	}
	return Strategy{Name: "strap", Legs: []Leg{{call, long}, {call, long}, {put, long}}}, nil
}
