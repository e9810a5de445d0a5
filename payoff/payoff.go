// Package payoff defines the instrument contracts consumed by the pricing
// engines: terminal and path-dependent payoffs, early-exercisable options,
// callable structured products and multi-asset baskets.
package payoff

import (
	"fmt"
)

// OptionType selects between a call and a put.
type OptionType int

const (
	Call OptionType = iota
	Put
)

func (o OptionType) String() string {
	if o == Put {
		return "put"
	}
	return "call"
}

// ObservationFrequency is the number of scheduled observations per year.
type ObservationFrequency int

const (
	Annual     ObservationFrequency = 1
	SemiAnnual ObservationFrequency = 2
	Quarterly  ObservationFrequency = 4
	Monthly    ObservationFrequency = 12
)

// Instrument is the minimal contract of anything the engines can price.
type Instrument interface {
	Maturity() float64
}

// PathPayoff is an instrument whose payoff is a function of one price path.
type PathPayoff interface {
	Instrument
	Payoff(path []float64) float64
}

// HasStrike is implemented by instruments carrying an explicit strike. The
// engines fall back on the spot as a proxy strike for everything else.
type HasStrike interface {
	Strike() float64
}

// Callable is a structured product that may redeem early. PayoffCall returns
// the cashflow per 100 notional and the observation index at which the
// product was called; held-to-maturity paths report the final index.
type Callable interface {
	Instrument
	Frequency() ObservationFrequency
	PayoffCall(path []float64) (float64, int)
	// WithCoupon returns a copy paying the given coupon rate, used by the
	// coupon solver. The receiver is not modified.
	WithCoupon(coupon float64) Callable
}

// EarlyExercise is an option exercisable before maturity.
type EarlyExercise interface {
	Instrument
	HasStrike
	Intrinsic(s float64) float64
	// ExerciseSteps returns the exercisable step indices on a grid of steps+1
	// path points, excluding the terminal step.
	ExerciseSteps(steps int) []int
}

// MultiAsset is an instrument written on several underlyings.
type MultiAsset interface {
	Instrument
	NumAssets() int
	PayoffPaths(paths [][]float64) float64
}

func validateOption(maturity, strike float64) error {
	if maturity <= 0 {
		return fmt.Errorf("payoff: maturity must be positive, got %v", maturity)
	}
	if strike <= 0 {
		return fmt.Errorf("payoff: strike must be positive, got %v", strike)
	}
	return nil
}

// observationIndices maps numObs+1 evenly spaced observations (including the
// start point) onto a path of pathLen points.
func observationIndices(pathLen, numObs int) []int {
	idx := make([]int, numObs+1)
	for i := range idx {
		idx[i] = i * (pathLen - 1) / numObs
	}
	return idx
}
