package payoff

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Asian pays on the arithmetic average of the whole path.
type Asian struct {
	Type OptionType
	K    float64
	T    float64
}

func NewAsian(typ OptionType, strike, maturity float64) (Asian, error) {
	return Asian{Type: typ, K: strike, T: maturity}, validateOption(maturity, strike)
}

func (o Asian) Maturity() float64 { return o.T }
func (o Asian) Strike() float64   { return o.K }

func (o Asian) Payoff(path []float64) float64 {
	avg := stat.Mean(path, nil)
	if o.Type == Call {
		return math.Max(avg-o.K, 0)
	}
	return math.Max(o.K-avg, 0)
}

// Lookback pays on the path extreme: the max for a call, the min for a put.
type Lookback struct {
	Type OptionType
	K    float64
	T    float64
}

func NewLookback(typ OptionType, strike, maturity float64) (Lookback, error) {
	return Lookback{Type: typ, K: strike, T: maturity}, validateOption(maturity, strike)
}

func (o Lookback) Maturity() float64 { return o.T }
func (o Lookback) Strike() float64   { return o.K }

func (o Lookback) Payoff(path []float64) float64 {
	if o.Type == Call {
		max := path[0]
		for _, s := range path[1:] {
			if s > max {
				max = s
			}
		}
		return math.Max(max-o.K, 0)
	}
	min := path[0]
	for _, s := range path[1:] {
		if s < min {
			min = s
		}
	}
	return math.Max(o.K-min, 0)
}

// FloatingStrike uses the path average as its strike.
type FloatingStrike struct {
	Type OptionType
	T    float64
}

func NewFloatingStrike(typ OptionType, maturity float64) (FloatingStrike, error) {
	return FloatingStrike{Type: typ, T: maturity}, validateOption(maturity, 1)
}

func (o FloatingStrike) Maturity() float64 { return o.T }

func (o FloatingStrike) Payoff(path []float64) float64 {
	avg := stat.Mean(path, nil)
	s := path[len(path)-1]
	if o.Type == Call {
		return math.Max(s-avg, 0)
	}
	return math.Max(avg-s, 0)
}

// ForwardStart strikes at the initial fixing of the path.
type ForwardStart struct {
	Type OptionType
	T    float64
}

func NewForwardStart(typ OptionType, maturity float64) (ForwardStart, error) {
	return ForwardStart{Type: typ, T: maturity}, validateOption(maturity, 1)
}

func (o ForwardStart) Maturity() float64 { return o.T }

func (o ForwardStart) Payoff(path []float64) float64 {
	k := path[0]
	s := path[len(path)-1]
	if o.Type == Call {
		return math.Max(s-k, 0)
	}
	return math.Max(k-s, 0)
}

// Chooser pays the better of the call and the put payoff at maturity.
type Chooser struct {
	K float64
	T float64
}

func NewChooser(strike, maturity float64) (Chooser, error) {
	return Chooser{K: strike, T: maturity}, validateOption(maturity, strike)
}

func (o Chooser) Maturity() float64 { return o.T }
func (o Chooser) Strike() float64   { return o.K }

func (o Chooser) Payoff(path []float64) float64 {
	s := path[len(path)-1]
	return math.Max(math.Max(s-o.K, 0), math.Max(o.K-s, 0))
}
