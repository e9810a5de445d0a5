package payoff

import (
	"math"
)

// European is a plain call or put paying at maturity.
type European struct {
	Type OptionType
	K    float64
	T    float64
}

// NewEuropean validates and builds a european option.
func NewEuropean(typ OptionType, strike, maturity float64) (European, error) {
	return European{Type: typ, K: strike, T: maturity}, validateOption(maturity, strike)
}

func (o European) Maturity() float64 { return o.T }
func (o European) Strike() float64   { return o.K }

func (o European) Payoff(path []float64) float64 {
	s := path[len(path)-1]
	if o.Type == Call {
		return math.Max(s-o.K, 0)
	}
	return math.Max(o.K-s, 0)
}

// Binary is a cash-or-nothing option paying a fixed coupon when it finishes
// in the money.
type Binary struct {
	Type   OptionType
	K      float64
	T      float64
	Coupon float64
}

func NewBinary(typ OptionType, strike, maturity, coupon float64) (Binary, error) {
	if err := validateOption(maturity, strike); err != nil {
		return Binary{}, err
	}
	return Binary{Type: typ, K: strike, T: maturity, Coupon: coupon}, nil
}

func (o Binary) Maturity() float64 { return o.T }
func (o Binary) Strike() float64   { return o.K }

func (o Binary) Payoff(path []float64) float64 {
	s := path[len(path)-1]
	if o.Type == Call && s > o.K {
		return o.Coupon
	}
	if o.Type == Put && s < o.K {
		return o.Coupon
	}
	return 0
}
