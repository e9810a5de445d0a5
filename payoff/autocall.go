package payoff

import (
	"fmt"
	"math"
)

// autocall carries the terms shared by the callable structured products.
// Barriers and coupons are quoted per 100 of notional against the initial
// fixing of the path.
type autocall struct {
	T               float64
	Freq            ObservationFrequency
	CapitalBarrier  float64
	AutocallBarrier float64
	CouponRate      float64
	// IsSecurity gears losses below the capital barrier by 100/CapitalBarrier.
	IsSecurity bool
	// IsPlus accrues missed coupons and pays them on the next barrier hit.
	IsPlus bool
}

func (a autocall) Maturity() float64               { return a.T }
func (a autocall) Frequency() ObservationFrequency { return a.Freq }

func (a autocall) validate() error {
	if a.T <= 0 {
		return fmt.Errorf("payoff: maturity must be positive, got %v", a.T)
	}
	if a.Freq <= 0 {
		return fmt.Errorf("payoff: observation frequency must be positive, got %d", a.Freq)
	}
	if a.CapitalBarrier <= 0 || a.AutocallBarrier <= 0 {
		return fmt.Errorf("payoff: barriers must be positive")
	}
	if a.CouponRate < 0 {
		return fmt.Errorf("payoff: coupon rate must be non-negative, got %v", a.CouponRate)
	}
	if a.numObservations() < 1 {
		return fmt.Errorf("payoff: maturity %v spans no observation at frequency %d", a.T, a.Freq)
	}
	return nil
}

// numObservations is the scheduled observation count excluding the start.
func (a autocall) numObservations() int {
	return int(a.T * float64(a.Freq))
}

// geared applies the capital protection rule to a final level below the
// capital barrier.
func (a autocall) geared(finalLevel, coupons float64) float64 {
	if a.IsSecurity {
		gearing := 100.0 / a.CapitalBarrier
		loss := (a.CapitalBarrier - finalLevel) * gearing
		return math.Max(0, 100.0-loss+coupons)
	}
	return math.Max(0, finalLevel+coupons)
}

// Phoenix pays a periodic coupon whenever the underlying closes above the
// coupon barrier, redeems early above the autocall barrier, and protects
// capital above the capital barrier at maturity.
type Phoenix struct {
	autocall
	CouponBarrier float64
}

func NewPhoenix(maturity float64, freq ObservationFrequency, capitalBarrier, autocallBarrier, couponRate, couponBarrier float64, isSecurity, isPlus bool) (Phoenix, error) {
	p := Phoenix{
		autocall: autocall{
			T: maturity, Freq: freq,
			CapitalBarrier:  capitalBarrier,
			AutocallBarrier: autocallBarrier,
			CouponRate:      couponRate,
			IsSecurity:      isSecurity,
			IsPlus:          isPlus,
		},
		CouponBarrier: couponBarrier,
	}
	if err := p.autocall.validate(); err != nil {
		return Phoenix{}, err
	}
	if couponBarrier <= 0 {
		return Phoenix{}, fmt.Errorf("payoff: coupon barrier must be positive, got %v", couponBarrier)
	}
	return p, nil
}

func (p Phoenix) WithCoupon(coupon float64) Callable {
	p.CouponRate = coupon
	return p
}

func (p Phoenix) PayoffCall(path []float64) (float64, int) {
	n := p.numObservations()
	idx := observationIndices(len(path), n)
	coupons, missed := 0.0, 0.0

	for t := 1; t <= n; t++ {
		level := path[idx[t]] / path[0] * 100.0
		if level >= p.AutocallBarrier {
			return 100.0 + coupons + p.CouponRate + missed, t
		}
		if level >= p.CouponBarrier {
			coupons += p.CouponRate + missed
			missed = 0
		} else if p.IsPlus {
			missed += p.CouponRate
		}
	}

	final := path[len(path)-1] / path[0] * 100.0
	if final >= p.CapitalBarrier {
		return 100.0 + coupons + missed, n
	}
	return p.geared(final, coupons), n
}

// Eagle redeems early above the autocall barrier paying one coupon per
// elapsed observation, with no periodic coupons otherwise.
type Eagle struct {
	autocall
}

func NewEagle(maturity float64, freq ObservationFrequency, capitalBarrier, autocallBarrier, couponRate float64, isSecurity, isPlus bool) (Eagle, error) {
	e := Eagle{
		autocall: autocall{
			T: maturity, Freq: freq,
			CapitalBarrier:  capitalBarrier,
			AutocallBarrier: autocallBarrier,
			CouponRate:      couponRate,
			IsSecurity:      isSecurity,
			IsPlus:          isPlus,
		},
	}
	if err := e.autocall.validate(); err != nil {
		return Eagle{}, err
	}
	return e, nil
}

func (e Eagle) WithCoupon(coupon float64) Callable {
	e.CouponRate = coupon
	return e
}

func (e Eagle) PayoffCall(path []float64) (float64, int) {
	n := e.numObservations()
	idx := observationIndices(len(path), n)

	for t := 1; t <= n; t++ {
		level := path[idx[t]] / path[0] * 100.0
		if level >= e.AutocallBarrier {
			return 100.0 + float64(t)*e.CouponRate, t
		}
	}

	final := path[len(path)-1] / path[0] * 100.0
	if final >= e.CapitalBarrier {
		if e.IsPlus {
			return 100.0 + float64(n)*e.CouponRate, n
		}
		return 100.0, n
	}
	if e.IsSecurity {
		return e.geared(final, 0), n
	}
	return math.Max(0, final), n
}
