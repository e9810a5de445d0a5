package rates

import (
	"fmt"
	"math"
	"time"

	"github.com/banachtech/quantpricer/util"
)

// CouponBond is a fixed coupon bond with a regular payment schedule. Payment
// dates roll forward off weekends and the given holidays.
type CouponBond struct {
	Notional   float64
	Emission   time.Time
	Maturity   time.Time
	CouponRate float64
	Frequency  int
	DayCount   util.DayCount
	Holidays   []time.Time

	coupons []time.Time
}

// NewCouponBond validates the terms and generates the coupon schedule.
func NewCouponBond(notional float64, emission, maturity time.Time, couponRate float64, frequency int, dc util.DayCount, hols []time.Time) (*CouponBond, error) {
	if notional <= 0 {
		return nil, fmt.Errorf("rates: notional must be positive, got %v", notional)
	}
	if !maturity.After(emission) {
		return nil, fmt.Errorf("rates: maturity must be after emission")
	}
	if couponRate < 0 {
		return nil, fmt.Errorf("rates: coupon rate must be non-negative, got %v", couponRate)
	}
	if frequency < 1 || 12%frequency != 0 {
		return nil, fmt.Errorf("rates: frequency must divide 12, got %d", frequency)
	}
	b := &CouponBond{
		Notional:   notional,
		Emission:   emission,
		Maturity:   maturity,
		CouponRate: couponRate,
		Frequency:  frequency,
		DayCount:   dc,
		Holidays:   hols,
	}
	b.coupons = util.CouponDates(emission, maturity, 12/frequency, hols)
	return b, nil
}

// CouponDates returns the full payment schedule.
func (b *CouponBond) CouponDates() []time.Time {
	return append([]time.Time(nil), b.coupons...)
}

// AccruedInterest returns the elapsed fraction of the running coupon period
// under the bond's day count convention.
func (b *CouponBond) AccruedInterest(valuation time.Time) float64 {
	last := b.Emission
	next := b.Maturity
	for _, c := range b.coupons {
		if !c.After(valuation) {
			last = c
		} else {
			next = c
			break
		}
	}
	since, err := util.YearFraction(last, valuation, b.DayCount)
	if err != nil {
		return 0
	}
	total, err := util.YearFraction(last, next, b.DayCount)
	if err != nil || total == 0 {
		return 0
	}
	return since / total
}

// PresentValue discounts the remaining cashflows at the given yield. Coupon
// times are offset by the accrued fraction of the running period.
func (b *CouponBond) PresentValue(valuation time.Time, ytm float64) float64 {
	var future []time.Time
	for _, c := range b.coupons {
		if c.After(valuation) {
			future = append(future, c)
		}
	}
	if len(future) == 0 {
		return 0
	}
	accrued := b.AccruedInterest(valuation)
	coupon := b.CouponRate * b.Notional / float64(b.Frequency)

	pv := 0.0
	var t float64
	for i := range future {
		t = (1.0-accrued)/float64(b.Frequency) + float64(i)/float64(b.Frequency)
		pv += coupon / math.Pow(1.0+ytm, t)
	}
	pv += b.Notional / math.Pow(1.0+ytm, t)
	return pv
}

// YTM inverts PresentValue against an observed price with a bracketed root
// search on [-0.5, 1.0].
func (b *CouponBond) YTM(valuation time.Time, price float64) (float64, error) {
	if price <= 0 {
		return 0, fmt.Errorf("rates: price must be positive, got %v", price)
	}
	return brent(func(y float64) float64 {
		return b.PresentValue(valuation, y) - price
	}, -0.5, 1.0, 1e-10, 100)
}

// ZeroCouponBond pays its notional at maturity only.
type ZeroCouponBond struct {
	Notional float64
	Emission time.Time
	Maturity time.Time
	DayCount util.DayCount
}

func NewZeroCouponBond(notional float64, emission, maturity time.Time, dc util.DayCount) (*ZeroCouponBond, error) {
	if notional <= 0 {
		return nil, fmt.Errorf("rates: notional must be positive, got %v", notional)
	}
	if !maturity.After(emission) {
		return nil, fmt.Errorf("rates: maturity must be after emission")
	}
	return &ZeroCouponBond{Notional: notional, Emission: emission, Maturity: maturity, DayCount: dc}, nil
}

// PresentValue discounts the notional from maturity at the given yield.
func (b *ZeroCouponBond) PresentValue(valuation time.Time, ytm float64) float64 {
	t, err := util.YearFraction(valuation, b.Maturity, b.DayCount)
	if err != nil {
		return 0
	}
	return b.Notional / math.Pow(1.0+ytm, t)
}

// YTM inverts PresentValue against an observed price.
func (b *ZeroCouponBond) YTM(valuation time.Time, price float64) (float64, error) {
	if price <= 0 {
		return 0, fmt.Errorf("rates: price must be positive, got %v", price)
	}
	return brent(func(y float64) float64 {
		return b.PresentValue(valuation, y) - price
	}, -0.5, 1.0, 1e-10, 100)
}
