package rates

import (
	"fmt"
	"time"

	"github.com/banachtech/quantpricer/market"
	"github.com/banachtech/quantpricer/util"
)

// InterestRateSwap is a vanilla fixed-for-floating swap. The floating leg
// projects forward rates off the market's curve, with an optional spread in
// basis points. Payment dates roll forward off weekends and the given
// holidays.
type InterestRateSwap struct {
	Notional    float64
	Emission    time.Time
	Maturity    time.Time
	FixedRate   float64
	FloatSpread float64
	Frequency   int
	DayCount    util.DayCount
	Market      market.Market
	Holidays    []time.Time
}

func NewInterestRateSwap(notional float64, emission, maturity time.Time, fixedRate, floatSpreadBp float64, frequency int, dc util.DayCount, m market.Market, hols []time.Time) (*InterestRateSwap, error) {
	if notional <= 0 {
		return nil, fmt.Errorf("rates: notional must be positive, got %v", notional)
	}
	if !maturity.After(emission) {
		return nil, fmt.Errorf("rates: maturity must be after emission")
	}
	if frequency < 1 || 12%frequency != 0 {
		return nil, fmt.Errorf("rates: frequency must divide 12, got %d", frequency)
	}
	return &InterestRateSwap{
		Notional:    notional,
		Emission:    emission,
		Maturity:    maturity,
		FixedRate:   fixedRate,
		FloatSpread: floatSpreadBp,
		Frequency:   frequency,
		DayCount:    dc,
		Market:      m,
		Holidays:    hols,
	}, nil
}

// PaymentDates generates the rolled schedule at the swap interval, keeping
// only dates after the valuation date and always ending at maturity.
func (s *InterestRateSwap) PaymentDates(valuation time.Time) []time.Time {
	var dates []time.Time
	for _, d := range util.CouponDates(s.Emission, s.Maturity, 12/s.Frequency, s.Holidays) {
		if d.After(valuation) {
			dates = append(dates, d)
		}
	}
	return dates
}

func yearsBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours() / 24.0 / 365.0
}

// Annuity sums year-fraction-weighted discount factors over the remaining
// schedule.
func (s *InterestRateSwap) Annuity(valuation time.Time) (float64, error) {
	annuity := 0.0
	prev := s.Emission
	for _, d := range s.PaymentDates(valuation) {
		yf, err := util.YearFraction(prev, d, s.DayCount)
		if err != nil {
			return 0, err
		}
		df, err := s.Market.DiscountFactor(yearsBetween(valuation, d))
		if err != nil {
			return 0, err
		}
		annuity += yf * df
		prev = d
	}
	return annuity, nil
}

// FixedLegValue is the PV of the fixed coupons.
func (s *InterestRateSwap) FixedLegValue(valuation time.Time) (float64, error) {
	annuity, err := s.Annuity(valuation)
	if err != nil {
		return 0, err
	}
	return s.FixedRate * s.Notional * annuity, nil
}

// FloatLegValue projects each period's forward rate off the curve and
// discounts the resulting cashflows. The first running period uses the spot
// rate since its fixing is already in the past.
func (s *InterestRateSwap) FloatLegValue(valuation time.Time) (float64, error) {
	pv := 0.0
	prev := s.Emission
	for _, d := range s.PaymentDates(valuation) {
		t1 := yearsBetween(valuation, prev)
		t2 := yearsBetween(valuation, d)
		yf, err := util.YearFraction(prev, d, s.DayCount)
		if err != nil {
			return 0, err
		}

		var fwd float64
		if t1 <= 0 {
			fwd, err = s.Market.Rate(t2)
		} else {
			fwd, err = s.Market.ForwardRate(t1, t2)
		}
		if err != nil {
			return 0, err
		}
		fwd += s.FloatSpread / 10000.0

		df, err := s.Market.DiscountFactor(t2)
		if err != nil {
			return 0, err
		}
		pv += s.Notional * fwd * yf * df
		prev = d
	}
	return pv, nil
}

// PresentValue is the receiver-floating NPV: float leg minus fixed leg.
func (s *InterestRateSwap) PresentValue(valuation time.Time) (float64, error) {
	fixed, err := s.FixedLegValue(valuation)
	if err != nil {
		return 0, err
	}
	float, err := s.FloatLegValue(valuation)
	if err != nil {
		return 0, err
	}
	return float - fixed, nil
}

// ParRate solves for the fixed rate that zeroes the NPV.
func (s *InterestRateSwap) ParRate(valuation time.Time) (float64, error) {
	annuity, err := s.Annuity(valuation)
	if err != nil {
		return 0, err
	}
	if annuity == 0 {
		return 0, fmt.Errorf("rates: zero annuity, par rate undefined")
	}
	float, err := s.FloatLegValue(valuation)
	if err != nil {
		return 0, err
	}
	return float / (s.Notional * annuity), nil
}
