package payoff

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// obsPath builds a path whose scheduled observation levels (per 100 of the
// initial fixing) are exactly the given values, one step per observation.
func obsPath(levels ...float64) []float64 {
	path := make([]float64, len(levels)+1)
	path[0] = 100.0
	for i, l := range levels {
		path[i+1] = l
	}
	return path
}

func TestPhoenixPayoff(t *testing.T) {
	testCases := []struct {
		name       string
		isSecurity bool
		isPlus     bool
		levels     []float64
		wantCash   float64
		wantCall   int
	}{
		{
			name:     "autocalled first observation",
			levels:   []float64{125, 90, 90},
			wantCash: 105, // 100 + coupon
			wantCall: 1,
		},
		{
			name:     "coupons then autocall",
			levels:   []float64{95, 126, 90},
			wantCash: 110, // coupon at t1 + redemption coupon at t2
			wantCall: 2,
		},
		{
			name:     "held to maturity above capital barrier",
			levels:   []float64{95, 95, 95},
			wantCash: 115, // three barrier coupons + par
			wantCall: 3,
		},
		{
			name:     "memory coupon with plus feature",
			isPlus:   true,
			levels:   []float64{50, 95, 95},
			wantCash: 115, // missed coupon recovered at t2
			wantCall: 3,
		},
		{
			name:     "capital loss without security",
			levels:   []float64{50, 50, 40},
			wantCash: 40,
			wantCall: 3,
		},
		{
			name:       "capital loss with security gearing",
			isSecurity: true,
			levels:     []float64{50, 50, 40},
			wantCash:   100 - (60-40)*(100.0/60.0),
			wantCall:   3,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := NewPhoenix(3.0, Annual, 60, 120, 5, 75, tc.isSecurity, tc.isPlus)
			require.NoError(t, err)
			cash, call := p.PayoffCall(obsPath(tc.levels...))
			require.InDelta(t, tc.wantCash, cash, 1e-9)
			require.Equal(t, tc.wantCall, call)
		})
	}
}

func TestEaglePayoff(t *testing.T) {
	e, err := NewEagle(3.0, Annual, 60, 120, 5, false, false)
	require.NoError(t, err)

	// called at the second observation: two coupons
	cash, call := e.PayoffCall(obsPath(110, 125, 90))
	require.InDelta(t, 110.0, cash, 1e-9)
	require.Equal(t, 2, call)

	// held to maturity above the capital barrier: par only
	cash, call = e.PayoffCall(obsPath(90, 90, 90))
	require.InDelta(t, 100.0, cash, 1e-9)
	require.Equal(t, 3, call)

	// plus feature pays full coupons at maturity
	plus, err := NewEagle(3.0, Annual, 60, 120, 5, false, true)
	require.NoError(t, err)
	cash, _ = plus.PayoffCall(obsPath(90, 90, 90))
	require.InDelta(t, 115.0, cash, 1e-9)

	// capital loss below the barrier
	cash, _ = e.PayoffCall(obsPath(90, 90, 40))
	require.InDelta(t, 40.0, cash, 1e-9)
}

func TestWithCouponDoesNotMutate(t *testing.T) {
	p, err := NewPhoenix(3.0, Annual, 60, 120, 5, 75, false, false)
	require.NoError(t, err)

	q := p.WithCoupon(10)
	require.Equal(t, 5.0, p.CouponRate)

	cash, _ := q.PayoffCall(obsPath(125, 90, 90))
	require.InDelta(t, 110.0, cash, 1e-9)
}

func TestAutocallValidation(t *testing.T) {
	_, err := NewPhoenix(-1, Annual, 60, 120, 5, 75, false, false)
	require.Error(t, err)
	_, err = NewPhoenix(3, Annual, 0, 120, 5, 75, false, false)
	require.Error(t, err)
	_, err = NewPhoenix(3, Annual, 60, 120, -5, 75, false, false)
	require.Error(t, err)
	_, err = NewEagle(3, 0, 60, 120, 5, false, false)
	require.Error(t, err)

	// maturity shorter than one observation period has no schedule to walk
	_, err = NewPhoenix(0.5, Annual, 60, 120, 5, 75, false, false)
	require.Error(t, err)
	_, err = NewEagle(0.25, SemiAnnual, 60, 120, 5, false, false)
	require.Error(t, err)
}
