package curve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	testMaturities = []float64{0.25, 0.5, 1.0, 2.0, 5.0, 10.0}
	testRates      = []float64{0.010, 0.012, 0.015, 0.018, 0.022, 0.025}
)

func TestRateCurveRecoversPillars(t *testing.T) {
	testCases := []struct {
		name   string
		method string
		tol    float64
	}{
		{name: "linear", method: "linear", tol: 1e-12},
		{name: "cubic", method: "cubic", tol: 1e-10},
		{name: "nelson-siegel", method: "nelson-siegel", tol: 2e-3},
		{name: "svensson", method: "svensson", tol: 2e-3},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := NewRateCurve(testMaturities, testRates, tc.method)
			require.NoError(t, err)
			for i, m := range testMaturities {
				r, err := c.Rate(m)
				require.NoError(t, err)
				require.InDelta(t, testRates[i], r, tc.tol)
			}
		})
	}
}

func TestRateCurveFlatExtrapolation(t *testing.T) {
	for _, method := range []string{"linear", "cubic"} {
		c, err := NewRateCurve(testMaturities, testRates, method)
		require.NoError(t, err)

		short, err := c.Rate(0.01)
		require.NoError(t, err)
		require.InDelta(t, testRates[0], short, 1e-12)

		long, err := c.Rate(30.0)
		require.NoError(t, err)
		require.InDelta(t, testRates[len(testRates)-1], long, 1e-12)
	}
}

func TestDiscountFactorRoundTrip(t *testing.T) {
	c, err := NewRateCurve(testMaturities, testRates, "linear")
	require.NoError(t, err)

	for _, m := range []float64{0.5, 1.0, 3.0, 7.5} {
		df, err := c.DiscountFactor(m)
		require.NoError(t, err)
		require.Greater(t, df, 0.0)
		require.LessOrEqual(t, df, 1.0)

		r, err := c.Rate(m)
		require.NoError(t, err)
		require.InDelta(t, r, -math.Log(df)/m, 1e-12)
	}
}

func TestForwardDiscountFactorConsistency(t *testing.T) {
	c, err := NewRateCurve(testMaturities, testRates, "cubic")
	require.NoError(t, err)

	t1, t2 := 1.0, 3.0
	df1, err := c.DiscountFactor(t1)
	require.NoError(t, err)
	df2, err := c.DiscountFactor(t2)
	require.NoError(t, err)
	fdf, err := c.ForwardDiscountFactor(t1, t2)
	require.NoError(t, err)

	// DF(0,t2) = DF(0,t1) * DF(t1,t2)
	require.InDelta(t, df2, df1*fdf, 1e-12)
}

func TestRateCurveNotCalibrated(t *testing.T) {
	c := &RateCurve{Maturities: testMaturities, Rates: testRates}
	_, err := c.Rate(1.0)
	require.ErrorIs(t, err, ErrNotCalibrated)
	_, err = c.DiscountFactor(1.0)
	require.ErrorIs(t, err, ErrNotCalibrated)
}

func TestRateCurveBump(t *testing.T) {
	c, err := NewRateCurve(testMaturities, testRates, "linear")
	require.NoError(t, err)

	bumped, err := c.Bump(0.0001)
	require.NoError(t, err)

	r0, err := c.Rate(2.0)
	require.NoError(t, err)
	r1, err := bumped.Rate(2.0)
	require.NoError(t, err)
	require.InDelta(t, r0+0.0001, r1, 1e-12)

	// original untouched
	r2, err := c.Rate(2.0)
	require.NoError(t, err)
	require.Equal(t, r0, r2)
}

func TestInterpolatorValidation(t *testing.T) {
	testCases := []struct {
		name       string
		maturities []float64
		rates      []float64
	}{
		{name: "length mismatch", maturities: []float64{1, 2}, rates: []float64{0.01}},
		{name: "too few pillars", maturities: []float64{1}, rates: []float64{0.01}},
		{name: "not increasing", maturities: []float64{1, 1, 2}, rates: []float64{0.01, 0.02, 0.03}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var l Linear
			require.Error(t, l.Calibrate(tc.maturities, tc.rates))
		})
	}
}

func TestUnknownMethod(t *testing.T) {
	_, err := NewRateCurve(testMaturities, testRates, "quartic")
	require.Error(t, err)
}
