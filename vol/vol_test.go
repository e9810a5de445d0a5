package vol

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/banachtech/quantpricer/curve"
)

// flatQuotes builds a grid of quotes all at the same implied vol.
func flatQuotes(sigma float64) []Quote {
	var quotes []Quote
	for _, t := range []float64{0.25, 0.5, 1.0, 2.0} {
		for _, k := range []float64{80, 90, 100, 110, 120} {
			quotes = append(quotes, Quote{Strike: k, Maturity: t, Vol: sigma})
		}
	}
	return quotes
}

// skewQuotes builds a grid with a mild downward skew in log-moneyness.
func skewQuotes() []Quote {
	var quotes []Quote
	for _, t := range []float64{0.25, 0.5, 1.0, 2.0} {
		for _, k := range []float64{80, 90, 100, 110, 120} {
			lm := math.Log(k / 100.0)
			quotes = append(quotes, Quote{Strike: k, Maturity: t, Vol: 0.2 - 0.1*lm + 0.05*lm*lm})
		}
	}
	return quotes
}

func TestBSPutCallParity(t *testing.T) {
	s, k, r, sigma, tt := 100.0, 95.0, 0.03, 0.25, 1.5
	c := BSCall(s, k, r, sigma, tt)
	p := BSPut(s, k, r, sigma, tt)
	require.InDelta(t, s-k*math.Exp(-r*tt), c-p, 1e-10)
}

func TestBSKnownValue(t *testing.T) {
	// Hull reference: S=42, K=40, r=0.1, sigma=0.2, T=0.5
	require.InDelta(t, 4.7594, BSCall(42, 40, 0.1, 0.2, 0.5), 1e-3)
	require.InDelta(t, 0.8086, BSPut(42, 40, 0.1, 0.2, 0.5), 1e-3)
}

func TestImpliedVolRoundTrip(t *testing.T) {
	s, k, r, tt := 100.0, 105.0, 0.02, 1.0
	for _, sigma := range []float64{0.1, 0.2, 0.4} {
		price := BSCall(s, k, r, sigma, tt)
		require.InDelta(t, sigma, ImpliedVol(price, s, k, r, tt, true), 1e-6)
	}
}

func TestSVIFitsFlatSurface(t *testing.T) {
	var s SVI
	require.NoError(t, s.Calibrate(100, flatQuotes(0.2)))
	for _, tt := range []float64{0.25, 0.5, 1.0, 2.0} {
		for _, k := range []float64{85.0, 100.0, 115.0} {
			v, err := s.Vol(k, tt)
			require.NoError(t, err)
			require.InDelta(t, 0.2, v, 5e-3)
		}
	}
}

func TestSVIResidualsOnSkew(t *testing.T) {
	quotes := skewQuotes()
	var s SVI
	require.NoError(t, s.Calibrate(100, quotes))
	for _, q := range quotes {
		v, err := s.Vol(q.Strike, q.Maturity)
		require.NoError(t, err)
		require.InDelta(t, q.Vol, v, 1e-2)
	}
}

func TestSVIFitsWithRateCurve(t *testing.T) {
	c, err := curve.NewRateCurve([]float64{0.25, 1.0, 5.0}, []float64{0.03, 0.03, 0.03}, "linear")
	require.NoError(t, err)

	quotes := skewQuotes()
	s := SVI{Curve: c}
	require.NoError(t, s.Calibrate(100, quotes))
	for _, q := range quotes {
		v, err := s.Vol(q.Strike, q.Maturity)
		require.NoError(t, err)
		require.InDelta(t, q.Vol, v, 1e-2)
	}

	// an uncalibrated curve falls back to a zero weighting rate
	s = SVI{Curve: &curve.RateCurve{}}
	require.NoError(t, s.Calibrate(100, flatQuotes(0.2)))
}

func TestSSVIATMInterpolation(t *testing.T) {
	// no exact ATM quote: interpolate between the bracketing strikes
	quotes := []Quote{
		{Strike: 90, Maturity: 1, Vol: 0.18},
		{Strike: 110, Maturity: 1, Vol: 0.22},
	}
	require.InDelta(t, 0.20, atmVol(100, quotes), 1e-12)

	// an exact ATM quote wins over the neighbors
	quotes = append(quotes, Quote{Strike: 100, Maturity: 1, Vol: 0.19})
	require.InDelta(t, 0.19, atmVol(100, quotes), 1e-12)

	// spot outside the quoted range uses the nearest quote
	require.InDelta(t, 0.18, atmVol(80, quotes[:2]), 1e-12)
	require.InDelta(t, 0.22, atmVol(120, quotes[:2]), 1e-12)
}

func TestSSVIFitsFlatSurface(t *testing.T) {
	var s SSVI
	require.NoError(t, s.Calibrate(100, flatQuotes(0.25)))
	for _, tt := range []float64{0.25, 1.0, 2.0} {
		v, err := s.Vol(100, tt)
		require.NoError(t, err)
		require.InDelta(t, 0.25, v, 1e-2)
	}
}

func TestLocalVolFlatSurface(t *testing.T) {
	// On a flat implied surface the local vol equals the implied vol.
	l := Local{Implied: &SVI{}, Rate: 0.0}
	require.NoError(t, l.Calibrate(100, flatQuotes(0.2)))
	for _, k := range []float64{90.0, 100.0, 110.0} {
		v, err := l.Vol(k, 1.0)
		require.NoError(t, err)
		require.InDelta(t, 0.2, v, 2e-2)
	}
}

func TestShiftAddsDelta(t *testing.T) {
	var s SVI
	require.NoError(t, s.Calibrate(100, flatQuotes(0.2)))
	shifted := &Shift{Surface: &s, Delta: 0.01}
	base, err := s.Vol(100, 1.0)
	require.NoError(t, err)
	v, err := shifted.Vol(100, 1.0)
	require.NoError(t, err)
	require.InDelta(t, base+0.01, v, 1e-12)
}

func TestSurfaceNotCalibrated(t *testing.T) {
	var s SVI
	_, err := s.Vol(100, 1.0)
	require.ErrorIs(t, err, ErrNotCalibrated)

	var ss SSVI
	_, err = ss.Vol(100, 1.0)
	require.ErrorIs(t, err, ErrNotCalibrated)
}

func TestQuoteValidation(t *testing.T) {
	testCases := []struct {
		name   string
		spot   float64
		quotes []Quote
	}{
		{name: "bad spot", spot: -1, quotes: flatQuotes(0.2)},
		{name: "empty quotes", spot: 100, quotes: nil},
		{name: "bad strike", spot: 100, quotes: []Quote{{Strike: -5, Maturity: 1, Vol: 0.2}}},
		{name: "bad vol", spot: 100, quotes: []Quote{{Strike: 100, Maturity: 1, Vol: 0}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var s SVI
			require.Error(t, s.Calibrate(tc.spot, tc.quotes))
		})
	}
}
