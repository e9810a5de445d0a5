package mc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func TestBlackScholesPathShape(t *testing.T) {
	m, err := NewBlackScholes(100, 1.0, 252, 0.05, 0.2)
	require.NoError(t, err)

	p := m.Path(42)
	require.Len(t, p, 253)
	require.Equal(t, 100.0, p[0])
	for _, s := range p {
		require.Greater(t, s, 0.0)
	}
}

func TestPathSeedReproducibility(t *testing.T) {
	m, err := NewBlackScholes(100, 1.0, 100, 0.03, 0.25)
	require.NoError(t, err)

	require.Equal(t, m.Path(7), m.Path(7))
	require.NotEqual(t, m.Path(7), m.Path(8))

	h, err := NewHeston(100, 1.0, 100, 0.03, 0.04, 1.0, 0.04, 0.1, -0.5)
	require.NoError(t, err)
	require.Equal(t, h.Path(7), h.Path(7))
}

func TestBlackScholesTerminalMoments(t *testing.T) {
	m, err := NewBlackScholes(100, 1.0, 50, 0.05, 0.2)
	require.NoError(t, err)

	n := 20000
	terminal := make([]float64, n)
	for i := 0; i < n; i++ {
		p := m.Path(uint64(i))
		terminal[i] = math.Log(p[len(p)-1] / 100.0)
	}
	// log return ~ N((r - 0.5*sigma^2)T, sigma^2 T)
	require.InDelta(t, 0.05-0.5*0.04, stat.Mean(terminal, nil), 5e-3)
	require.InDelta(t, 0.2, stat.StdDev(terminal, nil), 5e-3)
}

func TestHestonVarianceFullTruncation(t *testing.T) {
	// high vol-of-vol drives the discretized variance negative, the scheme
	// must still produce finite prices and a non-negative variance path
	h, err := NewHeston(100, 1.0, 252, 0.02, 0.04, 0.5, 0.04, 1.0, -0.7)
	require.NoError(t, err)

	for seed := uint64(0); seed < 50; seed++ {
		s, v := h.PathWithVariance(seed)
		for i := range s {
			require.False(t, math.IsNaN(s[i]))
			require.Greater(t, s[i], 0.0)
			require.GreaterOrEqual(t, v[i], 0.0)
		}
	}
}

func TestProcessValidation(t *testing.T) {
	testCases := []struct {
		name string
		run  func() error
	}{
		{name: "negative spot", run: func() error {
			_, err := NewBlackScholes(-1, 1, 10, 0.0, 0.2)
			return err
		}},
		{name: "zero steps", run: func() error {
			_, err := NewBlackScholes(100, 1, 0, 0.0, 0.2)
			return err
		}},
		{name: "negative vol", run: func() error {
			_, err := NewBlackScholes(100, 1, 10, 0.0, -0.2)
			return err
		}},
		{name: "bad correlation", run: func() error {
			_, err := NewHeston(100, 1, 10, 0.0, 0.04, 1, 0.04, 0.1, -2)
			return err
		}},
		{name: "negative variance", run: func() error {
			_, err := NewHeston(100, 1, 10, 0.0, -0.04, 1, 0.04, 0.1, 0)
			return err
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Error(t, tc.run())
		})
	}
}

func TestBasketCorrelatedPaths(t *testing.T) {
	a, err := NewBlackScholes(100, 1.0, 50, 0.02, 0.2)
	require.NoError(t, err)
	b2, err := NewBlackScholes(50, 1.0, 50, 0.02, 0.3)
	require.NoError(t, err)

	corr := mat.NewSymDense(2, []float64{1, 0.8, 0.8, 1})
	basket, err := NewBasket([]BlackScholes{a, b2}, corr)
	require.NoError(t, err)

	n := 5000
	var x, y []float64
	for i := 0; i < n; i++ {
		paths, err := basket.Paths(uint64(i))
		require.NoError(t, err)
		x = append(x, math.Log(paths[0][50]/100.0))
		y = append(y, math.Log(paths[1][50]/50.0))
	}
	require.InDelta(t, 0.8, stat.Correlation(x, y, nil), 0.05)
}

func TestBasketValidation(t *testing.T) {
	a, _ := NewBlackScholes(100, 1.0, 50, 0.02, 0.2)
	b2, _ := NewBlackScholes(50, 2.0, 50, 0.02, 0.3)

	corr := mat.NewSymDense(2, []float64{1, 0.5, 0.5, 1})
	_, err := NewBasket([]BlackScholes{a, b2}, corr)
	require.Error(t, err)

	bad := mat.NewSymDense(2, []float64{1, 1.5, 1.5, 1})
	_, err = NewBasket([]BlackScholes{a, a}, bad)
	require.Error(t, err)
}
