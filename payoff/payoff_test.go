package payoff

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEuropeanPayoff(t *testing.T) {
	testCases := []struct {
		name string
		typ  OptionType
		k    float64
		path []float64
		want float64
	}{
		{name: "call in the money", typ: Call, k: 100, path: []float64{100, 105, 115}, want: 15},
		{name: "call out of the money", typ: Call, k: 100, path: []float64{100, 105, 95}, want: 0},
		{name: "put in the money", typ: Put, k: 100, path: []float64{100, 95, 90}, want: 10},
		{name: "put out of the money", typ: Put, k: 100, path: []float64{100, 105, 110}, want: 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			o, err := NewEuropean(tc.typ, tc.k, 1.0)
			require.NoError(t, err)
			require.Equal(t, tc.want, o.Payoff(tc.path))
		})
	}
}

func TestOptionValidation(t *testing.T) {
	_, err := NewEuropean(Call, 100, -1)
	require.Error(t, err)
	_, err = NewEuropean(Call, 0, 1)
	require.Error(t, err)
}

func TestBinaryPayoff(t *testing.T) {
	o, err := NewBinary(Call, 100, 1.0, 7.5)
	require.NoError(t, err)
	require.Equal(t, 7.5, o.Payoff([]float64{100, 101}))
	require.Equal(t, 0.0, o.Payoff([]float64{100, 99}))

	p, err := NewBinary(Put, 100, 1.0, 7.5)
	require.NoError(t, err)
	require.Equal(t, 7.5, p.Payoff([]float64{100, 99}))
	require.Equal(t, 0.0, p.Payoff([]float64{100, 101}))
}

func TestBarrierDecomposition(t *testing.T) {
	// in + out must replicate the vanilla exactly on every path
	path := []float64{90, 95, 110, 115}
	vanilla, err := NewEuropean(Call, 100, 1.0)
	require.NoError(t, err)
	in, err := NewBarrier(Call, Up, In, 100, 110, 1.0)
	require.NoError(t, err)
	out, err := NewBarrier(Call, Up, Out, 100, 110, 1.0)
	require.NoError(t, err)

	require.Equal(t, 15.0, in.Payoff(path))
	require.Equal(t, 0.0, out.Payoff(path))
	require.Equal(t, vanilla.Payoff(path), in.Payoff(path)+out.Payoff(path))

	// path never touching the barrier
	quiet := []float64{100, 102, 105}
	require.Equal(t, 0.0, in.Payoff(quiet))
	require.Equal(t, vanilla.Payoff(quiet), in.Payoff(quiet)+out.Payoff(quiet))
}

func TestBarrierValidation(t *testing.T) {
	_, err := NewBarrier(Call, Up, Out, 100, 90, 1.0)
	require.Error(t, err)
	_, err = NewBarrier(Put, Down, Out, 100, 110, 1.0)
	require.Error(t, err)
	_, err = NewBarrier(Call, Up, In, 100, 90, 1.0)
	require.NoError(t, err)
}

func TestExoticPayoffs(t *testing.T) {
	path := []float64{100, 110, 90, 120}

	asian, err := NewAsian(Call, 100, 1.0)
	require.NoError(t, err)
	require.InDelta(t, 5.0, asian.Payoff(path), 1e-12)

	lookCall, err := NewLookback(Call, 100, 1.0)
	require.NoError(t, err)
	require.Equal(t, 20.0, lookCall.Payoff(path))

	lookPut, err := NewLookback(Put, 100, 1.0)
	require.NoError(t, err)
	require.Equal(t, 10.0, lookPut.Payoff(path))

	floating, err := NewFloatingStrike(Call, 1.0)
	require.NoError(t, err)
	require.InDelta(t, 15.0, floating.Payoff(path), 1e-12)

	fwdStart, err := NewForwardStart(Call, 1.0)
	require.NoError(t, err)
	require.Equal(t, 20.0, fwdStart.Payoff(path))

	chooser, err := NewChooser(100, 1.0)
	require.NoError(t, err)
	require.Equal(t, 20.0, chooser.Payoff(path))
	require.Equal(t, 15.0, chooser.Payoff([]float64{100, 85}))
}

func TestAmericanExerciseSteps(t *testing.T) {
	o, err := NewAmerican(Put, 100, 1.0)
	require.NoError(t, err)
	steps := o.ExerciseSteps(5)
	require.Equal(t, []int{1, 2, 3, 4}, steps)
	require.Equal(t, 10.0, o.Intrinsic(90))
	require.Equal(t, 0.0, o.Intrinsic(110))
}

func TestBermudanExerciseSteps(t *testing.T) {
	o, err := NewBermudan(Put, 100, 1.0, []float64{0.5, 0.25})
	require.NoError(t, err)
	require.Equal(t, []float64{0.25, 0.5}, o.ExerciseTimes)
	require.Equal(t, []int{25, 50}, o.ExerciseSteps(100))

	_, err = NewBermudan(Put, 100, 1.0, []float64{1.5})
	require.Error(t, err)
	_, err = NewBermudan(Put, 100, 1.0, nil)
	require.Error(t, err)
}

func TestParticipationPayoffs(t *testing.T) {
	tw, err := NewTwinWin(1.0, 130, 70, 10, 1.0)
	require.NoError(t, err)
	require.Equal(t, 110.0, tw.Payoff([]float64{100, 140}))         // above upper: rebate
	require.Equal(t, 110.0, tw.Payoff([]float64{100, 110}))         // in range, up
	require.Equal(t, 110.0, tw.Payoff([]float64{100, 90}))          // in range, down pays abs
	require.InDelta(t, 60.0, tw.Payoff([]float64{100, 60}), 1e-12)  // below lower: loss

	ab, err := NewAirbag(1.0, 130, 70, 10, 1.0)
	require.NoError(t, err)
	require.Equal(t, 110.0, ab.Payoff([]float64{100, 140}))
	require.Equal(t, 110.0, ab.Payoff([]float64{100, 110}))
	require.Equal(t, 100.0, ab.Payoff([]float64{100, 90})) // buffer zone
	require.InDelta(t, 60.0, ab.Payoff([]float64{100, 60}), 1e-12)

	_, err = NewTwinWin(1.0, 70, 130, 0, 1.0)
	require.Error(t, err)
}

func TestMultiAssetPayoffs(t *testing.T) {
	paths := [][]float64{
		{100, 120}, // +20%
		{50, 45},   // -10%
	}

	worst, err := NewWorstOf(Put, 100, 1.0, 2)
	require.NoError(t, err)
	require.InDelta(t, 10.0, worst.PayoffPaths(paths), 1e-12)

	best, err := NewBestOf(Call, 100, 1.0, 2)
	require.NoError(t, err)
	require.InDelta(t, 20.0, best.PayoffPaths(paths), 1e-12)

	basket, err := NewBasketOption(Call, 100, 1.0, []float64{0.5, 0.5})
	require.NoError(t, err)
	require.InDelta(t, 5.0, basket.PayoffPaths(paths), 1e-12)

	_, err = NewBasketOption(Call, 100, 1.0, []float64{0.5, 0.6})
	require.Error(t, err)
}

func TestStrategyPayoff(t *testing.T) {
	straddle, err := NewStraddle(1.0, 100, true, true)
	require.NoError(t, err)
	require.Equal(t, 15.0, straddle.Payoff([]float64{100, 115}))
	require.Equal(t, 15.0, straddle.Payoff([]float64{100, 85}))

	bull, err := NewBullSpread(1.0, 100, 110)
	require.NoError(t, err)
	require.Equal(t, 10.0, bull.Payoff([]float64{100, 120})) // capped at spread width
	require.Equal(t, 5.0, bull.Payoff([]float64{100, 105}))
	require.Equal(t, 0.0, bull.Payoff([]float64{100, 95}))

	fly, err := NewButterfly(1.0, 90, 100, 110)
	require.NoError(t, err)
	require.Equal(t, 10.0, fly.Payoff([]float64{100, 100}))
	require.Equal(t, 0.0, fly.Payoff([]float64{100, 120}))

	_, err = NewButterfly(1.0, 100, 90, 110)
	require.Error(t, err)

	cal, err := NewCalendarSpread(100, 0.5, 1.0)
	require.NoError(t, err)
	require.Equal(t, 1.0, cal.Maturity())
}
