package payoff

import (
	"fmt"
	"math"

	"github.com/banachtech/quantpricer/util"
)

// BasketOption pays on the weighted average terminal performance of several
// underlyings, each measured against its own initial fixing and scaled by the
// common strike level (per 100).
type BasketOption struct {
	Type    OptionType
	K       float64
	T       float64
	Weights []float64
}

func NewBasketOption(typ OptionType, strike, maturity float64, weights []float64) (BasketOption, error) {
	if err := validateOption(maturity, strike); err != nil {
		return BasketOption{}, err
	}
	if len(weights) == 0 {
		return BasketOption{}, fmt.Errorf("payoff: basket needs at least one weight")
	}
	sum := 0.0
	for _, w := range weights {
		if w < 0 {
			return BasketOption{}, fmt.Errorf("payoff: basket weights must be non-negative, got %v", w)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > 1e-9 {
		return BasketOption{}, fmt.Errorf("payoff: basket weights must sum to 1, got %v", sum)
	}
	return BasketOption{Type: typ, K: strike, T: maturity, Weights: append([]float64(nil), weights...)}, nil
}

func (o BasketOption) Maturity() float64 { return o.T }
func (o BasketOption) Strike() float64   { return o.K }
func (o BasketOption) NumAssets() int    { return len(o.Weights) }

func (o BasketOption) PayoffPaths(paths [][]float64) float64 {
	level := 0.0
	for i, p := range paths {
		level += o.Weights[i] * p[len(p)-1] / p[0] * 100.0
	}
	if o.Type == Call {
		return math.Max(level-o.K, 0)
	}
	return math.Max(o.K-level, 0)
}

// performers returns per-asset terminal performances per 100.
func performers(paths [][]float64) []float64 {
	out := make([]float64, len(paths))
	for i, p := range paths {
		out[i] = p[len(p)-1] / p[0] * 100.0
	}
	return out
}

// WorstOf pays on the worst terminal performance across the basket.
type WorstOf struct {
	Type   OptionType
	K      float64
	T      float64
	Assets int
}

func NewWorstOf(typ OptionType, strike, maturity float64, assets int) (WorstOf, error) {
	if err := validateOption(maturity, strike); err != nil {
		return WorstOf{}, err
	}
	if assets < 1 {
		return WorstOf{}, fmt.Errorf("payoff: need at least one asset, got %d", assets)
	}
	return WorstOf{Type: typ, K: strike, T: maturity, Assets: assets}, nil
}

func (o WorstOf) Maturity() float64 { return o.T }
func (o WorstOf) Strike() float64   { return o.K }
func (o WorstOf) NumAssets() int    { return o.Assets }

func (o WorstOf) PayoffPaths(paths [][]float64) float64 {
	worst := util.MinSlice(performers(paths))
	if o.Type == Call {
		return math.Max(worst-o.K, 0)
	}
	return math.Max(o.K-worst, 0)
}

// BestOf pays on the best terminal performance across the basket.
type BestOf struct {
	Type   OptionType
	K      float64
	T      float64
	Assets int
}

func NewBestOf(typ OptionType, strike, maturity float64, assets int) (BestOf, error) {
	if err := validateOption(maturity, strike); err != nil {
		return BestOf{}, err
	}
	if assets < 1 {
		return BestOf{}, fmt.Errorf("payoff: need at least one asset, got %d", assets)
	}
	return BestOf{Type: typ, K: strike, T: maturity, Assets: assets}, nil
}

func (o BestOf) Maturity() float64 { return o.T }
func (o BestOf) Strike() float64   { return o.K }
func (o BestOf) NumAssets() int    { return o.Assets }

func (o BestOf) PayoffPaths(paths [][]float64) float64 {
	perf := performers(paths)
	best := perf[0]
	for _, p := range perf[1:] {
		if p > best {
			best = p
		}
	}
	if o.Type == Call {
		return math.Max(best-o.K, 0)
	}
	return math.Max(o.K-best, 0)
}
