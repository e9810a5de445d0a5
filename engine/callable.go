package engine

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/banachtech/quantpricer/market"
	"github.com/banachtech/quantpricer/payoff"
)

// CallableEngine prices autocallable products and solves their fair coupon.
// Redemption times differ per path, so each path's cashflow is discounted at
// the discount factor of its own call date.
type CallableEngine struct {
	Market   market.Market
	Settings Settings
}

func NewCallableEngine(m market.Market, s Settings) (*CallableEngine, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &CallableEngine{Market: m, Settings: s}, nil
}

// Price simulates the path set once and applies the product's call logic per
// path.
func (e *CallableEngine) Price(c payoff.Callable) (Results, error) {
	paths, err := e.pathSet(c)
	if err != nil {
		return Results{}, err
	}
	return e.priceOn(paths, c)
}

func (e *CallableEngine) pathSet(c payoff.Callable) ([][]float64, error) {
	mce := &MCEngine{Market: e.Market, Settings: e.Settings}
	proc, err := mce.buildProcess(c)
	if err != nil {
		return nil, err
	}
	return mce.simulate(proc), nil
}

func (e *CallableEngine) priceOn(paths [][]float64, c payoff.Callable) (Results, error) {
	discounted := make([]float64, len(paths))
	for i, p := range paths {
		cash, callIdx := c.PayoffCall(p)
		df, err := e.Market.DiscountFactor(observationTime(callIdx, c.Frequency()))
		if err != nil {
			return Results{}, err
		}
		discounted[i] = cash * df
	}
	mean := stat.Mean(discounted, nil)
	se := stat.StdDev(discounted, nil) / math.Sqrt(float64(len(discounted)))
	return Results{
		Price:  mean,
		StdDev: se,
		Lower:  mean - 1.96*se,
		Upper:  mean + 1.96*se,
	}, nil
}

// SolveCoupon bisects the coupon rate on [0, 50] until the product prices at
// the target (par by default), reusing one simulated path set across all
// midpoints: the fixed seed would reproduce the same paths anyway, so
// resimulating per iteration would only burn time.
func (e *CallableEngine) SolveCoupon(c payoff.Callable) (Results, error) {
	paths, err := e.pathSet(c)
	if err != nil {
		return Results{}, err
	}

	target := e.Settings.TargetPrice
	tol := e.Settings.Tolerance
	lo, hi := 0.0, 50.0
	mid := 0.5 * (lo + hi)
	var res Results
	for i := 0; i < 25; i++ {
		mid = 0.5 * (lo + hi)
		res, err = e.priceOn(paths, c.WithCoupon(mid))
		if err != nil {
			return Results{}, err
		}
		if math.Abs(res.Price-target) < tol {
			break
		}
		if res.Price < target {
			lo = mid
		} else {
			hi = mid
		}
	}
	res.Coupon = mid
	return res, nil
}
