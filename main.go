package main

import (
	"fmt"
	"os"

	"github.com/banachtech/quantpricer/engine"
	"github.com/banachtech/quantpricer/market"
	"github.com/banachtech/quantpricer/payoff"
	"github.com/banachtech/quantpricer/util"
	"github.com/banachtech/quantpricer/vol"
)

func main() {
	settings, err := engine.SettingsFromEnv()
	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
	settings.ShowProgress = true

	mkt, err := sampleMarket()
	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}

	eng, err := engine.NewMCEngine(mkt, settings)
	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}

	call, err := payoff.NewEuropean(payoff.Call, 100.0, 1.0)
	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
	res, err := eng.Price(call)
	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
	fmt.Printf("european call: %.4f [%.4f, %.4f]\n", res.Price, res.Lower, res.Upper)
	for k, v := range res.Greeks {
		fmt.Printf("  %s: %.6f\n", k, v)
	}

	phoenix, err := payoff.NewPhoenix(3.0, payoff.Quarterly, 60.0, 100.0, 0.0, 80.0, true, false)
	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
	callable, err := engine.NewCallableEngine(mkt, settings)
	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
	solved, err := callable.SolveCoupon(phoenix)
	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
	fmt.Printf("phoenix coupon: %.4f per period, reoffer %.4f\n", solved.Coupon, solved.Price)
}

// sampleMarket builds a demo market from inline pillar and quote tables.
func sampleMarket() (market.Market, error) {
	rateTable, err := market.NewTable(map[string][]string{
		"Maturity": {"3M", "6M", "1Y", "2Y", "5Y"},
		"Rate":     {"0.030", "0.031", "0.032", "0.033", "0.035"},
	})
	if err != nil {
		return market.Market{}, err
	}
	c, err := market.CurveFromTable(rateTable, "cubic")
	if err != nil {
		return market.Market{}, err
	}

	quoteTable, err := market.NewTable(map[string][]string{
		"Spot":               {"100", "100", "100", "100", "100", "100"},
		"Strike":             {"90", "100", "110", "90", "100", "110"},
		"Maturity":           {"1Y", "1Y", "1Y", "2Y", "2Y", "2Y"},
		"Implied Volatility": {"0.22", "0.20", "0.19", "0.23", "0.21", "0.20"},
	})
	if err != nil {
		return market.Market{}, err
	}
	spot, quotes, err := market.QuotesFromTable(quoteTable)
	if err != nil {
		return market.Market{}, err
	}

	s := vol.SVI{Curve: c}
	if err := s.Calibrate(spot, quotes); err != nil {
		return market.Market{}, err
	}
	return market.New(spot, c, &s, util.Act365)
}
