package engine

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/banachtech/quantpricer/mc"
	"github.com/banachtech/quantpricer/payoff"
)

// Bump sizes for the finite difference Greeks. Delta and gamma bump the spot
// in absolute units, vega and rho in decimal units.
const (
	epsSpot = 1.0
	epsVol  = 0.01
	epsRate = 0.0001
)

// priceProcess reprices an instrument under a given process without
// rebuilding it from the market, used by bumps that alter the process
// directly.
func (e *MCEngine) priceProcess(p mc.Process, inst payoff.PathPayoff) (float64, error) {
	df, err := e.Market.DiscountFactor(inst.Maturity())
	if err != nil {
		return 0, err
	}
	payoffs := make([]float64, e.Settings.NumPaths)
	for i, path := range e.simulate(p) {
		payoffs[i] = inst.Payoff(path)
	}
	return df * stat.Mean(payoffs, nil), nil
}

// Greeks computes delta, gamma, vega and rho by central-difference
// bump-and-reprice, and theta analytically from the pricing PDE. Every bump
// works on a fresh market or process copy; the engine's own market is never
// touched, so the base price stays valid across calls.
func (e *MCEngine) Greeks(inst payoff.PathPayoff) (map[string]float64, error) {
	base, err := e.price(inst)
	if err != nil {
		return nil, err
	}

	up, err := e.Market.BumpSpot(epsSpot)
	if err != nil {
		return nil, err
	}
	down, err := e.Market.BumpSpot(-epsSpot)
	if err != nil {
		return nil, err
	}
	upEngine := &MCEngine{Market: up, Settings: e.Settings}
	downEngine := &MCEngine{Market: down, Settings: e.Settings}
	pUp, err := upEngine.price(inst)
	if err != nil {
		return nil, err
	}
	pDown, err := downEngine.price(inst)
	if err != nil {
		return nil, err
	}
	delta := (pUp.Price - pDown.Price) / (2 * epsSpot)
	gamma := (pUp.Price - 2*base.Price + pDown.Price) / (epsSpot * epsSpot)

	vega, err := e.vega(inst)
	if err != nil {
		return nil, err
	}

	rUp, err := e.Market.BumpRate(epsRate)
	if err != nil {
		return nil, err
	}
	rDown, err := e.Market.BumpRate(-epsRate)
	if err != nil {
		return nil, err
	}
	prUp, err := (&MCEngine{Market: rUp, Settings: e.Settings}).price(inst)
	if err != nil {
		return nil, err
	}
	prDown, err := (&MCEngine{Market: rDown, Settings: e.Settings}).price(inst)
	if err != nil {
		return nil, err
	}
	rho := (prUp.Price - prDown.Price) / (2 * epsRate)

	theta, err := e.theta(inst, base.Price, delta, gamma, vega)
	if err != nil {
		return nil, err
	}

	return map[string]float64{
		"delta": delta,
		"gamma": gamma,
		"vega":  vega,
		"rho":   rho,
		"theta": theta,
	}, nil
}

// vega bumps the process volatility parameter: sigma for Black-Scholes, the
// initial variance for Heston.
func (e *MCEngine) vega(inst payoff.PathPayoff) (float64, error) {
	base, err := e.buildProcess(inst)
	if err != nil {
		return 0, err
	}
	switch p := base.(type) {
	case mc.BlackScholes:
		up, down := p, p
		up.Vol += epsVol
		down.Vol -= epsVol
		if down.Vol < 0 {
			down.Vol = 0
		}
		pu, err := e.priceProcess(up, inst)
		if err != nil {
			return 0, err
		}
		pd, err := e.priceProcess(down, inst)
		if err != nil {
			return 0, err
		}
		return (pu - pd) / (2 * epsVol), nil
	case mc.Heston:
		up, down := p, p
		up.V0 += epsVol
		down.V0 -= epsVol
		if down.V0 < 0 {
			down.V0 = 0
		}
		pu, err := e.priceProcess(up, inst)
		if err != nil {
			return 0, err
		}
		pd, err := e.priceProcess(down, inst)
		if err != nil {
			return 0, err
		}
		return (pu - pd) / (2 * epsVol), nil
	default:
		return 0, fmt.Errorf("engine: vega not supported for %T", base)
	}
}

// VegaRecalibrated bumps the market's whole volatility surface instead of the
// process scalar, rebuilding the process from the shifted surface. This picks
// up the smile's reaction to a level shift and is the more faithful
// estimator.
func (e *MCEngine) VegaRecalibrated(inst payoff.PathPayoff) (float64, error) {
	up := &MCEngine{Market: e.Market.BumpVol(epsVol), Settings: e.Settings}
	down := &MCEngine{Market: e.Market.BumpVol(-epsVol), Settings: e.Settings}
	pu, err := up.price(inst)
	if err != nil {
		return 0, err
	}
	pd, err := down.price(inst)
	if err != nil {
		return 0, err
	}
	return (pu.Price - pd.Price) / (2 * epsVol), nil
}

// theta comes from the pricing PDE rather than a time bump:
//
//	theta = -0.5*sigma^2*S^2*gamma - r*S*delta + r*P
//
// with the Heston correction -kappa*(theta_v - v0)*vega - 0.5*xi^2*vega.
func (e *MCEngine) theta(inst payoff.PathPayoff, price, delta, gamma, vega float64) (float64, error) {
	t := inst.Maturity()
	r, err := e.Market.Rate(t)
	if err != nil {
		return 0, err
	}
	s := e.Market.Spot

	p, err := e.buildProcess(inst)
	if err != nil {
		return 0, err
	}
	switch m := p.(type) {
	case mc.BlackScholes:
		return -0.5*m.Vol*m.Vol*s*s*gamma - r*s*delta + r*price, nil
	case mc.Heston:
		th := -0.5*m.V0*s*s*gamma - r*s*delta + r*price
		th += -m.Kappa*(m.Theta-m.V0)*vega - 0.5*m.Xi*m.Xi*vega
		return th, nil
	default:
		return 0, fmt.Errorf("engine: theta not supported for %T", p)
	}
}
