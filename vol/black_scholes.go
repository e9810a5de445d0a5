// Package vol provides implied volatility surfaces (SVI, SSVI) and a Dupire
// local volatility surface derived from them.
package vol

import (
	"math"
)

func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2.0*math.Pi)
}

// BSCall returns the Black-Scholes price of a European call.
func BSCall(s, k, r, sigma, t float64) float64 {
	if t <= 0 || sigma <= 0 {
		return math.Max(s-k*math.Exp(-r*t), 0)
	}
	d1 := (math.Log(s/k) + (r+0.5*sigma*sigma)*t) / (sigma * math.Sqrt(t))
	d2 := d1 - sigma*math.Sqrt(t)
	return s*normCDF(d1) - k*math.Exp(-r*t)*normCDF(d2)
}

// BSPut returns the Black-Scholes price of a European put.
func BSPut(s, k, r, sigma, t float64) float64 {
	if t <= 0 || sigma <= 0 {
		return math.Max(k*math.Exp(-r*t)-s, 0)
	}
	d1 := (math.Log(s/k) + (r+0.5*sigma*sigma)*t) / (sigma * math.Sqrt(t))
	d2 := d1 - sigma*math.Sqrt(t)
	return k*math.Exp(-r*t)*normCDF(-d2) - s*normCDF(-d1)
}

// BSVega returns the Black-Scholes vega, identical for calls and puts.
func BSVega(s, k, r, sigma, t float64) float64 {
	if t <= 0 || sigma <= 0 {
		return 0
	}
	d1 := (math.Log(s/k) + (r+0.5*sigma*sigma)*t) / (sigma * math.Sqrt(t))
	return s * normPDF(d1) * math.Sqrt(t)
}

// ImpliedVol inverts the Black-Scholes formula by bisection. isCall selects
// the option type. Returns NaN when the price is outside no-arbitrage bounds.
func ImpliedVol(price, s, k, r, t float64, isCall bool) float64 {
	pricer := BSPut
	if isCall {
		pricer = BSCall
	}
	lo, hi := 1e-6, 5.0
	if price <= pricer(s, k, r, lo, t) || price >= pricer(s, k, r, hi, t) {
		return math.NaN()
	}
	for i := 0; i < 100; i++ {
		mid := 0.5 * (lo + hi)
		if pricer(s, k, r, mid, t) < price {
			lo = mid
		} else {
			hi = mid
		}
		if hi-lo < 1e-10 {
			break
		}
	}
	return 0.5 * (lo + hi)
}
