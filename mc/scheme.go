package mc

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Path generates a lognormal price path by exact log-Euler stepping.
func (m BlackScholes) Path(seed uint64) []float64 {
	dt := m.T / float64(m.Steps)
	sdt := math.Sqrt(dt)
	d := distuv.Normal{Mu: 0.0, Sigma: 1.0, Src: rand.NewSource(seed)}

	s := make([]float64, m.Steps+1)
	s[0] = m.S0
	x := math.Log(m.S0)
	for i := 0; i < m.Steps; i++ {
		x += (m.Drift[i]-0.5*m.Vol*m.Vol)*dt + m.Vol*sdt*d.Rand()
		s[i+1] = math.Exp(x)
	}
	return s
}

// Path generates a Heston price path with a full truncation Euler scheme for
// the variance. The price and variance shocks come from two generators seeded
// at seed and seed+1, correlated through Rho.
func (m Heston) Path(seed uint64) []float64 {
	s, _ := m.PathWithVariance(seed)
	return s
}

// PathWithVariance returns both the price path and the variance path. The
// truncation keeps the raw variance in the state so mean reversion acts on
// it, but the returned path is floored at zero.
func (m Heston) PathWithVariance(seed uint64) ([]float64, []float64) {
	dt := m.T / float64(m.Steps)
	sdt := math.Sqrt(dt)
	d1 := distuv.Normal{Mu: 0.0, Sigma: 1.0, Src: rand.NewSource(seed)}
	d2 := distuv.Normal{Mu: 0.0, Sigma: 1.0, Src: rand.NewSource(seed + 1)}
	c := math.Sqrt(1.0 - m.Rho*m.Rho)

	s := make([]float64, m.Steps+1)
	v := make([]float64, m.Steps+1)
	s[0], v[0] = m.S0, m.V0
	x := math.Log(m.S0)
	raw := m.V0
	for i := 0; i < m.Steps; i++ {
		z1 := d1.Rand()
		z2 := m.Rho*z1 + c*d2.Rand()
		vp := math.Max(raw, 0.0)
		x += (m.Drift[i]-0.5*vp)*dt + math.Sqrt(vp)*sdt*z1
		s[i+1] = math.Exp(x)
		raw += m.Kappa*(m.Theta-vp)*dt + m.Xi*math.Sqrt(vp)*sdt*z2
		v[i+1] = math.Max(raw, 0.0)
	}
	return s, v
}
