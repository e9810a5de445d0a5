package mc

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// Basket generates correlated lognormal paths for several assets sharing a
// horizon and step grid.
type Basket struct {
	Assets []BlackScholes
	Corr   *mat.SymDense
}

// NewBasket validates the assets and the correlation matrix. All assets must
// share the same horizon and step count, and corr must be a valid correlation
// matrix of matching dimension.
func NewBasket(assets []BlackScholes, corr *mat.SymDense) (Basket, error) {
	if len(assets) == 0 {
		return Basket{}, fmt.Errorf("mc: empty basket")
	}
	for i, a := range assets {
		if err := a.validate(); err != nil {
			return Basket{}, fmt.Errorf("mc: basket asset %d: %w", i, err)
		}
		if a.T != assets[0].T || a.Steps != assets[0].Steps {
			return Basket{}, fmt.Errorf("mc: basket asset %d grid differs from asset 0", i)
		}
	}
	n := len(assets)
	if corr.SymmetricDim() != n {
		return Basket{}, fmt.Errorf("mc: correlation matrix is %dx%d for %d assets", corr.SymmetricDim(), corr.SymmetricDim(), n)
	}
	for i := 0; i < n; i++ {
		if math.Abs(corr.At(i, i)-1.0) > 1e-12 {
			return Basket{}, fmt.Errorf("mc: correlation matrix diagonal must be 1")
		}
		for j := 0; j < n; j++ {
			if c := corr.At(i, j); c < -1 || c > 1 {
				return Basket{}, fmt.Errorf("mc: correlation out of range at (%d,%d): %v", i, j, c)
			}
		}
	}
	return Basket{Assets: assets, Corr: corr}, nil
}

// Paths generates one correlated path per asset. The joint shocks are drawn
// from a multivariate standard normal with the basket's correlation matrix.
func (b Basket) Paths(seed uint64) ([][]float64, error) {
	n := len(b.Assets)
	steps := b.Assets[0].Steps
	mu := make([]float64, n)
	d, ok := distmv.NewNormal(mu, b.Corr, rand.NewSource(seed))
	if !ok {
		return nil, fmt.Errorf("mc: correlation matrix is not positive definite")
	}

	dt := b.Assets[0].T / float64(steps)
	sdt := math.Sqrt(dt)
	paths := make([][]float64, n)
	logs := make([]float64, n)
	for i, a := range b.Assets {
		paths[i] = make([]float64, steps+1)
		paths[i][0] = a.S0
		logs[i] = math.Log(a.S0)
	}
	z := make([]float64, n)
	for k := 0; k < steps; k++ {
		z = d.Rand(z)
		for i, a := range b.Assets {
			logs[i] += (a.Drift[k]-0.5*a.Vol*a.Vol)*dt + a.Vol*sdt*z[i]
			paths[i][k+1] = math.Exp(logs[i])
		}
	}
	return paths, nil
}
