package engine

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/banachtech/quantpricer/market"
	"github.com/banachtech/quantpricer/payoff"
)

// AmericanEngine prices early-exercisable options with the Longstaff-Schwartz
// regression method.
type AmericanEngine struct {
	Market   market.Market
	Settings Settings
}

func NewAmericanEngine(m market.Market, s Settings) (*AmericanEngine, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &AmericanEngine{Market: m, Settings: s}, nil
}

// Price walks the simulated paths backward. At each exercisable step the
// discounted continuation value is regressed on [1, S, S^2] over the
// in-the-money paths; exercise happens wherever intrinsic beats the
// regression estimate. Steps with no path in the money skip the regression.
func (e *AmericanEngine) Price(inst payoff.EarlyExercise) (Results, error) {
	mce := &MCEngine{Market: e.Market, Settings: e.Settings}
	proc, err := mce.buildProcess(inst)
	if err != nil {
		return Results{}, err
	}
	paths := mce.simulate(proc)

	steps := e.Settings.NumSteps
	dt := inst.Maturity() / float64(steps)
	exercisable := map[int]bool{}
	for _, i := range inst.ExerciseSteps(steps) {
		exercisable[i] = true
	}

	cf := make([]float64, len(paths))
	for i, p := range paths {
		cf[i] = inst.Intrinsic(p[steps])
	}

	for t := steps - 1; t >= 1; t-- {
		fdf, err := e.Market.ForwardDiscountFactor(float64(t)*dt, float64(t+1)*dt)
		if err != nil {
			return Results{}, err
		}
		for i := range cf {
			cf[i] *= fdf
		}
		if !exercisable[t] {
			continue
		}

		var itm []int
		for i, p := range paths {
			if inst.Intrinsic(p[t]) > 0 {
				itm = append(itm, i)
			}
		}
		if len(itm) < 3 {
			continue
		}

		beta, err := regressQuadratic(paths, cf, itm, t)
		if err != nil {
			return Results{}, err
		}
		for _, i := range itm {
			s := paths[i][t]
			continuation := beta[0] + beta[1]*s + beta[2]*s*s
			if ex := inst.Intrinsic(s); ex > continuation {
				cf[i] = ex
			}
		}
	}

	df, err := e.Market.DiscountFactor(dt)
	if err != nil {
		return Results{}, err
	}
	mean := stat.Mean(cf, nil)
	se := stat.StdDev(cf, nil) / math.Sqrt(float64(len(cf)))
	price := df * mean
	return Results{
		Price:  price,
		StdDev: df * se,
		Lower:  price - 1.96*df*se,
		Upper:  price + 1.96*df*se,
	}, nil
}

// regressQuadratic solves the OLS fit of cf against [1, S, S^2] on the
// selected paths via a QR decomposition.
func regressQuadratic(paths [][]float64, cf []float64, itm []int, t int) ([]float64, error) {
	n := len(itm)
	x := mat.NewDense(n, 3, nil)
	y := mat.NewVecDense(n, nil)
	for row, i := range itm {
		s := paths[i][t]
		x.SetRow(row, []float64{1, s, s * s})
		y.SetVec(row, cf[i])
	}
	var qr mat.QR
	qr.Factorize(x)
	beta := mat.NewVecDense(3, nil)
	if err := qr.SolveVecTo(beta, false, y); err != nil {
		return nil, fmt.Errorf("engine: continuation regression at step %d: %w", t, err)
	}
	return []float64{beta.AtVec(0), beta.AtVec(1), beta.AtVec(2)}, nil
}
