package vol

import (
	"errors"
	"fmt"
)

// ErrNotCalibrated is returned when a surface is queried before Calibrate.
var ErrNotCalibrated = errors.New("vol: surface not calibrated")

// Quote is a single implied volatility observation.
type Quote struct {
	Strike   float64
	Maturity float64
	Vol      float64
}

// Surface is an implied volatility surface sigma(K, T).
type Surface interface {
	// Calibrate fits the surface to market quotes at the given spot.
	Calibrate(spot float64, quotes []Quote) error
	// Vol returns the implied volatility at strike k and maturity t.
	Vol(k, t float64) (float64, error)
}

// Shift wraps a surface with an additive parallel shift, used for vega bumps.
type Shift struct {
	Surface Surface
	Delta   float64
}

func (s *Shift) Calibrate(spot float64, quotes []Quote) error {
	return s.Surface.Calibrate(spot, quotes)
}

func (s *Shift) Vol(k, t float64) (float64, error) {
	v, err := s.Surface.Vol(k, t)
	if err != nil {
		return 0, err
	}
	return v + s.Delta, nil
}

func validateQuotes(spot float64, quotes []Quote) error {
	if spot <= 0 {
		return fmt.Errorf("vol: spot must be positive, got %v", spot)
	}
	if len(quotes) == 0 {
		return errors.New("vol: no quotes")
	}
	for i, q := range quotes {
		if q.Strike <= 0 || q.Maturity <= 0 || q.Vol <= 0 {
			return fmt.Errorf("vol: invalid quote at index %d: %+v", i, q)
		}
	}
	return nil
}

// groupByMaturity splits quotes into per-maturity slices, sorted ascending.
func groupByMaturity(quotes []Quote) ([]float64, [][]Quote) {
	byT := map[float64][]Quote{}
	for _, q := range quotes {
		byT[q.Maturity] = append(byT[q.Maturity], q)
	}
	ts := make([]float64, 0, len(byT))
	for t := range byT {
		ts = append(ts, t)
	}
	for i := 1; i < len(ts); i++ {
		for j := i; j > 0 && ts[j] < ts[j-1]; j-- {
			ts[j], ts[j-1] = ts[j-1], ts[j]
		}
	}
	slices := make([][]Quote, len(ts))
	for i, t := range ts {
		slices[i] = byT[t]
	}
	return ts, slices
}
