package payoff

import (
	"fmt"
	"math"
	"sort"
)

// American is exercisable at every step of the simulation grid.
type American struct {
	Type OptionType
	K    float64
	T    float64
}

func NewAmerican(typ OptionType, strike, maturity float64) (American, error) {
	return American{Type: typ, K: strike, T: maturity}, validateOption(maturity, strike)
}

func (o American) Maturity() float64 { return o.T }
func (o American) Strike() float64   { return o.K }

func (o American) Intrinsic(s float64) float64 {
	if o.Type == Call {
		return math.Max(s-o.K, 0)
	}
	return math.Max(o.K-s, 0)
}

func (o American) ExerciseSteps(steps int) []int {
	idx := make([]int, steps-1)
	for i := range idx {
		idx[i] = i + 1
	}
	return idx
}

// Payoff is the terminal intrinsic value, used when an American instrument is
// handed to a plain European engine.
func (o American) Payoff(path []float64) float64 {
	return o.Intrinsic(path[len(path)-1])
}

// Bermudan is exercisable only at a fixed set of times, expressed as year
// fractions of the maturity.
type Bermudan struct {
	Type          OptionType
	K             float64
	T             float64
	ExerciseTimes []float64
}

func NewBermudan(typ OptionType, strike, maturity float64, exerciseTimes []float64) (Bermudan, error) {
	if err := validateOption(maturity, strike); err != nil {
		return Bermudan{}, err
	}
	if len(exerciseTimes) == 0 {
		return Bermudan{}, fmt.Errorf("payoff: bermudan needs at least one exercise time")
	}
	for _, t := range exerciseTimes {
		if t <= 0 || t >= maturity {
			return Bermudan{}, fmt.Errorf("payoff: exercise time %v outside (0, %v)", t, maturity)
		}
	}
	ts := append([]float64(nil), exerciseTimes...)
	sort.Float64s(ts)
	return Bermudan{Type: typ, K: strike, T: maturity, ExerciseTimes: ts}, nil
}

func (o Bermudan) Maturity() float64 { return o.T }
func (o Bermudan) Strike() float64   { return o.K }

func (o Bermudan) Intrinsic(s float64) float64 {
	if o.Type == Call {
		return math.Max(s-o.K, 0)
	}
	return math.Max(o.K-s, 0)
}

func (o Bermudan) ExerciseSteps(steps int) []int {
	seen := map[int]bool{}
	var idx []int
	for _, t := range o.ExerciseTimes {
		i := int(math.Round(t / o.T * float64(steps)))
		if i <= 0 || i >= steps || seen[i] {
			continue
		}
		seen[i] = true
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}

func (o Bermudan) Payoff(path []float64) float64 {
	return o.Intrinsic(path[len(path)-1])
}
