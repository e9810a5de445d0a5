package engine

// Results is the outcome of one pricing run.
type Results struct {
	Price  float64
	StdDev float64
	Lower  float64
	Upper  float64
	Greeks map[string]float64
	Coupon float64
}

// LegResult pairs one leg's results with its position sign.
type LegResult struct {
	Results
	Long bool
}

// Aggregate combines strategy legs additively with their ±1 signs. Greeks add
// the same way; the standard deviation is naively averaged, an approximation
// rather than a combined variance.
func Aggregate(legs []LegResult) Results {
	out := Results{Greeks: map[string]float64{}}
	for _, l := range legs {
		sign := 1.0
		if !l.Long {
			sign = -1.0
		}
		out.Price += sign * l.Price
		out.StdDev += l.StdDev / float64(len(legs))
		for k, v := range l.Greeks {
			out.Greeks[k] += sign * v
		}
	}
	out.Lower = out.Price - 1.96*out.StdDev
	out.Upper = out.Price + 1.96*out.StdDev
	if len(out.Greeks) == 0 {
		out.Greeks = nil
	}
	return out
}
