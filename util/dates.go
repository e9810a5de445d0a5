// Package util holds calendar and day count helpers shared across the
// pricing packages.
package util

import (
	"time"
)

const Layout = "2006-01-02"

// Convert holidays from string to time.Time format
func Hols(s []string) ([]time.Time, error) {
	h := make([]time.Time, len(s))
	var err error
	var d time.Time
	for i, v := range s {
		d, err = time.Parse(Layout, v)
		if err != nil {
			return nil, err
		}
		h[i] = d
	}
	return h, err
}

func IsHol(d time.Time, hols []time.Time) bool {
	if hols == nil {
		return false
	}
	for _, v := range hols {
		if d.Equal(v) {
			return true
		}
	}
	return false
}

func IsWeekday(d time.Time) bool {
	if d.Weekday() > 0 && d.Weekday() < 6 {
		return true
	}
	return false
}

func AdjustFollowing(d time.Time, hols []time.Time) time.Time {
	for {
		if IsHol(d, hols) || !IsWeekday(d) {
			d = d.AddDate(0, 0, 1)
		} else {
			return d
		}
	}
}

// CouponDates returns the payment schedule from start to end at the given
// frequency in months, rolled forward off weekends and holidays. The schedule
// always ends at end (adjusted), with a short final period when end is off
// the grid. Dates are generated from the unadjusted grid so rolls do not
// accumulate.
func CouponDates(start, end time.Time, freq int, hols []time.Time) []time.Time {
	var out []time.Time
	for i := 1; ; i++ {
		d := start.AddDate(0, i*freq, 0)
		if !d.Before(end) {
			break
		}
		out = append(out, AdjustFollowing(d, hols))
	}
	return append(out, AdjustFollowing(end, hols))
}

// Minimum of a slice
func MinSlice(a []float64) float64 {
	var m float64
	for i, e := range a {
		if i == 0 || e < m {
			m = e
		}
	}
	return m
}
