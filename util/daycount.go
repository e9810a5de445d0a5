package util

import (
	"fmt"
	"time"
)

// DayCount names a day count convention for year fraction accrual.
type DayCount string

const (
	Act360    DayCount = "ACT/360"
	Act365    DayCount = "ACT/365"
	ActAct    DayCount = "ACT/ACT"
	Thirty360 DayCount = "30/360"
)

func isLeap(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

// YearFraction returns the accrual fraction between start and end under the
// given convention. 30/360 follows the US bond basis date adjustments.
func YearFraction(start, end time.Time, dc DayCount) (float64, error) {
	if end.Before(start) {
		return 0, fmt.Errorf("util: end date %v before start date %v", end.Format(Layout), start.Format(Layout))
	}
	days := end.Sub(start).Hours() / 24.0
	switch dc {
	case Act360:
		return days / 360.0, nil
	case Act365:
		return days / 365.0, nil
	case ActAct:
		return actActFraction(start, end), nil
	case Thirty360:
		d1, d2 := start.Day(), end.Day()
		if d1 == 31 {
			d1 = 30
		}
		if d2 == 31 && d1 == 30 {
			d2 = 30
		}
		n := 360*(end.Year()-start.Year()) + 30*(int(end.Month())-int(start.Month())) + (d2 - d1)
		return float64(n) / 360.0, nil
	default:
		return 0, fmt.Errorf("util: unknown day count convention %q", dc)
	}
}

// actActFraction splits the period at year boundaries, each piece divided by
// the actual length of its year.
func actActFraction(start, end time.Time) float64 {
	frac := 0.0
	for y := start.Year(); y <= end.Year(); y++ {
		yStart := time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)
		yEnd := time.Date(y+1, 1, 1, 0, 0, 0, 0, time.UTC)
		lo, hi := start, end
		if lo.Before(yStart) {
			lo = yStart
		}
		if hi.After(yEnd) {
			hi = yEnd
		}
		if !hi.After(lo) {
			continue
		}
		basis := 365.0
		if isLeap(y) {
			basis = 366.0
		}
		frac += hi.Sub(lo).Hours() / 24.0 / basis
	}
	return frac
}
