package finance

import (
	"math"
	"sort"
	"time"
)

// cleanCloses turns raw Yahoo arrays into an ascending series of trading-day closes.
// Null, non-positive and non-finite closes are dropped so they surface as missing
// cells after assembly. Bars outside [start, end] are dropped; when two bars fall on
// the same trading day the later one wins.
func cleanCloses(ts []int64, cl []*float64, loc *time.Location, start, end time.Time) []Point {
	if len(ts) != len(cl) {
		n := len(ts)
		if len(cl) < n {
			n = len(cl)
		}
		ts = ts[:n]
		cl = cl[:n]
	}
	start, end = Day(start), Day(end)
	byDay := make(map[time.Time]float64, len(ts))
	for i := 0; i < len(ts); i++ {
		if cl[i] == nil {
			continue
		}
		v := *cl[i]
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		d := tradingDay(ts[i], loc)
		if d.Before(start) || d.After(end) {
			continue
		}
		byDay[d] = v
	}
	return sortedPoints(byDay)
}

func sortedPoints(byDay map[time.Time]float64) []Point {
	out := make([]Point, 0, len(byDay))
	for d, v := range byDay {
		out = append(out, Point{Date: d, Close: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
