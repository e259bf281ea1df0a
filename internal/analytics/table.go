// Package analytics holds the price and return tables of a portfolio and the
// statistics derived from them. Every operation is a pure function of its
// input table; absent cells are carried as Missing and ignored by reducers.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"portfolioAnalytics/internal/finance"
)

// Missing marks an absent cell. It is a quiet NaN, so arithmetic on it propagates.
var Missing = math.NaN()

// IsMissing reports whether v is an absent cell.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// Table is a date × symbol grid stored column-major.
// Columns[j][i] is the cell of Symbols[j] at Dates[i].
type Table struct {
	Dates   []time.Time
	Symbols []string
	Columns [][]float64
}

// Rows returns the number of dates.
func (t *Table) Rows() int { return len(t.Dates) }

// Column returns the cells of symbol.
func (t *Table) Column(symbol string) ([]float64, bool) {
	for j, s := range t.Symbols {
		if s == symbol {
			return t.Columns[j], true
		}
	}
	return nil, false
}

// Row returns the cells at date index i, in symbol order.
func (t *Table) Row(i int) []float64 {
	out := make([]float64, len(t.Columns))
	for j, col := range t.Columns {
		out[j] = col[i]
	}
	return out
}

// Final returns the last present cell of column j, or Missing if it has none.
func (t *Table) Final(j int) float64 {
	col := t.Columns[j]
	for i := len(col) - 1; i >= 0; i-- {
		if !IsMissing(col[i]) {
			return col[i]
		}
	}
	return Missing
}

// MissingCount returns the number of absent cells per column.
func (t *Table) MissingCount() []int {
	out := make([]int, len(t.Columns))
	for j, col := range t.Columns {
		for _, v := range col {
			if IsMissing(v) {
				out[j]++
			}
		}
	}
	return out
}

// Assemble outer-joins per-symbol series on date.
// The date index is the sorted union of all series dates; a date a series lacks
// yields a Missing cell. Columns follow the order of series.
func Assemble(series []finance.Series) (*Table, error) {
	seen := make(map[string]bool, len(series))
	dateSet := make(map[time.Time]struct{})
	for _, s := range series {
		if seen[s.Symbol] {
			return nil, fmt.Errorf("duplicate symbol: %s", s.Symbol)
		}
		seen[s.Symbol] = true
		for _, p := range s.Points {
			dateSet[finance.Day(p.Date)] = struct{}{}
		}
	}

	dates := make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	index := make(map[time.Time]int, len(dates))
	for i, d := range dates {
		index[d] = i
	}

	t := &Table{
		Dates:   dates,
		Symbols: make([]string, len(series)),
		Columns: make([][]float64, len(series)),
	}
	for j, s := range series {
		t.Symbols[j] = s.Symbol
		col := make([]float64, len(dates))
		for i := range col {
			col[i] = Missing
		}
		for _, p := range s.Points {
			col[index[finance.Day(p.Date)]] = p.Close
		}
		t.Columns[j] = col
	}
	return t, nil
}

// present returns the non-missing values of x.
func present(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if !IsMissing(v) {
			out = append(out, v)
		}
	}
	return out
}

// presentPairs returns the positions where both x and y are present.
func presentPairs(x, y []float64) ([]float64, []float64) {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if IsMissing(x[i]) || IsMissing(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	return xs, ys
}
