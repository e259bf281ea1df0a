package analytics

import "time"

// DailyReturns computes the lag-1 simple return of every column:
//
//	r[t] = (p[t] - p[t-1]) / p[t-1]
//
// The first row is undefined and dropped, so the result has one row fewer than
// prices. A return is Missing when either price is Missing; such rows are kept.
func DailyReturns(prices *Table) *Table {
	n := prices.Rows() - 1
	if n < 0 {
		n = 0
	}
	out := &Table{
		Dates:   make([]time.Time, n),
		Symbols: append([]string(nil), prices.Symbols...),
		Columns: make([][]float64, len(prices.Columns)),
	}
	if n > 0 {
		copy(out.Dates, prices.Dates[1:])
	}
	for j, p := range prices.Columns {
		col := make([]float64, n)
		for i := 0; i < n; i++ {
			prev, cur := p[i], p[i+1]
			if IsMissing(prev) || IsMissing(cur) {
				col[i] = Missing
				continue
			}
			col[i] = (cur - prev) / prev
		}
		out.Columns[j] = col
	}
	return out
}

// CumulativeGrowth compounds returns down each column: the value at row t is the
// product of (1 + r) over rows 0..t, i.e. the growth of one unit invested at the
// start. A Missing return yields a Missing cell and is skipped by the product.
func CumulativeGrowth(returns *Table) *Table {
	out := &Table{
		Dates:   append([]time.Time(nil), returns.Dates...),
		Symbols: append([]string(nil), returns.Symbols...),
		Columns: make([][]float64, len(returns.Columns)),
	}
	for j, r := range returns.Columns {
		col := make([]float64, len(r))
		acc := 1.0
		for i, v := range r {
			if IsMissing(v) {
				col[i] = Missing
				continue
			}
			acc *= 1 + v
			col[i] = acc
		}
		out.Columns[j] = col
	}
	return out
}
