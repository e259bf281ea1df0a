package analytics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear is the fixed annualization constant for daily statistics.
const TradingDaysPerYear = 252

// Matrix is a square symbol × symbol matrix.
type Matrix struct {
	Symbols []string
	Values  [][]float64
}

// At returns the cell for the pair (a, b).
func (m Matrix) At(a, b string) (float64, bool) {
	i, j := -1, -1
	for k, s := range m.Symbols {
		if s == a {
			i = k
		}
		if s == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Values[i][j], true
}

// Correlation computes the Pearson correlation of every pair of columns over the
// rows where both are present. A pair with fewer than two common rows, or where
// either side is constant, is Missing. The diagonal is exactly 1 for columns
// that vary.
func Correlation(returns *Table) Matrix {
	n := len(returns.Columns)
	m := Matrix{
		Symbols: append([]string(nil), returns.Symbols...),
		Values:  make([][]float64, n),
	}
	for i := range m.Values {
		m.Values[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		own := present(returns.Columns[i])
		if len(own) >= 2 && !constant(own) {
			m.Values[i][i] = 1
		} else {
			m.Values[i][i] = Missing
		}
		for j := i + 1; j < n; j++ {
			c := pearson(returns.Columns[i], returns.Columns[j])
			m.Values[i][j] = c
			m.Values[j][i] = c
		}
	}
	return m
}

func pearson(x, y []float64) float64 {
	xs, ys := presentPairs(x, y)
	if len(xs) < 2 || constant(xs) || constant(ys) {
		return Missing
	}
	c := stat.Correlation(xs, ys, nil)
	// keep rounding noise inside [-1, 1]
	return math.Max(-1, math.Min(1, c))
}

func constant(x []float64) bool {
	for _, v := range x[1:] {
		if v != x[0] {
			return false
		}
	}
	return true
}

// AverageDailyReturn returns the arithmetic mean of every column, ignoring Missing cells.
func AverageDailyReturn(returns *Table) []float64 {
	out := make([]float64, len(returns.Columns))
	for j, col := range returns.Columns {
		vals := present(col)
		if len(vals) == 0 {
			out[j] = Missing
			continue
		}
		out[j] = stat.Mean(vals, nil)
	}
	return out
}

// DailyStdDev returns the sample (n-1) standard deviation of every column,
// ignoring Missing cells. Fewer than two values give Missing.
func DailyStdDev(returns *Table) []float64 {
	out := make([]float64, len(returns.Columns))
	for j, col := range returns.Columns {
		vals := present(col)
		switch {
		case len(vals) < 2:
			out[j] = Missing
		case constant(vals):
			out[j] = 0
		default:
			out[j] = stat.StdDev(vals, nil)
		}
	}
	return out
}

// AnnualizedVolatility scales the daily standard deviation by √252.
func AnnualizedVolatility(returns *Table) []float64 {
	out := DailyStdDev(returns)
	for j := range out {
		out[j] *= math.Sqrt(TradingDaysPerYear)
	}
	return out
}

// SharpeRatio computes avg / vol * 100 elementwise, with no risk-free rate.
// Zero volatility yields NaN or ±Inf, which is returned as is.
// avg and vol must have the same length.
func SharpeRatio(avg, vol []float64) []float64 {
	out := make([]float64, len(avg))
	for i := range avg {
		out[i] = avg[i] / vol[i] * 100
	}
	return out
}

// Summary holds the per-symbol statistics of a return table.
type Summary struct {
	Symbol               string
	MeanDailyReturn      float64
	DailyStdDev          float64
	AnnualizedVolatility float64
	SharpeRatio          float64
}

// Analysis bundles every table derived from a price table in one run.
type Analysis struct {
	Prices      *Table
	Returns     *Table
	Correlation Matrix
	Summary     []Summary
	Growth      *Table
}

// Analyze derives returns, correlation, summary statistics and cumulative growth from prices.
func Analyze(prices *Table) *Analysis {
	returns := DailyReturns(prices)
	avg := AverageDailyReturn(returns)
	std := DailyStdDev(returns)
	vol := AnnualizedVolatility(returns)
	sharpe := SharpeRatio(avg, vol)

	summary := make([]Summary, len(returns.Symbols))
	for j, s := range returns.Symbols {
		summary[j] = Summary{
			Symbol:               s,
			MeanDailyReturn:      avg[j],
			DailyStdDev:          std[j],
			AnnualizedVolatility: vol[j],
			SharpeRatio:          sharpe[j],
		}
	}
	return &Analysis{
		Prices:      prices,
		Returns:     returns,
		Correlation: Correlation(returns),
		Summary:     summary,
		Growth:      CumulativeGrowth(returns),
	}
}

// Warning describes a value that propagated as missing or non-finite.
type Warning struct {
	Symbol  string
	Message string
}

func (w Warning) String() string { return w.Symbol + ": " + w.Message }

// Warnings lists residual missing returns and non-finite Sharpe ratios.
func (a *Analysis) Warnings() []Warning {
	var out []Warning
	missing := a.Returns.MissingCount()
	for j, s := range a.Summary {
		if missing[j] > 0 {
			out = append(out, Warning{
				Symbol:  s.Symbol,
				Message: fmt.Sprintf("%d of %d daily returns missing", missing[j], a.Returns.Rows()),
			})
		}
		if math.IsNaN(s.SharpeRatio) || math.IsInf(s.SharpeRatio, 0) {
			out = append(out, Warning{
				Symbol:  s.Symbol,
				Message: fmt.Sprintf("non-finite sharpe ratio %v (volatility %v)", s.SharpeRatio, s.AnnualizedVolatility),
			})
		}
	}
	return out
}
