package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolioAnalytics/internal/finance"
)

func day(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

func series(symbol string, closes map[int]float64) finance.Series {
	s := finance.Series{Symbol: symbol}
	for d := 1; d <= 31; d++ {
		if v, ok := closes[d]; ok {
			s.Points = append(s.Points, finance.Point{Date: day(d), Close: v})
		}
	}
	return s
}

func mustAssemble(t *testing.T, ss ...finance.Series) *Table {
	t.Helper()
	tbl, err := Assemble(ss)
	require.NoError(t, err)
	return tbl
}

func TestAssembleOuterJoin(t *testing.T) {
	tbl := mustAssemble(t,
		series("B", map[int]float64{2: 10, 3: 11, 5: 12}),
		series("A", map[int]float64{3: 20, 4: 21}),
	)

	assert.Equal(t, []time.Time{day(2), day(3), day(4), day(5)}, tbl.Dates)
	assert.Equal(t, []string{"B", "A"}, tbl.Symbols)

	b, _ := tbl.Column("B")
	assert.Equal(t, 10.0, b[0])
	assert.True(t, IsMissing(b[2]))

	a, _ := tbl.Column("A")
	assert.True(t, IsMissing(a[0]))
	assert.Equal(t, 21.0, a[2])
	assert.True(t, IsMissing(a[3]))
	assert.Equal(t, []int{1, 2}, tbl.MissingCount())
}

func TestAssembleRejectsDuplicateSymbols(t *testing.T) {
	_, err := Assemble([]finance.Series{series("A", nil), series("A", nil)})
	assert.Error(t, err)
}

func TestAssembleIsIdempotent(t *testing.T) {
	in := []finance.Series{
		series("X", map[int]float64{2: 1, 3: 2}),
		series("Y", map[int]float64{3: 5, 4: 6}),
	}
	first, err := Assemble(in)
	require.NoError(t, err)
	second, err := Assemble(in)
	require.NoError(t, err)
	assert.Equal(t, first.Dates, second.Dates)
	assert.Equal(t, first.Symbols, second.Symbols)
	for j := range first.Columns {
		assertSameCells(t, first.Columns[j], second.Columns[j])
	}
}

// assertCells compares columns within 1e-12, treating two Missing cells as equal.
func assertCells(t *testing.T, want, got []float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		if IsMissing(want[i]) {
			assert.True(t, IsMissing(got[i]), "row %d", i)
			continue
		}
		assert.InDelta(t, want[i], got[i], 1e-12, "row %d", i)
	}
}

// assertSameCells is assertCells with bit-identical present cells.
func assertSameCells(t *testing.T, want, got []float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		if IsMissing(want[i]) {
			assert.True(t, IsMissing(got[i]), "row %d", i)
			continue
		}
		assert.Equal(t, want[i], got[i], "row %d", i)
	}
}

func TestWorkedExample(t *testing.T) {
	prices := mustAssemble(t, series("X", map[int]float64{2: 100, 3: 110, 4: 99}))
	a := Analyze(prices)

	r, _ := a.Returns.Column("X")
	require.Len(t, r, 2)
	assert.InDelta(t, 0.10, r[0], 1e-12)
	assert.InDelta(t, -0.10, r[1], 1e-12)
	assert.Equal(t, []time.Time{day(3), day(4)}, a.Returns.Dates)

	s := a.Summary[0]
	assert.InDelta(t, 0.0, s.MeanDailyReturn, 1e-12)
	assert.InDelta(t, math.Sqrt(0.02), s.DailyStdDev, 1e-12)
	assert.InDelta(t, math.Sqrt(0.02)*math.Sqrt(252), s.AnnualizedVolatility, 1e-12)

	g, _ := a.Growth.Column("X")
	assert.InDelta(t, 1.10, g[0], 1e-12)
	assert.InDelta(t, 0.99, g[1], 1e-12)
}

func TestConstantPriceGivesNaNSharpe(t *testing.T) {
	prices := mustAssemble(t,
		series("FLAT", map[int]float64{2: 50, 3: 50, 4: 50, 5: 50}),
		series("UP", map[int]float64{2: 50, 3: 51, 4: 53, 5: 52}),
	)
	a := Analyze(prices)

	flat := a.Summary[0]
	assert.Equal(t, 0.0, flat.MeanDailyReturn)
	assert.Equal(t, 0.0, flat.AnnualizedVolatility)
	assert.True(t, math.IsNaN(flat.SharpeRatio))

	assert.True(t, IsMissing(a.Correlation.Values[0][0]))
	assert.True(t, IsMissing(a.Correlation.Values[0][1]))
	assert.Equal(t, 1.0, a.Correlation.Values[1][1])

	ws := a.Warnings()
	require.Len(t, ws, 1)
	assert.Equal(t, "FLAT", ws[0].Symbol)
	assert.Contains(t, ws[0].String(), "non-finite sharpe ratio")
}

func TestSharpeRatioPropagatesInfinity(t *testing.T) {
	got := SharpeRatio([]float64{0.01, -0.01, 0.002}, []float64{0, 0, 0.2})
	assert.True(t, math.IsInf(got[0], 1))
	assert.True(t, math.IsInf(got[1], -1))
	assert.InDelta(t, 1.0, got[2], 1e-12)
}

func TestReturnRowCount(t *testing.T) {
	prices := mustAssemble(t,
		series("A", map[int]float64{2: 1, 3: 2, 4: 3, 5: 4}),
		series("B", map[int]float64{2: 1, 5: 4}),
	)
	r := DailyReturns(prices)
	assert.Equal(t, prices.Rows()-1, r.Rows())
	for _, col := range r.Columns {
		assert.Len(t, col, prices.Rows()-1)
	}
}

func TestDailyReturnsEmptyAndSingleRow(t *testing.T) {
	empty := DailyReturns(&Table{Symbols: []string{"A"}, Columns: [][]float64{{}}})
	assert.Equal(t, 0, empty.Rows())

	one := DailyReturns(mustAssemble(t, series("A", map[int]float64{2: 1})))
	assert.Equal(t, 0, one.Rows())
	assert.True(t, IsMissing(AverageDailyReturn(one)[0]))
	assert.True(t, IsMissing(DailyStdDev(one)[0]))
}

func TestMissingPricesPropagate(t *testing.T) {
	prices := mustAssemble(t,
		series("A", map[int]float64{2: 100, 3: 110, 4: 99, 5: 105}),
		series("B", map[int]float64{2: 10, 3: 11, 5: 12}),
	)
	a := Analyze(prices)

	rb, _ := a.Returns.Column("B")
	require.Len(t, rb, 3)
	assert.InDelta(t, 0.1, rb[0], 1e-12)
	assert.True(t, IsMissing(rb[1]))
	assert.True(t, IsMissing(rb[2]))

	// mean ignores missing cells
	assert.InDelta(t, 0.1, a.Summary[1].MeanDailyReturn, 1e-12)
	// fewer than two values: no std
	assert.True(t, IsMissing(a.Summary[1].DailyStdDev))

	gb, _ := a.Growth.Column("B")
	assert.InDelta(t, 1.1, gb[0], 1e-12)
	assert.True(t, IsMissing(gb[1]))

	ws := a.Warnings()
	var symbols []string
	for _, w := range ws {
		symbols = append(symbols, w.Symbol)
	}
	assert.Contains(t, symbols, "B")
	assert.NotContains(t, symbols, "A")
}

func TestCumulativeGrowthSkipsMissing(t *testing.T) {
	r := &Table{
		Dates:   []time.Time{day(2), day(3), day(4)},
		Symbols: []string{"A"},
		Columns: [][]float64{{0.1, Missing, 0.1}},
	}
	g := CumulativeGrowth(r)
	assertCells(t, []float64{1.1, Missing, 1.1 * 1.1}, g.Columns[0])
	assert.InDelta(t, 1.21, g.Final(0), 1e-12)
}

func TestFinalGrowthSkipsTrailingGap(t *testing.T) {
	prices := mustAssemble(t,
		series("A", map[int]float64{1: 100, 2: 110, 3: 99}),
		series("B", map[int]float64{1: 10, 2: 11, 4: 12}),
	)
	a := Analyze(prices)

	gb, _ := a.Growth.Column("B")
	require.Len(t, gb, 3)
	assert.True(t, IsMissing(gb[2]))
	assert.InDelta(t, 1.1, a.Growth.Final(1), 1e-12)
	assert.InDelta(t, 0.99, a.Growth.Final(0), 1e-12)

	empty := &Table{Symbols: []string{"A"}, Columns: [][]float64{{Missing, Missing}}}
	assert.True(t, IsMissing(empty.Final(0)))
}

func TestCumulativeGrowthFirstRow(t *testing.T) {
	prices := mustAssemble(t,
		series("A", map[int]float64{2: 100, 3: 95, 4: 97}),
		series("B", map[int]float64{2: 20, 3: 21, 4: 19}),
	)
	a := Analyze(prices)
	for j := range a.Returns.Columns {
		assert.InDelta(t, 1+a.Returns.Columns[j][0], a.Growth.Columns[j][0], 1e-12)
	}
}

func TestCorrelationProperties(t *testing.T) {
	prices := mustAssemble(t,
		series("A", map[int]float64{2: 100, 3: 102, 4: 101, 5: 105, 8: 104, 9: 108}),
		series("B", map[int]float64{2: 50, 3: 51, 4: 50.2, 5: 52.9, 8: 52, 9: 54.5}),
		series("C", map[int]float64{2: 10, 3: 9.5, 4: 9.9, 5: 9.1, 8: 9.4, 9: 9.0}),
	)
	m := Correlation(DailyReturns(prices))

	require.Equal(t, []string{"A", "B", "C"}, m.Symbols)
	for i := range m.Values {
		assert.Equal(t, 1.0, m.Values[i][i])
		for j := range m.Values {
			assert.Equal(t, m.Values[i][j], m.Values[j][i])
			assert.LessOrEqual(t, m.Values[i][j], 1.0)
			assert.GreaterOrEqual(t, m.Values[i][j], -1.0)
		}
	}
	ab, ok := m.At("A", "B")
	require.True(t, ok)
	assert.Greater(t, ab, 0.9)
	ac, _ := m.At("A", "C")
	assert.Less(t, ac, 0.0)

	_, ok = m.At("A", "Z")
	assert.False(t, ok)
}

func TestCorrelationPairwiseExclusion(t *testing.T) {
	r := &Table{
		Dates:   []time.Time{day(2), day(3), day(4), day(5)},
		Symbols: []string{"A", "B"},
		Columns: [][]float64{
			{0.01, 0.02, Missing, 0.03},
			{0.02, 0.04, 0.5, 0.06},
		},
	}
	m := Correlation(r)
	assert.InDelta(t, 1.0, m.Values[0][1], 1e-12)
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	prices := mustAssemble(t,
		series("A", map[int]float64{2: 100, 3: 102, 4: 101, 5: 105}),
		series("B", map[int]float64{2: 50, 3: 49, 4: 50.2, 5: 52.9}),
	)
	first := Analyze(prices)
	second := Analyze(prices)

	assert.Equal(t, first.Returns.Columns, second.Returns.Columns)
	assert.Equal(t, first.Correlation.Values, second.Correlation.Values)
	assert.Equal(t, first.Summary, second.Summary)
}
