package charts

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"portfolioAnalytics/internal/analytics"
	"portfolioAnalytics/internal/finance"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func testAnalysis(t *testing.T) *analytics.Analysis {
	t.Helper()
	mk := func(sym string, closes ...float64) finance.Series {
		s := finance.Series{Symbol: sym}
		for i, c := range closes {
			s.Points = append(s.Points, finance.Point{Date: time.Date(2024, 1, 2+i, 0, 0, 0, 0, time.UTC), Close: c})
		}
		return s
	}
	prices, err := analytics.Assemble([]finance.Series{
		mk("INFY.NS", 100, 102, 101, 105, 104, 108, 107),
		mk("WIPRO.NS", 50, 51, 50.2, 52.9, 52, 54.5, 54),
		mk("FLAT.NS", 10, 10, 10, 10, 10, 10, 10),
	})
	require.NoError(t, err)
	return analytics.Analyze(prices)
}

func TestRenderProducesEveryFigure(t *testing.T) {
	figs, err := Render(testAnalysis(t), Options{Currency: "INR", Width: 800, Height: 500})
	require.NoError(t, err)

	var names []string
	for _, f := range figs {
		names = append(names, f.Name)
		assert.True(t, bytes.HasPrefix(f.PNG, pngMagic), "%s is not a png", f.Name)
		assert.NotEmpty(t, f.Title)
	}
	assert.Equal(t, []string{
		"prices.png", "daily_returns.png", "cumulative_returns.png", "correlation.png", "risk_boxplot.png",
	}, names)
}

func TestLineChartTooShortIsPlaceholder(t *testing.T) {
	tbl := &analytics.Table{
		Dates:   []time.Time{time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		Symbols: []string{"A"},
		Columns: [][]float64{{1}},
	}
	img, err := PriceHistory(tbl, Options{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, pngMagic))
}

func TestDrawableForwardFills(t *testing.T) {
	m := analytics.Missing
	tbl := &analytics.Table{
		Dates:   make([]time.Time, 4),
		Symbols: []string{"A", "EMPTY"},
		Columns: [][]float64{{m, 2, m, 4}, {m, m, m, m}},
	}
	values, names := drawable(tbl)
	assert.Equal(t, []string{"A"}, names)
	assert.Equal(t, [][]float64{{2, 2, 2, 4}}, values)
}

func TestSummarizeQuartilesAndOutliers(t *testing.T) {
	col := []float64{9, 1, 2, analytics.Missing, 3, 4, 5, 6, 7, 8, 100}
	b, ok := summarize(col)
	require.True(t, ok)

	assert.InDelta(t, 3.25, b.Q1, 1e-12)
	assert.InDelta(t, 5.5, b.Median, 1e-12)
	assert.InDelta(t, 7.75, b.Q3, 1e-12)
	assert.Equal(t, 1.0, b.Low)
	assert.Equal(t, 9.0, b.High)
	assert.Equal(t, []float64{100}, b.Outliers)

	_, ok = summarize([]float64{analytics.Missing})
	assert.False(t, ok)
}

func TestHeatColorEnds(t *testing.T) {
	lo, dark := heatColor(-1)
	assert.Equal(t, ylGnBu[0], lo)
	assert.False(t, dark)

	hi, dark := heatColor(1)
	assert.Equal(t, ylGnBu[len(ylGnBu)-1], hi)
	assert.True(t, dark)

	clamped, _ := heatColor(7)
	assert.Equal(t, hi, clamped)
	assert.NotEqual(t, drawing.ColorWhite, lo)
}

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	paths, err := WriteFiles(dir, []Figure{{Name: "a.png", PNG: pngMagic}, {Name: "b.png", PNG: pngMagic}})
	require.NoError(t, err)
	require.Len(t, paths, 2)

	got, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Equal(t, pngMagic, got)
}
