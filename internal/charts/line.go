package charts

import (
	"errors"
	"time"

	gocharts "github.com/vicanso/go-charts/v2"

	"portfolioAnalytics/internal/analytics"
)

const (
	TitlePrices      = "Portfolio Close Price History"
	TitleReturns     = "Volatility in Daily simple returns"
	TitleGrowth      = "Daily Cumulative Simple returns/growth of investment"
	TitleCorrelation = "Correlation of daily returns"
	TitleRisk        = "Risk Box Plot"
)

var errNoData = errors.New("no data to plot")

// PriceHistory plots every close price column on one axis.
func PriceHistory(prices *analytics.Table, opts Options) ([]byte, error) {
	sub := "Close Price"
	if opts.Currency != "" {
		sub += " " + opts.Currency
	}
	return lineChart(prices, TitlePrices, sub, opts)
}

// DailyReturns plots the daily simple return of every symbol.
func DailyReturns(returns *analytics.Table, opts Options) ([]byte, error) {
	return lineChart(returns, TitleReturns, "Daily simple returns", opts)
}

// CumulativeGrowth plots the growth of one unit invested in every symbol.
func CumulativeGrowth(growth *analytics.Table, opts Options) ([]byte, error) {
	sub := "Growth of 1"
	if opts.Currency != "" {
		sub = "Growth of " + opts.Currency + " 1 investment"
	}
	return lineChart(growth, TitleGrowth, sub, opts)
}

func lineChart(t *analytics.Table, title, subtitle string, opts Options) ([]byte, error) {
	w, h := opts.size()
	values, names := drawable(t)
	if len(values) == 0 || t.Rows() < 2 {
		return placeholder(title, w, h)
	}

	xLabels := make([]string, t.Rows())
	for i, d := range t.Dates {
		xLabels[i] = d.Format(time.DateOnly)
	}

	yMin, yMax := values[0][0], values[0][0]
	for _, col := range values {
		for _, v := range col {
			if v < yMin {
				yMin = v
			}
			if v > yMax {
				yMax = v
			}
		}
	}
	pad := (yMax - yMin) * 0.05
	if pad == 0 {
		pad = 0.05
	}
	yMin -= pad
	yMax += pad

	splitNum := 10
	if len(xLabels) <= 30 {
		splitNum = len(xLabels) / 3
		if splitNum < 2 {
			splitNum = 2
		}
	}

	seriesList := gocharts.NewSeriesListDataFromValues(values, gocharts.ChartTypeLine)
	for i := range seriesList {
		seriesList[i].Name = names[i]
		seriesList[i].AxisIndex = 0
	}

	painter, err := gocharts.Render(gocharts.ChartOption{SeriesList: seriesList},
		gocharts.TitleTextOptionFunc(title, subtitle),
		gocharts.XAxisOptionFunc(gocharts.XAxisOption{
			Data:        xLabels,
			SplitNumber: splitNum,
			BoundaryGap: gocharts.FalseFlag(),
		}),
		gocharts.YAxisOptionFunc(gocharts.YAxisOption{
			Min:         &yMin,
			Max:         &yMax,
			DivideCount: 5,
		}),
		gocharts.LegendOptionFunc(gocharts.LegendOption{Data: names}),
		gocharts.ThemeOptionFunc(gocharts.ThemeLight),
		gocharts.WidthOptionFunc(w),
		gocharts.HeightOptionFunc(h),
	)
	if err != nil {
		return nil, err
	}
	return painter.Bytes()
}

// drawable returns the columns of t with gaps forward-filled, skipping columns
// with no values at all. A leading gap takes the first observed value.
func drawable(t *analytics.Table) ([][]float64, []string) {
	var values [][]float64
	var names []string
	for j, col := range t.Columns {
		first := -1
		for i, v := range col {
			if !analytics.IsMissing(v) {
				first = i
				break
			}
		}
		if first < 0 {
			continue
		}
		filled := make([]float64, len(col))
		last := col[first]
		for i, v := range col {
			if !analytics.IsMissing(v) {
				last = v
			}
			filled[i] = last
		}
		values = append(values, filled)
		names = append(names, t.Symbols[j])
	}
	return values, names
}

// placeholder draws a titled blank figure for tables too short to plot.
func placeholder(title string, w, h int) ([]byte, error) {
	c, err := newCanvas(w, h)
	if err != nil {
		return nil, err
	}
	c.title(title)
	c.text(errNoData.Error(), w/2, h/2, 12, colorAxis, alignCenter)
	return c.bytes()
}
