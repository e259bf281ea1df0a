package charts

import (
	"fmt"
	"sort"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"portfolioAnalytics/internal/analytics"
)

// whiskerK is the IQR multiple beyond which values are drawn as outliers.
const whiskerK = 1.5

type boxStats struct {
	Q1, Median, Q3 float64
	Low, High      float64 // whisker ends
	Outliers       []float64
}

// percentile interpolates linearly between the closest ranks of sorted vals.
func percentile(vals []float64, p float64) float64 {
	if len(vals) == 0 {
		return analytics.Missing
	}
	if p <= 0 {
		return vals[0]
	}
	if p >= 1 {
		return vals[len(vals)-1]
	}
	pos := p * float64(len(vals)-1)
	lo := int(pos)
	hi := lo + 1
	if hi >= len(vals) {
		return vals[lo]
	}
	frac := pos - float64(lo)
	return vals[lo]*(1-frac) + vals[hi]*frac
}

// summarize computes box statistics over the non-missing values of col.
func summarize(col []float64) (boxStats, bool) {
	vals := make([]float64, 0, len(col))
	for _, v := range col {
		if !analytics.IsMissing(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return boxStats{}, false
	}
	sort.Float64s(vals)
	b := boxStats{
		Q1:     percentile(vals, 0.25),
		Median: percentile(vals, 0.5),
		Q3:     percentile(vals, 0.75),
	}
	iqr := b.Q3 - b.Q1
	lower, upper := b.Q1-whiskerK*iqr, b.Q3+whiskerK*iqr
	b.Low, b.High = b.Q1, b.Q3
	for _, v := range vals {
		if v < lower || v > upper {
			b.Outliers = append(b.Outliers, v)
			continue
		}
		if v < b.Low {
			b.Low = v
		}
		if v > b.High {
			b.High = v
		}
	}
	return b, true
}

// BoxPlot draws one box per symbol of the daily return distribution.
func BoxPlot(returns *analytics.Table, opts Options) ([]byte, error) {
	w, h := opts.size()
	c, err := newCanvas(w, h)
	if err != nil {
		return nil, err
	}
	c.title(TitleRisk)

	type box struct {
		name string
		s    boxStats
	}
	var boxes []box
	yMin, yMax := 0.0, 0.0
	for j, col := range returns.Columns {
		s, ok := summarize(col)
		if !ok {
			continue
		}
		if len(boxes) == 0 {
			yMin, yMax = s.Low, s.High
		}
		for _, v := range append([]float64{s.Low, s.High}, s.Outliers...) {
			if v < yMin {
				yMin = v
			}
			if v > yMax {
				yMax = v
			}
		}
		boxes = append(boxes, box{name: returns.Symbols[j], s: s})
	}
	if len(boxes) == 0 {
		c.text(errNoData.Error(), w/2, h/2, 12, colorAxis, alignCenter)
		return c.bytes()
	}
	pad := (yMax - yMin) * 0.05
	if pad == 0 {
		pad = 0.01
	}
	yMin -= pad
	yMax += pad

	const left, right, top, bottom = 80, 30, 60, 60
	plotH := h - top - bottom
	y := func(v float64) int { return top + int((yMax-v)/(yMax-yMin)*float64(plotH)) }

	const divide = 5
	for k := 0; k <= divide; k++ {
		v := yMin + (yMax-yMin)*float64(k)/divide
		yy := y(v)
		c.line(left, yy, w-right, yy, colorGrid, 1)
		c.text(fmt.Sprintf("%.3f", v), left-8, yy, 10, colorText, alignRight)
	}

	slot := (w - left - right) / len(boxes)
	half := slot / 4
	fill := drawing.Color{R: 84, G: 112, B: 198, A: 160}
	for i, b := range boxes {
		cx := left + i*slot + slot/2
		c.line(cx, y(b.s.High), cx, y(b.s.Q3), colorAxis, 1)
		c.line(cx, y(b.s.Q1), cx, y(b.s.Low), colorAxis, 1)
		c.line(cx-half/2, y(b.s.High), cx+half/2, y(b.s.High), colorAxis, 1)
		c.line(cx-half/2, y(b.s.Low), cx+half/2, y(b.s.Low), colorAxis, 1)
		c.rect(cx-half, y(b.s.Q3), cx+half, y(b.s.Q1), fill, colorAxis)
		c.line(cx-half, y(b.s.Median), cx+half, y(b.s.Median), drawing.Color{R: 238, G: 102, B: 102, A: 255}, 2)
		for _, o := range b.s.Outliers {
			c.circle(cx, y(o), 3, colorAxis)
		}
		c.text(b.name, cx, h-bottom+16+(i%2)*14, 10, colorText, alignCenter)
	}
	c.line(left, top, left, h-bottom, colorAxis, 1)
	c.line(left, h-bottom, w-right, h-bottom, colorAxis, 1)
	return c.bytes()
}
