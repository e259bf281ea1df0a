package charts

import (
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"portfolioAnalytics/internal/analytics"
)

// ylGnBu is the yellow-green-blue sequential palette, light to dark.
var ylGnBu = []drawing.Color{
	{R: 255, G: 255, B: 217, A: 255},
	{R: 237, G: 248, B: 177, A: 255},
	{R: 199, G: 233, B: 180, A: 255},
	{R: 127, G: 205, B: 187, A: 255},
	{R: 65, G: 182, B: 196, A: 255},
	{R: 29, G: 145, B: 192, A: 255},
	{R: 34, G: 94, B: 168, A: 255},
	{R: 37, G: 52, B: 148, A: 255},
	{R: 8, G: 29, B: 88, A: 255},
}

// heatColor maps v in [-1, 1] onto ylGnBu. The second result reports whether
// the color is dark enough to need light annotation text.
func heatColor(v float64) (drawing.Color, bool) {
	t := (math.Max(-1, math.Min(1, v)) + 1) / 2
	pos := t * float64(len(ylGnBu)-1)
	lo := int(pos)
	if lo >= len(ylGnBu)-1 {
		return ylGnBu[len(ylGnBu)-1], true
	}
	frac := pos - float64(lo)
	a, b := ylGnBu[lo], ylGnBu[lo+1]
	mix := func(x, y uint8) uint8 { return uint8(math.Round(float64(x)*(1-frac) + float64(y)*frac)) }
	return drawing.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}, t > 0.6
}

// Heatmap draws the correlation matrix as an annotated grid on a fixed [-1, 1]
// color scale. Missing cells are grey and annotated "nan".
func Heatmap(m analytics.Matrix, opts Options) ([]byte, error) {
	w, h := opts.size()
	c, err := newCanvas(w, h)
	if err != nil {
		return nil, err
	}
	c.title(TitleCorrelation)
	n := len(m.Symbols)
	if n == 0 {
		c.text(errNoData.Error(), w/2, h/2, 12, colorAxis, alignCenter)
		return c.bytes()
	}

	const labelSize, top, barW = 10.0, 60, 110
	c.r.SetFont(c.font)
	c.r.SetFontSize(labelSize)
	labelW := 0
	for _, s := range m.Symbols {
		if lw := c.r.MeasureText(s).Width(); lw > labelW {
			labelW = lw
		}
	}
	left := labelW + 20
	bottom := 50
	cell := (w - left - barW) / n
	if ch := (h - top - bottom) / n; ch < cell {
		cell = ch
	}
	if cell < 4 {
		return nil, fmt.Errorf("canvas %dx%d too small for %d symbols", w, h, n)
	}
	annotSize := math.Min(12, float64(cell)/5)

	for i := 0; i < n; i++ {
		y0 := top + i*cell
		c.text(m.Symbols[i], left-8, y0+cell/2, labelSize, colorText, alignRight)
		for j := 0; j < n; j++ {
			x0 := left + j*cell
			v := m.Values[i][j]
			label := "nan"
			fill, dark := colorBlank, false
			if !analytics.IsMissing(v) {
				fill, dark = heatColor(v)
				label = fmt.Sprintf("%.2f", v)
			}
			c.rect(x0, y0, x0+cell, y0+cell, fill, drawing.ColorWhite)
			fg := colorText
			if dark {
				fg = drawing.ColorWhite
			}
			c.text(label, x0+cell/2, y0+cell/2, annotSize, fg, alignCenter)
		}
	}
	gridBottom := top + n*cell
	for j := 0; j < n; j++ {
		c.text(m.Symbols[j], left+j*cell+cell/2, gridBottom+14+(j%2)*14, labelSize, colorText, alignCenter)
	}

	// color bar
	bx := left + n*cell + 30
	steps := 50
	span := n * cell
	for k := 0; k < steps; k++ {
		v := 1 - 2*float64(k)/float64(steps-1)
		col, _ := heatColor(v)
		y0 := top + k*span/steps
		y1 := top + (k+1)*span/steps
		c.rect(bx, y0, bx+20, y1, col, col)
	}
	for _, tick := range []float64{1, 0.5, 0, -0.5, -1} {
		y := top + int((1-tick)/2*float64(span))
		c.line(bx+20, y, bx+25, y, colorAxis, 1)
		c.text(fmt.Sprintf("%.1f", tick), bx+28, y, labelSize, colorText, alignLeft)
	}
	return c.bytes()
}
