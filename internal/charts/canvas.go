package charts

import (
	"bytes"
	"fmt"

	"github.com/golang/freetype/truetype"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	colorGrid  = drawing.Color{R: 224, G: 230, B: 241, A: 255}
	colorAxis  = drawing.Color{R: 110, G: 112, B: 121, A: 255}
	colorText  = drawing.Color{R: 70, G: 70, B: 70, A: 255}
	colorBlank = drawing.Color{R: 200, G: 200, B: 200, A: 255}
)

type align int

const (
	alignLeft align = iota
	alignCenter
	alignRight
)

// canvas wraps a raster renderer for figures go-charts has no series type for.
type canvas struct {
	r    chart.Renderer
	font *truetype.Font
	w, h int
}

func newCanvas(w, h int) (*canvas, error) {
	r, err := chart.PNG(w, h)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	f, err := chart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	c := &canvas{r: r, font: f, w: w, h: h}
	c.rect(0, 0, w, h, drawing.ColorWhite, drawing.ColorWhite)
	return c, nil
}

func (c *canvas) rect(x0, y0, x1, y1 int, fill, stroke drawing.Color) {
	c.r.SetFillColor(fill)
	c.r.SetStrokeColor(stroke)
	c.r.SetStrokeWidth(1)
	c.r.MoveTo(x0, y0)
	c.r.LineTo(x1, y0)
	c.r.LineTo(x1, y1)
	c.r.LineTo(x0, y1)
	c.r.LineTo(x0, y0)
	c.r.Close()
	c.r.FillStroke()
}

func (c *canvas) line(x0, y0, x1, y1 int, col drawing.Color, width float64) {
	c.r.SetStrokeColor(col)
	c.r.SetStrokeWidth(width)
	c.r.MoveTo(x0, y0)
	c.r.LineTo(x1, y1)
	c.r.Stroke()
}

func (c *canvas) circle(x, y int, radius float64, col drawing.Color) {
	c.r.SetStrokeColor(col)
	c.r.SetStrokeWidth(1)
	c.r.Circle(radius, x, y)
	c.r.Stroke()
}

// text draws s with y as its vertical center.
func (c *canvas) text(s string, x, y int, size float64, col drawing.Color, a align) {
	c.r.SetFont(c.font)
	c.r.SetFontSize(size)
	c.r.SetFontColor(col)
	b := c.r.MeasureText(s)
	switch a {
	case alignCenter:
		x -= b.Width() / 2
	case alignRight:
		x -= b.Width()
	}
	c.r.Text(s, x, y+b.Height()/2)
}

func (c *canvas) title(s string) {
	c.text(s, c.w/2, 28, 16, colorText, alignCenter)
}

func (c *canvas) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.r.Save(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
