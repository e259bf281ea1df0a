// Package charts renders the figures of a portfolio analysis as PNG images.
package charts

import (
	"fmt"
	"os"
	"path/filepath"

	"portfolioAnalytics/internal/analytics"
)

// Figure is one rendered image.
type Figure struct {
	Name  string // file name, e.g. prices.png
	Title string
	PNG   []byte
}

// Options controls figure rendering.
type Options struct {
	Currency string // y-axis label of the price chart, e.g. INR
	Width    int
	Height   int
}

func (o Options) size() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = 1000
	}
	if h <= 0 {
		h = 600
	}
	return w, h
}

// Render draws every figure of a.
func Render(a *analytics.Analysis, opts Options) ([]Figure, error) {
	type job struct {
		name, title string
		draw        func() ([]byte, error)
	}
	jobs := []job{
		{"prices.png", TitlePrices, func() ([]byte, error) { return PriceHistory(a.Prices, opts) }},
		{"daily_returns.png", TitleReturns, func() ([]byte, error) { return DailyReturns(a.Returns, opts) }},
		{"cumulative_returns.png", TitleGrowth, func() ([]byte, error) { return CumulativeGrowth(a.Growth, opts) }},
		{"correlation.png", TitleCorrelation, func() ([]byte, error) { return Heatmap(a.Correlation, opts) }},
		{"risk_boxplot.png", TitleRisk, func() ([]byte, error) { return BoxPlot(a.Returns, opts) }},
	}
	out := make([]Figure, 0, len(jobs))
	for _, j := range jobs {
		img, err := j.draw()
		if err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", j.name, err)
		}
		out = append(out, Figure{Name: j.name, Title: j.title, PNG: img})
	}
	return out, nil
}

// WriteFiles writes figs into dir, creating it when needed, and returns the paths written.
func WriteFiles(dir string, figs []Figure) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	paths := make([]string, 0, len(figs))
	for _, f := range figs {
		p := filepath.Join(dir, f.Name)
		if err := os.WriteFile(p, f.PNG, 0o644); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", p, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}
