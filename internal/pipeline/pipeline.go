// Package pipeline runs one portfolio analysis end to end:
// acquisition, assembly, analytics, then presentation.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"portfolioAnalytics/internal/analytics"
	"portfolioAnalytics/internal/charts"
	"portfolioAnalytics/internal/finance"
	"portfolioAnalytics/internal/report"
)

// Portfolio is the immutable input of a run.
type Portfolio struct {
	symbols    []string
	start, end time.Time
}

// NewPortfolio validates symbols and the inclusive date range [start, end].
func NewPortfolio(symbols []string, start, end time.Time) (Portfolio, error) {
	syms, err := finance.ParseSymbols(symbols)
	if err != nil {
		return Portfolio{}, err
	}
	start, end = finance.Day(start), finance.Day(end)
	if start.After(end) {
		return Portfolio{}, fmt.Errorf("%w: %s after %s", finance.ErrInvalidRange,
			start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	return Portfolio{symbols: syms, start: start, end: end}, nil
}

func (p Portfolio) Symbols() []string { return append([]string(nil), p.symbols...) }
func (p Portfolio) Start() time.Time  { return p.start }
func (p Portfolio) End() time.Time    { return p.end }

// Publisher delivers the text report and figures somewhere outside the process.
type Publisher interface {
	Publish(ctx context.Context, text string, figs []charts.Figure) error
}

// Commentator turns an analysis into prose.
type Commentator interface {
	Comment(ctx context.Context, a *analytics.Analysis) (string, error)
}

// Archiver stores fetched series for later offline runs.
type Archiver interface {
	Save(s finance.Series) error
}

// Pipeline holds the collaborators of a run. Only Source is required.
type Pipeline struct {
	Source      finance.PriceSource
	Concurrency int

	Out         io.Writer // text report; nil discards
	OutputDir   string    // figure directory; empty skips writing files
	SummaryPath string    // JSON summary file; empty skips it
	Charts      charts.Options

	Archive     Archiver
	Publisher   Publisher
	Commentator Commentator

	RunID string
	Log   *zap.Logger
	Now   func() time.Time
}

// Result is everything a run produced.
type Result struct {
	Analysis   *analytics.Analysis
	Figures    []charts.Figure
	Files      []string
	Commentary string
}

// Run executes the portfolio analysis. Acquisition and assembly failures abort
// the run before anything is presented.
func (p *Pipeline) Run(ctx context.Context, pf Portfolio) (*Result, error) {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	out := p.Out
	if out == nil {
		out = io.Discard
	}
	if p.Source == nil {
		return nil, fmt.Errorf("pipeline: no price source")
	}

	log.Info("pipeline: run started",
		zap.Strings("symbols", pf.symbols),
		zap.String("start", pf.start.Format(time.DateOnly)),
		zap.String("end", pf.end.Format(time.DateOnly)))

	series, err := finance.Acquire(ctx, p.Source, pf.symbols, pf.start, pf.end, finance.AcquireOptions{
		Concurrency: p.Concurrency,
		Log:         log,
	})
	if err != nil {
		return nil, err
	}
	if p.Archive != nil {
		for _, s := range series {
			if err := p.Archive.Save(s); err != nil {
				log.Warn("pipeline: archive failed", zap.String("symbol", s.Symbol), zap.Error(err))
			}
		}
	}

	prices, err := analytics.Assemble(series)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble prices: %w", err)
	}
	a := analytics.Analyze(prices)
	log.Info("pipeline: analysis complete",
		zap.Int("dates", prices.Rows()),
		zap.Int("returns", a.Returns.Rows()))
	for _, w := range a.Warnings() {
		log.Warn("analytics: "+w.Message, zap.String("symbol", w.Symbol))
	}

	res := &Result{Analysis: a}
	asOf := now()
	if err := report.Write(out, a, report.Options{AsOf: asOf}); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	res.Figures, err = charts.Render(a, p.Charts)
	if err != nil {
		return nil, err
	}
	if p.OutputDir != "" {
		res.Files, err = charts.WriteFiles(p.OutputDir, res.Figures)
		if err != nil {
			return nil, err
		}
		log.Info("pipeline: figures written", zap.String("dir", p.OutputDir), zap.Int("count", len(res.Files)))
	}
	if p.SummaryPath != "" {
		if err := report.WriteSummary(p.SummaryPath, a, asOf, p.RunID); err != nil {
			return nil, err
		}
		res.Files = append(res.Files, p.SummaryPath)
		log.Info("pipeline: summary written", zap.String("path", p.SummaryPath))
	}

	if p.Commentator != nil {
		text, err := p.Commentator.Comment(ctx, a)
		if err != nil {
			log.Warn("pipeline: commentary failed", zap.Error(err))
		} else {
			res.Commentary = text
			fmt.Fprintf(out, "\nCommentary\n%s\n", text)
		}
	}

	if p.Publisher != nil {
		text := report.Digest(a, asOf)
		if res.Commentary != "" {
			text += "\n" + res.Commentary
		}
		if err := p.Publisher.Publish(ctx, text, res.Figures); err != nil {
			log.Warn("pipeline: publish failed", zap.Error(err))
		}
	}
	return res, nil
}
