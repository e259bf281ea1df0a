// Package report prints an analysis as plain-text tables and a JSON summary.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"portfolioAnalytics/internal/analytics"
)

const (
	defaultMaxRows = 60
	defaultEdge    = 5
)

// Options controls the text report.
type Options struct {
	AsOf    time.Time // printed as the end date of the run
	MaxRows int       // longer tables print only their head and tail
	Edge    int       // rows kept at each end of a truncated table
}

func (o Options) limits() (int, int) {
	maxRows, edge := o.MaxRows, o.Edge
	if maxRows <= 0 {
		maxRows = defaultMaxRows
	}
	if edge <= 0 {
		edge = defaultEdge
	}
	return maxRows, edge
}

// Number formats v with the given decimal places. Non-finite values print as
// NaN, inf or -inf.
func Number(v float64, places int32) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}

// Write prints the full report of a to w.
func Write(w io.Writer, a *analytics.Analysis, opts Options) error {
	maxRows, edge := opts.limits()
	ew := &errWriter{w: w}

	ew.printf("End date: %s\n", opts.AsOf.Format(time.DateOnly))
	ew.printf("You have %d assets in your portfolio\n\n", len(a.Prices.Symbols))

	ew.printf("Close prices\n")
	writeTable(ew, a.Prices, 2, maxRows, edge)

	ew.printf("\nCorrelation of daily returns\n")
	writeMatrix(ew, a.Correlation)

	ew.printf("\nDaily simple returns\n")
	writeTable(ew, a.Returns, 6, maxRows, edge)

	ew.printf("\nRisk and return\n")
	writeSummary(ew, a.Summary)

	ew.printf("\nCumulative growth of 1 unit invested\n")
	writeTable(ew, a.Growth, 4, maxRows, edge)
	return ew.err
}

func writeTable(ew *errWriter, t *analytics.Table, places int32, maxRows, edge int) {
	tw := tabwriter.NewWriter(ew, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Date\t%s\t\n", strings.Join(t.Symbols, "\t"))
	row := func(i int) {
		cells := make([]string, len(t.Columns))
		for j, col := range t.Columns {
			cells[j] = Number(col[i], places)
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", t.Dates[i].Format(time.DateOnly), strings.Join(cells, "\t"))
	}
	n := t.Rows()
	if n <= maxRows || n <= 2*edge {
		for i := 0; i < n; i++ {
			row(i)
		}
	} else {
		for i := 0; i < edge; i++ {
			row(i)
		}
		fmt.Fprint(tw, strings.Repeat("...\t", len(t.Columns)+1)+"\n")
		for i := n - edge; i < n; i++ {
			row(i)
		}
	}
	ew.flush(tw)
	ew.printf("[%d rows x %d columns]\n", n, len(t.Columns))
}

func writeMatrix(ew *errWriter, m analytics.Matrix) {
	tw := tabwriter.NewWriter(ew, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "\t%s\t\n", strings.Join(m.Symbols, "\t"))
	for i, s := range m.Symbols {
		cells := make([]string, len(m.Values[i]))
		for j, v := range m.Values[i] {
			cells[j] = Number(v, 4)
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", s, strings.Join(cells, "\t"))
	}
	ew.flush(tw)
}

func writeSummary(ew *errWriter, ss []analytics.Summary) {
	tw := tabwriter.NewWriter(ew, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Symbol\tAvg daily return %%\tAnnualized volatility %%\tSharpe ratio\t\n")
	for _, s := range ss {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n",
			s.Symbol,
			Number(s.MeanDailyReturn*100, 4),
			Number(s.AnnualizedVolatility*100, 2),
			Number(s.SharpeRatio, 4),
		)
	}
	ew.flush(tw)
}

// Digest is a short per-symbol summary suitable for a chat message.
func Digest(a *analytics.Analysis, asOf time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Portfolio report %s (%s to %s, %d assets)\n",
		asOf.Format(time.DateOnly), firstDate(a.Prices), lastDate(a.Prices), len(a.Prices.Symbols))
	for i, s := range a.Summary {
		fmt.Fprintf(&b, "%s: avg %s%%/day, vol %s%%, sharpe %s, growth %s\n",
			s.Symbol,
			Number(s.MeanDailyReturn*100, 3),
			Number(s.AnnualizedVolatility*100, 1),
			Number(s.SharpeRatio, 2),
			Number(a.Growth.Final(i), 2),
		)
	}
	return b.String()
}

func firstDate(t *analytics.Table) string {
	if t.Rows() == 0 {
		return "-"
	}
	return t.Dates[0].Format(time.DateOnly)
}

func lastDate(t *analytics.Table) string {
	if t.Rows() == 0 {
		return "-"
	}
	return t.Dates[t.Rows()-1].Format(time.DateOnly)
}

// errWriter keeps the first write error so the report reads top to bottom.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

func (e *errWriter) printf(format string, args ...any) {
	fmt.Fprintf(e, format, args...)
}

func (e *errWriter) flush(tw *tabwriter.Writer) {
	if err := tw.Flush(); err != nil && e.err == nil {
		e.err = err
	}
}
