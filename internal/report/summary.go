package report

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/pretty"

	"portfolioAnalytics/internal/analytics"
)

// number marshals non-finite values as null.
type number float64

func (n number) MarshalJSON() ([]byte, error) {
	v := float64(n)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

type symbolSummary struct {
	Symbol               string `json:"symbol"`
	Observations         int    `json:"observations"`
	MissingReturns       int    `json:"missing_returns"`
	MeanDailyReturn      number `json:"mean_daily_return"`
	DailyStdDev          number `json:"daily_std_dev"`
	AnnualizedVolatility number `json:"annualized_volatility"`
	SharpeRatio          number `json:"sharpe_ratio"`
	FinalGrowth          number `json:"final_growth"`
}

type summaryDoc struct {
	AsOf        string          `json:"as_of"`
	RunID       string          `json:"run_id,omitempty"`
	Start       string          `json:"start,omitempty"`
	End         string          `json:"end,omitempty"`
	Symbols     []string        `json:"symbols"`
	Summary     []symbolSummary `json:"summary"`
	Correlation [][]number      `json:"correlation"`
	Warnings    []string        `json:"warnings,omitempty"`
}

// Summary renders the statistics and correlation matrix of a as indented JSON.
func Summary(a *analytics.Analysis, asOf time.Time, runID string) ([]byte, error) {
	doc := summaryDoc{
		AsOf:    asOf.Format(time.DateOnly),
		RunID:   runID,
		Symbols: a.Prices.Symbols,
	}
	if a.Prices.Rows() > 0 {
		doc.Start = firstDate(a.Prices)
		doc.End = lastDate(a.Prices)
	}

	priceGaps := a.Prices.MissingCount()
	missing := a.Returns.MissingCount()
	for j, s := range a.Summary {
		doc.Summary = append(doc.Summary, symbolSummary{
			Symbol:               s.Symbol,
			Observations:         a.Prices.Rows() - priceGaps[j],
			MissingReturns:       missing[j],
			MeanDailyReturn:      number(s.MeanDailyReturn),
			DailyStdDev:          number(s.DailyStdDev),
			AnnualizedVolatility: number(s.AnnualizedVolatility),
			SharpeRatio:          number(s.SharpeRatio),
			FinalGrowth:          number(a.Growth.Final(j)),
		})
	}

	doc.Correlation = make([][]number, len(a.Correlation.Values))
	for i, row := range a.Correlation.Values {
		doc.Correlation[i] = make([]number, len(row))
		for j, v := range row {
			doc.Correlation[i][j] = number(v)
		}
	}
	for _, w := range a.Warnings() {
		doc.Warnings = append(doc.Warnings, w.String())
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal summary: %w", err)
	}
	return pretty.Pretty(raw), nil
}

// WriteSummary writes the JSON summary of a to path.
func WriteSummary(path string, a *analytics.Analysis, asOf time.Time, runID string) error {
	b, err := Summary(a, asOf, runID)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create summary dir: %w", err)
		}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}
