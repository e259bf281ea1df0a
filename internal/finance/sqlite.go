package finance

import (
	"context"
	"fmt"
	"time"

	"portfolioAnalytics/internal/storage"
)

// SQLiteSource reads closes from a local SQLite database for offline runs.
type SQLiteSource struct {
	store *storage.Store
}

// NewSQLiteSource reads closes from store.
func NewSQLiteSource(store *storage.Store) *SQLiteSource {
	return &SQLiteSource{store: store}
}

// Closes returns the stored closes of symbol within [start, end].
func (s *SQLiteSource) Closes(ctx context.Context, symbol string, start, end time.Time) (Series, error) {
	if err := checkRange(start, end); err != nil {
		return Series{}, err
	}
	if err := ctx.Err(); err != nil {
		return Series{}, err
	}
	ok, err := s.store.HasSymbol(symbol)
	if err != nil {
		return Series{}, fmt.Errorf("sqlite lookup %s: %w", symbol, err)
	}
	if !ok {
		return Series{}, unavailable(symbol, start, end, "unknown symbol")
	}
	rows, err := s.store.FetchCloses(symbol, Day(start).Format(storage.DateLayout), Day(end).Format(storage.DateLayout))
	if err != nil {
		return Series{}, fmt.Errorf("sqlite closes %s: %w", symbol, err)
	}
	byDay := make(map[time.Time]float64, len(rows))
	for _, r := range rows {
		d, err := time.Parse(storage.DateLayout, r.Date)
		if err != nil {
			return Series{}, fmt.Errorf("sqlite closes %s: bad date %q: %w", symbol, r.Date, err)
		}
		if r.Close > 0 {
			byDay[d] = r.Close
		}
	}
	if len(byDay) == 0 {
		return Series{}, unavailable(symbol, start, end, "no closes in range")
	}
	return Series{Symbol: symbol, Points: sortedPoints(byDay)}, nil
}

// Save upserts the points of series so later runs can read them offline.
func (s *SQLiteSource) Save(series Series) error {
	rows := make([]storage.DailyClose, len(series.Points))
	for i, p := range series.Points {
		rows[i] = storage.DailyClose{Date: Day(p.Date).Format(storage.DateLayout), Close: p.Close}
	}
	if err := s.store.SaveCloses(series.Symbol, rows); err != nil {
		return fmt.Errorf("sqlite archive %s: %w", series.Symbol, err)
	}
	return nil
}
