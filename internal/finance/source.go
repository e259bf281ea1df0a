package finance

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrDataUnavailable is returned when a source cannot resolve a symbol or date range.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrInvalidRange is returned when start is after end.
	ErrInvalidRange = errors.New("invalid date range")
)

// PriceSource produces daily closes for a symbol over the inclusive range [start, end].
type PriceSource interface {
	Closes(ctx context.Context, symbol string, start, end time.Time) (Series, error)
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func checkRange(start, end time.Time) error {
	if Day(start).After(Day(end)) {
		return ErrInvalidRange
	}
	return nil
}
