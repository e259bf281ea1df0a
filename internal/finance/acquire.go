package finance

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AcquireOptions controls how closes are fetched.
type AcquireOptions struct {
	// Concurrency is the number of symbols fetched at once. Values below 2 fetch sequentially.
	Concurrency int
	Log         *zap.Logger
}

// Acquire fetches one series per symbol and returns them in the order of symbols.
// The first failure aborts the whole acquisition.
func Acquire(ctx context.Context, src PriceSource, symbols []string, start, end time.Time, opts AcquireOptions) ([]Series, error) {
	if err := checkRange(start, end); err != nil {
		return nil, fmt.Errorf("%w: %s after %s", err, start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	out := make([]Series, len(symbols))
	fetch := func(ctx context.Context, i int) error {
		symbol := symbols[i]
		s, err := src.Closes(ctx, symbol, start, end)
		if err != nil {
			return fmt.Errorf("failed to fetch %s: %w", symbol, err)
		}
		s.Symbol = symbol
		out[i] = s
		log.Info("acquire: series fetched", zap.String("symbol", symbol), zap.Int("points", len(s.Points)))
		return nil
	}

	if opts.Concurrency < 2 {
		for i := range symbols {
			if err := fetch(ctx, i); err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i := range symbols {
		i := i
		g.Go(func() error { return fetch(gctx, i) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
