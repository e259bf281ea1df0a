package finance

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeSource struct {
	mu     sync.Mutex
	calls  []string
	series map[string][]Point
	delay  map[string]time.Duration
}

func (f *fakeSource) Closes(ctx context.Context, symbol string, start, end time.Time) (Series, error) {
	f.mu.Lock()
	f.calls = append(f.calls, symbol)
	f.mu.Unlock()
	if d := f.delay[symbol]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return Series{}, ctx.Err()
		}
	}
	pts, ok := f.series[symbol]
	if !ok {
		return Series{}, fmt.Errorf("%w: %s", ErrDataUnavailable, symbol)
	}
	return Series{Symbol: symbol, Points: pts}, nil
}

func testSeries() map[string][]Point {
	return map[string][]Point{
		"A": {{Date: day(2024, 1, 2), Close: 1}},
		"B": {{Date: day(2024, 1, 2), Close: 2}, {Date: day(2024, 1, 3), Close: 3}},
		"C": {{Date: day(2024, 1, 3), Close: 4}},
	}
}

func TestAcquireSequentialKeepsOrder(t *testing.T) {
	src := &fakeSource{series: testSeries()}

	got, err := Acquire(context.Background(), src, []string{"C", "A", "B"}, day(2024, 1, 1), day(2024, 1, 31),
		AcquireOptions{Log: zaptest.NewLogger(t)})
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, "C", got[0].Symbol)
	assert.Equal(t, "A", got[1].Symbol)
	assert.Equal(t, "B", got[2].Symbol)
	assert.Equal(t, []string{"C", "A", "B"}, src.calls)
}

func TestAcquireConcurrentKeepsOrder(t *testing.T) {
	src := &fakeSource{
		series: testSeries(),
		delay:  map[string]time.Duration{"A": 30 * time.Millisecond},
	}

	got, err := Acquire(context.Background(), src, []string{"A", "B", "C"}, day(2024, 1, 1), day(2024, 1, 31),
		AcquireOptions{Concurrency: 3})
	require.NoError(t, err)

	var order []string
	for _, s := range got {
		order = append(order, s.Symbol)
	}
	assert.Equal(t, []string{"A", "B", "C"}, order)
	assert.Len(t, got[1].Points, 2)
}

func TestAcquireAbortsOnFailure(t *testing.T) {
	src := &fakeSource{series: testSeries()}

	got, err := Acquire(context.Background(), src, []string{"A", "MISSING", "B"}, day(2024, 1, 1), day(2024, 1, 31),
		AcquireOptions{})
	require.Error(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrDataUnavailable)
	assert.Contains(t, err.Error(), "failed to fetch MISSING")
	assert.Equal(t, []string{"A", "MISSING"}, src.calls)
}

func TestAcquireRejectsInvertedRange(t *testing.T) {
	src := &fakeSource{series: testSeries()}

	_, err := Acquire(context.Background(), src, []string{"A"}, day(2024, 2, 1), day(2024, 1, 1), AcquireOptions{})
	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.Empty(t, src.calls)
}
