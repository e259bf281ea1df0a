package finance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultYahooHost = "https://query1.finance.yahoo.com"
	yahooUserAgent   = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15"
)

// YahooSource fetches daily closes from the Yahoo Finance v8 chart API.
type YahooSource struct {
	host    string
	client  *http.Client
	limiter *rate.Limiter
	log     *zap.Logger
}

// YahooOption customizes a YahooSource.
type YahooOption func(*YahooSource)

// WithHost overrides the API host, e.g. "https://query2.finance.yahoo.com".
func WithHost(host string) YahooOption {
	return func(y *YahooSource) {
		if host != "" {
			y.host = strings.TrimRight(host, "/")
		}
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) YahooOption {
	return func(y *YahooSource) {
		if c != nil {
			y.client = c
		}
	}
}

// WithMinInterval paces requests so that at most one is issued per interval.
func WithMinInterval(d time.Duration) YahooOption {
	return func(y *YahooSource) {
		if d <= 0 {
			y.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		y.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// NewYahooSource returns a source that paces requests 120ms apart by default.
func NewYahooSource(log *zap.Logger, opts ...YahooOption) *YahooSource {
	if log == nil {
		log = zap.NewNop()
	}
	y := &YahooSource{
		host:    defaultYahooHost,
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Every(120*time.Millisecond), 1),
		log:     log.Named("yahoo"),
	}
	for _, o := range opts {
		o(y)
	}
	return y
}

// Closes fetches the daily closes of symbol for trading days in [start, end].
// Any failure is reported once, without retrying.
func (y *YahooSource) Closes(ctx context.Context, symbol string, start, end time.Time) (Series, error) {
	if err := checkRange(start, end); err != nil {
		return Series{}, err
	}
	if err := y.limiter.Wait(ctx); err != nil {
		return Series{}, err
	}

	// period2 is exclusive, so ask up to the day after end.
	q := url.Values{}
	q.Set("period1", fmt.Sprint(Day(start).Unix()))
	q.Set("period2", fmt.Sprint(Day(end).AddDate(0, 0, 1).Unix()))
	q.Set("interval", "1d")
	q.Set("events", "div,splits")
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?%s", y.host, url.PathEscape(symbol), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return Series{}, err
	}
	req.Header.Set("User-Agent", yahooUserAgent)
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	y.log.Debug("yahoo: fetching closes", zap.String("symbol", symbol), zap.String("url", addr))
	resp, err := y.client.Do(req)
	if err != nil {
		return Series{}, fmt.Errorf("yahoo %s: %w", symbol, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Series{}, fmt.Errorf("failed to read yahoo response for %s: %w", symbol, err)
	}

	var yc yahooChartResp
	jsonErr := json.Unmarshal(body, &yc)
	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusNotFound || (jsonErr == nil && yc.Chart.Error != nil) {
			return Series{}, unavailable(symbol, start, end, describe(yc, body))
		}
		return Series{}, fmt.Errorf("yahoo returned %d for %s: %s", resp.StatusCode, symbol, preview(body))
	}
	if jsonErr != nil {
		return Series{}, fmt.Errorf("failed to parse yahoo json for %s: %v; body: %s", symbol, jsonErr, preview(body))
	}
	if yc.Chart.Error != nil {
		return Series{}, unavailable(symbol, start, end, describe(yc, body))
	}
	if len(yc.Chart.Result) == 0 || len(yc.Chart.Result[0].Indicators.Quote) == 0 {
		return Series{}, unavailable(symbol, start, end, "no data")
	}

	res := yc.Chart.Result[0]
	loc := exchangeLocation(res.Meta.ExchangeTimezoneName, res.Meta.GmtOffset)
	points := cleanCloses(res.Timestamp, res.Indicators.Quote[0].Close, loc, start, end)
	if len(points) == 0 {
		return Series{}, unavailable(symbol, start, end, "no closes in range")
	}
	y.log.Debug("yahoo: closes fetched", zap.String("symbol", symbol),
		zap.String("currency", res.Meta.Currency), zap.Int("points", len(points)))
	return Series{Symbol: symbol, Points: points}, nil
}

func unavailable(symbol string, start, end time.Time, reason string) error {
	return fmt.Errorf("%w: %s [%s, %s]: %s", ErrDataUnavailable, symbol,
		start.Format(time.DateOnly), end.Format(time.DateOnly), reason)
}

func describe(yc yahooChartResp, body []byte) string {
	if e := yc.Chart.Error; e != nil {
		return e.Code + ": " + e.Description
	}
	return preview(body)
}

func preview(body []byte) string {
	s := string(body)
	if len(s) > 120 {
		s = s[:120]
	}
	return s
}
