package config

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"

	"portfolioAnalytics/internal/finance"
)

// Prefix namespaces the environment variables; unprefixed names are accepted too.
const Prefix = "PORTFOLIO"

const (
	SourceYahoo  = "yahoo"
	SourceSQLite = "sqlite"
)

type Config struct {
	Symbols          []string      `envconfig:"SYMBOLS" default:"TATAMOTORS.NS,DABUR.NS,ICICIBANK.NS,WIPRO.NS,BPCL.NS,IRCTC.NS,INFY.NS,RELIANCE.NS"`
	StartDate        string        `envconfig:"START_DATE" default:"2019-10-14"`
	EndDate          string        `envconfig:"END_DATE"`
	Source           string        `envconfig:"SOURCE" default:"yahoo" validate:"oneof=yahoo sqlite"`
	YahooHost        string        `envconfig:"YAHOO_HOST" default:"https://query1.finance.yahoo.com" validate:"required,url"`
	YahooInterval    time.Duration `envconfig:"YAHOO_INTERVAL" default:"120ms" validate:"gte=0"`
	HTTPTimeout      time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s" validate:"gt=0"`
	FetchConcurrency int           `envconfig:"FETCH_CONCURRENCY" default:"1"`
	DBPath           string        `envconfig:"DB_PATH" default:"data/prices.db"`
	Archive          bool          `envconfig:"ARCHIVE" default:"false"`
	OutputDir        string        `envconfig:"OUTPUT_DIR" default:"out"`
	SummaryJSON      string        `envconfig:"SUMMARY_JSON"`
	CurrencyLabel    string        `envconfig:"CURRENCY_LABEL" default:"INR"`
	TelegramToken    string        `envconfig:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   int64         `envconfig:"TELEGRAM_CHAT_ID" validate:"required_with=TelegramToken"`
	OpenAIKey        string        `envconfig:"OPENAI_API_KEY"`
	OpenAIModel      string        `envconfig:"OPENAI_MODEL" default:"gpt-4"`
	LogLevel         string        `envconfig:"LOG_LEVEL" default:"info"`
	LogDevelopment   bool          `envconfig:"LOG_DEVELOPMENT" default:"false"`

	// Resolved from StartDate and EndDate, UTC midnight.
	Start time.Time `ignored:"true"`
	End   time.Time `ignored:"true"`
	// Resolved from LogLevel.
	Level zapcore.Level `ignored:"true"`
}

// Load reads an optional .env file and then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read .env: %w", err)
	}
	return FromEnv(time.Now())
}

// FromEnv builds a validated Config from the environment. An empty END_DATE
// resolves to the day of now.
func FromEnv(now time.Time) (Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load config from env: %w", err)
	}
	if err := cfg.resolve(now); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) resolve(now time.Time) error {
	syms, err := finance.ParseSymbols(c.Symbols)
	if err != nil {
		return fmt.Errorf("invalid SYMBOLS: %w", err)
	}
	c.Symbols = syms

	if c.Start, err = parseDate("START_DATE", c.StartDate); err != nil {
		return err
	}
	if strings.TrimSpace(c.EndDate) == "" {
		c.End = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	} else if c.End, err = parseDate("END_DATE", c.EndDate); err != nil {
		return err
	}
	if c.End.Before(c.Start) {
		return fmt.Errorf("END_DATE %s is before START_DATE %s: %w",
			c.End.Format(time.DateOnly), c.Start.Format(time.DateOnly), finance.ErrInvalidRange)
	}

	c.Source = strings.ToLower(strings.TrimSpace(c.Source))
	if err := validate.Struct(c); err != nil {
		return describe(err)
	}
	if (c.Source == SourceSQLite || c.Archive) && c.DBPath == "" {
		return errors.New("DB_PATH is required for the sqlite source and ARCHIVE")
	}
	if c.FetchConcurrency < 1 {
		c.FetchConcurrency = 1
	}
	if c.Level, err = zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return nil
}

var validate = newValidator()

// newValidator reports fields by their environment names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("envconfig")
	})
	return v
}

func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("invalid config: %w", err)
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "oneof":
		return fmt.Errorf("invalid %s %q: want one of %s", fe.Field(), fe.Value(), fe.Param())
	case "required_with":
		return fmt.Errorf("%s is required when %s is set", fe.Field(), "TELEGRAM_BOT_TOKEN")
	default:
		return fmt.Errorf("invalid %s %v: failed %s", fe.Field(), fe.Value(), fe.Tag())
	}
}

func parseDate(key, v string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return t, nil
}

// TelegramEnabled reports whether figures should be delivered to a chat.
func (c Config) TelegramEnabled() bool { return c.TelegramToken != "" }

// CommentaryEnabled reports whether an OpenAI commentary should be requested.
func (c Config) CommentaryEnabled() bool { return c.OpenAIKey != "" }
