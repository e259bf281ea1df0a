package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"portfolioAnalytics/internal/charts"
	"portfolioAnalytics/internal/config"
	"portfolioAnalytics/internal/finance"
	"portfolioAnalytics/internal/openai"
	"portfolioAnalytics/internal/pipeline"
	"portfolioAnalytics/internal/storage"
	"portfolioAnalytics/internal/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.Must(zap.NewProduction()).Fatal("config: load failed", zap.Error(err))
	}
	runID := uuid.NewString()
	log := newLogger(cfg).With(zap.String("run_id", runID))
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, runID, log); err != nil {
		log.Error("run failed", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) *zap.Logger {
	zc := zap.NewProductionConfig()
	if cfg.LogDevelopment {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(cfg.Level)
	return zap.Must(zc.Build())
}

func run(ctx context.Context, cfg config.Config, runID string, log *zap.Logger) error {
	p := &pipeline.Pipeline{
		Concurrency: cfg.FetchConcurrency,
		Out:         os.Stdout,
		OutputDir:   cfg.OutputDir,
		SummaryPath: cfg.SummaryJSON,
		Charts:      charts.Options{Currency: cfg.CurrencyLabel},
		RunID:       runID,
		Log:         log,
	}

	var store *storage.Store
	if cfg.Source == config.SourceSQLite || cfg.Archive {
		// Ensure parent directory for the DB exists
		_ = os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755)
		db, err := storage.OpenSQLite("file:" + cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := storage.InitSchema(db); err != nil {
			return err
		}
		log.Info("db: opened sqlite", zap.String("path", cfg.DBPath))
		store = storage.NewStore(db)
	}

	switch cfg.Source {
	case config.SourceSQLite:
		p.Source = finance.NewSQLiteSource(store)
	default:
		p.Source = finance.NewYahooSource(log,
			finance.WithHost(cfg.YahooHost),
			finance.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
			finance.WithMinInterval(cfg.YahooInterval),
		)
		if cfg.Archive {
			p.Archive = finance.NewSQLiteSource(store)
		}
	}

	if cfg.TelegramEnabled() {
		pub, err := telegram.NewPublisher(cfg.TelegramToken, cfg.TelegramChatID, log)
		if err != nil {
			log.Warn("telegram: disabled", zap.Error(err))
		} else {
			p.Publisher = pub
		}
	}
	if cfg.CommentaryEnabled() {
		p.Commentator = openai.NewCommentator(cfg.OpenAIKey, cfg.OpenAIModel)
	}

	pf, err := pipeline.NewPortfolio(cfg.Symbols, cfg.Start, cfg.End)
	if err != nil {
		return err
	}
	_, err = p.Run(ctx, pf)
	return err
}
