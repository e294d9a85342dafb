// Command osintbot serves topic crawls over Telegram.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kitbuilder587/topic-osint/internal/app"
	"github.com/kitbuilder587/topic-osint/internal/config"
	"github.com/kitbuilder587/topic-osint/internal/domain"
	"github.com/kitbuilder587/topic-osint/internal/metrics"
	"github.com/kitbuilder587/topic-osint/internal/repository"
	"github.com/kitbuilder587/topic-osint/internal/telegram"
)

func main() {
	cfg, err := config.Load()
	if err == nil {
		err = cfg.ValidateBot()
	}
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	cfg.Log.Service = "osintbot"
	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("bot stopped with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New(prometheus.DefaultRegisterer)

	metricsServer := &http.Server{
		Addr:              cfg.Metrics.Addr,
		Handler:           metricsMux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("metrics server started", zap.String("addr", cfg.Metrics.Addr))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics server shutdown", zap.Error(err))
		}
	}()

	// без DATABASE_URL бот работает, просто не сохраняет прогоны
	var runs repository.RunRepository
	if cfg.Database.URL != "" {
		repo, closeDB, err := app.OpenRuns(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer closeDB()
		runs = repo
		logger.Info("run storage enabled")
	}

	crawler := app.NewCrawler(cfg, logger, m)
	defer crawler.Close()

	strategy, _ := domain.StrategyByType(domain.StrategyType(cfg.DefaultStrategy))

	bot, err := telegram.New(telegram.BotConfig{
		Token:             cfg.Telegram.Token,
		Debug:             cfg.Log.Level == "debug",
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		DefaultStrategy:   strategy,
	}, crawler.Service, runs, logger, m)
	if err != nil {
		return err
	}

	if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("bot stopped")
	return nil
}

func metricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return mux
}
