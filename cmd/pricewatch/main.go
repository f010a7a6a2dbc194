// Command pricewatch tracks marketplace prices for a list of articles and
// appends each observation to a persistent log.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/rickgao/pricewatch/internal/admin"
	"github.com/rickgao/pricewatch/internal/api"
	"github.com/rickgao/pricewatch/internal/config"
	"github.com/rickgao/pricewatch/internal/fetcher"
	"github.com/rickgao/pricewatch/internal/metrics"
	"github.com/rickgao/pricewatch/internal/model"
	"github.com/rickgao/pricewatch/internal/poller"
	"github.com/rickgao/pricewatch/internal/registry"
	"github.com/rickgao/pricewatch/internal/scheduler"
	"github.com/rickgao/pricewatch/internal/sink"
	"github.com/rickgao/pricewatch/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/pricewatch.yaml", "path to config file")
	runOnce := flag.Bool("once", false, "run a single batch and exit")
	flag.Parse()

	// Load configuration before the logger so its level and format apply.
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		slog.Error("failed to load config", "config", *configPath, "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting pricewatch",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
		"backend", cfg.Storage.Backend,
		"time_zone", cfg.TimeZone,
	)

	if len(cfg.UnsetEnv) > 0 {
		logger.Warn("config references unset environment variables", "vars", cfg.UnsetEnv)
	}

	if err := run(cfg, logger, *runOnce); err != nil {
		logger.Error("pricewatch failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, once bool) error {
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return fmt.Errorf("load time zone: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	tables, err := openTables(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer tables.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	articles := registry.New(tables.articles, logger.With("component", "registry"))
	records := sink.New(tables.log, loc, sink.WithLogger(logger.With("component", "sink")))

	client := api.NewClient(
		cfg.Marketplace.URLTemplate,
		api.WithLogger(logger),
		api.WithTimeout(cfg.Marketplace.Timeout),
		api.WithUserAgent(cfg.Marketplace.UserAgent),
		api.WithRetries(cfg.Marketplace.MaxRetries, time.Second),
	)

	f, err := fetcher.New(fetcher.Config{
		Source:    cfg.Marketplace.Source,
		PricePath: cfg.Marketplace.PricePath,
		Scale:     cfg.Marketplace.Scale,
	}, client, records, logger.With("component", "fetcher"))
	if err != nil {
		return fmt.Errorf("create fetcher: %w", err)
	}

	pages := make([]fetcher.PageWatch, 0, len(cfg.Pages))
	for _, pc := range cfg.Pages {
		w, err := fetcher.NewPageWatch(pc)
		if err != nil {
			return fmt.Errorf("page watch: %w", err)
		}
		pages = append(pages, w)
	}

	p := poller.New(poller.Config{
		Concurrency: cfg.Poller.Concurrency,
		Pages:       pages,
	}, articles, f, m, logger.With("component", "poller"))

	if once {
		res, err := p.RunBatch(ctx, model.TriggerManual)
		if err != nil {
			return err
		}
		if len(res.Failed()) > 0 {
			logger.Warn("batch finished with failures", "failed", len(res.Failed()))
		}
		return nil
	}

	if !cfg.Schedule.Disabled {
		sched, err := scheduler.New(cfg.Schedule.Cron, loc, p, logger.With("component", "scheduler"))
		if err != nil {
			return err
		}
		sched.Start(ctx)
		defer func() {
			if err := sched.Stop(); err != nil {
				logger.Warn("failed to stop scheduler", "error", err)
			}
		}()
	} else {
		logger.Info("schedule disabled, batches run only on request")
	}

	adminServer := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Admin.Port),
		Handler: admin.New(articles, p,
			admin.WithToken(cfg.Admin.Token),
			admin.WithMetrics(m, reg, cfg.Admin.MetricsPath),
			admin.WithLogger(logger.With("component", "admin")),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting admin server", "port", cfg.Admin.Port)
		if err := adminServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("admin server error", "error", err)
			cancel()
		}
	}()

	logger.Info("pricewatch running",
		"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Admin.Port),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	adminServer.Shutdown(shutdownCtx)

	logger.Info("pricewatch stopped")
	return nil
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
