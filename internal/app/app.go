package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stupidhair/mediafeed/internal/config"
	"github.com/stupidhair/mediafeed/internal/httpserver"
	"github.com/stupidhair/mediafeed/internal/httpserver/deps"
	"github.com/stupidhair/mediafeed/internal/index"
	"github.com/stupidhair/mediafeed/internal/logger"
	"github.com/stupidhair/mediafeed/internal/scheduler"
	"github.com/stupidhair/mediafeed/internal/source/content"
	"github.com/stupidhair/mediafeed/internal/syndication"
	"github.com/stupidhair/mediafeed/internal/version"
)

type App struct {
	cfg       *config.Config
	logger    logger.Logger
	server    *httpserver.Server
	rebuilder *scheduler.Rebuilder
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// The cache owns the only build path. The closure recreates the source
	// directory if it went missing, so an empty or fresh deployment serves
	// an empty feed instead of failing.
	cache := index.NewCache(func(ctx context.Context) (*index.Index, *content.Report, error) {
		if err := os.MkdirAll(cfg.ContentDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("content dir %s: %w", cfg.ContentDir, err)
		}
		builder := content.NewBuilder(os.DirFS(cfg.ContentDir), loggerClient)
		records, report, err := builder.Build(ctx)
		if err != nil {
			return nil, nil, err
		}
		if reportErr := report.Err(); reportErr != nil {
			loggerClient.Warn("index built with skipped records",
				logger.Int("scanned", report.Scanned),
				logger.Int("skipped", report.SkippedCount()),
				logger.Error(reportErr))
		}
		return index.New(records), report, nil
	})

	// Manual rebuild trigger channel (fed by POST /api/rebuild)
	rebuildTrigger := make(chan struct{}, 1)

	rebuilder := scheduler.NewRebuilder(cache, loggerClient, cfg.RebuildInterval, rebuildTrigger)

	// Dependencies passed to routes.
	d := deps.Deps{
		Logger:            loggerClient,
		StartTime:         time.Now(),
		Version:           version.Version,
		Commit:            version.Commit,
		BuildDate:         version.BuildDate,
		GoVersion:         version.GoVersion,
		TimeNow:           time.Now,
		AllowedHosts:      cfg.AllowedHosts,
		AllowedCIDRS:      cfg.AllowedCIDRS,
		TrustProxy:        cfg.TrustProxy,
		RateBurst:         cfg.RateBurst,
		RateRefillPerIPPM: cfg.RateRefillPerIPPM,
		Cache:             cache,
		Syndication: syndication.NewBuilder(syndication.Site{
			Title:       cfg.Site.Title,
			Link:        cfg.Site.Link,
			Description: cfg.Site.Description,
			Author:      cfg.Site.Author,
		}),
		RSSItemLimit:   cfg.RSSItemLimit,
		RebuildTrigger: rebuildTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:       cfg,
		logger:    loggerClient,
		server:    server,
		rebuilder: rebuilder,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting mediafeed %s on %s", version.String(), a.cfg.ListenPort)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Warm the index and start serving rebuild triggers.
	if err := a.rebuilder.Start(ctx); err != nil {
		return fmt.Errorf("failed to start rebuilder: %w", err)
	}
	if a.cfg.RebuildInterval > 0 {
		a.logger.Info("periodic index rebuild enabled",
			logger.Duration("interval", a.cfg.RebuildInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.rebuilder.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.logger.Info("✅ mediafeed stopped cleanly")
	return nil
}
