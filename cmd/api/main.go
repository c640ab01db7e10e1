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
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/user/css-purge-service/internal/adapter/chromedp_fetcher"
	"github.com/user/css-purge-service/internal/adapter/fsstore"
	"github.com/user/css-purge-service/internal/adapter/httpfetch"
	"github.com/user/css-purge-service/internal/delivery/http/handler"
	"github.com/user/css-purge-service/internal/delivery/http/router"
	"github.com/user/css-purge-service/internal/repository"
	"github.com/user/css-purge-service/internal/usecase"
	"github.com/user/css-purge-service/pkg/config"
	"github.com/user/css-purge-service/pkg/csspurge"
	"github.com/user/css-purge-service/pkg/logger"
	"github.com/user/css-purge-service/pkg/metrics"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		// The logger is not configured yet.
		zap.NewExample().Fatal("could not load config", zap.Error(err))
	}

	// --- Logger ---
	log := logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	defer log.Sync()
	log.Info("logger initialized", zap.String("level", cfg.LogLevel))

	// --- Metrics ---
	m := metrics.New(prometheus.DefaultRegisterer)

	// --- Fetchers ---
	cssFetcher := httpfetch.NewHTTPFetcher(cfg.FetchTimeout, cfg.UserAgent)
	var pageFetcher repository.FetcherRepository = cssFetcher
	if cfg.FetchMode == config.FetchModeRender {
		renderer := chromedp_fetcher.NewChromedpFetcher(cfg.RenderTimeout, cfg.UserAgent, log)
		defer renderer.Close()
		pageFetcher = renderer
	}
	log.Info("fetchers initialized", zap.String("mode", cfg.FetchMode))

	// --- Repositories ---
	store := fsstore.NewArtifactRepo(afero.NewOsFs(), cfg.OutputDir, log)
	engine := csspurge.New(csspurge.Options{Safelist: cfg.PurgeSafelist, Minify: cfg.Minify})

	// --- Use Cases ---
	pipeline := usecase.NewPurgePipeline(
		cssFetcher,
		engine,
		store,
		usecase.ArtifactNaming{
			Prefix:     cfg.ArtifactPrefix,
			Fallback:   cfg.FallbackName,
			PublicPath: cfg.PublicPathPrefix,
		},
		m,
		log,
	)
	purger := usecase.NewPurger(usecase.NewStylesheetDiscoverer(pageFetcher, log), pipeline, m, log)

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(purger, store, cfg.ArtifactPrefix, log)
	httpRouter := router.New(apiHandler, m, prometheus.DefaultGatherer, log, cfg.PublicPathPrefix)

	// No write timeout: a purge takes as long as its stylesheets take to fetch.
	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Info("starting server", zap.String("port", cfg.ServerPort), zap.String("output_dir", cfg.OutputDir))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("could not listen on port", zap.String("port", cfg.ServerPort), zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exiting")
}
