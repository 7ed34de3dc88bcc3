// Package server runs the board's HTTP API: it builds the shared core from
// configuration, serves sessions until a shutdown signal arrives, and sweeps
// idle sessions in the background.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/logboard/internal/config"
	"github.com/dmitrijs2005/logboard/internal/core"
	"github.com/dmitrijs2005/logboard/internal/httpapi"
	"github.com/dmitrijs2005/logboard/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 10 * time.Second
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	core     *core.Core
	registry *httpapi.Registry
	http     *http.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(os.Stdout, c.LogFormat, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	cr, err := core.New(ctx, c, logger, prometheus.DefaultRegisterer)
	if err != nil {
		return nil, fmt.Errorf("core init error: %w", err)
	}

	reg := httpapi.NewRegistry(cr.Session)
	api := httpapi.New(httpapi.Options{
		Registry:       reg,
		SecretKey:      []byte(c.SecretKey),
		TokenTTL:       c.SessionTTL,
		AllowedOrigins: c.AllowedOrigins,
		Logger:         logger,
		Metrics:        promhttp.Handler(),
		Health:         cr.Ping,
	})

	return &App{
		config:   c,
		logger:   logger.With("module", "app"),
		core:     cr,
		registry: reg,
		http: &http.Server{
			Addr:              c.HTTPAddr,
			Handler:           api.Routes(),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// serveHTTP blocks until ctx is done and the server has drained, or until
// the listener fails, in which case it cancels the app.
func (app *App) serveHTTP(ctx context.Context, cancelFunc context.CancelFunc) {
	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.http.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "http shutdown", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", app.http.Addr)
	if err := app.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.serveHTTP(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.registry.RunSweeper(ctx, sweepInterval, app.config.SessionTTL)
	}()

	wg.Wait()

	if err := app.core.Close(); err != nil {
		app.logger.Error(ctx, "store close", "error", err)
	}
	app.logger.Info(ctx, "Stopped")
}
