package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/burnrisk/internal/adapters/http/api"
	"github.com/okian/burnrisk/internal/adapters/http/site"
	"github.com/okian/burnrisk/internal/adapters/http/swagger"
	"github.com/okian/burnrisk/internal/adapters/mq/events"
	app "github.com/okian/burnrisk/internal/app"
	"github.com/okian/burnrisk/internal/config"
	"github.com/okian/burnrisk/pkg/logger"
	"github.com/okian/burnrisk/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 10 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	systemMetricsInterval  = 10 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc, err := newService(ctx, cfg, loggerInstance)
	if err != nil {
		loggerInstance.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// newService builds and starts the assessment service. Publishing is enabled
// only when a NATS URL is configured.
func newService(ctx context.Context, cfg *config.Config, log logger.Logger) (*app.Service, error) {
	opts := []app.Option{app.WithLogger(log)}

	if cfg.NATSURL != "" {
		pub, err := events.NewNATSPublisher(cfg.NATSURL,
			events.WithSubject(cfg.NATSSubject),
			events.WithClientName("burnrisk"),
		)
		if err != nil {
			return nil, fmt.Errorf("connect event publisher: %w", err)
		}
		log.Info(ctx, "publishing assessment events",
			logger.String("url", cfg.NATSURL),
			logger.String("subject", pub.Subject()),
		)
		opts = append(opts, app.WithPublisher(pub))
	}

	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

// newMux registers the API, its docs and the web questionnaire.
func newMux(ctx context.Context, cfg *config.Config, svc *app.Service) *http.ServeMux {
	mux := http.NewServeMux()

	swagger.Register(ctx, mux)

	apiServer := api.NewServer(svc, svc, api.WithMaxBodyBytes(cfg.MaxBodyBytes))
	apiServer.Register(ctx, mux)

	site.Register(ctx, mux)
	return mux
}

// startSystemMetricsUpdater periodically samples runtime gauges.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.CollectSystem()
		}
	}
}

// startServiceMetricsUpdater periodically exports the outbox depth.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

func updateServiceMetrics(svc *app.Service) {
	metrics.UpdateQueueSize(svc.GetStats().Pending)
}
