package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	app "github.com/okian/burnrisk/internal/app"
	"github.com/okian/burnrisk/internal/domain/questionnaire"
	"github.com/okian/burnrisk/internal/survey"
	"github.com/okian/burnrisk/pkg/logger"
)

const defaultTimeout = 10 * time.Second

func main() {
	var (
		baseURL  = flag.String("url", "", "Base URL of a running service (default: score locally)")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logLevel = flag.String("log-level", "warn", "Log level: debug, info, warn, error")
	)
	flag.Parse()

	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.SetLevelString(*logLevel); err != nil {
		os.Stderr.WriteString("invalid log level: " + err.Error() + "\n")
		os.Exit(2)
	}
	log := logger.Named("questionnaire")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, survey.Config{BaseURL: *baseURL, Timeout: *timeout}, log, os.Stdin, os.Stdout); err != nil {
		log.Error(ctx, "questionnaire failed", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg survey.Config, log logger.Logger, in io.Reader, out io.Writer) error {
	catalog, err := questionnaire.Default()
	if err != nil {
		return err
	}

	var evaluator survey.Evaluator
	if cfg.BaseURL != "" {
		evaluator = survey.NewHTTPClient(cfg.BaseURL, cfg.Timeout)
	} else {
		svc := app.New(app.WithLogger(log), app.WithCatalog(catalog))
		if err := svc.Start(ctx); err != nil {
			return err
		}
		defer svc.Stop()
		evaluator = svc
	}

	_, err = survey.NewSession(catalog, evaluator, log).Run(ctx, in, out)
	return err
}
