// Package cli implements the expensedash commands and the start-up steps
// they share.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"expensedash/internal/amqp"
	"expensedash/internal/config"
	"expensedash/internal/log"
	"expensedash/internal/services"
	"expensedash/internal/source"
)

// SetupLogger builds the process logger at the given level and makes it
// the slog default.
func SetupLogger(w io.Writer, level string) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(level),
		Component: log.ComponentApp,
		Output:    w,
	})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads path (or .env) for local development. A missing file
// is not an error; a malformed one is.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// LoadAndValidateConfig loads configuration from the environment and
// validates it. Every problem is reported in the one error.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// app is what every command needs: an ingestor over the configured source.
type app struct {
	cfg      *config.Config
	logger   *log.Logger
	ingestor *services.Ingestor
	notifier *amqp.Client
	cleanup  []func() error
}

// buildApp creates the source and ingestor. A broker that cannot be
// reached disables notifications instead of failing start-up.
func buildApp(ctx context.Context, cfg *config.Config, logger *log.Logger, notify bool) (*app, error) {
	srcCfg, err := source.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := source.NewFactory(logger).Create(ctx, srcCfg)
	if err != nil {
		return nil, fmt.Errorf("create source: %w", err)
	}

	a := &app{cfg: cfg, logger: logger}
	if res.Cleanup != nil {
		a.cleanup = append(a.cleanup, res.Cleanup)
	}

	opts := []services.IngestorOption{services.WithLogger(logger)}
	if notify && cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.WarnContext(ctx, "AMQP unavailable, refresh notifications disabled",
				log.FieldError, err.Error())
		} else {
			a.notifier = client
			a.cleanup = append(a.cleanup, client.Close)
			opts = append(opts, services.WithNotifier(client))
		}
	}

	a.ingestor = services.NewIngestor(res.Reader, res.Kind, opts...)
	logger.InfoContext(ctx, "source configured",
		log.FieldSource, string(res.Kind),
		log.FieldOperation, log.OpStartup)
	return a, nil
}

// Close releases the source and broker connections.
func (a *app) Close() error {
	var errs []error
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		if err := a.cleanup[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM.
func GracefulShutdown(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
