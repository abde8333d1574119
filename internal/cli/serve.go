package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"expensedash/internal/cache"
	apphttp "expensedash/internal/http"
	"expensedash/internal/log"
	"expensedash/internal/services"
	"expensedash/internal/worker"
)

const shutdownTimeout = 30 * time.Second

func newServeCommand(rt *runtime) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				rt.cfg.Port = port
			}
			ctx, stop := GracefulShutdown(cmd.Context())
			defer stop()
			return runServe(ctx, rt)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "override PORT")
	return cmd
}

func runServe(ctx context.Context, rt *runtime) error {
	cfg, logger := rt.cfg, rt.logger

	a, err := buildApp(ctx, cfg, logger, true)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("cleanup failed", log.FieldError, err.Error())
		}
	}()

	// The first snapshot is ready before the port opens.
	a.ingestor.Refresh(ctx)

	caches := cache.NewManager(logger)
	caches.StartCleanup(cfg.CacheTTL)
	defer caches.Stop()

	dashboard := services.NewDashboard(a.ingestor, services.DashboardConfig{
		CacheSize: cfg.CacheSize,
		CacheTTL:  cfg.CacheTTL,
		Manager:   caches,
		Logger:    logger,
	})

	var scheduler *worker.Scheduler
	if cfg.RefreshSchedule != "" {
		scheduler, err = worker.NewScheduler(a.ingestor, cfg.RefreshSchedule, logger)
		if err != nil {
			return err
		}
		if err := scheduler.Start(ctx); err != nil {
			return err
		}
	}

	srv := apphttp.NewServer(apphttp.Config{
		Addr:     ":" + cfg.Port,
		Locale:   cfg.Locale,
		PageSize: cfg.PageSize,
		Logger:   logger,

		TrustedProxies: cfg.TrustedProxies,
	}, a.ingestor, dashboard)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting expensedash server", "port", cfg.Port, log.FieldOperation, log.OpStartup)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if scheduler != nil {
		if err := scheduler.Stop(shutdownCtx); err != nil {
			logger.Warn("scheduler stop failed", log.FieldError, err.Error())
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("Server stopped gracefully")
	return nil
}
