package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/riskibarqy/nba-dashboard/internal/app"
	"github.com/riskibarqy/nba-dashboard/internal/config"
	"github.com/riskibarqy/nba-dashboard/internal/observability"
	"github.com/riskibarqy/nba-dashboard/internal/platform/logging"
	"github.com/sourcegraph/conc"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat).With(
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
		"env", cfg.AppEnv,
	)
	logging.SetDefault(logger)
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return fmt.Errorf("init uptrace: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Error("uptrace shutdown failed", "error", err)
		}
	}()

	stopProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		return fmt.Errorf("init pyroscope: %w", err)
	}
	defer func() {
		if err := stopProfiler(); err != nil {
			logger.Error("pyroscope stop failed", "error", err)
		}
	}()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("build app: %w", err)
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Error("close app resources failed", "error", err)
		}
	}()

	pprofSrv := observability.NewPprofServer(cfg, logger)
	serveErrs := make(chan error, 2)

	var servers conc.WaitGroup
	servers.Go(func() {
		logger.Info("http server starting", "addr", cfg.HTTPAddr)
		serveErrs <- listen(application.Server)
	})
	if pprofSrv != nil {
		servers.Go(func() {
			logger.Info("pprof server starting", "addr", cfg.PprofAddr)
			serveErrs <- listen(pprofSrv)
		})
	}

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr = <-serveErrs:
		logger.Error("server stopped unexpectedly", "error", serveErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := application.Server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	if err := observability.StopPprofServer(pprofSrv, logger, cfg.ShutdownTimeout); err != nil {
		logger.Error("pprof shutdown failed", "error", err)
	}
	servers.Wait()

	logger.Info("http server stopped")
	return serveErr
}

func listen(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen %s: %w", srv.Addr, err)
	}
	return nil
}
