package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"fraudguard/config"
	_ "fraudguard/docs"
	"fraudguard/internal/api/rest"
	"fraudguard/internal/grpc"
	"fraudguard/internal/logger"
)

// Run serves HTTP and gRPC until ctx is cancelled or either server fails,
// then shuts both down within cfg.Server.ShutdownTimeout.
func Run(ctx context.Context, cfg *config.Config) error {
	if err := logger.Init(cfg.Log); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	deps, err := InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}
	defer func() {
		if err := deps.Close(); err != nil {
			slog.Warn("failed to close dependencies", "error", err)
		}
	}()

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := rest.SetupRouter(rest.NewHandlers(deps.Services), rest.RouterConfig{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Metrics:        deps.Metrics,
	})
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: router,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort, "service", cfg.App.Name, "version", cfg.App.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("serve http: %w", err)
			return
		}
		errCh <- nil
	}()

	grpcServer := grpc.NewServer(grpc.NewFraudGRPCServer(deps.Services.Transactions), deps.Metrics)
	go func() {
		errCh <- grpc.Serve(ctx, grpcServer, cfg.Server.GRPCPort)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}
	slog.Info("shutting down")
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server forced to shut down", "error", err)
	}
	grpcServer.GracefulStop()

	if runErr != nil {
		return runErr
	}
	slog.Info("servers stopped")
	return nil
}
