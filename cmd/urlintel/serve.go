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

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"urlintel/internal/api/v1/handler"
	"urlintel/internal/api/v1/router"
	"urlintel/internal/config"
	"urlintel/internal/debug"
	"urlintel/internal/log"
	"urlintel/internal/service"
)

const shutdownTimeout = 5 * time.Second

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API along with a separate Prometheus metrics listener.
In the dev environment a pprof listener is started as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, config.AppConfig)
		},
	}

	cmd.Flags().String("listen", ":8080", "Address for the API server")
	cmd.Flags().String("metrics-addr", ":8081", "Address for the metrics server (empty disables it)")

	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	analyzer := service.NewAnalyzerFromConfig(cfg)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router.New(handler.New(analyzer, getVersion())),
		ReadHeaderTimeout: 5 * time.Second,
	}
	servers := []*http.Server{server}

	errCh := make(chan error, 2)

	go func() {
		log.Logger.Info("Server started", zap.String("addr", cfg.ListenAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("api server: %w", err)
		}
	}()

	if cfg.MetricsAddr != "" {
		metricsServer := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           router.NewMetricsRouter(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		servers = append(servers, metricsServer)

		go func() {
			log.Logger.Info("Metrics server started", zap.String("addr", cfg.MetricsAddr))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	// pprof only in dev
	if cfg.IsDev() && cfg.PprofAddr != "" {
		pprofServer := debug.NewPprofServer(cfg.PprofAddr)
		servers = append(servers, pprofServer)
		debug.StartPprof(pprofServer)
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Logger.Info("Shutting down server gracefully")
	case runErr = <-errCh:
		log.Logger.Error("Server failed", zap.Error(runErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Logger.Error("Server forced to shutdown", zap.String("addr", srv.Addr), zap.Error(err))
			runErr = errors.Join(runErr, err)
		}
	}

	if runErr == nil {
		log.Logger.Info("Server exited successfully")
	}
	return runErr
}
