package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/fareprice/internal/adapters/artifact"
	"github.com/okian/fareprice/internal/adapters/http/api"
	"github.com/okian/fareprice/internal/adapters/http/site"
	"github.com/okian/fareprice/internal/adapters/http/swagger"
	app "github.com/okian/fareprice/internal/app"
	"github.com/okian/fareprice/internal/config"
	"github.com/okian/fareprice/internal/domain/encoding"
	"github.com/okian/fareprice/pkg/logger"
	"github.com/spf13/cobra"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
)

func newServeCmd() *cobra.Command {
	var addr, modelPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the prediction form and JSON API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configFrom(cmd)
			if addr != "" {
				cfg.Addr = addr
			}
			if modelPath != "" {
				cfg.ModelPath = modelPath
			}
			// Root context with cancel on SIGINT/SIGTERM.
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides FARE_ADDR)")
	cmd.Flags().StringVar(&modelPath, "model", "", "model artifact path (overrides FARE_MODEL_PATH)")
	return cmd
}

// loadService loads the model artifact and builds the service. It fails
// when the artifact is missing or unusable.
func loadService(ctx context.Context, cfg *config.Config) (*app.Service, error) {
	log := logger.Get()
	m, err := artifact.Load(ctx, cfg.ModelPath, encoding.New(nil).Layout())
	if err != nil {
		log.Error(ctx, "model artifact unavailable", logger.String("path", cfg.ModelPath), logger.Error(err))
		return nil, err
	}
	info := m.Info()
	log.Info(ctx, "model loaded",
		logger.String("path", info.Path),
		logger.String("kind", info.Kind),
		logger.String("name", info.Name),
		logger.Int("features", info.Features),
		logger.String("sha256", info.Digest),
	)
	return app.New(
		app.WithLogger(logger.Named("service")),
		app.WithModel(m),
		app.WithCurrencySymbol(cfg.CurrencySymbol),
	), nil
}

// newHandler registers every route on one mux.
func newHandler(ctx context.Context, cfg *config.Config, svc *app.Service) http.Handler {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc,
		api.WithMaxBodyBytes(cfg.MaxBodyBytes),
		api.WithCORSOrigins(cfg.CORSOrigins),
	).Register(ctx, mux)
	site.Register(ctx, mux, svc, site.WithMaxBodyBytes(cfg.MaxBodyBytes))
	return mux
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	svc, err := loadService(ctx, cfg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
		return err
	}

	log.Info(ctx, "server stopped")
	return nil
}
