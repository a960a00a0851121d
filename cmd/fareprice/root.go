package main

import (
	"context"
	"fmt"

	"github.com/okian/fareprice/internal/config"
	"github.com/okian/fareprice/pkg/logger"
	"github.com/spf13/cobra"
)

type configKey struct{}

// newRootCmd wires every subcommand. Config is loaded once (defaults, then
// FARE_CONFIG, then FARE_* env) before any subcommand runs.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fareprice",
		Short:         "Indian domestic flight fare predictor",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithWriter(cmd.ErrOrStderr())); err != nil {
				return fmt.Errorf("failed to initialize logging: %w", err)
			}
			if err := logger.SetLevelString(cfg.LogLevel); err != nil {
				logger.Get().Warn(cmd.Context(), "invalid log_level; falling back to info",
					logger.String("log_level", cfg.LogLevel), logger.Error(err))
				_ = logger.SetLevelString("info")
			}
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
	}

	root.AddCommand(newServeCmd(), newPredictCmd(), newProbeCmd())
	return root
}

// configFrom returns the config loaded by the root command.
func configFrom(cmd *cobra.Command) *config.Config {
	if cfg, ok := cmd.Context().Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	return config.New()
}
