package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/fareprice/internal/probe"
	"github.com/spf13/cobra"
)

func newProbeCmd() *cobra.Command {
	cfg := &probe.Config{}
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Submit random itineraries to a running server and verify the answers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			_, err := probe.Run(ctx, cfg)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", "http://localhost:8501", "base URL of the fare service")
	f.IntVar(&cfg.Count, "count", 200, "number of itineraries to submit")
	f.IntVar(&cfg.Workers, "workers", 8, "concurrent workers")
	f.DurationVar(&cfg.Timeout, "timeout", 5*time.Second, "HTTP request timeout")
	f.Float64Var(&cfg.InvalidRatio, "invalid-ratio", 0.1, "fraction of itineraries with an unknown airline")
	f.Uint64Var(&cfg.Seed, "seed", 0, "generator seed; 0 picks one from the clock")
	f.StringVar(&cfg.OutputFile, "output", "", "write a JSON report to this path")
	return cmd
}
