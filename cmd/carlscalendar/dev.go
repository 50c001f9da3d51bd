package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Ranrar/CarlsCalendar-sub000/internal/config"
	"github.com/Ranrar/CarlsCalendar-sub000/internal/dev"
)

func devCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Run the development asset server",
		Long: `Serves the shell page and static assets, with a websocket
live-reload channel at /__reload and Prometheus metrics at /metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

			ctx, stop := signal.NotifyContext(context.Background(),
				os.Interrupt, syscall.SIGTERM)
			defer stop()

			return dev.NewServer(cfg, logger).Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to carlscalendar.toml")

	return cmd
}
