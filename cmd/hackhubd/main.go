package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"hackhub/config"
	"hackhub/daemon"
	"hackhub/internal/logging"

	"github.com/spf13/cobra"
)

func main() {
	var (
		debug  bool
		listen string
		data   string
		node   string
	)

	root := &cobra.Command{
		Use:           "hackhubd",
		Short:         "Hackathon collaboration daemon",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Listen = listen
			}
			if data != "" {
				cfg.DataDir = data
			}
			if node != "" {
				cfg.Node = node
			}

			level := cfg.LogLevel
			if debug {
				level = logging.LevelDebug
			}
			if err := logging.Configure(level); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return daemon.Run(ctx, cfg)
		},
	}
	root.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
	root.Flags().StringVar(&listen, "listen", "", "Listen address (overrides config)")
	root.Flags().StringVar(&data, "data-dir", "", "Snapshot directory (overrides config)")
	root.Flags().StringVar(&node, "node", "", "Node name (overrides config)")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
