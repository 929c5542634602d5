// Command arrayd runs the distributed-array binary-operation server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arrayd-io/arrayd/internal/config"
	"github.com/arrayd-io/arrayd/internal/server"
)

const version = "v0.1.0-dev"

func main() {
	root := &cobra.Command{
		Use:          "arrayd",
		Short:        "arrayd - a NumPy-compatible array operation server",
		SilenceUsage: true,
	}

	var (
		configPath string
		addr       string
	)

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the array server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: logLevel(cfg.LogLevel),
			}))

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigCh
				log.Info("shutting down")
				cancel()
			}()

			return server.New(cfg, log).Start(ctx)
		},
	}
	serve.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")
	serve.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides config)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("arrayd %s\n", version)
		},
	}

	root.AddCommand(serve, versionCmd)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
