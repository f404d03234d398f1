package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"fraudguard/config"
	"fraudguard/internal/bootstrap"
)

func serveCmd(load func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP and gRPC servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := load()

			flags := cmd.Flags()
			if flags.Changed("http-port") {
				cfg.Server.HTTPPort, _ = flags.GetInt("http-port")
			}
			if flags.Changed("grpc-port") {
				cfg.Server.GRPCPort, _ = flags.GetInt("grpc-port")
			}
			if flags.Changed("db") {
				cfg.DB.DBPath, _ = flags.GetString("db")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return bootstrap.Run(ctx, cfg)
		},
	}

	cmd.Flags().Int("http-port", 8080, "HTTP listen port")
	cmd.Flags().Int("grpc-port", 50051, "gRPC listen port")
	cmd.Flags().String("db", "", "SQLite database file")

	return cmd
}
