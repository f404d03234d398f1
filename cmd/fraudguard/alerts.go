package main

import (
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"fraudguard/config"
	"fraudguard/internal/kafka"
	"fraudguard/internal/models"
)

func alertsCmd(load func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Work with the fraud alert stream",
	}
	cmd.AddCommand(alertsTailCmd(load))
	return cmd
}

func alertsTailCmd(load func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Print fraud alert events from Kafka as JSON lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := load()
			if !cfg.Kafka.Enabled {
				return errors.New("kafka is disabled, set KAFKA_ENABLED=true")
			}
			fromBeginning, _ := cmd.Flags().GetBool("from-beginning")

			// Partitions are consumed concurrently.
			var mu sync.Mutex
			enc := json.NewEncoder(cmd.OutOrStdout())
			consumer, err := kafka.NewAlertConsumer(cfg, fromBeginning, func(event *models.BusEvent) error {
				mu.Lock()
				defer mu.Unlock()
				return enc.Encode(event)
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return consumer.Start(ctx)
		},
	}

	cmd.Flags().Bool("from-beginning", false, "Start from the oldest retained offset")

	return cmd
}
