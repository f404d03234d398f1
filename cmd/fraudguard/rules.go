package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"fraudguard/config"
	"fraudguard/internal/fraud"
)

func rulesCmd(load func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the active fraud rule set",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("output")
			rules := fraud.NewEvaluator(load().Fraud).Rules()
			return write(cmd.OutOrStdout(), format, rules)
		},
	}

	cmd.Flags().StringP("output", "o", "yaml", "Output format (yaml, json)")

	return cmd
}

func evaluateCmd(load func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Run the fraud rules against a single transaction without storing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			rawAmount, _ := flags.GetString("amount")
			txType, _ := flags.GetString("type")
			country, _ := flags.GetString("country")
			device, _ := flags.GetString("device")
			rawTime, _ := flags.GetString("timestamp")

			amount, err := decimal.NewFromString(rawAmount)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", rawAmount, err)
			}
			ts := time.Now().UTC()
			if rawTime != "" {
				if ts, err = time.Parse(time.RFC3339, rawTime); err != nil {
					return fmt.Errorf("invalid timestamp %q: %w", rawTime, err)
				}
			}

			evaluation, err := fraud.NewEvaluator(load().Fraud).Evaluate(fraud.Candidate{
				Amount:    amount,
				Type:      txType,
				Country:   country,
				Device:    device,
				Timestamp: ts,
			})
			if err != nil {
				return err
			}
			return write(cmd.OutOrStdout(), "json", evaluation)
		},
	}

	cmd.Flags().String("amount", "", "Transaction amount")
	cmd.Flags().String("type", "", "Transaction type, e.g. Virement or Retrait")
	cmd.Flags().String("country", "MA", "Country code")
	cmd.Flags().String("device", "", "Device, e.g. ATM or Mobile")
	cmd.Flags().String("timestamp", "", "RFC3339 timestamp, defaults to now")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func write(w io.Writer, format string, v interface{}) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
