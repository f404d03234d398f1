// Command fraudguard runs the fraud detection API and a few operator tools around it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fraudguard/config"
)

var Version = "dev"

func main() {
	if err := newRootCmd(config.Load).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(load func() *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fraudguard",
		Short:         "FraudGuard - banking fraud detection API",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd(load))
	rootCmd.AddCommand(rulesCmd(load))
	rootCmd.AddCommand(evaluateCmd(load))
	rootCmd.AddCommand(alertsCmd(load))

	return rootCmd
}
