package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "contractors",
		Short: "Contractor access console service",
		Long: `contractors serves the contractor access console: onboarding,
site and system access, deactivation, access-request tickets and the
activity log, over gRPC and an HTTP/JSON gateway.`,
		Version:      version,
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newSeedCmd())
	rootCmd.AddCommand(newStatsCmd())
	return rootCmd
}
