// Package cli implements the stubd command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stubd",
	Short: "stubd is an in-memory stub API server",
	Long: `stubd serves a generic REST-style API where collections come into
existence the moment a request names them. Items get monotonically
increasing integer ids, listings are paginated, and any request can ask
for a simulated error status or timeout via the error query parameter.

Everything lives in memory; nothing survives a restart.`,
	// No Run function here means 'stubd' with no args will print help text by default.
	SilenceUsage:  true,
	SilenceErrors: true, // We handle errors in Execute()
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
