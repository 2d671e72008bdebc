// quantctl - operator CLI for the quant trading API
package main

import (
	"fmt"
	"os"
	"time"

	"quant_trader/internal/cli/client"
	"quant_trader/internal/cli/output"

	"github.com/spf13/cobra"
)

var (
	version   = "0.1.0"
	serverURL string
	format    string
	timeout   time.Duration
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "quantctl",
		Short: "Operate the quant trading API",
		Long: `quantctl manages trading agents, requests AI analysis and places
mock trades against a running quant API server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultServer := os.Getenv("QUANT_API_URL")
	if defaultServer == "" {
		defaultServer = "http://localhost:8000"
	}

	// Flags
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", defaultServer, "API base URL (env QUANT_API_URL)")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", output.DefaultFormat(), "Output format: json or table")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 60*time.Second, "HTTP request timeout")

	// Subcommands
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(agentsCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(tradeCmd())
	rootCmd.AddCommand(tradeStatusCmd())
	rootCmd.AddCommand(marketCmd())
	rootCmd.AddCommand(watchCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "quantctl version %s\n", version)
		},
	}
}

func apiClient() *client.Client {
	return client.New(serverURL, timeout)
}

func emit(cmd *cobra.Command, payload any) error {
	return output.Print(cmd.OutOrStdout(), payload, format)
}
