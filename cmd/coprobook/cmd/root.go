// Package cmd provides the commands of the coprobook CLI.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/SscSPs/copro_ledger/internal/middleware"
	"github.com/SscSPs/copro_ledger/internal/platform/app"
	"github.com/SscSPs/copro_ledger/internal/platform/config"
	"github.com/spf13/cobra"
)

// cliUser is recorded as the author of every change made from the CLI.
const cliUser = "coprobook-cli"

var debug bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "coprobook",
	Short: "Operate the co-ownership ledger",
	Long: `coprobook runs the scheduled and administrative jobs of the
co-ownership ledger against its PostgreSQL database.

Example:
  coprobook billing run --date 2024-03-15
  coprobook period close 6f1c...
  coprobook accounts seed --file chart.yaml
  coprobook migrate up`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
		cmd.SetContext(middleware.WithLogger(cmd.Context(), logger))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(billingCmd)
	rootCmd.AddCommand(periodCmd)
	rootCmd.AddCommand(accountsCmd)
	rootCmd.AddCommand(migrateCmd)
}

// openLedger loads the configuration and connects the services.
func openLedger(ctx context.Context) (*app.Ledger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return app.NewLedger(ctx, cfg, slog.Default())
}

// failed logs err and wraps it for cobra, which prints it and makes
// Execute return non-nil so main exits with status 1.
func failed(err error, msg string) error {
	slog.Error(msg, "error", err)
	return fmt.Errorf("%s: %w", msg, err)
}
