package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/SscSPs/copro_ledger/internal/apperrors"
	"github.com/SscSPs/copro_ledger/internal/dto"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var chartFile string

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Chart of accounts administration",
}

var accountsSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the accounts listed in a YAML chart",
	Long: `Create every account listed in a YAML chart of accounts.
Accounts whose code already exists are left untouched.

Example chart.yaml:
  accounts:
    - code: "512"
      label: bank
      classification: ASSET
    - code: "7111"
      label: contributions
      classification: REVENUE`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	accountsSeedCmd.Flags().StringVar(&chartFile, "file", "chart.yaml", "YAML chart of accounts")
	accountsCmd.AddCommand(accountsSeedCmd)
}

// chart is the layout of a chart of accounts file.
type chart struct {
	Accounts []dto.CreateAccountRequest `yaml:"accounts"`
}

func loadChart(r io.Reader) ([]dto.CreateAccountRequest, error) {
	var c chart
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to parse chart: %w", err)
	}
	for i, acc := range c.Accounts {
		if acc.Code == "" || acc.Label == "" || acc.Classification == "" {
			return nil, fmt.Errorf("chart entry %d: code, label and classification are required", i+1)
		}
		if !acc.Classification.IsValid() {
			return nil, fmt.Errorf("chart entry %d: unknown classification %q", i+1, acc.Classification)
		}
	}
	return c.Accounts, nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	f, err := os.Open(chartFile)
	if err != nil {
		return failed(err, "failed to open chart")
	}
	defer f.Close()

	accounts, err := loadChart(f)
	if err != nil {
		return failed(err, "invalid chart")
	}

	ledger, err := openLedger(cmd.Context())
	if err != nil {
		return failed(err, "failed to open ledger")
	}
	defer ledger.Close()

	created, existing := 0, 0
	for _, req := range accounts {
		_, err := ledger.Services.Account.CreateAccount(cmd.Context(), req, cliUser)
		if errors.Is(err, apperrors.ErrDuplicateCode) {
			slog.Debug("Account already exists", "code", req.Code)
			existing++
			continue
		}
		if err != nil {
			return failed(err, "failed to create account "+req.Code)
		}
		created++
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %d accounts, %d already present\n", created, existing)
	return nil
}
