package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/SscSPs/copro_ledger/internal/core/domain"
	"github.com/spf13/cobra"
)

var (
	billingDate  string
	billingForce bool
)

var billingCmd = &cobra.Command{
	Use:   "billing",
	Short: "Recurring billing of lot subscriptions",
}

var billingRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Bill every subscription due for the cycle containing --date",
	Long: `Bill every active subscription due for the billing cycle that
contains --date. Cycles already billed are skipped unless --force is set.

Exits non-zero when there is no current period or the ledger cannot be written.

Example:
  coprobook billing run --date 2024-03-15
  coprobook billing run --date 2024-03-15 --force`,
	Args: cobra.NoArgs,
	RunE: runBilling,
}

func init() {
	billingRunCmd.Flags().StringVar(&billingDate, "date", "", "target date (YYYY-MM-DD), defaults to today")
	billingRunCmd.Flags().BoolVar(&billingForce, "force", false, "bill again cycles already billed")
	billingCmd.AddCommand(billingRunCmd)
}

func runBilling(cmd *cobra.Command, args []string) error {
	target := time.Now().UTC().Truncate(24 * time.Hour)
	if billingDate != "" {
		parsed, err := time.Parse(domain.DateLayout, billingDate)
		if err != nil {
			return failed(err, "invalid --date")
		}
		target = parsed
	}

	ledger, err := openLedger(cmd.Context())
	if err != nil {
		return failed(err, "failed to open ledger")
	}
	defer ledger.Close()

	slog.Info("Running billing", "target_date", target.Format(domain.DateLayout), "force", billingForce)
	report, err := ledger.Services.Billing.RunBilling(cmd.Context(), target, billingForce, cliUser)
	if err != nil {
		return failed(err, "billing run failed")
	}

	writeBillingReport(cmd.OutOrStdout(), report)
	return nil
}

// writeBillingReport prints the run counters followed by one line per subscription.
func writeBillingReport(w io.Writer, report *domain.BillingReport) {
	fmt.Fprintf(w, "\n=== Billing %s ===\n", report.TargetDate.Format(domain.DateLayout))
	fmt.Fprintf(w, "Period:          %s\n", report.PeriodID)
	fmt.Fprintf(w, "Candidates:      %d\n", report.Candidates)
	fmt.Fprintf(w, "Newly billed:    %d\n", report.NewlyBilled)
	fmt.Fprintf(w, "Already billed:  %d\n", report.AlreadyBilled)
	fmt.Fprintf(w, "Lot missing:     %d\n", report.LotMissing)
	if len(report.Lines) > 0 {
		fmt.Fprintln(w)
	}
	for _, line := range report.Lines {
		lot := line.LotID
		if lot == "" {
			lot = "-"
		}
		fmt.Fprintf(w, "%-14s %-10s %12s  %s\n", line.Status, lot, line.Amount.StringFixed(2), line.Label)
	}
}
