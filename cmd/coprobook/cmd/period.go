package cmd

import (
	"fmt"
	"io"

	"github.com/SscSPs/copro_ledger/internal/core/domain"
	"github.com/spf13/cobra"
)

var periodCmd = &cobra.Command{
	Use:   "period",
	Short: "Fiscal period administration",
}

var periodCloseCmd = &cobra.Command{
	Use:   "close <period-id>",
	Short: "Close a fiscal period and open its successor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ledger, err := openLedger(cmd.Context())
		if err != nil {
			return failed(err, "failed to open ledger")
		}
		defer ledger.Close()

		result, err := ledger.Services.Closing.ClosePeriod(cmd.Context(), args[0], cliUser)
		if err != nil {
			return failed(err, "closing failed")
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Closed:          %s\n", periodRange(&result.ClosedPeriod))
		fmt.Fprintf(out, "Net result:      %s\n", result.NetResult.StringFixed(2))
		fmt.Fprintf(out, "Carried forward: %d balances\n", result.CarriedForward)
		fmt.Fprintf(out, "Current period:  %s (%s)\n", periodRange(&result.Successor), result.Successor.PeriodID)
		return nil
	},
}

var periodCurrentCmd = &cobra.Command{
	Use:   "current [period-id]",
	Short: "Show the current period, or make the given period current",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ledger, err := openLedger(cmd.Context())
		if err != nil {
			return failed(err, "failed to open ledger")
		}
		defer ledger.Close()

		var period *domain.FiscalPeriod
		if len(args) == 1 {
			if period, err = ledger.Services.Period.MarkCurrent(cmd.Context(), args[0], cliUser); err != nil {
				return failed(err, "failed to mark period current")
			}
		} else if period, err = ledger.Services.Period.GetCurrent(cmd.Context()); err != nil {
			return failed(err, "failed to get current period")
		}
		writePeriod(cmd.OutOrStdout(), period)
		return nil
	},
}

func init() {
	periodCmd.AddCommand(periodCloseCmd)
	periodCmd.AddCommand(periodCurrentCmd)
}

func periodRange(p *domain.FiscalPeriod) string {
	return p.StartDate.Format(domain.DateLayout) + ".." + p.EndDate.Format(domain.DateLayout)
}

func writePeriod(w io.Writer, p *domain.FiscalPeriod) {
	state := "closed"
	if p.IsOpen {
		state = "open"
	}
	fmt.Fprintf(w, "%s  %s  %s\n", p.PeriodID, periodRange(p), state)
}
