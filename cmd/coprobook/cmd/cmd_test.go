package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/copro_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadChart(t *testing.T) {
	input := `
accounts:
  - code: "512"
    label: bank
    classification: ASSET
  - code: "7111"
    label: contributions
    classification: REVENUE
`
	accounts, err := loadChart(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "512", accounts[0].Code)
	assert.Equal(t, domain.Revenue, accounts[1].Classification)
}

func TestLoadChart_Rejects(t *testing.T) {
	tests := map[string]string{
		"unknown classification": "accounts:\n  - {code: \"1\", label: x, classification: EQUITY}\n",
		"missing label":          "accounts:\n  - {code: \"1\", classification: ASSET}\n",
		"not yaml":               "accounts: [",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := loadChart(strings.NewReader(input))
			assert.Error(t, err)
		})
	}
}

func TestWriteBillingReport(t *testing.T) {
	report := &domain.BillingReport{
		TargetDate:    time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		PeriodID:      "p-1",
		Candidates:    2,
		NewlyBilled:   1,
		AlreadyBilled: 1,
		Lines: []domain.BillingLine{
			{LotID: "L1", Label: "CONTRIBUTION L1 2024-03", Amount: decimal.NewFromInt(150), Status: domain.Billed},
			{LotID: "L2", Label: "CONTRIBUTION L2 2024-03", Amount: decimal.NewFromInt(90), Status: domain.AlreadyBilled},
		},
	}

	var buf bytes.Buffer
	writeBillingReport(&buf, report)
	out := buf.String()

	assert.Contains(t, out, "=== Billing 2024-03-15 ===")
	assert.Contains(t, out, "Newly billed:    1")
	assert.Contains(t, out, "Already billed:  1")
	assert.Contains(t, out, "150.00")
	assert.Contains(t, out, string(domain.AlreadyBilled))
	assert.Equal(t, 2, strings.Count(out, "CONTRIBUTION"))
}

func TestCommands_ReturnErrors(t *testing.T) {
	tests := map[string][]string{
		"bad billing date":  {"billing", "run", "--date", "15/03/2024"},
		"missing chart":     {"accounts", "seed", "--file", filepath.Join(t.TempDir(), "absent.yaml")},
		"unknown direction": {"migrate", "sideways"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			t.Cleanup(func() { billingDate, chartFile = "", "chart.yaml" })
			var out bytes.Buffer
			rootCmd.SetOut(&out)
			rootCmd.SetErr(&out)
			rootCmd.SetArgs(args)

			err := rootCmd.ExecuteContext(context.Background())

			assert.Error(t, err)
			assert.Contains(t, out.String(), "Error:")
		})
	}
}
