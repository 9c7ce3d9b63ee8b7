package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/SscSPs/copro_ledger/internal/apperrors"
	"github.com/SscSPs/copro_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransaction_Totals(t *testing.T) {
	tx := domain.Transaction{
		Entries: []domain.JournalEntry{
			{AccountCode: "3421", Amount: decimal.RequireFromString("50.00"), Type: domain.Debit},
			{AccountCode: "7111", Amount: decimal.RequireFromString("40.00"), Type: domain.Credit},
			{AccountCode: "3421", Amount: decimal.RequireFromString("5.50"), Type: domain.Debit},
		},
	}

	debit, credit := tx.Totals()
	assert.True(t, decimal.RequireFromString("55.50").Equal(debit))
	assert.True(t, decimal.RequireFromString("40.00").Equal(credit))
	assert.Equal(t, []string{"3421", "7111"}, tx.AccountCodes())
}

func TestNewCounterparty(t *testing.T) {
	tests := []struct {
		name     string
		lotID    string
		supplier string
		wantKind domain.CounterpartyKind
		wantErr  error
	}{
		{name: "none", wantKind: domain.NoCounterparty},
		{name: "lot", lotID: "L1", wantKind: domain.LotCounterparty},
		{name: "supplier", supplier: "EDF", wantKind: domain.SupplierCounterparty},
		{name: "both", lotID: "L1", supplier: "EDF", wantErr: apperrors.ErrConflictingCounterparty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cp, err := domain.NewCounterparty(tt.lotID, tt.supplier)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, apperrors.ErrInvariantViolation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, cp.Kind())
			assert.Equal(t, tt.lotID, cp.LotID())
			assert.Equal(t, tt.supplier, cp.SupplierCode())
		})
	}
}

func TestCounterparty_JSON(t *testing.T) {
	data, err := json.Marshal(domain.ForLot("L7"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"lotID":"L7"}`, string(data))

	var cp domain.Counterparty
	err = json.Unmarshal([]byte(`{"lotID":"L1","supplierCode":"EDF"}`), &cp)
	assert.ErrorIs(t, err, apperrors.ErrConflictingCounterparty)
}

func TestFiscalPeriod(t *testing.T) {
	p := domain.FiscalPeriod{
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}

	assert.Equal(t, "2024-01-01..2024-12-31", p.String())
	assert.True(t, p.Contains(time.Date(2024, 12, 31, 18, 0, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, p.Overlaps(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, p.Overlaps(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)))

	err := domain.ValidatePeriodRange(p.EndDate, p.StartDate)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.ErrorIs(t, domain.ValidatePeriodRange(p.StartDate, p.StartDate), apperrors.ErrValidation)
}

func TestFrequency_Cycles(t *testing.T) {
	d := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		freq      domain.Frequency
		key       string
		start     string
		end       string
		wantLabel string
	}{
		{domain.Monthly, "2024-03", "2024-03-01", "2024-03-31", "MONTHLY CONTRIBUTION LOT#L1 - 2024-03"},
		{domain.Quarterly, "2024-Q1", "2024-01-01", "2024-03-31", "QUARTERLY CONTRIBUTION LOT#L1 - 2024-Q1"},
		{domain.Yearly, "2024", "2024-01-01", "2024-12-31", "YEARLY CONTRIBUTION LOT#L1 - 2024"},
	}

	for _, tt := range tests {
		t.Run(string(tt.freq), func(t *testing.T) {
			assert.Equal(t, tt.key, tt.freq.CycleKey(d))
			start, end := tt.freq.CycleWindow(d)
			assert.Equal(t, tt.start, start.Format(domain.DateLayout))
			assert.Equal(t, tt.end, end.Format(domain.DateLayout))

			sub := domain.Subscription{LotID: "L1", Frequency: tt.freq}
			assert.Equal(t, tt.wantLabel, sub.InvoiceLabel(d))
		})
	}
}

func TestInvoiceLabel_StoredForm(t *testing.T) {
	sub := domain.Subscription{LotID: "l9", Frequency: domain.Monthly}
	label := sub.InvoiceLabel(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, "MONTHLY CONTRIBUTION LOT#L9 - 2024-03", label)
	assert.Equal(t, domain.NormalizeLabel(label), label)
}

func TestTransactionDraft_AddEntryPrecision(t *testing.T) {
	tests := []struct {
		amount  string
		wantErr bool
	}{
		{"12", false},
		{"12.5", false},
		{"12.50", false},
		{"12.500", false},
		{"0.01", false},
		{"0.005", true},
		{"12.501", true},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			draft := &domain.TransactionDraft{}
			err := draft.AddEntry("512", decimal.RequireFromString(tt.amount), domain.Debit, domain.Counterparty{})
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
				assert.Empty(t, draft.Entries)
				return
			}
			require.NoError(t, err)
			assert.Len(t, draft.Entries, 1)
		})
	}
}

func TestSubscription_ActiveOn(t *testing.T) {
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	sub := domain.Subscription{
		IsActive:  true,
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   &end,
	}

	assert.True(t, sub.ActiveOn(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, sub.ActiveOn(end))
	assert.False(t, sub.ActiveOn(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, sub.ActiveOn(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)))

	sub.IsActive = false
	assert.False(t, sub.ActiveOn(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestDocumentUpload_Validate(t *testing.T) {
	today := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		upload  domain.DocumentUpload
		opDate  time.Time
		wantErr bool
	}{
		{"pdf accepted", domain.DocumentUpload{FileName: "invoice.PDF", Content: []byte("x")}, today, false},
		{"png accepted", domain.DocumentUpload{FileName: "scan.png", Content: []byte("x")}, today.AddDate(0, 0, -3), false},
		{"docx rejected", domain.DocumentUpload{FileName: "letter.docx", Content: []byte("x")}, today, true},
		{"too large", domain.DocumentUpload{FileName: "big.jpg", Content: make([]byte, domain.MaxDocumentSize+1)}, today, true},
		{"future date", domain.DocumentUpload{FileName: "late.jpeg", Content: []byte("x")}, today.AddDate(0, 0, 1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.upload.Validate(tt.opDate, today)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrDocumentRejected)
				assert.ErrorIs(t, err, apperrors.ErrExternalDependency)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDocumentName(t *testing.T) {
	name := domain.DocumentName(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), "Water bill / March", "facture.pdf")
	assert.Equal(t, "20240305_WATER_BILL___MARCH_facture.pdf", name)
}

func TestClassification(t *testing.T) {
	assert.True(t, domain.Asset.IsBalanceSheet())
	assert.True(t, domain.Liability.IsBalanceSheet())
	assert.False(t, domain.Adjustment.IsBalanceSheet())
	assert.True(t, domain.Revenue.IsResult())
	assert.False(t, domain.Classification("EQUITY").IsValid())

	hundred := decimal.NewFromInt(100)
	assert.True(t, hundred.Equal(domain.Liability.NaturalBalance(hundred.Neg())))
	assert.True(t, hundred.Equal(domain.Asset.NaturalBalance(hundred)))
}
