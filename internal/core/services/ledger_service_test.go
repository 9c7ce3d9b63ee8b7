package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/copro_ledger/internal/apperrors"
	"github.com/SscSPs/copro_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/copro_ledger/internal/core/ports/services"
	"github.com/SscSPs/copro_ledger/internal/core/services"
	"github.com/SscSPs/copro_ledger/internal/dto"
	"github.com/SscSPs/copro_ledger/internal/platform/config"
	"github.com/SscSPs/copro_ledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type fakeLotRegistry struct {
	lots map[string]bool
	err  error
}

func (f *fakeLotRegistry) LotExists(_ context.Context, lotID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.lots[lotID], nil
}

type fakeDocumentStore struct {
	stored   []domain.DocumentRef
	released []domain.DocumentRef
}

func (f *fakeDocumentStore) Store(_ context.Context, upload domain.DocumentUpload, operationDate time.Time, label string) (*domain.DocumentRef, error) {
	ref := domain.DocumentRef{
		Reference: domain.DocumentName(operationDate, label, upload.FileName),
		Size:      int64(len(upload.Content)),
		Extension: upload.Extension(),
	}
	f.stored = append(f.stored, ref)
	return &ref, nil
}

func (f *fakeDocumentStore) Release(_ context.Context, ref domain.DocumentRef) error {
	f.released = append(f.released, ref)
	return nil
}

// --- Test Suite Setup ---

type LedgerTestSuite struct {
	suite.Suite
	ctx       context.Context
	now       time.Time
	store     *memory.Store
	lots      *fakeLotRegistry
	documents *fakeDocumentStore
	svc       *portssvc.ServiceContainer
	period    *domain.FiscalPeriod
}

func (suite *LedgerTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.now = time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)
	suite.store = memory.NewStore()
	suite.lots = &fakeLotRegistry{lots: map[string]bool{"L1": true, "L2": true}}
	suite.documents = &fakeDocumentStore{}
	suite.svc = services.NewServiceContainer(suite.store,
		services.WithClock(func() time.Time { return suite.now }),
		services.WithLotRegistry(suite.lots),
		services.WithDocumentStore(suite.documents),
	)

	for _, acc := range []dto.CreateAccountRequest{
		{Code: "3421", Label: "Co-owners receivable", Classification: domain.Asset},
		{Code: "512", Label: "Bank", Classification: domain.Asset},
		{Code: "401", Label: "Suppliers", Classification: domain.Liability},
		{Code: "119", Label: "Retained earnings", Classification: domain.Liability},
		{Code: "7111", Label: "Contributions", Classification: domain.Revenue},
		{Code: "6061", Label: "Water", Classification: domain.Expense},
		{Code: "890", Label: "Result", Classification: domain.Adjustment},
	} {
		_, err := suite.svc.Account.CreateAccount(suite.ctx, acc, "setup")
		suite.Require().NoError(err)
	}

	period, err := suite.svc.Period.CreatePeriod(suite.ctx, dto.CreatePeriodRequest{
		StartDate: "2024-01-01", EndDate: "2024-12-31", MarkCurrent: true,
	}, "setup")
	suite.Require().NoError(err)
	suite.period = period
}

func TestLedgerTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerTestSuite))
}

func (suite *LedgerTestSuite) post(date, label string, entries ...dto.EntryRequest) (*domain.Transaction, error) {
	return suite.svc.Transaction.PostTransaction(suite.ctx, dto.CreateTransactionRequest{
		OperationDate: date,
		Label:         label,
		Entries:       entries,
	}, "alice")
}

func debit(code string, amount string) dto.EntryRequest {
	return dto.EntryRequest{AccountCode: code, Amount: decimal.RequireFromString(amount), Type: domain.Debit}
}

func credit(code string, amount string) dto.EntryRequest {
	return dto.EntryRequest{AccountCode: code, Amount: decimal.RequireFromString(amount), Type: domain.Credit}
}

func (suite *LedgerTestSuite) balance(code, periodID string) *domain.AccountPeriodBalance {
	b, err := suite.svc.Balance.GetBalance(suite.ctx, code, periodID)
	suite.Require().NoError(err)
	return b
}

func ledgerConfigWithResult(code string) config.LedgerConfig {
	cfg := config.DefaultLedgerConfig()
	cfg.ResultAccountCode = code
	return cfg
}

func (suite *LedgerTestSuite) assertAmount(expected string, actual decimal.Decimal, msgAndArgs ...any) {
	suite.True(decimal.RequireFromString(expected).Equal(actual),
		fmt.Sprintf("expected %s, got %s %v", expected, actual, msgAndArgs))
}

// --- Transactions ---

func (suite *LedgerTestSuite) TestPostTransaction_UpdatesBalances() {
	tx, err := suite.post("2024-03-01", "march contribution", debit("3421", "100.00"), credit("7111", "100.00"))
	suite.Require().NoError(err)

	suite.Equal("MARCH CONTRIBUTION", tx.Label)
	suite.Equal(suite.period.PeriodID, tx.PeriodID)
	suite.Equal(domain.SourceManual, tx.Source)
	suite.Len(tx.Entries, 2)
	suite.assertAmount("100", suite.balance("3421", suite.period.PeriodID).Current)
	suite.assertAmount("-100", suite.balance("7111", suite.period.PeriodID).Current)
}

func (suite *LedgerTestSuite) TestPostTransaction_UnbalancedPersistsNothing() {
	_, err := suite.post("2024-03-01", "broken", debit("3421", "50"), credit("7111", "40"))

	suite.ErrorIs(err, apperrors.ErrUnbalancedTransaction)
	suite.ErrorIs(err, apperrors.ErrInvariantViolation)
	suite.Contains(err.Error(), "50.00")
	suite.Contains(err.Error(), "40.00")

	page, err := suite.svc.Transaction.ListTransactions(suite.ctx, suite.period.PeriodID, dto.ListTransactionsParams{Limit: 10})
	suite.Require().NoError(err)
	suite.Empty(page.Transactions)
	suite.assertAmount("0", suite.balance("3421", suite.period.PeriodID).Current)
}

func (suite *LedgerTestSuite) TestPostTransaction_NegativeAmountRejected() {
	_, err := suite.post("2024-03-01", "negative", debit("3421", "-10"), credit("7111", "-10"))
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)
}

func (suite *LedgerTestSuite) TestPostTransaction_SubCentAmountsRejected() {
	_, err := suite.post("2024-03-01", "rounding", debit("6061", "0.005"), debit("6061", "0.005"), credit("512", "0.01"))

	suite.ErrorIs(err, apperrors.ErrInvalidAmount)
	txs, err := suite.svc.Transaction.ListTransactions(suite.ctx, suite.period.PeriodID, dto.ListTransactionsParams{Limit: 10})
	suite.Require().NoError(err)
	suite.Empty(txs.Transactions)
	suite.assertAmount("0", suite.balance("512", suite.period.PeriodID).Current)
}

func (suite *LedgerTestSuite) TestPostTransaction_UnknownAccount() {
	_, err := suite.post("2024-03-01", "unknown", debit("9999", "10"), credit("7111", "10"))
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerTestSuite) TestPostTransaction_CounterpartyRules() {
	both := debit("3421", "10")
	both.LotID, both.SupplierCode = "L1", "ACME"
	_, err := suite.post("2024-03-01", "both", both, credit("7111", "10"))
	suite.ErrorIs(err, apperrors.ErrConflictingCounterparty)

	unknownLot := debit("3421", "10")
	unknownLot.LotID = "L9"
	_, err = suite.post("2024-03-01", "unknown lot", unknownLot, credit("7111", "10"))
	suite.ErrorIs(err, apperrors.ErrNotFound)

	unknownSupplier := credit("401", "10")
	unknownSupplier.SupplierCode = "NOBODY"
	_, err = suite.post("2024-03-01", "unknown supplier", debit("6061", "10"), unknownSupplier)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	knownLot := debit("3421", "10")
	knownLot.LotID = "L1"
	tx, err := suite.post("2024-03-01", "known lot", knownLot, credit("7111", "10"))
	suite.Require().NoError(err)
	suite.Equal("L1", tx.Entries[0].Counterparty.LotID())
}

func (suite *LedgerTestSuite) TestPostTransaction_LotRegistryDown() {
	suite.lots.err = fmt.Errorf("connection refused")
	entry := debit("3421", "10")
	entry.LotID = "L1"

	_, err := suite.post("2024-03-01", "registry down", entry, credit("7111", "10"))

	suite.ErrorIs(err, apperrors.ErrExternalDependency)
}

func (suite *LedgerTestSuite) TestCommit_DocumentStoredAndReleasedOnFailure() {
	date := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	draft, err := suite.svc.Transaction.OpenTransaction(suite.ctx, date, "water bill", "",
		&domain.DocumentUpload{FileName: "invoice.PDF", Content: []byte("%PDF-1.4")})
	suite.Require().NoError(err)
	suite.Require().NoError(draft.AddEntry("6061", decimal.NewFromInt(40), domain.Debit, domain.Counterparty{}))
	suite.Require().NoError(draft.AddEntry("9999", decimal.NewFromInt(40), domain.Credit, domain.Counterparty{}))

	_, err = suite.svc.Transaction.Commit(suite.ctx, draft, "alice")

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Require().Len(suite.documents.stored, 1)
	suite.Equal("20240502_WATER_BILL_invoice.PDF", suite.documents.stored[0].Reference)
	suite.Equal(suite.documents.stored, suite.documents.released)
}

func (suite *LedgerTestSuite) TestCommit_DocumentKeptOnSuccess() {
	date := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	draft, err := suite.svc.Transaction.OpenTransaction(suite.ctx, date, "water bill", suite.period.PeriodID,
		&domain.DocumentUpload{FileName: "scan.png", Content: []byte{0x89, 'P', 'N', 'G'}})
	suite.Require().NoError(err)
	suite.Require().NoError(draft.AddEntry("6061", decimal.NewFromInt(40), domain.Debit, domain.Counterparty{}))
	suite.Require().NoError(draft.AddEntry("512", decimal.NewFromInt(40), domain.Credit, domain.Counterparty{}))

	tx, err := suite.svc.Transaction.Commit(suite.ctx, draft, "alice")

	suite.Require().NoError(err)
	suite.Require().NotNil(tx.Document)
	suite.Equal("png", tx.Document.Extension)
	suite.Empty(suite.documents.released)

	suite.Require().NoError(suite.svc.Transaction.DeleteTransaction(suite.ctx, tx.TransactionID))
	suite.Equal([]domain.DocumentRef{*tx.Document}, suite.documents.released)
}

func (suite *LedgerTestSuite) TestOpenTransaction_DocumentRules() {
	future := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	_, err := suite.svc.Transaction.OpenTransaction(suite.ctx, future, "future", "",
		&domain.DocumentUpload{FileName: "a.pdf", Content: []byte("x")})
	suite.ErrorIs(err, apperrors.ErrDocumentRejected)

	_, err = suite.svc.Transaction.OpenTransaction(suite.ctx, suite.now, "exe", "",
		&domain.DocumentUpload{FileName: "a.exe", Content: []byte("x")})
	suite.ErrorIs(err, apperrors.ErrDocumentRejected)

	_, err = suite.svc.Transaction.OpenTransaction(suite.ctx, suite.now, "big", "",
		&domain.DocumentUpload{FileName: "a.pdf", Content: make([]byte, domain.MaxDocumentSize+1)})
	suite.ErrorIs(err, apperrors.ErrDocumentRejected)

	_, err = suite.svc.Transaction.OpenTransaction(suite.ctx, suite.now, "   ", "", nil)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerTestSuite) TestAmendEntries() {
	tx, err := suite.post("2024-03-01", "contribution", debit("3421", "100"), credit("7111", "100"))
	suite.Require().NoError(err)
	creditID := tx.Entries[1].EntryID

	_, err = suite.svc.Transaction.AmendEntries(suite.ctx, tx.TransactionID, dto.AmendEntriesRequest{
		Remove: []string{tx.Entries[0].EntryID},
	}, "bob")
	suite.ErrorIs(err, apperrors.ErrUnbalancedTransaction)

	amended, err := suite.svc.Transaction.AmendEntries(suite.ctx, tx.TransactionID, dto.AmendEntriesRequest{
		Add:    []dto.EntryRequest{credit("7111", "60"), credit("512", "40")},
		Remove: []string{creditID},
	}, "bob")
	suite.Require().NoError(err)

	suite.Len(amended.Entries, 3)
	suite.assertAmount("100", suite.balance("3421", suite.period.PeriodID).Current)
	suite.assertAmount("-60", suite.balance("7111", suite.period.PeriodID).Current)
	suite.assertAmount("-40", suite.balance("512", suite.period.PeriodID).Current)
}

func (suite *LedgerTestSuite) TestDeleteTransaction_RestoresBalances() {
	tx, err := suite.post("2024-03-01", "contribution", debit("3421", "100"), credit("7111", "100"))
	suite.Require().NoError(err)

	suite.Require().NoError(suite.svc.Transaction.DeleteTransaction(suite.ctx, tx.TransactionID))

	_, err = suite.svc.Transaction.GetTransaction(suite.ctx, tx.TransactionID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.assertAmount("0", suite.balance("3421", suite.period.PeriodID).Current)
	suite.assertAmount("0", suite.balance("7111", suite.period.PeriodID).Current)
}

func (suite *LedgerTestSuite) TestListTransactions_Pagination() {
	for _, date := range []string{"2024-01-10", "2024-01-30", "2024-01-20"} {
		_, err := suite.post(date, "payment "+date, debit("512", "10"), credit("3421", "10"))
		suite.Require().NoError(err)
	}

	first, err := suite.svc.Transaction.ListTransactions(suite.ctx, suite.period.PeriodID, dto.ListTransactionsParams{Limit: 2})
	suite.Require().NoError(err)
	suite.Require().Len(first.Transactions, 2)
	suite.Equal("2024-01-30", first.Transactions[0].OperationDate)
	suite.Equal("2024-01-20", first.Transactions[1].OperationDate)
	suite.NotEmpty(first.NextToken)

	second, err := suite.svc.Transaction.ListTransactions(suite.ctx, suite.period.PeriodID,
		dto.ListTransactionsParams{Limit: 2, NextToken: first.NextToken})
	suite.Require().NoError(err)
	suite.Require().Len(second.Transactions, 1)
	suite.Equal("2024-01-10", second.Transactions[0].OperationDate)
	suite.Empty(second.NextToken)

	_, err = suite.svc.Transaction.ListTransactions(suite.ctx, suite.period.PeriodID,
		dto.ListTransactionsParams{Limit: 2, NextToken: "not-a-token"})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- Accounts ---

func (suite *LedgerTestSuite) TestDeleteAccount_InUse() {
	_, err := suite.post("2024-03-01", "contribution", debit("3421", "100"), credit("7111", "100"))
	suite.Require().NoError(err)

	suite.ErrorIs(suite.svc.Account.DeleteAccount(suite.ctx, "3421"), apperrors.ErrAccountInUse)

	expense := domain.Expense
	_, err = suite.svc.Account.UpdateAccount(suite.ctx, "7111", dto.UpdateAccountRequest{Classification: &expense}, "bob")
	suite.ErrorIs(err, apperrors.ErrAccountInUse)

	_, err = suite.svc.Account.CreateAccount(suite.ctx, dto.CreateAccountRequest{Code: "3421", Label: "again", Classification: domain.Asset}, "bob")
	suite.ErrorIs(err, apperrors.ErrDuplicateCode)
}

// --- Periods ---

func (suite *LedgerTestSuite) TestCreatePeriod_Rules() {
	_, err := suite.svc.Period.CreatePeriod(suite.ctx, dto.CreatePeriodRequest{StartDate: "2024-06-01", EndDate: "2025-05-31"}, "bob")
	suite.ErrorIs(err, apperrors.ErrConflict)

	_, err = suite.svc.Period.CreatePeriod(suite.ctx, dto.CreatePeriodRequest{StartDate: "2026-01-01", EndDate: "2026-01-01"}, "bob")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.svc.Period.CreatePeriod(suite.ctx, dto.CreatePeriodRequest{StartDate: "2026-13-01", EndDate: "2026-12-31"}, "bob")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerTestSuite) TestMarkCurrent_SingleCurrentPeriod() {
	next, err := suite.svc.Period.CreatePeriod(suite.ctx, dto.CreatePeriodRequest{StartDate: "2025-01-01", EndDate: "2025-12-31"}, "bob")
	suite.Require().NoError(err)
	suite.False(next.IsCurrent)

	_, err = suite.svc.Period.MarkCurrent(suite.ctx, next.PeriodID, "bob")
	suite.Require().NoError(err)

	periods, err := suite.svc.Period.ListPeriods(suite.ctx)
	suite.Require().NoError(err)
	current := 0
	for _, p := range periods {
		if p.IsCurrent {
			current++
			suite.Equal(next.PeriodID, p.PeriodID)
		}
	}
	suite.Equal(1, current)

	got, err := suite.svc.Period.GetCurrent(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(next.PeriodID, got.PeriodID)
}

func (suite *LedgerTestSuite) TestGetCurrent_NoneDefined() {
	svc := services.NewServiceContainer(memory.NewStore())

	_, err := svc.Period.GetCurrent(suite.ctx)

	suite.ErrorIs(err, apperrors.ErrNoCurrentPeriod)
}

// --- Balances ---

func (suite *LedgerTestSuite) TestRecompute_Idempotent() {
	_, err := suite.post("2024-03-01", "contribution", debit("3421", "100"), credit("7111", "100"))
	suite.Require().NoError(err)

	first, err := suite.svc.Balance.Recompute(suite.ctx, "3421", suite.period.PeriodID)
	suite.Require().NoError(err)
	second, err := suite.svc.Balance.Recompute(suite.ctx, "3421", suite.period.PeriodID)
	suite.Require().NoError(err)

	suite.assertAmount("100", first.Current)
	suite.True(first.Current.Equal(second.Current))
	suite.True(first.Opening.Equal(second.Opening))
}

func (suite *LedgerTestSuite) TestGetBalance_CreatesZeroRecord() {
	balances, err := suite.svc.Balance.ListPeriodBalances(suite.ctx, suite.period.PeriodID)
	suite.Require().NoError(err)
	suite.Empty(balances)

	b := suite.balance("512", suite.period.PeriodID)
	suite.assertAmount("0", b.Opening)
	suite.assertAmount("0", b.Current)

	balances, err = suite.svc.Balance.ListPeriodBalances(suite.ctx, suite.period.PeriodID)
	suite.Require().NoError(err)
	suite.Len(balances, 1)

	_, err = suite.svc.Balance.GetBalance(suite.ctx, "9999", suite.period.PeriodID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Closing ---

func (suite *LedgerTestSuite) TestClosePeriod_CarriesBalancesForward() {
	_, err := suite.post("2024-03-01", "contribution", debit("3421", "100.00"), credit("7111", "100.00"))
	suite.Require().NoError(err)

	result, err := suite.svc.Closing.ClosePeriod(suite.ctx, suite.period.PeriodID, "alice")
	suite.Require().NoError(err)

	suite.assertAmount("100", result.NetResult)
	suite.NotEmpty(result.ClosingTransactionID)
	suite.NotEmpty(result.TransferTransactionID)
	suite.Equal(4, result.CarriedForward)
	suite.False(result.ClosedPeriod.IsOpen)
	suite.Equal("2025-01-01", result.Successor.StartDate.Format(domain.DateLayout))
	suite.Equal("2025-12-31", result.Successor.EndDate.Format(domain.DateLayout))
	suite.True(result.Successor.IsCurrent)

	p2 := result.Successor.PeriodID
	suite.assertAmount("100", suite.balance("3421", p2).Opening)
	suite.assertAmount("100", domain.Liability.NaturalBalance(suite.balance("119", p2).Current))
	suite.assertAmount("0", suite.balance("7111", suite.period.PeriodID).Current)
	suite.assertAmount("0", suite.balance("890", suite.period.PeriodID).Current)

	current, err := suite.svc.Period.GetCurrent(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(p2, current.PeriodID)

	closing, err := suite.svc.Transaction.GetTransaction(suite.ctx, result.ClosingTransactionID)
	suite.Require().NoError(err)
	suite.Equal(domain.SourceClosing, closing.Source)
	suite.Equal("CLOSING 2024-01-01..2024-12-31", closing.Label)

	pnl, err := suite.svc.Reporting.ProfitAndLoss(suite.ctx, suite.period.PeriodID)
	suite.Require().NoError(err)
	suite.assertAmount("100", pnl.NetResult)

	sheet, err := suite.svc.Reporting.BalanceSheet(suite.ctx, p2)
	suite.Require().NoError(err)
	suite.assertAmount("100", sheet.TotalAssets)
	suite.assertAmount("100", sheet.TotalLiabilities)
}

func (suite *LedgerTestSuite) TestClosePeriod_ProfitAfterExpenses() {
	_, err := suite.post("2024-03-01", "contribution", debit("3421", "100"), credit("7111", "100"))
	suite.Require().NoError(err)
	_, err = suite.post("2024-04-01", "water", debit("6061", "40"), credit("512", "40"))
	suite.Require().NoError(err)

	result, err := suite.svc.Closing.ClosePeriod(suite.ctx, suite.period.PeriodID, "alice")
	suite.Require().NoError(err)

	suite.assertAmount("60", result.NetResult)
	p2 := result.Successor.PeriodID
	suite.assertAmount("60", domain.Liability.NaturalBalance(suite.balance("119", p2).Opening))
	suite.assertAmount("-40", suite.balance("512", p2).Opening)
	suite.assertAmount("0", suite.balance("6061", suite.period.PeriodID).Current)
}

func (suite *LedgerTestSuite) TestClosePeriod_NetLossDebitsRetainedEarnings() {
	_, err := suite.post("2024-03-01", "contribution", debit("3421", "40"), credit("7111", "40"))
	suite.Require().NoError(err)
	_, err = suite.post("2024-04-01", "water", debit("6061", "100"), credit("512", "100"))
	suite.Require().NoError(err)

	result, err := suite.svc.Closing.ClosePeriod(suite.ctx, suite.period.PeriodID, "alice")
	suite.Require().NoError(err)

	suite.assertAmount("-60", result.NetResult)
	suite.Require().NotEmpty(result.TransferTransactionID)

	transfer, err := suite.svc.Transaction.GetTransaction(suite.ctx, result.TransferTransactionID)
	suite.Require().NoError(err)
	suite.Equal(domain.SourceResultTransfer, transfer.Source)
	suite.Require().Len(transfer.Entries, 2)
	for _, e := range transfer.Entries {
		suite.assertAmount("60", e.Amount)
		switch e.AccountCode {
		case "119":
			suite.Equal(domain.Debit, e.Type)
		case "890":
			suite.Equal(domain.Credit, e.Type)
		default:
			suite.Failf("unexpected account in result transfer", "account %s", e.AccountCode)
		}
	}

	suite.assertAmount("0", suite.balance("890", suite.period.PeriodID).Current)
	suite.assertAmount("0", suite.balance("7111", suite.period.PeriodID).Current)
	suite.assertAmount("0", suite.balance("6061", suite.period.PeriodID).Current)

	p2 := result.Successor.PeriodID
	suite.assertAmount("-60", domain.Liability.NaturalBalance(suite.balance("119", p2).Opening))
	suite.assertAmount("40", suite.balance("3421", p2).Opening)
	suite.assertAmount("-100", suite.balance("512", p2).Opening)
}

func (suite *LedgerTestSuite) TestClosePeriod_EmptyPeriodSkipsTransactions() {
	result, err := suite.svc.Closing.ClosePeriod(suite.ctx, suite.period.PeriodID, "alice")
	suite.Require().NoError(err)

	suite.assertAmount("0", result.NetResult)
	suite.Empty(result.ClosingTransactionID)
	suite.Empty(result.TransferTransactionID)
}

func (suite *LedgerTestSuite) TestClosePeriod_AlreadyClosed() {
	_, err := suite.svc.Closing.ClosePeriod(suite.ctx, suite.period.PeriodID, "alice")
	suite.Require().NoError(err)

	_, err = suite.svc.Closing.ClosePeriod(suite.ctx, suite.period.PeriodID, "alice")
	suite.ErrorIs(err, apperrors.ErrAlreadyClosed)

	_, err = suite.post("2024-03-01", "late", debit("3421", "1"), credit("7111", "1"))
	suite.Require().NoError(err, "posts go to the successor once it is current")

	_, err = suite.svc.Transaction.PostTransaction(suite.ctx, dto.CreateTransactionRequest{
		OperationDate: "2024-03-01",
		Label:         "late",
		PeriodID:      suite.period.PeriodID,
		Entries:       []dto.EntryRequest{debit("3421", "1"), credit("7111", "1")},
	}, "alice")
	suite.ErrorIs(err, apperrors.ErrPeriodClosed)

	_, err = suite.svc.Period.MarkCurrent(suite.ctx, suite.period.PeriodID, "alice")
	suite.ErrorIs(err, apperrors.ErrPeriodClosed)

	_, err = suite.svc.Balance.Recompute(suite.ctx, "3421", suite.period.PeriodID)
	suite.ErrorIs(err, apperrors.ErrPeriodClosed)
}

func (suite *LedgerTestSuite) TestClosePeriod_ReusesSuccessorWithPostedEntries() {
	next, err := suite.svc.Period.CreatePeriod(suite.ctx, dto.CreatePeriodRequest{StartDate: "2025-01-01", EndDate: "2025-12-31"}, "bob")
	suite.Require().NoError(err)

	_, err = suite.post("2024-03-01", "contribution", debit("3421", "100"), credit("7111", "100"))
	suite.Require().NoError(err)
	_, err = suite.svc.Transaction.PostTransaction(suite.ctx, dto.CreateTransactionRequest{
		OperationDate: "2025-01-15",
		Label:         "early contribution",
		PeriodID:      next.PeriodID,
		Entries:       []dto.EntryRequest{debit("3421", "50"), credit("7111", "50")},
	}, "alice")
	suite.Require().NoError(err)

	result, err := suite.svc.Closing.ClosePeriod(suite.ctx, suite.period.PeriodID, "alice")
	suite.Require().NoError(err)

	suite.Equal(next.PeriodID, result.Successor.PeriodID)
	b := suite.balance("3421", next.PeriodID)
	suite.assertAmount("100", b.Opening)
	suite.assertAmount("150", b.Current)
}

func (suite *LedgerTestSuite) TestClosePeriod_MissingDesignatedAccount() {
	svc := services.NewServiceContainer(suite.store,
		services.WithClock(func() time.Time { return suite.now }),
		services.WithLedgerConfig(ledgerConfigWithResult("899")),
	)

	_, err := svc.Closing.ClosePeriod(suite.ctx, suite.period.PeriodID, "alice")

	suite.ErrorIs(err, apperrors.ErrNotFound)
	p, err := suite.svc.Period.GetPeriod(suite.ctx, suite.period.PeriodID)
	suite.Require().NoError(err)
	suite.True(p.IsOpen)
	suite.True(p.IsCurrent)
}

func (suite *LedgerTestSuite) TestGetBalance_ClosedPeriodIsNotPersisted() {
	_, err := suite.svc.Closing.ClosePeriod(suite.ctx, suite.period.PeriodID, "alice")
	suite.Require().NoError(err)
	_, err = suite.svc.Account.CreateAccount(suite.ctx, dto.CreateAccountRequest{Code: "4011", Label: "Deposits", Classification: domain.Liability}, "bob")
	suite.Require().NoError(err)

	b := suite.balance("4011", suite.period.PeriodID)
	suite.assertAmount("0", b.Current)

	balances, err := suite.svc.Balance.ListPeriodBalances(suite.ctx, suite.period.PeriodID)
	suite.Require().NoError(err)
	for _, rec := range balances {
		suite.NotEqual("4011", rec.AccountCode)
	}
}

// --- Billing ---

func (suite *LedgerTestSuite) subscribe(lotID, amount string) *domain.Subscription {
	return suite.subscribeEvery(lotID, amount, domain.Monthly)
}

func (suite *LedgerTestSuite) subscribeEvery(lotID, amount string, frequency domain.Frequency) *domain.Subscription {
	sub, err := suite.svc.Subscription.CreateSubscription(suite.ctx, dto.CreateSubscriptionRequest{
		LotID:     lotID,
		Amount:    decimal.RequireFromString(amount),
		Frequency: frequency,
		StartDate: "2024-01-01",
	}, "setup")
	suite.Require().NoError(err)
	return sub
}

func (suite *LedgerTestSuite) runBilling(year int, month time.Month, day int) *domain.BillingReport {
	report, err := suite.svc.Billing.RunBilling(suite.ctx, time.Date(year, month, day, 0, 0, 0, 0, time.UTC), false, "cron")
	suite.Require().NoError(err)
	return report
}

func (suite *LedgerTestSuite) TestRunBilling_BillsOncePerCycle() {
	suite.subscribe("L1", "300.00")
	target := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	first, err := suite.svc.Billing.RunBilling(suite.ctx, target, false, "cron")
	suite.Require().NoError(err)
	suite.Equal(1, first.NewlyBilled)
	suite.Require().Len(first.Lines, 1)
	suite.Equal("MONTHLY CONTRIBUTION LOT#L1 - 2024-03", first.Lines[0].Label)

	second, err := suite.svc.Billing.RunBilling(suite.ctx, target, false, "cron")
	suite.Require().NoError(err)
	suite.Equal(0, second.NewlyBilled)
	suite.Equal(1, second.AlreadyBilled)
	suite.assertAmount("300", suite.balance("3421", suite.period.PeriodID).Current)

	forced, err := suite.svc.Billing.RunBilling(suite.ctx, target, true, "cron")
	suite.Require().NoError(err)
	suite.Equal(1, forced.NewlyBilled)
	suite.True(forced.Forced)
	suite.assertAmount("600", suite.balance("3421", suite.period.PeriodID).Current)
	suite.assertAmount("-600", suite.balance("7111", suite.period.PeriodID).Current)

	invoice, err := suite.svc.Transaction.GetTransaction(suite.ctx, first.Lines[0].TransactionID)
	suite.Require().NoError(err)
	suite.Equal(domain.SourceBilling, invoice.Source)
	suite.Equal("L1", invoice.Entries[0].Counterparty.LotID())

	april, err := suite.svc.Billing.RunBilling(suite.ctx, target.AddDate(0, 1, 0), false, "cron")
	suite.Require().NoError(err)
	suite.Equal(1, april.NewlyBilled)
}

func (suite *LedgerTestSuite) TestRunBilling_LowercaseLotBilledOnce() {
	suite.lots.lots["l9"] = true
	suite.subscribe("l9", "300.00")

	first := suite.runBilling(2024, time.March, 15)
	suite.Equal(1, first.NewlyBilled)
	suite.Equal("MONTHLY CONTRIBUTION LOT#L9 - 2024-03", first.Lines[0].Label)

	second := suite.runBilling(2024, time.March, 15)
	suite.Equal(0, second.NewlyBilled)
	suite.Equal(1, second.AlreadyBilled)
	suite.assertAmount("300", suite.balance("3421", suite.period.PeriodID).Current)

	invoice, err := suite.svc.Transaction.GetTransaction(suite.ctx, first.Lines[0].TransactionID)
	suite.Require().NoError(err)
	suite.Equal("l9", invoice.Entries[0].Counterparty.LotID())
}

func (suite *LedgerTestSuite) TestRunBilling_QuarterlyOncePerQuarter() {
	suite.subscribeEvery("L1", "450", domain.Quarterly)

	february := suite.runBilling(2024, time.February, 10)
	suite.Equal(1, february.NewlyBilled)
	suite.Equal("QUARTERLY CONTRIBUTION LOT#L1 - 2024-Q1", february.Lines[0].Label)

	march := suite.runBilling(2024, time.March, 20)
	suite.Equal(0, march.NewlyBilled)
	suite.Equal(1, march.AlreadyBilled)
	suite.Equal(domain.AlreadyBilled, march.Lines[0].Status)

	april := suite.runBilling(2024, time.April, 5)
	suite.Equal(1, april.NewlyBilled)
	suite.Equal("QUARTERLY CONTRIBUTION LOT#L1 - 2024-Q2", april.Lines[0].Label)

	suite.assertAmount("900", suite.balance("3421", suite.period.PeriodID).Current)
}

func (suite *LedgerTestSuite) TestRunBilling_YearlyOncePerYear() {
	suite.subscribeEvery("L2", "1200", domain.Yearly)

	first := suite.runBilling(2024, time.February, 10)
	suite.Equal(1, first.NewlyBilled)
	suite.Equal("YEARLY CONTRIBUTION LOT#L2 - 2024", first.Lines[0].Label)

	later := suite.runBilling(2024, time.May, 30)
	suite.Equal(0, later.NewlyBilled)
	suite.Equal(1, later.AlreadyBilled)

	suite.assertAmount("1200", suite.balance("3421", suite.period.PeriodID).Current)
	suite.assertAmount("-1200", suite.balance("7111", suite.period.PeriodID).Current)
}

func (suite *LedgerTestSuite) TestRunBilling_LotMissing() {
	suite.subscribe("L1", "300")
	suite.subscribe("L2", "150")
	cleared, err := suite.svc.Subscription.ReleaseLot(suite.ctx, "L1", "admin")
	suite.Require().NoError(err)
	suite.Equal(1, cleared)
	suite.lots.lots["L2"] = false

	report, err := suite.svc.Billing.RunBilling(suite.ctx, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), false, "cron")

	suite.Require().NoError(err)
	suite.Equal(2, report.Candidates)
	suite.Equal(2, report.LotMissing)
	suite.Equal(0, report.NewlyBilled)
	suite.assertAmount("0", suite.balance("3421", suite.period.PeriodID).Current)
}

func (suite *LedgerTestSuite) TestRunBilling_SkipsInactiveSubscriptions() {
	sub := suite.subscribe("L1", "300")
	suite.Require().NoError(suite.svc.Subscription.DeactivateSubscription(suite.ctx, sub.SubscriptionID, "admin"))
	suite.subscribe("L2", "100")

	report, err := suite.svc.Billing.RunBilling(suite.ctx, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), false, "cron")

	suite.Require().NoError(err)
	suite.Equal(1, report.Candidates)
	suite.Equal("L2", report.Lines[0].LotID)
}

func (suite *LedgerTestSuite) TestRunBilling_NoCurrentPeriod() {
	svc := services.NewServiceContainer(memory.NewStore())

	_, err := svc.Billing.RunBilling(suite.ctx, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), false, "cron")

	suite.ErrorIs(err, apperrors.ErrNoCurrentPeriod)
}

func (suite *LedgerTestSuite) TestCreateSubscription_Rules() {
	_, err := suite.svc.Subscription.CreateSubscription(suite.ctx, dto.CreateSubscriptionRequest{
		LotID: "L1", Amount: decimal.Zero, Frequency: domain.Monthly, StartDate: "2024-01-01",
	}, "setup")
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)

	_, err = suite.svc.Subscription.CreateSubscription(suite.ctx, dto.CreateSubscriptionRequest{
		LotID: "L1", Amount: decimal.RequireFromString("33.333"), Frequency: domain.Monthly, StartDate: "2024-01-01",
	}, "setup")
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)

	_, err = suite.svc.Subscription.CreateSubscription(suite.ctx, dto.CreateSubscriptionRequest{
		LotID: "L1", Amount: decimal.NewFromInt(10), Frequency: "WEEKLY", StartDate: "2024-01-01",
	}, "setup")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.svc.Subscription.CreateSubscription(suite.ctx, dto.CreateSubscriptionRequest{
		LotID: "L7", Amount: decimal.NewFromInt(10), Frequency: domain.Yearly, StartDate: "2024-01-01",
	}, "setup")
	suite.ErrorIs(err, apperrors.ErrNotFound)

	_, err = suite.svc.Subscription.CreateSubscription(suite.ctx, dto.CreateSubscriptionRequest{
		LotID: "L1", Amount: decimal.NewFromInt(10), Frequency: domain.Yearly, StartDate: "2024-06-01", EndDate: "2024-01-01",
	}, "setup")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- Suppliers ---

func (suite *LedgerTestSuite) TestCreateSupplier_Validation() {
	_, err := suite.svc.Supplier.CreateSupplier(suite.ctx, dto.CreateSupplierRequest{Code: "acme co", LegalName: "Acme"}, "bob")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.svc.Supplier.CreateSupplier(suite.ctx, dto.CreateSupplierRequest{Code: "ACME", LegalName: "Acme", Phone: "12345"}, "bob")
	suite.ErrorIs(err, apperrors.ErrValidation)

	supplier, err := suite.svc.Supplier.CreateSupplier(suite.ctx, dto.CreateSupplierRequest{
		Code: "ACME-01", LegalName: "Acme Plumbing", Phone: "0612345678", Email: "billing@acme.example",
	}, "bob")
	suite.Require().NoError(err)
	suite.True(supplier.IsActive)

	_, err = suite.svc.Supplier.CreateSupplier(suite.ctx, dto.CreateSupplierRequest{Code: "ACME-01", LegalName: "Other"}, "bob")
	suite.ErrorIs(err, apperrors.ErrDuplicate)

	entry := credit("401", "25")
	entry.SupplierCode = "ACME-01"
	tx, err := suite.post("2024-03-01", "plumber", debit("6061", "25"), entry)
	suite.Require().NoError(err)
	suite.Equal("ACME-01", tx.Entries[1].Counterparty.SupplierCode())
}

// --- Reports ---

func (suite *LedgerTestSuite) TestTrialBalance_SkipsZeroBalances() {
	_, err := suite.post("2024-03-01", "contribution", debit("3421", "100"), credit("7111", "100"))
	suite.Require().NoError(err)
	suite.balance("512", suite.period.PeriodID)

	rows, err := suite.svc.Reporting.TrialBalance(suite.ctx, suite.period.PeriodID)
	suite.Require().NoError(err)

	suite.Require().Len(rows, 2)
	suite.Equal("3421", rows[0].AccountCode)
	suite.assertAmount("100", rows[0].Debit)
	suite.Equal("7111", rows[1].AccountCode)
	suite.assertAmount("100", rows[1].Credit)
}
