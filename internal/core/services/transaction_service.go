package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/copro_ledger/internal/apperrors"
	"github.com/SscSPs/copro_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/copro_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/copro_ledger/internal/core/ports/services"
	"github.com/SscSPs/copro_ledger/internal/dto"
	"github.com/SscSPs/copro_ledger/internal/utils/accounting"
	"github.com/SscSPs/copro_ledger/internal/utils/pagination"
	"github.com/google/uuid"
)

// transactionService implements the TransactionSvcFacade interface
type transactionService struct {
	BaseService
	store portsrepo.Store
	deps  dependencies
}

// NewTransactionService creates the transaction and entry store.
func NewTransactionService(store portsrepo.Store, options ...ServiceOption) portssvc.TransactionSvcFacade {
	return &transactionService{store: store, deps: newDependencies(options...)}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) OpenTransaction(ctx context.Context, operationDate time.Time, label, periodID string, document *domain.DocumentUpload) (*domain.TransactionDraft, error) {
	label = domain.NormalizeLabel(label)
	if label == "" {
		return nil, fmt.Errorf("%w: transaction label is required", apperrors.ErrValidation)
	}

	repos := s.store.Repositories()
	var period *domain.FiscalPeriod
	var err error
	if periodID == "" {
		period, err = findCurrentPeriod(ctx, repos)
	} else {
		period, err = repos.PeriodRepo.FindPeriodByID(ctx, periodID)
	}
	if err != nil {
		return nil, err
	}
	if !period.IsOpen {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrPeriodClosed, period)
	}

	if document != nil {
		if err := document.Validate(operationDate, s.deps.now()); err != nil {
			return nil, err
		}
	}

	return &domain.TransactionDraft{
		Transaction: domain.Transaction{
			PeriodID:      period.PeriodID,
			OperationDate: domain.DateOnly(operationDate),
			Label:         label,
			Source:        domain.SourceManual,
		},
		Document: document,
	}, nil
}

// Commit validates the draft, stores its document, then persists the
// transaction and recomputes balances in one unit of work. A stored document
// is released again if the unit of work fails.
func (s *transactionService) Commit(ctx context.Context, draft *domain.TransactionDraft, userID string) (*domain.Transaction, error) {
	if draft == nil {
		return nil, fmt.Errorf("%w: nothing to commit", apperrors.ErrValidation)
	}
	if err := accounting.ValidateTransactionBalance(draft.Transaction); err != nil {
		return nil, err
	}
	if err := s.checkLots(ctx, draft.Entries); err != nil {
		return nil, err
	}

	tx := draft.Transaction
	tx.Entries = append([]domain.JournalEntry(nil), draft.Entries...)
	if tx.Source == "" {
		tx.Source = domain.SourceManual
	}

	if draft.Document != nil {
		ref, err := s.storeDocument(ctx, *draft.Document, tx)
		if err != nil {
			return nil, err
		}
		tx.Document = ref
	}

	err := s.store.RunInTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		period, err := requireOpenPeriod(ctx, repos, tx.PeriodID)
		if err != nil {
			return err
		}
		if _, err := ensureAccountsExist(ctx, repos, tx.AccountCodes()...); err != nil {
			return err
		}
		return insertTransaction(ctx, repos, &tx, period, userID, s.deps.now())
	})
	if err != nil {
		if tx.Document != nil {
			s.releaseDocument(ctx, *tx.Document)
		}
		if !isExpected(err) {
			s.LogError(ctx, err, "Failed to commit transaction", slog.String("label", tx.Label))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Transaction committed",
		slog.String("transaction_id", tx.TransactionID),
		slog.String("period_id", tx.PeriodID),
		slog.Int("entries", len(tx.Entries)))
	return &tx, nil
}

func (s *transactionService) PostTransaction(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
	operationDate, err := domain.ParseDate(req.OperationDate)
	if err != nil {
		return nil, fmt.Errorf("%w: operation date %q: %v", apperrors.ErrValidation, req.OperationDate, err)
	}

	var upload *domain.DocumentUpload
	if req.Document != nil {
		upload = &domain.DocumentUpload{FileName: req.Document.FileName, Content: req.Document.Content}
	}

	draft, err := s.OpenTransaction(ctx, operationDate, req.Label, req.PeriodID, upload)
	if err != nil {
		return nil, err
	}
	for _, e := range req.Entries {
		cp, err := domain.NewCounterparty(e.LotID, e.SupplierCode)
		if err != nil {
			return nil, err
		}
		if err := draft.AddEntry(e.AccountCode, e.Amount, e.Type, cp); err != nil {
			return nil, err
		}
	}
	return s.Commit(ctx, draft, userID)
}

func (s *transactionService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	tx, err := s.store.Repositories().TransactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	return tx, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, periodID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	repos := s.store.Repositories()
	if _, err := repos.PeriodRepo.FindPeriodByID(ctx, periodID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	// One extra row tells whether another page exists.
	page := portsrepo.TransactionPage{Limit: limit + 1}
	if params.NextToken != "" {
		afterDate, afterCreatedAt, err := pagination.DecodeToken(params.NextToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		page.AfterDate = &afterDate
		page.AfterCreatedAt = &afterCreatedAt
	}

	txs, err := repos.TransactionRepo.ListTransactionsByPeriod(ctx, periodID, page)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.String("period_id", periodID))
		return nil, err
	}

	resp := &dto.ListTransactionsResponse{}
	if len(txs) > limit {
		txs = txs[:limit]
		last := txs[len(txs)-1]
		resp.NextToken = pagination.EncodeToken(last.OperationDate, last.CreatedAt)
	}
	resp.Transactions = dto.ToTransactionResponses(txs)
	return resp, nil
}

func (s *transactionService) AmendEntries(ctx context.Context, transactionID string, req dto.AmendEntriesRequest, userID string) (*domain.Transaction, error) {
	added, err := entriesFromRequest(req.Add)
	if err != nil {
		return nil, err
	}
	if len(added) == 0 && len(req.Remove) == 0 {
		return nil, fmt.Errorf("%w: nothing to amend", apperrors.ErrValidation)
	}
	if err := s.checkLots(ctx, added); err != nil {
		return nil, err
	}

	var amended *domain.Transaction
	err = s.store.RunInTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		tx, err := repos.TransactionRepo.FindTransactionByID(ctx, transactionID)
		if err != nil {
			return err
		}
		period, err := requireOpenPeriod(ctx, repos, tx.PeriodID)
		if err != nil {
			return err
		}

		removed := make(map[string]bool, len(req.Remove))
		for _, id := range req.Remove {
			removed[id] = true
		}
		touched := make([]string, 0, len(req.Remove)+len(added))
		after := *tx
		after.Entries = nil
		for _, e := range tx.Entries {
			if removed[e.EntryID] {
				touched = append(touched, e.AccountCode)
				continue
			}
			after.Entries = append(after.Entries, e)
		}

		now := s.deps.now()
		audit := newAudit(userID, now)
		for i := range added {
			added[i].EntryID = uuid.NewString()
			added[i].TransactionID = tx.TransactionID
			added[i].AuditFields = audit
			touched = append(touched, added[i].AccountCode)
		}
		after.Entries = append(after.Entries, added...)

		if err := accounting.ValidateTransactionBalance(after); err != nil {
			return err
		}
		if _, err := ensureAccountsExist(ctx, repos, domain.Transaction{Entries: added}.AccountCodes()...); err != nil {
			return err
		}
		if len(req.Remove) > 0 {
			if err := repos.TransactionRepo.DeleteEntries(ctx, tx.TransactionID, req.Remove); err != nil {
				return err
			}
		}
		if len(added) > 0 {
			if err := repos.TransactionRepo.SaveEntries(ctx, added); err != nil {
				return err
			}
		}
		if err := recomputeAccounts(ctx, repos, distinct(touched), period, now); err != nil {
			return err
		}
		amended, err = repos.TransactionRepo.FindTransactionByID(ctx, tx.TransactionID)
		return err
	})
	if err != nil {
		if !isExpected(err) {
			s.LogError(ctx, err, "Failed to amend transaction entries", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Transaction entries amended",
		slog.String("transaction_id", transactionID),
		slog.Int("added", len(added)),
		slog.Int("removed", len(req.Remove)))
	return amended, nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, transactionID string) error {
	var deleted *domain.Transaction
	err := s.store.RunInTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		tx, err := repos.TransactionRepo.FindTransactionByID(ctx, transactionID)
		if err != nil {
			return err
		}
		period, err := requireOpenPeriod(ctx, repos, tx.PeriodID)
		if err != nil {
			return err
		}
		if err := repos.TransactionRepo.DeleteTransaction(ctx, transactionID); err != nil {
			return err
		}
		deleted = tx
		return recomputeAccounts(ctx, repos, tx.AccountCodes(), period, s.deps.now())
	})
	if err != nil {
		if !isExpected(err) {
			s.LogError(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		}
		return err
	}

	if deleted.Document != nil {
		s.releaseDocument(ctx, *deleted.Document)
	}
	s.LogInfo(ctx, "Transaction deleted", slog.String("transaction_id", transactionID))
	return nil
}

func (s *transactionService) storeDocument(ctx context.Context, upload domain.DocumentUpload, tx domain.Transaction) (*domain.DocumentRef, error) {
	if s.deps.documents == nil {
		return nil, fmt.Errorf("%w: no document store configured", apperrors.ErrDocumentRejected)
	}
	ref, err := s.deps.documents.Store(ctx, upload, tx.OperationDate, tx.Label)
	if err != nil {
		if !errors.Is(err, apperrors.ErrExternalDependency) {
			err = fmt.Errorf("%w: %v", apperrors.ErrExternalDependency, err)
		}
		s.LogError(ctx, err, "Document store rejected upload", slog.String("file_name", upload.FileName))
		return nil, err
	}
	return ref, nil
}

func (s *transactionService) releaseDocument(ctx context.Context, ref domain.DocumentRef) {
	if s.deps.documents == nil {
		return
	}
	if err := s.deps.documents.Release(ctx, ref); err != nil {
		s.LogError(ctx, err, "Failed to release supporting document", slog.String("reference", ref.Reference))
	}
}

// checkLots resolves lot counterparties before any unit of work starts.
func (s *transactionService) checkLots(ctx context.Context, entries []domain.JournalEntry) error {
	if s.deps.lots == nil {
		return nil
	}
	for _, e := range entries {
		lotID := e.Counterparty.LotID()
		if lotID == "" {
			continue
		}
		exists, err := s.deps.lots.LotExists(ctx, lotID)
		if err != nil {
			return fmt.Errorf("%w: lot registry: %v", apperrors.ErrExternalDependency, err)
		}
		if !exists {
			return apperrors.NewNotFoundError("lot", lotID)
		}
	}
	return nil
}

func entriesFromRequest(reqs []dto.EntryRequest) ([]domain.JournalEntry, error) {
	var draft domain.TransactionDraft
	for _, e := range reqs {
		cp, err := domain.NewCounterparty(e.LotID, e.SupplierCode)
		if err != nil {
			return nil, err
		}
		if err := draft.AddEntry(strings.TrimSpace(e.AccountCode), e.Amount, e.Type, cp); err != nil {
			return nil, err
		}
	}
	return draft.Entries, nil
}

func distinct(codes []string) []string {
	seen := make(map[string]bool, len(codes))
	out := codes[:0]
	for _, c := range codes {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// isExpected reports errors that describe a rejected request rather than a failure.
func isExpected(err error) bool {
	for _, root := range []error{
		apperrors.ErrNotFound, apperrors.ErrValidation, apperrors.ErrDuplicate, apperrors.ErrConflict,
		apperrors.ErrInvariantViolation, apperrors.ErrStateError, apperrors.ErrExternalDependency,
	} {
		if errors.Is(err, root) {
			return true
		}
	}
	return false
}
