package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/copro_ledger/internal/apperrors"
	"github.com/SscSPs/copro_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/copro_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/copro_ledger/internal/core/ports/services"
	"github.com/SscSPs/copro_ledger/internal/core/services"
	"github.com/SscSPs/copro_ledger/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByClassification(ctx context.Context, c domain.Classification) ([]domain.Account, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) IsAccountReferenced(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, code string) error {
	return m.Called(ctx, code).Error(0)
}

// mockStore runs units of work directly on the mocked repositories.
type mockStore struct {
	repos portsrepo.RepositoryProvider
}

func (s *mockStore) Repositories() portsrepo.RepositoryProvider { return s.repos }

func (s *mockStore) RunInTx(ctx context.Context, fn portsrepo.TxFunc) error {
	return fn(ctx, s.repos)
}

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  portssvc.AccountSvcFacade
	now      time.Time
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.now = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	store := &mockStore{repos: portsrepo.RepositoryProvider{AccountRepo: suite.mockRepo}}
	suite.service = services.NewAccountService(store, services.WithClock(func() time.Time { return suite.now }))
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{Code: "7111", Label: "  contributions ", Classification: domain.Revenue}

	suite.mockRepo.On("SaveAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Code == "7111" && a.Label == "CONTRIBUTIONS"
	})).Return(nil).Once()

	created, err := suite.service.CreateAccount(ctx, req, "alice")

	suite.Require().NoError(err)
	suite.Equal("CONTRIBUTIONS", created.Label)
	suite.Equal(domain.Revenue, created.Classification)
	suite.Equal("alice", created.CreatedBy)
	suite.Equal(suite.now, created.CreatedAt)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{Code: "3421", Label: "Co-owners", Classification: domain.Asset}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(apperrors.ErrDuplicateCode).Once()

	created, err := suite.service.CreateAccount(ctx, req, "alice")

	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrDuplicateCode)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Contains(err.Error(), "3421")
}

func (suite *AccountServiceTestSuite) TestCreateAccount_InvalidClassification() {
	created, err := suite.service.CreateAccount(context.Background(), dto.CreateAccountRequest{Code: "1", Label: "x", Classification: "EQUITY"}, "alice")

	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestGetAccountByCode_NotFound() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByCode", ctx, "999").Return(nil, apperrors.NewNotFoundError("account", "999")).Once()

	account, err := suite.service.GetAccountByCode(ctx, "999")

	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestListAccounts_RepoError() {
	ctx := context.Background()
	suite.mockRepo.On("ListAccounts", ctx).Return(nil, assert.AnError).Once()

	accounts, err := suite.service.ListAccounts(ctx)

	suite.Nil(accounts)
	suite.ErrorIs(err, assert.AnError)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_LabelAlwaysAllowed() {
	ctx := context.Background()
	label := "water supply"
	suite.mockRepo.On("FindAccountByCode", ctx, "6061").Return(&domain.Account{Code: "6061", Label: "OLD", Classification: domain.Expense}, nil).Once()
	suite.mockRepo.On("UpdateAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Label == "WATER SUPPLY" && a.LastUpdatedBy == "bob"
	})).Return(nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, "6061", dto.UpdateAccountRequest{Label: &label}, "bob")

	suite.Require().NoError(err)
	suite.Equal("WATER SUPPLY", updated.Label)
	suite.mockRepo.AssertNotCalled(suite.T(), "IsAccountReferenced", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_ReclassifyReferencedAccount() {
	ctx := context.Background()
	class := domain.Asset
	suite.mockRepo.On("FindAccountByCode", ctx, "6061").Return(&domain.Account{Code: "6061", Classification: domain.Expense}, nil).Once()
	suite.mockRepo.On("IsAccountReferenced", ctx, "6061").Return(true, nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, "6061", dto.UpdateAccountRequest{Classification: &class}, "bob")

	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrAccountInUse)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_Referenced() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByCode", ctx, "3421").Return(&domain.Account{Code: "3421"}, nil).Once()
	suite.mockRepo.On("IsAccountReferenced", ctx, "3421").Return(true, nil).Once()

	err := suite.service.DeleteAccount(ctx, "3421")

	suite.ErrorIs(err, apperrors.ErrAccountInUse)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_Unreferenced() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByCode", ctx, "4010").Return(&domain.Account{Code: "4010"}, nil).Once()
	suite.mockRepo.On("IsAccountReferenced", ctx, "4010").Return(false, nil).Once()
	suite.mockRepo.On("DeleteAccount", ctx, "4010").Return(nil).Once()

	suite.NoError(suite.service.DeleteAccount(ctx, "4010"))
	suite.mockRepo.AssertExpectations(suite.T())
}
