package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/maxborn/loan_management_app/internal/apperrors"
	"github.com/maxborn/loan_management_app/internal/core/domain"
	portsrepo "github.com/maxborn/loan_management_app/internal/core/ports/repositories"
	portssvc "github.com/maxborn/loan_management_app/internal/core/ports/services"
	"github.com/maxborn/loan_management_app/internal/core/services"
	"github.com/maxborn/loan_management_app/internal/dto"
	"github.com/maxborn/loan_management_app/internal/platform/config"
)

// MockLoanRepository is a mock type for the LoanRepositoryFacade interface
type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) FindLoanByID(ctx context.Context, id string) (*domain.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) ListLoans(ctx context.Context, filter portsrepo.LoanListFilter) ([]domain.Loan, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Loan), args.Get(1).(int64), args.Error(2)
}

func (m *MockLoanRepository) CountLoansByStatus(ctx context.Context, ownerID string) (map[domain.LoanStatus]int64, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.LoanStatus]int64), args.Error(1)
}

func (m *MockLoanRepository) SumOutstanding(ctx context.Context, ownerID string) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockLoanRepository) SumPaymentsByMode(ctx context.Context, ownerID string) (map[domain.PaymentMode]decimal.Decimal, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.PaymentMode]decimal.Decimal), args.Error(1)
}

func (m *MockLoanRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) UpdateLoan(ctx context.Context, loan domain.Loan, expectedVersion int64) error {
	args := m.Called(ctx, loan, expectedVersion)
	return args.Error(0)
}

func (m *MockLoanRepository) DeleteLoan(ctx context.Context, id string, deletedBy string, now time.Time) error {
	args := m.Called(ctx, id, deletedBy, now)
	return args.Error(0)
}

func (m *MockLoanRepository) AppendPayment(ctx context.Context, loan domain.Loan, entry domain.PaymentEntry, expectedVersion int64) error {
	args := m.Called(ctx, loan, entry, expectedVersion)
	return args.Error(0)
}

func (m *MockLoanRepository) AppendPenalty(ctx context.Context, loan domain.Loan, entry domain.PenaltyEntry, expectedVersion int64) error {
	args := m.Called(ctx, loan, entry, expectedVersion)
	return args.Error(0)
}

// MockShopkeeperRepository is a mock type for the ShopkeeperRepositoryFacade interface
type MockShopkeeperRepository struct {
	mock.Mock
}

func (m *MockShopkeeperRepository) FindShopkeeperByID(ctx context.Context, shopkeeperID string) (*domain.Shopkeeper, error) {
	args := m.Called(ctx, shopkeeperID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Shopkeeper), args.Error(1)
}

func (m *MockShopkeeperRepository) FindShopkeeperByUserID(ctx context.Context, userID string) (*domain.Shopkeeper, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Shopkeeper), args.Error(1)
}

func (m *MockShopkeeperRepository) ListShopkeepers(ctx context.Context, limit int, offset int) ([]domain.Shopkeeper, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Shopkeeper), args.Get(1).(int64), args.Error(2)
}

func (m *MockShopkeeperRepository) SaveShopkeeper(ctx context.Context, sk domain.Shopkeeper) error {
	args := m.Called(ctx, sk)
	return args.Error(0)
}

func (m *MockShopkeeperRepository) UpdateShopkeeper(ctx context.Context, sk domain.Shopkeeper) error {
	args := m.Called(ctx, sk)
	return args.Error(0)
}

func (m *MockShopkeeperRepository) DeductTokens(ctx context.Context, shopkeeperID string, amount int64) error {
	args := m.Called(ctx, shopkeeperID, amount)
	return args.Error(0)
}

func (m *MockShopkeeperRepository) AddTokens(ctx context.Context, shopkeeperID string, amount int64) error {
	args := m.Called(ctx, shopkeeperID, amount)
	return args.Error(0)
}

// MockCustomerRepository is a mock type for the CustomerRepositoryFacade interface
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindCustomerByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) ListCustomers(ctx context.Context, limit int, offset int) ([]domain.Customer, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Customer), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerRepository) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) UpdateCustomer(ctx context.Context, customer domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

// MockDispatcher records enqueued notifications.
type MockDispatcher struct {
	mock.Mock
	Enqueued []domain.Notification
}

func (m *MockDispatcher) Enqueue(notifications ...domain.Notification) {
	m.Called(notifications)
	m.Enqueued = append(m.Enqueued, notifications...)
}

func (m *MockDispatcher) Close() {
	m.Called()
}

// --- Test Suite Setup ---

type LoanServiceTestSuite struct {
	suite.Suite
	mockLoanRepo       *MockLoanRepository
	mockShopkeeperRepo *MockShopkeeperRepository
	mockCustomerRepo   *MockCustomerRepository
	mockDispatcher     *MockDispatcher
	service            portssvc.LoanSvcFacade

	admin      domain.Actor
	verifier   domain.Actor
	collector  domain.Actor
	shopkeeper domain.Actor
}

func (suite *LoanServiceTestSuite) SetupTest() {
	suite.mockLoanRepo = new(MockLoanRepository)
	suite.mockShopkeeperRepo = new(MockShopkeeperRepository)
	suite.mockCustomerRepo = new(MockCustomerRepository)
	suite.mockDispatcher = new(MockDispatcher)

	cfg := &config.Config{
		DefaultInterestRate:  decimal.NewFromFloat(0.0375),
		DefaultTenureMonths:  12,
		DefaultPenaltyAmount: decimal.NewFromInt(500),
	}
	suite.service = services.NewLoanService(suite.mockLoanRepo, suite.mockShopkeeperRepo, suite.mockCustomerRepo, suite.mockDispatcher, cfg)

	suite.admin = domain.Actor{UserID: "admin-1", FullName: "Admin", Role: domain.RoleAdmin}
	suite.verifier = domain.Actor{UserID: "verifier-1", FullName: "Verifier", Role: domain.RoleVerifier}
	suite.collector = domain.Actor{UserID: "collector-1", FullName: "Collections Agent", Role: domain.RoleCollections}
	suite.shopkeeper = domain.Actor{UserID: "sk-user-1", FullName: "Shop Owner", Role: domain.RoleShopkeeper}
}

func validCreateRequest() dto.CreateLoanRequest {
	return dto.CreateLoanRequest{
		Name:         "Ravi Kumar",
		Phone:        "9876543210",
		AadharNumber: "123412341234",
		Address: dto.AddressInput{
			HouseNo: "12A",
			GaliNo:  "3",
			Colony:  "Shastri Nagar",
			City:    "Meerut",
			State:   "Uttar Pradesh",
			Pincode: "250001",
		},
		Product: dto.ProductInput{
			Name:        "Refrigerator",
			Company:     "LG",
			Price:       decimal.NewFromInt(50000),
			DownPayment: decimal.NewFromInt(10000),
		},
	}
}

func storedLoan(status domain.LoanStatus) *domain.Loan {
	return &domain.Loan{
		ID:     "loan-uuid-1",
		LoanID: "LN12345678",
		Applicant: domain.Applicant{
			Name:  "Ravi Kumar",
			Phone: "9876543210",
		},
		LoanAmount:    decimal.NewFromInt(40000),
		InterestRate:  decimal.NewFromFloat(0.0375),
		Tenure:        12,
		Status:        status,
		KYCStatus:     domain.KYCPending,
		AppliedDate:   "2025-01-15",
		EMIsPaid:      0,
		EMIsRemaining: 12,
		TotalPenalty:  decimal.Zero,
		ShopkeeperID:  "SHARMA-ELECTRONICS-0001",
		Version:       1,
	}
}

// --- CreateLoan ---

func (suite *LoanServiceTestSuite) TestCreateLoan_DefaultsApplied() {
	ctx := context.Background()

	suite.mockLoanRepo.On("SaveLoan", ctx, mock.AnythingOfType("domain.Loan")).Return(nil).Once()
	suite.mockDispatcher.On("Enqueue", mock.Anything).Return().Once()

	loan, err := suite.service.CreateLoan(ctx, validCreateRequest(), suite.admin)

	suite.Require().NoError(err)
	suite.Require().NotNil(loan)
	suite.True(loan.LoanAmount.Equal(decimal.NewFromInt(40000)), "loanAmount defaults to price minus down payment")
	suite.True(loan.InterestRate.Equal(decimal.NewFromFloat(0.0375)))
	suite.Equal(12, loan.Tenure)
	suite.Equal(0, loan.EMIsPaid)
	suite.Equal(12, loan.EMIsRemaining)
	suite.Equal(domain.StatusPending, loan.Status)
	suite.Equal(domain.KYCPending, loan.KYCStatus)
	suite.Equal(domain.ApplicationGroup, loan.ApplicationMode, "unspecified applications default to the group channel")
	suite.Equal(int64(1), loan.Version)
	suite.Regexp(`^LN\d{8}$`, loan.LoanID)
	suite.Equal("12A, 3, Shastri Nagar, Meerut, Uttar Pradesh - 250001", loan.Applicant.Address)
	suite.NotEmpty(loan.AppliedDate)
	suite.Empty(loan.ShopkeeperID, "admin submissions carry no shopkeeper")

	suite.Require().Len(suite.mockDispatcher.Enqueued, 1)
	n := suite.mockDispatcher.Enqueued[0]
	suite.Equal(domain.NotificationNewLoanApplication, n.Type)
	suite.Equal(domain.RoleVerifier, n.TargetRole)
	suite.Equal(loan.LoanID, n.LoanID)

	suite.mockLoanRepo.AssertExpectations(suite.T())
	suite.mockShopkeeperRepo.AssertNotCalled(suite.T(), "DeductTokens", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestCreateLoan_ShopkeeperDeductsToken() {
	ctx := context.Background()
	sk := &domain.Shopkeeper{ShopkeeperID: "SHARMA-ELECTRONICS-0001", UserID: suite.shopkeeper.UserID, TokenBalance: 5}

	suite.mockShopkeeperRepo.On("FindShopkeeperByUserID", ctx, suite.shopkeeper.UserID).Return(sk, nil).Once()
	suite.mockShopkeeperRepo.On("DeductTokens", ctx, sk.ShopkeeperID, int64(1)).Return(nil).Once()
	suite.mockLoanRepo.On("SaveLoan", ctx, mock.AnythingOfType("domain.Loan")).Return(nil).Once()
	suite.mockDispatcher.On("Enqueue", mock.Anything).Return().Once()

	loan, err := suite.service.CreateLoan(ctx, validCreateRequest(), suite.shopkeeper)

	suite.Require().NoError(err)
	suite.Equal(sk.ShopkeeperID, loan.ShopkeeperID)
	suite.mockShopkeeperRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestCreateLoan_InsufficientTokensAbortsCreation() {
	ctx := context.Background()
	sk := &domain.Shopkeeper{ShopkeeperID: "SHARMA-ELECTRONICS-0001", UserID: suite.shopkeeper.UserID, TokenBalance: 0}

	suite.mockShopkeeperRepo.On("FindShopkeeperByUserID", ctx, suite.shopkeeper.UserID).Return(sk, nil).Once()
	suite.mockShopkeeperRepo.On("DeductTokens", ctx, sk.ShopkeeperID, int64(1)).Return(apperrors.ErrInsufficientBalance).Once()

	loan, err := suite.service.CreateLoan(ctx, validCreateRequest(), suite.shopkeeper)

	suite.Require().ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.Nil(loan)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "SaveLoan", mock.Anything, mock.Anything)
	suite.Empty(suite.mockDispatcher.Enqueued)
}

func (suite *LoanServiceTestSuite) TestCreateLoan_SaveFailureRefundsToken() {
	ctx := context.Background()
	sk := &domain.Shopkeeper{ShopkeeperID: "SHARMA-ELECTRONICS-0001", UserID: suite.shopkeeper.UserID, TokenBalance: 5}

	suite.mockShopkeeperRepo.On("FindShopkeeperByUserID", ctx, suite.shopkeeper.UserID).Return(sk, nil).Once()
	suite.mockShopkeeperRepo.On("DeductTokens", ctx, sk.ShopkeeperID, int64(1)).Return(nil).Once()
	suite.mockLoanRepo.On("SaveLoan", ctx, mock.AnythingOfType("domain.Loan")).Return(assert.AnError).Once()
	suite.mockShopkeeperRepo.On("AddTokens", ctx, sk.ShopkeeperID, int64(1)).Return(nil).Once()

	loan, err := suite.service.CreateLoan(ctx, validCreateRequest(), suite.shopkeeper)

	suite.Require().Error(err)
	suite.Nil(loan)
	suite.mockShopkeeperRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestCreateLoan_NonPositiveAmountRejected() {
	ctx := context.Background()
	req := validCreateRequest()
	req.Product.DownPayment = decimal.NewFromInt(50000) // equals price

	loan, err := suite.service.CreateLoan(ctx, req, suite.admin)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(loan)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "SaveLoan", mock.Anything, mock.Anything)
}

// --- UpdateStatus ---

func (suite *LoanServiceTestSuite) TestUpdateStatus_VerifyEmitsNotification() {
	ctx := context.Background()
	loan := storedLoan(domain.StatusPending)

	suite.mockLoanRepo.On("FindLoanByID", ctx, loan.ID).Return(loan, nil).Once()
	suite.mockLoanRepo.On("UpdateLoan", ctx, mock.AnythingOfType("domain.Loan"), int64(1)).Return(nil).Once()
	suite.mockDispatcher.On("Enqueue", mock.Anything).Return().Once()

	updated, err := suite.service.UpdateStatus(ctx, loan.ID, dto.UpdateLoanStatusRequest{Status: domain.StatusVerified, Comment: "docs ok"}, suite.verifier)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusVerified, updated.Status)
	suite.Equal(int64(2), updated.Version)
	suite.Require().Len(suite.mockDispatcher.Enqueued, 1)
	suite.Equal(domain.RoleAdmin, suite.mockDispatcher.Enqueued[0].TargetRole)
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestUpdateStatus_InvalidTransition() {
	ctx := context.Background()
	loan := storedLoan(domain.StatusPending)

	suite.mockLoanRepo.On("FindLoanByID", ctx, loan.ID).Return(loan, nil).Once()

	updated, err := suite.service.UpdateStatus(ctx, loan.ID, dto.UpdateLoanStatusRequest{Status: domain.StatusApproved}, suite.admin)

	suite.Require().ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.Nil(updated)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "UpdateLoan", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestUpdateStatus_ForbiddenRole() {
	ctx := context.Background()

	updated, err := suite.service.UpdateStatus(ctx, "loan-uuid-1", dto.UpdateLoanStatusRequest{Status: domain.StatusVerified}, suite.collector)

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(updated)
}

// --- CollectPayment ---

func (suite *LoanServiceTestSuite) TestCollectPayment_Success() {
	ctx := context.Background()
	loan := storedLoan(domain.StatusActive)
	loan.EMIsPaid = 3
	loan.EMIsRemaining = 9

	suite.mockLoanRepo.On("FindLoanByID", ctx, loan.ID).Return(loan, nil).Once()
	suite.mockLoanRepo.On("AppendPayment", ctx, mock.AnythingOfType("domain.Loan"), mock.AnythingOfType("domain.PaymentEntry"), int64(1)).Return(nil).Once()

	req := dto.CollectPaymentRequest{Amount: decimal.NewFromInt(3500), PaymentMode: domain.PaymentCash}
	updated, err := suite.service.CollectPayment(ctx, loan.ID, req, suite.collector)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusActive, updated.Status)
	suite.Equal(4, updated.EMIsPaid)
	suite.Equal(8, updated.EMIsRemaining)
	suite.Equal(int64(2), updated.Version)
	suite.Require().Len(updated.Payments, 1)
	suite.Equal("Collections Agent", updated.Payments[0].CollectedBy)
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestCollectPayment_FinalInstallmentMarksPaid() {
	ctx := context.Background()
	loan := storedLoan(domain.StatusActive)
	loan.EMIsPaid = 11
	loan.EMIsRemaining = 1

	suite.mockLoanRepo.On("FindLoanByID", ctx, loan.ID).Return(loan, nil).Once()
	suite.mockLoanRepo.On("AppendPayment", ctx, mock.AnythingOfType("domain.Loan"), mock.AnythingOfType("domain.PaymentEntry"), int64(1)).Return(nil).Once()

	req := dto.CollectPaymentRequest{Amount: decimal.NewFromInt(3500), PaymentMode: domain.PaymentUPI}
	updated, err := suite.service.CollectPayment(ctx, loan.ID, req, suite.collector)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPaid, updated.Status)
	suite.Equal(0, updated.EMIsRemaining)
}

func (suite *LoanServiceTestSuite) TestCollectPayment_RetriesOnConflict() {
	ctx := context.Background()

	// First read sees version 1; the write loses the race. The retry reads
	// version 2 and wins.
	first := storedLoan(domain.StatusActive)
	second := storedLoan(domain.StatusActive)
	second.Version = 2

	suite.mockLoanRepo.On("FindLoanByID", ctx, first.ID).Return(first, nil).Once()
	suite.mockLoanRepo.On("AppendPayment", ctx, mock.AnythingOfType("domain.Loan"), mock.AnythingOfType("domain.PaymentEntry"), int64(1)).Return(apperrors.ErrConflict).Once()
	suite.mockLoanRepo.On("FindLoanByID", ctx, first.ID).Return(second, nil).Once()
	suite.mockLoanRepo.On("AppendPayment", ctx, mock.AnythingOfType("domain.Loan"), mock.AnythingOfType("domain.PaymentEntry"), int64(2)).Return(nil).Once()

	req := dto.CollectPaymentRequest{Amount: decimal.NewFromInt(3500), PaymentMode: domain.PaymentCash}
	updated, err := suite.service.CollectPayment(ctx, first.ID, req, suite.collector)

	suite.Require().NoError(err)
	suite.Equal(int64(3), updated.Version)
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestCollectPayment_ExhaustsRetries() {
	ctx := context.Background()

	loan := storedLoan(domain.StatusActive)
	suite.mockLoanRepo.On("FindLoanByID", ctx, loan.ID).Return(storedLoan(domain.StatusActive), nil).Times(3)
	suite.mockLoanRepo.On("AppendPayment", ctx, mock.Anything, mock.Anything, int64(1)).Return(apperrors.ErrConflict).Times(3)

	req := dto.CollectPaymentRequest{Amount: decimal.NewFromInt(3500), PaymentMode: domain.PaymentCash}
	_, err := suite.service.CollectPayment(ctx, loan.ID, req, suite.collector)

	suite.Require().ErrorIs(err, apperrors.ErrConflict)
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestCollectPayment_ForbiddenForVerifier() {
	ctx := context.Background()

	req := dto.CollectPaymentRequest{Amount: decimal.NewFromInt(3500), PaymentMode: domain.PaymentCash}
	_, err := suite.service.CollectPayment(ctx, "loan-uuid-1", req, suite.verifier)

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "FindLoanByID", mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestCollectPayment_RejectedLoanNotPayable() {
	ctx := context.Background()
	loan := storedLoan(domain.StatusRejected)

	suite.mockLoanRepo.On("FindLoanByID", ctx, loan.ID).Return(loan, nil).Once()

	req := dto.CollectPaymentRequest{Amount: decimal.NewFromInt(3500), PaymentMode: domain.PaymentCash}
	_, err := suite.service.CollectPayment(ctx, loan.ID, req, suite.collector)

	suite.Require().ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.Require().ErrorIs(err, services.ErrLoanNotPayable)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "AppendPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestCollectPayment_NothingOutstanding() {
	ctx := context.Background()
	loan := storedLoan(domain.StatusActive)
	loan.EMIsPaid = 12
	loan.EMIsRemaining = 0

	suite.mockLoanRepo.On("FindLoanByID", ctx, loan.ID).Return(loan, nil).Once()

	req := dto.CollectPaymentRequest{Amount: decimal.NewFromInt(3500), PaymentMode: domain.PaymentCash}
	_, err := suite.service.CollectPayment(ctx, loan.ID, req, suite.collector)

	suite.Require().ErrorIs(err, services.ErrNothingOutstanding)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "AppendPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- ApplyPenalty ---

func (suite *LoanServiceTestSuite) TestApplyPenalty_DefaultsApplied() {
	ctx := context.Background()
	loan := storedLoan(domain.StatusActive)

	var captured domain.PenaltyEntry
	suite.mockLoanRepo.On("FindLoanByID", ctx, loan.ID).Return(loan, nil).Once()
	suite.mockLoanRepo.On("AppendPenalty", ctx, mock.AnythingOfType("domain.Loan"), mock.AnythingOfType("domain.PenaltyEntry"), int64(1)).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).(domain.PenaltyEntry)
		}).Return(nil).Once()

	updated, err := suite.service.ApplyPenalty(ctx, loan.ID, dto.ApplyPenaltyRequest{}, suite.collector)

	suite.Require().NoError(err)
	suite.True(captured.Amount.Equal(decimal.NewFromInt(500)))
	suite.Equal("EMI Overdue", captured.Reason)
	suite.Equal(domain.StatusOverdue, updated.Status)
	suite.True(updated.TotalPenalty.Equal(decimal.NewFromInt(500)))
}

// --- Owner scoping ---

func (suite *LoanServiceTestSuite) TestGetLoanByID_OwnerScopeHidesForeignLoans() {
	ctx := context.Background()
	loan := storedLoan(domain.StatusActive) // owned by SHARMA-ELECTRONICS-0001
	otherSk := &domain.Shopkeeper{ShopkeeperID: "GUPTA-MOBILES-0002", UserID: suite.shopkeeper.UserID}

	suite.mockLoanRepo.On("FindLoanByID", ctx, loan.ID).Return(loan, nil).Once()
	suite.mockShopkeeperRepo.On("FindShopkeeperByUserID", ctx, suite.shopkeeper.UserID).Return(otherSk, nil).Once()

	got, err := suite.service.GetLoanByID(ctx, loan.ID, suite.shopkeeper)

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
	suite.Require().ErrorIs(err, services.ErrNotLoanOwner)
	suite.Nil(got)
}

func (suite *LoanServiceTestSuite) TestListLoans_OwnerScopeSetsFilter() {
	ctx := context.Background()
	sk := &domain.Shopkeeper{ShopkeeperID: "SHARMA-ELECTRONICS-0001", UserID: suite.shopkeeper.UserID}

	suite.mockShopkeeperRepo.On("FindShopkeeperByUserID", ctx, suite.shopkeeper.UserID).Return(sk, nil).Once()
	suite.mockLoanRepo.On("ListLoans", ctx, mock.MatchedBy(func(f portsrepo.LoanListFilter) bool {
		return f.OwnerID == sk.ShopkeeperID && f.Limit == 20
	})).Return([]domain.Loan{*storedLoan(domain.StatusActive)}, int64(1), nil).Once()

	resp, err := suite.service.ListLoans(ctx, dto.ListLoansParams{}, suite.shopkeeper)

	suite.Require().NoError(err)
	suite.Equal(int64(1), resp.Total)
	suite.Require().Len(resp.Loans, 1)
	suite.Equal("Ravi Kumar", resp.Loans[0].CustomerName, "legacy alias projected from applicant")
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

// --- Statistics ---

func (suite *LoanServiceTestSuite) TestGetStatistics() {
	ctx := context.Background()

	counts := map[domain.LoanStatus]int64{
		domain.StatusActive:  7,
		domain.StatusOverdue: 2,
		domain.StatusPaid:    5,
	}
	suite.mockLoanRepo.On("CountLoansByStatus", ctx, "").Return(counts, nil).Once()
	suite.mockLoanRepo.On("SumOutstanding", ctx, "").Return(decimal.NewFromInt(480000), decimal.NewFromInt(3500), nil).Once()
	suite.mockLoanRepo.On("SumPaymentsByMode", ctx, "").Return(map[domain.PaymentMode]decimal.Decimal{
		domain.PaymentCash: decimal.NewFromInt(21000),
		domain.PaymentUPI:  decimal.NewFromInt(14000),
	}, nil).Once()

	stats, err := suite.service.GetStatistics(ctx, suite.admin)

	suite.Require().NoError(err)
	suite.Equal(int64(14), stats.TotalLoans)
	suite.Equal(int64(7), stats.ActiveLoans)
	suite.Equal(int64(2), stats.OverdueLoans)
	suite.True(stats.TotalDisbursed.Equal(decimal.NewFromInt(480000)))
	suite.True(stats.TotalPenalties.Equal(decimal.NewFromInt(3500)))
	suite.True(stats.TotalCollected.Equal(decimal.NewFromInt(35000)))
	suite.True(stats.CollectedByMode[string(domain.PaymentUPI)].Equal(decimal.NewFromInt(14000)))
}

func (suite *LoanServiceTestSuite) TestGetStatistics_OwnerScopedForShopkeeper() {
	ctx := context.Background()
	sk := &domain.Shopkeeper{ShopkeeperID: "SHARMA-ELECTRONICS-0001", UserID: suite.shopkeeper.UserID}

	suite.mockShopkeeperRepo.On("FindShopkeeperByUserID", ctx, suite.shopkeeper.UserID).Return(sk, nil).Once()
	suite.mockLoanRepo.On("CountLoansByStatus", ctx, sk.ShopkeeperID).
		Return(map[domain.LoanStatus]int64{domain.StatusActive: 3}, nil).Once()
	suite.mockLoanRepo.On("SumOutstanding", ctx, sk.ShopkeeperID).
		Return(decimal.NewFromInt(90000), decimal.NewFromInt(500), nil).Once()
	suite.mockLoanRepo.On("SumPaymentsByMode", ctx, sk.ShopkeeperID).
		Return(map[domain.PaymentMode]decimal.Decimal{domain.PaymentCash: decimal.NewFromInt(9000)}, nil).Once()

	stats, err := suite.service.GetStatistics(ctx, suite.shopkeeper)

	suite.Require().NoError(err)
	suite.Equal(int64(3), stats.TotalLoans)
	suite.True(stats.TotalDisbursed.Equal(decimal.NewFromInt(90000)))
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

// --- DeleteLoan ---

func (suite *LoanServiceTestSuite) TestDeleteLoan_Authorization() {
	ctx := context.Background()

	err := suite.service.DeleteLoan(ctx, "loan-uuid-1", suite.collector)
	suite.Require().ErrorIs(err, apperrors.ErrForbidden)

	loan := storedLoan(domain.StatusPending)
	suite.mockLoanRepo.On("FindLoanByID", ctx, loan.ID).Return(loan, nil).Once()
	suite.mockLoanRepo.On("DeleteLoan", ctx, loan.ID, suite.admin.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err = suite.service.DeleteLoan(ctx, loan.ID, suite.admin)
	suite.Require().NoError(err)
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestDeleteLoan_OwningShopkeeper() {
	ctx := context.Background()
	loan := storedLoan(domain.StatusPending)
	owner := &domain.Shopkeeper{ShopkeeperID: loan.ShopkeeperID, UserID: suite.shopkeeper.UserID}

	suite.mockLoanRepo.On("FindLoanByID", ctx, loan.ID).Return(loan, nil).Once()
	suite.mockShopkeeperRepo.On("FindShopkeeperByUserID", ctx, suite.shopkeeper.UserID).Return(owner, nil).Once()
	suite.mockLoanRepo.On("DeleteLoan", ctx, loan.ID, suite.shopkeeper.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	suite.Require().NoError(suite.service.DeleteLoan(ctx, loan.ID, suite.shopkeeper))
}

func (suite *LoanServiceTestSuite) TestDeleteLoan_ForeignShopkeeperForbidden() {
	ctx := context.Background()
	loan := storedLoan(domain.StatusPending)
	other := &domain.Shopkeeper{ShopkeeperID: "GUPTA-MOBILES-0002", UserID: suite.shopkeeper.UserID}

	suite.mockLoanRepo.On("FindLoanByID", ctx, loan.ID).Return(loan, nil).Once()
	suite.mockShopkeeperRepo.On("FindShopkeeperByUserID", ctx, suite.shopkeeper.UserID).Return(other, nil).Once()

	err := suite.service.DeleteLoan(ctx, loan.ID, suite.shopkeeper)
	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "DeleteLoan", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Run Suite ---

func TestLoanServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LoanServiceTestSuite))
}
