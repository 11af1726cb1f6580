package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/maxborn/loan_management_app/internal/apperrors"
	"github.com/maxborn/loan_management_app/internal/core/domain"
	portssvc "github.com/maxborn/loan_management_app/internal/core/ports/services"
	"github.com/maxborn/loan_management_app/internal/dto"
	"github.com/maxborn/loan_management_app/internal/handlers"
	"github.com/maxborn/loan_management_app/internal/middleware"
	"github.com/maxborn/loan_management_app/internal/utils"
)

// --- Mock LoanService ---
type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) GetLoanByID(ctx context.Context, id string, actor domain.Actor) (*domain.Loan, error) {
	args := m.Called(ctx, id, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanService) ListLoans(ctx context.Context, params dto.ListLoansParams, actor domain.Actor) (*dto.ListLoansResponse, error) {
	args := m.Called(ctx, params, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListLoansResponse), args.Error(1)
}
func (m *MockLoanService) CreateLoan(ctx context.Context, req dto.CreateLoanRequest, actor domain.Actor) (*domain.Loan, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanService) UpdateStatus(ctx context.Context, id string, req dto.UpdateLoanStatusRequest, actor domain.Actor) (*domain.Loan, error) {
	args := m.Called(ctx, id, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanService) UpdateKYCStatus(ctx context.Context, id string, req dto.UpdateKYCRequest, actor domain.Actor) (*domain.Loan, error) {
	args := m.Called(ctx, id, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanService) SetNextDueDate(ctx context.Context, id string, req dto.SetNextDueDateRequest, actor domain.Actor) (*domain.Loan, error) {
	args := m.Called(ctx, id, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanService) DeleteLoan(ctx context.Context, id string, actor domain.Actor) error {
	args := m.Called(ctx, id, actor)
	return args.Error(0)
}
func (m *MockLoanService) CollectPayment(ctx context.Context, id string, req dto.CollectPaymentRequest, actor domain.Actor) (*domain.Loan, error) {
	args := m.Called(ctx, id, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanService) ApplyPenalty(ctx context.Context, id string, req dto.ApplyPenaltyRequest, actor domain.Actor) (*domain.Loan, error) {
	args := m.Called(ctx, id, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanService) GetStatistics(ctx context.Context, actor domain.Actor) (*dto.LoanStatisticsResponse, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LoanStatisticsResponse), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.LoanSvcFacade = (*MockLoanService)(nil)

// --- Test Suite ---
type LoanHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockLoanService *MockLoanService
	jwtSecret       string
}

func (suite *LoanHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockLoanService = new(MockLoanService)

	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(suite.jwtSecret))
	handlers.RegisterLoanRoutes(v1, suite.mockLoanService)
}

// generateTestToken creates a signed JWT for the given role.
func (suite *LoanHandlerTestSuite) generateTestToken(userID, fullName string, role domain.Role) string {
	token, err := utils.GenerateJWT(userID, fullName, string(role), suite.jwtSecret, time.Hour, "lma-test")
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return token
}

func (suite *LoanHandlerTestSuite) doRequest(method, url, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			suite.FailNow("Failed to encode request body", err.Error())
		}
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *LoanHandlerTestSuite) TestListLoans_Success() {
	expected := &dto.ListLoansResponse{
		Loans: []dto.LoanResponse{{ID: "loan-1", LoanID: "LN12345678", Status: "Active"}},
		Total: 1, Limit: 20, Offset: 0,
	}
	suite.mockLoanService.On("ListLoans",
		mock.Anything,
		mock.MatchedBy(func(p dto.ListLoansParams) bool { return p.Limit == 20 && p.Status == "" }),
		mock.MatchedBy(func(a domain.Actor) bool { return a.Role == domain.RoleCollections }),
	).Return(expected, nil).Once()

	token := suite.generateTestToken("user-1", "Collections One", domain.RoleCollections)
	w := suite.doRequest(http.MethodGet, "/api/v1/loans", token, nil)

	suite.Equal(http.StatusOK, w.Code)
	var got dto.ListLoansResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Len(got.Loans, 1)
	suite.Equal("LN12345678", got.Loans[0].LoanID)
	suite.mockLoanService.AssertExpectations(suite.T())
}

func (suite *LoanHandlerTestSuite) TestListLoans_NoToken() {
	w := suite.doRequest(http.MethodGet, "/api/v1/loans", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockLoanService.AssertNotCalled(suite.T(), "ListLoans")
}

func (suite *LoanHandlerTestSuite) TestGetLoan_NotFound() {
	suite.mockLoanService.On("GetLoanByID", mock.Anything, "LN00000000", mock.Anything).
		Return(nil, apperrors.ErrNotFound).Once()

	token := suite.generateTestToken("user-1", "Admin One", domain.RoleAdmin)
	w := suite.doRequest(http.MethodGet, "/api/v1/loans/LN00000000", token, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *LoanHandlerTestSuite) TestCreateLoan_ForbiddenForCollections() {
	token := suite.generateTestToken("user-1", "Collections One", domain.RoleCollections)
	w := suite.doRequest(http.MethodPost, "/api/v1/loans", token, gin.H{"customerName": "A"})

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockLoanService.AssertNotCalled(suite.T(), "CreateLoan")
}

func (suite *LoanHandlerTestSuite) TestCollectPayment_Success() {
	loan := &domain.Loan{
		ID: "loan-1", LoanID: "LN12345678",
		Status: domain.StatusActive, EMIsPaid: 3, EMIsRemaining: 9, Tenure: 12,
		LoanAmount: decimal.NewFromInt(40000),
	}
	suite.mockLoanService.On("CollectPayment",
		mock.Anything, "LN12345678",
		mock.MatchedBy(func(r dto.CollectPaymentRequest) bool {
			return r.Amount.Equal(decimal.NewFromInt(3500)) && r.PaymentMode == domain.PaymentUPI
		}),
		mock.MatchedBy(func(a domain.Actor) bool { return a.Role == domain.RoleCollections }),
	).Return(loan, nil).Once()

	token := suite.generateTestToken("user-1", "Collections One", domain.RoleCollections)
	w := suite.doRequest(http.MethodPost, "/api/v1/loans/LN12345678/payments", token, gin.H{
		"amount":      3500,
		"paymentMode": "upi",
	})

	suite.Equal(http.StatusOK, w.Code)
	var got dto.LoanResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal("LN12345678", got.LoanID)
	suite.Equal(9, got.EMIsRemaining)
	suite.mockLoanService.AssertExpectations(suite.T())
}

func (suite *LoanHandlerTestSuite) TestCollectPayment_ConflictAfterRetries() {
	suite.mockLoanService.On("CollectPayment", mock.Anything, "LN12345678", mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrConflict).Once()

	token := suite.generateTestToken("user-1", "Admin One", domain.RoleAdmin)
	w := suite.doRequest(http.MethodPost, "/api/v1/loans/LN12345678/payments", token, gin.H{
		"amount":      3500,
		"paymentMode": "cash",
	})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *LoanHandlerTestSuite) TestUpdateStatus_InvalidBody() {
	token := suite.generateTestToken("user-1", "Verifier One", domain.RoleVerifier)
	w := suite.doRequest(http.MethodPatch, "/api/v1/loans/LN12345678/status", token, gin.H{})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLoanService.AssertNotCalled(suite.T(), "UpdateStatus")
}

func (suite *LoanHandlerTestSuite) TestDeleteLoan_ForbiddenForVerifier() {
	token := suite.generateTestToken("user-1", "Verifier One", domain.RoleVerifier)
	w := suite.doRequest(http.MethodDelete, "/api/v1/loans/loan-1", token, nil)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockLoanService.AssertNotCalled(suite.T(), "DeleteLoan")
}

func (suite *LoanHandlerTestSuite) TestGetStatistics_Success() {
	stats := &dto.LoanStatisticsResponse{
		TotalLoans:  4,
		ByStatus:    map[string]int64{"Active": 2, "Paid": 1, "Pending": 1},
		ActiveLoans: 2,
	}
	suite.mockLoanService.On("GetStatistics", mock.Anything, mock.Anything).Return(stats, nil).Once()

	token := suite.generateTestToken("user-1", "Admin One", domain.RoleAdmin)
	w := suite.doRequest(http.MethodGet, "/api/v1/loans/statistics", token, nil)

	suite.Equal(http.StatusOK, w.Code)
	var got dto.LoanStatisticsResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal(int64(4), got.TotalLoans)
}

func TestLoanHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(LoanHandlerTestSuite))
}
