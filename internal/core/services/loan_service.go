package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/maxborn/loan_management_app/internal/apperrors"
	"github.com/maxborn/loan_management_app/internal/core/domain"
	portsrepo "github.com/maxborn/loan_management_app/internal/core/ports/repositories"
	portssvc "github.com/maxborn/loan_management_app/internal/core/ports/services"
	"github.com/maxborn/loan_management_app/internal/dto"
	"github.com/maxborn/loan_management_app/internal/middleware"
	"github.com/maxborn/loan_management_app/internal/platform/config"
	"github.com/maxborn/loan_management_app/internal/utils"
)

var (
	ErrLoanNotPayable     = errors.New("loan is not in a payable status")
	ErrNothingOutstanding = errors.New("loan has no installments remaining")
	ErrNotLoanOwner       = errors.New("loan belongs to a different shopkeeper")
)

// conflictRetries bounds the reload-and-retry loop on concurrent writes to
// the same loan. Contention on a single loan is rare (two collectors at the
// same counter), so a small number is plenty.
const conflictRetries = 3

// loanService provides the loan lifecycle, ledger and reporting operations.
type loanService struct {
	loanRepo       portsrepo.LoanRepositoryFacade
	shopkeeperRepo portsrepo.ShopkeeperRepositoryFacade
	customerRepo   portsrepo.CustomerRepositoryFacade
	dispatcher     portssvc.NotificationDispatcher
	cfg            *config.Config
}

// NewLoanService creates a new LoanService.
func NewLoanService(loanRepo portsrepo.LoanRepositoryFacade, shopkeeperRepo portsrepo.ShopkeeperRepositoryFacade, customerRepo portsrepo.CustomerRepositoryFacade, dispatcher portssvc.NotificationDispatcher, cfg *config.Config) portssvc.LoanSvcFacade {
	return &loanService{
		loanRepo:       loanRepo,
		shopkeeperRepo: shopkeeperRepo,
		customerRepo:   customerRepo,
		dispatcher:     dispatcher,
		cfg:            cfg,
	}
}

// Ensure loanService implements the portssvc.LoanSvcFacade interface
var _ portssvc.LoanSvcFacade = (*loanService)(nil)

// CreateLoan validates and persists a new loan application.
// Implements portssvc.LoanSvcFacade
func (s *loanService) CreateLoan(ctx context.Context, req dto.CreateLoanRequest, actor domain.Actor) (*domain.Loan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()

	// --- Financial defaults ---
	loanAmount := req.Product.Price.Sub(req.Product.DownPayment)
	if req.LoanAmount != nil {
		loanAmount = *req.LoanAmount
	}
	if loanAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: loan amount must be positive (price %s, down payment %s)", apperrors.ErrValidation, req.Product.Price, req.Product.DownPayment)
	}

	interestRate := s.cfg.DefaultInterestRate
	if req.InterestRate != nil {
		interestRate = *req.InterestRate
	}
	if interestRate.IsNegative() {
		return nil, fmt.Errorf("%w: interest rate must not be negative", apperrors.ErrValidation)
	}

	tenure := s.cfg.DefaultTenureMonths
	if req.Tenure != nil {
		tenure = *req.Tenure
	}
	if tenure <= 0 {
		return nil, fmt.Errorf("%w: tenure must be positive", apperrors.ErrValidation)
	}

	emiAmount := flatRateEMI(loanAmount, interestRate, tenure)
	if req.EMIAmount != nil {
		emiAmount = *req.EMIAmount
	}

	applicationMode := req.ApplicationMode
	if applicationMode == "" {
		applicationMode = domain.ApplicationGroup
	}

	// --- Token deduction for shopkeeper submissions ---
	// The deduction is the write that gates creation: if the balance does
	// not cover it, the application is refused before anything is stored.
	var shopkeeperID string
	if actor.Role.IsOwnerScoped() {
		sk, err := s.shopkeeperRepo.FindShopkeeperByUserID(ctx, actor.UserID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: no shopkeeper record for user %s", apperrors.ErrForbidden, actor.UserID)
			}
			return nil, fmt.Errorf("failed to resolve shopkeeper: %w", err)
		}
		if err := s.shopkeeperRepo.DeductTokens(ctx, sk.ShopkeeperID, 1); err != nil {
			if errors.Is(err, apperrors.ErrInsufficientBalance) {
				logger.Warn("Loan application refused, token balance exhausted",
					slog.String("shopkeeper_id", sk.ShopkeeperID))
			}
			return nil, err
		}
		shopkeeperID = sk.ShopkeeperID
	}

	loan := domain.Loan{
		ID:     uuid.NewString(),
		LoanID: utils.GenerateLoanID(now),
		Applicant: domain.Applicant{
			Name:               strings.TrimSpace(req.Name),
			Phone:              req.Phone,
			AadharNumber:       req.AadharNumber,
			PanNumber:          req.PanNumber,
			Address:            utils.FormatAddress(req.Address.HouseNo, req.Address.GaliNo, req.Address.Colony, req.Address.City, req.Address.State, req.Address.Pincode),
			FatherOrSpouseName: req.FatherOrSpouseName,
			Gender:             req.Gender,
			WorkingAddress:     req.WorkingAddress,
			Photo:              req.Photo,
			AadhaarFrontImage:  req.AadhaarFrontImage,
			AadhaarBackImage:   req.AadhaarBackImage,
			PanFrontImage:      req.PanFrontImage,
		},
		Guarantor: guarantorFromInput(req.Guarantor),
		Product: domain.Product{
			Category:     req.Product.Category,
			Name:         req.Product.Name,
			Company:      req.Product.Company,
			Price:        req.Product.Price,
			SerialNumber: req.Product.SerialNumber,
			Image:        req.Product.Image,
			DownPayment:  req.Product.DownPayment,
			FileCharge:   req.Product.FileCharge,
		},
		Bank: domain.BankDetails{
			BankName:      req.Bank.BankName,
			AccountNumber: req.Bank.AccountNumber,
			IFSCCode:      req.Bank.IFSCCode,
			BranchName:    req.Bank.BranchName,
			PaymentMode:   req.Bank.PaymentMode,
			PassbookImage: req.Bank.PassbookImage,
		},
		LoanAmount:      loanAmount,
		InterestRate:    interestRate,
		Tenure:          tenure,
		EMIAmount:       emiAmount,
		Status:          domain.StatusPending,
		KYCStatus:       domain.KYCPending,
		AppliedDate:     domain.DateStamp(now),
		EMIStartDate:    req.EMIStartDate,
		EMIsPaid:        0,
		EMIsRemaining:   tenure,
		TotalPenalty:    decimal.Zero,
		ShopkeeperID:    shopkeeperID,
		CustomerID:      req.CustomerID,
		SubmittedBy:     actor.UserID,
		ApplicationMode: applicationMode,
		Version:         1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}

	err := s.loanRepo.SaveLoan(ctx, loan)
	if errors.Is(err, apperrors.ErrDuplicate) {
		// Same-millisecond loan id collision; regenerate once.
		loan.LoanID = utils.GenerateLoanID(time.Now())
		err = s.loanRepo.SaveLoan(ctx, loan)
	}
	if err != nil {
		// Refund the token when persistence fails after deduction.
		if shopkeeperID != "" {
			if refundErr := s.shopkeeperRepo.AddTokens(ctx, shopkeeperID, 1); refundErr != nil {
				logger.Error("Failed to refund application token after save failure",
					slog.String("shopkeeper_id", shopkeeperID),
					slog.String("error", refundErr.Error()))
			}
		}
		return nil, fmt.Errorf("failed to save loan: %w", err)
	}

	logger.Info("Loan application created",
		slog.String("loan_id", loan.LoanID),
		slog.String("applicant", loan.Applicant.Name),
		slog.String("submitted_by", actor.UserID))

	s.dispatcher.Enqueue(domain.Notification{
		Type:       domain.NotificationNewLoanApplication,
		Title:      "New Loan Application",
		Message:    fmt.Sprintf("New loan application from %s (Loan ID: %s)", loan.Applicant.Name, loan.LoanID),
		Severity:   domain.SeverityMedium,
		TargetRole: domain.RoleVerifier,
		LoanID:     loan.LoanID,
		ClientName: loan.Applicant.Name,
		ClientID:   loan.Applicant.Phone,
		LoanAmount: loan.LoanAmount,
	})

	return &loan, nil
}

// GetLoanByID retrieves a loan, enforcing owner scoping for shopkeepers.
// Implements portssvc.LoanSvcFacade
func (s *loanService) GetLoanByID(ctx context.Context, id string, actor domain.Actor) (*domain.Loan, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role.IsOwnerScoped() {
		sk, err := s.shopkeeperRepo.FindShopkeeperByUserID(ctx, actor.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve shopkeeper: %w", err)
		}
		if !loan.OwnedBy(sk.ShopkeeperID) {
			return nil, fmt.Errorf("%w: %w: loan %s", apperrors.ErrForbidden, ErrNotLoanOwner, id)
		}
	}
	return loan, nil
}

// ListLoans retrieves a filtered, paginated list of loans visible to the actor.
// Implements portssvc.LoanSvcFacade
func (s *loanService) ListLoans(ctx context.Context, params dto.ListLoansParams, actor domain.Actor) (*dto.ListLoansResponse, error) {
	filter := portsrepo.LoanListFilter{
		Status:    domain.LoanStatus(params.Status),
		KYCStatus: domain.KYCStatus(params.KYCStatus),
		Limit:     params.Limit,
		Offset:    params.Offset,
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	if actor.Role.IsOwnerScoped() {
		sk, err := s.shopkeeperRepo.FindShopkeeperByUserID(ctx, actor.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve shopkeeper: %w", err)
		}
		filter.OwnerID = sk.ShopkeeperID
	}

	loans, total, err := s.loanRepo.ListLoans(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	return dto.ToListLoansResponse(loans, total, filter.Limit, filter.Offset), nil
}

// UpdateStatus performs a direct lifecycle transition (verify/approve/reject).
// Implements portssvc.LoanSvcFacade
func (s *loanService) UpdateStatus(ctx context.Context, id string, req dto.UpdateLoanStatusRequest, actor domain.Actor) (*domain.Loan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.Role.CanReview() {
		return nil, fmt.Errorf("%w: role %s may not change loan status", apperrors.ErrForbidden, actor.Role)
	}
	if req.Status == domain.StatusRejected && strings.TrimSpace(req.Comment) == "" {
		logger.Warn("Loan rejected without a reason", slog.String("loan_id", id))
	}

	var result *domain.Loan
	err := s.withConflictRetry(ctx, func() error {
		loan, err := s.loanRepo.FindLoanByID(ctx, id)
		if err != nil {
			return err
		}
		notifs, err := domain.ApplyStatusChange(loan, req.Status, strings.TrimSpace(req.Comment), actor, time.Now().UTC())
		if err != nil {
			return err
		}
		if err := s.loanRepo.UpdateLoan(ctx, *loan, loan.Version); err != nil {
			return err
		}
		loan.Version++
		s.dispatcher.Enqueue(notifs...)
		result = loan
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Loan status updated",
		slog.String("loan_id", result.LoanID),
		slog.String("status", string(result.Status)),
		slog.String("updated_by", actor.UserID))
	return result, nil
}

// UpdateKYCStatus sets the identity-verification status independently of the
// loan lifecycle.
// Implements portssvc.LoanSvcFacade
func (s *loanService) UpdateKYCStatus(ctx context.Context, id string, req dto.UpdateKYCRequest, actor domain.Actor) (*domain.Loan, error) {
	if !actor.Role.CanReview() {
		return nil, fmt.Errorf("%w: role %s may not change KYC status", apperrors.ErrForbidden, actor.Role)
	}

	var result *domain.Loan
	err := s.withConflictRetry(ctx, func() error {
		loan, err := s.loanRepo.FindLoanByID(ctx, id)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		loan.KYCStatus = req.KYCStatus
		loan.KYCVerifiedBy = actor.UserID
		loan.KYCVerifiedDate = domain.DateStamp(now)
		loan.LastUpdatedAt = now
		loan.LastUpdatedBy = actor.UserID
		if err := s.loanRepo.UpdateLoan(ctx, *loan, loan.Version); err != nil {
			return err
		}
		loan.Version++
		result = loan
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SetNextDueDate records the next installment due date.
// Implements portssvc.LoanSvcFacade
func (s *loanService) SetNextDueDate(ctx context.Context, id string, req dto.SetNextDueDateRequest, actor domain.Actor) (*domain.Loan, error) {
	if !actor.Role.CanCollect() {
		return nil, fmt.Errorf("%w: role %s may not set due dates", apperrors.ErrForbidden, actor.Role)
	}

	var result *domain.Loan
	err := s.withConflictRetry(ctx, func() error {
		loan, err := s.loanRepo.FindLoanByID(ctx, id)
		if err != nil {
			return err
		}
		if loan.Status.IsTerminal() {
			return fmt.Errorf("%w: loan %s is %s", apperrors.ErrInvalidTransition, id, loan.Status)
		}
		now := time.Now().UTC()
		loan.NextDueDate = req.NextDueDate
		loan.LastUpdatedAt = now
		loan.LastUpdatedBy = actor.UserID
		if err := s.loanRepo.UpdateLoan(ctx, *loan, loan.Version); err != nil {
			return err
		}
		loan.Version++
		result = loan
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CollectPayment records an EMI installment against the loan.
// Implements portssvc.LoanSvcFacade
func (s *loanService) CollectPayment(ctx context.Context, id string, req dto.CollectPaymentRequest, actor domain.Actor) (*domain.Loan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.Role.CanCollect() {
		return nil, fmt.Errorf("%w: role %s may not collect payments", apperrors.ErrForbidden, actor.Role)
	}

	var result *domain.Loan
	err := s.withConflictRetry(ctx, func() error {
		loan, err := s.loanRepo.FindLoanByID(ctx, id)
		if err != nil {
			return err
		}
		if !loan.Status.IsPayable() {
			return fmt.Errorf("%w: %w: loan %s is %s", apperrors.ErrInvalidTransition, ErrLoanNotPayable, loan.LoanID, loan.Status)
		}
		if loan.EMIsRemaining <= 0 {
			return fmt.Errorf("%w: %w: loan %s", apperrors.ErrInvalidTransition, ErrNothingOutstanding, loan.LoanID)
		}

		now := time.Now().UTC()
		paymentDate := req.PaymentDate
		if paymentDate == "" {
			paymentDate = domain.DateStamp(now)
		}
		penalty := decimal.Zero
		if req.Penalty != nil {
			penalty = *req.Penalty
		}

		entry := domain.PaymentEntry{
			EntryID:       uuid.NewString(),
			LoanID:        loan.ID,
			Amount:        req.Amount,
			PaymentMode:   req.PaymentMode,
			PaymentDate:   paymentDate,
			CollectedBy:   actor.FullName,
			TransactionID: req.TransactionID,
			PaymentProof:  req.PaymentProof,
			Penalty:       penalty,
			CreatedAt:     now,
		}

		expectedVersion := loan.Version
		if err := loan.RecordPayment(entry, now); err != nil {
			return err
		}
		loan.LastUpdatedBy = actor.UserID
		if err := s.loanRepo.AppendPayment(ctx, *loan, entry, expectedVersion); err != nil {
			return err
		}
		loan.Version++
		result = loan
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Payment collected",
		slog.String("loan_id", result.LoanID),
		slog.String("amount", req.Amount.String()),
		slog.String("status", string(result.Status)),
		slog.String("collected_by", actor.UserID))
	return result, nil
}

// ApplyPenalty records a late fee against the loan.
// Implements portssvc.LoanSvcFacade
func (s *loanService) ApplyPenalty(ctx context.Context, id string, req dto.ApplyPenaltyRequest, actor domain.Actor) (*domain.Loan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.Role.CanCollect() {
		return nil, fmt.Errorf("%w: role %s may not apply penalties", apperrors.ErrForbidden, actor.Role)
	}

	amount := s.cfg.DefaultPenaltyAmount
	if req.Amount != nil {
		amount = *req.Amount
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = domain.DefaultPenaltyReason
	}

	var result *domain.Loan
	err := s.withConflictRetry(ctx, func() error {
		loan, err := s.loanRepo.FindLoanByID(ctx, id)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		entry := domain.PenaltyEntry{
			EntryID:     uuid.NewString(),
			LoanID:      loan.ID,
			Amount:      amount,
			Reason:      reason,
			AppliedDate: domain.DateStamp(now),
			CreatedAt:   now,
		}

		expectedVersion := loan.Version
		if err := loan.RecordPenalty(entry, now); err != nil {
			return err
		}
		loan.LastUpdatedBy = actor.UserID
		if err := s.loanRepo.AppendPenalty(ctx, *loan, entry, expectedVersion); err != nil {
			return err
		}
		loan.Version++
		result = loan
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Penalty applied",
		slog.String("loan_id", result.LoanID),
		slog.String("amount", amount.String()),
		slog.String("reason", reason))
	return result, nil
}

// DeleteLoan removes a loan application. Permitted for admins and for the
// shopkeeper that submitted the loan.
// Implements portssvc.LoanSvcFacade
func (s *loanService) DeleteLoan(ctx context.Context, id string, actor domain.Actor) error {
	if actor.Role != domain.RoleAdmin && !actor.Role.IsOwnerScoped() {
		return fmt.Errorf("%w: only admins or the owning shopkeeper may delete loans", apperrors.ErrForbidden)
	}
	loan, err := s.loanRepo.FindLoanByID(ctx, id)
	if err != nil {
		return err
	}
	if actor.Role.IsOwnerScoped() {
		sk, err := s.shopkeeperRepo.FindShopkeeperByUserID(ctx, actor.UserID)
		if err != nil {
			return fmt.Errorf("failed to resolve shopkeeper: %w", err)
		}
		if !loan.OwnedBy(sk.ShopkeeperID) {
			return fmt.Errorf("%w: %w: loan %s", apperrors.ErrForbidden, ErrNotLoanOwner, id)
		}
	}
	return s.loanRepo.DeleteLoan(ctx, loan.ID, actor.UserID, time.Now().UTC())
}

// GetStatistics returns dashboard aggregates over the loan book. Owner-scoped
// roles see aggregates over their own loans only.
// Implements portssvc.LoanSvcFacade
func (s *loanService) GetStatistics(ctx context.Context, actor domain.Actor) (*dto.LoanStatisticsResponse, error) {
	var ownerID string
	if actor.Role.IsOwnerScoped() {
		sk, err := s.shopkeeperRepo.FindShopkeeperByUserID(ctx, actor.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve shopkeeper: %w", err)
		}
		ownerID = sk.ShopkeeperID
	}

	counts, err := s.loanRepo.CountLoansByStatus(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count loans: %w", err)
	}
	disbursed, penalties, err := s.loanRepo.SumOutstanding(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate loan amounts: %w", err)
	}
	byMode, err := s.loanRepo.SumPaymentsByMode(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate payments: %w", err)
	}

	resp := &dto.LoanStatisticsResponse{
		ByStatus:        make(map[string]int64, len(counts)),
		TotalDisbursed:  disbursed,
		TotalPenalties:  penalties,
		CollectedByMode: make(map[string]decimal.Decimal, len(byMode)),
	}
	for status, n := range counts {
		resp.ByStatus[string(status)] = n
		resp.TotalLoans += n
	}
	for mode, total := range byMode {
		resp.CollectedByMode[string(mode)] = total
		resp.TotalCollected = resp.TotalCollected.Add(total)
	}
	resp.ActiveLoans = counts[domain.StatusActive]
	resp.OverdueLoans = counts[domain.StatusOverdue]
	return resp, nil
}

// withConflictRetry runs fn, reloading and retrying when a concurrent write
// bumped the loan's version between our read and our write.
func (s *loanService) withConflictRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < conflictRetries; attempt++ {
		err = fn()
		if err == nil || !errors.Is(err, apperrors.ErrConflict) {
			return err
		}
	}
	return fmt.Errorf("loan was modified concurrently, giving up after %d attempts: %w", conflictRetries, err)
}

// flatRateEMI computes the monthly installment under flat-rate interest:
// principal spread over the tenure plus the fixed monthly interest charge.
func flatRateEMI(principal, monthlyRate decimal.Decimal, tenure int) decimal.Decimal {
	months := decimal.NewFromInt(int64(tenure))
	return principal.Div(months).Add(principal.Mul(monthlyRate)).Round(2)
}

func guarantorFromInput(in *dto.GuarantorInput) *domain.Guarantor {
	if in == nil {
		return nil
	}
	g := &domain.Guarantor{
		Name:              in.Name,
		Phone:             in.Phone,
		Email:             in.Email,
		AadharNumber:      in.AadharNumber,
		Relationship:      in.Relationship,
		Gender:            in.Gender,
		WorkingAddress:    in.WorkingAddress,
		Photo:             in.Photo,
		AadhaarFrontImage: in.AadhaarFrontImage,
		AadhaarBackImage:  in.AadhaarBackImage,
		PanImage:          in.PanImage,
		ReferenceName:     in.ReferenceName,
		ReferenceNumber:   in.ReferenceNumber,
	}
	if in.Address != nil {
		g.Address = utils.FormatAddress(in.Address.HouseNo, in.Address.GaliNo, in.Address.Colony, in.Address.City, in.Address.State, in.Address.Pincode)
	}
	return g
}
