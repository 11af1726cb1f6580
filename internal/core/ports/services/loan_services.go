package services

import (
	"context"

	"github.com/maxborn/loan_management_app/internal/core/domain"
	"github.com/maxborn/loan_management_app/internal/dto"
)

// LoanReaderSvc defines read operations for loan data
type LoanReaderSvc interface {
	// GetLoanByID retrieves a loan by surrogate or human-readable id,
	// enforcing owner scoping for shopkeeper actors.
	GetLoanByID(ctx context.Context, id string, actor domain.Actor) (*domain.Loan, error)

	// ListLoans retrieves a filtered, paginated list of loans visible to
	// the actor.
	ListLoans(ctx context.Context, params dto.ListLoansParams, actor domain.Actor) (*dto.ListLoansResponse, error)
}

// LoanWriterSvc defines write operations for the loan lifecycle
type LoanWriterSvc interface {
	// CreateLoan validates and persists a new application, deducting one
	// token from the submitting shopkeeper when the actor is owner-scoped.
	CreateLoan(ctx context.Context, req dto.CreateLoanRequest, actor domain.Actor) (*domain.Loan, error)

	// UpdateStatus performs a direct lifecycle transition (verify, approve,
	// reject) with an optional reviewer comment.
	UpdateStatus(ctx context.Context, id string, req dto.UpdateLoanStatusRequest, actor domain.Actor) (*domain.Loan, error)

	// UpdateKYCStatus sets the identity-verification status independently of
	// the loan lifecycle.
	UpdateKYCStatus(ctx context.Context, id string, req dto.UpdateKYCRequest, actor domain.Actor) (*domain.Loan, error)

	// SetNextDueDate records the next installment due date.
	SetNextDueDate(ctx context.Context, id string, req dto.SetNextDueDateRequest, actor domain.Actor) (*domain.Loan, error)

	// DeleteLoan removes a loan application. Admin only.
	DeleteLoan(ctx context.Context, id string, actor domain.Actor) error
}

// LoanLedgerSvc defines the append-only ledger operations
type LoanLedgerSvc interface {
	// CollectPayment records an EMI installment against the loan, moving it
	// to Active or Paid. Retries internally on concurrent-write conflicts.
	CollectPayment(ctx context.Context, id string, req dto.CollectPaymentRequest, actor domain.Actor) (*domain.Loan, error)

	// ApplyPenalty records a late fee against the loan, moving an Active
	// loan to Overdue. Amount and reason fall back to configured defaults.
	ApplyPenalty(ctx context.Context, id string, req dto.ApplyPenaltyRequest, actor domain.Actor) (*domain.Loan, error)
}

// LoanStatisticsSvc defines aggregate reporting over the loan book
type LoanStatisticsSvc interface {
	// GetStatistics returns per-status counts and monetary aggregates for
	// the dashboard.
	GetStatistics(ctx context.Context, actor domain.Actor) (*dto.LoanStatisticsResponse, error)
}

// LoanSvcFacade combines all loan-related service interfaces
// This is a facade for clients that need access to all operations
type LoanSvcFacade interface {
	LoanReaderSvc
	LoanWriterSvc
	LoanLedgerSvc
	LoanStatisticsSvc
}
