package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/maxborn/loan_management_app/internal/core/domain"
)

// LoanListFilter narrows ListLoans. Zero values mean "no filter"; OwnerID is
// set for owner-scoped roles so the repository never returns another
// shopkeeper's loans.
type LoanListFilter struct {
	Status    domain.LoanStatus
	KYCStatus domain.KYCStatus
	OwnerID   string
	Limit     int
	Offset    int
}

// LoanReader defines read operations for loan data
type LoanReader interface {
	// FindLoanByID retrieves a loan with its full payment and penalty ledger
	// by either the surrogate id or the human-readable loan id.
	FindLoanByID(ctx context.Context, id string) (*domain.Loan, error)

	// ListLoans retrieves a filtered, paginated page of loans plus the total
	// count matching the filter (ignoring pagination).
	ListLoans(ctx context.Context, filter LoanListFilter) ([]domain.Loan, int64, error)

	// CountLoansByStatus returns the number of loans per lifecycle status.
	// An empty ownerID counts the whole book; otherwise only that
	// shopkeeper's loans are counted.
	CountLoansByStatus(ctx context.Context, ownerID string) (map[domain.LoanStatus]int64, error)

	// SumOutstanding returns aggregate figures for the statistics endpoint:
	// total disbursed principal and total accumulated penalties.
	SumOutstanding(ctx context.Context, ownerID string) (disbursed decimal.Decimal, penalties decimal.Decimal, err error)

	// SumPaymentsByMode returns the total amount collected per payment mode.
	SumPaymentsByMode(ctx context.Context, ownerID string) (map[domain.PaymentMode]decimal.Decimal, error)
}

// LoanWriter defines write operations for loan data
type LoanWriter interface {
	// SaveLoan persists a new loan application.
	SaveLoan(ctx context.Context, loan domain.Loan) error

	// UpdateLoan updates a loan's mutable fields. The update only applies
	// when the stored version equals expectedVersion; otherwise it returns
	// apperrors.ErrConflict and the caller reloads and retries.
	UpdateLoan(ctx context.Context, loan domain.Loan, expectedVersion int64) error

	// DeleteLoan removes a loan and its ledger entries.
	DeleteLoan(ctx context.Context, id string, deletedBy string, now time.Time) error
}

// LoanLedgerWriter appends ledger entries. Both methods persist the entry and
// the loan's recomputed counters/status in a single database transaction,
// guarded by the loan's version.
type LoanLedgerWriter interface {
	// AppendPayment inserts the payment entry and updates the loan row.
	AppendPayment(ctx context.Context, loan domain.Loan, entry domain.PaymentEntry, expectedVersion int64) error

	// AppendPenalty inserts the penalty entry and updates the loan row.
	AppendPenalty(ctx context.Context, loan domain.Loan, entry domain.PenaltyEntry, expectedVersion int64) error
}

// LoanRepositoryFacade combines all loan-related repository interfaces
// This is a facade for clients that need access to all operations
type LoanRepositoryFacade interface {
	LoanReader
	LoanWriter
	LoanLedgerWriter
}

// LoanRepositoryWithTx extends LoanRepositoryFacade with transaction capabilities
type LoanRepositoryWithTx interface {
	LoanRepositoryFacade
	TransactionManager
}
