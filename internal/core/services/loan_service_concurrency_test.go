package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxborn/loan_management_app/internal/apperrors"
	"github.com/maxborn/loan_management_app/internal/core/domain"
	portsrepo "github.com/maxborn/loan_management_app/internal/core/ports/repositories"
	"github.com/maxborn/loan_management_app/internal/core/services"
	"github.com/maxborn/loan_management_app/internal/dto"
	"github.com/maxborn/loan_management_app/internal/platform/config"
)

// memoryLoanRepository is a mutex-guarded store with the same version-check
// write semantics as the pgsql repository. It lets concurrency tests run
// real goroutines against shared state instead of scripted mock returns.
type memoryLoanRepository struct {
	mu    sync.Mutex
	loans map[string]domain.Loan
}

func newMemoryLoanRepository() *memoryLoanRepository {
	return &memoryLoanRepository{loans: make(map[string]domain.Loan)}
}

var _ portsrepo.LoanRepositoryFacade = (*memoryLoanRepository)(nil)

func (r *memoryLoanRepository) FindLoanByID(ctx context.Context, id string) (*domain.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.loans[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := stored
	out.Payments = append([]domain.PaymentEntry(nil), stored.Payments...)
	out.Penalties = append([]domain.PenaltyEntry(nil), stored.Penalties...)
	return &out, nil
}

func (r *memoryLoanRepository) ListLoans(ctx context.Context, filter portsrepo.LoanListFilter) ([]domain.Loan, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Loan, 0, len(r.loans))
	for _, l := range r.loans {
		out = append(out, l)
	}
	return out, int64(len(out)), nil
}

func (r *memoryLoanRepository) CountLoansByStatus(ctx context.Context, ownerID string) (map[domain.LoanStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[domain.LoanStatus]int64)
	for _, l := range r.loans {
		counts[l.Status]++
	}
	return counts, nil
}

func (r *memoryLoanRepository) SumOutstanding(ctx context.Context, ownerID string) (decimal.Decimal, decimal.Decimal, error) {
	return decimal.Zero, decimal.Zero, nil
}

func (r *memoryLoanRepository) SumPaymentsByMode(ctx context.Context, ownerID string) (map[domain.PaymentMode]decimal.Decimal, error) {
	return map[domain.PaymentMode]decimal.Decimal{}, nil
}

func (r *memoryLoanRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loans[loan.ID] = loan
	return nil
}

func (r *memoryLoanRepository) UpdateLoan(ctx context.Context, loan domain.Loan, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.storeVersioned(loan, expectedVersion)
}

func (r *memoryLoanRepository) DeleteLoan(ctx context.Context, id string, deletedBy string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.loans[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.loans, id)
	return nil
}

func (r *memoryLoanRepository) AppendPayment(ctx context.Context, loan domain.Loan, entry domain.PaymentEntry, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.loans[loan.ID]
	if !ok {
		return apperrors.ErrNotFound
	}
	loan.Payments = append(append([]domain.PaymentEntry(nil), stored.Payments...), entry)
	return r.storeVersioned(loan, expectedVersion)
}

func (r *memoryLoanRepository) AppendPenalty(ctx context.Context, loan domain.Loan, entry domain.PenaltyEntry, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.loans[loan.ID]
	if !ok {
		return apperrors.ErrNotFound
	}
	loan.Penalties = append(append([]domain.PenaltyEntry(nil), stored.Penalties...), entry)
	return r.storeVersioned(loan, expectedVersion)
}

// storeVersioned applies the write only when the stored version still matches,
// mirroring the repository's "WHERE version = $n" guard. Callers hold r.mu.
func (r *memoryLoanRepository) storeVersioned(loan domain.Loan, expectedVersion int64) error {
	stored, ok := r.loans[loan.ID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if stored.Version != expectedVersion {
		return apperrors.ErrConflict
	}
	loan.Version = expectedVersion + 1
	r.loans[loan.ID] = loan
	return nil
}

func TestCollectPayment_ConcurrentCollectionsBothApplied(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryLoanRepository()
	loan := storedLoan(domain.StatusActive)
	require.NoError(t, repo.SaveLoan(ctx, *loan))

	cfg := &config.Config{
		DefaultInterestRate:  decimal.NewFromFloat(0.0375),
		DefaultTenureMonths:  12,
		DefaultPenaltyAmount: decimal.NewFromInt(500),
	}
	svc := services.NewLoanService(repo, new(MockShopkeeperRepository), new(MockCustomerRepository), new(MockDispatcher), cfg)
	collector := domain.Actor{UserID: "collector-1", FullName: "Collections Agent", Role: domain.RoleCollections}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := dto.CollectPaymentRequest{Amount: decimal.NewFromInt(3500), PaymentMode: domain.PaymentCash}
			_, errs[i] = svc.CollectPayment(ctx, loan.ID, req, collector)
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	stored, err := repo.FindLoanByID(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.EMIsPaid, "both collections must land")
	assert.Equal(t, 10, stored.EMIsRemaining, "no decrement may be lost")
	assert.Equal(t, stored.Tenure, stored.EMIsPaid+stored.EMIsRemaining)
	assert.Len(t, stored.Payments, 2)
	assert.Equal(t, int64(3), stored.Version, "each write bumps the version once")
}
