package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/maxborn/loan_management_app/internal/apperrors"
	"github.com/maxborn/loan_management_app/internal/core/domain"
	portsrepo "github.com/maxborn/loan_management_app/internal/core/ports/repositories"
	"github.com/maxborn/loan_management_app/internal/models"
	"github.com/maxborn/loan_management_app/internal/utils/mapping"
)

type PgxLoanRepository struct {
	BaseRepository
}

func newPgxLoanRepository(db *pgxpool.Pool) portsrepo.LoanRepositoryWithTx {
	return &PgxLoanRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxLoanRepository implements portsrepo.LoanRepositoryWithTx
var _ portsrepo.LoanRepositoryWithTx = (*PgxLoanRepository)(nil)

const loanColumns = `
	id, loan_id, applicant, guarantor, product, bank,
	loan_amount, interest_rate, tenure, emi_amount,
	status, kyc_status,
	applied_date, emi_start_date, verified_date, approved_date, rejected_date,
	next_due_date, last_payment_date, kyc_verified_by, kyc_verified_date,
	verifier_comment, admin_comment, rejection_reason, status_comment, comment_date, updated_by,
	emis_paid, emis_remaining, total_penalty,
	shopkeeper_id, customer_id, submitted_by, application_mode,
	version, created_at, created_by, last_updated_at, last_updated_by`

func scanLoanRow(row pgx.Row) (models.Loan, error) {
	var m models.Loan
	err := row.Scan(
		&m.ID, &m.LoanID, &m.Applicant, &m.Guarantor, &m.Product, &m.Bank,
		&m.LoanAmount, &m.InterestRate, &m.Tenure, &m.EMIAmount,
		&m.Status, &m.KYCStatus,
		&m.AppliedDate, &m.EMIStartDate, &m.VerifiedDate, &m.ApprovedDate, &m.RejectedDate,
		&m.NextDueDate, &m.LastPaymentDate, &m.KYCVerifiedBy, &m.KYCVerifiedDate,
		&m.VerifierComment, &m.AdminComment, &m.RejectionReason, &m.StatusComment, &m.CommentDate, &m.UpdatedBy,
		&m.EMIsPaid, &m.EMIsRemaining, &m.TotalPenalty,
		&m.ShopkeeperID, &m.CustomerID, &m.SubmittedBy, &m.ApplicationMode,
		&m.Version, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxLoanRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	m, err := mapping.ToModelLoan(loan)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12,
			$13, $14, $15, $16, $17,
			$18, $19, $20, $21,
			$22, $23, $24, $25, $26, $27,
			$28, $29, $30,
			$31, $32, $33, $34,
			$35, $36, $37, $38, $39
		);
	`
	_, err = r.Pool.Exec(ctx, query,
		m.ID, m.LoanID, m.Applicant, m.Guarantor, m.Product, m.Bank,
		m.LoanAmount, m.InterestRate, m.Tenure, m.EMIAmount,
		m.Status, m.KYCStatus,
		m.AppliedDate, m.EMIStartDate, m.VerifiedDate, m.ApprovedDate, m.RejectedDate,
		m.NextDueDate, m.LastPaymentDate, m.KYCVerifiedBy, m.KYCVerifiedDate,
		m.VerifierComment, m.AdminComment, m.RejectionReason, m.StatusComment, m.CommentDate, m.UpdatedBy,
		m.EMIsPaid, m.EMIsRemaining, m.TotalPenalty,
		m.ShopkeeperID, m.CustomerID, m.SubmittedBy, m.ApplicationMode,
		m.Version, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("loan id %s already exists: %w", loan.LoanID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save loan: %w", err)
	}
	return nil
}

func (r *PgxLoanRepository) FindLoanByID(ctx context.Context, id string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1 OR loan_id = $1;`
	m, err := scanLoanRow(r.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find loan %s: %w", id, err)
	}

	loan, err := mapping.ToDomainLoan(m)
	if err != nil {
		return nil, err
	}
	if loan.Payments, err = r.findPayments(ctx, loan.ID); err != nil {
		return nil, err
	}
	if loan.Penalties, err = r.findPenalties(ctx, loan.ID); err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *PgxLoanRepository) findPayments(ctx context.Context, loanID string) ([]domain.PaymentEntry, error) {
	query := `
		SELECT entry_id, loan_id, amount, payment_mode, payment_date,
		       collected_by, transaction_id, payment_proof, penalty, created_at
		FROM loan_payments WHERE loan_id = $1 ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments for loan %s: %w", loanID, err)
	}
	defer rows.Close()

	var entries []domain.PaymentEntry
	for rows.Next() {
		var m models.PaymentEntry
		if err := rows.Scan(
			&m.EntryID, &m.LoanID, &m.Amount, &m.PaymentMode, &m.PaymentDate,
			&m.CollectedBy, &m.TransactionID, &m.PaymentProof, &m.Penalty, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment entry: %w", err)
		}
		entries = append(entries, mapping.ToDomainPaymentEntry(m))
	}
	return entries, rows.Err()
}

func (r *PgxLoanRepository) findPenalties(ctx context.Context, loanID string) ([]domain.PenaltyEntry, error) {
	query := `
		SELECT entry_id, loan_id, amount, reason, applied_date, created_at
		FROM loan_penalties WHERE loan_id = $1 ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to load penalties for loan %s: %w", loanID, err)
	}
	defer rows.Close()

	var entries []domain.PenaltyEntry
	for rows.Next() {
		var m models.PenaltyEntry
		if err := rows.Scan(&m.EntryID, &m.LoanID, &m.Amount, &m.Reason, &m.AppliedDate, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan penalty entry: %w", err)
		}
		entries = append(entries, mapping.ToDomainPenaltyEntry(m))
	}
	return entries, rows.Err()
}

func (r *PgxLoanRepository) ListLoans(ctx context.Context, filter portsrepo.LoanListFilter) ([]domain.Loan, int64, error) {
	where := " WHERE 1=1"
	args := []any{}
	argn := 0
	addArg := func(clause string, v any) {
		argn++
		where += fmt.Sprintf(" AND %s $%d", clause, argn)
		args = append(args, v)
	}
	if filter.Status != "" {
		addArg("status =", string(filter.Status))
	}
	if filter.KYCStatus != "" {
		addArg("kyc_status =", string(filter.KYCStatus))
	}
	if filter.OwnerID != "" {
		addArg("shopkeeper_id =", filter.OwnerID)
	}

	var total int64
	if err := r.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM loans"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count loans: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	query := fmt.Sprintf(
		"SELECT %s FROM loans%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		loanColumns, where, argn+1, argn+2,
	)
	args = append(args, limit, filter.Offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	var loans []domain.Loan
	for rows.Next() {
		m, err := scanLoanRow(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan loan row: %w", err)
		}
		loan, err := mapping.ToDomainLoan(m)
		if err != nil {
			return nil, 0, err
		}
		loans = append(loans, loan)
	}
	return loans, total, rows.Err()
}

// loanUpdateSet is the mutable column set written by UpdateLoan and by the
// ledger appends. The version bump is part of the statement so a concurrent
// writer can never observe a half-applied update.
const loanUpdateSet = `
	applicant = $2, guarantor = $3, product = $4, bank = $5,
	loan_amount = $6, interest_rate = $7, tenure = $8, emi_amount = $9,
	status = $10, kyc_status = $11,
	emi_start_date = $12, verified_date = $13, approved_date = $14, rejected_date = $15,
	next_due_date = $16, last_payment_date = $17, kyc_verified_by = $18, kyc_verified_date = $19,
	verifier_comment = $20, admin_comment = $21, rejection_reason = $22,
	status_comment = $23, comment_date = $24, updated_by = $25,
	emis_paid = $26, emis_remaining = $27, total_penalty = $28,
	customer_id = $29,
	version = version + 1, last_updated_at = $30, last_updated_by = $31`

func loanUpdateArgs(m models.Loan, expectedVersion int64) []any {
	return []any{
		m.ID,
		m.Applicant, m.Guarantor, m.Product, m.Bank,
		m.LoanAmount, m.InterestRate, m.Tenure, m.EMIAmount,
		m.Status, m.KYCStatus,
		m.EMIStartDate, m.VerifiedDate, m.ApprovedDate, m.RejectedDate,
		m.NextDueDate, m.LastPaymentDate, m.KYCVerifiedBy, m.KYCVerifiedDate,
		m.VerifierComment, m.AdminComment, m.RejectionReason,
		m.StatusComment, m.CommentDate, m.UpdatedBy,
		m.EMIsPaid, m.EMIsRemaining, m.TotalPenalty,
		m.CustomerID,
		m.LastUpdatedAt, m.LastUpdatedBy,
		expectedVersion,
	}
}

func (r *PgxLoanRepository) UpdateLoan(ctx context.Context, loan domain.Loan, expectedVersion int64) error {
	m, err := mapping.ToModelLoan(loan)
	if err != nil {
		return err
	}
	query := `UPDATE loans SET` + loanUpdateSet + ` WHERE id = $1 AND version = $32;`
	tag, err := r.Pool.Exec(ctx, query, loanUpdateArgs(m, expectedVersion)...)
	if err != nil {
		return fmt.Errorf("failed to update loan %s: %w", loan.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.conflictOrNotFound(ctx, loan.ID)
	}
	return nil
}

// conflictOrNotFound disambiguates a zero-row versioned update: the loan is
// either gone or its version moved under us.
func (r *PgxLoanRepository) conflictOrNotFound(ctx context.Context, id string) error {
	var exists bool
	if err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM loans WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check loan %s: %w", id, err)
	}
	if !exists {
		return apperrors.ErrNotFound
	}
	return fmt.Errorf("loan %s was modified concurrently: %w", id, apperrors.ErrConflict)
}

func (r *PgxLoanRepository) AppendPayment(ctx context.Context, loan domain.Loan, entry domain.PaymentEntry, expectedVersion int64) error {
	m, err := mapping.ToModelLoan(loan)
	if err != nil {
		return err
	}
	e := mapping.ToModelPaymentEntry(entry)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck // no-op after commit

	query := `UPDATE loans SET` + loanUpdateSet + ` WHERE id = $1 AND version = $32;`
	tag, err := tx.Exec(ctx, query, loanUpdateArgs(m, expectedVersion)...)
	if err != nil {
		return fmt.Errorf("failed to update loan %s for payment: %w", loan.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.conflictOrNotFound(ctx, loan.ID)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO loan_payments (entry_id, loan_id, amount, payment_mode, payment_date,
			collected_by, transaction_id, payment_proof, penalty, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`, e.EntryID, e.LoanID, e.Amount, e.PaymentMode, e.PaymentDate,
		e.CollectedBy, e.TransactionID, e.PaymentProof, e.Penalty, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert payment entry: %w", err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxLoanRepository) AppendPenalty(ctx context.Context, loan domain.Loan, entry domain.PenaltyEntry, expectedVersion int64) error {
	m, err := mapping.ToModelLoan(loan)
	if err != nil {
		return err
	}
	e := mapping.ToModelPenaltyEntry(entry)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck // no-op after commit

	query := `UPDATE loans SET` + loanUpdateSet + ` WHERE id = $1 AND version = $32;`
	tag, err := tx.Exec(ctx, query, loanUpdateArgs(m, expectedVersion)...)
	if err != nil {
		return fmt.Errorf("failed to update loan %s for penalty: %w", loan.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.conflictOrNotFound(ctx, loan.ID)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO loan_penalties (entry_id, loan_id, amount, reason, applied_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`, e.EntryID, e.LoanID, e.Amount, e.Reason, e.AppliedDate, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert penalty entry: %w", err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxLoanRepository) DeleteLoan(ctx context.Context, id string, deletedBy string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(ctx, `DELETE FROM loan_payments WHERE loan_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete payments for loan %s: %w", id, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM loan_penalties WHERE loan_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete penalties for loan %s: %w", id, err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM loans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete loan %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return r.Commit(ctx, tx)
}

func (r *PgxLoanRepository) CountLoansByStatus(ctx context.Context, ownerID string) (map[domain.LoanStatus]int64, error) {
	query := `SELECT status, COUNT(*) FROM loans`
	var args []any
	if ownerID != "" {
		query += ` WHERE shopkeeper_id = $1`
		args = append(args, ownerID)
	}
	query += ` GROUP BY status`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count loans by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.LoanStatus]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[domain.LoanStatus(status)] = count
	}
	return counts, rows.Err()
}

func (r *PgxLoanRepository) SumOutstanding(ctx context.Context, ownerID string) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(loan_amount), 0), COALESCE(SUM(total_penalty), 0)
		FROM loans
		WHERE status NOT IN ($1, $2)
	`
	args := []any{string(domain.StatusRejected), string(domain.StatusPending)}
	if ownerID != "" {
		query += ` AND shopkeeper_id = $3`
		args = append(args, ownerID)
	}
	var disbursed, penalties decimal.Decimal
	err := r.Pool.QueryRow(ctx, query, args...).
		Scan(&disbursed, &penalties)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum outstanding: %w", err)
	}
	return disbursed, penalties, nil
}

func (r *PgxLoanRepository) SumPaymentsByMode(ctx context.Context, ownerID string) (map[domain.PaymentMode]decimal.Decimal, error) {
	query := `SELECT p.payment_mode, COALESCE(SUM(p.amount), 0) FROM loan_payments p`
	var args []any
	if ownerID != "" {
		query += ` JOIN loans l ON l.id = p.loan_id WHERE l.shopkeeper_id = $1`
		args = append(args, ownerID)
	}
	query += ` GROUP BY p.payment_mode`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to sum payments by mode: %w", err)
	}
	defer rows.Close()

	totals := make(map[domain.PaymentMode]decimal.Decimal)
	for rows.Next() {
		var mode string
		var total decimal.Decimal
		if err := rows.Scan(&mode, &total); err != nil {
			return nil, fmt.Errorf("failed to scan payment mode total: %w", err)
		}
		totals[domain.PaymentMode(mode)] = total
	}
	return totals, rows.Err()
}
