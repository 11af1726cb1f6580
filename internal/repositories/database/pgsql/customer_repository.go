package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxborn/loan_management_app/internal/apperrors"
	"github.com/maxborn/loan_management_app/internal/core/domain"
	portsrepo "github.com/maxborn/loan_management_app/internal/core/ports/repositories"
	"github.com/maxborn/loan_management_app/internal/models"
	"github.com/maxborn/loan_management_app/internal/utils/mapping"
)

type PgxCustomerRepository struct {
	BaseRepository
}

func newPgxCustomerRepository(db *pgxpool.Pool) portsrepo.CustomerRepositoryFacade {
	return &PgxCustomerRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxCustomerRepository implements portsrepo.CustomerRepositoryFacade
var _ portsrepo.CustomerRepositoryFacade = (*PgxCustomerRepository)(nil)

const customerColumns = `
	customer_id, full_name, father_name, phone_number, email, aadhar_number, pan_number,
	address, city, state, pincode, date_of_birth, occupation, photo,
	created_at, created_by, last_updated_at, last_updated_by`

func scanCustomerRow(row pgx.Row) (models.Customer, error) {
	var m models.Customer
	err := row.Scan(
		&m.CustomerID, &m.FullName, &m.FatherName, &m.PhoneNumber, &m.Email, &m.AadharNumber, &m.PanNumber,
		&m.Address, &m.City, &m.State, &m.Pincode, &m.DateOfBirth, &m.Occupation, &m.Photo,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxCustomerRepository) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	m := mapping.ToModelCustomer(customer)
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CustomerID, m.FullName, m.FatherName, m.PhoneNumber, m.Email, m.AadharNumber, m.PanNumber,
		m.Address, m.City, m.State, m.Pincode, m.DateOfBirth, m.Occupation, m.Photo,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("phone number %s already registered: %w", customer.PhoneNumber, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save customer: %w", err)
	}
	return nil
}

func (r *PgxCustomerRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE customer_id = $1;`
	m, err := scanCustomerRow(r.Pool.QueryRow(ctx, query, customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer %s: %w", customerID, err)
	}
	customer := mapping.ToDomainCustomer(m)
	return &customer, nil
}

func (r *PgxCustomerRepository) FindCustomerByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE phone_number = $1;`
	m, err := scanCustomerRow(r.Pool.QueryRow(ctx, query, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer by phone: %w", err)
	}
	customer := mapping.ToDomainCustomer(m)
	return &customer, nil
}

func (r *PgxCustomerRepository) ListCustomers(ctx context.Context, limit int, offset int) ([]domain.Customer, int64, error) {
	var total int64
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY created_at DESC LIMIT $1 OFFSET $2;`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		m, err := scanCustomerRow(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan customer row: %w", err)
		}
		customers = append(customers, mapping.ToDomainCustomer(m))
	}
	return customers, total, rows.Err()
}

func (r *PgxCustomerRepository) UpdateCustomer(ctx context.Context, customer domain.Customer) error {
	m := mapping.ToModelCustomer(customer)
	query := `
		UPDATE customers SET
			full_name = $2, father_name = $3, phone_number = $4, email = $5,
			aadhar_number = $6, pan_number = $7, address = $8, city = $9,
			state = $10, pincode = $11, date_of_birth = $12, occupation = $13, photo = $14,
			last_updated_at = $15, last_updated_by = $16
		WHERE customer_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.CustomerID, m.FullName, m.FatherName, m.PhoneNumber, m.Email,
		m.AadharNumber, m.PanNumber, m.Address, m.City,
		m.State, m.Pincode, m.DateOfBirth, m.Occupation, m.Photo,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("phone number %s already registered: %w", customer.PhoneNumber, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to update customer %s: %w", customer.CustomerID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
