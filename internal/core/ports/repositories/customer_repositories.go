package repositories

import (
	"context"

	"github.com/maxborn/loan_management_app/internal/core/domain"
)

// CustomerReader defines read operations for the customer directory
type CustomerReader interface {
	// FindCustomerByID retrieves a customer by their ID.
	FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)

	// FindCustomerByPhone retrieves a customer by their phone number.
	FindCustomerByPhone(ctx context.Context, phone string) (*domain.Customer, error)

	// ListCustomers retrieves a paginated list of customers.
	ListCustomers(ctx context.Context, limit int, offset int) ([]domain.Customer, int64, error)
}

// CustomerWriter defines write operations for the customer directory
type CustomerWriter interface {
	// SaveCustomer persists a new customer. Returns apperrors.ErrDuplicate
	// when the phone number is already registered.
	SaveCustomer(ctx context.Context, customer domain.Customer) error

	// UpdateCustomer updates an existing customer's details.
	UpdateCustomer(ctx context.Context, customer domain.Customer) error
}

// CustomerRepositoryFacade combines all customer repository interfaces
type CustomerRepositoryFacade interface {
	CustomerReader
	CustomerWriter
}
