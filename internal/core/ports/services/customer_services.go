package services

import (
	"context"

	"github.com/maxborn/loan_management_app/internal/core/domain"
	"github.com/maxborn/loan_management_app/internal/dto"
)

// CustomerSvcFacade defines operations on the customer directory
type CustomerSvcFacade interface {
	// GetCustomerByID retrieves a customer by ID.
	GetCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)

	// ListCustomers retrieves a paginated list of customers.
	ListCustomers(ctx context.Context, params dto.ListCustomersParams) (*dto.ListCustomersResponse, error)

	// CreateCustomer registers a new customer; phone numbers are unique.
	CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest, actor domain.Actor) (*domain.Customer, error)

	// UpdateCustomer updates an existing customer's details.
	UpdateCustomer(ctx context.Context, customerID string, req dto.UpdateCustomerRequest, actor domain.Actor) (*domain.Customer, error)
}
