package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/maxborn/loan_management_app/internal/core/domain"
	portsrepo "github.com/maxborn/loan_management_app/internal/core/ports/repositories"
	portssvc "github.com/maxborn/loan_management_app/internal/core/ports/services"
	"github.com/maxborn/loan_management_app/internal/dto"
)

// customerService provides the customer directory operations.
type customerService struct {
	repo portsrepo.CustomerRepositoryFacade
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(repo portsrepo.CustomerRepositoryFacade) portssvc.CustomerSvcFacade {
	return &customerService{repo: repo}
}

var _ portssvc.CustomerSvcFacade = (*customerService)(nil)

// GetCustomerByID retrieves a customer by ID.
func (s *customerService) GetCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	return s.repo.FindCustomerByID(ctx, customerID)
}

// ListCustomers retrieves a paginated list of customers.
func (s *customerService) ListCustomers(ctx context.Context, params dto.ListCustomersParams) (*dto.ListCustomersResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	customers, total, err := s.repo.ListCustomers(ctx, limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return dto.ToListCustomersResponse(customers, total, limit, params.Offset), nil
}

// CreateCustomer registers a new customer.
func (s *customerService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest, actor domain.Actor) (*domain.Customer, error) {
	now := time.Now().UTC()
	customer := domain.Customer{
		CustomerID:   uuid.NewString(),
		FullName:     req.FullName,
		FatherName:   req.FatherName,
		PhoneNumber:  req.PhoneNumber,
		Email:        req.Email,
		AadharNumber: req.AadharNumber,
		PanNumber:    req.PanNumber,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		Pincode:      req.Pincode,
		DateOfBirth:  req.DateOfBirth,
		Occupation:   req.Occupation,
		Photo:        req.Photo,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	if err := s.repo.SaveCustomer(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}
	return &customer, nil
}

// UpdateCustomer updates an existing customer's details.
func (s *customerService) UpdateCustomer(ctx context.Context, customerID string, req dto.UpdateCustomerRequest, actor domain.Actor) (*domain.Customer, error) {
	customer, err := s.repo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		customer.FullName = *req.FullName
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if req.City != nil {
		customer.City = *req.City
	}
	if req.State != nil {
		customer.State = *req.State
	}
	if req.Pincode != nil {
		customer.Pincode = *req.Pincode
	}
	if req.Occupation != nil {
		customer.Occupation = *req.Occupation
	}
	if req.Photo != nil {
		customer.Photo = *req.Photo
	}
	customer.LastUpdatedAt = time.Now().UTC()
	customer.LastUpdatedBy = actor.UserID

	if err := s.repo.UpdateCustomer(ctx, *customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return customer, nil
}
