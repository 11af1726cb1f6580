package dto

import (
	"github.com/maxborn/loan_management_app/internal/core/domain"
)

// CreateCustomerRequest defines the data needed to register a customer.
type CreateCustomerRequest struct {
	FullName     string `json:"fullName" binding:"required"`
	FatherName   string `json:"fatherName"`
	PhoneNumber  string `json:"phoneNumber" binding:"required,len=10,numeric"`
	Email        string `json:"email" binding:"omitempty,email"`
	AadharNumber string `json:"aadharNumber" binding:"required,aadhar"`
	PanNumber    string `json:"panNumber"`
	Address      string `json:"address" binding:"required"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state" binding:"required"`
	Pincode      string `json:"pincode" binding:"required,len=6,numeric"`
	DateOfBirth  string `json:"dateOfBirth" binding:"omitempty,datetime=2006-01-02"`
	Occupation   string `json:"occupation"`
	Photo        string `json:"photo"`
}

// UpdateCustomerRequest defines the data allowed for updating a customer.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateCustomerRequest struct {
	FullName   *string `json:"fullName"`
	Email      *string `json:"email" binding:"omitempty,email"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	Pincode    *string `json:"pincode" binding:"omitempty,len=6,numeric"`
	Occupation *string `json:"occupation"`
	Photo      *string `json:"photo"`
}

// ListCustomersParams defines query parameters for listing customers.
type ListCustomersParams struct {
	Limit  int `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"omitempty,min=0"`
}

// CustomerResponse defines the data returned for a customer.
type CustomerResponse struct {
	CustomerID   string `json:"customerID"`
	FullName     string `json:"fullName"`
	FatherName   string `json:"fatherName,omitempty"`
	PhoneNumber  string `json:"phoneNumber"`
	Email        string `json:"email,omitempty"`
	AadharNumber string `json:"aadharNumber"`
	PanNumber    string `json:"panNumber,omitempty"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	DateOfBirth  string `json:"dateOfBirth,omitempty"`
	Occupation   string `json:"occupation,omitempty"`
	Photo        string `json:"photo,omitempty"`
}

// ListCustomersResponse wraps a page of customers.
type ListCustomersResponse struct {
	Customers []CustomerResponse `json:"customers"`
	Total     int64              `json:"total"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
}

// ToCustomerResponse converts a domain.Customer to CustomerResponse DTO.
func ToCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		CustomerID:   c.CustomerID,
		FullName:     c.FullName,
		FatherName:   c.FatherName,
		PhoneNumber:  c.PhoneNumber,
		Email:        c.Email,
		AadharNumber: c.AadharNumber,
		PanNumber:    c.PanNumber,
		Address:      c.Address,
		City:         c.City,
		State:        c.State,
		Pincode:      c.Pincode,
		DateOfBirth:  c.DateOfBirth,
		Occupation:   c.Occupation,
		Photo:        c.Photo,
	}
}

// ToListCustomersResponse converts a page of domain customers to the list DTO.
func ToListCustomersResponse(cs []domain.Customer, total int64, limit, offset int) *ListCustomersResponse {
	res := make([]CustomerResponse, len(cs))
	for i := range cs {
		res[i] = ToCustomerResponse(&cs[i])
	}
	return &ListCustomersResponse{Customers: res, Total: total, Limit: limit, Offset: offset}
}
