package mapping

import (
	"github.com/maxborn/loan_management_app/internal/core/domain"
	"github.com/maxborn/loan_management_app/internal/models"
)

// ToModelCustomer converts a domain Customer to its database row.
func ToModelCustomer(d domain.Customer) models.Customer {
	return models.Customer{
		CustomerID:   d.CustomerID,
		FullName:     d.FullName,
		FatherName:   d.FatherName,
		PhoneNumber:  d.PhoneNumber,
		Email:        d.Email,
		AadharNumber: d.AadharNumber,
		PanNumber:    d.PanNumber,
		Address:      d.Address,
		City:         d.City,
		State:        d.State,
		Pincode:      d.Pincode,
		DateOfBirth:  d.DateOfBirth,
		Occupation:   d.Occupation,
		Photo:        d.Photo,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCustomer converts a database row to a domain Customer.
func ToDomainCustomer(m models.Customer) domain.Customer {
	return domain.Customer{
		CustomerID:   m.CustomerID,
		FullName:     m.FullName,
		FatherName:   m.FatherName,
		PhoneNumber:  m.PhoneNumber,
		Email:        m.Email,
		AadharNumber: m.AadharNumber,
		PanNumber:    m.PanNumber,
		Address:      m.Address,
		City:         m.City,
		State:        m.State,
		Pincode:      m.Pincode,
		DateOfBirth:  m.DateOfBirth,
		Occupation:   m.Occupation,
		Photo:        m.Photo,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelShopkeeper converts a domain Shopkeeper to its database row.
func ToModelShopkeeper(d domain.Shopkeeper) models.Shopkeeper {
	return models.Shopkeeper{
		ShopkeeperID: d.ShopkeeperID,
		UserID:       d.UserID,
		ShopName:     d.ShopName,
		OwnerName:    d.OwnerName,
		PhoneNumber:  d.PhoneNumber,
		Email:        d.Email,
		Address:      d.Address,
		City:         d.City,
		State:        d.State,
		Pincode:      d.Pincode,
		GSTNumber:    d.GSTNumber,
		PanNumber:    d.PanNumber,
		AadharNumber: d.AadharNumber,
		OwnerPhoto:   d.OwnerPhoto,
		ShopImage:    d.ShopImage,
		TokenBalance: d.TokenBalance,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainShopkeeper converts a database row to a domain Shopkeeper.
func ToDomainShopkeeper(m models.Shopkeeper) domain.Shopkeeper {
	return domain.Shopkeeper{
		ShopkeeperID: m.ShopkeeperID,
		UserID:       m.UserID,
		ShopName:     m.ShopName,
		OwnerName:    m.OwnerName,
		PhoneNumber:  m.PhoneNumber,
		Email:        m.Email,
		Address:      m.Address,
		City:         m.City,
		State:        m.State,
		Pincode:      m.Pincode,
		GSTNumber:    m.GSTNumber,
		PanNumber:    m.PanNumber,
		AadharNumber: m.AadharNumber,
		OwnerPhoto:   m.OwnerPhoto,
		ShopImage:    m.ShopImage,
		TokenBalance: m.TokenBalance,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
