package mapping

import (
	"github.com/maxborn/loan_management_app/internal/core/domain"
	"github.com/maxborn/loan_management_app/internal/models"
)

// ToModelUser converts a domain User to its database row.
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:       d.UserID,
		Username:     d.Username,
		FullName:     d.FullName,
		Role:         string(d.Role),
		PasswordHash: d.PasswordHash,
		IsActive:     d.IsActive,
		AuditFields:  ToModelAuditFields(d.AuditFields),
		DeletedAt:    d.DeletedAt,
	}
}

// ToDomainUser converts a database row to a domain User.
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:       m.UserID,
		Username:     m.Username,
		FullName:     m.FullName,
		Role:         domain.Role(m.Role),
		PasswordHash: m.PasswordHash,
		IsActive:     m.IsActive,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
		DeletedAt:    m.DeletedAt,
	}
}
