package domain

import "time"

// User is an authenticated panel user. Shopkeeper and customer users also
// have a directory record keyed back to this id.
type User struct {
	UserID       string `json:"userID"` // Primary Key (UUID)
	Username     string `json:"username"`
	FullName     string `json:"fullName"`
	Role         Role   `json:"role"`
	PasswordHash string `json:"-"`
	IsActive     bool   `json:"isActive"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // soft delete
}
