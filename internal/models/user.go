package models

import "time"

// User is the database row for a panel user.
type User struct {
	UserID       string `db:"user_id"`
	Username     string `db:"username"`
	FullName     string `db:"full_name"`
	Role         string `db:"role"`
	PasswordHash string `db:"password_hash"`
	IsActive     bool   `db:"is_active"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
