package dto

import (
	"github.com/maxborn/loan_management_app/internal/core/domain"
)

// CreateUserRequest defines the data needed to create a panel user.
type CreateUserRequest struct {
	Username string      `json:"username" binding:"required,min=3"`
	FullName string      `json:"fullName" binding:"required"`
	Password string      `json:"password" binding:"required,min=8"`
	Role     domain.Role `json:"role" binding:"required,oneof=admin verifier collections shopkeeper customer"`
}

// UpdateUserRequest defines the data allowed for updating a user.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateUserRequest struct {
	FullName *string `json:"fullName"`
	Password *string `json:"password" binding:"omitempty,min=8"`
	IsActive *bool   `json:"isActive"`
}

// ListUsersParams defines query parameters for listing users.
type ListUsersParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// UserResponse defines the data returned for a user.
type UserResponse struct {
	UserID   string `json:"userID"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	IsActive bool   `json:"isActive"`
}

// ListUsersResponse wraps the list of users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// ToUserResponse converts a domain.User to UserResponse DTO.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:   user.UserID,
		Username: user.Username,
		FullName: user.FullName,
		Role:     string(user.Role),
		IsActive: user.IsActive,
	}
}

// ToListUserResponse converts a slice of domain.User to ListUsersResponse DTO.
func ToListUserResponse(users []domain.User) ListUsersResponse {
	userResponses := make([]UserResponse, len(users))
	for i := range users {
		userResponses[i] = ToUserResponse(&users[i])
	}
	return ListUsersResponse{Users: userResponses}
}
