package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/maxborn/loan_management_app/internal/apperrors"
	"github.com/maxborn/loan_management_app/internal/core/domain"
	portsrepo "github.com/maxborn/loan_management_app/internal/core/ports/repositories"
	portssvc "github.com/maxborn/loan_management_app/internal/core/ports/services"
	"github.com/maxborn/loan_management_app/internal/dto"
	"github.com/maxborn/loan_management_app/internal/middleware"
	"github.com/maxborn/loan_management_app/internal/utils"
)

// userService provides panel-user management and authentication.
type userService struct {
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// CreateUser creates a new panel user.
func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest, actor domain.Actor) (*domain.User, error) {
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:       uuid.NewString(),
		Username:     req.Username,
		FullName:     req.FullName,
		Role:         req.Role,
		PasswordHash: hash,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

// GetUserByUsername retrieves a user by username.
func (s *userService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.userRepo.FindUserByUsername(ctx, username)
}

// ListUsers retrieves a paginated list of users.
func (s *userService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.userRepo.FindUsers(ctx, limit, offset)
}

// UpdateUser updates an existing user.
func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, actor domain.Actor) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Password != nil {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	if req.IsActive != nil {
		if actor.Role != domain.RoleAdmin {
			return nil, fmt.Errorf("%w: only admins may activate or deactivate users", apperrors.ErrForbidden)
		}
		user.IsActive = *req.IsActive
	}
	user.LastUpdatedAt = time.Now().UTC()
	user.LastUpdatedBy = actor.UserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// DeleteUser marks a user as deleted (soft delete).
func (s *userService) DeleteUser(ctx context.Context, userID string, actor domain.Actor) error {
	if actor.Role != domain.RoleAdmin {
		return fmt.Errorf("%w: only admins may delete users", apperrors.ErrForbidden)
	}
	return s.userRepo.MarkUserDeleted(ctx, userID, time.Now().UTC(), actor.UserID)
}

// AuthenticateUser verifies the username/password pair.
func (s *userService) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Same error for unknown user and bad password.
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !user.IsActive || user.DeletedAt != nil {
		logger.Warn("Login attempt on inactive account", slog.String("username", username))
		return nil, apperrors.ErrUnauthorized
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}
