package services

import (
	"context"
	"time"

	"github.com/maxborn/loan_management_app/internal/core/domain"
)

// TokenSvcFacade defines the interface for token management services.
type TokenSvcFacade interface {
	// GenerateAccessToken issues a signed JWT carrying the user's id, name
	// and panel role.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
}
