package services

import (
	"context"
	"time"

	"github.com/maxborn/loan_management_app/internal/core/domain"
	portssvc "github.com/maxborn/loan_management_app/internal/core/ports/services"
	"github.com/maxborn/loan_management_app/internal/platform/config"
	"github.com/maxborn/loan_management_app/internal/utils"
)

// tokenService implements TokenSvcFacade over HMAC-signed JWTs. It requires
// access to application configuration for the secret and expiry.
type tokenService struct {
	cfg *config.Config
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg}
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

// GenerateAccessToken creates a new JWT access token for the given user.
func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiryTime := time.Now().Add(s.cfg.JWTExpiryDuration)

	accessToken, err := utils.GenerateJWT(user.UserID, user.FullName, string(user.Role), s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", time.Time{}, err
	}
	return accessToken, expiryTime, nil
}
