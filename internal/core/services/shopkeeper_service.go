package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/maxborn/loan_management_app/internal/apperrors"
	"github.com/maxborn/loan_management_app/internal/core/domain"
	portsrepo "github.com/maxborn/loan_management_app/internal/core/ports/repositories"
	portssvc "github.com/maxborn/loan_management_app/internal/core/ports/services"
	"github.com/maxborn/loan_management_app/internal/dto"
	"github.com/maxborn/loan_management_app/internal/middleware"
)

// shopkeeperService provides the shopkeeper directory and token balance
// operations.
type shopkeeperService struct {
	repo    portsrepo.ShopkeeperRepositoryFacade
	userSvc portssvc.UserSvcFacade
}

// NewShopkeeperService creates a new ShopkeeperService.
func NewShopkeeperService(repo portsrepo.ShopkeeperRepositoryFacade, userSvc portssvc.UserSvcFacade) portssvc.ShopkeeperSvcFacade {
	return &shopkeeperService{repo: repo, userSvc: userSvc}
}

var _ portssvc.ShopkeeperSvcFacade = (*shopkeeperService)(nil)

// GetShopkeeperByID retrieves a shopkeeper by ID.
func (s *shopkeeperService) GetShopkeeperByID(ctx context.Context, shopkeeperID string) (*domain.Shopkeeper, error) {
	return s.repo.FindShopkeeperByID(ctx, shopkeeperID)
}

// GetShopkeeperByUserID retrieves the shopkeeper linked to a panel user.
func (s *shopkeeperService) GetShopkeeperByUserID(ctx context.Context, userID string) (*domain.Shopkeeper, error) {
	return s.repo.FindShopkeeperByUserID(ctx, userID)
}

// ListShopkeepers retrieves a paginated list of shopkeepers.
func (s *shopkeeperService) ListShopkeepers(ctx context.Context, params dto.ListShopkeepersParams) (*dto.ListShopkeepersResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	shopkeepers, total, err := s.repo.ListShopkeepers(ctx, limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopkeepers: %w", err)
	}
	return dto.ToListShopkeepersResponse(shopkeepers, total, limit, params.Offset), nil
}

// CreateShopkeeper registers a new shopkeeper together with its panel user
// account.
func (s *shopkeeperService) CreateShopkeeper(ctx context.Context, req dto.CreateShopkeeperRequest, actor domain.Actor) (*domain.Shopkeeper, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if actor.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: only admins may register shopkeepers", apperrors.ErrForbidden)
	}

	user, err := s.userSvc.CreateUser(ctx, dto.CreateUserRequest{
		Username: req.Username,
		FullName: req.OwnerName,
		Password: req.Password,
		Role:     domain.RoleShopkeeper,
	}, actor)
	if err != nil {
		return nil, fmt.Errorf("failed to create shopkeeper user: %w", err)
	}

	now := time.Now().UTC()
	sk := domain.Shopkeeper{
		ShopkeeperID: generateShopkeeperID(req.ShopName, now),
		UserID:       user.UserID,
		ShopName:     req.ShopName,
		OwnerName:    req.OwnerName,
		PhoneNumber:  req.PhoneNumber,
		Email:        req.Email,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		Pincode:      req.Pincode,
		GSTNumber:    req.GSTNumber,
		PanNumber:    req.PanNumber,
		AadharNumber: req.AadharNumber,
		OwnerPhoto:   req.OwnerPhoto,
		ShopImage:    req.ShopImage,
		TokenBalance: req.InitialTokens,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	if err := s.repo.SaveShopkeeper(ctx, sk); err != nil {
		return nil, fmt.Errorf("failed to save shopkeeper: %w", err)
	}

	logger.Info("Shopkeeper registered",
		slog.String("shopkeeper_id", sk.ShopkeeperID),
		slog.String("shop_name", sk.ShopName),
		slog.Int64("initial_tokens", sk.TokenBalance))
	return &sk, nil
}

// UpdateShopkeeper updates an existing shopkeeper's details.
func (s *shopkeeperService) UpdateShopkeeper(ctx context.Context, shopkeeperID string, req dto.UpdateShopkeeperRequest, actor domain.Actor) (*domain.Shopkeeper, error) {
	sk, err := s.repo.FindShopkeeperByID(ctx, shopkeeperID)
	if err != nil {
		return nil, err
	}
	// Shopkeepers may only edit their own record.
	if actor.Role.IsOwnerScoped() && sk.UserID != actor.UserID {
		return nil, fmt.Errorf("%w: shopkeeper record belongs to another user", apperrors.ErrForbidden)
	}

	if req.ShopName != nil {
		sk.ShopName = *req.ShopName
	}
	if req.OwnerName != nil {
		sk.OwnerName = *req.OwnerName
	}
	if req.Email != nil {
		sk.Email = *req.Email
	}
	if req.Address != nil {
		sk.Address = *req.Address
	}
	if req.City != nil {
		sk.City = *req.City
	}
	if req.State != nil {
		sk.State = *req.State
	}
	if req.Pincode != nil {
		sk.Pincode = *req.Pincode
	}
	if req.GSTNumber != nil {
		sk.GSTNumber = *req.GSTNumber
	}
	if req.OwnerPhoto != nil {
		sk.OwnerPhoto = *req.OwnerPhoto
	}
	if req.ShopImage != nil {
		sk.ShopImage = *req.ShopImage
	}
	sk.LastUpdatedAt = time.Now().UTC()
	sk.LastUpdatedBy = actor.UserID

	if err := s.repo.UpdateShopkeeper(ctx, *sk); err != nil {
		return nil, fmt.Errorf("failed to update shopkeeper: %w", err)
	}
	return sk, nil
}

// CreditTokens adds application tokens to a shopkeeper's balance. Admin only.
func (s *shopkeeperService) CreditTokens(ctx context.Context, shopkeeperID string, amount int64, actor domain.Actor) (*domain.Shopkeeper, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if actor.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: only admins may credit tokens", apperrors.ErrForbidden)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: token amount must be positive", apperrors.ErrValidation)
	}
	if err := s.repo.AddTokens(ctx, shopkeeperID, amount); err != nil {
		return nil, err
	}

	logger.Info("Tokens credited",
		slog.String("shopkeeper_id", shopkeeperID),
		slog.Int64("amount", amount),
		slog.String("credited_by", actor.UserID))
	return s.repo.FindShopkeeperByID(ctx, shopkeeperID)
}

// generateShopkeeperID builds a readable id from the shop name plus a time
// suffix, e.g. "SHARMA-ELECTRONICS-4821".
func generateShopkeeperID(shopName string, now time.Time) string {
	slug := strings.ToUpper(strings.Join(strings.Fields(shopName), "-"))
	if len(slug) > 24 {
		slug = slug[:24]
	}
	return fmt.Sprintf("%s-%04d", slug, now.UnixMilli()%10000)
}
