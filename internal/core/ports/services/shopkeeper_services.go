package services

import (
	"context"

	"github.com/maxborn/loan_management_app/internal/core/domain"
	"github.com/maxborn/loan_management_app/internal/dto"
)

// ShopkeeperSvcFacade defines operations on the shopkeeper directory
type ShopkeeperSvcFacade interface {
	// GetShopkeeperByID retrieves a shopkeeper by ID.
	GetShopkeeperByID(ctx context.Context, shopkeeperID string) (*domain.Shopkeeper, error)

	// GetShopkeeperByUserID retrieves the shopkeeper linked to a panel user.
	GetShopkeeperByUserID(ctx context.Context, userID string) (*domain.Shopkeeper, error)

	// ListShopkeepers retrieves a paginated list of shopkeepers.
	ListShopkeepers(ctx context.Context, params dto.ListShopkeepersParams) (*dto.ListShopkeepersResponse, error)

	// CreateShopkeeper registers a new shopkeeper with a starting token
	// balance.
	CreateShopkeeper(ctx context.Context, req dto.CreateShopkeeperRequest, actor domain.Actor) (*domain.Shopkeeper, error)

	// UpdateShopkeeper updates an existing shopkeeper's details.
	UpdateShopkeeper(ctx context.Context, shopkeeperID string, req dto.UpdateShopkeeperRequest, actor domain.Actor) (*domain.Shopkeeper, error)

	// CreditTokens adds application tokens to a shopkeeper's balance.
	// Admin only.
	CreditTokens(ctx context.Context, shopkeeperID string, amount int64, actor domain.Actor) (*domain.Shopkeeper, error)
}
