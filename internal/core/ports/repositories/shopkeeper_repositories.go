package repositories

import (
	"context"

	"github.com/maxborn/loan_management_app/internal/core/domain"
)

// ShopkeeperReader defines read operations for the shopkeeper directory
type ShopkeeperReader interface {
	// FindShopkeeperByID retrieves a shopkeeper by their ID.
	FindShopkeeperByID(ctx context.Context, shopkeeperID string) (*domain.Shopkeeper, error)

	// FindShopkeeperByUserID retrieves the shopkeeper record linked to a
	// panel user account.
	FindShopkeeperByUserID(ctx context.Context, userID string) (*domain.Shopkeeper, error)

	// ListShopkeepers retrieves a paginated list of shopkeepers.
	ListShopkeepers(ctx context.Context, limit int, offset int) ([]domain.Shopkeeper, int64, error)
}

// ShopkeeperWriter defines write operations for the shopkeeper directory
type ShopkeeperWriter interface {
	// SaveShopkeeper persists a new shopkeeper.
	SaveShopkeeper(ctx context.Context, sk domain.Shopkeeper) error

	// UpdateShopkeeper updates an existing shopkeeper's details.
	UpdateShopkeeper(ctx context.Context, sk domain.Shopkeeper) error

	// DeductTokens atomically decrements the shopkeeper's token balance.
	// The decrement only applies when the balance covers the amount;
	// otherwise it returns apperrors.ErrInsufficientBalance and the balance
	// is untouched.
	DeductTokens(ctx context.Context, shopkeeperID string, amount int64) error

	// AddTokens atomically credits the shopkeeper's token balance.
	AddTokens(ctx context.Context, shopkeeperID string, amount int64) error
}

// ShopkeeperRepositoryFacade combines all shopkeeper repository interfaces
type ShopkeeperRepositoryFacade interface {
	ShopkeeperReader
	ShopkeeperWriter
}
