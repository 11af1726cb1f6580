package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxborn/loan_management_app/internal/apperrors"
	"github.com/maxborn/loan_management_app/internal/core/domain"
	portsrepo "github.com/maxborn/loan_management_app/internal/core/ports/repositories"
	"github.com/maxborn/loan_management_app/internal/models"
	"github.com/maxborn/loan_management_app/internal/utils/mapping"
)

type PgxShopkeeperRepository struct {
	BaseRepository
}

func newPgxShopkeeperRepository(db *pgxpool.Pool) portsrepo.ShopkeeperRepositoryFacade {
	return &PgxShopkeeperRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxShopkeeperRepository implements portsrepo.ShopkeeperRepositoryFacade
var _ portsrepo.ShopkeeperRepositoryFacade = (*PgxShopkeeperRepository)(nil)

const shopkeeperColumns = `
	shopkeeper_id, user_id, shop_name, owner_name, phone_number, email,
	address, city, state, pincode, gst_number, pan_number, aadhar_number,
	owner_photo, shop_image, token_balance,
	created_at, created_by, last_updated_at, last_updated_by`

func scanShopkeeperRow(row pgx.Row) (models.Shopkeeper, error) {
	var m models.Shopkeeper
	err := row.Scan(
		&m.ShopkeeperID, &m.UserID, &m.ShopName, &m.OwnerName, &m.PhoneNumber, &m.Email,
		&m.Address, &m.City, &m.State, &m.Pincode, &m.GSTNumber, &m.PanNumber, &m.AadharNumber,
		&m.OwnerPhoto, &m.ShopImage, &m.TokenBalance,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxShopkeeperRepository) SaveShopkeeper(ctx context.Context, sk domain.Shopkeeper) error {
	m := mapping.ToModelShopkeeper(sk)
	query := `
		INSERT INTO shopkeepers (` + shopkeeperColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ShopkeeperID, m.UserID, m.ShopName, m.OwnerName, m.PhoneNumber, m.Email,
		m.Address, m.City, m.State, m.Pincode, m.GSTNumber, m.PanNumber, m.AadharNumber,
		m.OwnerPhoto, m.ShopImage, m.TokenBalance,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("shopkeeper %s already exists: %w", sk.ShopkeeperID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save shopkeeper: %w", err)
	}
	return nil
}

func (r *PgxShopkeeperRepository) FindShopkeeperByID(ctx context.Context, shopkeeperID string) (*domain.Shopkeeper, error) {
	query := `SELECT ` + shopkeeperColumns + ` FROM shopkeepers WHERE shopkeeper_id = $1;`
	m, err := scanShopkeeperRow(r.Pool.QueryRow(ctx, query, shopkeeperID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find shopkeeper %s: %w", shopkeeperID, err)
	}
	sk := mapping.ToDomainShopkeeper(m)
	return &sk, nil
}

func (r *PgxShopkeeperRepository) FindShopkeeperByUserID(ctx context.Context, userID string) (*domain.Shopkeeper, error) {
	query := `SELECT ` + shopkeeperColumns + ` FROM shopkeepers WHERE user_id = $1;`
	m, err := scanShopkeeperRow(r.Pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find shopkeeper for user %s: %w", userID, err)
	}
	sk := mapping.ToDomainShopkeeper(m)
	return &sk, nil
}

func (r *PgxShopkeeperRepository) ListShopkeepers(ctx context.Context, limit int, offset int) ([]domain.Shopkeeper, int64, error) {
	var total int64
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM shopkeepers`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count shopkeepers: %w", err)
	}

	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + shopkeeperColumns + ` FROM shopkeepers ORDER BY created_at DESC LIMIT $1 OFFSET $2;`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list shopkeepers: %w", err)
	}
	defer rows.Close()

	var shopkeepers []domain.Shopkeeper
	for rows.Next() {
		m, err := scanShopkeeperRow(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan shopkeeper row: %w", err)
		}
		shopkeepers = append(shopkeepers, mapping.ToDomainShopkeeper(m))
	}
	return shopkeepers, total, rows.Err()
}

func (r *PgxShopkeeperRepository) UpdateShopkeeper(ctx context.Context, sk domain.Shopkeeper) error {
	m := mapping.ToModelShopkeeper(sk)
	query := `
		UPDATE shopkeepers SET
			shop_name = $2, owner_name = $3, phone_number = $4, email = $5,
			address = $6, city = $7, state = $8, pincode = $9,
			gst_number = $10, pan_number = $11, aadhar_number = $12,
			owner_photo = $13, shop_image = $14,
			last_updated_at = $15, last_updated_by = $16
		WHERE shopkeeper_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.ShopkeeperID, m.ShopName, m.OwnerName, m.PhoneNumber, m.Email,
		m.Address, m.City, m.State, m.Pincode,
		m.GSTNumber, m.PanNumber, m.AadharNumber,
		m.OwnerPhoto, m.ShopImage,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update shopkeeper %s: %w", sk.ShopkeeperID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeductTokens decrements the balance only when it covers the amount. The
// guard lives in the WHERE clause so concurrent submissions can never drive
// the balance negative.
func (r *PgxShopkeeperRepository) DeductTokens(ctx context.Context, shopkeeperID string, amount int64) error {
	query := `
		UPDATE shopkeepers
		SET token_balance = token_balance - $2
		WHERE shopkeeper_id = $1 AND token_balance >= $2;
	`
	tag, err := r.Pool.Exec(ctx, query, shopkeeperID, amount)
	if err != nil {
		return fmt.Errorf("failed to deduct tokens for shopkeeper %s: %w", shopkeeperID, err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM shopkeepers WHERE shopkeeper_id = $1)`, shopkeeperID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check shopkeeper %s: %w", shopkeeperID, err)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return apperrors.ErrInsufficientBalance
	}
	return nil
}

func (r *PgxShopkeeperRepository) AddTokens(ctx context.Context, shopkeeperID string, amount int64) error {
	query := `
		UPDATE shopkeepers
		SET token_balance = token_balance + $2
		WHERE shopkeeper_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, shopkeeperID, amount)
	if err != nil {
		return fmt.Errorf("failed to credit tokens for shopkeeper %s: %w", shopkeeperID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
