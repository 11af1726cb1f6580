package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/maxborn/loan_management_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		LoanRepo:         newPgxLoanRepository(dbPool),
		NotificationRepo: newPgxNotificationRepository(dbPool),
		CustomerRepo:     newPgxCustomerRepository(dbPool),
		ShopkeeperRepo:   newPgxShopkeeperRepository(dbPool),
		UserRepo:         newPgxUserRepository(dbPool),
	}
}
