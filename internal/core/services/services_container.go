package services

import (
	"log/slog"

	portsrepo "github.com/maxborn/loan_management_app/internal/core/ports/repositories"
	portssvc "github.com/maxborn/loan_management_app/internal/core/ports/services"
	"github.com/maxborn/loan_management_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, storage portssvc.FileStorage, logger *slog.Logger) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The notification service starts its dispatcher goroutine here; the
	// caller closes it on shutdown via container.Notification.Close().
	container.Notification = NewNotificationService(repos.NotificationRepo, logger)

	container.User = NewUserService(repos.UserRepo)
	container.Customer = NewCustomerService(repos.CustomerRepo)
	container.Shopkeeper = NewShopkeeperService(repos.ShopkeeperRepo, container.User)
	container.Loan = NewLoanService(repos.LoanRepo, repos.ShopkeeperRepo, repos.CustomerRepo, container.Notification, cfg)
	container.Token = NewTokenService(cfg)
	container.Storage = storage

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.LoanSvcFacade         = (*loanService)(nil)
	_ portssvc.NotificationSvcFacade = (*notificationService)(nil)
	_ portssvc.ShopkeeperSvcFacade   = (*shopkeeperService)(nil)
)
