package services

import (
	"github.com/softblue/bank_backend/internal/core/domain"
	portsrepo "github.com/softblue/bank_backend/internal/core/ports/repositories"
	portssvc "github.com/softblue/bank_backend/internal/core/ports/services"
	"github.com/softblue/bank_backend/internal/platform/config"
)

// Infrastructure bundles the adapters services use besides the repositories.
// Cache and Notifier may be nil.
type Infrastructure struct {
	Locker   portssvc.KeyedLocker
	Cache    portssvc.BalanceCache
	Notifier portssvc.Notifier
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, infra Infrastructure, opts ...ServiceOption) *portssvc.ServiceContainer {
	customers := NewCustomerService(repos.CustomerRepo, TokenSettings{
		Secret: cfg.JWTSecret,
		Expiry: cfg.JWTExpiryDuration,
		Issuer: cfg.JWTIssuer,
	}, opts...)

	// The account factory posts opening deposits through the same engine that serves transactions.
	engine := NewTransactionService(repos, infra.Locker, infra.Cache, infra.Notifier, opts...)

	accounts := NewAccountService(repos, customers, engine, infra.Locker, infra.Cache, infra.Notifier, AccountSettings{
		Defaults: domain.ProductDefaults{
			SavingsInterestRate:    cfg.SavingsInterestRate,
			CheckingOverdraftLimit: cfg.CheckingOverdraftLimit,
		},
	}, opts...)

	return &portssvc.ServiceContainer{
		Account:     accounts,
		Transaction: engine,
		Statement:   NewStatementService(repos.TransactionRepo, opts...),
		Customer:    customers,
		Reporting:   NewReportingService(repos.ReportingRepo, cfg.LargeWithdrawalThreshold, opts...),
	}
}
