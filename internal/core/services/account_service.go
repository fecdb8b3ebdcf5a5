package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/softblue/bank_backend/internal/apperrors"
	"github.com/softblue/bank_backend/internal/core/domain"
	portsrepo "github.com/softblue/bank_backend/internal/core/ports/repositories"
	portssvc "github.com/softblue/bank_backend/internal/core/ports/services"
	"github.com/softblue/bank_backend/internal/dto"
	"github.com/softblue/bank_backend/internal/platform/metrics"
	"github.com/softblue/bank_backend/internal/utils"
)

// maxAccountNumberAttempts bounds how many random account numbers are tried before giving up.
const maxAccountNumberAttempts = 10

// AccountSettings holds the product terms and numbering used when opening accounts.
type AccountSettings struct {
	Defaults       domain.ProductDefaults
	GenerateNumber func() (string, error) // defaults to utils.GenerateAccountNumber
}

// AccountService opens, reads and removes accounts.
type AccountService struct {
	BaseService
	uow         portsrepo.UnitOfWork
	accountRepo portsrepo.AccountReader
	customers   portssvc.CustomerLookupSvc
	engine      *TransactionService
	locker      portssvc.KeyedLocker
	cache       portssvc.BalanceCache
	notifier    portssvc.Notifier
	settings    AccountSettings
}

// NewAccountService creates the account factory. Opening deposits are posted through engine.
func NewAccountService(
	repos portsrepo.RepositoryProvider,
	customers portssvc.CustomerLookupSvc,
	engine *TransactionService,
	locker portssvc.KeyedLocker,
	cache portssvc.BalanceCache,
	notifier portssvc.Notifier,
	settings AccountSettings,
	opts ...ServiceOption,
) *AccountService {
	if settings.GenerateNumber == nil {
		settings.GenerateNumber = utils.GenerateAccountNumber
	}
	svc := &AccountService{
		uow:         repos.UnitOfWork,
		accountRepo: repos.AccountRepo,
		customers:   customers,
		engine:      engine,
		locker:      locker,
		cache:       cache,
		notifier:    notifier,
		settings:    settings,
	}
	svc.apply(opts)
	return svc
}

var _ portssvc.AccountSvcFacade = (*AccountService)(nil)

func (s *AccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	account, err := s.createAccount(ctx, req)
	metrics.AccountsTotal.WithLabelValues("create", outcome(err)).Inc()
	return account, err
}

func (s *AccountService) createAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	accountType := domain.AccountType(strings.ToLower(strings.TrimSpace(req.AccountType)))
	if !accountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}
	if req.InitialBalance.IsNegative() {
		return nil, apperrors.NewInvalidAmountError(req.InitialBalance, "initial balance must not be negative")
	}
	if req.InitialBalance.IsPositive() {
		if err := domain.ValidateAmount(req.InitialBalance); err != nil {
			return nil, err
		}
	}
	originCity := strings.TrimSpace(req.OriginCity)
	if originCity == "" {
		return nil, fmt.Errorf("%w: origin city is required", apperrors.ErrValidation)
	}

	customer, err := s.customers.FindCustomerByID(ctx, req.CustomerID)
	if err != nil {
		s.LogError(ctx, err, "Customer lookup failed", slog.String("customer_id", req.CustomerID))
		return nil, err
	}
	if !customer.CustomerType.AllowsAccountType(accountType) {
		return nil, fmt.Errorf("%w: %s customers cannot open %s accounts",
			apperrors.ErrPolicyViolation, customer.CustomerType, accountType)
	}

	for attempt := 1; attempt <= maxAccountNumberAttempts; attempt++ {
		number, err := s.settings.GenerateNumber()
		if err != nil {
			return nil, fmt.Errorf("generate account number: %w", err)
		}
		exists, err := s.accountRepo.AccountNumberExists(ctx, number)
		if err != nil {
			s.LogError(ctx, err, "Failed to check account number", slog.String("account_number", number))
			return nil, err
		}
		if exists {
			s.LogDebug(ctx, "Account number taken, retrying", slog.Int("attempt", attempt))
			continue
		}

		account, err := s.openAccount(ctx, customer, accountType, number, originCity, req.InitialBalance)
		if errors.Is(err, apperrors.ErrDuplicate) {
			s.LogDebug(ctx, "Account number claimed concurrently, retrying", slog.Int("attempt", attempt))
			continue
		}
		if err != nil {
			s.LogError(ctx, err, "Failed to open account", slog.String("customer_id", customer.CustomerID))
			return nil, err
		}
		return account, nil
	}

	return nil, fmt.Errorf("%w: no free account number after %d attempts", apperrors.ErrConflict, maxAccountNumberAttempts)
}

// openAccount persists the account, links it to the customer and posts the opening deposit in one unit of work.
func (s *AccountService) openAccount(ctx context.Context, customer *domain.Customer, accountType domain.AccountType, number, originCity string, initial decimal.Decimal) (*domain.Account, error) {
	now := s.Now()
	account := domain.Account{
		AccountID:     uuid.NewString(),
		AccountNumber: number,
		CustomerID:    customer.CustomerID,
		AccountType:   accountType,
		Balance:       decimal.Zero,
		OriginCity:    originCity,
		Details:       s.settings.Defaults.DetailsFor(accountType),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	unlock, err := s.locker.Lock(ctx, accountLockKey(account.AccountID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var opening *domain.Transaction
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if err := tx.InsertAccount(ctx, account); err != nil {
			return err
		}
		if err := tx.AttachAccountToCustomer(ctx, customer.CustomerID, account.AccountID); err != nil {
			return err
		}
		if !initial.IsPositive() {
			return nil
		}

		locked, err := tx.LockAccount(ctx, account.AccountID)
		if err != nil {
			return err
		}
		entry, _, err := s.engine.post(ctx, tx, locked, entryRequest{
			txnType: domain.Deposit,
			amount:  initial,
			city:    originCity,
		})
		if err != nil {
			return err
		}
		opening = &entry
		account = *locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.refreshBalance(ctx, s.cache, account.AccountID, account.Balance)
	unlock()

	events := []domain.Event{domain.NewAccountCreatedEvent(account)}
	if opening != nil {
		events = append(events, domain.NewTransactionCreatedEvent(*opening, account.CustomerID))
	}
	s.publish(ctx, s.notifier, events...)

	s.LogInfo(ctx, "Account opened",
		slog.String("account_id", account.AccountID),
		slog.String("customer_id", account.CustomerID),
		slog.String("account_type", string(account.AccountType)),
		slog.String("initial_balance", account.Balance.String()))
	return &account, nil
}

func (s *AccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get account", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

// GetBalance serves from the balance cache and falls back to the store on a miss or cache failure.
func (s *AccountService) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	if s.cache != nil {
		balance, ok, err := s.cache.GetBalance(ctx, accountID)
		switch {
		case err != nil:
			metrics.BalanceCacheTotal.WithLabelValues("error").Inc()
			s.LogError(ctx, err, "Balance cache read failed", slog.String("account_id", accountID))
		case ok:
			metrics.BalanceCacheTotal.WithLabelValues("hit").Inc()
			return balance, nil
		default:
			metrics.BalanceCacheTotal.WithLabelValues("miss").Inc()
		}
	}

	if s.cache == nil {
		account, err := s.GetAccountByID(ctx, accountID)
		if err != nil {
			return decimal.Zero, err
		}
		return account.Balance, nil
	}

	// Read and prime under the account lock so a concurrent delete cannot evict before the prime lands.
	unlock, err := s.locker.Lock(ctx, accountLockKey(accountID))
	if err != nil {
		return decimal.Zero, err
	}
	defer unlock()

	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	if err := s.cache.PrimeBalance(ctx, accountID, account.Balance); err != nil {
		s.LogError(ctx, err, "Failed to prime balance cache", slog.String("account_id", accountID))
	}
	return account.Balance, nil
}

func (s *AccountService) ListAccountsByCustomer(ctx context.Context, customerID string) ([]domain.Account, error) {
	if _, err := s.customers.FindCustomerByID(ctx, customerID); err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.ListAccountsByCustomer(ctx, customerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("customer_id", customerID))
		return nil, err
	}
	return accounts, nil
}

// DeleteAccount removes the account, its ledger entries and the customer's reference to it.
func (s *AccountService) DeleteAccount(ctx context.Context, accountID string) error {
	err := s.deleteAccount(ctx, accountID)
	metrics.AccountsTotal.WithLabelValues("delete", outcome(err)).Inc()
	return err
}

func (s *AccountService) deleteAccount(ctx context.Context, accountID string) error {
	unlock, err := s.locker.Lock(ctx, accountLockKey(accountID))
	if err != nil {
		return err
	}
	defer unlock()

	var (
		deleted domain.Account
		removed int64
	)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		account, err := tx.LockAccount(ctx, accountID)
		if err != nil {
			return err
		}
		deleted = *account

		if removed, err = tx.DeleteTransactionsByAccount(ctx, accountID); err != nil {
			return err
		}
		if err := tx.DeleteAccount(ctx, accountID); err != nil {
			return err
		}
		return tx.DetachAccountFromCustomer(ctx, account.CustomerID, accountID)
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		}
		return err
	}

	if s.cache != nil {
		if err := s.cache.DeleteBalance(ctx, accountID); err != nil {
			s.LogError(ctx, err, "Failed to evict cached balance", slog.String("account_id", accountID))
		}
	}
	unlock()

	s.publish(ctx, s.notifier, domain.NewAccountDeletedEvent(deleted, s.Now()))
	s.LogInfo(ctx, "Account deleted",
		slog.String("account_id", accountID),
		slog.String("customer_id", deleted.CustomerID),
		slog.Int64("ledger_entries_removed", removed))
	return nil
}
