package services_test

import (
	"errors"

	"github.com/softblue/bank_backend/internal/apperrors"
	"github.com/softblue/bank_backend/internal/core/domain"
	"github.com/softblue/bank_backend/internal/core/services"
	"github.com/softblue/bank_backend/internal/dto"
	"github.com/softblue/bank_backend/internal/platform/locking"
	"github.com/softblue/bank_backend/internal/repositories/memory"
)

// sequenceGenerator returns the given account numbers in order, then repeats the last one.
func sequenceGenerator(numbers ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		n := numbers[min(i, len(numbers)-1)]
		i++
		return n, nil
	}
}

func (s *BankTestSuite) accountService(generate func() (string, error)) *services.AccountService {
	repos := s.store.Repositories()
	locker := locking.NewLocal()
	engine := services.NewTransactionService(repos, locker, s.cache, s.notifier, services.WithClock(s.clock.Now))
	return services.NewAccountService(repos, s.container.Customer, engine, locker, s.cache, s.notifier, services.AccountSettings{
		Defaults:       domain.ProductDefaults{SavingsInterestRate: dec("0.02")},
		GenerateNumber: generate,
	}, services.WithClock(s.clock.Now))
}

func (s *BankTestSuite) TestCreateAccount_RetriesTakenNumbers() {
	customer := s.registerCustomer("ana@example.com", domain.PersonaNatural)
	svc := s.accountService(sequenceGenerator("111111", "111111", "222222"))

	first, err := svc.CreateAccount(s.ctx, dto.CreateAccountRequest{CustomerID: customer.CustomerID, AccountType: "savings", OriginCity: "Quito"})
	s.Require().NoError(err)
	s.Equal("111111", first.AccountNumber)
	s.True(first.Details.Savings.InterestRate.Equal(dec("0.02")))

	second, err := svc.CreateAccount(s.ctx, dto.CreateAccountRequest{CustomerID: customer.CustomerID, AccountType: "savings", OriginCity: "Quito"})
	s.Require().NoError(err)
	s.Equal("222222", second.AccountNumber)

	accounts, err := svc.ListAccountsByCustomer(s.ctx, customer.CustomerID)
	s.Require().NoError(err)
	s.Len(accounts, 2)
}

func (s *BankTestSuite) TestCreateAccount_GivesUpAfterMaxAttempts() {
	customer := s.registerCustomer("ana@example.com", domain.PersonaNatural)
	svc := s.accountService(sequenceGenerator("333333"))

	_, err := svc.CreateAccount(s.ctx, dto.CreateAccountRequest{CustomerID: customer.CustomerID, AccountType: "savings", OriginCity: "Quito"})
	s.Require().NoError(err)

	_, err = svc.CreateAccount(s.ctx, dto.CreateAccountRequest{CustomerID: customer.CustomerID, AccountType: "savings", OriginCity: "Quito"})
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *BankTestSuite) TestCreateAccount_GeneratorFailure() {
	customer := s.registerCustomer("ana@example.com", domain.PersonaNatural)
	svc := s.accountService(func() (string, error) { return "", errors.New("entropy exhausted") })

	_, err := svc.CreateAccount(s.ctx, dto.CreateAccountRequest{CustomerID: customer.CustomerID, AccountType: "savings", OriginCity: "Quito"})
	s.ErrorContains(err, "entropy exhausted")
}

func (s *BankTestSuite) TestCreateAccount_StorageFailureLeavesNothing() {
	customer := s.registerCustomer("ana@example.com", domain.PersonaNatural)
	s.store.SetFaultHook(func(op string) error {
		if op == memory.OpInsertTransaction {
			return errors.New("disk full")
		}
		return nil
	})

	_, err := s.container.Account.CreateAccount(s.ctx, dto.CreateAccountRequest{
		CustomerID: customer.CustomerID, AccountType: "savings", InitialBalance: dec("10"), OriginCity: "Quito",
	})
	s.ErrorIs(err, apperrors.ErrStorage)

	s.store.SetFaultHook(nil)
	accounts, err := s.container.Account.ListAccountsByCustomer(s.ctx, customer.CustomerID)
	s.Require().NoError(err)
	s.Empty(accounts)
	stored, err := s.container.Customer.FindCustomerByID(s.ctx, customer.CustomerID)
	s.Require().NoError(err)
	s.Empty(stored.AccountIDs)
	s.Empty(s.notifier.topics())
}
