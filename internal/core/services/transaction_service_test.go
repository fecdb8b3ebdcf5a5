package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/softblue/bank_backend/internal/apperrors"
	"github.com/softblue/bank_backend/internal/core/domain"
	portssvc "github.com/softblue/bank_backend/internal/core/ports/services"
	"github.com/softblue/bank_backend/internal/core/services"
	"github.com/softblue/bank_backend/internal/dto"
	"github.com/softblue/bank_backend/internal/platform/config"
	"github.com/softblue/bank_backend/internal/platform/locking"
	"github.com/softblue/bank_backend/internal/platform/notification"
	"github.com/softblue/bank_backend/internal/repositories/memory"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:                "test-secret",
		JWTExpiryDuration:        time.Hour,
		JWTIssuer:                "test",
		SavingsInterestRate:      dec("0.01"),
		CheckingOverdraftLimit:   dec("100"),
		LargeWithdrawalThreshold: dec("1000000"),
	}
}

// BankTestSuite exercises the services end to end on the in-memory store.
type BankTestSuite struct {
	suite.Suite
	ctx       context.Context
	store     *memory.Store
	clock     *testClock
	cache     *fakeBalanceCache
	notifier  *recordingNotifier
	container *portssvc.ServiceContainer
}

func (s *BankTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.clock = newTestClock(time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC))
	s.cache = newFakeBalanceCache()
	s.notifier = &recordingNotifier{}
	s.container = services.NewServiceContainer(testConfig(), s.store.Repositories(), services.Infrastructure{
		Locker:   locking.NewLocal(),
		Cache:    s.cache,
		Notifier: s.notifier,
	}, services.WithClock(s.clock.Now))
}

func TestBankTestSuite(t *testing.T) {
	suite.Run(t, new(BankTestSuite))
}

func (s *BankTestSuite) registerCustomer(email string, customerType domain.CustomerType) *domain.Customer {
	customer, err := s.container.Customer.RegisterCustomer(s.ctx, dto.RegisterCustomerRequest{
		Name:         "Test " + string(customerType),
		Email:        email,
		CustomerType: string(customerType),
		Password:     "correct-horse",
	})
	s.Require().NoError(err)
	return customer
}

func (s *BankTestSuite) openAccount(customerID string, accountType domain.AccountType, initial string) *domain.Account {
	account, err := s.container.Account.CreateAccount(s.ctx, dto.CreateAccountRequest{
		CustomerID:     customerID,
		AccountType:    string(accountType),
		InitialBalance: dec(initial),
		OriginCity:     "New York",
	})
	s.Require().NoError(err)
	return account
}

func (s *BankTestSuite) apply(accountID, amount string, txnType domain.TransactionType) (*domain.Transaction, error) {
	return s.container.Transaction.ApplyTransaction(s.ctx, dto.ApplyTransactionRequest{
		AccountID:       accountID,
		Amount:          dec(amount),
		Type:            string(txnType),
		TransactionCity: "New York",
	})
}

func withdrawal(accountID, amount, city string) dto.ApplyTransactionRequest {
	return dto.ApplyTransactionRequest{
		AccountID:       accountID,
		Amount:          dec(amount),
		Type:            string(domain.Withdrawal),
		TransactionCity: city,
	}
}

func (s *BankTestSuite) balance(accountID string) decimal.Decimal {
	account, err := s.container.Account.GetAccountByID(s.ctx, accountID)
	s.Require().NoError(err)
	return account.Balance
}

func (s *BankTestSuite) entries(accountID string) []dto.TransactionResponse {
	page, err := s.container.Transaction.ListTransactions(s.ctx, accountID, dto.ListTransactionsParams{Limit: 100})
	s.Require().NoError(err)
	return page.Transactions
}

func (s *BankTestSuite) savingsAccount(initial string) *domain.Account {
	customer := s.registerCustomer("ana@example.com", domain.PersonaNatural)
	return s.openAccount(customer.CustomerID, domain.Savings, initial)
}

func (s *BankTestSuite) TestScenarioA_OpeningDeposit() {
	account := s.savingsAccount("100")

	s.True(account.Balance.Equal(dec("100")))
	s.Require().NotNil(account.Details.Savings)
	s.True(account.Details.Savings.InterestRate.Equal(dec("0.01")))
	s.Len(account.AccountNumber, 6)

	entries := s.entries(account.AccountID)
	s.Require().Len(entries, 1)
	s.Equal(domain.Deposit, entries[0].Type)
	s.True(entries[0].Amount.Equal(dec("100")))
	s.Equal("New York", entries[0].TransactionCity)

	cached, ok := s.cache.get(account.AccountID)
	s.True(ok)
	s.True(cached.Equal(dec("100")))
	s.Equal([]string{domain.TopicAccountCreated, domain.TopicTransactionCreated}, s.notifier.topics())

	customer, err := s.container.Customer.FindCustomerByID(s.ctx, account.CustomerID)
	s.Require().NoError(err)
	s.Contains(customer.AccountIDs, account.AccountID)
}

func (s *BankTestSuite) TestScenarioB_Withdrawal() {
	account := s.savingsAccount("100")

	txn, err := s.apply(account.AccountID, "50", domain.Withdrawal)
	s.Require().NoError(err)
	s.True(txn.BalanceAfter.Equal(dec("50")))
	s.True(s.balance(account.AccountID).Equal(dec("50")))
	s.Len(s.entries(account.AccountID), 2)

	cached, _ := s.cache.get(account.AccountID)
	s.True(cached.Equal(dec("50")))
}

func (s *BankTestSuite) TestScenarioC_InsufficientFunds() {
	account := s.savingsAccount("100")
	_, err := s.apply(account.AccountID, "50", domain.Withdrawal)
	s.Require().NoError(err)

	_, err = s.apply(account.AccountID, "1000", domain.Withdrawal)
	s.ErrorIs(err, apperrors.ErrInsufficientFunds)

	var amountErr *apperrors.AmountError
	s.Require().True(errors.As(err, &amountErr))
	s.True(amountErr.Amount.Equal(dec("1000")))
	s.Require().NotNil(amountErr.Available)
	s.True(amountErr.Available.Equal(dec("50")))

	s.True(s.balance(account.AccountID).Equal(dec("50")))
	s.Len(s.entries(account.AccountID), 2)
	s.Equal(2, s.notifier.count(domain.TopicTransactionCreated))
}

func (s *BankTestSuite) TestScenarioD_ConcurrentWithdrawals() {
	account := s.savingsAccount("100")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.apply(account.AccountID, "60", domain.Withdrawal)
		}(i)
	}
	wg.Wait()

	succeeded, rejected := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, apperrors.ErrInsufficientFunds):
			rejected++
		}
	}
	s.Equal(1, succeeded)
	s.Equal(1, rejected)
	s.True(s.balance(account.AccountID).Equal(dec("40")))
}

func (s *BankTestSuite) TestScenarioE_ZeroAmount() {
	account := s.savingsAccount("100")

	_, err := s.apply(account.AccountID, "0", domain.Deposit)
	s.ErrorIs(err, apperrors.ErrInvalidAmount)
	s.Equal("invalid_amount", apperrors.Kind(err))
	s.Len(s.entries(account.AccountID), 1)
}

func (s *BankTestSuite) TestApplyTransaction_Validation() {
	account := s.savingsAccount("100")

	_, err := s.apply(account.AccountID, "10", domain.TransactionType("transfer"))
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.apply(account.AccountID, "-5", domain.Deposit)
	s.ErrorIs(err, apperrors.ErrInvalidAmount)

	_, err = s.apply(account.AccountID, "1.005", domain.Deposit)
	s.ErrorIs(err, apperrors.ErrInvalidAmount)

	_, err = s.apply(account.AccountID, "1e21", domain.Deposit)
	s.ErrorIs(err, apperrors.ErrInvalidAmount)
	s.False(apperrors.IsRetryable(err))
	var amountErr *apperrors.AmountError
	s.Require().ErrorAs(err, &amountErr)
	s.True(amountErr.Amount.Equal(dec("1e21")))

	_, err = s.apply(account.AccountID, domain.MaxAmount.String(), domain.Deposit)
	s.ErrorIs(err, apperrors.ErrInvalidAmount)

	_, err = s.apply("missing-account", "10", domain.Deposit)
	s.ErrorIs(err, apperrors.ErrNotFound)

	s.True(s.balance(account.AccountID).Equal(dec("100")))
}

func (s *BankTestSuite) TestApplyTransaction_NotFoundBeforeInvalidAmount() {
	_, err := s.apply("missing-account", "0", domain.Deposit)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *BankTestSuite) TestCheckingOverdraft() {
	company := s.registerCustomer("acme@example.com", domain.Empresa)
	account := s.openAccount(company.CustomerID, domain.Checking, "0")
	s.Require().NotNil(account.Details.Checking)
	s.True(account.Details.Checking.OverdraftLimit.Equal(dec("100")))
	s.Empty(s.entries(account.AccountID))
	s.Equal([]string{domain.TopicAccountCreated}, s.notifier.topics())

	_, err := s.apply(account.AccountID, "100", domain.Withdrawal)
	s.Require().NoError(err)
	s.True(s.balance(account.AccountID).Equal(dec("-100")))

	_, err = s.apply(account.AccountID, "0.01", domain.Withdrawal)
	s.ErrorIs(err, apperrors.ErrInsufficientFunds)
}

func (s *BankTestSuite) TestCreateAccount_PolicyAndValidation() {
	person := s.registerCustomer("ana@example.com", domain.PersonaNatural)
	company := s.registerCustomer("acme@example.com", domain.Empresa)

	_, err := s.container.Account.CreateAccount(s.ctx, dto.CreateAccountRequest{
		CustomerID: person.CustomerID, AccountType: "checking", OriginCity: "Bogota",
	})
	s.ErrorIs(err, apperrors.ErrPolicyViolation)

	_, err = s.container.Account.CreateAccount(s.ctx, dto.CreateAccountRequest{
		CustomerID: company.CustomerID, AccountType: "savings", OriginCity: "Bogota",
	})
	s.ErrorIs(err, apperrors.ErrPolicyViolation)

	_, err = s.container.Account.CreateAccount(s.ctx, dto.CreateAccountRequest{
		CustomerID: person.CustomerID, AccountType: "brokerage", OriginCity: "Bogota",
	})
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.container.Account.CreateAccount(s.ctx, dto.CreateAccountRequest{
		CustomerID: person.CustomerID, AccountType: "savings", InitialBalance: dec("-1"), OriginCity: "Bogota",
	})
	s.ErrorIs(err, apperrors.ErrInvalidAmount)

	_, err = s.container.Account.CreateAccount(s.ctx, dto.CreateAccountRequest{
		CustomerID: person.CustomerID, AccountType: "savings", InitialBalance: dec("1e21"), OriginCity: "Bogota",
	})
	s.ErrorIs(err, apperrors.ErrInvalidAmount)

	_, err = s.container.Account.CreateAccount(s.ctx, dto.CreateAccountRequest{
		CustomerID: "nobody", AccountType: "savings", OriginCity: "Bogota",
	})
	s.ErrorIs(err, apperrors.ErrNotFound)

	accounts, err := s.container.Account.ListAccountsByCustomer(s.ctx, person.CustomerID)
	s.Require().NoError(err)
	s.Empty(accounts)
	s.Empty(s.notifier.topics())
}

func (s *BankTestSuite) TestIdempotencyKey() {
	account := s.savingsAccount("100")
	req := dto.ApplyTransactionRequest{
		AccountID:       account.AccountID,
		Amount:          dec("25"),
		Type:            "deposit",
		TransactionCity: "New York",
		IdempotencyKey:  "retry-1",
	}

	first, err := s.container.Transaction.ApplyTransaction(s.ctx, req)
	s.Require().NoError(err)
	second, err := s.container.Transaction.ApplyTransaction(s.ctx, req)
	s.Require().NoError(err)

	s.Equal(first.TransactionID, second.TransactionID)
	s.True(s.balance(account.AccountID).Equal(dec("125")))
	s.Len(s.entries(account.AccountID), 2)
	s.Equal(2, s.notifier.count(domain.TopicTransactionCreated))

	req.Amount = dec("30")
	_, err = s.container.Transaction.ApplyTransaction(s.ctx, req)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.True(s.balance(account.AccountID).Equal(dec("125")))
}

func (s *BankTestSuite) TestIdempotencyKey_ReplayMatchesStoredTimestamp() {
	account := s.savingsAccount("100")
	s.clock.Set(time.Date(2024, 3, 11, 14, 30, 0, 123456789, time.UTC))
	req := dto.ApplyTransactionRequest{
		AccountID:       account.AccountID,
		Amount:          dec("5"),
		Type:            "deposit",
		TransactionCity: "New York",
		IdempotencyKey:  "retry-2",
	}

	first, err := s.container.Transaction.ApplyTransaction(s.ctx, req)
	s.Require().NoError(err)
	s.True(first.CreatedAt.Equal(time.Date(2024, 3, 11, 14, 30, 0, 123456000, time.UTC)), "got %s", first.CreatedAt)

	s.clock.Advance(time.Second)
	second, err := s.container.Transaction.ApplyTransaction(s.ctx, req)
	s.Require().NoError(err)
	s.Equal(first.TransactionID, second.TransactionID)
	s.True(first.CreatedAt.Equal(second.CreatedAt))
	s.True(first.BalanceAfter.Equal(second.BalanceAfter))
}

func (s *BankTestSuite) TestAtomicity_FailureBetweenLedgerAndBalance() {
	account := s.savingsAccount("100")
	s.store.SetFaultHook(func(op string) error {
		if op == memory.OpUpdateBalance {
			return errors.New("connection reset")
		}
		return nil
	})

	_, err := s.apply(account.AccountID, "40", domain.Withdrawal)
	s.ErrorIs(err, apperrors.ErrStorage)
	s.True(apperrors.IsRetryable(err))

	s.store.SetFaultHook(nil)
	s.True(s.balance(account.AccountID).Equal(dec("100")))
	s.Len(s.entries(account.AccountID), 1)
	s.Equal(1, s.notifier.count(domain.TopicTransactionCreated))
}

func (s *BankTestSuite) TestAtomicity_CommitFailure() {
	account := s.savingsAccount("100")
	s.store.SetFaultHook(func(op string) error {
		if op == memory.OpCommit {
			return errors.New("commit lost")
		}
		return nil
	})

	_, err := s.apply(account.AccountID, "40", domain.Deposit)
	s.ErrorIs(err, apperrors.ErrStorage)

	s.store.SetFaultHook(nil)
	s.True(s.balance(account.AccountID).Equal(dec("100")))
	cached, _ := s.cache.get(account.AccountID)
	s.True(cached.Equal(dec("100")))
}

func (s *BankTestSuite) TestConcurrentTraffic_BalanceMatchesLedger() {
	account := s.savingsAccount("500")

	var wg sync.WaitGroup
	for i := range 40 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			txnType := domain.Deposit
			if i%2 == 0 {
				txnType = domain.Withdrawal
			}
			amount := decimal.NewFromInt(int64(rand.IntN(90) + 10))
			_, _ = s.container.Transaction.ApplyTransaction(s.ctx, dto.ApplyTransactionRequest{
				AccountID:       account.AccountID,
				Amount:          amount,
				Type:            string(txnType),
				TransactionCity: "New York",
			})
		}(i)
	}
	wg.Wait()

	total := decimal.Zero
	for _, e := range s.entries(account.AccountID) {
		if e.Type == domain.Deposit {
			total = total.Add(e.Amount)
		} else {
			total = total.Sub(e.Amount)
		}
	}
	balance := s.balance(account.AccountID)
	s.True(balance.Equal(total), "balance %s ledger %s", balance, total)
	s.False(balance.IsNegative())
}

func (s *BankTestSuite) TestListTransactions_Pagination() {
	account := s.savingsAccount("1")
	for range 4 {
		s.clock.Advance(time.Minute)
		_, err := s.apply(account.AccountID, "1", domain.Deposit)
		s.Require().NoError(err)
	}

	first, err := s.container.Transaction.ListTransactions(s.ctx, account.AccountID, dto.ListTransactionsParams{Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(first.Transactions, 2)
	s.Require().NotNil(first.NextToken)
	s.True(first.Transactions[0].BalanceAfter.Equal(dec("5")))

	second, err := s.container.Transaction.ListTransactions(s.ctx, account.AccountID, dto.ListTransactionsParams{Limit: 2, NextToken: first.NextToken})
	s.Require().NoError(err)
	s.Require().Len(second.Transactions, 2)
	s.Require().NotNil(second.NextToken)

	third, err := s.container.Transaction.ListTransactions(s.ctx, account.AccountID, dto.ListTransactionsParams{Limit: 2, NextToken: second.NextToken})
	s.Require().NoError(err)
	s.Require().Len(third.Transactions, 1)
	s.Nil(third.NextToken)
	s.True(third.Transactions[0].BalanceAfter.Equal(dec("1")))

	bad := "not-a-token!"
	_, err = s.container.Transaction.ListTransactions(s.ctx, account.AccountID, dto.ListTransactionsParams{Limit: 2, NextToken: &bad})
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.container.Transaction.ListTransactions(s.ctx, "missing", dto.ListTransactionsParams{})
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *BankTestSuite) TestGetBalance_UsesCache() {
	account := s.savingsAccount("100")

	s.Require().NoError(s.cache.SetBalance(s.ctx, account.AccountID, dec("999")))
	balance, err := s.container.Account.GetBalance(s.ctx, account.AccountID)
	s.Require().NoError(err)
	s.True(balance.Equal(dec("999")))

	s.Require().NoError(s.cache.DeleteBalance(s.ctx, account.AccountID))
	balance, err = s.container.Account.GetBalance(s.ctx, account.AccountID)
	s.Require().NoError(err)
	s.True(balance.Equal(dec("100")))
	cached, ok := s.cache.get(account.AccountID)
	s.True(ok)
	s.True(cached.Equal(dec("100")))

	s.cache.getErr = errors.New("redis down")
	balance, err = s.container.Account.GetBalance(s.ctx, account.AccountID)
	s.Require().NoError(err)
	s.True(balance.Equal(dec("100")))

	_, err = s.container.Account.GetBalance(s.ctx, "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *BankTestSuite) TestGetBalance_DeleteDuringCacheFillLeavesNoEntry() {
	account := s.savingsAccount("100")
	s.Require().NoError(s.cache.DeleteBalance(s.ctx, account.AccountID))

	deleted := make(chan error, 1)
	s.cache.beforePrime = func(string) {
		s.cache.beforePrime = nil
		go func() {
			deleted <- s.container.Account.DeleteAccount(s.ctx, account.AccountID)
		}()
		// Give the delete a chance to run ahead of the prime.
		time.Sleep(50 * time.Millisecond)
	}

	balance, err := s.container.Account.GetBalance(s.ctx, account.AccountID)
	s.Require().NoError(err)
	s.True(balance.Equal(dec("100")))

	select {
	case err := <-deleted:
		s.Require().NoError(err)
	case <-time.After(2 * time.Second):
		s.FailNow("delete did not finish")
	}

	_, ok := s.cache.get(account.AccountID)
	s.False(ok)
	_, err = s.container.Account.GetBalance(s.ctx, account.AccountID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *BankTestSuite) TestDeleteAccount_Cascades() {
	account := s.savingsAccount("100")
	_, err := s.apply(account.AccountID, "10", domain.Deposit)
	s.Require().NoError(err)

	s.Require().NoError(s.container.Account.DeleteAccount(s.ctx, account.AccountID))

	_, err = s.container.Account.GetAccountByID(s.ctx, account.AccountID)
	s.ErrorIs(err, apperrors.ErrNotFound)
	_, err = s.container.Transaction.ListTransactions(s.ctx, account.AccountID, dto.ListTransactionsParams{})
	s.ErrorIs(err, apperrors.ErrNotFound)
	_, ok := s.cache.get(account.AccountID)
	s.False(ok)

	customer, err := s.container.Customer.FindCustomerByID(s.ctx, account.CustomerID)
	s.Require().NoError(err)
	s.NotContains(customer.AccountIDs, account.AccountID)
	s.Equal(1, s.notifier.count(domain.TopicAccountDeleted))

	s.ErrorIs(s.container.Account.DeleteAccount(s.ctx, account.AccountID), apperrors.ErrNotFound)
}

// MockPublisher is a mock notification publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Name() string { return "mock" }

func (m *MockPublisher) Publish(ctx context.Context, event domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func TestApplyTransaction_NotificationFailureIsIsolated(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	publisher := new(MockPublisher)
	publisher.On("Publish", mock.Anything, mock.AnythingOfType("domain.Event")).Return(errors.New("broker unavailable"))

	dispatcher := notification.NewDispatcher(slog.New(slog.NewTextHandler(io.Discard, nil)), 8, 1, []notification.Publisher{publisher})
	dispatcher.Start()

	container := services.NewServiceContainer(testConfig(), store.Repositories(), services.Infrastructure{
		Locker:   locking.NewLocal(),
		Notifier: dispatcher,
	})

	customer, err := container.Customer.RegisterCustomer(ctx, dto.RegisterCustomerRequest{
		Name: "Ana", Email: "ana@example.com", CustomerType: "persona_natural", Password: "correct-horse",
	})
	if err != nil {
		t.Fatal(err)
	}
	account, err := container.Account.CreateAccount(ctx, dto.CreateAccountRequest{
		CustomerID: customer.CustomerID, AccountType: "savings", InitialBalance: dec("10"), OriginCity: "Lima",
	})
	if err != nil {
		t.Fatal(err)
	}

	txn, err := container.Transaction.ApplyTransaction(ctx, dto.ApplyTransactionRequest{
		AccountID: account.AccountID, Amount: dec("5"), Type: "deposit", TransactionCity: "Lima",
	})
	if err != nil {
		t.Fatalf("notification failure leaked into ApplyTransaction: %v", err)
	}
	if !txn.BalanceAfter.Equal(dec("15")) {
		t.Fatalf("unexpected balance %s", txn.BalanceAfter)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		t.Fatal(err)
	}
	publisher.AssertNumberOfCalls(t, "Publish", 3)
}
