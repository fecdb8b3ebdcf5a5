package services_test

import (
	"time"

	"github.com/softblue/bank_backend/internal/apperrors"
	"github.com/softblue/bank_backend/internal/core/domain"
)

func (s *BankTestSuite) TestBuildStatement_HistoricMonthIgnoresLaterActivity() {
	s.clock.Set(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC))
	account := s.savingsAccount("100")

	s.clock.Set(time.Date(2024, 2, 3, 8, 0, 0, 0, time.UTC))
	_, err := s.apply(account.AccountID, "30", domain.Withdrawal)
	s.Require().NoError(err)
	s.clock.Set(time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC))
	_, err = s.apply(account.AccountID, "5", domain.Deposit)
	s.Require().NoError(err)

	s.clock.Set(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	_, err = s.apply(account.AccountID, "50", domain.Deposit)
	s.Require().NoError(err)

	statement, err := s.container.Statement.BuildStatement(s.ctx, account.AccountID, 2, 2024)
	s.Require().NoError(err)

	s.Equal(account.AccountNumber, statement.AccountNumber)
	s.True(statement.OpeningBalance.Equal(dec("100")))
	s.True(statement.ClosingBalance.Equal(dec("75")))
	s.Require().Len(statement.Transactions, 2)
	s.Equal(domain.Withdrawal, statement.Transactions[0].TransactionType)
	s.Equal(domain.Deposit, statement.Transactions[1].TransactionType)
	s.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), statement.Period.Start)
	s.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), statement.Period.End)

	s.True(s.balance(account.AccountID).Equal(dec("125")))
}

func (s *BankTestSuite) TestBuildStatement_CurrentMonthMatchesBalance() {
	account := s.savingsAccount("100")
	_, err := s.apply(account.AccountID, "20", domain.Withdrawal)
	s.Require().NoError(err)

	statement, err := s.container.Statement.BuildStatement(s.ctx, account.AccountID, 3, 2024)
	s.Require().NoError(err)
	s.True(statement.OpeningBalance.IsZero())
	s.True(statement.ClosingBalance.Equal(s.balance(account.AccountID)))
	s.Len(statement.Transactions, 2)
}

func (s *BankTestSuite) TestBuildStatement_IsIdempotent() {
	account := s.savingsAccount("100")

	first, err := s.container.Statement.BuildStatement(s.ctx, account.AccountID, 3, 2024)
	s.Require().NoError(err)
	second, err := s.container.Statement.BuildStatement(s.ctx, account.AccountID, 3, 2024)
	s.Require().NoError(err)
	s.True(first.OpeningBalance.Equal(second.OpeningBalance))
	s.True(first.ClosingBalance.Equal(second.ClosingBalance))
	s.Equal(first.Period, second.Period)
	s.Require().Len(second.Transactions, len(first.Transactions))
	for i := range first.Transactions {
		s.Equal(first.Transactions[i].TransactionID, second.Transactions[i].TransactionID)
	}
}

func (s *BankTestSuite) TestBuildStatement_EmptyMonth() {
	account := s.savingsAccount("100")

	statement, err := s.container.Statement.BuildStatement(s.ctx, account.AccountID, 4, 2024)
	s.Require().NoError(err)
	s.True(statement.OpeningBalance.Equal(dec("100")))
	s.True(statement.ClosingBalance.Equal(dec("100")))
	s.NotNil(statement.Transactions)
	s.Empty(statement.Transactions)
}

func (s *BankTestSuite) TestBuildStatement_Errors() {
	account := s.savingsAccount("100")

	_, err := s.container.Statement.BuildStatement(s.ctx, account.AccountID, 13, 2024)
	s.ErrorIs(err, apperrors.ErrValidation)
	_, err = s.container.Statement.BuildStatement(s.ctx, account.AccountID, 1, 0)
	s.ErrorIs(err, apperrors.ErrValidation)
	_, err = s.container.Statement.BuildStatement(s.ctx, "missing", 3, 2024)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *BankTestSuite) TestReports() {
	person := s.registerCustomer("ana@example.com", domain.PersonaNatural)
	company := s.registerCustomer("acme@example.com", domain.Empresa)
	savings := s.openAccount(person.CustomerID, domain.Savings, "500")
	checking := s.openAccount(company.CustomerID, domain.Checking, "3000000")

	_, err := s.container.Transaction.ApplyTransaction(s.ctx, withdrawal(checking.AccountID, "1200000", "Chicago"))
	s.Require().NoError(err)

	deposits, err := s.container.Reporting.ClientsByDeposits(s.ctx, 3, 2024)
	s.Require().NoError(err)
	s.Require().Len(deposits, 2)
	s.Equal(company.CustomerID, deposits[0].CustomerID)
	s.Equal(checking.AccountNumber, deposits[0].AccountNumber)
	s.True(deposits[0].TotalDeposits.Equal(dec("3000000")))
	s.Equal(savings.AccountNumber, deposits[1].AccountNumber)

	large, err := s.container.Reporting.ClientsWithLargeWithdrawals(s.ctx, 3, 2024)
	s.Require().NoError(err)
	s.Require().Len(large, 1)
	s.Equal(company.CustomerID, large[0].CustomerID)
	s.True(large[0].TotalWithdrawals.Equal(dec("1200000")))

	empty, err := s.container.Reporting.ClientsWithLargeWithdrawals(s.ctx, 4, 2024)
	s.Require().NoError(err)
	s.Empty(empty)

	_, err = s.container.Reporting.ClientsByDeposits(s.ctx, 0, 2024)
	s.ErrorIs(err, apperrors.ErrValidation)
}
