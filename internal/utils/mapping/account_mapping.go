package mapping

import (
	"github.com/softblue/bank_backend/internal/core/domain"
	"github.com/softblue/bank_backend/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	m := models.Account{
		AccountID:     d.AccountID,
		AccountNumber: d.AccountNumber,
		CustomerID:    d.CustomerID,
		AccountType:   models.AccountType(d.AccountType),
		Balance:       d.Balance,
		OriginCity:    d.OriginCity,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
	if d.Details.Savings != nil {
		rate := d.Details.Savings.InterestRate
		m.InterestRate = &rate
	}
	if d.Details.Checking != nil {
		limit := d.Details.Checking.OverdraftLimit
		m.OverdraftLimit = &limit
	}
	return m
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	d := domain.Account{
		AccountID:     m.AccountID,
		AccountNumber: m.AccountNumber,
		CustomerID:    m.CustomerID,
		AccountType:   domain.AccountType(m.AccountType),
		Balance:       m.Balance,
		OriginCity:    m.OriginCity,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
	switch d.AccountType {
	case domain.Savings:
		details := &domain.SavingsDetails{}
		if m.InterestRate != nil {
			details.InterestRate = *m.InterestRate
		}
		d.Details.Savings = details
	case domain.Checking:
		details := &domain.CheckingDetails{}
		if m.OverdraftLimit != nil {
			details.OverdraftLimit = *m.OverdraftLimit
		}
		d.Details.Checking = details
	}
	return d
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
