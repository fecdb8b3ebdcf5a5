package mapping

import (
	"slices"

	"github.com/softblue/bank_backend/internal/core/domain"
	"github.com/softblue/bank_backend/internal/models"
)

// ToModelCustomer converts a domain Customer to a model Customer
func ToModelCustomer(d domain.Customer) models.Customer {
	accountIDs := slices.Clone(d.AccountIDs)
	if accountIDs == nil {
		accountIDs = []string{}
	}
	return models.Customer{
		CustomerID:   d.CustomerID,
		Name:         d.Name,
		Email:        d.Email,
		CustomerType: string(d.CustomerType),
		PasswordHash: d.PasswordHash,
		AccountIDs:   accountIDs,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCustomer converts a model Customer to a domain Customer
func ToDomainCustomer(m models.Customer) domain.Customer {
	accountIDs := slices.Clone(m.AccountIDs)
	if accountIDs == nil {
		accountIDs = []string{}
	}
	return domain.Customer{
		CustomerID:   m.CustomerID,
		Name:         m.Name,
		Email:        m.Email,
		CustomerType: domain.CustomerType(m.CustomerType),
		PasswordHash: m.PasswordHash,
		AccountIDs:   accountIDs,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCustomerSlice converts a slice of model Customers to a slice of domain Customers
func ToDomainCustomerSlice(ms []models.Customer) []domain.Customer {
	ds := make([]domain.Customer, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCustomer(m)
	}
	return ds
}
