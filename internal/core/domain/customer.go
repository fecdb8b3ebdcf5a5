package domain

import "slices"

// CustomerType is the legal kind of customer.
type CustomerType string

const (
	PersonaNatural CustomerType = "persona_natural"
	Empresa        CustomerType = "empresa"
)

// IsValid reports whether t is a known customer type.
func (t CustomerType) IsValid() bool {
	return t == PersonaNatural || t == Empresa
}

// AllowsAccountType is the product policy: individuals hold savings, companies hold checking.
func (t CustomerType) AllowsAccountType(accountType AccountType) bool {
	switch t {
	case PersonaNatural:
		return accountType == Savings
	case Empresa:
		return accountType == Checking
	default:
		return false
	}
}

// Customer is an account holder.
type Customer struct {
	CustomerID   string       `json:"customerID"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	CustomerType CustomerType `json:"customerType"`
	PasswordHash string       `json:"-"`
	AccountIDs   []string     `json:"accountIDs"`
	AuditFields
}

// HasAccount reports whether accountID is in the customer's account list.
func (c Customer) HasAccount(accountID string) bool {
	return slices.Contains(c.AccountIDs, accountID)
}
