package dto

import (
	"time"

	"github.com/softblue/bank_backend/internal/core/domain"
)

// RegisterCustomerRequest defines the data needed to register a customer.
type RegisterCustomerRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	CustomerType string `json:"customerType" binding:"required,customertype"`
	Password     string `json:"password" binding:"required,min=8"`
}

// LoginRequest defines the credentials for a customer login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CustomerResponse defines the data returned for a customer.
type CustomerResponse struct {
	CustomerID   string              `json:"customerID"`
	Name         string              `json:"name"`
	Email        string              `json:"email"`
	CustomerType domain.CustomerType `json:"customerType"`
	AccountIDs   []string            `json:"accountIDs"`
	CreatedAt    time.Time           `json:"createdAt"`
}

// ToCustomerResponse converts a domain.Customer to CustomerResponse DTO
func ToCustomerResponse(c *domain.Customer) CustomerResponse {
	accountIDs := c.AccountIDs
	if accountIDs == nil {
		accountIDs = []string{}
	}
	return CustomerResponse{
		CustomerID:   c.CustomerID,
		Name:         c.Name,
		Email:        c.Email,
		CustomerType: c.CustomerType,
		AccountIDs:   accountIDs,
		CreatedAt:    c.CreatedAt,
	}
}

// ListCustomersParams defines query parameters for listing customers.
type ListCustomersParams struct {
	Limit  int `form:"limit,default=20" binding:"min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// ListCustomersResponse wraps the list of customers.
type ListCustomersResponse struct {
	Customers []CustomerResponse `json:"customers"`
}

// ToListCustomersResponse converts a slice of domain.Customer to ListCustomersResponse DTO
func ToListCustomersResponse(customers []domain.Customer) ListCustomersResponse {
	res := make([]CustomerResponse, len(customers))
	for i := range customers {
		res[i] = ToCustomerResponse(&customers[i])
	}
	return ListCustomersResponse{Customers: res}
}
