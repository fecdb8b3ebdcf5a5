package services

import (
	"context"

	"github.com/softblue/bank_backend/internal/core/domain"
	"github.com/softblue/bank_backend/internal/dto"
)

// CustomerLookupSvc resolves account holders.
type CustomerLookupSvc interface {
	// FindCustomerByID returns the customer or apperrors.ErrNotFound.
	FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)
}

// CustomerReaderSvc defines read operations for customer data
type CustomerReaderSvc interface {
	CustomerLookupSvc

	// ListCustomers retrieves a paginated list of customers.
	ListCustomers(ctx context.Context, limit, offset int) ([]domain.Customer, error)
}

// CustomerWriterSvc defines write operations for customer data
type CustomerWriterSvc interface {
	// RegisterCustomer creates a customer with a hashed password.
	RegisterCustomer(ctx context.Context, req dto.RegisterCustomerRequest) (*domain.Customer, error)
}

// CustomerAuthSvc defines operations for customer authentication
type CustomerAuthSvc interface {
	// Login checks the credentials and issues a signed access token.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}

// CustomerSvcFacade combines all customer-related service interfaces
type CustomerSvcFacade interface {
	CustomerReaderSvc
	CustomerWriterSvc
	CustomerAuthSvc
}
