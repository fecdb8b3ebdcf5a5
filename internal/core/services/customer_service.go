package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/softblue/bank_backend/internal/apperrors"
	"github.com/softblue/bank_backend/internal/core/domain"
	portsrepo "github.com/softblue/bank_backend/internal/core/ports/repositories"
	portssvc "github.com/softblue/bank_backend/internal/core/ports/services"
	"github.com/softblue/bank_backend/internal/dto"
	"github.com/softblue/bank_backend/internal/utils"
)

const (
	minPasswordLength       = 8
	defaultCustomerPageSize = 20
	maxCustomerPageSize     = 100
)

// TokenSettings configures the access tokens issued at login.
type TokenSettings struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

// CustomerService registers, authenticates and looks up customers.
type CustomerService struct {
	BaseService
	customerRepo portsrepo.CustomerRepositoryFacade
	tokens       TokenSettings
}

// NewCustomerService creates a new customer service.
func NewCustomerService(repo portsrepo.CustomerRepositoryFacade, tokens TokenSettings, opts ...ServiceOption) *CustomerService {
	svc := &CustomerService{
		customerRepo: repo,
		tokens:       tokens,
	}
	svc.apply(opts)
	return svc
}

var _ portssvc.CustomerSvcFacade = (*CustomerService)(nil)

func (s *CustomerService) RegisterCustomer(ctx context.Context, req dto.RegisterCustomerRequest) (*domain.Customer, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	customerType := domain.CustomerType(strings.ToLower(strings.TrimSpace(req.CustomerType)))

	switch {
	case name == "":
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	case email == "":
		return nil, fmt.Errorf("%w: email is required", apperrors.ErrValidation)
	case !customerType.IsValid():
		return nil, fmt.Errorf("%w: unknown customer type %q", apperrors.ErrValidation, req.CustomerType)
	case len(req.Password) < minPasswordLength:
		return nil, fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrValidation, minPasswordLength)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.Now()
	customer := domain.Customer{
		CustomerID:   uuid.NewString(),
		Name:         name,
		Email:        email,
		CustomerType: customerType,
		PasswordHash: hash,
		AccountIDs:   []string{},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.customerRepo.SaveCustomer(ctx, customer); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save customer")
		}
		return nil, err
	}

	s.LogInfo(ctx, "Customer registered",
		slog.String("customer_id", customer.CustomerID),
		slog.String("customer_type", string(customer.CustomerType)))
	return &customer, nil
}

func (s *CustomerService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	invalid := fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)

	customer, err := s.customerRepo.FindCustomerByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, invalid
		}
		s.LogError(ctx, err, "Failed to look up customer for login")
		return nil, err
	}
	if !utils.CheckPasswordHash(req.Password, customer.PasswordHash) {
		s.GetLogger(ctx).Warn("Login failed", slog.String("customer_id", customer.CustomerID))
		return nil, invalid
	}

	token, expiresAt, err := utils.GenerateJWT(customer.CustomerID, s.tokens.Secret, s.tokens.Expiry, s.tokens.Issuer, s.Now())
	if err != nil {
		s.LogError(ctx, err, "Failed to sign access token", slog.String("customer_id", customer.CustomerID))
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	s.LogInfo(ctx, "Customer logged in", slog.String("customer_id", customer.CustomerID))
	return &dto.LoginResponse{
		Token:      token,
		CustomerID: customer.CustomerID,
		ExpiresAt:  expiresAt,
	}, nil
}

func (s *CustomerService) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	customer, err := s.customerRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get customer", slog.String("customer_id", customerID))
		}
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) ListCustomers(ctx context.Context, limit, offset int) ([]domain.Customer, error) {
	if limit <= 0 {
		limit = defaultCustomerPageSize
	}
	if limit > maxCustomerPageSize {
		limit = maxCustomerPageSize
	}
	if offset < 0 {
		offset = 0
	}

	customers, err := s.customerRepo.ListCustomers(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list customers")
		return nil, err
	}
	return customers, nil
}
