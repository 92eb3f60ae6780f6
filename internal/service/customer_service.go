package service

import (
	"context"
	"fmt"
	"time"

	"bebida-express/internal/domain"
	"bebida-express/internal/insight"
	"bebida-express/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CustomerService defines the interface for storefront customer profiles
type CustomerService interface {
	Register(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	Get(ctx context.Context, id string) (*domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	// Greeting returns the home screen salutation for the customer.
	Greeting(ctx context.Context, id string) (string, error)
}

type customerService struct {
	customerRepo repository.CustomerRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewCustomerService creates a new instance of CustomerService
func NewCustomerService(customerRepo repository.CustomerRepository, logger *zap.Logger) CustomerService {
	return &customerService{
		customerRepo: customerRepo,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *customerService) Register(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	customer.ID = uuid.NewString()
	if customer.Preferences == nil {
		customer.Preferences = []domain.Category{}
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	s.logger.Info("Customer registered", zap.String("customer_id", customer.ID))
	return customer, nil
}

func (s *customerService) Get(ctx context.Context, id string) (*domain.Customer, error) {
	return s.customerRepo.FindByID(ctx, id)
}

func (s *customerService) Update(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if customer.Preferences == nil {
		customer.Preferences = []domain.Category{}
	}
	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) Greeting(ctx context.Context, id string) (string, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	return insight.Greeting(customer.Name, s.now()), nil
}
