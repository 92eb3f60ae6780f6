package repository

import (
	"context"
	"errors"
	"strings"

	"bebida-express/internal/domain"
	"bebida-express/internal/kvstore"
)

var (
	ErrMerchantNotFound = errors.New("merchant not found")
)

// MerchantRepository defines the interface for merchant account data access
type MerchantRepository interface {
	Create(ctx context.Context, merchant *domain.Merchant) error
	FindByEmail(ctx context.Context, email string) (*domain.Merchant, error)
	FindByID(ctx context.Context, id string) (*domain.Merchant, error)
}

type merchantRepository struct {
	store kvstore.Store
	uow   UnitOfWork
}

// NewMerchantRepository creates a new instance of MerchantRepository
func NewMerchantRepository(store kvstore.Store) MerchantRepository {
	return &merchantRepository{store: store, uow: NewUnitOfWork(store)}
}

func (r *merchantRepository) Create(ctx context.Context, merchant *domain.Merchant) error {
	return r.uow.Do(ctx, []string{MerchantsKey}, func(tx *Tx) error {
		merchants, err := tx.Merchants()
		if err != nil {
			return err
		}
		if EmailTaken(merchants, merchant.Email) {
			return domain.ErrDuplicateRegistration
		}
		return tx.PutMerchants(append(merchants, *merchant))
	})
}

func (r *merchantRepository) FindByEmail(ctx context.Context, email string) (*domain.Merchant, error) {
	merchants, err := load[domain.Merchant](ctx, r.store, MerchantsKey)
	if err != nil {
		return nil, err
	}

	for i := range merchants {
		if strings.EqualFold(merchants[i].Email, email) {
			return &merchants[i], nil
		}
	}
	return nil, ErrMerchantNotFound
}

func (r *merchantRepository) FindByID(ctx context.Context, id string) (*domain.Merchant, error) {
	merchants, err := load[domain.Merchant](ctx, r.store, MerchantsKey)
	if err != nil {
		return nil, err
	}

	for i := range merchants {
		if merchants[i].ID == id {
			return &merchants[i], nil
		}
	}
	return nil, ErrMerchantNotFound
}

// EmailTaken reports whether a merchant already registered email, ignoring case
func EmailTaken(merchants []domain.Merchant, email string) bool {
	for _, m := range merchants {
		if strings.EqualFold(m.Email, email) {
			return true
		}
	}
	return false
}

// CustomerRepository defines the interface for customer profile data access
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	Update(ctx context.Context, customer *domain.Customer) error
	FindByID(ctx context.Context, id string) (*domain.Customer, error)
}

type customerRepository struct {
	store kvstore.Store
	uow   UnitOfWork
}

// NewCustomerRepository creates a new instance of CustomerRepository
func NewCustomerRepository(store kvstore.Store) CustomerRepository {
	return &customerRepository{store: store, uow: NewUnitOfWork(store)}
}

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	return r.uow.Do(ctx, []string{CustomersKey}, func(tx *Tx) error {
		customers, err := tx.Customers()
		if err != nil {
			return err
		}
		return tx.PutCustomers(append(customers, *customer))
	})
}

func (r *customerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	return r.uow.Do(ctx, []string{CustomersKey}, func(tx *Tx) error {
		customers, err := tx.Customers()
		if err != nil {
			return err
		}

		for i := range customers {
			if customers[i].ID == customer.ID {
				customers[i] = *customer
				return tx.PutCustomers(customers)
			}
		}
		return domain.ErrCustomerNotFound
	})
}

func (r *customerRepository) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	customers, err := load[domain.Customer](ctx, r.store, CustomersKey)
	if err != nil {
		return nil, err
	}

	for i := range customers {
		if customers[i].ID == id {
			return &customers[i], nil
		}
	}
	return nil, domain.ErrCustomerNotFound
}
