package service

import (
	"context"
	"fmt"

	"bebida-express/internal/domain"
	"bebida-express/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RegisterStoreInput is the platform operator's store registration request
type RegisterStoreInput struct {
	Name     string
	Image    string
	WhatsApp string
	Address  string
	OwnerID  string
}

// StoreService defines the interface for store discovery and management
type StoreService interface {
	ListStores(ctx context.Context) ([]domain.Store, error)
	GetStore(ctx context.Context, id string) (*domain.Store, error)
	// ToggleAvailability flips the store's online flag and returns the new value.
	ToggleAvailability(ctx context.Context, sess domain.Session, storeID string) (bool, error)
	SetReputation(ctx context.Context, sess domain.Session, storeID string, score int) (*domain.Store, error)
	RegisterStore(ctx context.Context, sess domain.Session, in RegisterStoreInput) (*domain.Store, error)
	DeleteStore(ctx context.Context, sess domain.Session, storeID string) error
}

type storeService struct {
	storeRepo repository.StoreRepository
	logger    *zap.Logger
}

// NewStoreService creates a new instance of StoreService
func NewStoreService(storeRepo repository.StoreRepository, logger *zap.Logger) StoreService {
	return &storeService{storeRepo: storeRepo, logger: logger}
}

func (s *storeService) ListStores(ctx context.Context) ([]domain.Store, error) {
	stores, err := s.storeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	return stores, nil
}

func (s *storeService) GetStore(ctx context.Context, id string) (*domain.Store, error) {
	return s.storeRepo.FindByID(ctx, id)
}

func (s *storeService) ToggleAvailability(ctx context.Context, sess domain.Session, storeID string) (bool, error) {
	if storeID == "" {
		storeID = sess.StoreID
	}
	if !sess.CanManageStore(storeID) {
		return false, domain.ErrForbidden
	}

	store, err := s.storeRepo.Update(ctx, storeID, func(store *domain.Store) error {
		store.IsOnline = !store.IsOnline
		return nil
	})
	if err != nil {
		return false, err
	}

	s.logger.Info("Store availability changed",
		zap.String("store_id", store.ID),
		zap.Bool("online", store.IsOnline),
	)
	return store.IsOnline, nil
}

// SetReputation overwrites the advisory reputation score. Only the platform
// may set it.
func (s *storeService) SetReputation(ctx context.Context, sess domain.Session, storeID string, score int) (*domain.Store, error) {
	if !sess.PlatformAdmin {
		return nil, domain.ErrForbidden
	}
	if score < 0 || score > 100 {
		return nil, domain.ErrInvalidReputation
	}

	return s.storeRepo.Update(ctx, storeID, func(store *domain.Store) error {
		store.Reputation = score
		return nil
	})
}

func (s *storeService) RegisterStore(ctx context.Context, sess domain.Session, in RegisterStoreInput) (*domain.Store, error) {
	if !sess.PlatformAdmin {
		return nil, domain.ErrForbidden
	}

	store := NewStore(in)
	if err := s.storeRepo.Create(ctx, store); err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	s.logger.Info("Store registered", zap.String("store_id", store.ID))
	return store, nil
}

// DeleteStore removes the store and its catalog. Orders are kept.
func (s *storeService) DeleteStore(ctx context.Context, sess domain.Session, storeID string) error {
	if !sess.PlatformAdmin {
		return domain.ErrForbidden
	}

	if err := s.storeRepo.Delete(ctx, storeID); err != nil {
		return err
	}
	s.logger.Info("Store deleted", zap.String("store_id", storeID))
	return nil
}

// NewStore builds a freshly registered store: online, full reputation and
// the default commission rate.
func NewStore(in RegisterStoreInput) *domain.Store {
	return &domain.Store{
		ID:             uuid.NewString(),
		Name:           in.Name,
		Image:          in.Image,
		WhatsApp:       in.WhatsApp,
		Address:        in.Address,
		OwnerID:        in.OwnerID,
		CommissionRate: domain.DefaultCommissionRate,
		IsOnline:       true,
		Reputation:     domain.DefaultStoreReputation,
	}
}
