package service

import (
	"context"
	"errors"
	"fmt"

	"bebida-express/internal/domain"
	"bebida-express/internal/insight"
	"bebida-express/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PromoTitle is the title of the notification sent when a promotion is saved
const PromoTitle = "New promotion!"

// CatalogService defines the interface for catalog browsing and management
type CatalogService interface {
	// ListProducts returns the catalog of storeID, or every product when storeID is empty.
	ListProducts(ctx context.Context, storeID string) ([]domain.Product, error)
	SaveProduct(ctx context.Context, sess domain.Session, product *domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, sess domain.Session, id string) error
	Recommendations(ctx context.Context, limit int) ([]domain.Product, error)
	Combos(ctx context.Context) ([]domain.Product, error)
}

type catalogService struct {
	productRepo   repository.ProductRepository
	notifications NotificationService
	logger        *zap.Logger
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(productRepo repository.ProductRepository, notifications NotificationService, logger *zap.Logger) CatalogService {
	return &catalogService{
		productRepo:   productRepo,
		notifications: notifications,
		logger:        logger,
	}
}

func (s *catalogService) ListProducts(ctx context.Context, storeID string) ([]domain.Product, error) {
	products, err := s.productRepo.List(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// SaveProduct creates or replaces a product. The store defaults to the
// session's store. Sales count is owned by order creation and is carried
// over from the stored copy.
func (s *catalogService) SaveProduct(ctx context.Context, sess domain.Session, product *domain.Product) (*domain.Product, error) {
	if product.StoreID == "" {
		product.StoreID = sess.StoreID
	}
	if !sess.CanManageStore(product.StoreID) {
		return nil, domain.ErrForbidden
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if product.ID == "" {
		product.ID = uuid.NewString()
	}

	// Ownership and sales count are decided against the copy being replaced
	err := s.productRepo.Upsert(ctx, product, func(existing *domain.Product) error {
		product.SalesCount = 0
		if existing == nil {
			return nil
		}
		if existing.StoreID != product.StoreID {
			return domain.ErrForbidden
		}
		product.SalesCount = existing.SalesCount
		return nil
	})
	if errors.Is(err, domain.ErrForbidden) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}
	s.logger.Info("Product saved",
		zap.String("product_id", product.ID),
		zap.String("store_id", product.StoreID),
	)

	if product.IsPromo {
		message := fmt.Sprintf("%s is on sale for only R$ %s. Don't miss it!", product.Name, product.Price.StringFixed(2))
		if _, err := s.notifications.Broadcast(ctx, PromoTitle, message, domain.NotificationTypePromo); err != nil {
			return nil, err
		}
	}

	return product, nil
}

func validateProduct(p *domain.Product) error {
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: name is required", domain.ErrInvalidProduct)
	case p.Price.IsNegative():
		return fmt.Errorf("%w: price must not be negative", domain.ErrInvalidProduct)
	case p.Stock < 0:
		return fmt.Errorf("%w: stock must not be negative", domain.ErrInvalidProduct)
	case !p.Category.Valid():
		return fmt.Errorf("%w: unknown category %q", domain.ErrInvalidProduct, p.Category)
	}
	return nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, sess domain.Session, id string) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !sess.CanManageStore(product.StoreID) {
		return domain.ErrForbidden
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Product deleted", zap.String("product_id", id))
	return nil
}

// Recommendations returns the best sellers across every store
func (s *catalogService) Recommendations(ctx context.Context, limit int) ([]domain.Product, error) {
	products, err := s.ListProducts(ctx, "")
	if err != nil {
		return nil, err
	}
	return insight.Recommendations(products, limit), nil
}

func (s *catalogService) Combos(ctx context.Context) ([]domain.Product, error) {
	products, err := s.ListProducts(ctx, "")
	if err != nil {
		return nil, err
	}
	return insight.Combos(products), nil
}
