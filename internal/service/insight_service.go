package service

import (
	"context"
	"fmt"

	"bebida-express/internal/domain"
	"bebida-express/internal/insight"
	"bebida-express/internal/repository"
)

// InsightService defines the interface for the admin and platform dashboards
type InsightService interface {
	// StoreInsights covers the session's store, or every store for the platform.
	StoreInsights(ctx context.Context, sess domain.Session) (*insight.StoreInsights, error)
	Dashboard(ctx context.Context, sess domain.Session) (*insight.DashboardStats, error)
	PlatformSummary(ctx context.Context, sess domain.Session) (*insight.PlatformSummary, error)
}

type insightService struct {
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	storeRepo   repository.StoreRepository
}

// NewInsightService creates a new instance of InsightService
func NewInsightService(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	storeRepo repository.StoreRepository,
) InsightService {
	return &insightService{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		storeRepo:   storeRepo,
	}
}

func (s *insightService) scope(ctx context.Context, sess domain.Session) ([]domain.Product, []domain.Order, error) {
	if sess.StoreID == "" && !sess.PlatformAdmin {
		return nil, nil, domain.ErrForbidden
	}

	products, err := s.productRepo.List(ctx, sess.StoreID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list products: %w", err)
	}
	orders, err := s.orderRepo.List(ctx, sess.StoreID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return products, orders, nil
}

func (s *insightService) StoreInsights(ctx context.Context, sess domain.Session) (*insight.StoreInsights, error) {
	products, orders, err := s.scope(ctx, sess)
	if err != nil {
		return nil, err
	}
	result := insight.ComputeStoreInsights(products, orders)
	return &result, nil
}

func (s *insightService) Dashboard(ctx context.Context, sess domain.Session) (*insight.DashboardStats, error) {
	products, orders, err := s.scope(ctx, sess)
	if err != nil {
		return nil, err
	}
	result := insight.ComputeDashboardStats(products, orders)
	return &result, nil
}

func (s *insightService) PlatformSummary(ctx context.Context, sess domain.Session) (*insight.PlatformSummary, error) {
	if !sess.PlatformAdmin {
		return nil, domain.ErrForbidden
	}

	stores, err := s.storeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	orders, err := s.orderRepo.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	result := insight.ComputePlatformSummary(stores, orders)
	return &result, nil
}
