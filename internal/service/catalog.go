package service

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "github.com/zenithretail/storefront/pkg/errors"
	"github.com/zenithretail/storefront/pkg/pagination"

	"github.com/zenithretail/storefront/internal/domain"
	"github.com/zenithretail/storefront/internal/repository"
)

// CatalogService implements read-side business logic for the product catalog.
type CatalogService struct {
	repo   repository.ProductRepository
	logger *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(repo repository.ProductRepository, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:   repo,
		logger: logger,
	}
}

// GetProduct retrieves a single product.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return product, nil
}

// ListProducts returns a filtered page of the catalog.
func (s *CatalogService) ListProducts(ctx context.Context, filter repository.ProductFilter, params pagination.Params) (*pagination.Result[domain.Product], error) {
	if filter.Subsidiary != "" && !domain.IsValidSubsidiary(filter.Subsidiary) {
		return nil, apperrors.InvalidInput("unknown subsidiary: " + filter.Subsidiary)
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return nil, apperrors.InvalidInput("min_price must not exceed max_price")
	}

	products, total, err := s.repo.List(ctx, filter, params)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	result := pagination.NewResult(products, total, params)
	return &result, nil
}
