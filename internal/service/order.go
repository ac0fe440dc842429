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

// OrderService implements read-side business logic for orders. Orders are
// created by the checkout flow only; this service serves order history.
type OrderService struct {
	repo   repository.OrderRepository
	logger *slog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(repo repository.OrderRepository, logger *slog.Logger) *OrderService {
	return &OrderService{
		repo:   repo,
		logger: logger,
	}
}

// GetOrder retrieves an order, enforcing ownership.
func (s *OrderService) GetOrder(ctx context.Context, userID, id string) (*domain.Order, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("order id is required")
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, apperrors.NotFound("order", id)
	}

	return order, nil
}

// ListOrders returns a page of the user's order history, newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID string, params pagination.Params) (*pagination.Result[domain.Order], error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	orders, total, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	result := pagination.NewResult(orders, total, params)
	return &result, nil
}
