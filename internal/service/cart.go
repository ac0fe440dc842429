package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/zenithretail/storefront/pkg/errors"

	"github.com/zenithretail/storefront/internal/domain"
	"github.com/zenithretail/storefront/internal/event"
	"github.com/zenithretail/storefront/internal/repository"
)

// MaxQuantityPerItem caps the quantity of a single line item. Larger
// requests are clamped, not rejected.
const MaxQuantityPerItem = 100

// CartService implements the business logic for cart operations.
//
// Bad input never errors here: quantities and prices are clamped into range,
// and operations on items that are not in the cart are silent no-ops. Errors
// from this service always mean infrastructure trouble, never user mistakes.
type CartService struct {
	repo     repository.CartRepository
	producer *event.Producer
	logger   *slog.Logger
	currency string
	cartTTL  time.Duration
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, producer *event.Producer, logger *slog.Logger, currency string, cartTTL time.Duration) *CartService {
	return &CartService{
		repo:     repo,
		producer: producer,
		logger:   logger,
		currency: currency,
		cartTTL:  cartTTL,
	}
}

// GetCart retrieves the cart for a user. If no cart exists, returns a fresh
// empty cart without persisting it.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.newEmptyCart(userID), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	return cart, nil
}

// AddItem adds a product to the user's cart. If the product is already in
// the cart the quantities merge into the existing line item; the line keeps
// the unit price captured when it was first added, even if the catalog price
// has changed since. A quantity below 1 is treated as 1.
func (s *CartService) AddItem(ctx context.Context, userID string, product *domain.Product, quantity int) (*domain.Cart, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if product == nil || product.ID == "" {
		return nil, apperrors.InvalidInput("product is required")
	}

	quantity = clampQuantity(quantity)

	cart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	expectedVersion := cart.Version

	if i := cart.FindItemIndex(product.ID); i >= 0 {
		cart.Items[i].Quantity = clampQuantity(cart.Items[i].Quantity + quantity)
	} else {
		price := product.Price
		if price < 0 {
			price = 0
		}
		cart.Items = append(cart.Items, domain.LineItem{
			ID:        uuid.New().String(),
			ProductID: product.ID,
			Product:   *product,
			Price:     price,
			Quantity:  quantity,
		})
	}

	if err := s.save(ctx, cart, expectedVersion); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("user_id", userID),
		slog.String("product_id", product.ID),
		slog.Int("quantity", quantity),
	)

	return cart, nil
}

// UpdateQuantity sets the quantity of a line item. A quantity below 1
// removes the item, matching RemoveItem exactly. If the product is not in
// the cart the call is a silent no-op: the cart is returned unchanged and no
// event is published.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	cart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	i := cart.FindItemIndex(productID)
	if i < 0 {
		return cart, nil
	}
	expectedVersion := cart.Version

	if quantity < 1 {
		cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
	} else {
		if quantity > MaxQuantityPerItem {
			quantity = MaxQuantityPerItem
		}
		cart.Items[i].Quantity = quantity
	}

	if err := s.save(ctx, cart, expectedVersion); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "cart item quantity updated",
		slog.String("user_id", userID),
		slog.String("product_id", productID),
		slog.Int("quantity", quantity),
	)

	return cart, nil
}

// RemoveItem removes a line item from the cart. Removing a product that is
// not in the cart is a silent no-op.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	return s.UpdateQuantity(ctx, userID, productID, 0)
}

// ClearCart removes all items from the user's cart. Clearing a cart that is
// already empty (or does not exist) is a strict no-op: nothing is written
// and no cart.cleared event is published.
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	if userID == "" {
		return apperrors.InvalidInput("user id is required")
	}

	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("get cart for clear: %w", err)
	}
	if cart.IsEmpty() {
		return nil
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}

	if err := s.producer.PublishCartCleared(ctx, userID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("user_id", userID),
	)

	return nil
}

// save persists the cart with optimistic locking and publishes cart.updated.
func (s *CartService) save(ctx context.Context, cart *domain.Cart, expectedVersion int) error {
	now := time.Now().UTC()
	cart.UpdatedAt = now
	cart.ExpiresAt = now.Add(s.cartTTL)

	ok, err := s.repo.SaveIfVersion(ctx, cart, expectedVersion)
	if err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	if !ok {
		return apperrors.Conflict("cart was modified concurrently, please retry")
	}

	if err := s.producer.PublishCartUpdated(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("user_id", cart.UserID),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

// getOrCreateCart retrieves the cart for a user, creating an empty one if it
// does not exist.
func (s *CartService) getOrCreateCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.newEmptyCart(userID), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}

// newEmptyCart creates a new empty cart for the given user.
func (s *CartService) newEmptyCart(userID string) *domain.Cart {
	now := time.Now().UTC()
	return &domain.Cart{
		ID:        uuid.New().String(),
		UserID:    userID,
		Items:     []domain.LineItem{},
		Currency:  s.currency,
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.cartTTL),
	}
}

func clampQuantity(q int) int {
	if q < 1 {
		return 1
	}
	if q > MaxQuantityPerItem {
		return MaxQuantityPerItem
	}
	return q
}
