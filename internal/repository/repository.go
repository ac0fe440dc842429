// Package repository defines the persistence interfaces for the storefront.
// Carts and checkout sessions live in Redis; the product catalog and orders
// live in Postgres.
package repository

import (
	"context"

	"github.com/zenithretail/storefront/pkg/pagination"

	"github.com/zenithretail/storefront/internal/domain"
)

// CartRepository defines the interface for cart persistence operations.
type CartRepository interface {
	// Get retrieves a cart by its user ID.
	Get(ctx context.Context, userID string) (*domain.Cart, error)

	// Save persists a cart, overwriting any existing cart for the user.
	Save(ctx context.Context, cart *domain.Cart) error

	// SaveIfVersion persists the cart only if the stored version matches
	// expectedVersion (optimistic locking). An expectedVersion of zero
	// means the cart must not exist yet. Returns false on a version
	// mismatch without modifying the store.
	SaveIfVersion(ctx context.Context, cart *domain.Cart, expectedVersion int) (bool, error)

	// Delete removes a cart from the store by the user ID. Deleting a
	// missing cart is not an error.
	Delete(ctx context.Context, userID string) error
}

// CheckoutRepository defines the interface for checkout session persistence.
type CheckoutRepository interface {
	// Create stores a new checkout session.
	Create(ctx context.Context, session *domain.CheckoutSession) error

	// Get retrieves a session by its ID.
	Get(ctx context.Context, id string) (*domain.CheckoutSession, error)

	// GetByReference retrieves a session by its gateway transaction reference.
	GetByReference(ctx context.Context, reference string) (*domain.CheckoutSession, error)

	// Update overwrites an existing session.
	Update(ctx context.Context, session *domain.CheckoutSession) error
}

// ProductFilter narrows a catalog listing. Zero values mean "no constraint".
type ProductFilter struct {
	Category   string
	Subsidiary string
	InStock    *bool
	MinPrice   *int64
	MaxPrice   *int64
	Search     string
	Sort       string
}

// Product sort keys accepted by ProductFilter.Sort.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortName      = "name"
)

// ProductRepository defines the interface for catalog reads.
type ProductRepository interface {
	// GetByID retrieves a single product.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// List returns a filtered, sorted page of products plus the total count
	// matching the filter.
	List(ctx context.Context, filter ProductFilter, params pagination.Params) ([]domain.Product, int, error)
}

// OrderRepository defines the interface for order persistence.
type OrderRepository interface {
	// Create persists an order and its items in one transaction.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order with its items.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// GetByReference retrieves an order by its payment reference.
	GetByReference(ctx context.Context, reference string) (*domain.Order, error)

	// ListByUser returns a page of the user's orders, newest first, plus
	// the user's total order count.
	ListByUser(ctx context.Context, userID string, params pagination.Params) ([]domain.Order, int, error)
}
