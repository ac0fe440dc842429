package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/zenithretail/storefront/pkg/errors"

	"github.com/zenithretail/storefront/internal/domain"
)

const (
	sessionKeyPrefix   = "checkout:session:"
	referenceKeyPrefix = "checkout:ref:"
)

// CheckoutRepository implements repository.CheckoutRepository using Redis.
// Sessions are indexed both by ID and by gateway reference so the payment
// callback, which only carries the reference, can find its session.
type CheckoutRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCheckoutRepository creates a new Redis-backed checkout session repository.
func NewCheckoutRepository(client *redis.Client, ttl time.Duration) *CheckoutRepository {
	return &CheckoutRepository{
		client: client,
		ttl:    ttl,
	}
}

// Create stores a new checkout session.
func (r *CheckoutRepository) Create(ctx context.Context, session *domain.CheckoutSession) error {
	return r.write(ctx, session)
}

// Update overwrites an existing session.
func (r *CheckoutRepository) Update(ctx context.Context, session *domain.CheckoutSession) error {
	return r.write(ctx, session)
}

func (r *CheckoutRepository) write(ctx context.Context, session *domain.CheckoutSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal checkout session: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, sessionKeyPrefix+session.ID, data, r.ttl)
	if session.Reference != "" {
		pipe.Set(ctx, referenceKeyPrefix+session.Reference, session.ID, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis set checkout session: %w", err)
	}

	return nil
}

// Get retrieves a session by its ID.
func (r *CheckoutRepository) Get(ctx context.Context, id string) (*domain.CheckoutSession, error) {
	data, err := r.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("checkout session", id)
		}
		return nil, fmt.Errorf("redis get checkout session: %w", err)
	}

	var session domain.CheckoutSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal checkout session: %w", err)
	}

	return &session, nil
}

// GetByReference retrieves a session by its gateway transaction reference.
func (r *CheckoutRepository) GetByReference(ctx context.Context, reference string) (*domain.CheckoutSession, error) {
	id, err := r.client.Get(ctx, referenceKeyPrefix+reference).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("checkout session", reference)
		}
		return nil, fmt.Errorf("redis get checkout reference: %w", err)
	}

	return r.Get(ctx, id)
}
