// Package mock provides an in-memory payment gateway for development and
// testing. Every initialized transaction verifies as successful.
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/zenithretail/storefront/pkg/errors"

	"github.com/zenithretail/storefront/internal/gateway"
)

// Gateway is a mock payment gateway that remembers initialized transactions
// and reports them all as paid.
type Gateway struct {
	mu           sync.Mutex
	transactions map[string]int64 // reference -> amount in Naira
	checkoutURL  string
}

// NewGateway creates a mock gateway. Authorization URLs are formed from
// checkoutURL plus the transaction reference.
func NewGateway(checkoutURL string) *Gateway {
	return &Gateway{
		transactions: make(map[string]int64),
		checkoutURL:  checkoutURL,
	}
}

// Name returns the gateway name.
func (g *Gateway) Name() string {
	return "mock"
}

// Initialize records the transaction and returns a synthetic checkout URL.
func (g *Gateway) Initialize(_ context.Context, input *gateway.InitializeInput) (*gateway.InitializeResult, error) {
	reference := "mock_txn_" + uuid.New().String()

	g.mu.Lock()
	g.transactions[reference] = input.Amount
	g.mu.Unlock()

	return &gateway.InitializeResult{
		Status:           gateway.StatusPending,
		AuthorizationURL: g.checkoutURL + "/" + reference,
		Reference:        reference,
	}, nil
}

// Verify reports any previously initialized transaction as successful.
func (g *Gateway) Verify(_ context.Context, reference string) (*gateway.VerifyResult, error) {
	g.mu.Lock()
	amount, ok := g.transactions[reference]
	g.mu.Unlock()

	if !ok {
		return nil, apperrors.NotFound("transaction", reference)
	}

	return &gateway.VerifyResult{
		Status:  gateway.StatusSuccess,
		Amount:  amount,
		PaidAt:  time.Now().UTC(),
		Channel: "card",
	}, nil
}
