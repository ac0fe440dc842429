// Package gateway defines the payment gateway contract. Amounts cross this
// boundary in Naira and are converted to kobo (minor units) inside each
// implementation; nothing outside this package ever handles kobo.
package gateway

import (
	"context"
	"time"
)

// Transaction statuses as reported by the gateway.
const (
	StatusSuccess   = "success"
	StatusFailed    = "failed"
	StatusAbandoned = "abandoned"
	StatusPending   = "pending"
)

// InitializeInput holds the parameters for initializing a payment.
type InitializeInput struct {
	Amount       int64 // Naira
	Currency     string
	Email        string
	CustomerName string
	Description  string
	CallbackURL  string
	ReturnURL    string
}

// InitializeResult is the gateway's handshake response: where to send the
// customer and the reference to verify with afterwards.
type InitializeResult struct {
	Status           string
	AuthorizationURL string
	Reference        string
}

// VerifyResult reports the final state of a transaction. Amount is converted
// back to Naira before it leaves the gateway layer.
type VerifyResult struct {
	Status  string
	Amount  int64 // Naira
	PaidAt  time.Time
	Channel string
}

// Gateway defines the interface for payment gateway integrations.
type Gateway interface {
	// Name returns the gateway name (e.g., "mock", "paystack").
	Name() string

	// Initialize starts a payment and returns the authorization URL the
	// customer must be redirected to.
	Initialize(ctx context.Context, input *InitializeInput) (*InitializeResult, error)

	// Verify fetches the final state of a transaction by reference.
	Verify(ctx context.Context, reference string) (*VerifyResult, error)
}
