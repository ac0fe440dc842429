// Package paystack implements the payment gateway against a Paystack-style
// REST API. This is the only place in the codebase that deals in kobo:
// amounts are multiplied up on the way out and divided back down on the way
// in.
package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	apperrors "github.com/zenithretail/storefront/pkg/errors"

	"github.com/zenithretail/storefront/internal/gateway"
)

// koboPerNaira is the minor-unit factor. The gateway API deals exclusively
// in kobo.
const koboPerNaira = 100

// httpDoer is satisfied by httpclient.Client and httpclient.CircuitBreakerClient.
type httpDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Gateway is a Paystack-style payment gateway client.
type Gateway struct {
	baseURL   string
	secretKey string
	client    httpDoer
}

// New creates a Paystack gateway client. baseURL must not end with a slash.
func New(baseURL, secretKey string, client httpDoer) *Gateway {
	return &Gateway{
		baseURL:   baseURL,
		secretKey: secretKey,
		client:    client,
	}
}

// Name returns the gateway name.
func (g *Gateway) Name() string {
	return "paystack"
}

type initializeRequest struct {
	Amount      int64          `json:"amount"` // kobo
	Currency    string         `json:"currency"`
	Email       string         `json:"email"`
	CallbackURL string         `json:"callback_url,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

// Initialize starts a transaction and returns the hosted payment page URL.
func (g *Gateway) Initialize(ctx context.Context, input *gateway.InitializeInput) (*gateway.InitializeResult, error) {
	payload := initializeRequest{
		Amount:      input.Amount * koboPerNaira,
		Currency:    input.Currency,
		Email:       input.Email,
		CallbackURL: input.CallbackURL,
		Metadata: map[string]any{
			"customer_name": input.CustomerName,
			"description":   input.Description,
			"cancel_action": input.ReturnURL,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal initialize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create initialize request: %w", err)
	}
	g.setHeaders(req)

	resp, err := g.client.Do(ctx, req)
	if err != nil {
		return nil, g.wrapTransportError("initialize payment", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var out initializeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, apperrors.GatewayFailed("payment gateway returned an unreadable response")
	}
	if resp.StatusCode != http.StatusOK || !out.Status {
		return nil, apperrors.GatewayFailed("payment gateway rejected initialization: " + out.Message)
	}

	return &gateway.InitializeResult{
		Status:           gateway.StatusPending,
		AuthorizationURL: out.Data.AuthorizationURL,
		Reference:        out.Data.Reference,
	}, nil
}

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status  string `json:"status"`
		Amount  int64  `json:"amount"` // kobo
		PaidAt  string `json:"paid_at"`
		Channel string `json:"channel"`
	} `json:"data"`
}

// Verify fetches the final state of a transaction by reference.
func (g *Gateway) Verify(ctx context.Context, reference string) (*gateway.VerifyResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/transaction/verify/"+reference, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create verify request: %w", err)
	}
	g.setHeaders(req)

	resp, err := g.client.Do(ctx, req)
	if err != nil {
		return nil, g.wrapTransportError("verify payment", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var out verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, apperrors.GatewayFailed("payment gateway returned an unreadable response")
	}
	if resp.StatusCode != http.StatusOK || !out.Status {
		return nil, apperrors.GatewayFailed("payment gateway rejected verification: " + out.Message)
	}

	var paidAt time.Time
	if out.Data.PaidAt != "" {
		paidAt, err = time.Parse(time.RFC3339, out.Data.PaidAt)
		if err != nil {
			return nil, apperrors.GatewayFailed("payment gateway returned an invalid paid_at timestamp")
		}
	}

	return &gateway.VerifyResult{
		Status:  out.Data.Status,
		Amount:  out.Data.Amount / koboPerNaira,
		PaidAt:  paidAt,
		Channel: out.Data.Channel,
	}, nil
}

func (g *Gateway) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	req.Header.Set("Content-Type", "application/json")
}

func (g *Gateway) wrapTransportError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.GatewayTimeout(op + " timed out")
	}
	return fmt.Errorf("%s: %w", op, errors.Join(apperrors.ErrGatewayFailed, err))
}
