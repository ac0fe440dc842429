package domain

import "time"

// Checkout session statuses. A session starts idle, moves to processing once
// payment has been initialized with the gateway, and reaches completed only
// after the gateway has confirmed the payment. Completed is terminal; a
// failed attempt returns the session to idle with LastError set so the
// customer can retry.
const (
	CheckoutStatusIdle       = "idle"
	CheckoutStatusProcessing = "processing"
	CheckoutStatusCompleted  = "completed"
)

// Address is a shipping destination.
type Address struct {
	AddressLine string `json:"address_line"`
	City        string `json:"city"`
	State       string `json:"state"`
	Country     string `json:"country"`
}

// CheckoutSession captures one checkout attempt: a frozen copy of the cart
// items plus the computed totals and the payment gateway handshake state.
// All amounts are in Naira.
type CheckoutSession struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	Status           string     `json:"status"`
	Items            []LineItem `json:"items"`
	SubtotalAmount   int64      `json:"subtotal_amount"`
	DiscountAmount   int64      `json:"discount_amount"`
	ShippingAmount   int64      `json:"shipping_amount"`
	TotalAmount      int64      `json:"total_amount"`
	PromoCode        string     `json:"promo_code,omitempty"`
	Currency         string     `json:"currency"`
	Email            string     `json:"email"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	Phone            string     `json:"phone,omitempty"`
	ShippingAddress  *Address   `json:"shipping_address,omitempty"`
	Reference        string     `json:"reference,omitempty"`
	AuthorizationURL string     `json:"authorization_url,omitempty"`
	OrderID          string     `json:"order_id,omitempty"`
	LastError        string     `json:"last_error,omitempty"`
	ExpiresAt        time.Time  `json:"expires_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// IsCompleted reports whether the session has reached its terminal state.
func (s *CheckoutSession) IsCompleted() bool {
	return s.Status == CheckoutStatusCompleted
}

// IsExpired reports whether the session has passed its expiry deadline.
func (s *CheckoutSession) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// CustomerName returns the customer's full name for gateway display.
func (s *CheckoutSession) CustomerName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}
