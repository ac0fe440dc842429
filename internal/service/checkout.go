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
	"github.com/zenithretail/storefront/internal/gateway"
	"github.com/zenithretail/storefront/internal/pricing"
	"github.com/zenithretail/storefront/internal/repository"
)

// SubmitCheckoutInput holds the parameters for starting a checkout.
type SubmitCheckoutInput struct {
	Email       string `json:"email" validate:"required,email"`
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Phone       string `json:"phone"`
	AddressLine string `json:"address_line" validate:"required"`
	City        string `json:"city" validate:"required"`
	State       string `json:"state" validate:"required"`
	Country     string `json:"country" validate:"required"`
	PromoCode   string `json:"promo_code"`
}

// CheckoutService orchestrates the checkout flow: it freezes the cart into a
// session, hands the customer to the payment gateway, and on a verified
// successful payment creates the order and clears the cart.
//
// The cart is cleared only after the gateway has confirmed payment, and
// exactly once: re-confirming a completed session is a no-op that returns
// the existing result. Any failure leaves the cart untouched and returns the
// session to the idle state with the failure recorded in LastError, so the
// customer can retry without re-entering anything.
type CheckoutService struct {
	sessions       repository.CheckoutRepository
	orders         repository.OrderRepository
	carts          *CartService
	gateway        gateway.Gateway
	calc           *pricing.Calculator
	producer       *event.Producer
	logger         *slog.Logger
	gatewayTimeout time.Duration
	sessionTTL     time.Duration
	callbackURL    string
	returnURL      string
	currency       string
}

// CheckoutConfig carries the wiring for a CheckoutService.
type CheckoutConfig struct {
	Sessions       repository.CheckoutRepository
	Orders         repository.OrderRepository
	Carts          *CartService
	Gateway        gateway.Gateway
	Calculator     *pricing.Calculator
	Producer       *event.Producer
	Logger         *slog.Logger
	GatewayTimeout time.Duration
	SessionTTL     time.Duration
	CallbackURL    string
	ReturnURL      string
	Currency       string
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(cfg CheckoutConfig) *CheckoutService {
	return &CheckoutService{
		sessions:       cfg.Sessions,
		orders:         cfg.Orders,
		carts:          cfg.Carts,
		gateway:        cfg.Gateway,
		calc:           cfg.Calculator,
		producer:       cfg.Producer,
		logger:         cfg.Logger,
		gatewayTimeout: cfg.GatewayTimeout,
		sessionTTL:     cfg.SessionTTL,
		callbackURL:    cfg.CallbackURL,
		returnURL:      cfg.ReturnURL,
		currency:       cfg.Currency,
	}
}

// Quote computes the current price breakdown for the user's cart without
// starting a checkout. Unknown promo codes simply yield a zero discount.
func (s *CheckoutService) Quote(ctx context.Context, userID, promoCode string) (*pricing.Quote, error) {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	q := s.calc.Quote(cart.Items, promoCode)
	return &q, nil
}

// Submit starts a checkout for the user's cart. It freezes the cart items
// and totals into a new session and initializes payment with the gateway.
// The cart itself is not modified; it remains the source of truth for a
// retry if the gateway call fails.
func (s *CheckoutService) Submit(ctx context.Context, userID string, input SubmitCheckoutInput) (*domain.CheckoutSession, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	quote := s.calc.Quote(cart.Items, input.PromoCode)

	now := time.Now().UTC()
	session := &domain.CheckoutSession{
		ID:             uuid.New().String(),
		UserID:         userID,
		Status:         domain.CheckoutStatusIdle,
		Items:          append([]domain.LineItem(nil), cart.Items...),
		SubtotalAmount: quote.Subtotal,
		DiscountAmount: quote.Discount,
		ShippingAmount: quote.Shipping,
		TotalAmount:    quote.GrandTotal,
		PromoCode:      quote.PromoCode,
		Currency:       s.currency,
		Email:          input.Email,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Phone:          input.Phone,
		ShippingAddress: &domain.Address{
			AddressLine: input.AddressLine,
			City:        input.City,
			State:       input.State,
			Country:     input.Country,
		},
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	gctx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()

	res, err := s.gateway.Initialize(gctx, &gateway.InitializeInput{
		Amount:       session.TotalAmount,
		Currency:     session.Currency,
		Email:        session.Email,
		CustomerName: session.CustomerName(),
		Description:  fmt.Sprintf("Zenith Retail order, %d item(s)", cart.ItemCount()),
		CallbackURL:  s.callbackURL,
		ReturnURL:    s.returnURL,
	})
	if err != nil {
		s.recordFailure(ctx, session, err.Error())
		return nil, err
	}

	session.Status = domain.CheckoutStatusProcessing
	session.Reference = res.Reference
	session.AuthorizationURL = res.AuthorizationURL
	session.LastError = ""
	session.UpdatedAt = time.Now().UTC()

	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("update checkout session: %w", err)
	}

	if err := s.producer.PublishCheckoutStarted(ctx, session); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish checkout.started event",
			slog.String("session_id", session.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "checkout started",
		slog.String("session_id", session.ID),
		slog.String("user_id", userID),
		slog.String("reference", session.Reference),
		slog.Int64("total_amount", session.TotalAmount),
	)

	return session, nil
}

// Confirm verifies a payment with the gateway and, on success, creates the
// order and clears the cart. Confirming an already-completed session returns
// it unchanged, so delivering the success callback twice clears the cart
// only once.
func (s *CheckoutService) Confirm(ctx context.Context, reference string) (*domain.CheckoutSession, error) {
	if reference == "" {
		return nil, apperrors.InvalidInput("payment reference is required")
	}

	session, err := s.sessions.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if session.IsCompleted() {
		return session, nil
	}

	gctx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()

	res, err := s.gateway.Verify(gctx, reference)
	if err != nil {
		s.recordFailure(ctx, session, err.Error())
		return nil, err
	}

	if res.Status != gateway.StatusSuccess {
		failure := apperrors.GatewayFailed("payment was not successful: " + res.Status)
		s.recordFailure(ctx, session, failure.Message)
		return nil, failure
	}
	if res.Amount != session.TotalAmount {
		failure := apperrors.GatewayFailed(fmt.Sprintf(
			"paid amount %d does not match order total %d", res.Amount, session.TotalAmount))
		s.recordFailure(ctx, session, failure.Message)
		return nil, failure
	}

	order := s.buildOrder(session, res)
	if err := s.orders.Create(ctx, order); err != nil {
		// A conflict means a concurrent confirmation already persisted the
		// order for this reference; proceed to completion with its record.
		if !errors.Is(err, apperrors.ErrConflict) {
			s.recordFailure(ctx, session, "order could not be saved")
			return nil, fmt.Errorf("create order: %w", err)
		}
		existing, lookupErr := s.orders.GetByReference(ctx, reference)
		if lookupErr != nil {
			return nil, fmt.Errorf("load existing order: %w", lookupErr)
		}
		order = existing
	}

	if err := s.carts.ClearCart(ctx, session.UserID); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear cart after checkout",
			slog.String("user_id", session.UserID),
			slog.String("error", err.Error()),
		)
	}

	session.Status = domain.CheckoutStatusCompleted
	session.OrderID = order.ID
	session.LastError = ""
	session.UpdatedAt = time.Now().UTC()

	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("update checkout session: %w", err)
	}

	if err := s.producer.PublishCheckoutCompleted(ctx, session); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish checkout.completed event",
			slog.String("session_id", session.ID),
			slog.String("error", err.Error()),
		)
	}
	if err := s.producer.PublishOrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.created event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "checkout completed",
		slog.String("session_id", session.ID),
		slog.String("order_id", order.ID),
		slog.String("reference", reference),
	)

	return session, nil
}

// GetSession retrieves a checkout session, enforcing ownership.
func (s *CheckoutService) GetSession(ctx context.Context, userID, id string) (*domain.CheckoutSession, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, apperrors.NotFound("checkout session", id)
	}
	return session, nil
}

// recordFailure returns the session to idle with the failure message in the
// LastError slot. The cart is deliberately untouched so the customer can
// retry as-is. The next Submit or Confirm attempt clears the slot.
func (s *CheckoutService) recordFailure(ctx context.Context, session *domain.CheckoutSession, reason string) {
	session.Status = domain.CheckoutStatusIdle
	session.LastError = reason
	session.UpdatedAt = time.Now().UTC()

	if err := s.sessions.Update(ctx, session); err != nil {
		s.logger.ErrorContext(ctx, "failed to record checkout failure",
			slog.String("session_id", session.ID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishCheckoutFailed(ctx, session, reason); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish checkout.failed event",
			slog.String("session_id", session.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.WarnContext(ctx, "checkout attempt failed",
		slog.String("session_id", session.ID),
		slog.String("user_id", session.UserID),
		slog.String("reason", reason),
	)
}

func (s *CheckoutService) buildOrder(session *domain.CheckoutSession, res *gateway.VerifyResult) *domain.Order {
	now := time.Now().UTC()
	order := &domain.Order{
		ID:              uuid.New().String(),
		UserID:          session.UserID,
		Reference:       session.Reference,
		Status:          domain.OrderStatusPaid,
		SubtotalAmount:  session.SubtotalAmount,
		DiscountAmount:  session.DiscountAmount,
		ShippingAmount:  session.ShippingAmount,
		TotalAmount:     session.TotalAmount,
		PromoCode:       session.PromoCode,
		Currency:        session.Currency,
		Email:           session.Email,
		CustomerName:    session.CustomerName(),
		ShippingAddress: session.ShippingAddress,
		PaymentChannel:  res.Channel,
		PaidAt:          res.PaidAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	order.Items = make([]domain.OrderItem, len(session.Items))
	for i, item := range session.Items {
		order.Items[i] = domain.OrderItem{
			ID:         uuid.New().String(),
			OrderID:    order.ID,
			ProductID:  item.ProductID,
			Name:       item.Product.Name,
			Subsidiary: item.Product.Subsidiary,
			Price:      item.Price,
			Quantity:   item.Quantity,
		}
	}

	return order
}
