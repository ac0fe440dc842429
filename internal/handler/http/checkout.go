package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/zenithretail/storefront/pkg/errors"
	"github.com/zenithretail/storefront/pkg/httputil"
	"github.com/zenithretail/storefront/pkg/validator"

	"github.com/zenithretail/storefront/internal/service"
)

// CheckoutHandler handles HTTP requests for checkout endpoints.
type CheckoutHandler struct {
	checkout *service.CheckoutService
	logger   *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(checkout *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		logger:   logger,
	}
}

// SubmitRequest is the JSON request body for starting a checkout.
type SubmitRequest struct {
	Email       string `json:"email" validate:"required,email"`
	FirstName   string `json:"first_name" validate:"required,min=1,max=100"`
	LastName    string `json:"last_name" validate:"required,min=1,max=100"`
	Phone       string `json:"phone" validate:"omitempty,min=7,max=20"`
	AddressLine string `json:"address_line" validate:"required,min=1,max=500"`
	City        string `json:"city" validate:"required"`
	State       string `json:"state" validate:"required"`
	Country     string `json:"country" validate:"required,len=2"`
	PromoCode   string `json:"promo_code" validate:"omitempty,max=50"`
}

// Submit handles POST /api/v1/checkout
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}

	// Prefill from identity headers when the body leaves them blank.
	if req.Email == "" {
		req.Email, _ = r.Context().Value(userEmailKey).(string)
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	session, err := h.checkout.Submit(r.Context(), userID, service.SubmitCheckoutInput{
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		AddressLine: req.AddressLine,
		City:        req.City,
		State:       req.State,
		Country:     req.Country,
		PromoCode:   req.PromoCode,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, session)
}

// Confirm handles GET /api/v1/checkout/confirm?reference=...
//
// The payment gateway redirects the customer here after the hosted payment
// page, which is why this is a GET.
func (h *CheckoutHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	reference := r.URL.Query().Get("reference")
	if reference == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("reference query parameter is required"), h.logger)
		return
	}

	session, err := h.checkout.Confirm(r.Context(), reference)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, session)
}

// GetSession handles GET /api/v1/checkout/sessions/{sessionID}
func (h *CheckoutHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())
	sessionID := chi.URLParam(r, "sessionID")

	session, err := h.checkout.GetSession(r.Context(), userID, sessionID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, session)
}
