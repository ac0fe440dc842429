package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/zenithretail/storefront/pkg/errors"

	"github.com/zenithretail/storefront/internal/domain"
)

func validSubmitJSON() []byte {
	b, _ := json.Marshal(SubmitRequest{
		Email:       "ada@example.com",
		FirstName:   "Ada",
		LastName:    "Obi",
		Phone:       "08012345678",
		AddressLine: "12 Marina Road",
		City:        "Lagos",
		State:       "Lagos",
		Country:     "NG",
	})
	return b
}

// submitCheckout drives a full Submit through the router and returns the
// created session.
func submitCheckout(t *testing.T, h *harness) *domain.CheckoutSession {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewReader(validSubmitJSON()))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-123")
	rec := httptest.NewRecorder()

	h.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Data domain.CheckoutSession `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return &resp.Data
}

// ============================================================================
// POST /api/v1/checkout - Submit
// ============================================================================

func TestSubmit_Success(t *testing.T) {
	h := newHarness(t)
	h.carts.On("Get", mock.Anything, "user-123").Return(sampleCart(), nil)

	session := submitCheckout(t, h)

	assert.Equal(t, domain.CheckoutStatusProcessing, session.Status)
	assert.Equal(t, "txn_http_1", session.Reference)
	assert.Equal(t, "https://pay.example.com/txn_http_1", session.AuthorizationURL)
	h.carts.AssertExpectations(t)
}

func TestSubmit_EmptyCart_Returns400(t *testing.T) {
	h := newHarness(t)
	h.carts.On("Get", mock.Anything, "user-123").Return(nil, apperrors.NotFound("cart", "user-123"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewReader(validSubmitJSON()))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-123")
	rec := httptest.NewRecorder()

	h.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestSubmit_ValidationError_MissingFields(t *testing.T) {
	h := newHarness(t)

	b, _ := json.Marshal(SubmitRequest{Email: "not-an-email"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-123")
	rec := httptest.NewRecorder()

	h.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

func TestSubmit_EmailPrefilledFromIdentityHeader(t *testing.T) {
	h := newHarness(t)
	h.carts.On("Get", mock.Anything, "user-123").Return(sampleCart(), nil)

	body := SubmitRequest{
		FirstName:   "Ada",
		LastName:    "Obi",
		AddressLine: "12 Marina Road",
		City:        "Lagos",
		State:       "Lagos",
		Country:     "NG",
	}
	b, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-123")
	req.Header.Set("X-User-Email", "ada@example.com")
	rec := httptest.NewRecorder()

	h.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data domain.CheckoutSession `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ada@example.com", resp.Data.Email)
}

func TestSubmit_GatewayFailure_Returns422(t *testing.T) {
	h := newHarness(t)
	h.carts.On("Get", mock.Anything, "user-123").Return(sampleCart(), nil)
	h.gateway.initErr = apperrors.GatewayFailed("invalid merchant key")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewReader(validSubmitJSON()))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-123")
	rec := httptest.NewRecorder()

	h.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
}

// ============================================================================
// GET /api/v1/checkout/confirm - Confirm
// ============================================================================

func TestConfirm_Success_CreatesOrderAndClearsCart(t *testing.T) {
	h := newHarness(t)
	h.carts.On("Get", mock.Anything, "user-123").Return(sampleCart(), nil)
	h.carts.On("Delete", mock.Anything, "user-123").Return(nil)
	h.orders.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)

	session := submitCheckout(t, h)

	// The gateway redirect carries no auth headers, only the reference.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout/confirm?reference="+session.Reference, nil)
	rec := httptest.NewRecorder()

	h.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data domain.CheckoutSession `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, domain.CheckoutStatusCompleted, resp.Data.Status)
	assert.NotEmpty(t, resp.Data.OrderID)
	h.carts.AssertExpectations(t)
	h.orders.AssertExpectations(t)
}

func TestConfirm_MissingReference_Returns400(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout/confirm", nil)
	rec := httptest.NewRecorder()

	h.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Message, "reference")
}

func TestConfirm_UnknownReference_Returns404(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout/confirm?reference=txn_unknown", nil)
	rec := httptest.NewRecorder()

	h.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConfirm_DeclinedPayment_Returns422(t *testing.T) {
	h := newHarness(t)
	h.carts.On("Get", mock.Anything, "user-123").Return(sampleCart(), nil)
	h.gateway.verifyErr = apperrors.GatewayFailed("transaction declined")

	session := submitCheckout(t, h)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout/confirm?reference="+session.Reference, nil)
	rec := httptest.NewRecorder()

	h.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	// The cart must not be touched on a failed payment.
	h.carts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	h.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// ============================================================================
// GET /api/v1/checkout/sessions/{sessionID} - GetSession
// ============================================================================

func TestGetSession_Success(t *testing.T) {
	h := newHarness(t)
	h.carts.On("Get", mock.Anything, "user-123").Return(sampleCart(), nil)

	session := submitCheckout(t, h)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout/sessions/"+session.ID, nil)
	req.Header.Set("X-User-ID", "user-123")
	rec := httptest.NewRecorder()

	h.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data domain.CheckoutSession `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, session.ID, resp.Data.ID)
}

func TestGetSession_OtherUsersSession_Returns404(t *testing.T) {
	h := newHarness(t)
	h.carts.On("Get", mock.Anything, "user-123").Return(sampleCart(), nil)

	session := submitCheckout(t, h)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout/sessions/"+session.ID, nil)
	req.Header.Set("X-User-ID", "user-456")
	rec := httptest.NewRecorder()

	h.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
