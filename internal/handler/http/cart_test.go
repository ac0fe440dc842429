package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/zenithretail/storefront/pkg/errors"
)

func validAddItemJSON() []byte {
	b, _ := json.Marshal(AddItemRequest{
		ProductID: sampleProduct().ID,
		Quantity:  2,
	})
	return b
}

// ============================================================================
// GET /api/v1/cart - GetCart
// ============================================================================

func TestGetCart_Success(t *testing.T) {
	h := newHarness(t)
	h.carts.On("Get", mock.Anything, "user-123").Return(sampleCart(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-User-ID", "user-123")
	rec := httptest.NewRecorder()

	h.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Data)
	h.carts.AssertExpectations(t)
}

func TestGetCart_NoStoredCart_ReturnsEmptyCart(t *testing.T) {
	h := newHarness(t)
	h.carts.On("Get", mock.Anything, "user-123").Return(nil, apperrors.NotFound("cart", "user-123"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-User-ID", "user-123")
	rec := httptest.NewRecorder()

	h.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Data)
	h.carts.AssertExpectations(t)
}

func TestGetCart_MissingUserID_Returns401(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	// No X-User-ID header.
	rec := httptest.NewRecorder()

	h.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
}

func TestGetCart_ServiceError(t *testing.T) {
	h := newHarness(t)
	h.carts.On("Get", mock.Anything, "user-123").Return(nil, fmt.Errorf("redis connection refused"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-User-ID", "user-123")
	rec := httptest.NewRecorder()

	h.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	h.carts.AssertExpectations(t)
}

// ============================================================================
// POST /api/v1/cart/items - AddItem
// ============================================================================

func TestAddItem_Success(t *testing.T) {
	h := newHarness(t)
	h.products.On("GetByID", mock.Anything, sampleProduct().ID).Return(sampleProduct(), nil)
	// No stored cart yet, so the service creates one at version 0.
	h.carts.On("Get", mock.Anything, "user-123").Return(nil, apperrors.NotFound("cart", "user-123"))
	h.carts.On("SaveIfVersion", mock.Anything, mock.AnythingOfType("*domain.Cart"), 0).Return(true, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(validAddItemJSON()))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-123")
	rec := httptest.NewRecorder()

	h.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Data)
	h.carts.AssertExpectations(t)
	h.products.AssertExpectations(t)
}

func TestAddItem_UnknownProduct_Returns404(t *testing.T) {
	h := newHarness(t)
	h.products.On("GetByID", mock.Anything, "missing-id").Return(nil, apperrors.NotFound("product", "missing-id"))

	b, _ := json.Marshal(AddItemRequest{ProductID: "missing-id", Quantity: 1})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-123")
	rec := httptest.NewRecorder()

	h.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	h.products.AssertExpectations(t)
}

func TestAddItem_InvalidJSON(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader([]byte(`{invalid json`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-123")
	rec := httptest.NewRecorder()

	h.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "invalid request body")
}

func TestAddItem_MissingProductID_ValidationError(t *testing.T) {
	h := newHarness(t)

	b, _ := json.Marshal(AddItemRequest{Quantity: 1})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-123")
	rec := httptest.NewRecorder()

	h.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

func TestAddItem_RejectsNonJSONContentType(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(validAddItemJSON()))
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("X-User-ID", "user-123")
	rec := httptest.NewRecorder()

	h.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestAddItem_VersionConflict_Returns409(t *testing.T) {
	h := newHarness(t)
	h.products.On("GetByID", mock.Anything, sampleProduct().ID).Return(sampleProduct(), nil)
	h.carts.On("Get", mock.Anything, "user-123").Return(sampleCart(), nil)
	h.carts.On("SaveIfVersion", mock.Anything, mock.AnythingOfType("*domain.Cart"), 1).Return(false, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(validAddItemJSON()))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-123")
	rec := httptest.NewRecorder()

	h.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "CONFLICT", resp.Error.Code)
	h.carts.AssertExpectations(t)
}

// ============================================================================
// PUT /api/v1/cart/items/{productID} - UpdateQuantity
// ============================================================================

func TestUpdateQuantity_Success(t *testing.T) {
	h := newHarness(t)
	h.carts.On("Get", mock.Anything, "user-123").Return(sampleCart(), nil)
	h.carts.On("SaveIfVersion", mock.Anything, mock.AnythingOfType("*domain.Cart"), 1).Return(true, nil)

	b, _ := json.Marshal(UpdateQuantityRequest{Quantity: 5})
	url := "/api/v1/cart/items/" + sampleProduct().ID
	req := httptest.NewRequest(http.MethodPut, url, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-123")
	rec := httptest.NewRecorder()

	h.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	h.carts.AssertExpectations(t)
}

func TestUpdateQuantity_ProductNotInCart_Returns200Unchanged(t *testing.T) {
	h := newHarness(t)
	// No SaveIfVersion expectation: an update for an absent product is a no-op.
	h.carts.On("Get", mock.Anything, "user-123").Return(sampleCart(), nil)

	b, _ := json.Marshal(UpdateQuantityRequest{Quantity: 3})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/cart/items/prod-absent", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-123")
	rec := httptest.NewRecorder()

	h.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	h.carts.AssertExpectations(t)
}

func TestUpdateQuantity_InvalidJSON(t *testing.T) {
	h := newHarness(t)

	url := "/api/v1/cart/items/" + sampleProduct().ID
	req := httptest.NewRequest(http.MethodPut, url, bytes.NewReader([]byte(`not json`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-123")
	rec := httptest.NewRecorder()

	h.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

// ============================================================================
// DELETE /api/v1/cart/items/{productID} - RemoveItem
// ============================================================================

func TestRemoveItem_Success(t *testing.T) {
	h := newHarness(t)
	h.carts.On("Get", mock.Anything, "user-123").Return(sampleCart(), nil)
	h.carts.On("SaveIfVersion", mock.Anything, mock.AnythingOfType("*domain.Cart"), 1).Return(true, nil)

	url := "/api/v1/cart/items/" + sampleProduct().ID
	req := httptest.NewRequest(http.MethodDelete, url, nil)
	req.Header.Set("X-User-ID", "user-123")
	rec := httptest.NewRecorder()

	h.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	h.carts.AssertExpectations(t)
}

func TestRemoveItem_MissingUserID_Returns401(t *testing.T) {
	h := newHarness(t)

	url := "/api/v1/cart/items/" + sampleProduct().ID
	req := httptest.NewRequest(http.MethodDelete, url, nil)
	// No X-User-ID header.
	rec := httptest.NewRecorder()

	h.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// ============================================================================
// DELETE /api/v1/cart - ClearCart
// ============================================================================

func TestClearCart_Success(t *testing.T) {
	h := newHarness(t)
	h.carts.On("Get", mock.Anything, "user-123").Return(sampleCart(), nil)
	h.carts.On("Delete", mock.Anything, "user-123").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil)
	req.Header.Set("X-User-ID", "user-123")
	rec := httptest.NewRecorder()

	h.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	h.carts.AssertExpectations(t)
}

func TestClearCart_NoStoredCart_Returns200(t *testing.T) {
	h := newHarness(t)
	// Clearing a cart that was never created succeeds without a delete.
	h.carts.On("Get", mock.Anything, "user-123").Return(nil, apperrors.NotFound("cart", "user-123"))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil)
	req.Header.Set("X-User-ID", "user-123")
	rec := httptest.NewRecorder()

	h.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	h.carts.AssertExpectations(t)
	h.carts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

// ============================================================================
// POST /api/v1/cart/quote - Quote
// ============================================================================

func TestQuote_AppliesPromoCode(t *testing.T) {
	h := newHarness(t)
	h.carts.On("Get", mock.Anything, "user-123").Return(sampleCart(), nil)

	b, _ := json.Marshal(QuoteRequest{PromoCode: "WELCOME10"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/quote", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "user-123")
	rec := httptest.NewRecorder()

	h.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Subtotal   int64 `json:"subtotal"`
			Discount   int64 `json:"discount"`
			Shipping   int64 `json:"shipping"`
			GrandTotal int64 `json:"grand_total"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	// 200,000 minus 10%, above the 50,000 free shipping threshold.
	assert.Equal(t, int64(200_000), resp.Data.Subtotal)
	assert.Equal(t, int64(20_000), resp.Data.Discount)
	assert.Equal(t, int64(0), resp.Data.Shipping)
	assert.Equal(t, int64(180_000), resp.Data.GrandTotal)
	h.carts.AssertExpectations(t)
}

// ============================================================================
// Table-driven: authenticated endpoints reject missing X-User-ID
// ============================================================================

func TestAuthenticatedEndpoints_RejectMissingUserID(t *testing.T) {
	productURL := "/api/v1/cart/items/" + sampleProduct().ID
	endpoints := []struct {
		method string
		path   string
		body   []byte
	}{
		{http.MethodGet, "/api/v1/cart", nil},
		{http.MethodPost, "/api/v1/cart/items", validAddItemJSON()},
		{http.MethodPut, productURL, []byte(`{"quantity":1}`)},
		{http.MethodDelete, productURL, nil},
		{http.MethodDelete, "/api/v1/cart", nil},
		{http.MethodPost, "/api/v1/cart/quote", []byte(`{}`)},
		{http.MethodPost, "/api/v1/checkout", []byte(`{}`)},
		{http.MethodGet, "/api/v1/checkout/sessions/sess-1", nil},
		{http.MethodGet, "/api/v1/orders", nil},
		{http.MethodGet, "/api/v1/orders/order-1", nil},
	}

	for _, ep := range endpoints {
		name := fmt.Sprintf("%s %s", ep.method, ep.path)
		t.Run(name, func(t *testing.T) {
			h := newHarness(t)

			req := httptest.NewRequest(ep.method, ep.path, bytes.NewReader(ep.body))
			if ep.body != nil {
				req.Header.Set("Content-Type", "application/json")
			}
			// No X-User-ID header.
			rec := httptest.NewRecorder()

			h.router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code, "expected 401 for %s", name)
			resp := decodeResponse(t, rec)
			require.NotNil(t, resp.Error)
			assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
		})
	}
}
