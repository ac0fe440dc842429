package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := NotFound("product", "prod-1")
	assert.Contains(t, err.Error(), "NOT_FOUND")
	assert.Contains(t, err.Error(), "product with id prod-1 not found")

	wrapped := &AppError{Code: "X", Message: "msg", Err: errors.New("cause")}
	assert.Contains(t, wrapped.Error(), "cause")
}

func TestAppError_Unwrap(t *testing.T) {
	err := GatewayFailed("card declined")
	assert.True(t, errors.Is(err, ErrGatewayFailed))

	timeout := GatewayTimeout("verify deadline exceeded")
	assert.True(t, errors.Is(timeout, ErrGatewayTimeout))
	assert.False(t, errors.Is(timeout, ErrGatewayFailed))
}

func TestHTTPStatus_AppError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{NotFound("cart", "u1"), http.StatusNotFound},
		{InvalidInput("bad"), http.StatusBadRequest},
		{Unauthorized("no token"), http.StatusUnauthorized},
		{Forbidden("nope"), http.StatusForbidden},
		{Conflict("version mismatch"), http.StatusConflict},
		{Internal(errors.New("boom")), http.StatusInternalServerError},
		{ServiceUnavailable("down"), http.StatusServiceUnavailable},
		{GatewayFailed("declined"), http.StatusUnprocessableEntity},
		{GatewayTimeout("slow"), http.StatusGatewayTimeout},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, HTTPStatus(tt.err), "error: %v", tt.err)
	}
}

func TestHTTPStatus_WrappedSentinels(t *testing.T) {
	err := fmt.Errorf("checkout: %w", ErrGatewayFailed)
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(err))

	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("unknown")))
}

func TestWrap(t *testing.T) {
	base := errors.New("base")
	err := Wrap(base, "context")
	assert.True(t, errors.Is(err, base))
	assert.Contains(t, err.Error(), "context")
}
