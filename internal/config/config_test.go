package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PAYMENT_MOCK", "true")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "NGN", cfg.Currency)
	assert.Equal(t, int64(50_000), cfg.FreeShippingThreshold)
	assert.Equal(t, int64(2_500), cfg.FlatShippingFee)
	assert.Equal(t, 168*time.Hour, cfg.CartTTL())
	assert.Equal(t, time.Hour, cfg.SessionTTL())
	assert.Equal(t, 15*time.Second, cfg.GatewayTimeout())
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
}

func TestLoad_MissingPaystackKeyWithoutMock(t *testing.T) {
	t.Setenv("PAYMENT_MOCK", "false")
	t.Setenv("PAYSTACK_SECRET_KEY", "")

	cfg, err := Load()

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "PAYSTACK_SECRET_KEY")
}

func TestLoad_RealGatewayWithKey(t *testing.T) {
	t.Setenv("PAYMENT_MOCK", "false")
	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test_abc123")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "sk_test_abc123", cfg.PaystackSecretKey)
	assert.Equal(t, "https://api.paystack.co", cfg.PaystackBaseURL)
}

func TestLoad_InvalidHTTPPort(t *testing.T) {
	t.Setenv("PAYMENT_MOCK", "true")
	t.Setenv("STOREFRONT_HTTP_PORT", "0")

	cfg, err := Load()

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "invalid HTTP port")
}

func TestLoad_InvalidPromoRules(t *testing.T) {
	t.Setenv("PAYMENT_MOCK", "true")
	t.Setenv("PROMO_RULES", "BROKEN:percent")

	cfg, err := Load()

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "PROMO_RULES")
}

func TestLoad_MultipleKafkaBrokers(t *testing.T) {
	t.Setenv("PAYMENT_MOCK", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
}

func TestLoad_InvalidCallbackURL(t *testing.T) {
	t.Setenv("PAYMENT_MOCK", "true")
	t.Setenv("CHECKOUT_CALLBACK_URL", "")

	cfg, err := Load()

	// caarlos0/env treats empty string as unset and falls back to the
	// envDefault, so only a malformed (non-empty) URL can trip validation.
	if err != nil {
		assert.Nil(t, cfg)
	} else {
		require.NotNil(t, cfg)
		assert.NotEmpty(t, cfg.CheckoutCallbackURL)
	}
}

func TestLoad_NegativeShippingFee(t *testing.T) {
	t.Setenv("PAYMENT_MOCK", "true")
	t.Setenv("FLAT_SHIPPING_FEE", "-100")

	cfg, err := Load()

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "FLAT_SHIPPING_FEE")
}
