package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReply_FirstMatchWins(t *testing.T) {
	r := NewResponder([]Rule{
		{Keywords: []string{"refund"}, Response: "refund policy"},
		{Keywords: []string{"order"}, Response: "order help"},
	}, "fallback")

	// Message matches both rules; the earlier rule wins.
	assert.Equal(t, "refund policy", r.Reply("I want a refund on my order"))
}

func TestReply_CaseInsensitive(t *testing.T) {
	r := NewResponder([]Rule{
		{Keywords: []string{"delivery"}, Response: "delivery info"},
	}, "fallback")

	assert.Equal(t, "delivery info", r.Reply("When is my DELIVERY arriving?"))
}

func TestReply_Fallback(t *testing.T) {
	r := NewResponder(DefaultRules(), DefaultFallback)
	assert.Equal(t, DefaultFallback, r.Reply("qwertyuiop"))
}

func TestReply_Stateless(t *testing.T) {
	r := NewResponder(DefaultRules(), DefaultFallback)

	first := r.Reply("do you deliver to Abuja?")
	r.Reply("unrelated message")
	second := r.Reply("do you deliver to Abuja?")

	assert.Equal(t, first, second)
}

func TestDefaultRules(t *testing.T) {
	r := NewResponder(DefaultRules(), DefaultFallback)

	cases := map[string]string{
		"hello there":              "Welcome to Zenith Retail",
		"how do I track my order":  "track your order",
		"what about shipping fees": "ship free",
		"can I return this":        "within 7 days",
		"do you take card payment": "card, bank transfer and USSD",
		"I have a promo code":      "applied before delivery fees",
		"looking for a laptop":     "Computers section",
		"any good books":           "Books section",
		"let me speak to a human":  "support team",
	}

	for msg, want := range cases {
		assert.Contains(t, r.Reply(msg), want, "message %q", msg)
	}
}
