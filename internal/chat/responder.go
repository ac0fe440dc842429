// Package chat implements the scripted support assistant: an ordered table
// of keyword rules evaluated first-match-wins against the customer's
// message. No state is kept between messages.
package chat

import "strings"

// Rule maps a set of trigger keywords to a canned response. A rule matches
// when any of its keywords appears as a case-insensitive substring of the
// message.
type Rule struct {
	Keywords []string
	Response string
}

// Responder answers customer messages from an ordered rule table. Rule order
// matters: the first matching rule wins, so more specific rules must come
// before more general ones.
type Responder struct {
	rules    []Rule
	fallback string
}

// NewResponder builds a responder with the given rules and fallback reply.
func NewResponder(rules []Rule, fallback string) *Responder {
	return &Responder{rules: rules, fallback: fallback}
}

// Reply returns the canned response for the first rule whose keywords match
// the message, or the fallback if nothing matches.
func (r *Responder) Reply(message string) string {
	msg := strings.ToLower(message)
	for _, rule := range r.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(msg, kw) {
				return rule.Response
			}
		}
	}
	return r.fallback
}

// DefaultRules is the storefront's stock support script.
func DefaultRules() []Rule {
	return []Rule{
		{
			Keywords: []string{"hello", "hi ", "hey", "good morning", "good afternoon", "good evening"},
			Response: "Hello! Welcome to Zenith Retail. How can I help you today? You can ask about orders, delivery, payments or returns.",
		},
		{
			Keywords: []string{"track", "where is my order", "order status"},
			Response: "You can track your order from the Orders page using your order reference. Deliveries within Lagos arrive in 1-2 business days; elsewhere in Nigeria allow 3-5 business days.",
		},
		{
			Keywords: []string{"delivery", "shipping", "ship"},
			Response: "We deliver nationwide. Orders above ₦50,000 ship free; otherwise a flat delivery fee applies at checkout.",
		},
		{
			Keywords: []string{"return", "refund", "exchange"},
			Response: "You can return any item within 7 days of delivery in its original condition. Refunds are issued to your original payment method within 5 business days.",
		},
		{
			Keywords: []string{"pay", "payment", "card", "transfer", "ussd"},
			Response: "We accept card, bank transfer and USSD payments, processed securely by our payment partner. You will be redirected to a secure page to complete payment.",
		},
		{
			Keywords: []string{"promo", "discount", "coupon", "voucher"},
			Response: "If you have a promo code, enter it at checkout and your discount will be applied before delivery fees are calculated.",
		},
		{
			Keywords: []string{"laptop", "computer", "phone"},
			Response: "Our computers range covers laptops, desktops and accessories from leading brands. Browse the Computers section to see what's in stock.",
		},
		{
			Keywords: []string{"book"},
			Response: "Our books arm stocks fiction, non-fiction, academic and professional titles. Browse the Books section for the full catalogue.",
		},
		{
			Keywords: []string{"human", "agent", "speak to someone", "customer care"},
			Response: "I'll connect you with our support team. Email support@zenithretail.ng or call 0700-ZENITH during business hours (Mon-Sat, 8am-6pm).",
		},
	}
}

// DefaultFallback is used when no rule matches.
const DefaultFallback = "I'm not sure I understand. You can ask me about orders, delivery, payments, returns or promo codes, or say 'agent' to reach our support team."
