// Package pricing computes cart totals. All arithmetic is integer Naira;
// there is no floating point anywhere in the money path. Percentage
// discounts use integer division, truncating any fractional remainder.
package pricing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zenithretail/storefront/internal/domain"
)

// Discount rule kinds.
const (
	KindPercent = "percent"
	KindAmount  = "amount"
)

// Rule is a single promo code rule. Percent rules take Value as a whole
// percentage (10 = 10% off); amount rules take Value as a flat Naira amount.
type Rule struct {
	Code  string
	Kind  string
	Value int64
}

// ParseRules parses a promo rule table from its compact config form:
// a comma-separated list of CODE:KIND:VALUE entries, e.g.
//
//	WELCOME10:percent:10,SHIP1K:amount:1000
//
// Codes are matched case-insensitively. An empty spec yields an empty table.
func ParseRules(spec string) (map[string]Rule, error) {
	rules := make(map[string]Rule)
	if strings.TrimSpace(spec) == "" {
		return rules, nil
	}

	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.Split(entry, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("pricing: malformed promo rule %q, want CODE:KIND:VALUE", entry)
		}

		code := strings.ToUpper(strings.TrimSpace(parts[0]))
		kind := strings.ToLower(strings.TrimSpace(parts[1]))
		if code == "" {
			return nil, fmt.Errorf("pricing: empty promo code in %q", entry)
		}
		if kind != KindPercent && kind != KindAmount {
			return nil, fmt.Errorf("pricing: unknown promo kind %q in %q", kind, entry)
		}

		value, err := strconv.ParseInt(strings.TrimSpace(parts[2]), 10, 64)
		if err != nil || value < 0 {
			return nil, fmt.Errorf("pricing: invalid promo value in %q", entry)
		}
		if kind == KindPercent && value > 100 {
			return nil, fmt.Errorf("pricing: percent promo %q exceeds 100", entry)
		}

		rules[code] = Rule{Code: code, Kind: kind, Value: value}
	}

	return rules, nil
}

// Quote is a fully computed price breakdown for a set of line items.
type Quote struct {
	Subtotal   int64  `json:"subtotal"`
	Discount   int64  `json:"discount"`
	Shipping   int64  `json:"shipping"`
	GrandTotal int64  `json:"grand_total"`
	PromoCode  string `json:"promo_code,omitempty"`
	Currency   string `json:"currency"`
}

// Calculator turns line items into totals. The free-shipping threshold and
// flat shipping fee are fixed at construction from configuration.
type Calculator struct {
	rules                 map[string]Rule
	freeShippingThreshold int64
	flatShippingFee       int64
	currency              string
}

// NewCalculator builds a calculator with the given promo rule table,
// free-shipping threshold and flat shipping fee (both in Naira).
func NewCalculator(rules map[string]Rule, freeShippingThreshold, flatShippingFee int64, currency string) *Calculator {
	if rules == nil {
		rules = make(map[string]Rule)
	}
	return &Calculator{
		rules:                 rules,
		freeShippingThreshold: freeShippingThreshold,
		flatShippingFee:       flatShippingFee,
		currency:              currency,
	}
}

// Subtotal sums price x quantity over all line items.
func (c *Calculator) Subtotal(items []domain.LineItem) int64 {
	var subtotal int64
	for _, item := range items {
		subtotal += item.Price * int64(item.Quantity)
	}
	return subtotal
}

// Discount computes the discount for a promo code against a subtotal.
// Unknown or empty codes yield zero. The discount is clamped so it never
// exceeds the subtotal.
func (c *Calculator) Discount(subtotal int64, code string) int64 {
	if code == "" || subtotal <= 0 {
		return 0
	}
	rule, ok := c.rules[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return 0
	}

	var discount int64
	switch rule.Kind {
	case KindPercent:
		discount = subtotal * rule.Value / 100
	case KindAmount:
		discount = rule.Value
	}

	if discount > subtotal {
		discount = subtotal
	}
	return discount
}

// ShippingFee returns the shipping fee for a discounted order amount. Orders
// strictly above the free-shipping threshold ship free, and an empty order
// (amount zero) carries no fee.
func (c *Calculator) ShippingFee(amount int64) int64 {
	if amount <= 0 {
		return 0
	}
	if amount > c.freeShippingThreshold {
		return 0
	}
	return c.flatShippingFee
}

// ValidPromoCode reports whether the code exists in the rule table.
func (c *Calculator) ValidPromoCode(code string) bool {
	_, ok := c.rules[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

// Quote computes the full breakdown for a set of line items. The discount is
// applied before the shipping decision, so a discount can push an order
// below the free-shipping threshold.
func (c *Calculator) Quote(items []domain.LineItem, promoCode string) Quote {
	subtotal := c.Subtotal(items)
	discount := c.Discount(subtotal, promoCode)
	discounted := subtotal - discount
	shipping := c.ShippingFee(discounted)

	q := Quote{
		Subtotal:   subtotal,
		Discount:   discount,
		Shipping:   shipping,
		GrandTotal: discounted + shipping,
		Currency:   c.currency,
	}
	if discount > 0 {
		q.PromoCode = strings.ToUpper(strings.TrimSpace(promoCode))
	}
	return q
}
