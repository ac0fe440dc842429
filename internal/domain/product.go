package domain

import "time"

// Subsidiary identifies which arm of the business owns a product.
type Subsidiary string

const (
	SubsidiaryComputers Subsidiary = "computers"
	SubsidiaryBooks     Subsidiary = "books"
	SubsidiaryBusiness  Subsidiary = "business"
)

// Product represents a catalog product. Prices are in Naira (major units);
// conversion to kobo happens only at the payment gateway boundary.
type Product struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	Price         int64      `json:"price"`
	OriginalPrice *int64     `json:"original_price,omitempty"`
	Category      string     `json:"category"`
	Subsidiary    Subsidiary `json:"subsidiary"`
	ImageURL      string     `json:"image_url,omitempty"`
	InStock       bool       `json:"in_stock"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// OnSale reports whether the product carries a marked-down price.
func (p *Product) OnSale() bool {
	return p.OriginalPrice != nil && *p.OriginalPrice > p.Price
}

// ValidSubsidiaries returns the set of valid subsidiary identifiers.
func ValidSubsidiaries() []Subsidiary {
	return []Subsidiary{SubsidiaryComputers, SubsidiaryBooks, SubsidiaryBusiness}
}

// IsValidSubsidiary checks whether the given string names a subsidiary.
func IsValidSubsidiary(s string) bool {
	for _, v := range ValidSubsidiaries() {
		if string(v) == s {
			return true
		}
	}
	return false
}
