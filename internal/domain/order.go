package domain

import "time"

// Order statuses. Orders are only created after the payment gateway has
// confirmed payment, so every order starts out paid.
const (
	OrderStatusPaid      = "paid"
	OrderStatusFulfilled = "fulfilled"
	OrderStatusCancelled = "cancelled"
)

// Order is the durable record of a confirmed purchase. Amounts are in Naira.
type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	Reference       string      `json:"reference"`
	Status          string      `json:"status"`
	Items           []OrderItem `json:"items"`
	SubtotalAmount  int64       `json:"subtotal_amount"`
	DiscountAmount  int64       `json:"discount_amount"`
	ShippingAmount  int64       `json:"shipping_amount"`
	TotalAmount     int64       `json:"total_amount"`
	PromoCode       string      `json:"promo_code,omitempty"`
	Currency        string      `json:"currency"`
	Email           string      `json:"email"`
	CustomerName    string      `json:"customer_name"`
	ShippingAddress *Address    `json:"shipping_address,omitempty"`
	PaymentChannel  string      `json:"payment_channel,omitempty"`
	PaidAt          time.Time   `json:"paid_at"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// OrderItem is one purchased line, denormalized from the checkout session so
// the order survives catalog changes.
type OrderItem struct {
	ID         string     `json:"id"`
	OrderID    string     `json:"order_id"`
	ProductID  string     `json:"product_id"`
	Name       string     `json:"name"`
	Subsidiary Subsidiary `json:"subsidiary"`
	Price      int64      `json:"price"`
	Quantity   int        `json:"quantity"`
}

// ItemCount returns the total number of units in the order.
func (o *Order) ItemCount() int {
	var count int
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}
