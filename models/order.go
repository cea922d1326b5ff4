package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order submission channels.
const (
	MethodDirect   = "direct"
	MethodWhatsApp = "whatsapp"
	MethodEmail    = "email"
)

// OrderLine is the snapshot of a cart row sent with an order.
type OrderLine struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Variants *Variants       `json:"variants,omitempty"`
}

// OrderPayload is assembled once per submit and never mutated afterwards.
type OrderPayload struct {
	CustomerName        string          `json:"customerName"`
	CustomerEmail       string          `json:"customerEmail"`
	CustomerPhone       string          `json:"customerPhone"`
	CustomerAddress     string          `json:"customerAddress"`
	Items               []OrderLine     `json:"items"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	DeliveryFee         decimal.Decimal `json:"deliveryFee"`
	Discount            decimal.Decimal `json:"discount"`
	Total               decimal.Decimal `json:"total"`
	PaymentMethod       string          `json:"paymentMethod"`
	DeliveryLocation    string          `json:"deliveryLocation"`
	SpecialInstructions string          `json:"specialInstructions"`
	PromoCode           string          `json:"promoCode"`
	OrderMethod         string          `json:"orderMethod"`
}

// Order is the remote order as returned by the tracking endpoint.
type Order struct {
	ID                  int64           `json:"id,omitempty"`
	OrderID             string          `json:"orderId"`
	Status              string          `json:"status"`
	CustomerName        string          `json:"customerName"`
	CustomerEmail       string          `json:"customerEmail,omitempty"`
	CustomerPhone       string          `json:"customerPhone,omitempty"`
	CustomerAddress     string          `json:"customerAddress,omitempty"`
	Items               []OrderLine     `json:"items"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	DeliveryFee         decimal.Decimal `json:"deliveryFee"`
	Discount            decimal.Decimal `json:"discount"`
	Total               decimal.Decimal `json:"total"`
	PaymentMethod       string          `json:"paymentMethod,omitempty"`
	DeliveryLocation    string          `json:"deliveryLocation,omitempty"`
	SpecialInstructions string          `json:"specialInstructions,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           *time.Time      `json:"updatedAt,omitempty"`
}

// LastChange is updatedAt when the remote set it, createdAt otherwise.
func (o Order) LastChange() time.Time {
	if o.UpdatedAt != nil && !o.UpdatedAt.IsZero() {
		return *o.UpdatedAt
	}
	return o.CreatedAt
}

// Promo types.
const (
	PromoPercentage = "percentage"
	PromoFixed      = "fixed"
)

// Promo is fetched on every apply attempt; it is never cached.
type Promo struct {
	Code         string              `json:"code"`
	Discount     decimal.Decimal     `json:"discount"`
	DiscountType string              `json:"discountType"`
	MaxDiscount  decimal.NullDecimal `json:"maxDiscount"`
	MinAmount    decimal.NullDecimal `json:"minAmount"`
	IsActive     *bool               `json:"isActive,omitempty"`
}
