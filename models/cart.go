package models

import (
	"github.com/shopspring/decimal"
)

// Variants are the optional selections a shopper made on the product card.
type Variants struct {
	Size  string `json:"size,omitempty" bson:"size,omitempty"`
	Color string `json:"color,omitempty" bson:"color,omitempty"`
}

func (v *Variants) IsZero() bool {
	return v == nil || (v.Size == "" && v.Color == "")
}

// CartItem represents a single row in the shopper's cart.
type CartItem struct {
	Line     string          `json:"line" bson:"line"` // row key, see cart.LineKey
	ID       int64           `json:"id" bson:"id"`     // product id
	Name     string          `json:"name" bson:"name"`
	Price    decimal.Decimal `json:"price" bson:"price"` // unit price
	Quantity int             `json:"quantity" bson:"quantity"`
	Variants *Variants       `json:"variants,omitempty" bson:"variants,omitempty"`
	Image    string          `json:"image,omitempty" bson:"image,omitempty"`
}

// Subtotal is price × quantity for the row.
func (c CartItem) Subtotal() decimal.Decimal {
	return c.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// WishlistItem is a saved product, at most one per id.
type WishlistItem struct {
	ID    int64           `json:"id" bson:"id"`
	Name  string          `json:"name" bson:"name"`
	Price decimal.Decimal `json:"price" bson:"price"`
	Image string          `json:"image,omitempty" bson:"image,omitempty"`
}
