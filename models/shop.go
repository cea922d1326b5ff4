package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product as served by the remote catalogue.
type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	NameBn        string          `json:"nameBn,omitempty"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"originalPrice,omitempty"`
	Images        []string        `json:"images"`
	CategoryID    int64           `json:"categoryId,omitempty"`
	Rating        decimal.Decimal `json:"rating"`
	ReviewCount   int             `json:"reviewCount,omitempty"`
	Featured      bool            `json:"featured"`
	InStock       bool            `json:"inStock"`
	StockQuantity int             `json:"stockQuantity,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type Category struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	NameBn string `json:"nameBn,omitempty"`
	Slug   string `json:"slug,omitempty"`
	Image  string `json:"image,omitempty"`
}
