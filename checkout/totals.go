package checkout

import (
	"github.com/shopspring/decimal"
)

// Zone is a delivery region with a flat fee.
type Zone string

const (
	ZoneDhaka        Zone = "dhaka"
	ZoneOutsideDhaka Zone = "outside_dhaka"
	ZoneOther        Zone = "other"
)

type ZoneOption struct {
	Value Zone            `json:"value"`
	Label string          `json:"label"`
	Fee   decimal.Decimal `json:"fee"`
}

var Zones = []ZoneOption{
	{ZoneDhaka, "Dhaka Metro", decimal.NewFromInt(80)},
	{ZoneOutsideDhaka, "Outside Dhaka", decimal.NewFromInt(120)},
	{ZoneOther, "Other Districts", decimal.NewFromInt(150)},
}

// DeliveryFee is zero until a known zone is selected.
func DeliveryFee(z Zone) decimal.Decimal {
	for _, opt := range Zones {
		if opt.Value == z {
			return opt.Fee
		}
	}
	return decimal.Zero
}

func ValidZone(z Zone) bool {
	for _, opt := range Zones {
		if opt.Value == z {
			return true
		}
	}
	return false
}

type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
	// DiscountExceedsSubtotal marks a fixed promo larger than the goods.
	// The total is left as computed, possibly below the delivery fee.
	DiscountExceedsSubtotal bool `json:"discountExceedsSubtotal"`
}

// ComputeTotals derives total = subtotal - discount + deliveryFee.
func ComputeTotals(subtotal decimal.Decimal, zone Zone, discount decimal.Decimal) Totals {
	fee := DeliveryFee(zone)
	return Totals{
		Subtotal:                subtotal,
		DeliveryFee:             fee,
		Discount:                discount,
		Total:                   subtotal.Sub(discount).Add(fee),
		DiscountExceedsSubtotal: discount.GreaterThan(subtotal),
	}
}
