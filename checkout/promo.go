package checkout

import (
	"github.com/shopspring/decimal"

	"storefront/models"
)

var hundred = decimal.NewFromInt(100)

// Discount is the amount p takes off subtotal. A percentage is capped by
// maxDiscount; a fixed amount is returned as is, even above the subtotal.
func Discount(p models.Promo, subtotal decimal.Decimal) (decimal.Decimal, error) {
	if p.IsActive != nil && !*p.IsActive {
		return decimal.Zero, ErrPromoInvalid
	}
	if p.MinAmount.Valid && p.MinAmount.Decimal.IsPositive() && subtotal.LessThan(p.MinAmount.Decimal) {
		return decimal.Zero, &MinimumOrderError{Min: p.MinAmount.Decimal}
	}

	if p.DiscountType == models.PromoPercentage {
		amount := subtotal.Mul(p.Discount).Div(hundred)
		if p.MaxDiscount.Valid && p.MaxDiscount.Decimal.IsPositive() {
			amount = decimal.Min(amount, p.MaxDiscount.Decimal)
		}
		return amount, nil
	}
	return p.Discount, nil
}
