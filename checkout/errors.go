package checkout

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Notice texts shown to the shopper.
const (
	MsgMissingInfo      = "Please fill in all required fields."
	MsgMissingInfoEmail = "Please fill in all required fields including email."
	MsgEmptyCart        = "Your cart is empty."
	MsgInvalidPromo     = "Please check your promo code and try again."
	MsgInvalidPayment   = "Unknown payment method."
	MsgInvalidZone      = "Unknown delivery location."
)

var (
	ErrSubmitInProgress = errors.New("checkout: submission already in progress")
	ErrPromoInvalid     = errors.New("checkout: invalid promo code")
	ErrUnknownChannel   = errors.New("checkout: unknown submission channel")
)

// ValidationError is raised before any network call and is fixable by the
// shopper.
type ValidationError struct {
	Field   string
	Missing []string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("checkout: %s: %s", e.Field, e.Message)
}

// MinimumOrderError rejects a promo whose minimum order is not met.
type MinimumOrderError struct {
	Min decimal.Decimal
}

func (e *MinimumOrderError) Error() string {
	return "checkout: minimum order amount is " + e.Min.String()
}

// RemoteError wraps a failed call to the shop API during submission.
type RemoteError struct {
	Channel string
	Err     error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("checkout: %s submission: %v", e.Channel, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }
