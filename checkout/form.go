package checkout

import (
	"strings"

	"storefront/models"
)

type PaymentMethod struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var PaymentMethods = []PaymentMethod{
	{"bkash", "bKash"},
	{"nagad", "Nagad"},
	{"rocket", "Rocket"},
	{"cod", "Cash on Delivery"},
}

func ValidPaymentMethod(m string) bool {
	for _, pm := range PaymentMethods {
		if pm.Value == m {
			return true
		}
	}
	return false
}

type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Form is what the shopper typed on the checkout step.
type Form struct {
	Customer            Customer `json:"customer"`
	PaymentMethod       string   `json:"paymentMethod"`
	DeliveryLocation    Zone     `json:"deliveryLocation"`
	SpecialInstructions string   `json:"specialInstructions"`
	PromoCode           string   `json:"promoCode"`
}

// FormPatch carries only the fields the browser changed.
type FormPatch struct {
	Name                *string `json:"name"`
	Email               *string `json:"email"`
	Phone               *string `json:"phone"`
	Address             *string `json:"address"`
	PaymentMethod       *string `json:"paymentMethod"`
	DeliveryLocation    *string `json:"deliveryLocation"`
	SpecialInstructions *string `json:"specialInstructions"`
	PromoCode           *string `json:"promoCode"`
}

// Apply merges p into f. A payment method or zone outside the known sets is
// rejected; empty strings clear the field.
func (f *Form) Apply(p FormPatch) error {
	if p.PaymentMethod != nil {
		m := strings.TrimSpace(*p.PaymentMethod)
		if m != "" && !ValidPaymentMethod(m) {
			return &ValidationError{Field: "paymentMethod", Message: MsgInvalidPayment}
		}
		f.PaymentMethod = m
	}
	if p.DeliveryLocation != nil {
		z := Zone(strings.TrimSpace(*p.DeliveryLocation))
		if z != "" && !ValidZone(z) {
			return &ValidationError{Field: "deliveryLocation", Message: MsgInvalidZone}
		}
		f.DeliveryLocation = z
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&f.Customer.Name, p.Name)
	set(&f.Customer.Email, p.Email)
	set(&f.Customer.Phone, p.Phone)
	set(&f.Customer.Address, p.Address)
	set(&f.SpecialInstructions, p.SpecialInstructions)
	set(&f.PromoCode, p.PromoCode)
	return nil
}

type requirement struct {
	field string
	value string
}

// Validate checks the required fields of a channel. Email is only mandatory
// for the email channel.
func (f Form) Validate(channel string) error {
	msg := MsgMissingInfo
	required := []requirement{{"name", f.Customer.Name}}
	if channel == models.MethodEmail {
		required = append(required, requirement{"email", f.Customer.Email})
		msg = MsgMissingInfoEmail
	}
	required = append(required,
		requirement{"phone", f.Customer.Phone},
		requirement{"paymentMethod", f.PaymentMethod},
		requirement{"deliveryLocation", string(f.DeliveryLocation)},
	)

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.field)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Field: missing[0], Missing: missing, Message: msg}
	}
	return nil
}
