// Package checkout runs the two-step checkout: cart review, then the customer
// form, then submission through one of three channels.
package checkout

import (
	"encoding/json"
	"fmt"
)

type Step int

const (
	StepCartReview Step = iota + 1
	StepCheckoutForm
)

func (s Step) String() string {
	switch s {
	case StepCartReview:
		return "cart_review"
	case StepCheckoutForm:
		return "checkout_form"
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

func (s Step) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Step) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	switch name {
	case "checkout_form":
		*s = StepCheckoutForm
	default:
		*s = StepCartReview
	}
	return nil
}

type Event int

const (
	EventProceed Event = iota
	EventBack
	EventSubmitted
	EventClose
)

// Transition is the outcome of Next. CloseModal asks the caller to close the
// surrounding cart modal.
type Transition struct {
	Step       Step
	CloseModal bool
}

// Next is total over every step and event. Proceed needs no validation; the
// form is only validated on submit.
func Next(s Step, e Event) Transition {
	switch e {
	case EventProceed:
		return Transition{Step: StepCheckoutForm}
	case EventBack:
		return Transition{Step: StepCartReview}
	case EventSubmitted, EventClose:
		return Transition{Step: StepCartReview, CloseModal: true}
	}
	if s != StepCheckoutForm {
		s = StepCartReview
	}
	return Transition{Step: s}
}
