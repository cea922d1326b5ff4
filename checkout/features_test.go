package checkout

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"storefront/cart"
)

type checkoutFeature struct {
	f   *fixture
	err error
}

func (c *checkoutFeature) reset() {
	c.f = newFixture()
	c.err = nil
}

func (c *checkoutFeature) view() (View, error) {
	return c.f.svc.View(context.Background(), c.f.sid)
}

func (c *checkoutFeature) anEmptyCart() error {
	_, err := c.f.svc.Cart.Dispatch(context.Background(), c.f.sid, cart.Clear{})
	return err
}

func (c *checkoutFeature) percentPromo(code string, pct, max int) error {
	c.f.remote.promos[code] = percentage(int64(pct), int64(max), 0)
	return nil
}

func (c *checkoutFeature) minimumPromo(code string, pct, min int) error {
	c.f.remote.promos[code] = percentage(int64(pct), 0, int64(min))
	return nil
}

func (c *checkoutFeature) fixedPromo(code string, amount int) error {
	c.f.remote.promos[code] = fixed(int64(amount))
	return nil
}

func (c *checkoutFeature) cartHolds(id int, price string, qty int) error {
	c.f.addToCart(int64(id), price, qty)
	return nil
}

func (c *checkoutFeature) cartIsOpen() error {
	_, err := c.f.svc.Cart.Dispatch(context.Background(), c.f.sid, cart.SetOpen{Open: true})
	return err
}

func (c *checkoutFeature) setQuantity(line string, qty int) error {
	_, err := c.f.svc.Cart.Dispatch(context.Background(), c.f.sid, cart.UpdateQuantity{Line: line, Quantity: qty})
	return err
}

func (c *checkoutFeature) customer(name, phone, email, payment, zone string) error {
	c.f.fillForm(name, email, phone, payment, zone)
	return nil
}

func (c *checkoutFeature) applyPromo(code string) error {
	_, _, c.err = c.f.svc.ApplyPromo(context.Background(), c.f.sid, code)
	return nil
}

func (c *checkoutFeature) chooseZone(zone string) error {
	_, err := c.f.svc.UpdateForm(context.Background(), c.f.sid, FormPatch{DeliveryLocation: &zone})
	return err
}

func (c *checkoutFeature) proceed() error {
	_, err := c.f.svc.Move(context.Background(), c.f.sid, EventProceed)
	return err
}

func (c *checkoutFeature) submit(channel string) error {
	_, c.err = c.f.svc.Submit(context.Background(), c.f.sid, channel)
	return nil
}

func (c *checkoutFeature) apiDown() error {
	c.f.remote.fail = errors.New("503 Service Unavailable")
	return nil
}

func (c *checkoutFeature) amountIs(field func(Totals) decimal.Decimal, name string) func(string) error {
	return func(want string) error {
		v, err := c.view()
		if err != nil {
			return err
		}
		if got := field(v.Totals); !got.Equal(decimal.RequireFromString(want)) {
			return fmt.Errorf("%s: expected %s, got %s", name, want, got)
		}
		return nil
	}
}

func (c *checkoutFeature) exceeds(want bool) func() error {
	return func() error {
		v, err := c.view()
		if err != nil {
			return err
		}
		if v.Totals.DiscountExceedsSubtotal != want {
			return fmt.Errorf("discountExceedsSubtotal = %v", v.Totals.DiscountExceedsSubtotal)
		}
		return nil
	}
}

func (c *checkoutFeature) rejectedForMinimum() error {
	var minErr *MinimumOrderError
	if !errors.As(c.err, &minErr) {
		return fmt.Errorf("expected a minimum order error, got %v", c.err)
	}
	return nil
}

func (c *checkoutFeature) noRemoteCall() error {
	if calls := c.f.remote.Calls(); len(calls) > 0 {
		return fmt.Errorf("unexpected remote calls: %v", calls)
	}
	return nil
}

func (c *checkoutFeature) rejectedForMissing(field string) error {
	var verr *ValidationError
	if !errors.As(c.err, &verr) {
		return fmt.Errorf("expected a validation error, got %v", c.err)
	}
	if verr.Field != field {
		return fmt.Errorf("expected missing %q, got %q", field, verr.Field)
	}
	return nil
}

func (c *checkoutFeature) accepted() error {
	if c.err != nil {
		return fmt.Errorf("expected success, got %v", c.err)
	}
	return nil
}

func (c *checkoutFeature) failedRemotely() error {
	var rerr *RemoteError
	if !errors.As(c.err, &rerr) {
		return fmt.Errorf("expected a remote error, got %v", c.err)
	}
	return nil
}

func (c *checkoutFeature) cartCount(n int) error {
	if got := c.f.cart().ItemCount(); got != n {
		return fmt.Errorf("expected %d items, got %d", n, got)
	}
	return nil
}

func (c *checkoutFeature) cartEmpty() error {
	if !c.f.cart().IsEmpty() {
		return errors.New("cart is not empty")
	}
	return nil
}

func (c *checkoutFeature) cartClosed() error {
	if c.f.cart().Open {
		return errors.New("cart is still open")
	}
	return nil
}

func (c *checkoutFeature) atCartReview() error {
	v, err := c.view()
	if err != nil {
		return err
	}
	if v.Step != StepCartReview {
		return fmt.Errorf("step is %s", v.Step)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &checkoutFeature{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^an empty cart$`, tc.anEmptyCart)
	ctx.Step(`^the promo code "([^"]*)" gives (\d+) percent capped at (\d+)$`, tc.percentPromo)
	ctx.Step(`^the promo code "([^"]*)" gives (\d+) percent with a minimum order of (\d+)$`, tc.minimumPromo)
	ctx.Step(`^the promo code "([^"]*)" gives a fixed (\d+)$`, tc.fixedPromo)
	ctx.Step(`^the cart holds product (\d+) at ([\d.]+) times (\d+)$`, tc.cartHolds)
	ctx.Step(`^the cart is open$`, tc.cartIsOpen)
	ctx.Step(`^the customer "([^"]*)" with phone "([^"]*)" and email "([^"]*)" pays by "([^"]*)" to "([^"]*)"$`, tc.customer)
	ctx.Step(`^the shop API is down$`, tc.apiDown)

	// When steps
	ctx.Step(`^I apply the promo code "([^"]*)"$`, tc.applyPromo)
	ctx.Step(`^I set the cart quantity of line "([^"]*)" to (-?\d+)$`, tc.setQuantity)
	ctx.Step(`^I choose the delivery location "([^"]*)"$`, tc.chooseZone)
	ctx.Step(`^I proceed to the checkout form$`, tc.proceed)
	ctx.Step(`^I submit the order via "([^"]*)"$`, tc.submit)

	// Then steps
	ctx.Step(`^the discount is ([\d.]+)$`, tc.amountIs(func(t Totals) decimal.Decimal { return t.Discount }, "discount"))
	ctx.Step(`^the total is ([\d.]+)$`, tc.amountIs(func(t Totals) decimal.Decimal { return t.Total }, "total"))
	ctx.Step(`^the delivery fee is ([\d.]+)$`, tc.amountIs(func(t Totals) decimal.Decimal { return t.DeliveryFee }, "delivery fee"))
	ctx.Step(`^the discount exceeds the subtotal$`, tc.exceeds(true))
	ctx.Step(`^the discount does not exceed the subtotal$`, tc.exceeds(false))
	ctx.Step(`^the promo is rejected for the minimum order$`, tc.rejectedForMinimum)
	ctx.Step(`^no remote call was made$`, tc.noRemoteCall)
	ctx.Step(`^the submission is rejected for missing "([^"]*)"$`, tc.rejectedForMissing)
	ctx.Step(`^the order is accepted$`, tc.accepted)
	ctx.Step(`^the submission failed remotely$`, tc.failedRemotely)
	ctx.Step(`^the cart holds (\d+) items$`, tc.cartCount)
	ctx.Step(`^the cart is empty$`, tc.cartEmpty)
	ctx.Step(`^the cart is closed$`, tc.cartClosed)
	ctx.Step(`^the checkout is back at the cart review$`, tc.atCartReview)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
