package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/cart"
	"storefront/globals"
	"storefront/models"
	"storefront/mq"
	"storefront/session"
	"storefront/shopapi"
)

// Remote is the part of the shop API the checkout calls.
type Remote interface {
	Promo(ctx context.Context, code string) (*models.Promo, error)
	CreateOrder(ctx context.Context, order models.OrderPayload) (*shopapi.CreatedOrder, error)
	WhatsAppOrder(ctx context.Context, order models.OrderPayload) (string, error)
	SendOrderEmail(ctx context.Context, to, subject string, order models.OrderPayload) error
}

// State is the persisted checkout namespace.
type State struct {
	Step         Step            `json:"step"`
	Form         Form            `json:"form"`
	Discount     decimal.Decimal `json:"discount"`
	AppliedPromo string          `json:"appliedPromo,omitempty"`
}

// View is the checkout as served to the browser. Totals are recomputed from
// the current cart on every read.
type View struct {
	Step           Step            `json:"step"`
	Form           Form            `json:"form"`
	AppliedPromo   string          `json:"appliedPromo,omitempty"`
	Cart           cart.View       `json:"cart"`
	Totals         Totals          `json:"totals"`
	PaymentMethods []PaymentMethod `json:"paymentMethods"`
	Zones          []ZoneOption    `json:"deliveryLocations"`
}

// Result describes a successful submission.
type Result struct {
	Channel     string              `json:"channel"`
	OrderID     string              `json:"orderId,omitempty"`
	WhatsAppURL string              `json:"whatsappUrl,omitempty"`
	Order       models.OrderPayload `json:"order"`
}

type Service struct {
	Store  session.Store
	Cart   *cart.Service
	Remote Remote
	Locker session.Locker
	Events mq.Emitter // optional
	Brand  string
	Logger *zap.Logger
	// LockTTL bounds how long a crashed direct submission blocks the session.
	LockTTL time.Duration
}

func (s *Service) load(ctx context.Context, sid string) (State, cart.Cart, error) {
	st, err := session.Get[State](ctx, s.Store, sid, globals.NSCheckout)
	if err != nil {
		return State{}, cart.Cart{}, err
	}
	if st.Step == 0 {
		st.Step = StepCartReview
	}
	c, err := s.Cart.Load(ctx, sid)
	if err != nil {
		return State{}, cart.Cart{}, err
	}
	return st, c, nil
}

// update applies fn to the stored state atomically.
func (s *Service) update(ctx context.Context, sid string, fn func(*State) error) (State, error) {
	return session.Update(ctx, s.Store, sid, globals.NSCheckout, func(st *State) error {
		if st.Step == 0 {
			st.Step = StepCartReview
		}
		return fn(st)
	})
}

func newView(st State, c cart.Cart) View {
	return View{
		Step:           st.Step,
		Form:           st.Form,
		AppliedPromo:   st.AppliedPromo,
		Cart:           cart.NewView(c),
		Totals:         ComputeTotals(c.Total(), st.Form.DeliveryLocation, st.Discount),
		PaymentMethods: PaymentMethods,
		Zones:          Zones,
	}
}

func (s *Service) View(ctx context.Context, sid string) (View, error) {
	st, c, err := s.load(ctx, sid)
	if err != nil {
		return View{}, err
	}
	return newView(st, c), nil
}

// Move applies a step event. Events that close the modal also close the cart.
func (s *Service) Move(ctx context.Context, sid string, e Event) (View, error) {
	var tr Transition
	st, err := s.update(ctx, sid, func(st *State) error {
		tr = Next(st.Step, e)
		st.Step = tr.Step
		return nil
	})
	if err != nil {
		return View{}, err
	}
	c, err := s.Cart.Load(ctx, sid)
	if err != nil {
		return View{}, err
	}
	if tr.CloseModal {
		if c, err = s.Cart.Dispatch(ctx, sid, cart.SetOpen{Open: false}); err != nil {
			return View{}, err
		}
	}
	return newView(st, c), nil
}

func (s *Service) UpdateForm(ctx context.Context, sid string, p FormPatch) (View, error) {
	st, err := s.update(ctx, sid, func(st *State) error {
		return st.Form.Apply(p)
	})
	if err != nil {
		return View{}, err
	}
	c, err := s.Cart.Load(ctx, sid)
	if err != nil {
		return View{}, err
	}
	return newView(st, c), nil
}

// ApplyPromo looks the code up and replaces any earlier discount. A blank
// code changes nothing and makes no remote call; applied is false then.
func (s *Service) ApplyPromo(ctx context.Context, sid, code string) (v View, applied bool, err error) {
	st, c, err := s.load(ctx, sid)
	if err != nil {
		return View{}, false, err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return newView(st, c), false, nil
	}

	promo, err := s.Remote.Promo(ctx, code)
	if err != nil {
		s.Logger.Info("promo lookup failed", zap.String("code", code), zap.Error(err))
		return View{}, false, fmt.Errorf("%w: %v", ErrPromoInvalid, err)
	}
	amount, err := Discount(*promo, c.Total())
	if err != nil {
		return View{}, false, err
	}

	st, err = s.update(ctx, sid, func(st *State) error {
		st.Discount = amount
		st.AppliedPromo = code
		st.Form.PromoCode = code
		return nil
	})
	if err != nil {
		return View{}, false, err
	}
	return newView(st, c), true, nil
}

// BuildOrder snapshots the cart and form into the payload sent to the shop.
func BuildOrder(st State, c cart.Cart, channel string) models.OrderPayload {
	totals := ComputeTotals(c.Total(), st.Form.DeliveryLocation, st.Discount)
	lines := make([]models.OrderLine, 0, len(c.Items))
	for _, it := range c.Items {
		lines = append(lines, models.OrderLine{
			ID:       it.ID,
			Name:     it.Name,
			Price:    it.Price,
			Quantity: it.Quantity,
			Variants: it.Variants,
		})
	}
	return models.OrderPayload{
		CustomerName:        st.Form.Customer.Name,
		CustomerEmail:       st.Form.Customer.Email,
		CustomerPhone:       st.Form.Customer.Phone,
		CustomerAddress:     st.Form.Customer.Address,
		Items:               lines,
		Subtotal:            totals.Subtotal,
		DeliveryFee:         totals.DeliveryFee,
		Discount:            totals.Discount,
		Total:               totals.Total,
		PaymentMethod:       st.Form.PaymentMethod,
		DeliveryLocation:    string(st.Form.DeliveryLocation),
		SpecialInstructions: st.Form.SpecialInstructions,
		PromoCode:           st.Form.PromoCode,
		OrderMethod:         channel,
	}
}

func validChannel(ch string) bool {
	switch ch {
	case models.MethodDirect, models.MethodWhatsApp, models.MethodEmail:
		return true
	}
	return false
}

// Submit validates the form for channel and sends the order. On success the
// cart is emptied and closed and the checkout starts over; on failure nothing
// changes.
func (s *Service) Submit(ctx context.Context, sid, channel string) (Result, error) {
	if !validChannel(channel) {
		return Result{}, ErrUnknownChannel
	}

	// The lock is taken before the cart is read so a second submission sees
	// the cart the first one cleared.
	if channel == models.MethodDirect {
		key := "submit:" + sid
		ok, err := s.Locker.Acquire(ctx, key, s.lockTTL())
		if err != nil {
			return Result{}, fmt.Errorf("acquire submit lock: %w", err)
		}
		if !ok {
			return Result{}, ErrSubmitInProgress
		}
		defer func() {
			if err := s.Locker.Release(context.WithoutCancel(ctx), key); err != nil {
				s.Logger.Warn("release submit lock", zap.String("session_id", sid), zap.Error(err))
			}
		}()
	}

	st, c, err := s.load(ctx, sid)
	if err != nil {
		return Result{}, err
	}
	if c.IsEmpty() {
		return Result{}, &ValidationError{Field: "items", Message: MsgEmptyCart}
	}
	if err := st.Form.Validate(channel); err != nil {
		return Result{}, err
	}

	order := BuildOrder(st, c, channel)
	res := Result{Channel: channel, Order: order}
	switch channel {
	case models.MethodDirect:
		created, err := s.Remote.CreateOrder(ctx, order)
		if err != nil {
			return Result{}, &RemoteError{Channel: channel, Err: err}
		}
		res.OrderID = created.OrderID
	case models.MethodWhatsApp:
		link, err := s.Remote.WhatsAppOrder(ctx, order)
		if err != nil {
			return Result{}, &RemoteError{Channel: channel, Err: err}
		}
		res.WhatsAppURL = link
	case models.MethodEmail:
		subject := "Order Confirmation - " + s.Brand
		if err := s.Remote.SendOrderEmail(ctx, order.CustomerEmail, subject, order); err != nil {
			return Result{}, &RemoteError{Channel: channel, Err: err}
		}
	}

	// The order exists remotely from here on, so cleanup errors are only logged.
	var cleanup error
	if _, err := s.Cart.Dispatch(ctx, sid, cart.Clear{}, cart.SetOpen{Open: false}); err != nil {
		cleanup = errors.Join(cleanup, err)
	}
	_, err = s.update(ctx, sid, func(st *State) error {
		st.Step = Next(st.Step, EventSubmitted).Step
		st.Discount = decimal.Zero
		st.AppliedPromo = ""
		st.Form.PromoCode = ""
		st.Form.SpecialInstructions = ""
		return nil
	})
	if err != nil {
		cleanup = errors.Join(cleanup, err)
	}
	if cleanup != nil {
		s.Logger.Error("reset after submission", zap.String("session_id", sid), zap.Error(cleanup))
	}

	if s.Events != nil {
		evt := mq.Submission{
			OrderID:   res.OrderID,
			Channel:   channel,
			Items:     c.ItemCount(),
			Total:     order.Total,
			Submitted: time.Now().UTC(),
		}
		if err := s.Events.Emit(ctx, evt); err != nil {
			s.Logger.Warn("emit submission", zap.Error(err))
		}
	}

	s.Logger.Info("order submitted",
		zap.String("session_id", sid),
		zap.String("channel", channel),
		zap.String("order_id", res.OrderID),
		zap.String("total", order.Total.String()),
	)
	return res, nil
}

func (s *Service) lockTTL() time.Duration {
	if s.LockTTL > 0 {
		return s.LockTTL
	}
	return 30 * time.Second
}
