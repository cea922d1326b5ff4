package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/cart"
	"storefront/models"
	"storefront/mq"
	"storefront/session"
	"storefront/shopapi"
)

// fakeRemote records every call so tests can assert that nothing reached the
// network.
type fakeRemote struct {
	mu       sync.Mutex
	calls    []string
	promos   map[string]models.Promo
	fail     error
	orderID  string
	lastTo   string
	lastSubj string
	last     *models.OrderPayload
	// when set, CreateOrder signals entered and waits for release
	entered chan struct{}
	release chan struct{}
}

func (f *fakeRemote) record(name string, order *models.OrderPayload) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	f.last = order
}

func (f *fakeRemote) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeRemote) Promo(_ context.Context, code string) (*models.Promo, error) {
	f.record("promo:"+code, nil)
	p, ok := f.promos[code]
	if !ok {
		return nil, shopapi.ErrNotFound
	}
	return &p, nil
}

func (f *fakeRemote) CreateOrder(_ context.Context, order models.OrderPayload) (*shopapi.CreatedOrder, error) {
	f.record("orders", &order)
	if f.release != nil {
		f.entered <- struct{}{}
		<-f.release
	}
	if f.fail != nil {
		return nil, f.fail
	}
	return &shopapi.CreatedOrder{OrderID: f.orderID, Status: "pending"}, nil
}

func (f *fakeRemote) WhatsAppOrder(_ context.Context, order models.OrderPayload) (string, error) {
	f.record("whatsapp-order", &order)
	if f.fail != nil {
		return "", f.fail
	}
	return "https://wa.me/8801747292277?text=order", nil
}

func (f *fakeRemote) SendOrderEmail(_ context.Context, to, subject string, order models.OrderPayload) error {
	f.record("send-order-email", &order)
	f.mu.Lock()
	f.lastTo, f.lastSubj = to, subject
	f.mu.Unlock()
	return f.fail
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []mq.Submission
}

func (e *recordingEmitter) Emit(_ context.Context, s mq.Submission) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, s)
	return nil
}

type fixture struct {
	svc    *Service
	remote *fakeRemote
	events *recordingEmitter
	locker *session.MemoryLocker
	sid    string
}

func newFixture() *fixture {
	store := session.NewMemoryStore(time.Hour)
	remote := &fakeRemote{promos: map[string]models.Promo{}, orderID: "ORD-1001"}
	events := &recordingEmitter{}
	locker := session.NewMemoryLocker()
	return &fixture{
		svc: &Service{
			Store:  store,
			Cart:   &cart.Service{Store: store, Policy: cart.PolicyMerge},
			Remote: remote,
			Locker: locker,
			Events: events,
			Brand:  "TryneX",
			Logger: zap.NewNop(),
		},
		remote: remote,
		events: events,
		locker: locker,
		sid:    "sid-1",
	}
}

func (f *fixture) addToCart(id int64, price string, qty int) {
	_, err := f.svc.Cart.Dispatch(context.Background(), f.sid, cart.Add{Item: models.CartItem{
		ID: id, Name: "Item", Price: decimal.RequireFromString(price), Quantity: qty,
	}})
	if err != nil {
		panic(err)
	}
}

func (f *fixture) fillForm(name, email, phone, payment, zone string) {
	_, err := f.svc.UpdateForm(context.Background(), f.sid, FormPatch{
		Name: &name, Email: &email, Phone: &phone, PaymentMethod: &payment, DeliveryLocation: &zone,
	})
	if err != nil {
		panic(err)
	}
}

func (f *fixture) cart() cart.Cart {
	c, err := f.svc.Cart.Load(context.Background(), f.sid)
	if err != nil {
		panic(err)
	}
	return c
}

func percentage(pct, max, min int64) models.Promo {
	p := models.Promo{Code: "P", Discount: decimal.NewFromInt(pct), DiscountType: models.PromoPercentage}
	if max > 0 {
		p.MaxDiscount = decimal.NewNullDecimal(decimal.NewFromInt(max))
	}
	if min > 0 {
		p.MinAmount = decimal.NewNullDecimal(decimal.NewFromInt(min))
	}
	return p
}

func fixed(amount int64) models.Promo {
	return models.Promo{Code: "F", Discount: decimal.NewFromInt(amount), DiscountType: models.PromoFixed}
}
