package cart

import (
	"context"

	"github.com/shopspring/decimal"

	"storefront/globals"
	"storefront/models"
	"storefront/session"
)

// Service loads, mutates and saves a session's cart.
type Service struct {
	Store  session.Store
	Policy MergePolicy
}

func (s *Service) Load(ctx context.Context, sid string) (Cart, error) {
	return session.Get[Cart](ctx, s.Store, sid, globals.NSCart)
}

// Dispatch applies actions in order and persists the result once. Concurrent
// dispatches on one session are serialised by the store.
func (s *Service) Dispatch(ctx context.Context, sid string, actions ...Action) (Cart, error) {
	return session.Update(ctx, s.Store, sid, globals.NSCart, func(c *Cart) error {
		for _, a := range actions {
			if add, ok := a.(Add); ok && add.Policy == "" {
				add.Policy = s.Policy
				a = add
			}
			c.Dispatch(a)
		}
		return nil
	})
}

// View is the cart as served to the browser.
type View struct {
	Items     []models.CartItem `json:"items"`
	Total     decimal.Decimal   `json:"total"`
	ItemCount int               `json:"itemCount"`
	Lines     int               `json:"lines"`
	Open      bool              `json:"open"`
}

func NewView(c Cart) View {
	items := c.Items
	if items == nil {
		items = []models.CartItem{}
	}
	return View{
		Items:     items,
		Total:     c.Total(),
		ItemCount: c.ItemCount(),
		Lines:     c.Lines(),
		Open:      c.Open,
	}
}
