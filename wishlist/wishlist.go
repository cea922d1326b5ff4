// Package wishlist keeps the saved products of a session, one entry per id.
package wishlist

import (
	"context"

	"storefront/globals"
	"storefront/models"
	"storefront/session"
)

type Wishlist struct {
	Items []models.WishlistItem `json:"items"`
	Open  bool                  `json:"open"`
}

// Add is a no-op when the id is already saved.
func (wl *Wishlist) Add(item models.WishlistItem) bool {
	if wl.Contains(item.ID) {
		return false
	}
	wl.Items = append(wl.Items, item)
	return true
}

func (wl *Wishlist) Remove(id int64) bool {
	for i, it := range wl.Items {
		if it.ID == id {
			wl.Items = append(wl.Items[:i:i], wl.Items[i+1:]...)
			return true
		}
	}
	return false
}

func (wl *Wishlist) Contains(id int64) bool {
	for _, it := range wl.Items {
		if it.ID == id {
			return true
		}
	}
	return false
}

// Toggle removes a saved item or saves a new one, and reports whether the item
// is saved afterwards.
func (wl *Wishlist) Toggle(item models.WishlistItem) bool {
	if wl.Remove(item.ID) {
		return false
	}
	wl.Items = append(wl.Items, item)
	return true
}

func (wl *Wishlist) Clear() {
	wl.Items = nil
}

type Service struct {
	Store session.Store
}

func (s *Service) Load(ctx context.Context, sid string) (Wishlist, error) {
	return session.Get[Wishlist](ctx, s.Store, sid, globals.NSWishlist)
}

// Update runs fn on the stored wishlist and saves it atomically. fn may run
// more than once when requests race.
func (s *Service) Update(ctx context.Context, sid string, fn func(*Wishlist)) (Wishlist, error) {
	return session.Update(ctx, s.Store, sid, globals.NSWishlist, func(wl *Wishlist) error {
		fn(wl)
		return nil
	})
}
