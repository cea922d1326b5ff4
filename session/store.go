// Package session keeps the per-visitor state that a browser storefront would
// otherwise hold locally: language, cart, wishlist, checkout form and listing
// filters. Every namespace is stored independently under the guest session id.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/globals"
)

var (
	ErrNoSession    = errors.New("session: missing session")
	ErrInvalidToken = errors.New("session: invalid token")
	// ErrConflict means an update kept losing to concurrent writers.
	ErrConflict = errors.New("session: concurrent update")
)

// Store persists JSON-encodable values per (session, namespace).
type Store interface {
	// Load decodes the stored value into dst and reports whether one existed.
	Load(ctx context.Context, sid, ns string, dst any) (bool, error)
	Save(ctx context.Context, sid, ns string, v any) error
	Delete(ctx context.Context, sid, ns string) error
	// Modify replaces the stored JSON with fn's result as one atomic step.
	// data is nil when nothing is stored. fn may run more than once and an
	// error from it aborts without writing.
	Modify(ctx context.Context, sid, ns string, fn func(data []byte) ([]byte, error)) error
}

// Key is the storage key shared by all drivers.
func Key(sid, ns string) string {
	return "sf:" + sid + ":" + ns
}

// Get loads a namespace into a fresh T; a missing value yields the zero T.
func Get[T any](ctx context.Context, s Store, sid, ns string) (T, error) {
	var v T
	if _, err := s.Load(ctx, sid, ns, &v); err != nil {
		return v, fmt.Errorf("load %s: %w", ns, err)
	}
	return v, nil
}

// Put saves v under the namespace.
func Put(ctx context.Context, s Store, sid, ns string, v any) error {
	if err := s.Save(ctx, sid, ns, v); err != nil {
		return fmt.Errorf("save %s: %w", ns, err)
	}
	return nil
}

// Update loads a namespace into a fresh T, applies fn and saves the result
// without losing writes made by concurrent requests of the same session.
func Update[T any](ctx context.Context, s Store, sid, ns string, fn func(*T) error) (T, error) {
	var out T
	err := s.Modify(ctx, sid, ns, func(data []byte) ([]byte, error) {
		var v T
		if data != nil {
			if err := json.Unmarshal(data, &v); err != nil {
				return nil, fmt.Errorf("decode %s: %w", ns, err)
			}
		}
		if err := fn(&v); err != nil {
			return nil, err
		}
		out = v
		return json.Marshal(v)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// WithID stores the session id in ctx.
func WithID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, globals.SessionIDKey, sid)
}

// IDFromContext returns the session id placed by the session middleware.
func IDFromContext(ctx context.Context) (string, error) {
	sid, ok := ctx.Value(globals.SessionIDKey).(string)
	if !ok || sid == "" {
		return "", ErrNoSession
	}
	return sid, nil
}

// Locker is a best-effort mutual exclusion keyed by string.
type Locker interface {
	// Acquire returns false when the key is already held.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}
