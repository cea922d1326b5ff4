// Package rdx holds the Redis-backed session store, submit lock and client setup.
package rdx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/session"
)

// Connect opens a client and pings it once.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	conn := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := conn.Ping(ctx).Err(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return conn, nil
}

// Store keeps every session namespace as a JSON string with a sliding TTL.
type Store struct {
	Conn *redis.Client
	TTL  time.Duration
}

var _ session.Store = (*Store)(nil)

func NewStore(conn *redis.Client, ttl time.Duration) *Store {
	return &Store{Conn: conn, TTL: ttl}
}

func (s *Store) Load(ctx context.Context, sid, ns string, dst any) (bool, error) {
	raw, err := s.Conn.Get(ctx, session.Key(sid, ns)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("decode %s: %w", ns, err)
	}
	return true, nil
}

func (s *Store) Save(ctx context.Context, sid, ns string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Conn.Set(ctx, session.Key(sid, ns), data, s.TTL).Err()
}

// maxTxRetries bounds optimistic retries when another request touched the key.
const maxTxRetries = 50

// Modify runs fn under WATCH and writes in MULTI, retrying on conflicts.
func (s *Store) Modify(ctx context.Context, sid, ns string, fn func([]byte) ([]byte, error)) error {
	key := session.Key(sid, ns)
	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			raw = nil
		} else if err != nil {
			return err
		}
		out, err := fn(raw)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, s.TTL)
			return nil
		})
		return err
	}
	for i := 0; i < maxTxRetries; i++ {
		err := s.Conn.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return session.ErrConflict
}

func (s *Store) Delete(ctx context.Context, sid, ns string) error {
	return s.Conn.Del(ctx, session.Key(sid, ns)).Err()
}

// Locker is a SET NX lock. Expiry releases a lock whose holder died.
type Locker struct {
	Conn *redis.Client
}

var _ session.Locker = (*Locker)(nil)

func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.Conn.SetNX(ctx, "lock:"+key, "1", ttl).Result()
}

func (l *Locker) Release(ctx context.Context, key string) error {
	return l.Conn.Del(ctx, "lock:"+key).Err()
}
