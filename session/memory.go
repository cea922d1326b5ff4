package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memEntry struct {
	data    []byte
	expires time.Time
}

// MemoryStore keeps state in process. Used for development and tests.
type MemoryStore struct {
	mu   sync.Mutex
	ttl  time.Duration
	data map[string]memEntry
	now  func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, data: make(map[string]memEntry), now: time.Now}
}

func (m *MemoryStore) Load(_ context.Context, sid, ns string, dst any) (bool, error) {
	m.mu.Lock()
	e, ok := m.data[Key(sid, ns)]
	if ok && m.ttl > 0 && m.now().After(e.expires) {
		delete(m.data, Key(sid, ns))
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(e.data, dst)
}

func (m *MemoryStore) Save(_ context.Context, sid, ns string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[Key(sid, ns)] = memEntry{data: b, expires: m.now().Add(m.ttl)}
	m.mu.Unlock()
	return nil
}

// Modify holds the store lock while fn runs.
func (m *MemoryStore) Modify(_ context.Context, sid, ns string, fn func([]byte) ([]byte, error)) error {
	key := Key(sid, ns)
	m.mu.Lock()
	defer m.mu.Unlock()
	var data []byte
	if e, ok := m.data[key]; ok && (m.ttl <= 0 || !m.now().After(e.expires)) {
		data = e.data
	}
	out, err := fn(data)
	if err != nil {
		return err
	}
	m.data[key] = memEntry{data: out, expires: m.now().Add(m.ttl)}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sid, ns string) error {
	m.mu.Lock()
	delete(m.data, Key(sid, ns))
	m.mu.Unlock()
	return nil
}

// MemoryLocker is the in-process Locker.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]time.Time
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]time.Time)}
}

func (l *MemoryLocker) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if until, ok := l.held[key]; ok && time.Now().Before(until) {
		return false, nil
	}
	l.held[key] = time.Now().Add(ttl)
	return true, nil
}

func (l *MemoryLocker) Release(_ context.Context, key string) error {
	l.mu.Lock()
	delete(l.held, key)
	l.mu.Unlock()
	return nil
}
