package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sample struct {
	Items []string `json:"items"`
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour)

	found, err := s.Load(ctx, "sid", "cart", &sample{})
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Save(ctx, "sid", "cart", sample{Items: []string{"a"}}))
	got, err := Get[sample](ctx, s, "sid", "cart")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got.Items)

	other, err := Get[sample](ctx, s, "sid", "wishlist")
	require.NoError(t, err)
	assert.Empty(t, other.Items, "namespaces are independent")

	require.NoError(t, s.Delete(ctx, "sid", "cart"))
	found, err = s.Load(ctx, "sid", "cart", &sample{})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	s := NewMemoryStore(time.Minute)
	s.now = func() time.Time { return now }

	require.NoError(t, Put(ctx, s, "sid", "language", "bn"))
	now = now.Add(2 * time.Minute)

	var lang string
	found, err := s.Load(ctx, "sid", "language", &lang)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestTokens_IssueAndParse(t *testing.T) {
	tokens := NewTokens([]byte("secret"), time.Hour)
	token, sid, expires, err := tokens.Issue()
	require.NoError(t, err)
	assert.NotEmpty(t, sid)
	assert.True(t, expires.After(time.Now()))

	got, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, sid, got)
}

func TestTokens_Rejects(t *testing.T) {
	tokens := NewTokens([]byte("secret"), time.Hour)
	token, _, _, err := tokens.Issue()
	require.NoError(t, err)

	_, err = NewTokens([]byte("other"), time.Hour).Parse(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	_, err = tokens.Parse(token + "x")
	assert.True(t, errors.Is(err, ErrInvalidToken))

	expired, _, _, err := NewTokens([]byte("secret"), -time.Minute).Issue()
	require.NoError(t, err)
	_, err = tokens.Parse(expired)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestIDFromContext(t *testing.T) {
	_, err := IDFromContext(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)

	sid, err := IDFromContext(WithID(context.Background(), "abc"))
	require.NoError(t, err)
	assert.Equal(t, "abc", sid)
}

func TestMemoryLocker(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLocker()

	ok, err := l.Acquire(ctx, "submit:sid", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = l.Acquire(ctx, "submit:sid", time.Minute)
	assert.False(t, ok)

	require.NoError(t, l.Release(ctx, "submit:sid"))
	ok, _ = l.Acquire(ctx, "submit:sid", time.Minute)
	assert.True(t, ok)
}

func TestHandlers_Create(t *testing.T) {
	tokens := NewTokens([]byte("secret"), time.Hour)
	h := &Handlers{Tokens: tokens, Logger: zap.NewNop()}

	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/api/session", nil), nil)

	assert.Equal(t, http.StatusCreated, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)

	_, err := tokens.Parse(cookies[0].Value)
	assert.NoError(t, err)
}

func TestUpdate_StartsFromZeroAndAbortsOnError(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour)

	n, err := Update(ctx, s, "sid", "count", func(n *int) error { *n++; return nil })
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	boom := errors.New("boom")
	_, err = Update(ctx, s, "sid", "count", func(n *int) error { *n = 99; return boom })
	assert.ErrorIs(t, err, boom)

	got, err := Get[int](ctx, s, "sid", "count")
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}
