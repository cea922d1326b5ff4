package i18n

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/globals"
	"storefront/session"
)

func TestTranslate(t *testing.T) {
	p := NewProvider()

	assert.Equal(t, "Add to Cart", p.Translate(English, "add_to_cart"))
	assert.Equal(t, "কার্টে যোগ করুন", p.Translate(Bengali, "add_to_cart"))
	assert.Equal(t, "Add to Cart", p.Translate("fr", "add_to_cart"), "unsupported language falls back to English")
	assert.Equal(t, "no_such_key", p.Translate(Bengali, "no_such_key"))
}

func TestTables_HaveSameKeys(t *testing.T) {
	for key := range english {
		_, ok := bengali[key]
		assert.True(t, ok, "bn missing %q", key)
	}
	assert.Len(t, bengali, len(english))
}

func TestTable_IsCopy(t *testing.T) {
	p := NewProvider()
	tbl := p.Table(English)
	tbl["home"] = "changed"
	assert.Equal(t, "Home", p.Translate(English, "home"))
}

func TestNegotiate(t *testing.T) {
	p := NewProvider()
	tests := []struct {
		header string
		want   string
	}{
		{"", English},
		{"bn-BD,bn;q=0.9,en;q=0.8", Bengali},
		{"en-US,en;q=0.9", English},
		{"fr-FR", English},
		{"de;q=0.5,bn;q=0.4", Bengali},
		{";;;garbage", English},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.Negotiate(tt.header), tt.header)
	}
}

func TestFromContext(t *testing.T) {
	assert.Equal(t, English, FromContext(context.Background()))
	assert.Equal(t, Bengali, FromContext(WithLanguage(context.Background(), Bengali)))
}

func newHandlers() *Handlers {
	return &Handlers{Provider: NewProvider(), Store: session.NewMemoryStore(time.Hour), Logger: zap.NewNop()}
}

func TestSetLanguage(t *testing.T) {
	h := newHandlers()
	ctx := session.WithID(context.Background(), "sid")

	req := httptest.NewRequest(http.MethodPut, "/api/session/language", strings.NewReader(`{"language":"bn"}`)).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.SetLanguage(rec, req, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Language string            `json:"language"`
		Table    map[string]string `json:"table"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, Bengali, body.Language)
	assert.Equal(t, "হোম", body.Table["home"])

	stored, err := session.Get[string](ctx, h.Store, "sid", globals.NSLanguage)
	require.NoError(t, err)
	assert.Equal(t, Bengali, stored)

	// stored preference wins over the header
	req = httptest.NewRequest(http.MethodGet, "/api/i18n", nil).WithContext(ctx)
	req.Header.Set("Accept-Language", "en-US")
	assert.Equal(t, Bengali, h.Resolve(req))
}

func TestSetLanguage_Unsupported(t *testing.T) {
	h := newHandlers()
	ctx := session.WithID(context.Background(), "sid")

	req := httptest.NewRequest(http.MethodPut, "/api/session/language", strings.NewReader(`{"language":"fr"}`)).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.SetLanguage(rec, req, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unsupported language")
}

func TestResolve_WithoutSession(t *testing.T) {
	h := newHandlers()
	req := httptest.NewRequest(http.MethodGet, "/api/i18n", nil)
	req.Header.Set("Accept-Language", "bn")
	assert.Equal(t, Bengali, h.Resolve(req))
}
