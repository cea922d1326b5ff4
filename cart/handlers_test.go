package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/session"
)

func newRouter(policy MergePolicy) *httprouter.Router {
	h := &Handlers{
		Service: &Service{Store: session.NewMemoryStore(time.Hour), Policy: policy},
		Logger:  zap.NewNop(),
	}
	withSession := func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			next(w, r.WithContext(session.WithID(r.Context(), "sid")), ps)
		}
	}
	router := httprouter.New()
	router.GET("/api/cart", withSession(h.GetCart))
	router.DELETE("/api/cart", withSession(h.ClearCart))
	router.POST("/api/cart/items", withSession(h.AddItem))
	router.PATCH("/api/cart/items/:line", withSession(h.UpdateItem))
	router.DELETE("/api/cart/items/:line", withSession(h.RemoveItem))
	router.POST("/api/cart/open", withSession(h.Open))
	router.POST("/api/cart/close", withSession(h.Close))
	return router
}

func do(t *testing.T, router http.Handler, method, path, body string) (int, View) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	var v View
	if rec.Code < 300 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	}
	return rec.Code, v
}

func TestHandlers_Flow(t *testing.T) {
	router := newRouter(PolicyMerge)

	code, v := do(t, router, http.MethodGet, "/api/cart", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, v.Items)

	code, v = do(t, router, http.MethodPost, "/api/cart/items", `{"id":3,"name":"Mug","price":450,"quantity":2,"variants":{"size":"L"}}`)
	require.Equal(t, http.StatusCreated, code)
	require.Len(t, v.Items, 1)
	assert.Equal(t, "3:L:", v.Items[0].Line)
	assert.Equal(t, "900", v.Total.String())

	_, v = do(t, router, http.MethodPost, "/api/cart/items", `{"id":5,"name":"Card","price":"120.50"}`)
	assert.Equal(t, 3, v.ItemCount)
	assert.Equal(t, "1020.5", v.Total.String())

	_, v = do(t, router, http.MethodPatch, "/api/cart/items/3:L:", `{"quantity":0}`)
	assert.Equal(t, 1, v.Lines)

	_, v = do(t, router, http.MethodPost, "/api/cart/open", "")
	assert.True(t, v.Open)

	_, v = do(t, router, http.MethodDelete, "/api/cart", "")
	assert.Empty(t, v.Items)
	assert.True(t, v.Open)

	_, v = do(t, router, http.MethodPost, "/api/cart/close", "")
	assert.False(t, v.Open)
}

func TestHandlers_AppendPolicyFromService(t *testing.T) {
	router := newRouter(PolicyAppend)
	do(t, router, http.MethodPost, "/api/cart/items", `{"id":1,"name":"Mug","price":10}`)
	_, v := do(t, router, http.MethodPost, "/api/cart/items", `{"id":1,"name":"Mug","price":10}`)
	assert.Equal(t, 2, v.Lines)
}

func TestHandlers_RejectsInvalid(t *testing.T) {
	router := newRouter(PolicyMerge)
	for _, body := range []string{`{`, `{"id":0,"name":"x","price":1}`, `{"id":1,"name":" ","price":1}`, `{"id":1,"name":"x","price":-1}`} {
		code, _ := do(t, router, http.MethodPost, "/api/cart/items", body)
		assert.Equal(t, http.StatusBadRequest, code, body)
	}
	code, _ := do(t, router, http.MethodPatch, "/api/cart/items/1", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, router, http.MethodPost, "/api/cart/items", `{"id":1,"name":"x","price":1,"quantity":1000}`)
	assert.Equal(t, http.StatusBadRequest, code)
	do(t, router, http.MethodPost, "/api/cart/items", `{"id":1,"name":"x","price":1}`)
	code, _ = do(t, router, http.MethodPatch, "/api/cart/items/1", `{"quantity":9223372036854775807}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHandlers_RequireSession(t *testing.T) {
	h := &Handlers{Service: &Service{Store: session.NewMemoryStore(time.Hour)}, Logger: zap.NewNop()}
	rec := httptest.NewRecorder()
	h.GetCart(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil).WithContext(context.Background()), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
