package shopapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/models"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, time.Second, nil)
	require.NoError(t, err)
	return c
}

func TestNew_RejectsRelativeBase(t *testing.T) {
	_, err := New("/api", time.Second, nil)
	assert.Error(t, err)
}

func TestProducts_QueryParameters(t *testing.T) {
	var got map[string]string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products", r.URL.Path)
		got = map[string]string{}
		for k := range r.URL.Query() {
			got[k] = r.URL.Query().Get(k)
		}
		w.Write([]byte(`[{"id":1,"name":"Mug","price":"500.00","rating":"4.5","featured":true,"inStock":true}]`))
	}))

	products, err := c.Products(context.Background(), ProductQuery{
		Search: "mug", CategoryID: 3, MinPrice: 400, MaxPrice: 4000, InStock: true, Limit: 50,
	})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.True(t, products[0].Price.Equal(decimal.NewFromInt(500)))
	assert.True(t, products[0].Rating.Equal(decimal.RequireFromString("4.5")))

	assert.Equal(t, map[string]string{
		"search": "mug", "categoryId": "3", "minPrice": "400", "maxPrice": "4000",
		"inStock": "true", "limit": "50", "offset": "0",
	}, got)
}

func TestPromo_NotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/promos/SAVE10", r.URL.Path)
		http.Error(w, `{"message":"Promo code not found"}`, http.StatusNotFound)
	}))

	_, err := c.Promo(context.Background(), "SAVE10")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)
}

func TestPromo_OptionalFields(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"HALF","discount":"50","discountType":"percentage","maxDiscount":"300","minAmount":null}`))
	}))

	p, err := c.Promo(context.Background(), "HALF")
	require.NoError(t, err)
	assert.Equal(t, models.PromoPercentage, p.DiscountType)
	assert.True(t, p.MaxDiscount.Valid)
	assert.False(t, p.MinAmount.Valid)
}

func TestCreateOrder(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in models.OrderPayload
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, models.MethodDirect, in.OrderMethod)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"orderId":"TXR-20250718-001","status":"pending"}`))
	}))

	out, err := c.CreateOrder(context.Background(), models.OrderPayload{OrderMethod: models.MethodDirect})
	require.NoError(t, err)
	assert.Equal(t, "TXR-20250718-001", out.OrderID)
}

func TestWhatsAppOrder_WrapsOrderData(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in map[string]json.RawMessage
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Contains(t, in, "orderData")
		w.Write([]byte(`{"whatsappUrl":"https://wa.me/8801747292277?text=hi"}`))
	}))

	link, err := c.WhatsAppOrder(context.Background(), models.OrderPayload{})
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/8801747292277?text=hi", link)
}

func TestWhatsAppOrder_MissingLinkIsError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	_, err := c.WhatsAppOrder(context.Background(), models.OrderPayload{})
	assert.Error(t, err)
}

func TestSendOrderEmail_ServerError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	err := c.SendOrderEmail(context.Background(), "a@b.c", "Order", models.OrderPayload{})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestTrackOrder(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/track", r.URL.Path)
		assert.Equal(t, "TXR-1", r.URL.Query().Get("id"))
		w.Write([]byte(`{"orderId":"TXR-1","status":"shipped","items":[],"total":"580"}`))
	}))

	o, err := c.TrackOrder(context.Background(), "TXR-1")
	require.NoError(t, err)
	assert.Equal(t, "shipped", o.Status)
}

func TestImage_RefusesForeignHost(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("png"))
	}))

	_, err := c.Image(context.Background(), "https://evil.example/x.png")
	assert.Error(t, err)

	data, err := c.Image(context.Background(), "/uploads/x.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)
}
