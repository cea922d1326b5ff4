package shopapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"storefront/models"
)

// ProductQuery mirrors the query parameters of GET /api/products. Zero values
// are omitted.
type ProductQuery struct {
	Search     string
	CategoryID int64
	MinPrice   int64
	MaxPrice   int64
	InStock    bool
	Featured   bool
	Limit      int
	Offset     int
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.CategoryID > 0 {
		v.Set("categoryId", strconv.FormatInt(q.CategoryID, 10))
	}
	if q.MinPrice > 0 {
		v.Set("minPrice", strconv.FormatInt(q.MinPrice, 10))
	}
	if q.MaxPrice > 0 {
		v.Set("maxPrice", strconv.FormatInt(q.MaxPrice, 10))
	}
	if q.InStock {
		v.Set("inStock", "true")
	}
	if q.Featured {
		v.Set("featured", "true")
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	v.Set("offset", strconv.Itoa(q.Offset))
	return v
}

func (c *Client) Products(ctx context.Context, q ProductQuery) ([]models.Product, error) {
	var out []models.Product
	if err := c.get(ctx, "/api/products", q.values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := c.get(ctx, "/api/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Promo looks a promo code up. A missing code surfaces as ErrNotFound.
func (c *Client) Promo(ctx context.Context, code string) (*models.Promo, error) {
	var p models.Promo
	if err := c.get(ctx, "/api/promos/"+url.PathEscape(code), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatedOrder is the response of POST /api/orders.
type CreatedOrder struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status,omitempty"`
}

func (c *Client) CreateOrder(ctx context.Context, order models.OrderPayload) (*CreatedOrder, error) {
	var out CreatedOrder
	if err := c.post(ctx, "/api/orders", order, &out); err != nil {
		return nil, err
	}
	if out.OrderID == "" {
		return nil, fmt.Errorf("shopapi: create order: response carries no orderId")
	}
	return &out, nil
}

// WhatsAppOrder registers the order and returns the deep link the shopper
// must open.
func (c *Client) WhatsAppOrder(ctx context.Context, order models.OrderPayload) (string, error) {
	var out struct {
		WhatsAppURL string `json:"whatsappUrl"`
	}
	in := map[string]any{"orderData": order}
	if err := c.post(ctx, "/api/whatsapp-order", in, &out); err != nil {
		return "", err
	}
	if out.WhatsAppURL == "" {
		return "", fmt.Errorf("shopapi: whatsapp order: response carries no whatsappUrl")
	}
	return out.WhatsAppURL, nil
}

func (c *Client) SendOrderEmail(ctx context.Context, to, subject string, order models.OrderPayload) error {
	in := map[string]any{"to": to, "subject": subject, "orderData": order}
	return c.post(ctx, "/api/send-order-email", in, nil)
}

func (c *Client) SubscribeNewsletter(ctx context.Context, email string) error {
	return c.post(ctx, "/api/newsletter/subscribe", map[string]string{"email": email}, nil)
}

func (c *Client) BlogPosts(ctx context.Context) ([]models.BlogPost, error) {
	var out []models.BlogPost
	if err := c.get(ctx, "/api/blog", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) BlogPost(ctx context.Context, slug string) (*models.BlogPost, error) {
	var out models.BlogPost
	if err := c.get(ctx, "/api/blog/"+url.PathEscape(slug), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) TrackOrder(ctx context.Context, orderID string) (*models.Order, error) {
	var out models.Order
	if err := c.get(ctx, "/api/orders/track", url.Values{"id": {orderID}}, &out); err != nil {
		return nil, err
	}
	if out.OrderID == "" && out.Status == "" {
		return nil, ErrNotFound
	}
	return &out, nil
}

// MaxImageBytes bounds image downloads for the thumbnail proxy.
const MaxImageBytes = 8 << 20

// Image downloads an image served by the remote origin. Absolute URLs on
// any other host are refused.
func (c *Client) Image(ctx context.Context, src string) ([]byte, error) {
	ref, err := url.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("shopapi: image src: %w", err)
	}
	target := c.base.ResolveReference(ref)
	if target.Host != c.base.Host || target.Scheme != c.base.Scheme {
		return nil, fmt.Errorf("shopapi: image host %q not allowed", target.Host)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("shopapi: build image request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("shopapi: image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Method: http.MethodGet, Path: target.Path, Code: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("shopapi: read image: %w", err)
	}
	if len(data) > MaxImageBytes {
		return nil, fmt.Errorf("shopapi: image larger than %d bytes", MaxImageBytes)
	}
	return data, nil
}
