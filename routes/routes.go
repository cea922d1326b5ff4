package routes

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"storefront/autocom"
	"storefront/blog"
	"storefront/cart"
	"storefront/checkout"
	"storefront/i18n"
	"storefront/media"
	"storefront/middleware"
	"storefront/newsletter"
	"storefront/products"
	"storefront/ratelim"
	"storefront/session"
	"storefront/tracking"
	"storefront/wishlist"
)

// Deps holds every handler set the router serves.
type Deps struct {
	Sessions    *middleware.Sessions
	RateLimiter *ratelim.RateLimiter

	Session    *session.Handlers
	I18n       *i18n.Handlers
	Cart       *cart.Handlers
	Wishlist   *wishlist.Handlers
	Checkout   *checkout.Handlers
	Products   *products.Handlers
	Tracking   *tracking.Handlers
	Blog       *blog.Handlers
	Newsletter *newsletter.Handlers
	Media      *media.Handlers
	Suggest    *autocom.Handlers
}

// guest requires a session and resolves the language.
func (d *Deps) guest(h httprouter.Handle) httprouter.Handle {
	return middleware.Chain(h, d.Sessions.Require, middleware.Language(d.I18n))
}

// public attaches a session when present and resolves the language.
func (d *Deps) public(h httprouter.Handle) httprouter.Handle {
	return middleware.Chain(h, d.Sessions.Optional, middleware.Language(d.I18n))
}

// limited is guest with the per-visitor rate limit.
func (d *Deps) limited(h httprouter.Handle) httprouter.Handle {
	return middleware.Chain(h, d.Sessions.Require, d.RateLimiter.Limit, middleware.Language(d.I18n))
}

func Health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("ok"))
}

func AddSessionRoutes(router *httprouter.Router, d *Deps) {
	router.POST("/api/session", d.RateLimiter.Limit(d.Session.Create))
	router.GET("/api/i18n", d.public(d.I18n.GetTable))
	router.PUT("/api/session/language", d.guest(d.I18n.SetLanguage))
}

func AddCartRoutes(router *httprouter.Router, d *Deps) {
	router.GET("/api/cart", d.guest(d.Cart.GetCart))
	router.POST("/api/cart/items", d.guest(d.Cart.AddItem))
	router.PATCH("/api/cart/items/:line", d.guest(d.Cart.UpdateItem))
	router.DELETE("/api/cart/items/:line", d.guest(d.Cart.RemoveItem))
	router.DELETE("/api/cart", d.guest(d.Cart.ClearCart))
	router.POST("/api/cart/open", d.guest(d.Cart.Open))
	router.POST("/api/cart/close", d.guest(d.Cart.Close))
}

func AddWishlistRoutes(router *httprouter.Router, d *Deps) {
	router.GET("/api/wishlist", d.guest(d.Wishlist.GetWishlist))
	router.POST("/api/wishlist/items", d.guest(d.Wishlist.AddItem))
	router.POST("/api/wishlist/items/toggle", d.guest(d.Wishlist.ToggleItem))
	router.GET("/api/wishlist/items/:id", d.guest(d.Wishlist.Contains))
	router.DELETE("/api/wishlist/items/:id", d.guest(d.Wishlist.RemoveItem))
	router.DELETE("/api/wishlist", d.guest(d.Wishlist.ClearWishlist))
	router.POST("/api/wishlist/open", d.guest(d.Wishlist.Open))
	router.POST("/api/wishlist/close", d.guest(d.Wishlist.Close))
}

func AddCheckoutRoutes(router *httprouter.Router, d *Deps) {
	router.GET("/api/checkout", d.guest(d.Checkout.GetCheckout))
	router.POST("/api/checkout/proceed", d.guest(d.Checkout.Proceed()))
	router.POST("/api/checkout/back", d.guest(d.Checkout.Back()))
	router.POST("/api/checkout/close", d.guest(d.Checkout.Close()))
	router.PUT("/api/checkout/form", d.guest(d.Checkout.UpdateForm))
	router.POST("/api/checkout/promo", d.limited(d.Checkout.ApplyPromo))
	router.POST("/api/checkout/submit/:channel", d.limited(d.Checkout.Submit))
}

func AddShopRoutes(router *httprouter.Router, d *Deps) {
	router.GET("/api/shop/products", d.public(d.Products.ListProducts))
	router.GET("/api/shop/categories", d.public(d.Products.ListCategories))
	router.GET("/api/shop/home", d.public(d.Products.Home))
	router.GET("/api/shop/suggest", d.Suggest.Suggest)
	router.GET("/img/thumb", d.Media.Thumbnail)
}

func AddTrackingRoutes(router *httprouter.Router, d *Deps) {
	router.GET("/api/track", d.public(d.Tracking.Track))
	router.GET("/api/track/:id/receipt", d.public(d.Tracking.Receipt))
	router.GET("/ws/track/:id", d.Tracking.Stream)
}

func AddContentRoutes(router *httprouter.Router, d *Deps) {
	router.GET("/api/blog", d.public(d.Blog.ListPosts))
	router.GET("/api/blog/:slug", d.public(d.Blog.GetPost))
	router.POST("/api/newsletter", middleware.Chain(d.Newsletter.Subscribe, d.Sessions.Optional, d.RateLimiter.Limit))
}

// RoutesWrapper registers every route on router.
func RoutesWrapper(router *httprouter.Router, d *Deps) {
	router.GET("/health", Health)
	AddSessionRoutes(router, d)
	AddCartRoutes(router, d)
	AddWishlistRoutes(router, d)
	AddCheckoutRoutes(router, d)
	AddShopRoutes(router, d)
	AddTrackingRoutes(router, d)
	AddContentRoutes(router, d)
}
