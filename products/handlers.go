package products

import (
	"context"
	"net/http"
	"sync"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"storefront/autocom"
	"storefront/globals"
	"storefront/models"
	"storefront/session"
	"storefront/shopapi"
	"storefront/utils"
)

// Catalog is the part of the shop API the listing reads.
type Catalog interface {
	Products(ctx context.Context, q shopapi.ProductQuery) ([]models.Product, error)
	Categories(ctx context.Context) ([]models.Category, error)
}

type Handlers struct {
	Catalog     Catalog
	Store       session.Store
	Suggestions autocom.Index // optional
	Logger      *zap.Logger
}

var remoteFailure = utils.Notice{
	Title:       "Error",
	Description: "Failed to load products. Please try again.",
	Variant:     utils.VariantDestructive,
}

// queryFromRequest reads the listing inputs; absent parameters take defaults.
func queryFromRequest(r *http.Request) Query {
	q := DefaultQuery()
	v := r.URL.Query()
	if s := v.Get("search"); s != "" {
		q.Search = s
	}
	if c := v.Get("category"); c != "" {
		q.Category = c
	}
	q.MinPrice = int64(utils.QueryInt(r, "minPrice", DefaultMinPrice))
	q.MaxPrice = int64(utils.QueryInt(r, "maxPrice", DefaultMaxPrice))
	q.Rating = utils.QueryInt(r, "rating", 0)
	q.InStockOnly = utils.QueryBool(r, "inStock")
	if s := v.Get("sort"); s != "" {
		q.Sort = Sort(s)
	}
	q.Page = utils.QueryInt(r, "page", 1)
	return q.sanitize()
}

// ListProducts serves one page of the filtered, sorted listing. With a session
// the previous query is remembered so a filter change lands on page 1, and
// ?clear=true resets everything.
func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	q := queryFromRequest(r)

	sid, sessErr := session.IDFromContext(ctx)
	if sessErr == nil {
		prev := DefaultQuery()
		if _, err := h.Store.Load(ctx, sid, globals.NSListing, &prev); err != nil {
			h.Logger.Warn("load listing query", zap.String("session_id", sid), zap.Error(err))
		}
		if utils.QueryBool(r, "clear") {
			q = q.Clear()
		} else {
			q = Normalize(prev, q)
		}
	} else if utils.QueryBool(r, "clear") {
		q = q.Clear()
	}

	all, err := h.Catalog.Products(ctx, q.Remote())
	if err != nil {
		h.Logger.Error("fetch products", zap.Error(err))
		utils.RespondWithNotice(w, http.StatusBadGateway, remoteFailure, nil)
		return
	}

	if h.Suggestions != nil {
		if err := h.Suggestions.Add(ctx, all); err != nil {
			h.Logger.Warn("index product names", zap.Error(err))
		}
	}

	page := List(all, q)
	q.Page = page.Page
	if sessErr == nil {
		if err := session.Put(ctx, h.Store, sid, globals.NSListing, q); err != nil {
			h.Logger.Warn("save listing query", zap.String("session_id", sid), zap.Error(err))
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"query":         q,
		"activeFilters": q.ActiveFilters(),
		"empty":         page.Total == 0,
		"products":      page.Products,
		"page":          page.Page,
		"totalPages":    page.TotalPages,
		"total":         page.Total,
		"pageSize":      page.PageSize,
		"window":        page.Window,
	})
}

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cats, err := h.Catalog.Categories(r.Context())
	if err != nil {
		h.Logger.Error("fetch categories", zap.Error(err))
		utils.RespondWithNotice(w, http.StatusBadGateway, remoteFailure, nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"categories": nonNil(cats)})
}

const (
	homeFeatured  = 6
	homeFlashSale = 3
)

// Home gathers the landing page sections. A failed section is served empty;
// only a total failure is an error.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	var (
		wg                  sync.WaitGroup
		cats                []models.Category
		featured, flashSale []models.Product
		errs                [3]error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		cats, errs[0] = h.Catalog.Categories(ctx)
	}()
	go func() {
		defer wg.Done()
		featured, errs[1] = h.Catalog.Products(ctx, shopapi.ProductQuery{Featured: true, Limit: homeFeatured})
	}()
	go func() {
		defer wg.Done()
		flashSale, errs[2] = h.Catalog.Products(ctx, shopapi.ProductQuery{Featured: true, Limit: homeFlashSale})
	}()
	wg.Wait()

	failed := 0
	for i, err := range errs {
		if err != nil {
			failed++
			h.Logger.Warn("home section", zap.Int("section", i), zap.Error(err))
		}
	}
	if failed == len(errs) {
		utils.RespondWithNotice(w, http.StatusBadGateway, remoteFailure, nil)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"categories": nonNil(cats),
		"featured":   nonNil(featured),
		"flashSale":  nonNil(flashSale),
	})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
