// Package products lists the catalogue: the remote API filters by search,
// category, price and stock, and this package adds the rating floor, sorting
// and pagination on top.
package products

import (
	"strconv"
	"strings"

	"storefront/shopapi"
)

const (
	PageSize        = 12
	DefaultMinPrice = 400
	DefaultMaxPrice = 4000
	// RemoteLimit is how many products one listing fetches.
	RemoteLimit     = 50
)

// AllCategories is the category value that disables the category filter.
const AllCategories = "all"

type Sort string

const (
	SortFeatured  Sort = "featured"
	SortPriceLow  Sort = "price-low"
	SortPriceHigh Sort = "price-high"
	SortRating    Sort = "rating"
	SortNewest    Sort = "newest"
)

func (s Sort) Valid() bool {
	switch s {
	case SortFeatured, SortPriceLow, SortPriceHigh, SortRating, SortNewest:
		return true
	}
	return false
}

// Filters are every listing input except the page. Changing any of them sends
// the shopper back to page 1.
type Filters struct {
	Search      string `json:"search"`
	Category    string `json:"category"`
	MinPrice    int64  `json:"minPrice"`
	MaxPrice    int64  `json:"maxPrice"`
	Rating      int    `json:"rating"`
	InStockOnly bool   `json:"inStockOnly"`
	Sort        Sort   `json:"sort"`
}

type Query struct {
	Filters
	Page int `json:"page"`
}

func DefaultQuery() Query {
	return Query{
		Filters: Filters{
			Category: AllCategories,
			MinPrice: DefaultMinPrice,
			MaxPrice: DefaultMaxPrice,
			Sort:     SortFeatured,
		},
		Page: 1,
	}
}

func (q Query) WithSearch(s string) Query {
	q.Search = s
	q.Page = 1
	return q
}

func (q Query) WithCategory(c string) Query {
	q.Category = c
	q.Page = 1
	return q
}

func (q Query) WithPriceRange(min, max int64) Query {
	q.MinPrice, q.MaxPrice = min, max
	q.Page = 1
	return q
}

func (q Query) WithRating(r int) Query {
	q.Rating = r
	q.Page = 1
	return q
}

func (q Query) WithInStockOnly(b bool) Query {
	q.InStockOnly = b
	q.Page = 1
	return q
}

func (q Query) WithSort(s Sort) Query {
	q.Sort = s
	q.Page = 1
	return q
}

// WithPage moves to page p without touching the filters.
func (q Query) WithPage(p int) Query {
	q.Page = p
	return q
}

// Clear resets every filter and the page.
func (q Query) Clear() Query {
	return DefaultQuery()
}

// sanitize fills defaults and bounds values coming from a request.
func (q Query) sanitize() Query {
	q.Search = strings.TrimSpace(q.Search)
	if q.Category == "" {
		q.Category = AllCategories
	}
	if q.MinPrice < 0 {
		q.MinPrice = 0
	}
	if q.MaxPrice <= 0 {
		q.MaxPrice = DefaultMaxPrice
	}
	if q.MinPrice > q.MaxPrice {
		q.MinPrice, q.MaxPrice = q.MaxPrice, q.MinPrice
	}
	q.Rating = max(0, min(q.Rating, 5))
	if !q.Sort.Valid() {
		q.Sort = SortFeatured
	}
	if q.Page < 1 {
		q.Page = 1
	}
	return q
}

// Normalize returns next with page 1 when any filter differs from prev.
func Normalize(prev, next Query) Query {
	prev, next = prev.sanitize(), next.sanitize()
	if prev.Filters != next.Filters {
		next.Page = 1
	}
	return next
}

// ActiveFilters counts the filters that narrow the listing.
func (q Query) ActiveFilters() int {
	n := 0
	if q.Search != "" {
		n++
	}
	if q.Category != "" && q.Category != AllCategories {
		n++
	}
	if q.MinPrice != DefaultMinPrice || q.MaxPrice != DefaultMaxPrice {
		n++
	}
	if q.Rating > 0 {
		n++
	}
	if q.InStockOnly {
		n++
	}
	return n
}

// Remote is the fetch for this query. The rating floor, sort and page are
// applied locally.
func (q Query) Remote() shopapi.ProductQuery {
	rq := shopapi.ProductQuery{
		Search:   q.Search,
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		InStock:  q.InStockOnly,
		Limit:    RemoteLimit,
	}
	if id, err := strconv.ParseInt(q.Category, 10, 64); err == nil && id > 0 {
		rq.CategoryID = id
	}
	return rq
}
