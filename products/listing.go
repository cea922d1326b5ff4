package products

import (
	"sort"

	"github.com/shopspring/decimal"

	"storefront/models"
)

// FilterByRating keeps products rated at least floor. Zero disables it.
func FilterByRating(ps []models.Product, floor int) []models.Product {
	if floor <= 0 {
		return ps
	}
	min := decimal.NewFromInt(int64(floor))
	out := make([]models.Product, 0, len(ps))
	for _, p := range ps {
		if p.Rating.GreaterThanOrEqual(min) {
			out = append(out, p)
		}
	}
	return out
}

// SortProducts returns a sorted copy. Featured keeps the remote order within
// the featured and non-featured groups.
func SortProducts(ps []models.Product, by Sort) []models.Product {
	out := append([]models.Product(nil), ps...)
	var less func(a, b models.Product) bool
	switch by {
	case SortPriceLow:
		less = func(a, b models.Product) bool { return a.Price.LessThan(b.Price) }
	case SortPriceHigh:
		less = func(a, b models.Product) bool { return a.Price.GreaterThan(b.Price) }
	case SortRating:
		less = func(a, b models.Product) bool { return a.Rating.GreaterThan(b.Rating) }
	case SortNewest:
		less = func(a, b models.Product) bool { return a.CreatedAt.After(b.CreatedAt) }
	default:
		less = func(a, b models.Product) bool { return a.Featured && !b.Featured }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// PageLink is one pager entry. Ellipsis entries carry no page.
type PageLink struct {
	Page     int  `json:"page,omitempty"`
	Current  bool `json:"current,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

type Page struct {
	Products   []models.Product `json:"products"`
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
	Total      int              `json:"total"`
	PageSize   int              `json:"pageSize"`
	Window     []PageLink       `json:"window"`
}

// Paginate slices ps into PageSize pages, clamping page into range.
func Paginate(ps []models.Product, page int) Page {
	totalPages := (len(ps) + PageSize - 1) / PageSize
	page = max(1, min(page, totalPages))
	start := min((page-1)*PageSize, len(ps))
	end := min(start+PageSize, len(ps))

	items := ps[start:end]
	if items == nil {
		items = []models.Product{}
	}
	return Page{
		Products:   items,
		Page:       page,
		TotalPages: totalPages,
		Total:      len(ps),
		PageSize:   PageSize,
		Window:     PageWindow(page, totalPages),
	}
}

// PageWindow lists the first and last page and current±1, with an ellipsis at
// current±2. A single page needs no pager.
func PageWindow(current, total int) []PageLink {
	if total <= 1 {
		return []PageLink{}
	}
	var out []PageLink
	for p := 1; p <= total; p++ {
		switch {
		case p == 1 || p == total || (p >= current-1 && p <= current+1):
			out = append(out, PageLink{Page: p, Current: p == current})
		case p == current-2 || p == current+2:
			out = append(out, PageLink{Ellipsis: true})
		}
	}
	return out
}

// List applies the local part of q to the fetched products.
func List(ps []models.Product, q Query) Page {
	return Paginate(SortProducts(FilterByRating(ps, q.Rating), q.Sort), q.Page)
}
