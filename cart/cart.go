// Package cart is the session-scoped cart: a reducer over Cart plus the
// handlers that load, dispatch and save it.
package cart

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/models"
)

// MergePolicy decides what adding an already present product does.
type MergePolicy string

const (
	// PolicyMerge adds the quantity to the row with the same id and variants.
	PolicyMerge MergePolicy = "merge"
	// PolicyAppend always creates a new row.
	PolicyAppend MergePolicy = "append"
)

// MaxQuantity caps a single row. Merges and updates saturate at it.
const MaxQuantity = 999

// Cart is the persisted state of the cart namespace.
type Cart struct {
	Items []models.CartItem `json:"items"`
	Open  bool              `json:"open"`
}

// Action mutates a cart. Actions never fail: unknown lines are ignored.
type Action interface {
	apply(c *Cart)
}

type (
	Add struct {
		Item   models.CartItem
		Policy MergePolicy // zero value merges
	}
	UpdateQuantity struct {
		Line     string
		Quantity int
	}
	Remove struct {
		Line string
	}
	Clear   struct{}
	SetOpen struct {
		Open bool
	}
)

// Dispatch applies a to the cart.
func (c *Cart) Dispatch(a Action) {
	a.apply(c)
}

// LineKey identifies a row by product id and variant selection.
func LineKey(id int64, v *models.Variants) string {
	key := strconv.FormatInt(id, 10)
	if !v.IsZero() {
		key += ":" + escapeKeyPart(v.Size) + ":" + escapeKeyPart(v.Color)
	}
	return key
}

// escapeKeyPart keeps the separators ':' and '~' and any '/' out of a
// variant so keys stay unique and usable as a path segment.
func escapeKeyPart(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "~", "%7E")
}

func clampQuantity(q int) int {
	if q > MaxQuantity {
		return MaxQuantity
	}
	return q
}

func (a Add) apply(c *Cart) {
	item := a.Item
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	item.Quantity = clampQuantity(item.Quantity)
	if item.Variants.IsZero() {
		item.Variants = nil
	}
	key := LineKey(item.ID, item.Variants)

	if a.Policy != PolicyAppend {
		if i := c.index(key); i >= 0 {
			// Both sides are at most MaxQuantity, so the sum cannot overflow.
			c.Items[i].Quantity = clampQuantity(c.Items[i].Quantity + item.Quantity)
			return
		}
		item.Line = key
	} else {
		item.Line = c.freeKey(key)
	}
	c.Items = append(c.Items, item)
}

func (a UpdateQuantity) apply(c *Cart) {
	i := c.index(a.Line)
	if i < 0 {
		return
	}
	if a.Quantity <= 0 {
		c.removeAt(i)
		return
	}
	c.Items[i].Quantity = clampQuantity(a.Quantity)
}

func (a Remove) apply(c *Cart) {
	if i := c.index(a.Line); i >= 0 {
		c.removeAt(i)
	}
}

func (Clear) apply(c *Cart) {
	c.Items = nil
}

func (a SetOpen) apply(c *Cart) {
	c.Open = a.Open
}

func (c *Cart) index(line string) int {
	for i, it := range c.Items {
		if it.Line == line {
			return i
		}
	}
	return -1
}

// freeKey suffixes duplicate rows with ~2, ~3, ...
func (c *Cart) freeKey(key string) string {
	if c.index(key) < 0 {
		return key
	}
	for n := 2; ; n++ {
		k := key + "~" + strconv.Itoa(n)
		if c.index(k) < 0 {
			return k
		}
	}
}

func (c *Cart) removeAt(i int) {
	c.Items = append(c.Items[:i:i], c.Items[i+1:]...)
}

// Total is the sum of price × quantity over all rows.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// ItemCount is the sum of quantities.
func (c Cart) ItemCount() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// Lines is the number of rows.
func (c Cart) Lines() int {
	return len(c.Items)
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ParsePolicy accepts "merge" or "append", case-insensitively.
func ParsePolicy(s string) (MergePolicy, bool) {
	switch MergePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyMerge, "":
		return PolicyMerge, true
	case PolicyAppend:
		return PolicyAppend, true
	}
	return "", false
}
