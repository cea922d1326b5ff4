package wishlist

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"storefront/models"
	"storefront/session"
	"storefront/utils"
)

type Handlers struct {
	Service *Service
	Logger  *zap.Logger
}

type view struct {
	Items []models.WishlistItem `json:"items"`
	Count int                   `json:"count"`
	Open  bool                  `json:"open"`
	Saved *bool                 `json:"saved,omitempty"`
}

func newView(wl Wishlist) view {
	items := wl.Items
	if items == nil {
		items = []models.WishlistItem{}
	}
	return view{Items: items, Count: len(items), Open: wl.Open}
}

func (h *Handlers) update(w http.ResponseWriter, r *http.Request, fn func(*Wishlist)) (view, bool) {
	sid, err := session.IDFromContext(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Session required")
		return view{}, false
	}
	var wl Wishlist
	if fn == nil {
		wl, err = h.Service.Load(r.Context(), sid)
	} else {
		wl, err = h.Service.Update(r.Context(), sid, fn)
	}
	if err != nil {
		h.Logger.Error("wishlist", zap.String("session_id", sid), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not update wishlist")
		return view{}, false
	}
	return newView(wl), true
}

func decodeItem(w http.ResponseWriter, r *http.Request) (models.WishlistItem, bool) {
	var item models.WishlistItem
	if err := utils.DecodeJSON(r, &item); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return item, false
	}
	item.Name = strings.TrimSpace(item.Name)
	if item.ID <= 0 || item.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing or invalid fields")
		return item, false
	}
	return item, true
}

func itemID(w http.ResponseWriter, ps httprouter.Params) (int64, bool) {
	id, err := strconv.ParseInt(ps.ByName("id"), 10, 64)
	if err != nil || id <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid product id")
		return 0, false
	}
	return id, true
}

func (h *Handlers) GetWishlist(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if v, ok := h.update(w, r, nil); ok {
		utils.RespondWithJSON(w, http.StatusOK, v)
	}
}

func (h *Handlers) AddItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	item, ok := decodeItem(w, r)
	if !ok {
		return
	}
	if v, ok := h.update(w, r, func(wl *Wishlist) { wl.Add(item) }); ok {
		utils.RespondWithJSON(w, http.StatusOK, v)
	}
}

// ToggleItem is the heart button on product cards.
func (h *Handlers) ToggleItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	item, ok := decodeItem(w, r)
	if !ok {
		return
	}
	var saved bool
	v, ok := h.update(w, r, func(wl *Wishlist) { saved = wl.Toggle(item) })
	if !ok {
		return
	}
	v.Saved = &saved
	utils.RespondWithJSON(w, http.StatusOK, v)
}

// Contains reports whether a product is saved.
func (h *Handlers) Contains(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := itemID(w, ps)
	if !ok {
		return
	}
	sid, err := session.IDFromContext(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Session required")
		return
	}
	wl, err := h.Service.Load(r.Context(), sid)
	if err != nil {
		h.Logger.Error("wishlist", zap.String("session_id", sid), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not load wishlist")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"id": id, "saved": wl.Contains(id)})
}

func (h *Handlers) RemoveItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := itemID(w, ps)
	if !ok {
		return
	}
	if v, ok := h.update(w, r, func(wl *Wishlist) { wl.Remove(id) }); ok {
		utils.RespondWithJSON(w, http.StatusOK, v)
	}
}

func (h *Handlers) ClearWishlist(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if v, ok := h.update(w, r, (*Wishlist).Clear); ok {
		utils.RespondWithJSON(w, http.StatusOK, v)
	}
}

func (h *Handlers) Open(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if v, ok := h.update(w, r, func(wl *Wishlist) { wl.Open = true }); ok {
		utils.RespondWithJSON(w, http.StatusOK, v)
	}
}

func (h *Handlers) Close(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if v, ok := h.update(w, r, func(wl *Wishlist) { wl.Open = false }); ok {
		utils.RespondWithJSON(w, http.StatusOK, v)
	}
}
