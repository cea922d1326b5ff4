package cart

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/models"
	"storefront/session"
	"storefront/utils"
)

type Handlers struct {
	Service *Service
	Logger  *zap.Logger
}

type addRequest struct {
	ID       int64            `json:"id"`
	Name     string           `json:"name"`
	Price    decimal.Decimal  `json:"price"`
	Quantity int              `json:"quantity"`
	Variants *models.Variants `json:"variants,omitempty"`
	Image    string           `json:"image"`
}

func (h *Handlers) respond(w http.ResponseWriter, r *http.Request, sid string, code int, actions ...Action) {
	var (
		c   Cart
		err error
	)
	if len(actions) == 0 {
		c, err = h.Service.Load(r.Context(), sid)
	} else {
		c, err = h.Service.Dispatch(r.Context(), sid, actions...)
	}
	if err != nil {
		h.Logger.Error("cart", zap.String("session_id", sid), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not update cart")
		return
	}
	utils.RespondWithJSON(w, code, NewView(c))
}

func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	sid, err := session.IDFromContext(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Session required")
		return "", false
	}
	return sid, true
}

// GetCart returns the cart with its derived totals.
func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if sid, ok := sessionID(w, r); ok {
		h.respond(w, r, sid, http.StatusOK)
	}
}

// AddItem adds a product row, merging per the configured policy.
func (h *Handlers) AddItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	var req addRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.ID <= 0 || req.Name == "" || req.Price.IsNegative() {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing or invalid fields")
		return
	}
	if req.Quantity > MaxQuantity {
		utils.RespondWithError(w, http.StatusBadRequest, "quantity is too large")
		return
	}

	h.respond(w, r, sid, http.StatusCreated, Add{Item: models.CartItem{
		ID:       req.ID,
		Name:     req.Name,
		Price:    req.Price,
		Quantity: req.Quantity,
		Variants: req.Variants,
		Image:    req.Image,
	}})
}

// UpdateItem sets a row's quantity; zero or less removes it.
func (h *Handlers) UpdateItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	var req struct {
		Quantity *int `json:"quantity"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil || req.Quantity == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "quantity is required")
		return
	}
	if *req.Quantity > MaxQuantity {
		utils.RespondWithError(w, http.StatusBadRequest, "quantity is too large")
		return
	}
	h.respond(w, r, sid, http.StatusOK, UpdateQuantity{Line: ps.ByName("line"), Quantity: *req.Quantity})
}

func (h *Handlers) RemoveItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if sid, ok := sessionID(w, r); ok {
		h.respond(w, r, sid, http.StatusOK, Remove{Line: ps.ByName("line")})
	}
}

func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if sid, ok := sessionID(w, r); ok {
		h.respond(w, r, sid, http.StatusOK, Clear{})
	}
}

func (h *Handlers) Open(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if sid, ok := sessionID(w, r); ok {
		h.respond(w, r, sid, http.StatusOK, SetOpen{Open: true})
	}
}

func (h *Handlers) Close(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if sid, ok := sessionID(w, r); ok {
		h.respond(w, r, sid, http.StatusOK, SetOpen{Open: false})
	}
}
