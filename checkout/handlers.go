package checkout

import (
	"errors"
	"net/http"

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

var failureNotices = map[string]string{
	models.MethodDirect:   "Failed to place order. Please try again.",
	models.MethodWhatsApp: "Failed to send WhatsApp order. Please try again.",
	models.MethodEmail:    "Failed to send email order. Please try again.",
}

// respondErr turns a checkout error into a notice with the matching status.
func (h *Handlers) respondErr(w http.ResponseWriter, err error) {
	var (
		verr   *ValidationError
		minErr *MinimumOrderError
		rerr   *RemoteError
	)
	switch {
	case errors.As(err, &verr):
		title := "Missing Information"
		if verr.Field == "items" || len(verr.Missing) == 0 {
			title = "Invalid Information"
		}
		utils.RespondWithNotice(w, http.StatusBadRequest, utils.Notice{
			Title: title, Description: verr.Message, Variant: utils.VariantDestructive,
		}, utils.M{"field": verr.Field, "missing": verr.Missing})
	case errors.As(err, &minErr):
		utils.RespondWithNotice(w, http.StatusUnprocessableEntity, utils.Notice{
			Title:       "Invalid Promo Code",
			Description: "Minimum order amount is ৳" + minErr.Min.String(),
			Variant:     utils.VariantDestructive,
		}, nil)
	case errors.Is(err, ErrPromoInvalid):
		utils.RespondWithNotice(w, http.StatusUnprocessableEntity, utils.Notice{
			Title: "Invalid Promo Code", Description: MsgInvalidPromo, Variant: utils.VariantDestructive,
		}, nil)
	case errors.Is(err, ErrSubmitInProgress):
		utils.RespondWithNotice(w, http.StatusConflict, utils.Notice{
			Title: "Please wait", Description: "Your order is already being placed.", Variant: utils.VariantDestructive,
		}, nil)
	case errors.Is(err, ErrUnknownChannel):
		utils.RespondWithError(w, http.StatusNotFound, "Unknown order channel")
	case errors.As(err, &rerr):
		h.Logger.Error("order submission failed", zap.String("channel", rerr.Channel), zap.Error(rerr.Err))
		utils.RespondWithNotice(w, http.StatusBadGateway, utils.Notice{
			Title: "Error", Description: failureNotices[rerr.Channel], Variant: utils.VariantDestructive,
		}, nil)
	default:
		h.Logger.Error("checkout", zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}

func (h *Handlers) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	sid, err := session.IDFromContext(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Session required")
		return "", false
	}
	return sid, true
}

// GetCheckout returns the step, form, cart and freshly computed totals.
func (h *Handlers) GetCheckout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sid, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	v, err := h.Service.View(r.Context(), sid)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, v)
}

func (h *Handlers) move(e Event) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		sid, ok := h.sessionID(w, r)
		if !ok {
			return
		}
		v, err := h.Service.Move(r.Context(), sid, e)
		if err != nil {
			h.respondErr(w, err)
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, v)
	}
}

func (h *Handlers) Proceed() httprouter.Handle { return h.move(EventProceed) }
func (h *Handlers) Back() httprouter.Handle    { return h.move(EventBack) }
func (h *Handlers) Close() httprouter.Handle   { return h.move(EventClose) }

func (h *Handlers) UpdateForm(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sid, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	var p FormPatch
	if err := utils.DecodeJSON(r, &p); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	v, err := h.Service.UpdateForm(r.Context(), sid, p)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, v)
}

func (h *Handlers) ApplyPromo(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sid, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	var body struct {
		Code string `json:"code"`
	}
	if err := utils.DecodeJSON(r, &body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	v, applied, err := h.Service.ApplyPromo(r.Context(), sid, body.Code)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	if !applied {
		utils.RespondWithJSON(w, http.StatusOK, v)
		return
	}
	utils.RespondWithNotice(w, http.StatusOK, utils.Notice{
		Title:       "Promo Code Applied!",
		Description: "You saved ৳" + v.Totals.Discount.StringFixed(2),
	}, v)
}

// Submit places the order through the channel in the path.
func (h *Handlers) Submit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sid, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	channel := ps.ByName("channel")
	res, err := h.Service.Submit(r.Context(), sid, channel)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	n := utils.Notice{Title: "Order Sent!"}
	switch channel {
	case models.MethodDirect:
		n.Title = "Order Placed Successfully!"
		n.Description = "Order ID: " + res.OrderID + ". You will receive a confirmation email shortly."
	case models.MethodWhatsApp:
		n.Description = "Your order has been sent via WhatsApp."
	case models.MethodEmail:
		n.Description = "Your order has been sent via email."
	}
	utils.RespondWithNotice(w, http.StatusCreated, n, res)
}
