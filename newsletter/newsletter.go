// Package newsletter forwards newsletter sign-ups to the shop API.
package newsletter

import (
	"context"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"storefront/utils"
)

type Subscriber interface {
	SubscribeNewsletter(ctx context.Context, email string) error
}

type Handlers struct {
	Subscriber Subscriber
	Logger     *zap.Logger
}

var (
	emailRequired = utils.Notice{
		Title:       "Email Required",
		Description: "Please enter your email address.",
		Variant:     utils.VariantDestructive,
	}
	subscribed = utils.Notice{
		Title:       "Successfully Subscribed!",
		Description: "Thank you for subscribing to our newsletter.",
	}
	subscribeFailed = utils.Notice{
		Title:       "Subscription Failed",
		Description: "Please try again later.",
		Variant:     utils.VariantDestructive,
	}
)

func (h *Handlers) Subscribe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Email string `json:"email"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		utils.RespondWithNotice(w, http.StatusBadRequest, emailRequired, nil)
		return
	}

	if err := h.Subscriber.SubscribeNewsletter(r.Context(), email); err != nil {
		h.Logger.Warn("newsletter subscribe", zap.Error(err))
		utils.RespondWithNotice(w, http.StatusBadGateway, subscribeFailed, nil)
		return
	}
	utils.RespondWithNotice(w, http.StatusOK, subscribed, nil)
}
