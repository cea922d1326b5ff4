package session

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"storefront/utils"
)

// CookieName carries the session token for browsers that prefer cookies over
// the Authorization header.
const CookieName = "sf_session"

type Handlers struct {
	Tokens *Tokens
	Logger *zap.Logger
	Secure bool
}

// Create issues a fresh guest session.
func (h *Handlers) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	token, sid, expires, err := h.Tokens.Issue()
	if err != nil {
		h.Logger.Error("issue session", zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not start a session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	h.Logger.Info("session issued", zap.String("session_id", sid))
	utils.RespondWithJSON(w, http.StatusCreated, map[string]any{
		"token":     token,
		"sessionId": sid,
		"expiresAt": expires.UTC().Format(time.RFC3339),
	})
}
