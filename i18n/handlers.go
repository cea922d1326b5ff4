package i18n

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"storefront/globals"
	"storefront/session"
	"storefront/utils"
)

type Handlers struct {
	Provider *Provider
	Store    session.Store
	Logger   *zap.Logger
}

// Resolve returns the stored language for the session, or negotiates one from
// Accept-Language when nothing is stored or there is no session.
func (h *Handlers) Resolve(r *http.Request) string {
	if sid, err := session.IDFromContext(r.Context()); err == nil {
		var lang string
		found, err := h.Store.Load(r.Context(), sid, globals.NSLanguage, &lang)
		if err != nil {
			h.Logger.Warn("load language", zap.String("session_id", sid), zap.Error(err))
		}
		if found && h.Provider.IsSupported(lang) {
			return lang
		}
	}
	return h.Provider.Negotiate(r.Header.Get("Accept-Language"))
}

func (h *Handlers) payload(lang string) utils.M {
	return utils.M{
		"language":  lang,
		"supported": h.Provider.Supported(),
		"table":     h.Provider.Table(lang),
	}
}

// GetTable serves the table for the request language.
func (h *Handlers) GetTable(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, h.payload(FromContext(r.Context())))
}

// SetLanguage persists the session language.
func (h *Handlers) SetLanguage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sid, err := session.IDFromContext(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Session required")
		return
	}

	var body struct {
		Language string `json:"language"`
	}
	if err := utils.DecodeJSON(r, &body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	lang := strings.ToLower(strings.TrimSpace(body.Language))
	if !h.Provider.IsSupported(lang) {
		utils.RespondWithNotice(w, http.StatusBadRequest, utils.Notice{
			Title:       "Unsupported language",
			Description: "Choose one of: " + strings.Join(h.Provider.Supported(), ", "),
			Variant:     utils.VariantDestructive,
		}, nil)
		return
	}

	if err := session.Put(r.Context(), h.Store, sid, globals.NSLanguage, lang); err != nil {
		h.Logger.Error("save language", zap.String("session_id", sid), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not save language")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.payload(lang))
}
