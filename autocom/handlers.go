package autocom

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"storefront/utils"
)

type Handlers struct {
	Index  Index
	Logger *zap.Logger
}

// Suggest answers GET ?q= with product names starting with q. Prefixes
// shorter than MinPrefix get an empty list.
func (h *Handlers) Suggest(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if utf8.RuneCountInString(q) < MinPrefix {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"suggestions": []Suggestion{}})
		return
	}
	limit := max(1, min(utils.QueryInt(r, "limit", DefaultLimit), 20))

	out, err := h.Index.Suggest(r.Context(), q, limit)
	if err != nil {
		h.Logger.Warn("suggest", zap.String("q", q), zap.Error(err))
		out = []Suggestion{}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"suggestions": out})
}
