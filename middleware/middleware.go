package middleware

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"storefront/i18n"
	"storefront/session"
	"storefront/utils"
)

// Middleware wraps a routed handler.
type Middleware func(httprouter.Handle) httprouter.Handle

// Chain applies mws so that the first one runs outermost.
func Chain(h httprouter.Handle, mws ...Middleware) httprouter.Handle {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Sessions resolves the guest session token into a session id.
type Sessions struct {
	Tokens *session.Tokens
	Logger *zap.Logger
}

var sessionRequired = utils.Notice{
	Title:       "Session required",
	Description: "Start a session with POST /api/session and retry.",
	Variant:     utils.VariantDestructive,
}

// tokenFrom reads the Bearer token, falling back to the session cookie.
func tokenFrom(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	if c, err := r.Cookie(session.CookieName); err == nil {
		return c.Value
	}
	return ""
}

// Require rejects requests without a valid session.
func (s *Sessions) Require(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		tok := tokenFrom(r)
		if tok == "" {
			utils.RespondWithNotice(w, http.StatusUnauthorized, sessionRequired, nil)
			return
		}
		sid, err := s.Tokens.Parse(tok)
		if err != nil {
			s.Logger.Debug("rejected session token", zap.Error(err))
			utils.RespondWithNotice(w, http.StatusUnauthorized, sessionRequired, nil)
			return
		}
		next(w, r.WithContext(session.WithID(r.Context(), sid)), ps)
	}
}

// Optional attaches the session when the token is valid and proceeds either way.
func (s *Sessions) Optional(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if tok := tokenFrom(r); tok != "" {
			if sid, err := s.Tokens.Parse(tok); err == nil {
				r = r.WithContext(session.WithID(r.Context(), sid))
			}
		}
		next(w, r, ps)
	}
}

// Language puts the shopper's language in the request context. It must run
// after the session middleware so stored preferences are seen.
func Language(h *i18n.Handlers) Middleware {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			next(w, r.WithContext(i18n.WithLanguage(r.Context(), h.Resolve(r))), ps)
		}
	}
}
