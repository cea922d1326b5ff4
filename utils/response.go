package utils

import (
	"encoding/json"
	"io"
	"net/http"
)

// Notice is the toast-style message the browser shows for every failure and
// most successes.
type Notice struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Variant     string `json:"variant,omitempty"` // "destructive" for errors
}

const VariantDestructive = "destructive"

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, map[string]string{"error": msg})
}

// RespondWithNotice sends a notice envelope, optionally next to a data payload.
func RespondWithNotice(w http.ResponseWriter, code int, n Notice, data any) {
	body := M{"notice": n}
	if data != nil {
		body["data"] = data
	}
	RespondWithJSON(w, code, body)
}

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// DecodeJSON reads a bounded JSON body into dst.
func DecodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(dst)
}

type M map[string]interface{}
