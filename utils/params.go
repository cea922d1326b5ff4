package utils

import (
	"net/http"
	"strconv"
	"strings"
)

// QueryInt returns the integer query parameter or def when missing/invalid.
func QueryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return def
	}
	return v
}

// QueryBool treats "true", "1" and "on" as true.
func QueryBool(r *http.Request, key string) bool {
	switch strings.ToLower(r.URL.Query().Get(key)) {
	case "true", "1", "on":
		return true
	}
	return false
}
