package web

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// wantsJSON reports whether r came from script rather than page navigation.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// writeFailure answers a request that cannot be served: JSON for API callers, a
// minimal page with a way back for browsers.
func writeFailure(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	if wantsJSON(r) {
		writeError(w, r, message, code, status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, `<!DOCTYPE html><html><body style="font-family:sans-serif;padding:2rem">
<h2>%s</h2><p>Reference: %s</p><a href="/">Back to the console</a>
</body></html>`, html.EscapeString(message), html.EscapeString(requestIDFromContext(r.Context())))
}
