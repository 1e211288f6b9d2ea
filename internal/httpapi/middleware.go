package httpapi

import (
	"net/http"
	"slices"
)

// AccessGate rejects requests that do not carry a code from the configured
// allow-list. Purely a presentation/config concern, no sessions involved.
func AccessGate(codes []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !slices.Contains(codes, r.Header.Get("X-Access-Code")) {
				writeJSON(w, http.StatusUnauthorized, errBody{Error: "invalid access code"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
