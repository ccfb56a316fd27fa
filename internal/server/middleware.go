package server

import (
	"net/http"
	"strings"
)

// OwnerVerifier checks an owner secret.
type OwnerVerifier interface {
	IsOwnerSecret(secret string) bool
}

// ownerAuthMiddleware admits requests carrying the owner secret, either as a
// Bearer token or, for streams opened by browsers, as the token query
// parameter.
func ownerAuthMiddleware(owners OwnerVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				token = r.URL.Query().Get("token")
			}
			if token == "" {
				writeError(w, http.StatusUnauthorized, "owner token required")
				return
			}
			if !owners.IsOwnerSecret(token) {
				writeError(w, http.StatusUnauthorized, "invalid owner token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
