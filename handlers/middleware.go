package handlers

import (
	"log"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// RequireAdminToken guards destructive endpoints. The expected token is
// supplied as a bcrypt hash via configuration; requests present the plaintext
// token in the X-Admin-Token header. An empty hash leaves the routes open,
// which is logged once at startup.
func RequireAdminToken(tokenHash string) func(http.Handler) http.Handler {
	if tokenHash == "" {
		log.Println("WARNING: ADMIN_TOKEN_HASH not set, destructive endpoints are unprotected")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokenHash == "" {
				next.ServeHTTP(w, r)
				return
			}
			token := r.Header.Get("X-Admin-Token")
			if token == "" {
				writeAPIError(w, http.StatusUnauthorized, "missing_token", "X-Admin-Token header is required")
				return
			}
			if err := bcrypt.CompareHashAndPassword([]byte(tokenHash), []byte(token)); err != nil {
				writeAPIError(w, http.StatusUnauthorized, "invalid_token", "admin token does not match")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
