package middleware

import (
	"net/http"
	"strings"

	"doccontrol/internal/auth"
	"doccontrol/internal/httputil"
)

// skipAuthPaths are reachable without a bearer token
var skipAuthPaths = map[string]bool{
	"/health": true,
}

// AuthMiddleware validates the Authorization bearer token and stores the
// caller's identity in the request context. Requests without a valid
// token get 401.
func AuthMiddleware(verifier auth.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipAuthPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, httputil.WithCaller(r, claims))
		})
	}
}
