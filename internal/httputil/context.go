package httputil

import (
	"context"
	"net/http"

	"doccontrol/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	userIDKey contextKey = "userID"
	claimsKey contextKey = "claims"
)

// WithCaller adds the authenticated caller's ID and claims to the request
// context.
func WithCaller(r *http.Request, claims *models.AuthClaims) *http.Request {
	ctx := context.WithValue(r.Context(), userIDKey, claims.Subject)
	ctx = context.WithValue(ctx, claimsKey, claims)
	return r.WithContext(ctx)
}

// GetUserID retrieves the caller's user ID from context, returns empty
// string if not found
func GetUserID(r *http.Request) string {
	userID, _ := r.Context().Value(userIDKey).(string)
	return userID
}

// GetClaims retrieves the caller's full claims from context, or nil
func GetClaims(r *http.Request) *models.AuthClaims {
	claims, _ := r.Context().Value(claimsKey).(*models.AuthClaims)
	return claims
}
