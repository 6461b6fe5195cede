package middleware

import (
	"context"
	"net/http"

	"github.com/shashiranjanraj/plantnet/pkg/auth"
	"github.com/shashiranjanraj/plantnet/pkg/response"
)

// claimKey is the unexported context key for the verified session claims.
type claimKey struct{}

// Auth verifies the session cookie and stores the claims in the request
// context. A missing, malformed, or expired token short-circuits with 401
// before any handler logic runs.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := auth.FromRequest(r)
		if token == "" {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.Verify(token)
		if err != nil {
			response.Unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), claimKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromCtx returns the verified session claims, if Auth has run.
func ClaimsFromCtx(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimKey{}).(*auth.Claims)
	return claims, ok
}

// EmailFromCtx returns the authenticated caller's email, or "".
func EmailFromCtx(ctx context.Context) string {
	if claims, ok := ClaimsFromCtx(ctx); ok {
		return claims.Email
	}
	return ""
}
