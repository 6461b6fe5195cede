// Package rbac gates role-scoped endpoints.
//
// The role is resolved from persisted state on every call — never from the
// token payload — so a role change (e.g. admin promotes a customer to seller)
// takes effect without re-authentication.
package rbac

import (
	"context"
	"net/http"

	"github.com/shashiranjanraj/plantnet/pkg/middleware"
	"github.com/shashiranjanraj/plantnet/pkg/response"
)

// RoleResolver looks up the stored role for an email.
// It must return an error when no such user exists.
type RoleResolver func(ctx context.Context, email string) (string, error)

// Require returns middleware that allows access only when the caller's
// persisted role is one of roles. middleware.Auth must have already run.
func Require(resolve RoleResolver, roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email := middleware.EmailFromCtx(r.Context())
			if email == "" {
				response.Unauthorized(w)
				return
			}

			role, err := resolve(r.Context(), email)
			if err != nil || !allowed[role] {
				response.Forbidden(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
