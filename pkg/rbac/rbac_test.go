package rbac_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shashiranjanraj/plantnet/app/models"
	"github.com/shashiranjanraj/plantnet/pkg/auth"
	"github.com/shashiranjanraj/plantnet/pkg/middleware"
	"github.com/shashiranjanraj/plantnet/pkg/rbac"
)

// handler returns the full Auth → Require chain around a probe handler.
func handler(t *testing.T, resolve rbac.RoleResolver, roles ...string) (http.Handler, *bool) {
	t.Helper()
	reached := false
	probe := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})
	return middleware.Auth(rbac.Require(resolve, roles...)(probe)), &reached
}

func requestAs(t *testing.T, email string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if email != "" {
		token, err := auth.Issue(email)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	}
	return req
}

func staticRoles(roles map[string]string) rbac.RoleResolver {
	return func(_ context.Context, email string) (string, error) {
		if role, ok := roles[email]; ok {
			return role, nil
		}
		return "", models.ErrNotFound
	}
}

func TestRequireAllowsMatchingRole(t *testing.T) {
	resolve := staticRoles(map[string]string{"seller@example.com": models.RoleSeller})
	h, reached := handler(t, resolve, models.RoleSeller, models.RoleAdmin)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestAs(t, "seller@example.com"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !*reached {
		t.Error("handler was not reached")
	}
}

func TestRequireForbidsWrongRole(t *testing.T) {
	resolve := staticRoles(map[string]string{"customer@example.com": models.RoleCustomer})
	h, reached := handler(t, resolve, models.RoleAdmin)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestAs(t, "customer@example.com"))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if *reached {
		t.Error("handler must not run for a forbidden role")
	}
}

func TestRequireWithoutToken(t *testing.T) {
	resolve := staticRoles(nil)
	h, reached := handler(t, resolve, models.RoleAdmin)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestAs(t, ""))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if *reached {
		t.Error("handler must not run without a session")
	}
}

func TestRequireUnknownUser(t *testing.T) {
	resolve := staticRoles(nil)
	h, _ := handler(t, resolve, models.RoleAdmin)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestAs(t, "ghost@example.com"))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

// A role change between two requests takes effect immediately, because
// the resolver reads persisted state instead of the token payload.
func TestRoleChangeEffectiveNextRequest(t *testing.T) {
	roles := map[string]string{"user@example.com": models.RoleCustomer}
	h, _ := handler(t, staticRoles(roles), models.RoleSeller)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestAs(t, "user@example.com"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("before promotion: status = %d, want 403", rec.Code)
	}

	roles["user@example.com"] = models.RoleSeller

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, requestAs(t, "user@example.com"))
	if rec.Code != http.StatusOK {
		t.Fatalf("after promotion: status = %d, want 200", rec.Code)
	}
}
