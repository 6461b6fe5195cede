package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shashiranjanraj/plantnet/pkg/router"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestNamedRoutes(t *testing.T) {
	r := router.New()
	r.Get("/plants/{id}", "plants.show", ok)
	r.Post("/orders", "orders.store", ok)

	path, found := r.Path("plants.show")
	if !found {
		t.Fatal("route plants.show not registered")
	}
	if path != "/plants/{id}" {
		t.Errorf("path = %q, want /plants/{id}", path)
	}

	url, err := r.URL("plants.show", map[string]string{"id": "abc123"})
	if err != nil {
		t.Fatalf("URL: %v", err)
	}
	if url != "/plants/abc123" {
		t.Errorf("url = %q, want /plants/abc123", url)
	}

	if _, err := r.URL("plants.show", nil); err == nil {
		t.Error("expected error for missing params")
	}
	if _, err := r.URL("nope", nil); err == nil {
		t.Error("expected error for unknown route name")
	}
}

func TestGroupPrefixAndMiddleware(t *testing.T) {
	var order []string
	mark := func(name string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := router.New()
	api := r.Group("/api", mark("group"))
	api.Get("/plants", "plants.index", ok, mark("route"))

	req := httptest.NewRequest(http.MethodGet, "/api/plants", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(order) != 2 || order[0] != "group" || order[1] != "route" {
		t.Errorf("middleware order = %v, want [group route]", order)
	}
}

func TestNestedGroups(t *testing.T) {
	r := router.New()
	api := r.Group("/api")
	admin := api.Group("/admin")
	admin.Get("/stats", "admin.stats", ok)

	path, found := r.Path("admin.stats")
	if !found {
		t.Fatal("route admin.stats not registered")
	}
	if path != "/api/admin/stats" {
		t.Errorf("path = %q, want /api/admin/stats", path)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRoutesSorted(t *testing.T) {
	r := router.New()
	r.Get("/b", "b", ok)
	r.Get("/a", "a", ok)
	r.Post("/a", "a.post", ok)

	infos := r.Routes()
	if len(infos) != 3 {
		t.Fatalf("len = %d, want 3", len(infos))
	}
	if infos[0].Path != "/a" || infos[0].Method != http.MethodGet {
		t.Errorf("first route = %+v, want GET /a", infos[0])
	}
	if infos[2].Path != "/b" {
		t.Errorf("last route = %+v, want /b", infos[2])
	}
}
