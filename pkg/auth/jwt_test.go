package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shashiranjanraj/plantnet/pkg/auth"
)

func TestIssueAndVerify(t *testing.T) {
	token, err := auth.Issue("alice@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := auth.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("email = %q, want alice@example.com", claims.Email)
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		t.Error("expected issued-at and expiry claims")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := auth.Verify(raw); err == nil {
			t.Errorf("expected %q to be rejected", raw)
		}
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	token, err := auth.Issue("alice@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	tampered := token[:len(token)-2] + "xx"
	if _, err := auth.Verify(tampered); err == nil {
		t.Error("expected tampered token to be rejected")
	}
}

func TestCookieRoundTrip(t *testing.T) {
	token, err := auth.Issue("bob@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	rec := httptest.NewRecorder()
	auth.SetCookie(rec, token)

	res := rec.Result()
	var cookie *http.Cookie
	for _, c := range res.Cookies() {
		if c.Name == auth.CookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("session cookie not set")
	}
	if !cookie.HttpOnly {
		t.Error("cookie must be HttpOnly")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	if got := auth.FromRequest(req); got != token {
		t.Errorf("FromRequest = %q, want original token", got)
	}
}

func TestClearCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	auth.ClearCookie(rec)

	res := rec.Result()
	for _, c := range res.Cookies() {
		if c.Name == auth.CookieName {
			if c.MaxAge >= 0 {
				t.Errorf("MaxAge = %d, want negative", c.MaxAge)
			}
			return
		}
	}
	t.Fatal("expected expired session cookie")
}
