package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shashiranjanraj/plantnet/pkg/response"
)

type envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message,omitempty"`
	Data    json.RawMessage   `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	return env
}

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Success(rec, map[string]string{"hello": "world"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	env := decodeBody(t, rec)
	if env.Status != http.StatusOK {
		t.Errorf("status field = %d, want 200", env.Status)
	}
	if len(env.Data) == 0 {
		t.Error("expected data payload")
	}
}

func TestCreated(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Created(rec, map[string]string{"id": "1"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if env := decodeBody(t, rec); env.Status != http.StatusCreated {
		t.Errorf("status field = %d, want 201", env.Status)
	}
}

func TestValidationError(t *testing.T) {
	rec := httptest.NewRecorder()
	response.ValidationError(rec, map[string]string{"name": "The name field is required."})

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	env := decodeBody(t, rec)
	if env.Errors["name"] == "" {
		t.Error("expected field error for name")
	}
	if env.Message != "Validation failed" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestErrorStatuses(t *testing.T) {
	cases := []struct {
		name string
		fn   func(http.ResponseWriter)
		code int
		msg  string
	}{
		{"unauthorized", func(w http.ResponseWriter) { response.Unauthorized(w) }, http.StatusUnauthorized, "unauthorized access"},
		{"forbidden", func(w http.ResponseWriter) { response.Forbidden(w) }, http.StatusForbidden, "forbidden access"},
		{"not found", func(w http.ResponseWriter) { response.NotFound(w) }, http.StatusNotFound, "not found"},
		{"conflict", func(w http.ResponseWriter) { response.Conflict(w, "already delivered") }, http.StatusConflict, "already delivered"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		tc.fn(rec)
		if rec.Code != tc.code {
			t.Errorf("%s: status = %d, want %d", tc.name, rec.Code, tc.code)
		}
		env := decodeBody(t, rec)
		if env.Message != tc.msg {
			t.Errorf("%s: message = %q, want %q", tc.name, env.Message, tc.msg)
		}
	}
}
