// Package handlertest holds helpers shared by the handler tests.
package handlertest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"worklog/internal/domain/auth"
	"worklog/internal/domain/users"
	"worklog/internal/platform/kv"
	"worklog/internal/repo/local"
	"worklog/internal/transport/http/middleware"
)

var (
	Admin  = auth.Principal{UserID: local.SeedAdminID, Role: users.RoleAdmin}
	Jan    = auth.Principal{UserID: "emp-1", Role: users.RoleEmployee}
	Marie  = auth.Principal{UserID: "emp-2", Role: users.RoleEmployee}
	Nobody = auth.Principal{}
)

type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Store returns an in-memory store seeded with the demo data set.
func Store(t *testing.T) *local.Store {
	t.Helper()
	store := local.New(kv.NewMemory(), nil)
	if err := store.Seed(context.Background(), local.SeedOptions{Demo: true}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	return store
}

// Router mounts register on a chi router behind RequireAuth.
func Router(register func(chi.Router)) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		register(r)
	})
	return r
}

// Do sends one request as user. The zero Nobody principal sends an
// anonymous request.
func Do(t *testing.T, h http.Handler, user auth.Principal, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if user.UserID != "" {
		req = req.WithContext(middleware.WithUser(req.Context(), user))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// Decode unwraps the envelope and, when into is not nil, its data.
func Decode(t *testing.T, rec *httptest.ResponseRecorder, into any) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	if into != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, into); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
	return env
}
