package authhandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"worklog/internal/domain/auth"
	"worklog/internal/domain/users"
	"worklog/internal/platform/kv"
	"worklog/internal/repo/local"
	"worklog/internal/transport/http/middleware"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	backend := kv.NewMemory()
	store := local.New(backend, nil)
	if err := store.Seed(context.Background(), local.SeedOptions{Demo: true}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	service := auth.NewService(users.NewService(store.Users(), nil), auth.NewSessionStore(backend), "test-secret", time.Hour, nil)

	r := chi.NewRouter()
	r.Use(middleware.Auth(service))
	NewHandler(service).RegisterRoutes(r)
	return r
}

func call(t *testing.T, h http.Handler, method, path, token, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s %s: %v", method, path, err)
	}
	return rec.Code, env
}

func TestLoginSessionLogout(t *testing.T) {
	router := newRouter(t)

	status, env := call(t, router, http.MethodPost, "/auth/login", "", `{"email":"admin@firma.cz","password":"admin123"}`)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d (%+v)", status, env.Error)
	}
	var result auth.Result
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Token == "" || result.User.Role != users.RoleAdmin {
		t.Fatalf("unexpected login result %+v", result)
	}

	status, env = call(t, router, http.MethodGet, "/auth/session", result.Token, "")
	var session sessionResponse
	_ = json.Unmarshal(env.Data, &session)
	if status != http.StatusOK || !session.Authenticated || session.User.ID != local.SeedAdminID {
		t.Fatalf("expected live session, got %d %+v", status, session)
	}

	if status, _ := call(t, router, http.MethodPost, "/auth/logout", result.Token, ""); status != http.StatusOK {
		t.Fatalf("expected logout 200, got %d", status)
	}

	_, env = call(t, router, http.MethodGet, "/auth/session", result.Token, "")
	session = sessionResponse{}
	_ = json.Unmarshal(env.Data, &session)
	if session.Authenticated {
		t.Fatal("expected session to be gone after logout")
	}

	if status, _ := call(t, router, http.MethodPost, "/auth/logout", result.Token, ""); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for revoked token, got %d", status)
	}
}

func TestLoginErrors(t *testing.T) {
	router := newRouter(t)
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{name: "wrong password", body: `{"email":"admin@firma.cz","password":"nope1"}`, status: http.StatusUnauthorized, code: "invalid_credentials"},
		{name: "missing email", body: `{"password":"admin123"}`, status: http.StatusBadRequest, code: "validation_error"},
		{name: "broken json", body: `{"email":`, status: http.StatusBadRequest, code: "invalid_payload"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, env := call(t, router, http.MethodPost, "/auth/login", "", tc.body)
			if status != tc.status || env.Error == nil || env.Error.Code != tc.code {
				t.Fatalf("expected %d/%s, got %d/%+v", tc.status, tc.code, status, env.Error)
			}
		})
	}
}

func TestRegister(t *testing.T) {
	router := newRouter(t)
	body := `{"firstName":"Eva","lastName":"Malá","email":"eva@firma.cz","password":"heslo","confirmPassword":"heslo"}`

	status, env := call(t, router, http.MethodPost, "/auth/register", "", body)
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%+v)", status, env.Error)
	}
	var result auth.Result
	_ = json.Unmarshal(env.Data, &result)
	if result.User.Role != users.RoleEmployee || result.User.HourlyRate != users.DefaultHourlyRate {
		t.Fatalf("unexpected registered user %+v", result.User)
	}

	status, env = call(t, router, http.MethodPost, "/auth/register", "", body)
	if status != http.StatusConflict || env.Error.Code != "duplicate_email" {
		t.Fatalf("expected 409 duplicate_email, got %d %+v", status, env.Error)
	}
}
