package shared

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"worklog/internal/domain/apperr"
	"worklog/internal/domain/auth"
	"worklog/internal/domain/worktime"
)

func TestWriteErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "validation", err: apperr.Invalid("email", "is required"), status: http.StatusBadRequest, code: "validation_error"},
		{name: "duplicate", err: fmt.Errorf("create: %w", apperr.ErrDuplicateEmail), status: http.StatusConflict, code: "duplicate_email"},
		{name: "not found", err: apperr.ErrNotFound, status: http.StatusNotFound, code: "not_found"},
		{name: "permission", err: apperr.ErrPermissionDenied, status: http.StatusForbidden, code: "forbidden"},
		{name: "transient", err: fmt.Errorf("%w: users.list", apperr.ErrTransient), status: http.StatusServiceUnavailable, code: "unavailable"},
		{name: "credentials", err: auth.ErrInvalidCredentials, status: http.StatusUnauthorized, code: "invalid_credentials"},
		{name: "unauthenticated", err: auth.ErrUnauthenticated, status: http.StatusUnauthorized, code: "unauthorized"},
		{name: "other", err: errors.New("boom"), status: http.StatusInternalServerError, code: "internal_error"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tc.err)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			var env struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Error.Code != tc.code {
				t.Fatalf("expected code %s, got %s", tc.code, env.Error.Code)
			}
		})
	}
}

func TestDecodeRejectsBadJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString("{"))
	var dst map[string]any
	if Decode(rec, req, &dst) {
		t.Fatal("expected decode to fail")
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestParsePeriod(t *testing.T) {
	now := time.Date(2024, time.December, 10, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		query   string
		kind    worktime.Kind
		from    string
		wantErr bool
	}{
		{name: "default month", query: "", kind: worktime.KindMonth, from: "2024-12-01"},
		{name: "year with ref", query: "?period=year&ref=2023-05", kind: worktime.KindYear, from: "2023-01-01"},
		{name: "custom", query: "?period=custom&startDate=2024-11-01&endDate=2024-11-30", kind: worktime.KindCustom, from: "2024-11-01"},
		{name: "unknown", query: "?period=decade", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := ParsePeriod(httptest.NewRequest(http.MethodGet, "/"+tc.query, nil), now)
			if tc.wantErr {
				if !errors.Is(err, apperr.ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			from, _, _ := p.Bounds()
			if p.Kind != tc.kind || from != tc.from {
				t.Fatalf("unexpected period %+v from=%s", p, from)
			}
		})
	}
}
