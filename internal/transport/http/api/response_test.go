package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFailWithDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	FailWithDetails(rec, http.StatusBadRequest, "validation_error", "payload validation failed", map[string]any{"fields": []string{"email"}}, "req-1")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var env struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
		RequestID string `json:"requestId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Success || env.Error.Code != "validation_error" || env.RequestID != "req-1" {
		t.Fatalf("unexpected envelope %+v", env)
	}
	if _, ok := env.Error.Details["fields"]; !ok {
		t.Fatal("expected fields in details")
	}
}

func TestAttachmentHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	Attachment(rec, "text/csv; charset=utf-8", "timesheet-2024-12.csv", []byte(`"Date"`))

	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="timesheet-2024-12.csv"` {
		t.Fatalf("unexpected disposition %s", got)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/csv; charset=utf-8" {
		t.Fatalf("unexpected content type %s", got)
	}
	if rec.Body.String() != `"Date"` {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}
