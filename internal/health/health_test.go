package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) result {
	t.Helper()
	var body result
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	return body
}

func ok(context.Context) error { return nil }

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	New(Checker{Name: "broken", Check: func(context.Context) error { return errors.New("x") }}).
		Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if body := decode(t, rec); body.Status != "ok" {
		t.Errorf("status = %q, want ok", body.Status)
	}
}

func TestReadyz(t *testing.T) {
	fail := func(context.Context) error { return errors.New("connection refused") }
	tests := []struct {
		name       string
		checkers   []Checker
		wantCode   int
		wantStatus string
	}{
		{"no checkers", nil, http.StatusOK, "ok"},
		{"all pass", []Checker{{Name: "llm", Check: ok}, {Name: "cache", Check: ok}}, http.StatusOK, "ok"},
		{"required fails", []Checker{{Name: "llm", Check: ok}, {Name: "cache", Check: fail}}, http.StatusServiceUnavailable, "fail"},
		{"optional fails", []Checker{{Name: "llm", Check: ok}, {Name: "rhubarb", Check: fail, Optional: true}}, http.StatusOK, "degraded"},
		{"both fail", []Checker{{Name: "rhubarb", Check: fail, Optional: true}, {Name: "cache", Check: fail}}, http.StatusServiceUnavailable, "fail"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			New(tt.checkers...).Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
			if rec.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", rec.Code, tt.wantCode)
			}
			body := decode(t, rec)
			if body.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", body.Status, tt.wantStatus)
			}
			if len(body.Checks) != len(tt.checkers) {
				t.Errorf("checks = %v, want %d entries", body.Checks, len(tt.checkers))
			}
		})
	}
}

func TestReadyz_FailureMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	New(Checker{Name: "cache", Check: func(context.Context) error { return errors.New("redis down") }}).
		Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if got := decode(t, rec).Checks["cache"]; !strings.Contains(got, "redis down") {
		t.Errorf("cache check = %q", got)
	}
}

func TestReadyz_CheckerGetsDeadline(t *testing.T) {
	var hasDeadline bool
	rec := httptest.NewRecorder()
	New(Checker{Name: "slow", Check: func(ctx context.Context) error {
		deadline, ok := ctx.Deadline()
		hasDeadline = ok && time.Until(deadline) <= checkTimeout
		return nil
	}}).Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if !hasDeadline {
		t.Error("checker context has no deadline")
	}
}

func TestRegister(t *testing.T) {
	r := chi.NewRouter()
	New(Checker{Name: "llm", Check: ok}).Register(r)
	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s = %d, want 200", path, rec.Code)
		}
	}
}
