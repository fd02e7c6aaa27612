package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCreateReelRejectsInvalidBody(t *testing.T) {
	h := NewHandler(nil, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/reels", strings.NewReader("{not json"))
	h.CreateReel(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateReelRejectsInvalidRequest(t *testing.T) {
	h := NewHandler(nil, nil)

	body := `{"provider": "espeak", "voice_id": "v", "script": "hi"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/reels", strings.NewReader(body))
	h.CreateReel(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "provider") {
		t.Errorf("expected provider error, got %s", rec.Body.String())
	}
}

func TestGetJobWithoutHistoryStore(t *testing.T) {
	h := NewHandler(nil, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/reels/abc", nil)
	h.GetJob(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	h := NewHandler(nil, nil)

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAPIKeyAuth(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	protected := APIKeyAuth("secret")(next)

	cases := []struct {
		name   string
		header func(*http.Request)
		want   int
	}{
		{"missing key", func(r *http.Request) {}, http.StatusUnauthorized},
		{"wrong key", func(r *http.Request) { r.Header.Set("X-API-Key", "nope") }, http.StatusForbidden},
		{"header key", func(r *http.Request) { r.Header.Set("X-API-Key", "secret") }, http.StatusNoContent},
		{"bearer key", func(r *http.Request) { r.Header.Set("Authorization", "Bearer secret") }, http.StatusNoContent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/v1/reels", nil)
			tc.header(req)
			protected.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}
