package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/isoforge/isoforge/internal/logging"
	"github.com/isoforge/isoforge/internal/release"
)

func TestGetStatus(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantStatus string
		wantURL    bool
	}{
		{"built", http.StatusOK, "built", true},
		{"building", http.StatusNotFound, "building", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			releases := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer releases.Close()

			checker := release.NewChecker(releases.URL, "meilix-zesty", time.Second)
			h := NewStatusHandler(checker, logging.New(slog.LevelError, "text"))

			req := httptest.NewRequest(http.MethodGet, "/api/status?tag=event-2026", nil)
			w := httptest.NewRecorder()
			h.GetStatus(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}

			var resp struct {
				Tag    string `json:"tag"`
				Status string `json:"status"`
				URL    string `json:"url"`
			}
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}

			if resp.Tag != "event-2026" {
				t.Errorf("tag = %q", resp.Tag)
			}
			if resp.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", resp.Status, tt.wantStatus)
			}
			if tt.wantURL && resp.URL == "" {
				t.Error("expected download URL for a built ISO")
			}
			if !tt.wantURL && resp.URL != "" {
				t.Errorf("unexpected URL %q while building", resp.URL)
			}
		})
	}
}

func TestGetStatus_MissingTag(t *testing.T) {
	checker := release.NewChecker("http://releases.invalid", "meilix-zesty", time.Second)
	h := NewStatusHandler(checker, logging.New(slog.LevelError, "text"))

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()
	h.GetStatus(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
