package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/huangzhongping/AIProjectCrawler/internal/config"
	"github.com/huangzhongping/AIProjectCrawler/internal/globaltime"
	"github.com/huangzhongping/AIProjectCrawler/internal/model"
	"github.com/huangzhongping/AIProjectCrawler/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{
		Environment:  "local",
		LogLevel:     "silent",
		DatabasePath: filepath.Join(t.TempDir(), "radar.db"),
	}
	store, err := storage.Open(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.SaveDaily(context.Background(), globaltime.Date(), []model.Project{
		{
			Name:   "llm-kit",
			URL:    "https://github.com/widgets/llm-kit",
			Stars:  420,
			Source: "github",
			Classification: &model.Classification{
				IsAIRelated: true,
				Confidence:  0.95,
			},
		},
		{
			Name:   "dotfiles",
			URL:    "https://github.com/acme/dotfiles",
			Stars:  15,
			Source: "github",
		},
	})
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}

	return NewServer(store, zerolog.Nop(), Options{})
}

func decodeJSend(t *testing.T, rec *httptest.ResponseRecorder) jsendResponse {
	t.Helper()
	var resp jsendResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v\n%s", err, rec.Body.String())
	}
	return resp
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	e := s.buildEcho()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusOK)
	}
	if resp := decodeJSend(t, rec); resp.Status != "success" {
		t.Fatalf("unexpected jsend status: %q", resp.Status)
	}
}

func TestServer_ProjectsByDate(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	e := s.buildEcho()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects?date="+globaltime.Date(), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d body %s", rec.Code, rec.Body.String())
	}
	resp := decodeJSend(t, rec)
	data, ok := resp.Data.(map[string]any)
	if !ok {
		t.Fatalf("unexpected data shape: %T", resp.Data)
	}
	if data["count"] != float64(2) {
		t.Fatalf("unexpected count: %v", data["count"])
	}
}

func TestServer_ProjectsAIOnly(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	e := s.buildEcho()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects?date="+globaltime.Date()+"&ai=true", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d body %s", rec.Code, rec.Body.String())
	}
	resp := decodeJSend(t, rec)
	data := resp.Data.(map[string]any)
	if data["count"] != float64(1) {
		t.Fatalf("unexpected AI count: %v", data["count"])
	}
}

func TestServer_ProjectsBadDate(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	e := s.buildEcho()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects?date=Aug-30", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusBadRequest)
	}
	if resp := decodeJSend(t, rec); resp.Status != "fail" {
		t.Fatalf("unexpected jsend status: %q", resp.Status)
	}
}

func TestServer_ProjectsMissingDate(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	e := s.buildEcho()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects?date=1999-01-01", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusNotFound)
	}
}

func TestServer_Stats(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	e := s.buildEcho()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats?days=7", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d body %s", rec.Code, rec.Body.String())
	}
	resp := decodeJSend(t, rec)
	data := resp.Data.(map[string]any)
	stats, ok := data["stats"].([]any)
	if !ok || len(stats) != 1 {
		t.Fatalf("unexpected stats payload: %v", data["stats"])
	}

	day := stats[0].(map[string]any)
	if day["date"] != globaltime.Date() || day["projects"] != float64(2) || day["ai_count"] != float64(1) {
		t.Fatalf("unexpected stats day: %v", day)
	}
}

func TestServer_StatsBadDays(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	e := s.buildEcho()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats?days=0", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusBadRequest)
	}
}
