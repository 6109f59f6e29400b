package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/azudev4/linkodo-sub001/anchor"
	"github.com/azudev4/linkodo-sub001/crawlapi"
	"github.com/azudev4/linkodo-sub001/embed"
)

// testServer builds a server whose external clients are unconfigured
// unless the test says otherwise. Handlers exercised here return before
// touching the database.
func testServer(config Config, deps Deps) *Server {
	if deps.Extractor == nil {
		deps.Extractor = anchor.NewExtractor()
	}
	if deps.CrawlClient == nil {
		deps.CrawlClient = crawlapi.NewClient("", "")
	}
	if deps.EmbedClient == nil {
		deps.EmbedClient = embed.NewClient("", "", "")
	}
	return NewServer(config, deps)
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleCrawlNotConfigured(t *testing.T) {
	s := testServer(DefaultConfig(), Deps{})

	rec := doRequest(t, s, http.MethodPost, "/api/crawl", `{"url":"https://example.fr"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestHandleCrawlValidation(t *testing.T) {
	s := testServer(DefaultConfig(), Deps{
		CrawlClient: crawlapi.NewClient("http://crawl.test", "key"),
	})

	tests := []struct {
		name   string
		method string
		body   string
		status int
	}{
		{"wrong method", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"invalid body", http.MethodPost, "{not json", http.StatusBadRequest},
		{"missing url", http.MethodPost, `{}`, http.StatusBadRequest},
		{"bad scheme", http.MethodPost, `{"url":"ftp://example.fr"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s, tt.method, "/api/crawl", tt.body)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestHandleAnchors(t *testing.T) {
	s := testServer(DefaultConfig(), Deps{})

	rec := doRequest(t, s, http.MethodPost, "/api/anchors",
		`{"text":"Le maillage interne renforce le référencement naturel du site."}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp AnchorsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != len(resp.Candidates) {
		t.Errorf("count = %d, candidates = %d", resp.Count, len(resp.Candidates))
	}
	if resp.Count == 0 {
		t.Error("expected anchor candidates")
	}
}

func TestHandleAnchorsValidation(t *testing.T) {
	s := testServer(DefaultConfig(), Deps{})

	rec := doRequest(t, s, http.MethodPost, "/api/anchors", `{"text":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/anchors", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestHandleMatchNotConfigured(t *testing.T) {
	s := testServer(DefaultConfig(), Deps{})

	rec := doRequest(t, s, http.MethodPost, "/api/match", `{"text":"maillage interne"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}

	rec = doRequest(t, s, http.MethodPost, "/api/match/batch", `{"texts":["maillage"]}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("batch status = %d, want 503", rec.Code)
	}

	rec = doRequest(t, s, http.MethodPost, "/api/embeddings/run", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("embeddings run status = %d, want 503", rec.Code)
	}
}

func TestHandleMatchValidation(t *testing.T) {
	s := testServer(DefaultConfig(), Deps{
		EmbedClient: embed.NewClient("http://embed.test", "key", "model"),
	})

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"missing text", "/api/match", `{}`, http.StatusBadRequest},
		{"similarity out of range", "/api/match", `{"text":"x","min_similarity":1.5}`, http.StatusBadRequest},
		{"empty batch", "/api/match/batch", `{"texts":[]}`, http.StatusBadRequest},
		{"oversized batch", "/api/match/batch", `{"texts":[` + strings.Repeat(`"a",`, 50) + `"a"]}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s, http.MethodPost, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d, body = %s", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
}

func TestHandlePagePreviewValidation(t *testing.T) {
	s := testServer(DefaultConfig(), Deps{})

	rec := doRequest(t, s, http.MethodPost, "/api/pages/preview", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/pages/preview", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestAdminDisabledWithoutCredentials(t *testing.T) {
	s := testServer(DefaultConfig(), Deps{})

	rec := doRequest(t, s, http.MethodGet, "/api/admin/jobs", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestAdminRequiresBasicAuth(t *testing.T) {
	config := DefaultConfig()
	config.AdminUser = "admin"
	config.AdminPass = "secret"
	s := testServer(config, Deps{})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/jobs", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no credentials: status = %d, want 401", rec.Code)
	}
	if rec.Header().Get("WWW-Authenticate") == "" {
		t.Error("missing WWW-Authenticate header")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/jobs", nil)
	req.SetBasicAuth("admin", "wrong")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad password: status = %d, want 401", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	s := testServer(DefaultConfig(), Deps{})

	rec := doRequest(t, s, http.MethodOptions, "/api/match", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}
