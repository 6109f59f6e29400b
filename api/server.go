// Package api exposes the indexing and link-suggestion pipeline over HTTP.
package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/azudev4/linkodo-sub001/anchor"
	"github.com/azudev4/linkodo-sub001/crawl"
	"github.com/azudev4/linkodo-sub001/crawlapi"
	"github.com/azudev4/linkodo-sub001/db"
	"github.com/azudev4/linkodo-sub001/embed"
	"github.com/azudev4/linkodo-sub001/export"
	"github.com/azudev4/linkodo-sub001/htmlmeta"
	"github.com/azudev4/linkodo-sub001/match"
	"github.com/azudev4/linkodo-sub001/metrics"
	"github.com/azudev4/linkodo-sub001/models"
	"github.com/azudev4/linkodo-sub001/pagefilter"
)

// Config contains server configuration
type Config struct {
	Addr        string
	CORSEnabled bool
	AdminUser   string // basic auth for /api/admin routes; empty disables them
	AdminPass   string
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Addr:        ":8080",
		CORSEnabled: true,
	}
}

// Deps are the constructed components the server routes requests to
type Deps struct {
	DB          *db.DB
	Pipeline    *crawl.Pipeline
	Extractor   *anchor.Extractor
	Matcher     *match.Matcher
	Batcher     *embed.Batcher
	CrawlClient *crawlapi.Client
	EmbedClient *embed.Client
	Fetcher     *htmlmeta.Fetcher
}

// Server represents the API server
type Server struct {
	config Config
	deps   Deps
	server *http.Server
	mux    *http.ServeMux

	embedRun sync.Mutex // held while a batch embedding run is active
}

// NewServer creates a new API server
func NewServer(config Config, deps Deps) *Server {
	s := &Server{
		config: config,
		deps:   deps,
		mux:    http.NewServeMux(),
	}

	s.registerRoutes()

	s.server = &http.Server{
		Addr:         config.Addr,
		Handler:      s.middleware(s.mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 15 * time.Minute, // embedding runs respond synchronously
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// registerRoutes sets up all API routes
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.Handle("/metrics", metrics.Handler())
	s.mux.HandleFunc("/api/crawl", s.handleCrawl)
	s.mux.HandleFunc("/api/crawl/", s.handleCrawlJob) // Handles /api/crawl/{id}
	s.mux.HandleFunc("/api/anchors", s.handleAnchors)
	s.mux.HandleFunc("/api/match", s.handleMatch)
	s.mux.HandleFunc("/api/match/batch", s.handleMatchBatch)
	s.mux.HandleFunc("/api/embeddings/run", s.handleEmbeddingsRun)
	s.mux.HandleFunc("/api/pages", s.handlePageList)
	s.mux.HandleFunc("/api/pages/", s.handlePage) // Handles /api/pages/{id} and /api/pages/preview
	s.mux.HandleFunc("/api/admin/sessions", s.adminOnly(s.handleSessions))
	s.mux.HandleFunc("/api/admin/sessions/", s.adminOnly(s.handleSession)) // {id} and {id}/export
	s.mux.HandleFunc("/api/admin/jobs", s.adminOnly(s.handleJobs))
}

// Start starts the API server
func (s *Server) Start() error {
	slog.Default().Info("starting API server", "addr", s.config.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Default().Info("shutting down API server")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	return s.deps.DB.Close()
}

// Handler returns the routed handler with middleware applied, for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// middleware applies common middleware to all routes
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.config.CORSEnabled {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
		}

		// Skip health and metrics noise in the request log
		quiet := r.URL.Path == "/health" || r.URL.Path == "/metrics"

		start := time.Now()
		next.ServeHTTP(w, r)

		if !quiet {
			slog.Default().Info("request completed",
				"method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
		}
	})
}

// adminOnly wraps a handler with basic auth. With no credentials
// configured the admin surface is disabled entirely.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.config.AdminUser == "" || s.config.AdminPass == "" {
			respondError(w, http.StatusServiceUnavailable, "admin endpoints not configured")
			return
		}

		user, pass, ok := r.BasicAuth()
		userOK := subtle.ConstantTimeCompare([]byte(user), []byte(s.config.AdminUser)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(s.config.AdminPass)) == 1
		if !ok || !userOK || !passOK {
			w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
			respondError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		next(w, r)
	}
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := s.deps.DB.Ping(); err != nil {
		respondError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}

	count, err := s.deps.DB.CountPages()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get page count")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"pages":  count,
		"time":   time.Now(),
	})
}

// CrawlRequest represents a crawl submission
type CrawlRequest struct {
	URL             string   `json:"url"`
	MaxPages        int      `json:"max_pages"`
	ExcludePatterns []string `json:"exclude_patterns"`
	SessionID       string   `json:"session_id"`
	Force           bool     `json:"force"` // re-process pages already indexed
}

// handleCrawl submits a new crawl job
func (s *Server) handleCrawl(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if !s.deps.CrawlClient.Configured() {
		respondError(w, http.StatusServiceUnavailable, "crawling service not configured")
		return
	}

	var req CrawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		respondError(w, http.StatusBadRequest, "url is required")
		return
	}
	if !strings.HasPrefix(req.URL, "http://") && !strings.HasPrefix(req.URL, "https://") {
		respondError(w, http.StatusBadRequest, "url must be http or https")
		return
	}
	if req.MaxPages <= 0 {
		req.MaxPages = 50
	}
	if req.MaxPages > 500 {
		req.MaxPages = 500
	}
	if req.SessionID != "" {
		session, err := s.deps.DB.GetSession(req.SessionID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "database error")
			return
		}
		if session == nil {
			respondError(w, http.StatusNotFound, "session not found")
			return
		}
	}

	jobID, err := s.deps.Pipeline.StartCrawl(r.Context(), crawl.StartRequest{
		BaseURL:         req.URL,
		MaxPages:        req.MaxPages,
		ExcludePatterns: req.ExcludePatterns,
		SessionID:       req.SessionID,
		Force:           req.Force,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("crawl submission failed: %v", err))
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]string{
		"job_id": jobID,
		"status": models.JobStatusRunning,
	})
}

// handleCrawlJob returns job status and progress
func (s *Server) handleCrawlJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/crawl/")
	if id == "" {
		respondError(w, http.StatusBadRequest, "job id is required")
		return
	}

	job, err := s.deps.DB.GetCrawlJob(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	if job == nil {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// AnchorsRequest represents an anchor extraction request
type AnchorsRequest struct {
	Text string `json:"text"`
}

// AnchorsResponse represents an anchor extraction response
type AnchorsResponse struct {
	Candidates []models.AnchorCandidate `json:"candidates"`
	Count      int                      `json:"count"`
}

// handleAnchors extracts anchor candidates from source text
func (s *Server) handleAnchors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req AnchorsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		respondError(w, http.StatusBadRequest, "text is required")
		return
	}

	candidates := s.deps.Extractor.Extract(req.Text)

	respondJSON(w, http.StatusOK, AnchorsResponse{
		Candidates: candidates,
		Count:      len(candidates),
	})
}

// MatchRequest represents a link suggestion request
type MatchRequest struct {
	Text          string  `json:"text"`
	MaxOptions    int     `json:"max_options"`
	MinSimilarity float64 `json:"min_similarity"`
}

// MatchResponse represents a link suggestion response
type MatchResponse struct {
	Options []models.MatchOption `json:"options"`
	Count   int                  `json:"count"`
}

// handleMatch returns ranked link suggestions for one anchor
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if !s.deps.EmbedClient.Configured() {
		respondError(w, http.StatusServiceUnavailable, "embedding service not configured")
		return
	}

	var req MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		respondError(w, http.StatusBadRequest, "text is required")
		return
	}
	if req.MinSimilarity < 0 || req.MinSimilarity > 1 {
		respondError(w, http.StatusBadRequest, "min_similarity must be between 0 and 1")
		return
	}

	options, err := s.deps.Matcher.Match(r.Context(), req.Text, match.Options{
		MaxOptions:    req.MaxOptions,
		MinSimilarity: req.MinSimilarity,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("matching failed: %v", err))
		return
	}

	respondJSON(w, http.StatusOK, MatchResponse{
		Options: options,
		Count:   len(options),
	})
}

// MatchBatchRequest represents a batched link suggestion request
type MatchBatchRequest struct {
	Texts         []string `json:"texts"`
	MaxOptions    int      `json:"max_options"`
	MinSimilarity float64  `json:"min_similarity"`
}

// MatchBatchResponse carries one option list per requested anchor, in
// request order.
type MatchBatchResponse struct {
	Results [][]models.MatchOption `json:"results"`
	Count   int                    `json:"count"`
}

const maxBatchAnchors = 50

// handleMatchBatch returns link suggestions for several anchors
func (s *Server) handleMatchBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if !s.deps.EmbedClient.Configured() {
		respondError(w, http.StatusServiceUnavailable, "embedding service not configured")
		return
	}

	var req MatchBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Texts) == 0 {
		respondError(w, http.StatusBadRequest, "texts array is required and must not be empty")
		return
	}
	if len(req.Texts) > maxBatchAnchors {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("at most %d texts per batch", maxBatchAnchors))
		return
	}

	results, err := s.deps.Matcher.MatchBatch(r.Context(), req.Texts, match.Options{
		MaxOptions:    req.MaxOptions,
		MinSimilarity: req.MinSimilarity,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("batch matching failed: %v", err))
		return
	}

	respondJSON(w, http.StatusOK, MatchBatchResponse{
		Results: results,
		Count:   len(results),
	})
}

// handleEmbeddingsRun triggers a batch embedding run and responds with
// its stats once it finishes. Only one run at a time.
func (s *Server) handleEmbeddingsRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if !s.deps.EmbedClient.Configured() {
		respondError(w, http.StatusServiceUnavailable, "embedding service not configured")
		return
	}

	if !s.embedRun.TryLock() {
		respondError(w, http.StatusConflict, "embedding run already in progress")
		return
	}
	defer s.embedRun.Unlock()

	stats, err := s.deps.Batcher.Run(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("embedding run failed: %v", err))
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// handlePageList lists indexed pages with pagination
func (s *Server) handlePageList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit, offset := parsePagination(r, 20, 100)

	pages, err := s.deps.DB.ListPages(limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	count, _ := s.deps.DB.CountPages()

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"pages":  pages,
		"total":  count,
		"limit":  limit,
		"offset": offset,
	})
}

// handlePage dispatches /api/pages/{id} and /api/pages/preview
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/pages/")
	if path == "" {
		respondError(w, http.StatusBadRequest, "id is required")
		return
	}

	if path == "preview" {
		s.handlePagePreview(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleGetPage(w, r, path)
	case http.MethodDelete:
		s.handleDeletePage(w, r, path)
	default:
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleGetPage retrieves an indexed page by ID
func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request, id string) {
	page, err := s.deps.DB.GetPageByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	if page == nil {
		respondError(w, http.StatusNotFound, "page not found")
		return
	}

	respondJSON(w, http.StatusOK, page)
}

// handleDeletePage deletes an indexed page by ID
func (s *Server) handleDeletePage(w http.ResponseWriter, r *http.Request, id string) {
	err := s.deps.DB.DeletePageByID(id)
	if err != nil {
		if strings.Contains(err.Error(), "no page found") {
			respondError(w, http.StatusNotFound, "page not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to delete page")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "page deleted successfully",
	})
}

// PreviewRequest represents a page preview request
type PreviewRequest struct {
	URL string `json:"url"`
}

// PreviewResponse shows what a URL would look like before crawling it:
// the extracted metadata plus the exclusion verdict it would receive.
type PreviewResponse struct {
	URL           string         `json:"url"`
	Meta          *htmlmeta.Meta `json:"meta"`
	Excluded      bool           `json:"excluded"`
	ExcludeReason string         `json:"exclude_reason,omitempty"`
}

// handlePagePreview fetches a single URL directly and extracts its metadata
func (s *Server) handlePagePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	meta, err := s.deps.Fetcher.Fetch(ctx, req.URL)
	if err != nil {
		respondError(w, http.StatusBadGateway, fmt.Sprintf("fetch failed: %v", err))
		return
	}

	excluded, reason := pagefilter.ShouldExcludeURL(req.URL, meta.MetaDescription)

	respondJSON(w, http.StatusOK, PreviewResponse{
		URL:           req.URL,
		Meta:          meta,
		Excluded:      excluded,
		ExcludeReason: reason,
	})
}

// SessionRequest represents a session creation request
type SessionRequest struct {
	Name    string `json:"name"`
	BaseURL string `json:"base_url"`
}

// handleSessions lists and creates crawl sessions
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		sessions, err := s.deps.DB.ListSessions()
		if err != nil {
			respondError(w, http.StatusInternalServerError, "database error")
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"sessions": sessions,
			"count":    len(sessions),
		})

	case http.MethodPost:
		var req SessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Name == "" {
			respondError(w, http.StatusBadRequest, "name is required")
			return
		}

		session := &models.CrawlSession{
			ID:      uuid.New().String(),
			Name:    req.Name,
			BaseURL: req.BaseURL,
		}
		if err := s.deps.DB.CreateSession(session); err != nil {
			respondError(w, http.StatusInternalServerError, "failed to create session")
			return
		}
		respondJSON(w, http.StatusCreated, session)

	default:
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleSession dispatches /api/admin/sessions/{id} and {id}/export
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/admin/sessions/")
	if path == "" {
		respondError(w, http.StatusBadRequest, "session id is required")
		return
	}

	if strings.HasSuffix(path, "/export") {
		id := strings.TrimSuffix(path, "/export")
		if r.Method != http.MethodGet {
			respondError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		s.handleSessionExport(w, r, id)
		return
	}

	switch r.Method {
	case http.MethodDelete:
		err := s.deps.DB.DeleteSession(path)
		if err != nil {
			if strings.Contains(err.Error(), "no session found") {
				respondError(w, http.StatusNotFound, "session not found")
				return
			}
			respondError(w, http.StatusInternalServerError, "failed to delete session")
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{
			"message": "session deleted successfully",
		})

	case http.MethodGet:
		session, err := s.deps.DB.GetSession(path)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "database error")
			return
		}
		if session == nil {
			respondError(w, http.StatusNotFound, "session not found")
			return
		}
		respondJSON(w, http.StatusOK, session)

	default:
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleSessionExport streams the session report workbook
func (s *Server) handleSessionExport(w http.ResponseWriter, r *http.Request, id string) {
	session, err := s.deps.DB.GetSession(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	if session == nil {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}

	pages, err := s.deps.DB.ListRawPagesBySession(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(session)))
	if err := export.WriteSession(w, session, pages); err != nil {
		// Headers are already out; log and abort the stream.
		slog.Default().Error("failed to write session export", "session_id", id, "error", err)
	}
}

// handleJobs lists crawl jobs with pagination
func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit, offset := parsePagination(r, 20, 100)

	jobs, err := s.deps.DB.ListCrawlJobs(limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":   jobs,
		"count":  len(jobs),
		"limit":  limit,
		"offset": offset,
	})
}

// parsePagination reads limit/offset query parameters with bounds
func parsePagination(r *http.Request, defaultLimit, maxLimit int) (int, int) {
	limit := defaultLimit
	offset := 0

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		fmt.Sscanf(limitStr, "%d", &limit)
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		fmt.Sscanf(offsetStr, "%d", &offset)
	}

	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
