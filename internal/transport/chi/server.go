// Package chi exposes the search API over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/canvashq/prism/internal/domain"
	domhistory "github.com/canvashq/prism/internal/domain/history"
	domsearch "github.com/canvashq/prism/internal/domain/search"
	healthuc "github.com/canvashq/prism/internal/usecase/health"
	historyuc "github.com/canvashq/prism/internal/usecase/history"
	searchuc "github.com/canvashq/prism/internal/usecase/search"
)

// Error codes returned in the error response body.
const (
	codeBadRequest    = "bad_request"
	codeNotFound      = "not_found"
	codeEmbedding     = "embedding_provider_error"
	codeSearchBackend = "search_backend_error"
	codeInternal      = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers over the use case services.
type Server struct {
	search        *searchuc.Service
	history       *historyuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	history *historyuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:  search,
		history: history,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrQueryRequired, http.StatusBadRequest, codeBadRequest),
		sentinelHandler(domain.ErrWorkspaceRequired, http.StatusBadRequest, codeBadRequest),
		sentinelHandler(domain.ErrBadRequest, http.StatusBadRequest, codeBadRequest),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbedding),
		sentinelHandler(domain.ErrSearchBackendError, http.StatusBadGateway, codeSearchBackend),
	}
	return s
}

// Routes mounts the API handlers on the given router.
func (s *Server) Routes(r chirouter.Router) {
	r.Post("/api/v1/search", s.handleSearch)
	r.Get("/api/v1/search/history", s.handleHistoryRead)
	r.Delete("/api/v1/search/history", s.handleHistoryDelete)
	r.Get("/health", s.handleHealth)
}

type searchRequest struct {
	Query         string   `json:"query"`
	WorkspaceID   string   `json:"workspaceId"`
	SearchTypes   []string `json:"searchTypes,omitempty"`
	Limit         int      `json:"limit,omitempty"`
	IncludeFrames *bool    `json:"includeFrames,omitempty"`
}

type candidateResponse struct {
	ID           string   `json:"id"`
	DocumentID   string   `json:"documentId"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	MimeType     string   `json:"mimeType,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Similarity   float64  `json:"similarity"`
	SourceKind   string   `json:"sourceKind"`
	SearchMode   string   `json:"searchMode"`
	PreviewURL   string   `json:"previewUrl,omitempty"`
	ThumbnailURL string   `json:"thumbnailUrl,omitempty"`
	VideoURL     string   `json:"videoUrl,omitempty"`
	StartTime    *float64 `json:"startTime,omitempty"`
}

type searchResponse struct {
	Results     []candidateResponse `json:"results"`
	Query       string              `json:"query"`
	SearchTypes []string            `json:"search_types,omitempty"`
	SearchType  string              `json:"search_type,omitempty"`
	Total       int                 `json:"total"`
	HasSemantic *bool               `json:"has_semantic,omitempty"`
}

// handleSearch handles POST /api/v1/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	modes := make([]domsearch.Mode, len(req.SearchTypes))
	for i, t := range req.SearchTypes {
		modes[i] = domsearch.Mode(t)
	}

	query, err := domsearch.NewQuery(req.Query, req.WorkspaceID, modes, req.Limit, req.IncludeFrames)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	result, err := s.search.Search(r.Context(), &query, UserIDFromContext(r.Context()))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResultToResponse(result))
}

func searchResultToResponse(result *searchuc.Response) searchResponse {
	resp := searchResponse{
		Results: make([]candidateResponse, len(result.Results)),
		Query:   result.Query,
		Total:   result.Total,
	}
	for i, c := range result.Results {
		resp.Results[i] = candidateToResponse(c)
	}

	if result.Fallback {
		resp.SearchType = result.SearchType
		hasSemantic := false
		resp.HasSemantic = &hasSemantic
		return resp
	}

	types := make([]string, len(result.SearchTypes))
	for i, m := range result.SearchTypes {
		types[i] = string(m)
	}
	resp.SearchTypes = types
	hasSemantic := result.HasSemantic
	resp.HasSemantic = &hasSemantic
	return resp
}

func candidateToResponse(c domsearch.Candidate) candidateResponse {
	out := candidateResponse{
		ID:           c.ID,
		DocumentID:   c.DocumentID,
		Title:        c.Title,
		Description:  c.Description,
		MimeType:     c.MimeType,
		Tags:         c.Tags,
		Similarity:   c.Similarity,
		SourceKind:   string(c.SourceKind),
		SearchMode:   string(c.Mode),
		PreviewURL:   c.PreviewURL,
		ThumbnailURL: c.ThumbnailURL,
		VideoURL:     c.VideoURL,
	}
	if c.SourceKind == domsearch.SourceLinkTranscript {
		start := c.StartTime
		out.StartTime = &start
	}
	return out
}

type historyResponse struct {
	RecentSearches []domhistory.Entry `json:"recentSearches"`
	SuggestedTags  []string           `json:"suggestedTags"`
}

// handleHistoryRead handles GET /api/v1/search/history.
func (s *Server) handleHistoryRead(w http.ResponseWriter, r *http.Request) {
	workspaceID := r.URL.Query().Get("workspaceId")
	if workspaceID == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "workspaceId is required")
		return
	}

	// Anonymous callers have no history.
	userID := UserIDFromContext(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusOK, historyResponse{
			RecentSearches: []domhistory.Entry{},
			SuggestedTags:  []string{},
		})
		return
	}

	recent, err := s.history.Recent(r.Context(), workspaceID, userID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := historyResponse{RecentSearches: recent.Searches, SuggestedTags: recent.Tags}
	if resp.RecentSearches == nil {
		resp.RecentSearches = []domhistory.Entry{}
	}
	if resp.SuggestedTags == nil {
		resp.SuggestedTags = []string{}
	}
	writeJSON(w, http.StatusOK, resp)
}

type successResponse struct {
	Success bool `json:"success"`
}

// handleHistoryDelete handles DELETE /api/v1/search/history with either
// ?id= for a single entry or ?workspaceId=&clearAll=true for a bulk
// clear. Both are idempotent.
func (s *Server) handleHistoryDelete(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	id := q.Get("id")
	workspaceID := q.Get("workspaceId")
	clearAll := q.Get("clearAll") == "true"

	switch {
	case id != "":
		if err := s.history.Delete(r.Context(), id); err != nil {
			s.handleDomainError(w, err)
			return
		}
	case workspaceID != "" && clearAll:
		userID := UserIDFromContext(r.Context())
		if userID == "" {
			writeJSON(w, http.StatusOK, successResponse{Success: true})
			return
		}
		if err := s.history.Clear(r.Context(), workspaceID, userID); err != nil {
			s.handleDomainError(w, err)
			return
		}
	default:
		writeError(w, http.StatusBadRequest, codeBadRequest, "id or workspaceId with clearAll=true is required")
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks []healthuc.Status `json:"checks"`
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks, healthy := s.health.Check(r.Context())

	status := http.StatusOK
	resp := healthResponse{Status: "ok", Checks: checks}
	if !healthy {
		status = http.StatusServiceUnavailable
		resp.Status = "degraded"
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
}

func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// safeDomainMessage returns err.Error() only for known sentinel chains,
// so internal details never leak to clients.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrQueryRequired,
		domain.ErrWorkspaceRequired,
		domain.ErrBadRequest,
		domain.ErrNotFound,
		domain.ErrEmbeddingProviderError,
		domain.ErrSearchBackendError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return err.Error()
		}
	}
	return "internal error"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}
