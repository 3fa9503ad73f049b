// Package chi exposes the search service over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/shopsearch/internal/domain"
	"github.com/kailas-cloud/shopsearch/internal/domain/history"
	"github.com/kailas-cloud/shopsearch/internal/domain/product"
	"github.com/kailas-cloud/shopsearch/internal/logger"
	"github.com/kailas-cloud/shopsearch/internal/usecase/filter"
	healthuc "github.com/kailas-cloud/shopsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/shopsearch/internal/usecase/search"
	"github.com/kailas-cloud/shopsearch/internal/version"
)

const (
	// DefaultUserID is used when a request names no user.
	DefaultUserID = "guest"
	maxTopN       = 100
	maxUserIDLen  = 128
	maxBodyBytes  = 1 << 20
)

// SearchService is the search use case as seen by HTTP handlers.
type SearchService interface {
	Search(ctx context.Context, userID, query string, topN int) searchuc.Response
	Filter(ctx context.Context, results []product.Ranked, categories, features []string) []product.Ranked
	History(ctx context.Context, userID string) []history.Entry
	ClearHistory(ctx context.Context, userID string) error
}

// HealthService reports component health.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// Server holds the HTTP handlers.
type Server struct {
	search      SearchService
	health      HealthService
	defaultTopN int
}

// NewServer creates the HTTP handlers. defaultTopN applies when a search
// request omits top_n.
func NewServer(search SearchService, health HealthService, defaultTopN int) *Server {
	if defaultTopN <= 0 {
		defaultTopN = searchuc.DefaultTopN
	}
	return &Server{search: search, health: health, defaultTopN: defaultTopN}
}

// Routes registers all endpoints on r.
func (s *Server) Routes(r chi.Router) {
	r.Post("/search", s.Search)
	r.Post("/filter", s.Filter)
	r.Get("/history", s.GetHistory)
	r.Delete("/history", s.ClearHistory)
	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())
}

// Search handles POST /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		handleDomainError(w, domain.ErrEmptyQuery, logger.FromContext(r.Context()))
		return
	}

	topN := s.defaultTopN
	if req.TopN != nil {
		if *req.TopN <= 0 || *req.TopN > maxTopN {
			writeError(w, http.StatusBadRequest, CodeValidationFailed,
				fmt.Sprintf("top_n must be between 1 and %d", maxTopN))
			return
		}
		topN = *req.TopN
	}

	userID, ok := userIDOrDefault(w, req.UserID)
	if !ok {
		return
	}

	resp := s.search.Search(r.Context(), userID, query, topN)
	w.Header().Set("X-Search-State", string(resp.State))
	if resp.Cached {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Results: resp.Results,
		History: s.search.History(r.Context(), userID),
	})
}

// Filter handles POST /filter. A malformed filter is ignored for its
// dimension and logged.
func (s *Server) Filter(w http.ResponseWriter, r *http.Request) {
	var req FilterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	log := logger.FromContext(r.Context())
	categories := parseFilter(log, "category_filter", req.CategoryFilter)
	features := parseFilter(log, "feature_filters", req.FeatureFilters)

	results := req.Results
	if results == nil {
		results = []product.Ranked{}
	}
	writeJSON(w, http.StatusOK, ResultsResponse{
		Results: s.search.Filter(r.Context(), results, categories, features),
	})
}

// GetHistory handles GET /history?user_id=.
func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrDefault(w, r.URL.Query().Get("user_id"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, HistoryResponse{
		UserID:  userID,
		History: s.search.History(r.Context(), userID),
	})
}

// ClearHistory handles DELETE /history?user_id=.
func (s *Server) ClearHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrDefault(w, r.URL.Query().Get("user_id"))
	if !ok {
		return
	}
	if err := s.search.ClearHistory(r.Context(), userID); err != nil {
		handleDomainError(w, err, logger.FromContext(r.Context()))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, HealthResponse{
		Status:   string(report.Status),
		Checks:   checks,
		Products: report.Products,
		Version:  version.Version,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func userIDOrDefault(w http.ResponseWriter, userID string) (string, bool) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return DefaultUserID, true
	}
	if len(userID) > maxUserIDLen {
		writeError(w, http.StatusBadRequest, CodeValidationFailed,
			fmt.Sprintf("user_id must be at most %d bytes", maxUserIDLen))
		return "", false
	}
	return userID, true
}

func parseFilter(log *zap.Logger, name string, raw json.RawMessage) []string {
	values, err := filter.ParseValues(raw)
	if err != nil {
		log.Warn("Ignoring malformed filter", zap.String("filter", name), zap.Error(err))
		return nil
	}
	return values
}
