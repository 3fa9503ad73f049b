package chi

import (
	"encoding/json"

	"github.com/kailas-cloud/shopsearch/internal/domain/history"
	"github.com/kailas-cloud/shopsearch/internal/domain/product"
)

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	UserID string `json:"user_id"`
	Query  string `json:"query"`
	TopN   *int   `json:"top_n"`
}

// SearchResponse is returned by POST /search.
type SearchResponse struct {
	Results []product.Ranked `json:"results"`
	History []history.Entry  `json:"history"`
}

// FilterRequest is the body of POST /filter. Filters may be a string or an
// array of strings.
type FilterRequest struct {
	Results        []product.Ranked `json:"results"`
	CategoryFilter json.RawMessage  `json:"category_filter"`
	FeatureFilters json.RawMessage  `json:"feature_filters"`
}

// ResultsResponse is returned by POST /filter.
type ResultsResponse struct {
	Results []product.Ranked `json:"results"`
}

// HistoryResponse is returned by GET /history.
type HistoryResponse struct {
	UserID  string          `json:"user_id"`
	History []history.Entry `json:"history"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status   string            `json:"status"`
	Checks   map[string]string `json:"checks"`
	Products int               `json:"products"`
	Version  string            `json:"version"`
}
