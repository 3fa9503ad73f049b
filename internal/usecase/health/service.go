package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded means searches still answer but cache and history are off.
	Degraded Status = "degraded"
	// Unhealthy means new searches cannot be answered.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	CheckOK    CheckResult = "ok"
	CheckError CheckResult = "error"
)

// Component names used in Report.Checks.
const (
	ComponentStore     = "store"
	ComponentEmbedding = "embedding"
	ComponentCatalog   = "catalog"
)

// Report aggregates health check results.
type Report struct {
	Status   Status
	Checks   map[string]CheckResult
	Products int
}

// Service coordinates health checks.
type Service struct {
	store     StorePinger
	embedding EmbeddingChecker
	catalog   CatalogSizer
}

// New creates a Service. embedding can be nil for providers without a check.
func New(store StorePinger, embedding EmbeddingChecker, catalog CatalogSizer) *Service {
	return &Service{store: store, embedding: embedding, catalog: catalog}
}

// Check runs all component checks.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, 3)
	status := Healthy

	checks[ComponentStore] = result(s.store.Ping(ctx))
	if checks[ComponentStore] == CheckError {
		status = Degraded
	}

	if s.embedding != nil {
		checks[ComponentEmbedding] = result(s.embedding.HealthCheck(ctx))
		if checks[ComponentEmbedding] == CheckError {
			status = Unhealthy
		}
	}

	products := s.catalog.CatalogSize()
	if products > 0 {
		checks[ComponentCatalog] = CheckOK
	} else {
		checks[ComponentCatalog] = CheckError
		status = Unhealthy
	}

	return Report{Status: status, Checks: checks, Products: products}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
