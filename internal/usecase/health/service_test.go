package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockPinger struct{ err error }

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type mockEmbeddingChecker struct{ err error }

func (m *mockEmbeddingChecker) HealthCheck(_ context.Context) error { return m.err }

type mockCatalog struct{ size int }

func (m mockCatalog) CatalogSize() int { return m.size }

// --- Tests ---

func TestCheck(t *testing.T) {
	down := errors.New("down")
	tests := []struct {
		name      string
		storeErr  error
		embedding EmbeddingChecker
		products  int
		want      Status
		wantCheck map[string]CheckResult
	}{
		{
			name: "all healthy", embedding: &mockEmbeddingChecker{}, products: 3, want: Healthy,
			wantCheck: map[string]CheckResult{ComponentStore: CheckOK, ComponentEmbedding: CheckOK, ComponentCatalog: CheckOK},
		},
		{
			name: "store down degrades", storeErr: down, embedding: &mockEmbeddingChecker{}, products: 3, want: Degraded,
			wantCheck: map[string]CheckResult{ComponentStore: CheckError, ComponentEmbedding: CheckOK},
		},
		{
			name: "embedding down", embedding: &mockEmbeddingChecker{err: down}, products: 3, want: Unhealthy,
			wantCheck: map[string]CheckResult{ComponentEmbedding: CheckError},
		},
		{
			name: "empty catalog", embedding: &mockEmbeddingChecker{}, products: 0, want: Unhealthy,
			wantCheck: map[string]CheckResult{ComponentCatalog: CheckError},
		},
		{
			name: "store and embedding down", storeErr: down, embedding: &mockEmbeddingChecker{err: down}, products: 3, want: Unhealthy,
		},
		{
			name: "no embedding checker", products: 1, want: Healthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := New(&mockPinger{err: tt.storeErr}, tt.embedding, mockCatalog{size: tt.products})
			r := svc.Check(context.Background())

			if r.Status != tt.want {
				t.Errorf("expected %q, got %q", tt.want, r.Status)
			}
			if r.Products != tt.products {
				t.Errorf("expected %d products, got %d", tt.products, r.Products)
			}
			for k, v := range tt.wantCheck {
				if r.Checks[k] != v {
					t.Errorf("check %s: expected %q, got %q", k, v, r.Checks[k])
				}
			}
		})
	}
}

func TestCheck_NilEmbeddingOmitted(t *testing.T) {
	r := New(&mockPinger{}, nil, mockCatalog{size: 1}).Check(context.Background())
	if _, ok := r.Checks[ComponentEmbedding]; ok {
		t.Error("embedding check should be absent when embedding is nil")
	}
}
