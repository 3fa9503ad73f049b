package domain

import (
	"context"
	"errors"
	"testing"
)

type singleEmbedder struct {
	calls int
	err   error
}

func (s *singleEmbedder) Embed(_ context.Context, text string) (EmbeddingResult, error) {
	s.calls++
	if s.err != nil {
		return EmbeddingResult{}, s.err
	}
	return EmbeddingResult{Embedding: []float32{float32(len(text))}}, nil
}

type batchEmbedder struct {
	singleEmbedder
	batches int
}

func (b *batchEmbedder) BatchEmbed(_ context.Context, texts []string) ([][]float32, error) {
	b.batches++
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(i)}
	}
	return out, nil
}

func TestEmbedAll_Fallback(t *testing.T) {
	e := &singleEmbedder{}
	vecs, err := EmbedAll(context.Background(), e, []string{"a", "bbb"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.calls != 2 {
		t.Errorf("expected 2 Embed calls, got %d", e.calls)
	}
	if vecs[1][0] != 3 {
		t.Errorf("expected order preserved, got %v", vecs)
	}
}

func TestEmbedAll_UsesBatch(t *testing.T) {
	e := &batchEmbedder{}
	if _, err := EmbedAll(context.Background(), e, []string{"a", "b"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.batches != 1 || e.calls != 0 {
		t.Errorf("expected one batch call and no single calls, got %d/%d", e.batches, e.calls)
	}
}

func TestEmbedAll_Error(t *testing.T) {
	boom := errors.New("boom")
	_, err := EmbedAll(context.Background(), &singleEmbedder{err: boom}, []string{"a"})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}
