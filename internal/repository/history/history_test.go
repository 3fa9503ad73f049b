package history

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopsearch/internal/db"
	"github.com/kailas-cloud/shopsearch/internal/db/memory"
	"github.com/kailas-cloud/shopsearch/internal/domain/history"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestRecordAndList_NewestFirst(t *testing.T) {
	repo := New(memory.NewStore(), "shop:", 0, zap.NewNop())
	ctx := context.Background()

	for i, q := range []string{"mouse", "keyboard", "cable"} {
		if err := repo.Record(ctx, "u1", history.NewEntry(q, i, t0.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got := repo.List(ctx, "u1")
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	want := []string{"cable", "keyboard", "mouse"}
	for i, e := range got {
		if e.Query != want[i] {
			t.Errorf("entry %d: got %q, want %q", i, e.Query, want[i])
		}
	}
	if !got[0].Timestamp.Equal(t0.Add(2 * time.Minute)) {
		t.Errorf("timestamp not preserved: %v", got[0].Timestamp)
	}
}

func TestRecord_CapsAtLimit(t *testing.T) {
	repo := New(memory.NewStore(), "", 0, zap.NewNop())
	ctx := context.Background()

	for i := range history.MaxEntries + 1 {
		if err := repo.Record(ctx, "u1", history.NewEntry(fmt.Sprintf("q%d", i), 1, t0)); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got := repo.List(ctx, "u1")
	if len(got) != history.MaxEntries {
		t.Fatalf("expected %d entries, got %d", history.MaxEntries, len(got))
	}
	if got[0].Query != "q10" {
		t.Errorf("newest should be q10, got %q", got[0].Query)
	}
	for _, e := range got {
		if e.Query == "q0" {
			t.Error("oldest entry should have been evicted")
		}
	}
}

func TestList_UsersIsolated(t *testing.T) {
	repo := New(memory.NewStore(), "", 0, zap.NewNop())
	ctx := context.Background()
	_ = repo.Record(ctx, "alice", history.NewEntry("mouse", 1, t0))

	if got := repo.List(ctx, "bob"); len(got) != 0 {
		t.Errorf("expected no history for bob, got %v", got)
	}
}

func TestList_SkipsUndecodable(t *testing.T) {
	s := memory.NewStore()
	repo := New(s, "", 0, zap.NewNop())
	ctx := context.Background()

	_ = repo.Record(ctx, "u1", history.NewEntry("mouse", 1, t0))
	_ = s.LPush(ctx, repo.Key("u1"), []byte("garbage"))

	got := repo.List(ctx, "u1")
	if len(got) != 1 || got[0].Query != "mouse" {
		t.Errorf("expected only the valid entry, got %v", got)
	}
}

func TestList_StoreDownReturnsEmpty(t *testing.T) {
	s := memory.NewStore()
	s.Close()
	repo := New(s, "", 0, zap.NewNop())

	got := repo.List(context.Background(), "u1")
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil list, got %v", got)
	}
}

func TestRecord_StoreDown(t *testing.T) {
	s := memory.NewStore()
	s.Close()
	repo := New(s, "", 0, zap.NewNop())

	err := repo.Record(context.Background(), "u1", history.NewEntry("mouse", 1, t0))
	if !errors.Is(err, db.ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestClear(t *testing.T) {
	repo := New(memory.NewStore(), "", 0, zap.NewNop())
	ctx := context.Background()
	_ = repo.Record(ctx, "u1", history.NewEntry("mouse", 1, t0))

	if err := repo.Clear(ctx, "u1"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if got := repo.List(ctx, "u1"); len(got) != 0 {
		t.Errorf("expected empty history after clear, got %v", got)
	}
	if err := repo.Clear(ctx, "nobody"); err != nil {
		t.Errorf("clearing missing history should succeed: %v", err)
	}
}

func TestNew_CustomLimit(t *testing.T) {
	repo := New(memory.NewStore(), "", 2, zap.NewNop())
	ctx := context.Background()
	for _, q := range []string{"a", "b", "c"} {
		_ = repo.Record(ctx, "u1", history.NewEntry(q, 0, t0))
	}
	got := repo.List(ctx, "u1")
	if len(got) != 2 || got[0].Query != "c" || got[1].Query != "b" {
		t.Errorf("unexpected list: %v", got)
	}
}
