package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/shopsearch/internal/db"
)

func TestGet_Missing(t *testing.T) {
	s := NewStore()
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestSetWithTTL_Expires(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewStore().WithClock(func() time.Time { return now })
	ctx := context.Background()

	if err := s.SetWithTTL(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}

	now = now.Add(59 * time.Minute)
	got, err := s.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("expected live value, got %q, %v", got, err)
	}

	now = now.Add(time.Minute)
	if _, err := s.Get(ctx, "k"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected expiry at ttl, got %v", err)
	}
}

func TestGet_ReturnsCopy(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	_ = s.SetWithTTL(ctx, "k", []byte("abc"), 0)

	got, _ := s.Get(ctx, "k")
	got[0] = 'x'

	again, _ := s.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("stored value mutated through returned slice: %q", again)
	}
}

func TestList_PushTrimRange(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	for _, v := range []string{"a", "b", "c", "d"} {
		if err := s.LPush(ctx, "l", []byte(v)); err != nil {
			t.Fatalf("lpush: %v", err)
		}
	}
	if err := s.LTrim(ctx, "l", 0, 2); err != nil {
		t.Fatalf("ltrim: %v", err)
	}

	items, err := s.LRange(ctx, "l", 0, -1)
	if err != nil {
		t.Fatalf("lrange: %v", err)
	}
	want := []string{"d", "c", "b"}
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(items))
	}
	for i, w := range want {
		if string(items[i]) != w {
			t.Errorf("item %d: got %q, want %q", i, items[i], w)
		}
	}
}

func TestLPush_MultipleValuesOrder(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	_ = s.LPush(ctx, "l", []byte("a"), []byte("b"))

	items, _ := s.LRange(ctx, "l", 0, -1)
	if len(items) != 2 || string(items[0]) != "b" || string(items[1]) != "a" {
		t.Errorf("expected [b a], got %q", items)
	}
}

func TestLRange_MissingKey(t *testing.T) {
	s := NewStore()
	items, err := s.LRange(context.Background(), "nope", 0, -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty, got %q", items)
	}
}

func TestSpan(t *testing.T) {
	tests := []struct {
		n           int
		start, stop int64
		lo, hi      int
		ok          bool
	}{
		{5, 0, -1, 0, 4, true},
		{5, 0, 9, 0, 4, true},
		{5, -2, -1, 3, 4, true},
		{5, 3, 1, 0, 0, false},
		{0, 0, -1, 0, 0, false},
		{5, 7, 9, 0, 0, false},
	}
	for _, tc := range tests {
		lo, hi, ok := span(tc.n, tc.start, tc.stop)
		if ok != tc.ok || (ok && (lo != tc.lo || hi != tc.hi)) {
			t.Errorf("span(%d, %d, %d) = (%d, %d, %v), want (%d, %d, %v)",
				tc.n, tc.start, tc.stop, lo, hi, ok, tc.lo, tc.hi, tc.ok)
		}
	}
}

func TestClose_RejectsCalls(t *testing.T) {
	s := NewStore()
	s.Close()

	ctx := context.Background()
	if err := s.Ping(ctx); !errors.Is(err, db.ErrClosed) {
		t.Errorf("expected ErrClosed from ping, got %v", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, db.ErrClosed) {
		t.Errorf("expected ErrClosed from get, got %v", err)
	}
	if err := s.LPush(ctx, "k", []byte("v")); !errors.Is(err, db.ErrClosed) {
		t.Errorf("expected ErrClosed from lpush, got %v", err)
	}
}
