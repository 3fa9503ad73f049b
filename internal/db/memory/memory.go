// Package memory is an in-process db.Store for local runs and tests.
// Data lives as long as the process.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/kailas-cloud/shopsearch/internal/db"
)

var _ db.Store = (*Store)(nil)

type item struct {
	value   []byte
	list    [][]byte
	expires time.Time // zero means no expiry
}

// Store keeps strings and lists in a map guarded by a mutex.
type Store struct {
	mu     sync.Mutex
	items  map[string]*item
	now    func() time.Time
	closed bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{items: make(map[string]*item), now: time.Now}
}

// WithClock overrides the time source used for expiry.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Ping reports whether the store is open.
func (s *Store) Ping(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return db.ErrClosed
	}
	return nil
}

// WaitForReady returns immediately: the store is ready once created.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}

// Close drops all data; further calls fail with db.ErrClosed.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.items = nil
}

// Get retrieves a string value.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, &db.Error{Op: db.OpGet, Err: db.ErrClosed}
	}
	it := s.live(key)
	if it == nil || it.value == nil {
		return nil, db.ErrKeyNotFound
	}
	return clone(it.value), nil
}

// SetWithTTL stores a string value; ttl <= 0 means no expiry.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return &db.Error{Op: db.OpSet, Err: db.ErrClosed}
	}
	it := &item{value: clone(value)}
	if ttl > 0 {
		it.expires = s.now().Add(ttl)
	}
	s.items[key] = it
	return nil
}

// Del removes a key of any kind.
func (s *Store) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return &db.Error{Op: db.OpDel, Err: db.ErrClosed}
	}
	delete(s.items, key)
	return nil
}

// LPush prepends values one by one, so the last value ends up at the head.
func (s *Store) LPush(_ context.Context, key string, values ...[]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return &db.Error{Op: db.OpLPush, Err: db.ErrClosed}
	}
	it := s.live(key)
	if it == nil {
		it = &item{}
		s.items[key] = it
	}
	for _, v := range values {
		it.list = append([][]byte{clone(v)}, it.list...)
	}
	return nil
}

// LTrim keeps elements in [start, stop].
func (s *Store) LTrim(_ context.Context, key string, start, stop int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return &db.Error{Op: db.OpLTrim, Err: db.ErrClosed}
	}
	it := s.live(key)
	if it == nil {
		return nil
	}
	lo, hi, ok := span(len(it.list), start, stop)
	if !ok {
		delete(s.items, key)
		return nil
	}
	it.list = it.list[lo : hi+1]
	return nil
}

// LRange returns elements in [start, stop].
func (s *Store) LRange(_ context.Context, key string, start, stop int64) ([][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, &db.Error{Op: db.OpLRange, Err: db.ErrClosed}
	}
	it := s.live(key)
	if it == nil {
		return [][]byte{}, nil
	}
	lo, hi, ok := span(len(it.list), start, stop)
	if !ok {
		return [][]byte{}, nil
	}
	out := make([][]byte, 0, hi-lo+1)
	for _, v := range it.list[lo : hi+1] {
		out = append(out, clone(v))
	}
	return out, nil
}

// live returns the item at key, evicting it first if expired. Caller holds mu.
func (s *Store) live(key string) *item {
	it, ok := s.items[key]
	if !ok {
		return nil
	}
	if !it.expires.IsZero() && !s.now().Before(it.expires) {
		delete(s.items, key)
		return nil
	}
	return it
}

// span resolves Redis-style inclusive indices against a list of length n.
func span(n int, start, stop int64) (int, int, bool) {
	size := int64(n)
	if start < 0 {
		start += size
	}
	if stop < 0 {
		stop += size
	}
	if start < 0 {
		start = 0
	}
	if stop >= size {
		stop = size - 1
	}
	if start > stop || start >= size {
		return 0, 0, false
	}
	return int(start), int(stop), true
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
