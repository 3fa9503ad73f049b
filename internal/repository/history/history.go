// Package history persists per-user search history as capped store lists.
package history

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopsearch/internal/domain/history"
)

const keySegment = "search_history:"

// store is the consumer interface for search history (ISP).
type store interface {
	LPush(ctx context.Context, key string, values ...[]byte) error
	LTrim(ctx context.Context, key string, start, stop int64) error
	LRange(ctx context.Context, key string, start, stop int64) ([][]byte, error)
	Del(ctx context.Context, key string) error
}

// Repo keeps the newest entries first, at most limit per user.
type Repo struct {
	store  store
	prefix string
	limit  int
	logger *zap.Logger
}

// New creates a history repository. limit <= 0 falls back to history.MaxEntries.
func New(s store, prefix string, limit int, logger *zap.Logger) *Repo {
	if limit <= 0 {
		limit = history.MaxEntries
	}
	return &Repo{store: s, prefix: prefix, limit: limit, logger: logger}
}

// Key returns the store key for a user's history list.
func (r *Repo) Key(userID string) string {
	return r.prefix + keySegment + userID
}

// Record prepends an entry and trims the list to the limit.
func (r *Repo) Record(ctx context.Context, userID string, e history.Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode history entry: %w", err)
	}
	key := r.Key(userID)
	if err := r.store.LPush(ctx, key, data); err != nil {
		return fmt.Errorf("push history entry: %w", err)
	}
	if err := r.store.LTrim(ctx, key, 0, int64(r.limit-1)); err != nil {
		return fmt.Errorf("trim history: %w", err)
	}
	return nil
}

// List returns the user's history newest first. An unreachable store
// yields an empty list.
func (r *Repo) List(ctx context.Context, userID string) []history.Entry {
	key := r.Key(userID)
	raw, err := r.store.LRange(ctx, key, 0, -1)
	if err != nil {
		r.logger.Warn("Failed to read search history", zap.String("user_id", userID), zap.Error(err))
		return []history.Entry{}
	}

	out := make([]history.Entry, 0, len(raw))
	for _, item := range raw {
		var e history.Entry
		if err := json.Unmarshal(item, &e); err != nil {
			r.logger.Warn("Skipping undecodable history entry", zap.String("user_id", userID), zap.Error(err))
			continue
		}
		out = append(out, e)
	}
	return out
}

// Clear removes the user's history.
func (r *Repo) Clear(ctx context.Context, userID string) error {
	if err := r.store.Del(ctx, r.Key(userID)); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
