// Package filter narrows ranked results by fuzzy category and feature matches.
package filter

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kailas-cloud/shopsearch/internal/domain/product"
)

// DefaultThreshold is the minimum fuzzy score for a value to count as a match.
const DefaultThreshold = 80

// ErrMalformed signals a filter value list that is not a list of strings.
var ErrMalformed = errors.New("malformed filter")

// Criteria selects results. Empty lists are pass-through.
//
// A product passes Categories if ANY requested category matches one of its
// categories, and passes Features only if EVERY requested feature matches
// one of its features. Both dimensions must pass.
type Criteria struct {
	Categories []string
	Features   []string
	Threshold  int
}

// Apply returns the results that satisfy c, preserving order.
// The returned slice is never nil.
func Apply(results []product.Ranked, c Criteria) []product.Ranked {
	threshold := c.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	out := make([]product.Ranked, 0, len(results))
	for _, r := range results {
		if !anyMatch(c.Categories, r.Categories, threshold) {
			continue
		}
		if !allMatch(c.Features, r.Features, threshold) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func anyMatch(wanted, have []string, threshold int) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, w := range wanted {
		if BestMatchScore(w, have) >= threshold {
			return true
		}
	}
	return false
}

func allMatch(wanted, have []string, threshold int) bool {
	for _, w := range wanted {
		if BestMatchScore(w, have) < threshold {
			return false
		}
	}
	return true
}

// ParseValues decodes a raw filter value. null, absent, an empty string and
// an empty array yield nil. A single string is accepted as a one-element list.
// Anything else, including arrays with non-string entries, is ErrMalformed.
func ParseValues(raw json.RawMessage) ([]string, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		if strings.TrimSpace(single) == "" {
			return nil, nil
		}
		return []string{single}, nil
	}

	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: expected string or array of strings", ErrMalformed)
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		s, ok := it.(string)
		if !ok {
			return nil, fmt.Errorf("%w: entry %d is %T, not a string", ErrMalformed, i, it)
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}
