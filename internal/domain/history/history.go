// Package history describes a user's past searches.
package history

import "time"

// MaxEntries is how many searches are kept per user.
const MaxEntries = 10

// Entry is one recorded search.
type Entry struct {
	Query       string    `json:"query"`
	Timestamp   time.Time `json:"timestamp"`
	ResultCount int       `json:"result_count"`
}

// NewEntry stamps a search with the given time in UTC.
// Sub-second precision is dropped to keep the ISO-8601 form short.
func NewEntry(query string, resultCount int, at time.Time) Entry {
	return Entry{
		Query:       query,
		Timestamp:   at.UTC().Truncate(time.Second),
		ResultCount: resultCount,
	}
}
