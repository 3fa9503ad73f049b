package search

// State is a stage of one search request.
type State string

// Search stages, in order. Failed may follow any stage.
const (
	StateReceived    State = "RECEIVED"
	StateExpanding   State = "EXPANDING"
	StateVectorizing State = "VECTORIZING"
	StateRanking     State = "RANKING"
	StateCacheWrite  State = "CACHE_WRITE"
	StateResponded   State = "RESPONDED"
	StateFailed      State = "FAILED"
)
