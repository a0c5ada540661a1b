package cache

import "errors"

// ErrEmptyCache is returned by a Policy when asked to select a victim from
// an empty entry table. A correct Cache never calls SelectVictim in this
// state; the check exists as a defensive guard against a caller bug.
var ErrEmptyCache = errors.New("entry table must not be empty")

// Policy selects a victim key to evict when the cache is full. Policies are
// stateless with respect to the cache itself — they hold only their own
// auxiliary resources (e.g. the DQN policy's inference session) — and are
// constructed once at server start, then shared across worker goroutines.
//
// entries is an immutable view of the cache's current table: a Policy must
// not mutate it. capacityHint carries the table-capacity feature the DQN
// policy consumes (see DQN); LRU and LFU ignore it. now is the current
// Unix time in seconds, used by the DQN policy's recency feature.
type Policy interface {
	SelectVictim(entries map[string]Entry, capacityHint int, now uint64) (string, error)
}
