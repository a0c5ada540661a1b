// Package cache implements the bounded in-memory key-value cache and its
// pluggable eviction policies (LRU, LFU, DQN).
package cache

// Entry is one cached record: an opaque byte value plus the access metadata
// the eviction policies score against.
type Entry struct {
	// Value is treated as an opaque byte string internally; UTF-8 is only
	// required at the wire boundary.
	Value []byte

	// AccessedAt is seconds since the Unix epoch, updated on every
	// successful Set or Get. Monotonically nondecreasing for a given key
	// across its lifetime.
	AccessedAt uint64

	// AccessCount starts at 1 on first insertion and is incremented by one
	// per Get. A Set against an existing key accumulates the incoming
	// entry's AccessCount rather than replacing it. Always ≥ 1.
	AccessCount uint64
}

// cloneValue returns a deep copy of the entry's value, safe to hand to a caller
// after the cache lock has been released.
func (e Entry) cloneValue() []byte {
	v := make([]byte, len(e.Value))
	copy(v, e.Value)
	return v
}
