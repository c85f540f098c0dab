// Package registry is a small, LRU-bounded, debug-only record of live
// handles. It exists to answer spec.md §9's "Cyclic ownership" note: users
// needing backreferences must use weak handles built atop a separate
// registry. Entries here never affect a SharedCell's refcount; they are
// pure bookkeeping for introspection (see xcell/diag).
package registry

import (
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Entry is a single registration.
type Entry struct {
	ID           uint64
	TypeName     string
	RegisteredAt time.Time
}

// Registry is a bounded, concurrency-safe set of Entry values keyed by a
// monotonically increasing id. When full, the oldest untouched entry is
// evicted, matching the debug-only, best-effort nature of this package -
// losing track of a long-lived handle under memory pressure is acceptable;
// affecting the core's refcounting would not be.
type Registry struct {
	mu     sync.Mutex
	cache  *lru.Cache[uint64, Entry]
	nextID atomic.Uint64
}

// New returns a Registry holding at most size entries.
func New(size int) (*Registry, error) {
	cache, err := lru.New[uint64, Entry](size)
	if err != nil {
		return nil, err
	}
	return &Registry{cache: cache}, nil
}

// Add registers typeName and returns its id plus a function that removes
// the registration early (the caller is expected to call it from the
// handle's Drop path).
func (r *Registry) Add(typeName string) (id uint64, remove func()) {
	id = r.nextID.Add(1)
	r.mu.Lock()
	r.cache.Add(id, Entry{ID: id, TypeName: typeName, RegisteredAt: time.Now()})
	r.mu.Unlock()
	return id, func() {
		r.mu.Lock()
		r.cache.Remove(id)
		r.mu.Unlock()
	}
}

// Snapshot returns every currently-registered Entry, oldest first.
func (r *Registry) Snapshot() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := r.cache.Keys()
	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		if e, ok := r.cache.Peek(k); ok {
			out = append(out, e)
		}
	}
	return out
}
