// Package diag is an optional, read-only introspection surface over
// xcell. Registering a handle here has no effect whatsoever on its
// SharedCell's refcount, unwrapper state, or lifetime; it is purely a
// debugging aid for the cyclic-ownership / backreference case spec.md §9
// calls out ("users needing backreferences must use weak handles built
// atop a separate registry").
package diag

import (
	"fmt"
	"time"

	"xcell"
	"xcell/internal/registry"
)

// defaultSize bounds the number of tracked registrations; older entries
// are evicted under pressure rather than growing unbounded, since this
// package is diagnostic, not authoritative.
const defaultSize = 4096

var defaultRegistry = mustNewRegistry(defaultSize)

func mustNewRegistry(size int) *registry.Registry {
	r, err := registry.New(size)
	if err != nil {
		// Only possible if size <= 0, which defaultSize never is.
		panic(err)
	}
	return r
}

// Entry describes one tracked handle.
type Entry struct {
	ID           uint64
	TypeName     string
	RegisteredAt time.Time
}

// Register adds h to the default registry and returns its id and an
// unregister function. Typical use is to call unregister from the same
// Drop path that releases h's own handle:
//
//	h := xcell.Shared(v)
//	id, unregister := diag.Register(h)
//	defer unregister()
//	defer h.Drop()
func Register[T any](h *xcell.Handle[T]) (id uint64, unregister func()) {
	typeName := fmt.Sprintf("%T", *new(T))
	return defaultRegistry.Add(typeName)
}

// Snapshot returns every currently-registered Entry.
func Snapshot() []Entry {
	entries := defaultRegistry.Snapshot()
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, Entry{ID: e.ID, TypeName: e.TypeName, RegisteredAt: e.RegisteredAt})
	}
	return out
}
