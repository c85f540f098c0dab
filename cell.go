package xcell

import (
	"runtime"
	"sync/atomic"
)

// sharedCell is the heap record backing every Handle[T] cloned from the
// same Shared call. It is never addressed directly by callers; Handle is
// the external reference spec.md describes.
type sharedCell[T any] struct {
	// count is the number of outstanding handles plus, transiently, the
	// single unwrapper reservation made by a successful CAS in Unwrap.
	// Invariant: never observed negative.
	count atomic.Int64

	// unwrapper is nil ("no unwrapper") or a pointer to the UnwrapServer
	// installed by the one goroutine that won the race to call Unwrap.
	// At most one non-nil value is ever installed, via CompareAndSwap.
	unwrapper atomic.Pointer[unwrapServer]

	// data is present until it has been moved out exactly once, either by
	// the final Drop (no unwrapper case) or by the Unwrap rendezvous.
	data *T
}

// Handle is an external reference to a SharedCell. It carries one unit of
// refcount and, like the Rust handles this type is modeled on, has
// move-only ownership semantics: a single Handle value must not be used
// concurrently from more than one goroutine, and must not be used at all
// after Drop or Unwrap has consumed it.
type Handle[T any] struct {
	cell    *sharedCell[T]
	dropped atomic.Bool
}

// Shared allocates a new cell holding v and returns the sole handle to it.
func Shared[T any](v T) *Handle[T] {
	c := &sharedCell[T]{data: &v}
	c.count.Store(1)
	h := &Handle[T]{cell: c}
	armFinalizer(h)
	return h
}

// Clone returns a new handle to the same cell, incrementing its refcount.
// Panics if the cell was already neutralized by Unwrap (spec.md
// HandleAfterUnwrap) - cloning a consumed handle is a usage bug.
func (h *Handle[T]) Clone() *Handle[T] {
	c := h.cell
	if c == nil {
		panic(ErrHandleAfterUnwrap)
	}
	newCount := c.count.Add(1)
	if newCount < 2 {
		panic(errRefcountUnderflow)
	}
	nh := &Handle[T]{cell: c}
	armFinalizer(nh)
	return nh
}

// WithMut borrows the payload mutably for the duration of f. No locking is
// performed here: the caller is responsible for serializing access (this
// is what Exclusive's LittleLock is for). Calling this on a handle
// neutralized by Unwrap panics.
func WithMut[T any, R any](h *Handle[T], f func(*T) R) R {
	c := h.cell
	if c == nil || c.data == nil {
		panic(ErrHandleAfterUnwrap)
	}
	return f(c.data)
}

// WithRef borrows the payload for the duration of f. Like WithMut, it
// performs no locking; f is trusted not to mutate through the pointer it
// receives, mirroring the source's with_imm, which is with plus an
// immutable re-cast rather than a separate reader-counted fast path.
func WithRef[T any, R any](h *Handle[T], f func(*T) R) R {
	return WithMut(h, f)
}

// Drop releases this handle's unit of refcount, running the decrement-
// and-maybe-deliver path described in spec.md §4.C. Safe to call more than
// once; only the first call has effect. Drop is also armed as a
// runtime.SetFinalizer backstop so a forgotten handle does not wedge the
// cell's refcount forever, but callers should not rely on finalization
// timing and should call Drop explicitly.
func (h *Handle[T]) Drop() {
	if h == nil || !h.dropped.CompareAndSwap(false, true) {
		return
	}
	runtime.SetFinalizer(h, nil)
	c := h.cell
	h.cell = nil
	if c == nil {
		// Neutralized by a prior successful Unwrap; nothing to do.
		return
	}
	dropCell(c)
}

// dropCell implements spec.md §4.C's drop path: it decrements the
// refcount and, only when that decrement reaches zero, either frees the
// payload or rendezvouses with the installed unwrapper.
func dropCell[T any](c *sharedCell[T]) {
	newCount := c.count.Add(-1)
	switch {
	case newCount < 0:
		panic(errRefcountUnderflow)
	case newCount > 0:
		return // some other handle still owns the cell
	}

	srv := c.unwrapper.Load()
	if srv == nil {
		c.data = nil
		return
	}

	// An unwrapper is installed and waiting; rendezvous rather than free
	// the payload ourselves. message has capacity 1 and is only ever sent
	// on this one path, so this send cannot block.
	srv.message <- struct{}{}
	if <-srv.response {
		// The unwrapper has or will move data out; leave it to them.
		return
	}
	// The unwrapper was cancelled before it could claim the value.
	c.data = nil
}

func armFinalizer[T any](h *Handle[T]) {
	runtime.SetFinalizer(h, func(hh *Handle[T]) {
		hh.Drop()
	})
}
