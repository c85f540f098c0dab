package xcell

import (
	"context"
	"runtime"
)

// unwrapServer is the rendezvous state shared between an unwrapping
// goroutine and whichever goroutine later drops the final external
// reference. message and response are one-shot in the sense that the
// protocol's call sites each send on them exactly once; Go channels don't
// enforce that linearity themselves, so the discipline lives entirely in
// Unwrap and dropCell below.
type unwrapServer struct {
	message  chan struct{} // dropper -> unwrapper: "refcount reached zero"
	response chan bool     // unwrapper -> dropper: "did I survive to claim it?"
}

func newUnwrapServer() *unwrapServer {
	return &unwrapServer{
		message:  make(chan struct{}, 1),
		response: make(chan bool, 1),
	}
}

// Unwrap attempts to reclaim h's payload by move, consuming h. At most one
// concurrent caller across all clones of a cell succeeds in becoming the
// unwrapper; every other concurrent caller fails immediately with
// ErrUnwrapContended, with its own handle left untouched (ordinary Drop
// semantics still apply to it).
//
// If other handles remain live once this goroutine's own reference is
// accounted for, Unwrap blocks until the final one is dropped - unless ctx
// is cancelled first, in which case Unwrap returns ctx.Err() and surrenders
// the payload to whichever goroutine performs that final drop.
func Unwrap[T any](ctx context.Context, h *Handle[T]) (T, error) {
	var zero T

	c := h.cell
	if c == nil {
		return zero, ErrHandleAfterUnwrap
	}

	srv := newUnwrapServer()
	if !c.unwrapper.CompareAndSwap(nil, srv) {
		// Another goroutine already installed itself as the unwrapper.
		// h's refcount is untouched; a normal Drop will run on it.
		return zero, ErrUnwrapContended
	}

	// We won the CAS. Neutralize h: its destructor (Drop, and the
	// finalizer backstop) becomes a no-op, because responsibility for the
	// cell now belongs to this unwrap call.
	h.dropped.Store(true)
	h.cell = nil
	runtime.SetFinalizer(h, nil)

	newCount := c.count.Add(-1)
	switch {
	case newCount < 0:
		panic(errRefcountUnderflow)
	case newCount == 0:
		// We were the last holder; no peer will ever consult srv.
		data := *c.data
		c.data = nil
		return data, nil
	}

	// Other handles still exist. Wait for the final dropper to signal us,
	// or for ctx to be cancelled - the only suspension point in the whole
	// unwrap path (spec.md §5).
	select {
	case <-srv.message:
		// Signalled by the final dropper: the data is ours.
		srv.response <- true
		data := *c.data
		c.data = nil
		return data, nil
	case <-ctx.Done():
		// Cancelled before the final drop arrived. Tell the eventual
		// final dropper to destroy the data itself; we never claim it.
		// This send and the one above are mutually exclusive and each
		// fire at most once per Unwrap call, which is the only
		// correctness property the rendezvous requires.
		srv.response <- false
		return zero, ctx.Err()
	}
}
