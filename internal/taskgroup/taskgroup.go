// Package taskgroup fans out a batch of goroutines and joins on the first
// error or panic, standing in for the source's task::spawn plus
// future_result pairing (see exclusive_unwrap_contended in
// original_source/src/libcore/private.rs, which spawns a child task and
// later blocks on its result port).
package taskgroup

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Group fans out goroutines sharing a cancellation context.
type Group struct {
	eg *errgroup.Group
}

// New returns a Group bound to ctx. The context returned alongside it is
// cancelled as soon as any goroutine spawned via Go returns a non-nil
// error, letting siblings observe the failure cooperatively.
func New(ctx context.Context) (*Group, context.Context) {
	eg, gctx := errgroup.WithContext(ctx)
	return &Group{eg: eg}, gctx
}

// Go spawns f in a new goroutine. A panic in f is recovered and reported
// as f's error.
func (g *Group) Go(f func() error) {
	g.eg.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("taskgroup: goroutine panicked: %v", r)
			}
		}()
		return f()
	})
}

// Wait blocks until every spawned goroutine has returned, and returns the
// first non-nil error, if any.
func (g *Group) Wait() error {
	return g.eg.Wait()
}

// SpawnAll runs f(0) through f(n-1) concurrently and waits for all of
// them, returning the first error encountered, if any.
func SpawnAll(ctx context.Context, n int, f func(i int) error) error {
	g, _ := New(ctx)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error { return f(i) })
	}
	return g.Wait()
}
