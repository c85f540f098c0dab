// Copyright 2020 Nathan Taylor (nbtaylor@gmail.com)
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package xcell

import "context"

// exData is the payload an Exclusive wraps in a SharedCell: a LittleLock,
// a failure-poisoning flag, and the user's data.
type exData[U any] struct {
	lock   *LittleLock
	failed bool
	data   U
}

// Exclusive is a SharedCell whose payload is protected by a LittleLock and
// poisoned on failure: once a critical section panics, every subsequent
// With/WithImm call on any clone fails with ErrPoisoned until the
// Exclusive is destroyed.
type Exclusive[U any] struct {
	handle *Handle[exData[U]]
}

// NewExclusive wraps u in a new Exclusive.
func NewExclusive[U any](u U) *Exclusive[U] {
	return &Exclusive[U]{
		handle: Shared(exData[U]{lock: NewLittleLock(), data: u}),
	}
}

// Clone returns a new Exclusive sharing the same underlying cell and lock.
func (e *Exclusive[U]) Clone() *Exclusive[U] {
	return &Exclusive[U]{handle: e.handle.Clone()}
}

// Drop releases this Exclusive's handle to the underlying cell.
func (e *Exclusive[U]) Drop() {
	e.handle.Drop()
}

// With acquires the inner lock for the duration of f. If a previous
// critical section on any clone of e panicked without returning normally,
// With fails immediately with ErrPoisoned and never calls f. Otherwise it
// marks the Exclusive as failed, runs f, and on normal return clears the
// failed flag and returns f's result. If f panics, the lock is still
// released, but failed stays true, poisoning every subsequent call.
//
// f must not suspend (block on a channel, acquire another LittleLock that
// could itself block) while holding the lock; see LittleLock.With.
func With[U any, R any](e *Exclusive[U], f func(*U) R) (result R, err error) {
	WithMut(e.handle, func(ed *exData[U]) struct{} {
		ed.lock.Acquire()
		if ed.failed {
			ed.lock.Release()
			err = ErrPoisoned
			return struct{}{}
		}
		ed.failed = true
		defer func() {
			if r := recover(); r != nil {
				ed.lock.Release()
				panic(r)
			}
		}()
		result = f(&ed.data)
		ed.failed = false
		ed.lock.Release()
		return struct{}{}
	})
	return
}

// WithImm borrows the payload immutably for the duration of f. Like the
// source's with_imm, this is With plus an immutable re-cast of the same
// borrow, not a separate reader-counted fast path: it still takes the
// exclusive lock, and still poisons on panic.
func WithImm[U any, R any](e *Exclusive[U], f func(*U) R) (R, error) {
	return With(e, f)
}

// UnwrapExclusive reclaims the wrapped value by move, consuming e. See
// Unwrap for the contention and cancellation semantics.
func UnwrapExclusive[U any](ctx context.Context, e *Exclusive[U]) (U, error) {
	var zero U
	ed, err := Unwrap(ctx, e.handle)
	if err != nil {
		return zero, err
	}
	return ed.data, nil
}
