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

// Package xcell implements shared, mutable state across cooperating
// goroutines with three guarantees: strict atomic reference counting, an
// optional mutual-exclusion lock, and a cooperative "unwrap" protocol that
// lets the last surviving owner reclaim the contained value by move,
// rendezvousing with a concurrent dropper if necessary.
//
// ## Overview
//
// The shared cell behind a Handle[T] is a heap-allocated, refcounted box
// around a T. Handles obtained from Shared or Clone each hold one unit of
// refcount; dropping the
// last one normally frees the cell and its payload. Unwrap offers a second
// way to reclaim the payload: exactly one concurrent caller may "reserve"
// the right to take the value by move once the refcount reaches zero,
// racing the ordinary drop path via a small rendezvous handshake rather
// than against it.
//
// Exclusive[U] layers a LittleLock and a failure-poisoning flag on top of a
// SharedCell, giving mutually-exclusive access to U across goroutines that
// each hold a clone, with the property that a goroutine which panics while
// holding the lock poisons the Exclusive for everyone else.
//
// Neither type supports suspending (blocking on a channel, yielding) while
// inside a critical section (see LittleLock), and neither collects cycles:
// a SharedCell that closes over a handle to itself will leak. See
// xcell/diag for a way to track live cells externally when that matters.
package xcell
