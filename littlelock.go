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

import "sync"

// LittleLock is a small, non-reentrant mutex. It carries none of the
// intention-lock state (S/X/IS/IX) a heavier Mutex might: just locked or
// unlocked.
//
// Acquiring a LittleLock a thread already holds deadlocks; this is
// undefined behaviour the caller must avoid, not a condition LittleLock
// detects.
type LittleLock struct {
	mu sync.Mutex
}

// NewLittleLock returns an unlocked LittleLock.
func NewLittleLock() *LittleLock {
	return &LittleLock{}
}

// Acquire blocks until exclusive ownership is obtained.
func (l *LittleLock) Acquire() {
	l.mu.Lock()
}

// Release releases ownership. Calling Release without a matching Acquire
// is undefined (sync.Mutex stops the program with a fatal error).
func (l *LittleLock) Release() {
	l.mu.Unlock()
}

// With acquires the lock, runs f, and releases the lock on every exit path
// from f, including a panic. While f runs, it must not do anything that
// could suspend the calling goroutine in a way that depends on another
// goroutine making progress while blocked on this same lock - no blocking
// channel send/recv, no acquiring another LittleLock that could in turn
// block on this one. Violating that can deadlock the caller.
func (l *LittleLock) With(f func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	f()
}
