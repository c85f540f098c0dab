package xcell

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLittleLockMutualExclusion(t *testing.T) {
	l := NewLittleLock()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.With(func() {
				counter++
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestLittleLockReleasesOnPanic(t *testing.T) {
	l := NewLittleLock()

	func() {
		defer func() { recover() }()
		l.With(func() {
			panic("boom")
		})
	}()

	acquired := make(chan struct{})
	go func() {
		l.Acquire()
		l.Release()
		close(acquired)
	}()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lock was not released after a panic inside With")
	}
}
