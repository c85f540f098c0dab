package xcell

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xcell/internal/taskgroup"
)

// Scenario 1: 10 goroutines each increment a shared counter 10 times.
func TestExclusiveCounter(t *testing.T) {
	total := NewExclusive(0)

	const tasks = 10
	const perTask = 10

	err := taskgroup.SpawnAll(context.Background(), tasks, func(i int) error {
		c := total.Clone()
		defer c.Drop()
		for j := 0; j < perTask; j++ {
			if _, err := With(c, func(v *int) struct{} {
				*v++
				return struct{}{}
			}); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	got, err := With(total, func(v *int) int { return *v })
	require.NoError(t, err)
	assert.Equal(t, tasks*perTask, got)

	total.Drop()
}

// Scenario 2 / P4: a panic inside one clone's critical section poisons the
// Exclusive for every other clone.
func TestExclusivePoisonPropagates(t *testing.T) {
	x := NewExclusive(1)
	x2 := x.Clone()

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() { recover() }()
		With(x2, func(v *int) struct{} {
			if *v != 2 {
				panic("expected 2, this critical section fails")
			}
			*v = 2
			return struct{}{}
		})
	}()
	<-done
	x2.Drop()

	_, err := With(x, func(v *int) struct{} { return struct{}{} })
	assert.ErrorIs(t, err, ErrPoisoned)

	x.Drop()
}

// WithImm does not clear poisoning and does not itself poison further; it
// simply fails the same way With does once poisoned.
func TestExclusiveWithImmRespectsPoisoning(t *testing.T) {
	x := NewExclusive("ok")
	func() {
		defer func() { recover() }()
		With(x, func(v *string) struct{} { panic("boom") })
	}()

	_, err := WithImm(x, func(v *string) string { return *v })
	assert.ErrorIs(t, err, ErrPoisoned)

	x.Drop()
}

func TestUnwrapExclusiveUncontended(t *testing.T) {
	x := NewExclusive("hello")
	got, err := UnwrapExclusive(context.Background(), x)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

// P6: a goroutine holding two clones of the same Exclusive and unwrapping
// one while the other is still live deadlocks. The library does not
// detect this; only an external context deadline saves the test.
func TestSelfAliasingUnwrapDeadlocksUndetected(t *testing.T) {
	x := NewExclusive("hello")
	x2 := x.Clone()
	defer x2.Drop()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := UnwrapExclusive(ctx, x)
	assert.ErrorIs(t, err, context.DeadlineExceeded,
		"unwrapping while still holding another clone should block forever, "+
			"not succeed or be detected as a deadlock")
}
