package xcell

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xcell/internal/taskgroup"
)

func TestSharedInitialState(t *testing.T) {
	h := Shared(42)
	defer h.Drop()

	assert.EqualValues(t, 1, h.cell.count.Load())
	assert.Equal(t, 42, WithRef(h, func(v *int) int { return *v }))
}

func TestWithMutMutates(t *testing.T) {
	h := Shared(10)
	defer h.Drop()

	WithMut(h, func(v *int) struct{} {
		*v += 5
		return struct{}{}
	})

	assert.Equal(t, 15, WithRef(h, func(v *int) int { return *v }))
}

func TestCloneIncrementsRefcount(t *testing.T) {
	root := Shared("x")
	c1 := root.Clone()
	c2 := c1.Clone()

	assert.EqualValues(t, 3, root.cell.count.Load())

	c2.Drop()
	c1.Drop()
	assert.EqualValues(t, 1, root.cell.count.Load())
	root.Drop()
}

func TestDropIsIdempotent(t *testing.T) {
	h := Shared("x")
	h.Drop()
	assert.NotPanics(t, func() {
		h.Drop()
	})
}

// TestCountConservation is scenario P1: for c clones and d drops with
// d <= c+1, the final refcount is c+1-d (or the cell is gone if d == c+1).
func TestCountConservation(t *testing.T) {
	root := Shared(0)
	const goroutines = 20
	const clonesEach = 50

	var mu sync.Mutex
	var handles []*Handle[int]

	err := taskgroup.SpawnAll(context.Background(), goroutines, func(i int) error {
		local := make([]*Handle[int], 0, clonesEach)
		for j := 0; j < clonesEach; j++ {
			local = append(local, root.Clone())
		}
		mu.Lock()
		handles = append(handles, local...)
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)

	const totalClones = goroutines * clonesEach
	assert.EqualValues(t, totalClones+1, root.cell.count.Load())

	for _, h := range handles {
		h.Drop()
	}
	assert.EqualValues(t, 1, root.cell.count.Load())
	root.Drop()
}

// TestRefcountUnderflowPanics exercises the defensive assertion directly;
// it is unreachable through the exported API (Drop is idempotent), so it
// is grounded at the unexported dropCell level.
func TestRefcountUnderflowPanics(t *testing.T) {
	v := 1
	c := &sharedCell[int]{data: &v}
	c.count.Store(1)

	dropCell(c) // count -> 0, frees data
	assert.Panics(t, func() {
		dropCell(c) // count -> -1
	})
}
