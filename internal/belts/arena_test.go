package belts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArena_AscendingOrder(t *testing.T) {
	a := newArena(map[string]struct{}{"c": {}, "a": {}, "b": {}})

	assert.Equal(t, int64(0), a.id("a"))
	assert.Equal(t, int64(1), a.id("b"))
	assert.Equal(t, int64(2), a.id("c"))
	assert.Equal(t, "a", a.name(0))
}

func TestArena_Split(t *testing.T) {
	a := newArena(map[string]struct{}{"n": {}})
	id := a.id("n")
	assert.Equal(t, int64(id), a.tailID(id)) // tailID before split is id

	inID, outID := a.split(id)
	assert.NotEqual(t, inID, outID)
	assert.Equal(t, id, a.original(inID))
	assert.Equal(t, id, a.original(outID))
	assert.True(t, a.isSplit(id))

	// Splitting again returns the same pair.
	inID2, outID2 := a.split(id)
	assert.Equal(t, inID, inID2)
	assert.Equal(t, outID, outID2)
}

func TestArena_TailHeadIDs(t *testing.T) {
	a := newArena(map[string]struct{}{"n": {}})
	id := a.id("n")
	inID, outID := a.split(id)

	assert.Equal(t, outID, a.tailID(id))
	assert.Equal(t, inID, a.headID(id))
}

func TestArena_UnsplitNodeIsOwnOriginal(t *testing.T) {
	a := newArena(map[string]struct{}{"n": {}})
	id := a.id("n")

	assert.Equal(t, id, a.original(id))
	assert.Equal(t, id, a.tailID(id))
	assert.Equal(t, id, a.headID(id))
	assert.False(t, a.isSplit(id))
}
