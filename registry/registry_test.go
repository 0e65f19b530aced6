package registry_test

import (
	"slices"
	"testing"

	"github.com/delaneyj/ticksignals/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type handle struct{ id int }

func fill(t *testing.T, r *registry.Registry[*handle], n int) []*handle {
	t.Helper()
	hs := make([]*handle, n)
	for i := range hs {
		hs[i] = &handle{id: i}
		_, err := r.Add(hs[i])
		require.NoError(t, err)
	}
	return hs
}

func TestAddGrowsInBlocks(t *testing.T) {
	r := registry.New[*handle]()
	assert.Equal(t, 0, r.Cap())

	hs := fill(t, r, 1)
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, registry.BlockSize, r.Cap())
	assert.True(t, r.Contains(hs[0]))

	fill(t, r, registry.BlockSize)
	assert.Equal(t, registry.BlockSize+1, r.Len())
	assert.Equal(t, 2*registry.BlockSize, r.Cap())
}

func TestAddReturnsItem(t *testing.T) {
	r := registry.New[*handle]()
	h := &handle{id: 7}
	got, err := r.Add(h)
	require.NoError(t, err)
	assert.Same(t, h, got)
}

func TestAddRejectsDuplicate(t *testing.T) {
	r := registry.New[*handle]()
	hs := fill(t, r, 2)

	_, err := r.Add(hs[0])
	assert.ErrorIs(t, err, registry.ErrDuplicate)
	assert.Equal(t, 2, r.Len())
}

func TestAddZeroPanics(t *testing.T) {
	r := registry.New[*handle]()
	assert.Panics(t, func() {
		r.Add(nil)
	})
}

func TestAddPastLimitLeavesRegistryUnchanged(t *testing.T) {
	r := registry.New[*handle](registry.WithLimit(registry.BlockSize))
	hs := fill(t, r, registry.BlockSize)

	extra := &handle{id: -1}
	_, err := r.Add(extra)
	assert.ErrorIs(t, err, registry.ErrFull)
	assert.Equal(t, registry.BlockSize, r.Len())
	assert.Equal(t, registry.BlockSize, r.Cap())
	assert.False(t, r.Contains(extra))
	assert.Equal(t, hs, slices.Collect(r.All()))
}

func TestRemoveKeepsOrder(t *testing.T) {
	r := registry.New[*handle]()
	hs := fill(t, r, 5)

	assert.True(t, r.Remove(hs[2]))
	assert.Equal(t, []*handle{hs[0], hs[1], hs[3], hs[4]}, slices.Collect(r.All()))

	assert.True(t, r.Remove(hs[4]))
	assert.Equal(t, []*handle{hs[0], hs[1], hs[3]}, slices.Collect(r.All()))

	assert.True(t, r.Remove(hs[0]))
	assert.Equal(t, []*handle{hs[1], hs[3]}, slices.Collect(r.All()))
}

func TestRemoveMissingIsNoop(t *testing.T) {
	r := registry.New[*handle]()
	hs := fill(t, r, 3)

	assert.False(t, r.Remove(&handle{id: 99}))
	assert.Equal(t, hs, slices.Collect(r.All()))
	assert.Equal(t, registry.BlockSize, r.Cap())
}

func TestRemoveLastReleasesStorage(t *testing.T) {
	r := registry.New[*handle]()
	hs := fill(t, r, 3)

	for _, h := range hs {
		r.Remove(h)
	}
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 0, r.Cap())

	// usable again after collapsing
	fill(t, r, 1)
	assert.Equal(t, registry.BlockSize, r.Cap())
}

func TestRemoveShrinksByOneBlock(t *testing.T) {
	r := registry.New[*handle]()
	hs := fill(t, r, 2*registry.BlockSize+1)
	assert.Equal(t, 3*registry.BlockSize, r.Cap())

	// down to 2*BlockSize-1 items, under cap-BlockSize
	r.Remove(hs[0])
	r.Remove(hs[1])
	assert.Equal(t, 2*registry.BlockSize-1, r.Len())
	assert.Equal(t, 2*registry.BlockSize, r.Cap())
	assert.Equal(t, hs[2:], slices.Collect(r.All()))
}

func TestNextCursor(t *testing.T) {
	r := registry.New[*handle]()
	hs := fill(t, r, 3)

	var seen []*handle
	cursor := 0
	for {
		h, ok := r.Next(&cursor)
		if !ok {
			break
		}
		seen = append(seen, h)
		if h == hs[0] {
			// appended mid-traversal, still visited
			fill(t, r, 1)
		}
	}
	assert.Len(t, seen, 4)
	assert.Equal(t, 4, cursor)
}

func TestAllStopsEarly(t *testing.T) {
	r := registry.New[*handle]()
	fill(t, r, 10)

	count := 0
	for range r.All() {
		count++
		if count == 3 {
			break
		}
	}
	assert.Equal(t, 3, count)
}

func TestFlush(t *testing.T) {
	r := registry.New[*handle]()
	hs := fill(t, r, 40)

	r.Flush()
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 0, r.Cap())
	assert.False(t, r.Contains(hs[0]))

	_, err := r.Add(hs[0])
	assert.NoError(t, err)
}
