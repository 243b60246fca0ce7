package binder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"binderkeeper/internal/common"
)

func TestNextAvailableSlots_EmptyBinder(t *testing.T) {
	g := Geometry{Columns: 3, Rows: 3}

	free, err := NextAvailableSlots(5, 1, 1, g, nil)
	require.NoError(t, err)
	require.Len(t, free, 5)

	for i, ref := range free {
		assert.Equal(t, 1, ref.Page)
		assert.Equal(t, i+1, ref.Slot)
		assert.Equal(t, i+1, ref.OverallSlot)
	}
}

func TestNextAvailableSlots_PartialWhenFull(t *testing.T) {
	g := Geometry{Columns: 3, Rows: 3}

	// 9 slots on a single page, 12 requested: partial result, not an error.
	free, err := NextAvailableSlots(12, 1, 1, g, nil)
	require.NoError(t, err)
	assert.Len(t, free, 9)
}

func TestNextAvailableSlots_SkipsOccupied(t *testing.T) {
	g := Geometry{Columns: 3, Rows: 3}
	occupied := []Position{{Page: 1, Slot: 1}, {Page: 1, Slot: 3}}

	free, err := NextAvailableSlots(3, 1, 2, g, occupied)
	require.NoError(t, err)
	require.Len(t, free, 3)
	assert.Equal(t, 2, free[0].OverallSlot)
	assert.Equal(t, 4, free[1].OverallSlot)
	assert.Equal(t, 5, free[2].OverallSlot)
}

func TestNextAvailableSlots_StartsAtGivenPage(t *testing.T) {
	g := Geometry{Columns: 2, Rows: 2}

	free, err := NextAvailableSlots(2, 2, 3, g, nil)
	require.NoError(t, err)
	require.Len(t, free, 2)
	assert.Equal(t, SlotRef{Page: 2, Slot: 1, OverallSlot: 5}, free[0])
	assert.Equal(t, SlotRef{Page: 2, Slot: 2, OverallSlot: 6}, free[1])
}

func TestNextAvailableSlots_Deterministic(t *testing.T) {
	g := Geometry{Columns: 3, Rows: 3}
	occupied := []Position{{Page: 1, Slot: 2}, {Page: 2, Slot: 1}}

	a, err := NextAvailableSlots(6, 1, 3, g, occupied)
	require.NoError(t, err)
	b, err := NextAvailableSlots(6, 1, 3, g, occupied)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	for i := 1; i < len(a); i++ {
		assert.Greater(t, a[i].OverallSlot, a[i-1].OverallSlot, "ascending order")
	}
}

func TestNextAvailableSlots_InvalidInputs(t *testing.T) {
	g := Geometry{Columns: 3, Rows: 3}

	_, err := NextAvailableSlots(-1, 1, 1, g, nil)
	assert.ErrorIs(t, err, common.ErrInvalidSlot)

	_, err = NextAvailableSlots(1, 0, 1, g, nil)
	assert.ErrorIs(t, err, common.ErrInvalidPosition)

	_, err = NextAvailableSlots(1, 3, 2, g, nil)
	assert.ErrorIs(t, err, common.ErrInvalidPosition)

	_, err = NextAvailableSlots(1, 1, 1, Geometry{}, nil)
	assert.ErrorIs(t, err, common.ErrInvalidGridSize)
}

func TestNextAvailableSlots_ZeroCount(t *testing.T) {
	g := Geometry{Columns: 3, Rows: 3}
	free, err := NextAvailableSlots(0, 1, 1, g, nil)
	require.NoError(t, err)
	assert.Empty(t, free)
}
