package binder

import (
	"fmt"

	"binderkeeper/internal/common"
)

// Position addresses a single card slot as a (page, slot-in-page) pair.
// Both coordinates are 1-based.
type Position struct {
	Page int `json:"page"`
	Slot int `json:"slot"`
}

// PositionFromSlot converts a 1-based overall slot number into a Position for
// the given geometry.
func PositionFromSlot(overallSlot int, g Geometry) (Position, error) {
	if overallSlot < 1 {
		return Position{}, fmt.Errorf("%w: %d", common.ErrInvalidSlot, overallSlot)
	}
	if !g.Valid() {
		return Position{}, fmt.Errorf("%w: %s", common.ErrInvalidGridSize, g.Label())
	}

	spp := g.SlotsPerPage()
	return Position{
		Page: (overallSlot-1)/spp + 1,
		Slot: (overallSlot-1)%spp + 1,
	}, nil
}

// SlotFromPosition converts a Position back into its overall slot number.
// It is the exact inverse of PositionFromSlot for every valid input.
func SlotFromPosition(p Position, g Geometry) (int, error) {
	if !g.Valid() {
		return 0, fmt.Errorf("%w: %s", common.ErrInvalidGridSize, g.Label())
	}
	spp := g.SlotsPerPage()
	if p.Page < 1 || p.Slot < 1 || p.Slot > spp {
		return 0, fmt.Errorf("%w: page=%d slot=%d", common.ErrInvalidPosition, p.Page, p.Slot)
	}
	return (p.Page-1)*spp + p.Slot, nil
}
