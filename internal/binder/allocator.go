package binder

import (
	"fmt"

	"binderkeeper/internal/common"
)

// SlotRef identifies one free slot returned by the allocator, in both
// coordinate systems.
type SlotRef struct {
	Page        int `json:"page"`
	Slot        int `json:"slot"`
	OverallSlot int `json:"overallSlot"`
}

// NextAvailableSlots scans forward from startPage and returns up to count free
// slots, ascending by overall slot number. Occupied positions are skipped.
// The scan stops at totalPages: when the binder runs out of room the partial
// list is returned and it is the caller's job to offer more pages or a bigger
// grid. The allocator never grows the binder itself.
func NextAvailableSlots(count, startPage, totalPages int, g Geometry, occupied []Position) ([]SlotRef, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: count=%d", common.ErrInvalidSlot, count)
	}
	if !g.Valid() {
		return nil, fmt.Errorf("%w: %s", common.ErrInvalidGridSize, g.Label())
	}
	if totalPages < 1 || startPage < 1 || startPage > totalPages {
		return nil, fmt.Errorf("%w: startPage=%d totalPages=%d", common.ErrInvalidPosition, startPage, totalPages)
	}

	taken := make(map[Position]struct{}, len(occupied))
	for _, p := range occupied {
		taken[p] = struct{}{}
	}

	spp := g.SlotsPerPage()
	free := make([]SlotRef, 0, count)

	for page := startPage; page <= totalPages && len(free) < count; page++ {
		for slot := 1; slot <= spp && len(free) < count; slot++ {
			pos := Position{Page: page, Slot: slot}
			if _, ok := taken[pos]; ok {
				continue
			}
			free = append(free, SlotRef{
				Page:        page,
				Slot:        slot,
				OverallSlot: (page-1)*spp + slot,
			})
		}
	}
	return free, nil
}
