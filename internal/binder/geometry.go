// Package binder defines the core domain model for card binders: grid
// geometry, slot/position mapping, card entries, preferences, snapshots and
// the pure merge/allocation logic built on top of them.
package binder

import (
	"fmt"
	"strconv"
	"strings"

	"binderkeeper/internal/common"
)

// Geometry is the columns-by-rows shape of a single binder page.
type Geometry struct {
	Columns int
	Rows    int
}

// SlotsPerPage returns the number of card slots on one page.
func (g Geometry) SlotsPerPage() int {
	return g.Columns * g.Rows
}

// Valid reports whether the geometry describes at least one slot per page.
func (g Geometry) Valid() bool {
	return g.Columns > 0 && g.Rows > 0
}

// Label renders the geometry in its canonical "CxR" form, e.g. "3x3".
func (g Geometry) Label() string {
	return fmt.Sprintf("%dx%d", g.Columns, g.Rows)
}

// ParseGridSize parses a grid size label like "3x3" or "4x4" into a Geometry.
// Returns common.ErrInvalidGridSize for anything that does not describe a
// positive columns-by-rows shape.
func ParseGridSize(label string) (Geometry, error) {
	parts := strings.SplitN(strings.TrimSpace(label), "x", 2)
	if len(parts) != 2 {
		return Geometry{}, fmt.Errorf("%w: %q", common.ErrInvalidGridSize, label)
	}

	cols, err := strconv.Atoi(parts[0])
	if err != nil {
		return Geometry{}, fmt.Errorf("%w: %q", common.ErrInvalidGridSize, label)
	}
	rows, err := strconv.Atoi(parts[1])
	if err != nil {
		return Geometry{}, fmt.Errorf("%w: %q", common.ErrInvalidGridSize, label)
	}

	g := Geometry{Columns: cols, Rows: rows}
	if !g.Valid() {
		return Geometry{}, fmt.Errorf("%w: %q", common.ErrInvalidGridSize, label)
	}
	return g, nil
}
