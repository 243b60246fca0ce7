package binder

import (
	"fmt"
	"strconv"
	"strings"

	"binderkeeper/internal/common"
)

// Drag identifiers encode a draggable slot as a plain string so that the
// presentation layer can hand them around without a lookup table. Two forms
// exist:
//
//	card|<cardID>|<overallSlot>
//	empty|<overallSlot>
//
// Card ids are caller-supplied and may themselves contain the delimiter, so
// decoding splits the slot off at the LAST delimiter instead of tokenizing.
const dragDelim = "|"

// DragKind discriminates what a drag identifier points at.
type DragKind string

const (
	DragKindCard  DragKind = "card"
	DragKindEmpty DragKind = "empty"
)

// DragRef is the decoded form of a drag identifier.
type DragRef struct {
	Kind        DragKind
	CardID      string // empty for DragKindEmpty
	OverallSlot int
}

// EncodeCardDrag builds the identifier for a card sitting on overallSlot.
func EncodeCardDrag(cardID string, overallSlot int) string {
	return string(DragKindCard) + dragDelim + cardID + dragDelim + strconv.Itoa(overallSlot)
}

// EncodeEmptyDrag builds the identifier for an unoccupied overallSlot.
func EncodeEmptyDrag(overallSlot int) string {
	return string(DragKindEmpty) + dragDelim + strconv.Itoa(overallSlot)
}

// DecodeDrag parses a drag identifier back into a DragRef.
func DecodeDrag(id string) (DragRef, error) {
	switch {
	case strings.HasPrefix(id, string(DragKindCard)+dragDelim):
		rest := id[len(DragKindCard)+len(dragDelim):]
		cut := strings.LastIndex(rest, dragDelim)
		if cut < 0 {
			return DragRef{}, fmt.Errorf("%w: malformed drag id %q", common.ErrInvalidSlot, id)
		}
		slot, err := strconv.Atoi(rest[cut+len(dragDelim):])
		if err != nil || slot < 1 {
			return DragRef{}, fmt.Errorf("%w: malformed drag id %q", common.ErrInvalidSlot, id)
		}
		return DragRef{Kind: DragKindCard, CardID: rest[:cut], OverallSlot: slot}, nil

	case strings.HasPrefix(id, string(DragKindEmpty)+dragDelim):
		slot, err := strconv.Atoi(id[len(DragKindEmpty)+len(dragDelim):])
		if err != nil || slot < 1 {
			return DragRef{}, fmt.Errorf("%w: malformed drag id %q", common.ErrInvalidSlot, id)
		}
		return DragRef{Kind: DragKindEmpty, OverallSlot: slot}, nil

	default:
		return DragRef{}, fmt.Errorf("%w: unknown drag id %q", common.ErrInvalidSlot, id)
	}
}
