package binder

// MoveAction is the mutation a validated drop resolves to.
type MoveAction string

const (
	MoveActionMove MoveAction = "move"
	MoveActionSwap MoveAction = "swap"
)

// MoveValidation is the structured outcome of a pre-commit drop check. A
// rejected drop is an expected result, not an error: Reason carries a
// human-readable explanation the UI may surface.
type MoveValidation struct {
	IsValid    bool
	Reason     string
	Action     MoveAction
	SourceCard *CardEntry
	TargetCard *CardEntry
}

// ValidateMove checks a drag-and-drop of source onto target against the known
// card list before anything is committed. It is pure: calling it repeatedly
// with the same inputs yields the same result.
func ValidateMove(source, target DragRef, known []CardEntry) MoveValidation {
	if source.OverallSlot == target.OverallSlot {
		return MoveValidation{Reason: "Cannot drop on the same slot"}
	}
	if source.Kind != DragKindCard {
		return MoveValidation{Reason: "Only cards can be dragged"}
	}

	si := FindCardByID(known, source.CardID)
	if si < 0 {
		return MoveValidation{Reason: "Source card not found"}
	}
	src := known[si]

	if target.Kind == DragKindCard {
		ti := FindCardByID(known, target.CardID)
		if ti < 0 {
			return MoveValidation{Reason: "Target card not found"}
		}
		tgt := known[ti]
		return MoveValidation{IsValid: true, Action: MoveActionSwap, SourceCard: &src, TargetCard: &tgt}
	}

	return MoveValidation{IsValid: true, Action: MoveActionMove, SourceCard: &src}
}
