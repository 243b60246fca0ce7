package binder

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CardEntry is one physical card instance placed in a binder slot.
//
// Card holds the opaque card descriptor (name, set, images, rarity and so on).
// The core never inspects it; it travels as raw JSON between the local store
// and the remote service. ID is stable for the lifetime of the entry; only
// Position changes when the card is moved.
type CardEntry struct {
	ID        string          `json:"id"`
	Card      json.RawMessage `json:"cardData,omitempty"`
	Position  Position        `json:"position"`
	DateAdded time.Time       `json:"dateAdded"`
}

// NewCardEntry creates an entry for the given card descriptor at a position.
func NewCardEntry(card json.RawMessage, pos Position) CardEntry {
	return CardEntry{
		ID:        uuid.NewString(),
		Card:      card,
		Position:  pos,
		DateAdded: time.Now().UTC(),
	}
}

// FindCardByID returns the index of the entry with the given id, or -1.
func FindCardByID(cards []CardEntry, id string) int {
	for i := range cards {
		if cards[i].ID == id {
			return i
		}
	}
	return -1
}

// CardAtPosition returns the index of the entry occupying pos, or -1.
func CardAtPosition(cards []CardEntry, pos Position) int {
	for i := range cards {
		if cards[i].Position == pos {
			return i
		}
	}
	return -1
}
