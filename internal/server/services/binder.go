package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"binderkeeper/internal/binder"
	"binderkeeper/internal/server/repositories/repomanager"
)

// BinderService serves the per-user binder state the clients synchronize.
// It is a thin layer over the repositories; all merge logic lives on the
// client side.
type BinderService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewBinderService(db *sql.DB, m repomanager.RepositoryManager) *BinderService {
	return &BinderService{db: db, repomanager: m}
}

// Cards returns every card entry in the user's binder, ordered by position.
func (s *BinderService) Cards(ctx context.Context, userID, binderID string) ([]binder.CardEntry, error) {
	entries, err := s.repomanager.Cards(s.db).ListByBinder(ctx, userID, binderID)
	if err != nil {
		return nil, fmt.Errorf("error listing cards: %w", err)
	}
	return entries, nil
}

// SaveCard upserts one card entry.
func (s *BinderService) SaveCard(ctx context.Context, userID, binderID string, card binder.CardEntry) error {
	if err := s.repomanager.Cards(s.db).Upsert(ctx, userID, binderID, card); err != nil {
		return fmt.Errorf("error saving card: %w", err)
	}
	return nil
}

// DeleteCard removes one card entry.
func (s *BinderService) DeleteCard(ctx context.Context, userID, binderID, cardID string) error {
	if err := s.repomanager.Cards(s.db).Delete(ctx, userID, binderID, cardID); err != nil {
		return fmt.Errorf("error deleting card: %w", err)
	}
	return nil
}

// Preferences returns the stored preferences payload. An absent row is
// reported as common.ErrorNotFound so the handler can answer 404.
func (s *BinderService) Preferences(ctx context.Context, userID, binderID string) (json.RawMessage, error) {
	return s.repomanager.Preferences(s.db).Get(ctx, userID, binderID)
}

// SavePreferences stores the preferences payload, replacing any previous one.
func (s *BinderService) SavePreferences(ctx context.Context, userID, binderID string, payload json.RawMessage) error {
	if err := s.repomanager.Preferences(s.db).Upsert(ctx, userID, binderID, payload); err != nil {
		return fmt.Errorf("error saving preferences: %w", err)
	}
	return nil
}
