package cards

import (
	"context"
	"fmt"

	"binderkeeper/internal/binder"
	"binderkeeper/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByBinder(ctx context.Context, userID, binderID string) ([]binder.CardEntry, error) {
	query := `
		SELECT card_id, payload, page, slot, date_added
		FROM binder_cards
		WHERE user_id = $1 AND binder_id = $2
		ORDER BY page, slot
	`
	rows, err := r.db.QueryContext(ctx, query, userID, binderID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	entries := make([]binder.CardEntry, 0)
	for rows.Next() {
		var entry binder.CardEntry
		if err := rows.Scan(&entry.ID, &entry.Card,
			&entry.Position.Page, &entry.Position.Slot, &entry.DateAdded); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return entries, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, userID, binderID string, card binder.CardEntry) error {
	query := `
		INSERT INTO binder_cards (user_id, binder_id, card_id, payload, page, slot, date_added)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, binder_id, card_id)
		DO UPDATE SET payload = EXCLUDED.payload,
		              page = EXCLUDED.page,
		              slot = EXCLUDED.slot,
		              date_added = EXCLUDED.date_added
	`
	payload := card.Card
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	_, err := r.db.ExecContext(ctx, query, userID, binderID, card.ID, []byte(payload),
		card.Position.Page, card.Position.Slot, card.DateAdded)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, binderID, cardID string) error {
	query := `
		DELETE FROM binder_cards
		WHERE user_id = $1 AND binder_id = $2 AND card_id = $3
	`
	if _, err := r.db.ExecContext(ctx, query, userID, binderID, cardID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
