package preferences

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"binderkeeper/internal/common"
	"binderkeeper/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID, binderID string) (json.RawMessage, error) {
	query := `
		SELECT payload
		FROM binder_preferences
		WHERE user_id = $1 AND binder_id = $2
	`
	var payload []byte
	if err := r.db.QueryRowContext(ctx, query, userID, binderID).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return payload, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, userID, binderID string, payload json.RawMessage) error {
	query := `
		INSERT INTO binder_preferences (user_id, binder_id, payload, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, binder_id)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, userID, binderID, []byte(payload), time.Now()); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
