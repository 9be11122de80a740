package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"codecanvas-backend/internal/models"
)

type ChatRepo struct {
	pool *pgxpool.Pool
}

func NewChatRepo(pool *pgxpool.Pool) *ChatRepo {
	return &ChatRepo{pool: pool}
}

// Insert appends a history entry. The creation timestamp is assigned by
// the database, never by the caller.
func (r *ChatRepo) Insert(ctx context.Context, entry *models.ChatEntry) error {
	query := `
		INSERT INTO chat_history (user_id, prompt, result)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		entry.UserID, entry.Prompt, entry.Result,
	).Scan(&entry.ID, &entry.CreatedAt)
}

// ListByUser returns the user's entries most recent first. The id is the
// tie-break for entries sharing a timestamp.
func (r *ChatRepo) ListByUser(ctx context.Context, userID int64) ([]models.ChatHistoryItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, prompt, created_at
		FROM chat_history
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.ChatHistoryItem, 0)
	for rows.Next() {
		var item models.ChatHistoryItem
		if scanErr := rows.Scan(&item.ID, &item.Prompt, &item.Timestamp); scanErr != nil {
			return nil, scanErr
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// GetByID looks up a single entry scoped to its owner. An entry owned by
// another user is indistinguishable from a missing one: both return
// pgx.ErrNoRows.
func (r *ChatRepo) GetByID(ctx context.Context, userID, entryID int64) (*models.ChatEntry, error) {
	entry := &models.ChatEntry{}
	query := `SELECT id, user_id, prompt, result, created_at
		FROM chat_history WHERE id = $1 AND user_id = $2`

	err := r.pool.QueryRow(ctx, query, entryID, userID).Scan(
		&entry.ID, &entry.UserID, &entry.Prompt, &entry.Result, &entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return entry, nil
}
