// Package postgres implements the assistant repositories against PostgreSQL
// using database/sql and lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ignite/trello-agent/internal/domain"
)

// ActivityRepo implements assistant.ActivityLog against PostgreSQL.
type ActivityRepo struct{ db *sql.DB }

// NewActivityRepo creates a Postgres-backed activity log.
func NewActivityRepo(db *sql.DB) *ActivityRepo { return &ActivityRepo{db: db} }

func (r *ActivityRepo) Record(ctx context.Context, ev *domain.ActivityEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	detail := ev.Detail
	if detail == nil {
		detail = []string{}
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO trello_agent_activity (id, action, board_id, list_id, card_id, name, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, ev.ID, string(ev.Action), ev.BoardID, ev.ListID, ev.CardID, ev.Name, pq.Array(detail), ev.CreatedAt)
	if err != nil {
		return fmt.Errorf("record activity: %w", err)
	}
	return nil
}

func (r *ActivityRepo) Recent(ctx context.Context, limit int) ([]domain.ActivityEvent, error) {
	out := []domain.ActivityEvent{}
	if limit <= 0 {
		return out, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, action, board_id, list_id, card_id, name, detail, created_at
		FROM trello_agent_activity
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ev domain.ActivityEvent
		var action string
		var detail pq.StringArray
		if err := rows.Scan(&ev.ID, &action, &ev.BoardID, &ev.ListID, &ev.CardID, &ev.Name, &detail, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		ev.Action = domain.ActivityAction(action)
		if len(detail) > 0 {
			ev.Detail = []string(detail)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (r *ActivityRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
