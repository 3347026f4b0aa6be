package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/unclebandit/coldreach-backend/internal/model"
)

type ActivityRepositoryInterface interface {
	Record(ctx context.Context, e *model.ActivityEvent) error
	ListRecent(ctx context.Context, userID string, kinds []string, limit int) ([]*model.ActivityEvent, error)
}

type ActivityRepository struct {
	DB *sql.DB
}

func (r *ActivityRepository) Record(ctx context.Context, e *model.ActivityEvent) error {
	payload := "{}"
	if len(e.Payload) > 0 {
		payload = string(e.Payload)
	}
	query := `
        INSERT INTO activity_events (user_id, kind, subject_id, payload, occurred_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
	err := r.DB.QueryRowContext(ctx, query, e.UserID, e.Kind, e.SubjectID, payload, e.OccurredAt).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ListRecent returns the newest events first. An empty kinds slice matches
// every kind.
func (r *ActivityRepository) ListRecent(ctx context.Context, userID string, kinds []string, limit int) ([]*model.ActivityEvent, error) {
	query := `
        SELECT id, user_id, kind, subject_id, payload, occurred_at
        FROM activity_events
        WHERE user_id = $1 AND (cardinality($2::text[]) = 0 OR kind = ANY($2::text[]))
        ORDER BY occurred_at DESC, id DESC
        LIMIT $3
    `
	if kinds == nil {
		kinds = []string{}
	}
	rows, err := r.DB.QueryContext(ctx, query, userID, pq.Array(kinds), limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	events := []*model.ActivityEvent{}
	for rows.Next() {
		var (
			e   model.ActivityEvent
			raw []byte
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Kind, &e.SubjectID, &raw, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		e.Payload = append([]byte(nil), raw...)
		events = append(events, &e)
	}
	return events, rows.Err()
}

var _ ActivityRepositoryInterface = (*ActivityRepository)(nil)
