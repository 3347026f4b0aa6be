package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/unclebandit/coldreach-backend/internal/errors"
	"github.com/unclebandit/coldreach-backend/internal/model"
)

type TemplateRepositoryInterface interface {
	Create(ctx context.Context, t *model.Template) error
	GetByID(ctx context.Context, userID, id string) (*model.Template, error)
	ListByUser(ctx context.Context, userID, campaignID string) ([]*model.Template, error)
	CountByUser(ctx context.Context, userID string, since *time.Time) (int, error)
}

// TemplateRepository stores generated messages. Rows are insert-only.
type TemplateRepository struct {
	DB *sql.DB
}

const templateColumns = `id, user_id, motive, content, recipient_name, campaign_id, scraped_data, created_at`

func (r *TemplateRepository) Create(ctx context.Context, t *model.Template) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.CreatedAt = time.Now().UTC()

	snapshot := []byte(`{}`)
	if t.ScrapedData != nil {
		b, err := json.Marshal(t.ScrapedData)
		if err != nil {
			return fmt.Errorf("encode profile snapshot: %w", err)
		}
		snapshot = b
	}

	query := `
        INSERT INTO templates (id, user_id, motive, content, recipient_name, campaign_id, scraped_data, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	_, err := r.DB.ExecContext(ctx, query,
		t.ID, t.UserID, t.Motive, t.Content, t.RecipientName, t.CampaignID, string(snapshot), t.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *TemplateRepository) GetByID(ctx context.Context, userID, id string) (*model.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates WHERE id=$1 AND user_id=$2`
	t, err := scanTemplate(r.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NewTemplateNotFound(id)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

// ListByUser returns templates newest first, optionally only those assigned
// to campaignID.
func (r *TemplateRepository) ListByUser(ctx context.Context, userID, campaignID string) ([]*model.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates WHERE user_id=$1`
	args := []any{userID}
	if campaignID != "" {
		query += ` AND campaign_id=$2`
		args = append(args, campaignID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	templates := []*model.Template{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// CountByUser counts the user's templates, only those created at or after
// since when it is set.
func (r *TemplateRepository) CountByUser(ctx context.Context, userID string, since *time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM templates WHERE user_id=$1`
	args := []any{userID}
	if since != nil {
		query += ` AND created_at >= $2`
		args = append(args, *since)
	}
	var n int
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func scanTemplate(row rowScanner) (*model.Template, error) {
	var (
		t        model.Template
		snapshot []byte
	)
	err := row.Scan(&t.ID, &t.UserID, &t.Motive, &t.Content, &t.RecipientName, &t.CampaignID, &snapshot, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(snapshot) > 0 && string(snapshot) != "{}" {
		var p model.Profile
		if err := json.Unmarshal(snapshot, &p); err != nil {
			return nil, fmt.Errorf("decode profile snapshot: %w", err)
		}
		t.ScrapedData = &p
	}
	return &t, nil
}

var _ TemplateRepositoryInterface = (*TemplateRepository)(nil)
