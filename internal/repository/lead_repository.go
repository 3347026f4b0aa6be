package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/unclebandit/coldreach-backend/internal/model"
)

// LeadRepositoryInterface defines methods used by the lead service
type LeadRepositoryInterface interface {
	BulkCreate(ctx context.Context, leads []*model.Lead) (int, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Lead, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}

type LeadRepository struct {
	DB *sql.DB
}

// BulkCreate inserts all leads in one transaction. Either every row lands or
// none does.
func (r *LeadRepository) BulkCreate(ctx context.Context, leads []*model.Lead) (int, error) {
	if len(leads) == 0 {
		return 0, nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	defer tx.Rollback()

	query := `
        INSERT INTO leads (id, user_id, name, email, linkedin_url, scraped_data, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	now := time.Now().UTC()
	for _, l := range leads {
		if l.ID == "" {
			l.ID = uuid.NewString()
		}
		if len(l.ScrapedData) == 0 {
			l.ScrapedData = model.EmptyScrapedData
		}
		l.CreatedAt = now
		if _, err := tx.ExecContext(ctx, query,
			l.ID, l.UserID, l.Name, l.Email, l.LinkedinURL, string(l.ScrapedData), l.CreatedAt); err != nil {
			return 0, fmt.Errorf("db error: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return len(leads), nil
}

func (r *LeadRepository) ListByUser(ctx context.Context, userID string) ([]*model.Lead, error) {
	query := `
        SELECT id, user_id, name, email, linkedin_url, scraped_data, created_at
        FROM leads
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	leads := []*model.Lead{}
	for rows.Next() {
		var (
			l   model.Lead
			raw []byte
		)
		if err := rows.Scan(&l.ID, &l.UserID, &l.Name, &l.Email, &l.LinkedinURL, &raw, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		l.ScrapedData = append([]byte(nil), raw...)
		leads = append(leads, &l)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

var _ LeadRepositoryInterface = (*LeadRepository)(nil)
