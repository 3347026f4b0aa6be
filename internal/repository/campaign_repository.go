package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/unclebandit/coldreach-backend/internal/errors"
	"github.com/unclebandit/coldreach-backend/internal/model"
)

type CampaignRepositoryInterface interface {
	Create(ctx context.Context, c *model.Campaign) error
	GetByID(ctx context.Context, userID, id string) (*model.Campaign, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Campaign, error)
	UpdateStatus(ctx context.Context, userID, id, status string) (*model.Campaign, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}

type CampaignRepository struct {
	DB *sql.DB
}

const campaignColumns = `id, user_id, name, audience, status, sequence_id, created_at, updated_at`

func (r *CampaignRepository) Create(ctx context.Context, c *model.Campaign) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now().UTC()
	query := `
        INSERT INTO campaigns (id, user_id, name, audience, status, sequence_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err := r.DB.ExecContext(ctx, query, c.ID, c.UserID, c.Name, c.Audience, c.Status, c.SequenceID, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *CampaignRepository) GetByID(ctx context.Context, userID, id string) (*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id=$1 AND user_id=$2`
	c, err := scanCampaign(r.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

// ListByUser returns the user's campaigns, newest first.
func (r *CampaignRepository) ListByUser(ctx context.Context, userID string) ([]*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	campaigns := []*model.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

func (r *CampaignRepository) UpdateStatus(ctx context.Context, userID, id, status string) (*model.Campaign, error) {
	query := `
        UPDATE campaigns SET status=$1, updated_at=$2
        WHERE id=$3 AND user_id=$4
        RETURNING ` + campaignColumns
	c, err := scanCampaign(r.DB.QueryRowContext(ctx, query, status, time.Now().UTC(), id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *CampaignRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM campaigns WHERE user_id=$1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCampaign(row rowScanner) (*model.Campaign, error) {
	var c model.Campaign
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Audience, &c.Status, &c.SequenceID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
