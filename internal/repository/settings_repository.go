package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/unclebandit/coldreach-backend/internal/model"
)

type SettingsRepositoryInterface interface {
	Get(ctx context.Context, userID string) (*model.Settings, error)
	Upsert(ctx context.Context, s *model.Settings) error
}

type SettingsRepository struct {
	DB *sql.DB
}

// Get returns nil, nil when the user has never saved settings.
func (r *SettingsRepository) Get(ctx context.Context, userID string) (*model.Settings, error) {
	query := `
        SELECT user_id, sender_name, sender_email, tracking_enabled, updated_at
        FROM settings WHERE user_id = $1
    `
	var s model.Settings
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(&s.UserID, &s.SenderName, &s.SenderEmail, &s.TrackingEnabled, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &s, nil
}

// Upsert writes the settings row keyed by user_id.
func (r *SettingsRepository) Upsert(ctx context.Context, s *model.Settings) error {
	now := time.Now().UTC()
	query := `
        INSERT INTO settings (user_id, sender_name, sender_email, tracking_enabled, updated_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_id) DO UPDATE SET
            sender_name = EXCLUDED.sender_name,
            sender_email = EXCLUDED.sender_email,
            tracking_enabled = EXCLUDED.tracking_enabled,
            updated_at = EXCLUDED.updated_at
    `
	if _, err := r.DB.ExecContext(ctx, query, s.UserID, s.SenderName, s.SenderEmail, s.TrackingEnabled, now); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	s.UpdatedAt = &now
	return nil
}

var _ SettingsRepositoryInterface = (*SettingsRepository)(nil)
