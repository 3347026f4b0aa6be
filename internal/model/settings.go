// internal/model/settings.go
package model

import "time"

type Settings struct {
	UserID          string     `db:"user_id" json:"user_id"`
	SenderName      string     `db:"sender_name" json:"sender_name"`
	SenderEmail     string     `db:"sender_email" json:"sender_email"`
	TrackingEnabled bool       `db:"tracking_enabled" json:"tracking_enabled"`
	UpdatedAt       *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// DefaultSettings is what a user sees before saving anything.
func DefaultSettings(userID string) *Settings {
	return &Settings{UserID: userID, TrackingEnabled: true}
}
