// internal/model/campaign.go
package model

import "time"

// Campaign statuses. An empty status means the user has not set one yet.
const (
	CampaignStatusUnset     = ""
	CampaignStatusOngoing   = "ongoing"
	CampaignStatusHalted    = "halted"
	CampaignStatusCompleted = "completed"
)

type Campaign struct {
	ID         string     `db:"id" json:"id"`
	UserID     string     `db:"user_id" json:"user_id"`
	Name       string     `db:"name" json:"name"`
	Audience   string     `db:"audience" json:"audience"`
	Status     string     `db:"status" json:"status"`
	SequenceID *string    `db:"sequence_id" json:"sequence_id,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// ValidCampaignStatus reports whether s is one of the accepted campaign statuses.
func ValidCampaignStatus(s string) bool {
	switch s {
	case CampaignStatusUnset, CampaignStatusOngoing, CampaignStatusHalted, CampaignStatusCompleted:
		return true
	}
	return false
}
