// internal/model/activity.go
package model

import (
	"encoding/json"
	"time"
)

const (
	EventTemplateCreated       = "template.created"
	EventLeadsImported         = "leads.imported"
	EventCampaignCreated       = "campaign.created"
	EventCampaignStatusChanged = "campaign.status_changed"
	EventSequenceSaved         = "sequence.saved"
	EventSettingsSaved         = "settings.saved"
)

// EventKinds lists every kind the activity feed can be filtered by.
var EventKinds = []string{
	EventTemplateCreated,
	EventLeadsImported,
	EventCampaignCreated,
	EventCampaignStatusChanged,
	EventSequenceSaved,
	EventSettingsSaved,
}

type ActivityEvent struct {
	ID         int64           `db:"id" json:"id"`
	UserID     string          `db:"user_id" json:"user_id"`
	Kind       string          `db:"kind" json:"kind"`
	SubjectID  string          `db:"subject_id" json:"subject_id,omitempty"`
	Payload    json.RawMessage `db:"payload" json:"payload,omitempty"`
	OccurredAt time.Time       `db:"occurred_at" json:"occurred_at"`
}

type DashboardStats struct {
	TotalLeads        int `json:"total_leads"`
	TotalTemplates    int `json:"total_templates"`
	TotalCampaigns    int `json:"total_campaigns"`
	TemplatesThisWeek int `json:"templates_this_week"`
}
