// internal/model/template.go
package model

import "time"

// Template is a generated outreach message together with the context it was
// generated from. Templates are never mutated after insert.
type Template struct {
	ID            string    `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"user_id"`
	Motive        string    `db:"motive" json:"motive"`
	Content       string    `db:"content" json:"content"`
	RecipientName string    `db:"recipient_name" json:"recipient_name"`
	CampaignID    *string   `db:"campaign_id" json:"campaign_selected,omitempty"`
	ScrapedData   *Profile  `db:"scraped_data" json:"scraped_data,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
