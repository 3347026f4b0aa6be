// internal/model/lead.go
package model

import (
	"encoding/json"
	"time"
)

type Lead struct {
	ID          string          `db:"id" json:"id"`
	UserID      string          `db:"user_id" json:"user_id"`
	Name        string          `db:"name" json:"name"`
	Email       string          `db:"email" json:"email"`
	LinkedinURL string          `db:"linkedin_url" json:"linkedin_url"`
	ScrapedData json.RawMessage `db:"scraped_data" json:"scraped_data"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// EmptyScrapedData is stored for leads that have not been enriched.
var EmptyScrapedData = json.RawMessage(`{}`)
