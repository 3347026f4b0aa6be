// internal/model/sequence.go
package model

import "time"

type SequenceStep struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Sequence is an ordered list of message steps. Saving replaces the whole
// step list.
type Sequence struct {
	ID        string         `db:"id" json:"id"`
	UserID    string         `db:"user_id" json:"user_id"`
	Name      string         `db:"name" json:"name"`
	Steps     []SequenceStep `db:"steps" json:"steps"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt *time.Time     `db:"updated_at" json:"updated_at,omitempty"`
}
