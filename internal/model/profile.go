// internal/model/profile.go
package model

import "encoding/json"

// Profile is the aggregated public information about an outreach target.
// It only lives for the duration of one generation request; templates keep
// a snapshot of it.
type Profile struct {
	FullName                string            `json:"full_name"`
	Company                 string            `json:"current_company"`
	Industry                string            `json:"industry"`
	Title                   string            `json:"job_title"`
	Email                   string            `json:"email"`
	Location                string            `json:"location"`
	Headline                string            `json:"headline"`
	Extract                 string            `json:"data"`
	Certifications          []json.RawMessage `json:"certifications"`
	Awards                  []json.RawMessage `json:"awards"`
	Publications            []json.RawMessage `json:"publications"`
	RecommendationsGiven    []json.RawMessage `json:"recommendations_given"`
	RecommendationsReceived []json.RawMessage `json:"recommendations_received"`
	SourceURL               string            `json:"linkedin_url"`
}
