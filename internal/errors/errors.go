// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")

	// ErrProfileUnavailable means one of the required profile slices
	// (core or extra) could not be fetched.
	ErrProfileUnavailable = errors.New("profile data unavailable")
)

// ErrCampaignNotFound is returned when a campaign does not exist for the user.
type ErrCampaignNotFound struct {
	CampaignID string
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %s not found", e.CampaignID)
}

func NewCampaignNotFound(id string) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

type ErrSequenceNotFound struct {
	SequenceID string
}

func (e *ErrSequenceNotFound) Error() string {
	return fmt.Sprintf("sequence with ID %s not found", e.SequenceID)
}

func NewSequenceNotFound(id string) error {
	return &ErrSequenceNotFound{SequenceID: id}
}

type ErrTemplateNotFound struct {
	TemplateID string
}

func (e *ErrTemplateNotFound) Error() string {
	return fmt.Sprintf("template with ID %s not found", e.TemplateID)
}

func NewTemplateNotFound(id string) error {
	return &ErrTemplateNotFound{TemplateID: id}
}

// IsNotFound reports whether err is any of the not-found errors above.
func IsNotFound(err error) bool {
	var c *ErrCampaignNotFound
	var s *ErrSequenceNotFound
	var t *ErrTemplateNotFound
	return errors.As(err, &c) || errors.As(err, &s) || errors.As(err, &t)
}

// Invalid wraps ErrInvalidInput with a human readable reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// UpstreamError carries the status of a failed call to an external service.
// Status 0 means the request never got a response.
type UpstreamError struct {
	Service string
	Status  int
	Err     error
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("%s: request failed", e.Service)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s: upstream status %d", e.Service, e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UpstreamError) Unwrap() error { return e.Err }
