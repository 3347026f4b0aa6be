package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/unclebandit/coldreach-backend/internal/errors"
	"github.com/unclebandit/coldreach-backend/internal/model"
	"github.com/unclebandit/coldreach-backend/internal/repository"
)

type SequenceService struct {
	SequenceRepo repository.SequenceRepositoryInterface
	Events       EventPublisher
	Logger       *zap.Logger
	Clock        func() time.Time
}

func (s *SequenceService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// DefaultSequenceName is used when a sequence is saved without a name.
func DefaultSequenceName(at time.Time) string {
	return "Sequence - " + at.UTC().Format(time.RFC3339)
}

// CreateSequence stores a new sequence. Step order is kept exactly as given.
func (s *SequenceService) CreateSequence(ctx context.Context, userID, name string, steps []model.SequenceStep) (*model.Sequence, error) {
	seq := &model.Sequence{
		UserID: userID,
		Name:   s.nameOrDefault(name),
		Steps:  normaliseSteps(steps),
	}
	if err := s.SequenceRepo.Create(ctx, seq); err != nil {
		return nil, err
	}
	publishActivity(s.Events, s.Logger, userID, model.EventSequenceSaved, seq.ID, map[string]int{"steps": len(seq.Steps)})
	return seq, nil
}

// SaveSequence replaces the name and every step of an existing sequence.
func (s *SequenceService) SaveSequence(ctx context.Context, userID, id, name string, steps []model.SequenceStep) (*model.Sequence, error) {
	if !isUUID(id) {
		return nil, appErrors.NewSequenceNotFound(id)
	}
	seq := &model.Sequence{
		ID:     id,
		UserID: userID,
		Name:   s.nameOrDefault(name),
		Steps:  normaliseSteps(steps),
	}
	if err := s.SequenceRepo.Replace(ctx, seq); err != nil {
		return nil, err
	}
	publishActivity(s.Events, s.Logger, userID, model.EventSequenceSaved, seq.ID, map[string]int{"steps": len(seq.Steps)})
	return seq, nil
}

func (s *SequenceService) GetSequence(ctx context.Context, userID, id string) (*model.Sequence, error) {
	if !isUUID(id) {
		return nil, appErrors.NewSequenceNotFound(id)
	}
	return s.SequenceRepo.GetByID(ctx, userID, id)
}

func (s *SequenceService) ListSequences(ctx context.Context, userID string) ([]*model.Sequence, error) {
	return s.SequenceRepo.ListByUser(ctx, userID)
}

func (s *SequenceService) nameOrDefault(name string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	return DefaultSequenceName(s.now())
}

func normaliseSteps(steps []model.SequenceStep) []model.SequenceStep {
	out := make([]model.SequenceStep, len(steps))
	copy(out, steps)
	return out
}
