package service

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/unclebandit/coldreach-backend/internal/errors"
	"github.com/unclebandit/coldreach-backend/internal/model"
	"github.com/unclebandit/coldreach-backend/internal/queue"
	"github.com/unclebandit/coldreach-backend/internal/repository"
)

// EventPublisher is satisfied by every queue.Queue implementation.
type EventPublisher interface {
	Publish(topic string, payload any) error
}

// publishActivity emits an activity event. Failures are logged and never
// change the outcome of the operation that produced the event.
func publishActivity(pub EventPublisher, logger *zap.Logger, userID, kind, subjectID string, payload any) {
	if pub == nil {
		return
	}
	e := &model.ActivityEvent{
		UserID:     userID,
		Kind:       kind,
		SubjectID:  subjectID,
		OccurredAt: time.Now().UTC(),
	}
	if payload != nil {
		if b, err := json.Marshal(payload); err == nil {
			e.Payload = b
		}
	}
	if err := pub.Publish(queue.ActivityTopic, e); err != nil && logger != nil {
		logger.Warn("failed to publish activity event", zap.String("kind", kind), zap.Error(err))
	}
}

// ActivityRecorder persists activity events taken off the queue and serves
// the recent activity feed.
type ActivityRecorder struct {
	Repo   repository.ActivityRepositoryInterface
	Logger *zap.Logger
}

func NewActivityRecorder(repo repository.ActivityRepositoryInterface, logger *zap.Logger) *ActivityRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityRecorder{Repo: repo, Logger: logger}
}

// Handle is a queue handler. Returning an error makes the queue retry, so
// malformed payloads are dropped with a warning instead.
func (r *ActivityRecorder) Handle(payload any) error {
	var e model.ActivityEvent
	switch p := payload.(type) {
	case *model.ActivityEvent:
		e = *p
	case model.ActivityEvent:
		e = p
	case json.RawMessage:
		if err := json.Unmarshal(p, &e); err != nil {
			r.Logger.Warn("dropping undecodable activity event", zap.Error(err))
			return nil
		}
	case []byte:
		if err := json.Unmarshal(p, &e); err != nil {
			r.Logger.Warn("dropping undecodable activity event", zap.Error(err))
			return nil
		}
	default:
		r.Logger.Warn("invalid activity payload type", zap.String("type", fmt.Sprintf("%T", payload)))
		return nil
	}
	if e.UserID == "" || e.Kind == "" {
		r.Logger.Warn("dropping incomplete activity event", zap.String("kind", e.Kind))
		return nil
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Repo.Record(ctx, &e); err != nil {
		return err
	}
	r.Logger.Debug("activity recorded", zap.String("kind", e.Kind), zap.String("user_id", e.UserID))
	return nil
}

// Recent lists the newest events for a user, optionally restricted to the
// given kinds. limit is clamped to 1..100.
func (r *ActivityRecorder) Recent(ctx context.Context, userID string, kinds []string, limit int) ([]*model.ActivityEvent, error) {
	for _, k := range kinds {
		if !slices.Contains(model.EventKinds, k) {
			return nil, appErrors.Invalid("unknown activity kind %q", k)
		}
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return r.Repo.ListRecent(ctx, userID, kinds, limit)
}
