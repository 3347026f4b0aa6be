package main

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unclebandit/coldreach-backend/internal/model"
	"github.com/unclebandit/coldreach-backend/internal/queue"
	"github.com/unclebandit/coldreach-backend/internal/service"
)

// MockActivityRepo stores events in memory
type MockActivityRepo struct {
	mu     sync.Mutex
	events []*model.ActivityEvent
}

func (m *MockActivityRepo) Record(ctx context.Context, e *model.ActivityEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = int64(len(m.events) + 1)
	m.events = append(m.events, e)
	return nil
}

func (m *MockActivityRepo) ListRecent(ctx context.Context, userID string, kinds []string, limit int) ([]*model.ActivityEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events, nil
}

func TestWorker(t *testing.T) {
	repo := &MockActivityRepo{}
	recorder := service.NewActivityRecorder(repo, zap.NewNop())
	q := queue.NewInMemoryQueue(zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, q, recorder, zap.NewNop()) }()

	// The subscriber is registered before run blocks.
	require.Eventually(t, func() bool {
		return q.Publish(queue.ActivityTopic, &model.ActivityEvent{
			UserID: "user_1",
			Kind:   model.EventLeadsImported,
		}) == nil
	}, time.Second, 10*time.Millisecond)
	q.Drain()

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	repo.mu.Lock()
	defer repo.mu.Unlock()
	require.Len(t, repo.events, 1)
	assert.Equal(t, "user_1", repo.events[0].UserID)
	assert.Equal(t, model.EventLeadsImported, repo.events[0].Kind)
}
