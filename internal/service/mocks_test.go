package service_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/unclebandit/coldreach-backend/internal/errors"
	"github.com/unclebandit/coldreach-backend/internal/model"
	"github.com/unclebandit/coldreach-backend/internal/profile"
)

// Mock repositories

type MockTemplateRepo struct {
	mu        sync.Mutex
	templates []*model.Template
	err       error
	countErr  error
	count     int
	since     int
}

func (m *MockTemplateRepo) Create(ctx context.Context, t *model.Template) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	t.ID = uuid.NewString()
	t.CreatedAt = time.Now()
	m.templates = append(m.templates, t)
	return nil
}

func (m *MockTemplateRepo) GetByID(ctx context.Context, userID, id string) (*model.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.templates {
		if t.ID == id && t.UserID == userID {
			return t, nil
		}
	}
	return nil, appErrors.NewTemplateNotFound(id)
}

func (m *MockTemplateRepo) ListByUser(ctx context.Context, userID, campaignID string) ([]*model.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.Template{}
	for _, t := range m.templates {
		if t.UserID != userID {
			continue
		}
		if campaignID != "" && (t.CampaignID == nil || *t.CampaignID != campaignID) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *MockTemplateRepo) CountByUser(ctx context.Context, userID string, since *time.Time) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	if since != nil {
		return m.since, nil
	}
	return m.count, nil
}

func (m *MockTemplateRepo) saved() []*model.Template {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.Template(nil), m.templates...)
}

type MockCampaignRepo struct {
	campaigns map[string]*model.Campaign
	count     int
}

func newMockCampaignRepo() *MockCampaignRepo {
	return &MockCampaignRepo{campaigns: map[string]*model.Campaign{}}
}

func (m *MockCampaignRepo) Create(ctx context.Context, c *model.Campaign) error {
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now()
	m.campaigns[c.ID] = c
	return nil
}

func (m *MockCampaignRepo) GetByID(ctx context.Context, userID, id string) (*model.Campaign, error) {
	c, ok := m.campaigns[id]
	if !ok || c.UserID != userID {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	return c, nil
}

func (m *MockCampaignRepo) ListByUser(ctx context.Context, userID string) ([]*model.Campaign, error) {
	out := []*model.Campaign{}
	for _, c := range m.campaigns {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MockCampaignRepo) UpdateStatus(ctx context.Context, userID, id, status string) (*model.Campaign, error) {
	c, err := m.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	c.Status = status
	return c, nil
}

func (m *MockCampaignRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	return m.count, nil
}

type MockSequenceRepo struct {
	sequences map[string]*model.Sequence
}

func newMockSequenceRepo() *MockSequenceRepo {
	return &MockSequenceRepo{sequences: map[string]*model.Sequence{}}
}

func (m *MockSequenceRepo) Create(ctx context.Context, s *model.Sequence) error {
	s.ID = uuid.NewString()
	stored := *s
	stored.Steps = append([]model.SequenceStep(nil), s.Steps...)
	m.sequences[s.ID] = &stored
	return nil
}

func (m *MockSequenceRepo) Replace(ctx context.Context, s *model.Sequence) error {
	existing, ok := m.sequences[s.ID]
	if !ok || existing.UserID != s.UserID {
		return appErrors.NewSequenceNotFound(s.ID)
	}
	stored := *s
	stored.Steps = append([]model.SequenceStep(nil), s.Steps...)
	m.sequences[s.ID] = &stored
	return nil
}

func (m *MockSequenceRepo) GetByID(ctx context.Context, userID, id string) (*model.Sequence, error) {
	s, ok := m.sequences[id]
	if !ok || s.UserID != userID {
		return nil, appErrors.NewSequenceNotFound(id)
	}
	return s, nil
}

func (m *MockSequenceRepo) ListByUser(ctx context.Context, userID string) ([]*model.Sequence, error) {
	out := []*model.Sequence{}
	for _, s := range m.sequences {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

type MockSettingsRepo struct {
	stored map[string]*model.Settings
}

func (m *MockSettingsRepo) Get(ctx context.Context, userID string) (*model.Settings, error) {
	return m.stored[userID], nil
}

func (m *MockSettingsRepo) Upsert(ctx context.Context, s *model.Settings) error {
	if m.stored == nil {
		m.stored = map[string]*model.Settings{}
	}
	m.stored[s.UserID] = s
	return nil
}

type MockLeadRepo struct {
	leads []*model.Lead
	count int
	err   error
}

func (m *MockLeadRepo) BulkCreate(ctx context.Context, leads []*model.Lead) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.leads = append(m.leads, leads...)
	return len(leads), nil
}

func (m *MockLeadRepo) ListByUser(ctx context.Context, userID string) ([]*model.Lead, error) {
	return m.leads, nil
}

func (m *MockLeadRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	return m.count, nil
}

type MockActivityRepo struct {
	mu     sync.Mutex
	events []*model.ActivityEvent
	err    error
}

func (m *MockActivityRepo) Record(ctx context.Context, e *model.ActivityEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, e)
	return nil
}

func (m *MockActivityRepo) ListRecent(ctx context.Context, userID string, kinds []string, limit int) ([]*model.ActivityEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.ActivityEvent{}
	for _, e := range m.events {
		if len(out) == limit {
			break
		}
		if len(kinds) == 0 || slices.Contains(kinds, e.Kind) {
			out = append(out, e)
		}
	}
	return out, nil
}

// MockPublisher captures published events synchronously.
type MockPublisher struct {
	mu     sync.Mutex
	events []*model.ActivityEvent
	err    error
}

func (m *MockPublisher) Publish(topic string, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, payload.(*model.ActivityEvent))
	return nil
}

func (m *MockPublisher) kinds() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.events))
	for i, e := range m.events {
		out[i] = e.Kind
	}
	return out
}

// Mock profile sources and generator

type MockFetcher struct {
	mu    sync.Mutex
	slice *profile.Slice
	calls int
}

func (m *MockFetcher) Fetch(ctx context.Context, sourceURL string) *profile.Slice {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.slice
}

func (m *MockFetcher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type MockGenerator struct {
	text   string
	err    error
	motive string
}

func (m *MockGenerator) Generate(ctx context.Context, p *model.Profile, motive string) (string, error) {
	m.motive = motive
	if m.err != nil {
		return "Could not generate message. Please try again.", m.err
	}
	return m.text, nil
}

var errDBDown = errors.New("db down")
