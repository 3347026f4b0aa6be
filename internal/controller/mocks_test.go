package controller_test

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/unclebandit/coldreach-backend/internal/auth"
	appErrors "github.com/unclebandit/coldreach-backend/internal/errors"
	"github.com/unclebandit/coldreach-backend/internal/model"
	"github.com/unclebandit/coldreach-backend/internal/profile"
)

const testUser = "user_1"

// --- Request helpers ---

func asUser(r *http.Request) *http.Request {
	return r.WithContext(auth.WithUser(r.Context(), &model.User{ID: testUser, Email: "u@example.com"}))
}

func withParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// --- Mock Repositories ---

type MockCampaignRepo struct {
	campaigns map[string]*model.Campaign
	err       error
}

func (m *MockCampaignRepo) Create(ctx context.Context, c *model.Campaign) error {
	if m.err != nil {
		return m.err
	}
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now()
	if m.campaigns == nil {
		m.campaigns = map[string]*model.Campaign{}
	}
	m.campaigns[c.ID] = c
	return nil
}

func (m *MockCampaignRepo) GetByID(ctx context.Context, userID, id string) (*model.Campaign, error) {
	if c, ok := m.campaigns[id]; ok && c.UserID == userID {
		return c, nil
	}
	return nil, appErrors.NewCampaignNotFound(id)
}

func (m *MockCampaignRepo) ListByUser(ctx context.Context, userID string) ([]*model.Campaign, error) {
	if m.err != nil {
		return nil, m.err
	}
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
	return len(m.campaigns), nil
}

type MockTemplateRepo struct {
	templates []*model.Template
}

func (m *MockTemplateRepo) Create(ctx context.Context, t *model.Template) error {
	t.ID = uuid.NewString()
	m.templates = append(m.templates, t)
	return nil
}

func (m *MockTemplateRepo) GetByID(ctx context.Context, userID, id string) (*model.Template, error) {
	for _, t := range m.templates {
		if t.ID == id && t.UserID == userID {
			return t, nil
		}
	}
	return nil, appErrors.NewTemplateNotFound(id)
}

func (m *MockTemplateRepo) ListByUser(ctx context.Context, userID, campaignID string) ([]*model.Template, error) {
	out := []*model.Template{}
	for _, t := range m.templates {
		if t.UserID == userID && (campaignID == "" || (t.CampaignID != nil && *t.CampaignID == campaignID)) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *MockTemplateRepo) CountByUser(ctx context.Context, userID string, since *time.Time) (int, error) {
	return len(m.templates), nil
}

type MockLeadRepo struct {
	leads []*model.Lead
}

func (m *MockLeadRepo) BulkCreate(ctx context.Context, leads []*model.Lead) (int, error) {
	m.leads = append(m.leads, leads...)
	return len(leads), nil
}

func (m *MockLeadRepo) ListByUser(ctx context.Context, userID string) ([]*model.Lead, error) {
	return m.leads, nil
}

func (m *MockLeadRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	return len(m.leads), nil
}

// --- Profile and generation stubs ---

type stubRetriever struct {
	body   string
	status int
	got    string
}

func (s *stubRetriever) Retrieve(ctx context.Context, sourceURL string) (json.RawMessage, int) {
	s.got = sourceURL
	return json.RawMessage(s.body), s.status
}

type stubFetcher struct {
	slice *profile.Slice
}

func (s *stubFetcher) Fetch(ctx context.Context, sourceURL string) *profile.Slice {
	return s.slice
}

type stubGenerator struct {
	msg string
	err error
}

func (s *stubGenerator) Generate(ctx context.Context, p *model.Profile, motive string) (string, error) {
	return s.msg, s.err
}
