// internal/service/campaign_service.go
package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	appErrors "github.com/unclebandit/coldreach-backend/internal/errors"
	"github.com/unclebandit/coldreach-backend/internal/model"
	"github.com/unclebandit/coldreach-backend/internal/repository"
)

type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	SequenceRepo repository.SequenceRepositoryInterface
	Events       EventPublisher
	Logger       *zap.Logger
}

type CreateCampaignInput struct {
	Name       string
	Audience   string
	Status     string
	SequenceID *string
}

func (s *CampaignService) CreateCampaign(ctx context.Context, userID string, in CreateCampaignInput) (*model.Campaign, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, appErrors.Invalid("campaign name is required")
	}
	if !model.ValidCampaignStatus(in.Status) {
		return nil, appErrors.Invalid("status %q is not allowed", in.Status)
	}

	// A campaign may only point at one of the user's own sequences.
	if in.SequenceID != nil && *in.SequenceID == "" {
		in.SequenceID = nil
	}
	if in.SequenceID != nil && !isUUID(*in.SequenceID) {
		return nil, appErrors.NewSequenceNotFound(*in.SequenceID)
	}
	if in.SequenceID != nil && s.SequenceRepo != nil {
		if _, err := s.SequenceRepo.GetByID(ctx, userID, *in.SequenceID); err != nil {
			return nil, err
		}
	}

	c := &model.Campaign{
		UserID:     userID,
		Name:       name,
		Audience:   strings.TrimSpace(in.Audience),
		Status:     in.Status,
		SequenceID: in.SequenceID,
	}
	if err := s.CampaignRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	publishActivity(s.Events, s.Logger, userID, model.EventCampaignCreated, c.ID, map[string]string{"name": c.Name})
	return c, nil
}

// ListCampaigns returns the user's campaigns, newest first.
func (s *CampaignService) ListCampaigns(ctx context.Context, userID string) ([]*model.Campaign, error) {
	return s.CampaignRepo.ListByUser(ctx, userID)
}

func (s *CampaignService) GetCampaign(ctx context.Context, userID, id string) (*model.Campaign, error) {
	if !isUUID(id) {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	return s.CampaignRepo.GetByID(ctx, userID, id)
}

func (s *CampaignService) UpdateStatus(ctx context.Context, userID, id, status string) (*model.Campaign, error) {
	if !model.ValidCampaignStatus(status) {
		return nil, appErrors.Invalid("status %q is not allowed", status)
	}
	if !isUUID(id) {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	c, err := s.CampaignRepo.UpdateStatus(ctx, userID, id, status)
	if err != nil {
		return nil, err
	}

	publishActivity(s.Events, s.Logger, userID, model.EventCampaignStatusChanged, c.ID, map[string]string{"status": status})
	return c, nil
}
