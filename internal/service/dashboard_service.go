package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/unclebandit/coldreach-backend/internal/model"
	"github.com/unclebandit/coldreach-backend/internal/repository"
)

type DashboardService struct {
	LeadRepo     repository.LeadRepositoryInterface
	TemplateRepo repository.TemplateRepositoryInterface
	CampaignRepo repository.CampaignRepositoryInterface
	Clock        func() time.Time
}

// Stats counts the user's leads, templates and campaigns, plus templates
// created in the last seven days.
func (s *DashboardService) Stats(ctx context.Context, userID string) (*model.DashboardStats, error) {
	now := time.Now()
	if s.Clock != nil {
		now = s.Clock()
	}
	weekAgo := now.Add(-7 * 24 * time.Hour)

	var stats model.DashboardStats
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalLeads, err = s.LeadRepo.CountByUser(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalTemplates, err = s.TemplateRepo.CountByUser(ctx, userID, nil)
		return err
	})
	g.Go(func() (err error) {
		stats.TemplatesThisWeek, err = s.TemplateRepo.CountByUser(ctx, userID, &weekAgo)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalCampaigns, err = s.CampaignRepo.CountByUser(ctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}
