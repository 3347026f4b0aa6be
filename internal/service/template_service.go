// internal/service/template_service.go
package service

import (
	"context"

	appErrors "github.com/unclebandit/coldreach-backend/internal/errors"
	"github.com/unclebandit/coldreach-backend/internal/model"
	"github.com/unclebandit/coldreach-backend/internal/repository"
)

// TemplateService reads generated messages. Templates are written only by
// the outreach pipeline.
type TemplateService struct {
	TemplateRepo repository.TemplateRepositoryInterface
}

// ListTemplates lists the user's templates, optionally only those attached
// to campaignID.
func (s *TemplateService) ListTemplates(ctx context.Context, userID, campaignID string) ([]*model.Template, error) {
	if campaignID != "" && !isUUID(campaignID) {
		return nil, appErrors.Invalid("campaign_id %q is not a valid id", campaignID)
	}
	return s.TemplateRepo.ListByUser(ctx, userID, campaignID)
}

func (s *TemplateService) GetTemplate(ctx context.Context, userID, id string) (*model.Template, error) {
	if !isUUID(id) {
		return nil, appErrors.NewTemplateNotFound(id)
	}
	return s.TemplateRepo.GetByID(ctx, userID, id)
}
