package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/unclebandit/coldreach-backend/internal/model"
	"github.com/unclebandit/coldreach-backend/internal/repository"
)

type SettingsService struct {
	SettingsRepo repository.SettingsRepositoryInterface
	Events       EventPublisher
	Logger       *zap.Logger
}

// GetSettings returns the stored settings or the defaults when the user has
// not saved any yet.
func (s *SettingsService) GetSettings(ctx context.Context, userID string) (*model.Settings, error) {
	st, err := s.SettingsRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return model.DefaultSettings(userID), nil
	}
	return st, nil
}

// SaveSettings upserts the user's settings. A nil trackingEnabled keeps
// tracking on.
func (s *SettingsService) SaveSettings(ctx context.Context, userID, senderName, senderEmail string, trackingEnabled *bool) (*model.Settings, error) {
	st := model.DefaultSettings(userID)
	st.SenderName = strings.TrimSpace(senderName)
	st.SenderEmail = strings.TrimSpace(senderEmail)
	if trackingEnabled != nil {
		st.TrackingEnabled = *trackingEnabled
	}
	if err := s.SettingsRepo.Upsert(ctx, st); err != nil {
		return nil, err
	}
	publishActivity(s.Events, s.Logger, userID, model.EventSettingsSaved, userID, nil)
	return st, nil
}
