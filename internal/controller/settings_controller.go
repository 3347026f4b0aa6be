package controller

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/unclebandit/coldreach-backend/internal/auth"
	"github.com/unclebandit/coldreach-backend/internal/service"
)

type SettingsController struct {
	SettingsService *service.SettingsService
	Logger          *zap.Logger
}

func (c *SettingsController) GetSettings(w http.ResponseWriter, r *http.Request) {
	st, err := c.SettingsService.GetSettings(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, c.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (c *SettingsController) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SenderName      string `json:"senderName"`
		SenderEmail     string `json:"senderEmail"`
		TrackingEnabled *bool  `json:"trackingEnabled"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeServiceError(w, c.Logger, err)
		return
	}

	st, err := c.SettingsService.SaveSettings(r.Context(), auth.UserID(r.Context()), body.SenderName, body.SenderEmail, body.TrackingEnabled)
	if err != nil {
		writeServiceError(w, c.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
