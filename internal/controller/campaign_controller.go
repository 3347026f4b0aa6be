// internal/controller/campaign_controller.go
package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/unclebandit/coldreach-backend/internal/auth"
	"github.com/unclebandit/coldreach-backend/internal/service"
)

type CampaignController struct {
	CampaignService *service.CampaignService
	Logger          *zap.Logger
}

func (c *CampaignController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name       string  `json:"name"`
		Audience   string  `json:"audience"`
		Status     string  `json:"status"`
		SequenceID *string `json:"sequenceId"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeServiceError(w, c.Logger, err)
		return
	}

	campaign, err := c.CampaignService.CreateCampaign(r.Context(), auth.UserID(r.Context()), service.CreateCampaignInput{
		Name:       body.Name,
		Audience:   body.Audience,
		Status:     body.Status,
		SequenceID: body.SequenceID,
	})
	if err != nil {
		writeServiceError(w, c.Logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, campaign)
}

func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := c.CampaignService.ListCampaigns(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, c.Logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": campaigns,
	})
}

func (c *CampaignController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeServiceError(w, c.Logger, err)
		return
	}

	campaign, err := c.CampaignService.UpdateStatus(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id"), body.Status)
	if err != nil {
		writeServiceError(w, c.Logger, err)
		return
	}

	writeJSON(w, http.StatusOK, campaign)
}

func (c *CampaignController) GetCampaign(w http.ResponseWriter, r *http.Request) {
	campaign, err := c.CampaignService.GetCampaign(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, c.Logger, err)
		return
	}

	writeJSON(w, http.StatusOK, campaign)
}
