package controller

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/unclebandit/coldreach-backend/internal/auth"
	"github.com/unclebandit/coldreach-backend/internal/service"
)

type OutreachController struct {
	OutreachService *service.OutreachService
	Logger          *zap.Logger
}

// OutreachBody is the request for a generation run, shared with the
// websocket stream.
type OutreachBody struct {
	LinkedinURL string  `json:"linkedinUrl"`
	Motive      string  `json:"motive"`
	CampaignID  *string `json:"campaignId"`
}

func (b OutreachBody) Request(userID string) service.OutreachRequest {
	return service.OutreachRequest{
		UserID:     userID,
		SourceURL:  b.LinkedinURL,
		Motive:     b.Motive,
		CampaignID: b.CampaignID,
	}
}

func (c *OutreachController) Generate(w http.ResponseWriter, r *http.Request) {
	var body OutreachBody
	if err := decodeBody(r, &body); err != nil {
		writeServiceError(w, c.Logger, err)
		return
	}

	out, err := c.OutreachService.Run(r.Context(), body.Request(auth.UserID(r.Context())), nil)
	if err != nil {
		writeServiceError(w, c.Logger, err)
		return
	}
	if out.Stage == service.StageFailed {
		writeError(w, http.StatusBadGateway, out.Alert)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
