package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/unclebandit/coldreach-backend/internal/auth"
	"github.com/unclebandit/coldreach-backend/internal/service"
)

type TemplateController struct {
	TemplateService *service.TemplateService
	Logger          *zap.Logger
}

func (c *TemplateController) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := c.TemplateService.ListTemplates(r.Context(), auth.UserID(r.Context()), r.URL.Query().Get("campaign_id"))
	if err != nil {
		writeServiceError(w, c.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": templates})
}

func (c *TemplateController) GetTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := c.TemplateService.GetTemplate(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, c.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}
