package controller

import (
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/unclebandit/coldreach-backend/internal/auth"
	"github.com/unclebandit/coldreach-backend/internal/service"
)

type DashboardController struct {
	DashboardService *service.DashboardService
	Activity         *service.ActivityRecorder
	Logger           *zap.Logger
}

func (c *DashboardController) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.DashboardService.Stats(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, c.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// RecentActivity accepts ?kind= repeated or comma-separated.
func (c *DashboardController) RecentActivity(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	var kinds []string
	for _, v := range r.URL.Query()["kind"] {
		for _, k := range strings.Split(v, ",") {
			if k = strings.TrimSpace(k); k != "" {
				kinds = append(kinds, k)
			}
		}
	}

	events, err := c.Activity.Recent(r.Context(), auth.UserID(r.Context()), kinds, limit)
	if err != nil {
		writeServiceError(w, c.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": events})
}
