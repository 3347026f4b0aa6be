package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/unclebandit/coldreach-backend/internal/controller"
)

type routes struct {
	Session   func(http.Handler) http.Handler
	Profile   *controller.ProfileController
	Outreach  *controller.OutreachController
	Stream    http.Handler
	Campaigns *controller.CampaignController
	Sequences *controller.SequenceController
	Templates *controller.TemplateController
	Settings  *controller.SettingsController
	Leads     *controller.LeadController
	Dashboard *controller.DashboardController
}

func newRouter(rt *routes) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", controller.Healthz)

	r.Route("/api", func(r chi.Router) {
		r.Use(rt.Session)

		// Profile API pass-through
		r.Post("/linkedin-scraper", rt.Profile.CoreProfile)
		r.Post("/linkedin-scraper2", rt.Profile.ExtraProfile)
		r.Post("/linkedin-scraper3", rt.Profile.RecommendationsGivenProfile)
		r.Post("/linkedin-scraper4", rt.Profile.RecommendationsReceivedProfile)
		r.Post("/generate-message", rt.Profile.GenerateMessage)

		r.Post("/outreach/generate", rt.Outreach.Generate)
		r.Get("/outreach/stream", rt.Stream.ServeHTTP)

		r.Post("/users/sync", controller.SyncUser)

		r.Get("/campaigns", rt.Campaigns.ListCampaigns)
		r.Post("/campaigns", rt.Campaigns.CreateCampaign)
		r.Get("/campaigns/{id}", rt.Campaigns.GetCampaign)
		r.Patch("/campaigns/{id}/status", rt.Campaigns.UpdateStatus)

		r.Get("/sequences", rt.Sequences.ListSequences)
		r.Post("/sequences", rt.Sequences.CreateSequence)
		r.Get("/sequences/{id}", rt.Sequences.GetSequence)
		r.Put("/sequences/{id}", rt.Sequences.SaveSequence)

		r.Get("/templates", rt.Templates.ListTemplates)
		r.Get("/templates/{id}", rt.Templates.GetTemplate)

		r.Get("/settings", rt.Settings.GetSettings)
		r.Put("/settings", rt.Settings.SaveSettings)

		r.Get("/leads", rt.Leads.ListLeads)
		r.Post("/leads/import", rt.Leads.ImportLeads)

		r.Get("/dashboard/stats", rt.Dashboard.Stats)
		r.Get("/activity", rt.Dashboard.RecentActivity)
	})
	return r
}
