// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/coldreach-backend/internal/app"
	"github.com/unclebandit/coldreach-backend/internal/config"
	"github.com/unclebandit/coldreach-backend/internal/controller"
	"github.com/unclebandit/coldreach-backend/internal/handler"
	"github.com/unclebandit/coldreach-backend/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	a, err := app.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	session, err := a.Session()
	if err != nil {
		return err
	}
	gen, err := app.NewGenerator(ctx, cfg, logger)
	if err != nil {
		return err
	}
	fetchers := app.NewFetchers(cfg, logger)
	outreach := a.Outreach(fetchers, gen)

	r := newRouter(&routes{
		Session: session.Middleware,
		Profile: &controller.ProfileController{
			Core:                    fetchers.Core,
			Extra:                   fetchers.Extra,
			RecommendationsGiven:    fetchers.RecommendationsGiven,
			RecommendationsReceived: fetchers.RecommendationsReceived,
			Generator:               gen,
			Logger:                  logger,
		},
		Outreach:  &controller.OutreachController{OutreachService: outreach, Logger: logger},
		Stream:    handler.NewOutreachStream(outreach, logger, cfg.AllowedOrigins),
		Campaigns: &controller.CampaignController{CampaignService: a.Campaigns, Logger: logger},
		Sequences: &controller.SequenceController{SequenceService: a.Sequences, Logger: logger},
		Templates: &controller.TemplateController{TemplateService: a.Templates, Logger: logger},
		Settings:  &controller.SettingsController{SettingsService: a.Settings, Logger: logger},
		Leads:     &controller.LeadController{LeadService: a.Leads, Logger: logger},
		Dashboard: &controller.DashboardController{DashboardService: a.Dashboard, Activity: a.Activity, Logger: logger},
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", zap.String("addr", cfg.HTTPAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
