// Package app assembles repositories, services and their infrastructure
// from a Config. It is shared by the server, the worker and coldreachctl.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/unclebandit/coldreach-backend/internal/auth"
	"github.com/unclebandit/coldreach-backend/internal/config"
	"github.com/unclebandit/coldreach-backend/internal/db"
	"github.com/unclebandit/coldreach-backend/internal/generator"
	"github.com/unclebandit/coldreach-backend/internal/profile"
	"github.com/unclebandit/coldreach-backend/internal/queue"
	"github.com/unclebandit/coldreach-backend/internal/repository"
	"github.com/unclebandit/coldreach-backend/internal/service"
	"github.com/unclebandit/coldreach-backend/internal/storage"
)

type App struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *sql.DB
	Events queue.Queue

	Users     *repository.UserRepository
	Campaigns *service.CampaignService
	Sequences *service.SequenceService
	Templates *service.TemplateService
	Settings  *service.SettingsService
	Leads     *service.LeadService
	Dashboard *service.DashboardService
	Activity  *service.ActivityRecorder

	closers []func() error
}

// Open connects to the database, applies migrations and wires every
// persistence-backed service. Activity events go to RabbitMQ when AMQPURL is
// set; otherwise they are recorded in process.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	a := &App{Config: cfg, Logger: logger, DB: database}
	a.closers = append(a.closers, database.Close)

	if err := db.Migrate(ctx, database); err != nil {
		a.Close()
		return nil, err
	}

	activityRepo := &repository.ActivityRepository{DB: database}
	a.Activity = service.NewActivityRecorder(activityRepo, logger)

	if err := a.openEvents(); err != nil {
		a.Close()
		return nil, err
	}

	archiver, err := NewArchiver(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Users = &repository.UserRepository{DB: database}
	a.wire(
		&repository.CampaignRepository{DB: database},
		&repository.SequenceRepository{DB: database},
		&repository.TemplateRepository{DB: database},
		&repository.SettingsRepository{DB: database},
		&repository.LeadRepository{DB: database},
		archiver,
	)
	return a, nil
}

func (a *App) openEvents() error {
	if a.Config.AMQPURL == "" {
		q := queue.NewInMemoryQueue(a.Logger)
		if err := queue.StartActivitySubscriber(q, a.Activity.Handle, a.Logger); err != nil {
			return err
		}
		a.Events = q
		return nil
	}

	q, err := queue.DialAMQP(a.Config.AMQPURL, a.Config.ActivityQueue, a.Logger)
	if err != nil {
		return err
	}
	a.Events = q
	a.closers = append(a.closers, q.Close)
	return nil
}

func (a *App) wire(
	campaigns repository.CampaignRepositoryInterface,
	sequences repository.SequenceRepositoryInterface,
	templates repository.TemplateRepositoryInterface,
	settings repository.SettingsRepositoryInterface,
	leads repository.LeadRepositoryInterface,
	archiver storage.Archiver,
) {
	a.Campaigns = &service.CampaignService{CampaignRepo: campaigns, SequenceRepo: sequences, Events: a.Events, Logger: a.Logger}
	a.Sequences = &service.SequenceService{SequenceRepo: sequences, Events: a.Events, Logger: a.Logger}
	a.Templates = &service.TemplateService{TemplateRepo: templates}
	a.Settings = &service.SettingsService{SettingsRepo: settings, Events: a.Events, Logger: a.Logger}
	a.Leads = &service.LeadService{LeadRepo: leads, Archive: archiver, Events: a.Events, Logger: a.Logger}
	a.Dashboard = &service.DashboardService{LeadRepo: leads, TemplateRepo: templates, CampaignRepo: campaigns}
}

// Outreach builds the generation pipeline on top of the app's template store.
func (a *App) Outreach(fetchers *profile.Fetchers, gen service.MessageGenerator) *service.OutreachService {
	return &service.OutreachService{
		Sources:      service.SourcesFromFetchers(fetchers),
		Generator:    gen,
		TemplateRepo: a.Templates.TemplateRepo,
		CampaignRepo: a.Campaigns.CampaignRepo,
		Events:       a.Events,
		Logger:       a.Logger,
		Concurrent:   a.Config.FetchConcurrently,
	}
}

// Session returns the request authentication middleware.
func (a *App) Session() (*auth.Session, error) {
	verifier, err := auth.LoadVerifier(a.Config.JWTSecret, a.Config.JWTPublicKeyFile)
	if err != nil {
		return nil, err
	}
	return &auth.Session{Verifier: verifier, Users: a.Users, Logger: a.Logger}, nil
}

// Close waits for in-process event delivery and releases connections in
// reverse order of acquisition.
func (a *App) Close() {
	if q, ok := a.Events.(*queue.InMemoryQueue); ok {
		q.Drain()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Logger.Warn("close failed", zap.Error(err))
		}
	}
	a.closers = nil
}

// NewFetchers configures the four profile fetchers against the profile API.
func NewFetchers(cfg *config.Config, logger *zap.Logger) *profile.Fetchers {
	return profile.NewFetchers(&profile.Client{
		BaseURL: cfg.ProfileAPIBaseURL,
		Host:    cfg.ProfileAPIHost,
		HTTP:    &http.Client{Timeout: cfg.ProfileAPITimeout},
		Router: &profile.CredentialRouter{
			PrimaryKey:  cfg.ProfileAPIKey,
			FallbackKey: cfg.ProfileAPIFallbackKey,
			Logger:      logger,
		},
		Logger: logger,
	})
}

func NewGenerator(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*generator.Generator, error) {
	backend, err := generator.NewGenAIBackend(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL)
	if err != nil {
		return nil, err
	}
	return generator.New(backend, logger), nil
}

// NewArchiver returns the S3 archive, or a no-op when no bucket is set.
func NewArchiver(ctx context.Context, cfg *config.Config) (storage.Archiver, error) {
	if cfg.S3Bucket == "" {
		return storage.Noop{}, nil
	}
	a, err := storage.NewS3Archiver(ctx, storage.S3Options{
		Bucket:       cfg.S3Bucket,
		Region:       cfg.S3Region,
		BaseEndpoint: cfg.S3BaseEndpoint,
		AccessKey:    cfg.S3AccessKey,
		SecretKey:    cfg.S3SecretKey,
	})
	if err != nil {
		return nil, fmt.Errorf("object storage: %w", err)
	}
	return a, nil
}
