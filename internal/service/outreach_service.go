package service

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	appErrors "github.com/unclebandit/coldreach-backend/internal/errors"
	"github.com/unclebandit/coldreach-backend/internal/generator"
	"github.com/unclebandit/coldreach-backend/internal/model"
	"github.com/unclebandit/coldreach-backend/internal/profile"
	"github.com/unclebandit/coldreach-backend/internal/repository"
)

// Stage is a state of one outreach generation run.
type Stage string

const (
	StageIdle                    Stage = "idle"
	StageFetchingCore            Stage = "fetching_core"
	StageFetchingExtra           Stage = "fetching_extra"
	StageFetchingRecommendations Stage = "fetching_recommendations"
	StageGenerating              Stage = "generating"
	StageDone                    Stage = "done"
	StageFailed                  Stage = "failed"
)

var stageProgress = map[Stage]int{
	StageIdle:                    0,
	StageFetchingCore:            0,
	StageFetchingExtra:           25,
	StageFetchingRecommendations: 50,
	StageGenerating:              75,
	StageDone:                    100,
}

// FailurePolicy says what a failed step does to the run.
type FailurePolicy string

const (
	// PolicyAbort ends the run in StageFailed with a user-facing alert.
	PolicyAbort FailurePolicy = "abort"
	// PolicyBestEffort substitutes an empty result and continues.
	PolicyBestEffort FailurePolicy = "best_effort"
	// PolicyDegrade substitutes the placeholder message and still finishes Done.
	PolicyDegrade FailurePolicy = "degrade"
	// PolicySilent logs the failure and leaves the outcome untouched.
	PolicySilent FailurePolicy = "silent"
)

// Step identifies a unit of work that can fail.
type Step string

const (
	StepCore            Step = "core"
	StepExtra           Step = "extra"
	StepRecommendations Step = "recommendations"
	StepGenerate        Step = "generate"
	StepPersist         Step = "persist"
)

// StepPolicies is deliberately not uniform: required profile data aborts,
// generation degrades, storage is silent.
var StepPolicies = map[Step]FailurePolicy{
	StepCore:            PolicyAbort,
	StepExtra:           PolicyAbort,
	StepRecommendations: PolicyBestEffort,
	StepGenerate:        PolicyDegrade,
	StepPersist:         PolicySilent,
}

const (
	FetchFailedAlert      = "Failed to fetch LinkedIn data. Try again."
	DefaultRecipientEmail = "target@example.com"
)

// Progress is reported on every state transition.
type Progress struct {
	Stage   Stage `json:"stage"`
	Percent int   `json:"progress"`
}

type ProgressFunc func(Progress)

// SliceFetcher is implemented by *profile.Fetcher.
type SliceFetcher interface {
	Fetch(ctx context.Context, sourceURL string) *profile.Slice
}

// ProfileSources are the four fetchers a run uses.
type ProfileSources struct {
	Core                    SliceFetcher
	Extra                   SliceFetcher
	RecommendationsGiven    SliceFetcher
	RecommendationsReceived SliceFetcher
}

// SourcesFromFetchers adapts the configured profile fetchers.
func SourcesFromFetchers(f *profile.Fetchers) ProfileSources {
	return ProfileSources{
		Core:                    f.Core,
		Extra:                   f.Extra,
		RecommendationsGiven:    f.RecommendationsGiven,
		RecommendationsReceived: f.RecommendationsReceived,
	}
}

type MessageGenerator interface {
	Generate(ctx context.Context, p *model.Profile, motive string) (string, error)
}

type OutreachRequest struct {
	UserID     string
	SourceURL  string
	Motive     string
	CampaignID *string
}

type OutreachOutcome struct {
	Stage          Stage          `json:"stage"`
	Message        string         `json:"message,omitempty"`
	RecipientEmail string         `json:"recipient_email,omitempty"`
	RecipientName  string         `json:"recipient_name,omitempty"`
	Profile        *model.Profile `json:"profile,omitempty"`
	TemplateID     string         `json:"template_id,omitempty"`
	Alert          string         `json:"alert,omitempty"`
	Degraded       bool           `json:"degraded,omitempty"`
}

// OutreachService drives profile retrieval, aggregation, generation and
// persistence for a single target.
type OutreachService struct {
	Sources      ProfileSources
	Generator    MessageGenerator
	TemplateRepo repository.TemplateRepositoryInterface
	CampaignRepo repository.CampaignRepositoryInterface
	Events       EventPublisher
	Logger       *zap.Logger

	// Concurrent issues the four fetches at once. Observed transitions and
	// failure handling are identical to the sequential mode.
	Concurrent bool
}

type run struct {
	s       *OutreachService
	req     OutreachRequest
	observe ProgressFunc
	stage   Stage
}

func (r *run) enter(st Stage) {
	r.stage = st
	if r.observe != nil {
		r.observe(Progress{Stage: st, Percent: stageProgress[st]})
	}
}

func (r *run) fail(step Step) *OutreachOutcome {
	r.s.logger().Warn("outreach run failed",
		zap.String("step", string(step)),
		zap.String("stage", string(r.stage)),
		zap.String("user_id", r.req.UserID),
	)
	prev := r.stage
	r.stage = StageFailed
	if r.observe != nil {
		r.observe(Progress{Stage: StageFailed, Percent: stageProgress[prev]})
	}
	return &OutreachOutcome{Stage: StageFailed, Alert: FetchFailedAlert}
}

func (s *OutreachService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// Run executes one generation. The returned error is only set for invalid
// requests, including a campaign the user does not own; a failed fetch is
// reported as an outcome in StageFailed. An empty motive is allowed.
func (s *OutreachService) Run(ctx context.Context, req OutreachRequest, observe ProgressFunc) (*OutreachOutcome, error) {
	req.SourceURL = strings.TrimSpace(req.SourceURL)
	req.Motive = strings.TrimSpace(req.Motive)
	if req.SourceURL == "" {
		return nil, appErrors.Invalid("linkedinUrl is required")
	}
	if req.CampaignID != nil && *req.CampaignID == "" {
		req.CampaignID = nil
	}
	if req.CampaignID != nil {
		if err := s.checkCampaign(ctx, req.UserID, *req.CampaignID); err != nil {
			return nil, err
		}
	}

	r := &run{s: s, req: req, observe: observe}
	r.enter(StageIdle)

	var core, extra, given, received *profile.Slice
	if s.Concurrent {
		core, extra, given, received = s.fetchAll(ctx, req.SourceURL)
	}

	r.enter(StageFetchingCore)
	if !s.Concurrent {
		core = s.Sources.Core.Fetch(ctx, req.SourceURL)
	}
	if core == nil && StepPolicies[StepCore] == PolicyAbort {
		return r.fail(StepCore), nil
	}

	r.enter(StageFetchingExtra)
	if !s.Concurrent {
		extra = s.Sources.Extra.Fetch(ctx, req.SourceURL)
	}
	if extra == nil && StepPolicies[StepExtra] == PolicyAbort {
		return r.fail(StepExtra), nil
	}

	r.enter(StageFetchingRecommendations)
	if !s.Concurrent {
		given = s.Sources.RecommendationsGiven.Fetch(ctx, req.SourceURL)
		received = s.Sources.RecommendationsReceived.Fetch(ctx, req.SourceURL)
	}
	if (given == nil || received == nil) && StepPolicies[StepRecommendations] == PolicyAbort {
		return r.fail(StepRecommendations), nil
	}

	p, err := profile.Aggregate(req.SourceURL, core, extra, given, received)
	if err != nil {
		return r.fail(StepExtra), nil
	}

	r.enter(StageGenerating)
	outcome := &OutreachOutcome{
		Profile:        p,
		RecipientName:  p.FullName,
		RecipientEmail: p.Email,
	}
	if outcome.RecipientEmail == "" {
		outcome.RecipientEmail = DefaultRecipientEmail
	}

	msg, err := s.Generator.Generate(ctx, p, req.Motive)
	if err != nil {
		if StepPolicies[StepGenerate] == PolicyAbort {
			return r.fail(StepGenerate), nil
		}
		s.logger().Warn("message generation degraded to placeholder", zap.Error(err))
		msg = generator.Placeholder
		outcome.Degraded = true
	}
	outcome.Message = msg

	outcome.TemplateID = s.persist(ctx, req, p, msg)

	r.enter(StageDone)
	outcome.Stage = StageDone
	return outcome, nil
}

// checkCampaign makes sure a template is only ever attached to one of the
// requesting user's own campaigns.
func (s *OutreachService) checkCampaign(ctx context.Context, userID, campaignID string) error {
	if s.CampaignRepo == nil || userID == "" {
		return appErrors.Invalid("campaignId cannot be used without a signed-in user")
	}
	if !isUUID(campaignID) {
		return appErrors.NewCampaignNotFound(campaignID)
	}
	_, err := s.CampaignRepo.GetByID(ctx, userID, campaignID)
	return err
}

// fetchAll issues the four fetches in parallel. Fetch never fails, so the
// group only joins the goroutines.
func (s *OutreachService) fetchAll(ctx context.Context, sourceURL string) (core, extra, given, received *profile.Slice) {
	var g errgroup.Group
	g.Go(func() error { core = s.Sources.Core.Fetch(ctx, sourceURL); return nil })
	g.Go(func() error { extra = s.Sources.Extra.Fetch(ctx, sourceURL); return nil })
	g.Go(func() error { given = s.Sources.RecommendationsGiven.Fetch(ctx, sourceURL); return nil })
	g.Go(func() error { received = s.Sources.RecommendationsReceived.Fetch(ctx, sourceURL); return nil })
	g.Wait()
	return core, extra, given, received
}

// persist stores the template. Errors never reach the caller.
func (s *OutreachService) persist(ctx context.Context, req OutreachRequest, p *model.Profile, msg string) string {
	if s.TemplateRepo == nil || req.UserID == "" {
		return ""
	}
	t := &model.Template{
		UserID:        req.UserID,
		Motive:        req.Motive,
		Content:       msg,
		RecipientName: p.FullName,
		CampaignID:    req.CampaignID,
		ScrapedData:   p,
	}
	if err := s.TemplateRepo.Create(ctx, t); err != nil {
		s.logger().Error("failed to save template",
			zap.String("policy", string(StepPolicies[StepPersist])),
			zap.String("user_id", req.UserID),
			zap.Error(err),
		)
		return ""
	}

	payload := map[string]any{"recipient_name": t.RecipientName}
	if t.CampaignID != nil {
		payload["campaign_id"] = *t.CampaignID
	}
	publishActivity(s.Events, s.Logger, req.UserID, model.EventTemplateCreated, t.ID, payload)
	return t.ID
}
