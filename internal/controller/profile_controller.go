package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/unclebandit/coldreach-backend/internal/model"
	"github.com/unclebandit/coldreach-backend/internal/service"
)

// Retriever is implemented by *profile.Fetcher.
type Retriever interface {
	Retrieve(ctx context.Context, sourceURL string) (json.RawMessage, int)
}

// ProfileController exposes the profile API pass-through endpoints and the
// standalone message generation endpoint.
type ProfileController struct {
	Core                    Retriever
	Extra                   Retriever
	RecommendationsGiven    Retriever
	RecommendationsReceived Retriever
	Generator               service.MessageGenerator
	Logger                  *zap.Logger
}

func readSourceURL(w http.ResponseWriter, r *http.Request) (string, bool) {
	var body struct {
		LinkedinURL string `json:"linkedinUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.LinkedinURL) == "" {
		writeError(w, http.StatusBadRequest, "linkedinUrl is required")
		return "", false
	}
	return strings.TrimSpace(body.LinkedinURL), true
}

// CoreProfile returns the upstream body unchanged on success.
func (c *ProfileController) CoreProfile(w http.ResponseWriter, r *http.Request) {
	sourceURL, ok := readSourceURL(w, r)
	if !ok {
		return
	}

	body, status := c.Core.Retrieve(r.Context(), sourceURL)
	switch {
	case status == 0:
		writeError(w, http.StatusInternalServerError, internalError)
	case status < 200 || status > 299:
		writeError(w, status, "LinkedIn fetch failed")
	case !json.Valid(body):
		writeError(w, http.StatusInternalServerError, internalError)
	default:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	}
}

func (c *ProfileController) ExtraProfile(w http.ResponseWriter, r *http.Request) {
	c.wrapped(w, r, c.Extra)
}

func (c *ProfileController) RecommendationsGivenProfile(w http.ResponseWriter, r *http.Request) {
	c.wrapped(w, r, c.RecommendationsGiven)
}

func (c *ProfileController) RecommendationsReceivedProfile(w http.ResponseWriter, r *http.Request) {
	c.wrapped(w, r, c.RecommendationsReceived)
}

// wrapped answers {"data": upstream} on success and {"error": upstream text}
// with the upstream status otherwise.
func (c *ProfileController) wrapped(w http.ResponseWriter, r *http.Request, src Retriever) {
	sourceURL, ok := readSourceURL(w, r)
	if !ok {
		return
	}

	body, status := src.Retrieve(r.Context(), sourceURL)
	switch {
	case status == 0:
		writeError(w, http.StatusInternalServerError, internalError)
	case status < 200 || status > 299:
		writeError(w, status, string(body))
	case !json.Valid(body):
		writeError(w, http.StatusInternalServerError, internalError)
	default:
		writeJSON(w, http.StatusOK, map[string]json.RawMessage{"data": body})
	}
}

// GenerateMessage always answers 200 with a message; a failed generation
// yields the placeholder text.
func (c *ProfileController) GenerateMessage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Profile *model.Profile `json:"profile"`
		Motive  string         `json:"motive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Profile == nil {
		writeError(w, http.StatusBadRequest, "profile and motive are required")
		return
	}

	msg, err := c.Generator.Generate(r.Context(), body.Profile, body.Motive)
	if err != nil && c.Logger != nil {
		c.Logger.Warn("generate-message degraded", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}
