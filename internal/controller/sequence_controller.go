package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/unclebandit/coldreach-backend/internal/auth"
	"github.com/unclebandit/coldreach-backend/internal/model"
	"github.com/unclebandit/coldreach-backend/internal/service"
)

type SequenceController struct {
	SequenceService *service.SequenceService
	Logger          *zap.Logger
}

type sequenceBody struct {
	Name  string               `json:"name"`
	Steps []model.SequenceStep `json:"steps"`
}

func (c *SequenceController) CreateSequence(w http.ResponseWriter, r *http.Request) {
	var body sequenceBody
	if err := decodeBody(r, &body); err != nil {
		writeServiceError(w, c.Logger, err)
		return
	}

	seq, err := c.SequenceService.CreateSequence(r.Context(), auth.UserID(r.Context()), body.Name, body.Steps)
	if err != nil {
		writeServiceError(w, c.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, seq)
}

// SaveSequence replaces the whole sequence.
func (c *SequenceController) SaveSequence(w http.ResponseWriter, r *http.Request) {
	var body sequenceBody
	if err := decodeBody(r, &body); err != nil {
		writeServiceError(w, c.Logger, err)
		return
	}

	seq, err := c.SequenceService.SaveSequence(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id"), body.Name, body.Steps)
	if err != nil {
		writeServiceError(w, c.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, seq)
}

func (c *SequenceController) GetSequence(w http.ResponseWriter, r *http.Request) {
	seq, err := c.SequenceService.GetSequence(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, c.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, seq)
}

func (c *SequenceController) ListSequences(w http.ResponseWriter, r *http.Request) {
	seqs, err := c.SequenceService.ListSequences(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, c.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": seqs})
}
