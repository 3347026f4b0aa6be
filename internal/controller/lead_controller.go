package controller

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"go.uber.org/zap"

	"github.com/unclebandit/coldreach-backend/internal/auth"
	"github.com/unclebandit/coldreach-backend/internal/service"
)

// MaxUploadBytes bounds a single lead CSV upload.
const MaxUploadBytes = 10 << 20

type LeadController struct {
	LeadService *service.LeadService
	Logger      *zap.Logger
}

func (c *LeadController) ListLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := c.LeadService.ListLeads(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, c.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": leads})
}

// ImportLeads accepts either a multipart form with a "file" field or a raw
// text/csv body.
func (c *LeadController) ImportLeads(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)

	upload, err := readUpload(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	n, err := c.LeadService.ImportLeads(r.Context(), auth.UserID(r.Context()), upload)
	if err != nil {
		writeServiceError(w, c.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"imported": n})
}

func readUpload(r *http.Request) ([]byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return io.ReadAll(r.Body)
	}

	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		return nil, err
	}
	f, _, err := r.FormFile("file")
	if err != nil {
		return nil, errors.New("missing file field")
	}
	defer f.Close()
	return io.ReadAll(f)
}
