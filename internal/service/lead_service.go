package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	appErrors "github.com/unclebandit/coldreach-backend/internal/errors"
	"github.com/unclebandit/coldreach-backend/internal/model"
	"github.com/unclebandit/coldreach-backend/internal/repository"
	"github.com/unclebandit/coldreach-backend/internal/storage"
)

type LeadService struct {
	LeadRepo repository.LeadRepositoryInterface
	Archive  storage.Archiver
	Events   EventPublisher
	Logger   *zap.Logger
}

func (s *LeadService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// ParseLeadsCSV reads a CSV with a header row. Header names are matched
// case-insensitively; name, email and linkedin_url are picked up and any
// other column is ignored. Blank rows are skipped.
func ParseLeadsCSV(r io.Reader, userID string) ([]*model.Lead, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []*model.Lead{}, nil
	}
	if err != nil {
		return nil, appErrors.Invalid("malformed CSV header: %v", err)
	}

	cols := map[string]int{}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, seen := cols[h]; !seen {
			cols[h] = i
		}
	}
	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	leads := []*model.Lead{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, appErrors.Invalid("malformed CSV: %v", err)
		}
		if blankRecord(rec) {
			continue
		}
		leads = append(leads, &model.Lead{
			UserID:      userID,
			Name:        field(rec, "name"),
			Email:       field(rec, "email"),
			LinkedinURL: field(rec, "linkedin_url"),
			ScrapedData: model.EmptyScrapedData,
		})
	}
	return leads, nil
}

func blankRecord(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// ImportLeads parses an uploaded CSV and stores every row for the user in
// one transaction. The raw upload is archived on a best effort basis.
func (s *LeadService) ImportLeads(ctx context.Context, userID string, upload []byte) (int, error) {
	leads, err := ParseLeadsCSV(bytes.NewReader(upload), userID)
	if err != nil {
		return 0, err
	}
	if len(leads) == 0 {
		return 0, nil
	}

	n, err := s.LeadRepo.BulkCreate(ctx, leads)
	if err != nil {
		return 0, fmt.Errorf("import leads: %w", err)
	}

	if s.Archive != nil {
		if key, err := s.Archive.Archive(ctx, userID, upload); err != nil {
			s.logger().Warn("failed to archive lead upload", zap.String("user_id", userID), zap.Error(err))
		} else if key != "" {
			s.logger().Info("lead upload archived", zap.String("key", key))
		}
	}

	publishActivity(s.Events, s.Logger, userID, model.EventLeadsImported, "", map[string]int{"imported": n})
	return n, nil
}

func (s *LeadService) ListLeads(ctx context.Context, userID string) ([]*model.Lead, error) {
	return s.LeadRepo.ListByUser(ctx, userID)
}
