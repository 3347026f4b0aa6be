package profile

import (
	"encoding/json"

	appErrors "github.com/unclebandit/coldreach-backend/internal/errors"
	"github.com/unclebandit/coldreach-backend/internal/model"
)

// Aggregate merges the fetched slices into one profile. Core and extra are
// required; missing recommendations become empty lists. Identity fields
// always come from core.
func Aggregate(sourceURL string, core, extra, given, received *Slice) (*model.Profile, error) {
	if core == nil || core.Core == nil || extra == nil || extra.Extra == nil {
		return nil, appErrors.ErrProfileUnavailable
	}

	p := &model.Profile{
		FullName:                core.Core.FullName,
		Company:                 core.Core.Company,
		Industry:                core.Core.Industry,
		Title:                   core.Core.Title,
		Email:                   core.Core.Email,
		Location:                core.Core.Location,
		Headline:                core.Core.Headline,
		Extract:                 core.Core.Extract,
		Certifications:          nonNil(extra.Extra.Certifications),
		Awards:                  nonNil(extra.Extra.Awards),
		Publications:            nonNil(extra.Extra.Publications),
		RecommendationsGiven:    recommendations(given),
		RecommendationsReceived: recommendations(received),
		SourceURL:               sourceURL,
	}
	return p, nil
}

func recommendations(s *Slice) []json.RawMessage {
	if s == nil {
		return []json.RawMessage{}
	}
	return nonNil(s.Recommendations)
}
