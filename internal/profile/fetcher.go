// Package profile retrieves a target's public professional profile from the
// profile-data API and merges the partial results into a model.Profile.
package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// Kind names one of the four profile slices.
type Kind string

const (
	KindCore                    Kind = "core"
	KindExtra                   Kind = "extra"
	KindRecommendationsGiven    Kind = "recommendations_given"
	KindRecommendationsReceived Kind = "recommendations_received"
)

// CoreFields is the identity part of a profile.
type CoreFields struct {
	FullName string
	Company  string
	Industry string
	Title    string
	Email    string
	Location string
	Headline string
	Extract  string
}

type ExtraFields struct {
	Certifications []json.RawMessage
	Awards         []json.RawMessage
	Publications   []json.RawMessage
}

// Slice is the normalised result of one fetcher. Exactly one of the payload
// fields is set, according to Kind.
type Slice struct {
	Kind            Kind
	Core            *CoreFields
	Extra           *ExtraFields
	Recommendations []json.RawMessage
}

// Client holds what every fetcher shares: where the API lives and how
// requests are authenticated.
type Client struct {
	BaseURL string
	Host    string
	HTTP    *http.Client
	Router  *CredentialRouter
	Logger  *zap.Logger
}

// Fetcher retrieves a single slice. The four configurations differ only in
// path, fixed query flags and how the upstream body is normalised.
type Fetcher struct {
	Kind    Kind
	Path    string
	Query   url.Values
	Extract func(data json.RawMessage) (*Slice, error)

	// RequireData rejects bodies without a "data" object instead of falling
	// back to the whole body.
	RequireData bool
	Client      *Client
}

// Fetchers groups the four configured fetchers used by one generation run.
type Fetchers struct {
	Core                    *Fetcher
	Extra                   *Fetcher
	RecommendationsGiven    *Fetcher
	RecommendationsReceived *Fetcher
}

var coreFlags = []string{
	"include_skills", "include_certifications", "include_publications",
	"include_honors", "include_volunteers", "include_projects",
	"include_patents", "include_courses", "include_organizations",
	"include_profile_status", "include_company_public_url",
}

func NewFetchers(c *Client) *Fetchers {
	coreQuery := url.Values{}
	for _, f := range coreFlags {
		coreQuery.Set(f, "false")
	}
	return &Fetchers{
		Core:  &Fetcher{Kind: KindCore, Path: "/get-linkedin-profile", Query: coreQuery, Extract: extractCore, RequireData: true, Client: c},
		Extra: &Fetcher{Kind: KindExtra, Path: "/get-extra-profile-data", Extract: extractExtra, Client: c},
		RecommendationsGiven: &Fetcher{
			Kind: KindRecommendationsGiven, Path: "/get-recommendations-given",
			Extract: extractRecommendations(KindRecommendationsGiven), Client: c,
		},
		RecommendationsReceived: &Fetcher{
			Kind: KindRecommendationsReceived, Path: "/get-recommendations-received",
			Extract: extractRecommendations(KindRecommendationsReceived), Client: c,
		},
	}
}

// Retrieve performs the upstream call and returns the raw body with the
// upstream status. Status 0 means the request failed before a response
// arrived.
func (f *Fetcher) Retrieve(ctx context.Context, sourceURL string) (json.RawMessage, int) {
	q := url.Values{}
	for k, v := range f.Query {
		q[k] = v
	}
	q.Set("linkedin_url", sourceURL)
	target := strings.TrimRight(f.Client.BaseURL, "/") + f.Path + "?" + q.Encode()

	resp, err := f.Client.Router.Do(ctx, f.Path, func(ctx context.Context, key string) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("x-rapidapi-key", key)
		req.Header.Set("x-rapidapi-host", f.Client.Host)
		return f.Client.httpClient().Do(req)
	})
	if err != nil {
		f.Client.logger().Error("profile API request failed", zap.String("endpoint", f.Path), zap.Error(err))
		return nil, 0
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		f.Client.logger().Error("reading profile API response", zap.String("endpoint", f.Path), zap.Error(err))
		return nil, 0
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.Client.logger().Error("profile API error", zap.String("endpoint", f.Path), zap.Int("status", resp.StatusCode))
	}
	return body, resp.StatusCode
}

// Fetch returns the normalised slice, or nil when the upstream call failed
// or returned something that cannot be decoded.
func (f *Fetcher) Fetch(ctx context.Context, sourceURL string) *Slice {
	body, status := f.Retrieve(ctx, sourceURL)
	if status < 200 || status > 299 {
		return nil
	}
	unwrap := unwrapEnvelope
	if f.RequireData {
		unwrap = requireDataObject
	}
	data, err := unwrap(body)
	if err != nil {
		f.Client.logger().Warn("undecodable profile API body", zap.String("endpoint", f.Path), zap.Error(err))
		return nil
	}
	s, err := f.Extract(data)
	if err != nil {
		f.Client.logger().Warn("unexpected profile API payload", zap.String("endpoint", f.Path), zap.Error(err))
		return nil
	}
	return s
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

func (c *Client) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// unwrapEnvelope returns the "data" member of an object body, or the body
// itself when there is no such member.
func unwrapEnvelope(body []byte) (json.RawMessage, error) {
	if !json.Valid(body) {
		return nil, fmt.Errorf("invalid JSON body")
	}
	var env map[string]json.RawMessage
	if err := json.Unmarshal(body, &env); err == nil {
		if data, ok := env["data"]; ok && !isNull(data) {
			return data, nil
		}
	}
	return body, nil
}

// requireDataObject returns the "data" member and fails when it is missing,
// null or not an object.
func requireDataObject(body []byte) (json.RawMessage, error) {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	if isNull(env.Data) {
		return nil, fmt.Errorf("response has no data")
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(env.Data, &obj); err != nil {
		return nil, fmt.Errorf("data is not an object")
	}
	return env.Data, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

type rawCore struct {
	FullName        string          `json:"full_name"`
	FirstName       string          `json:"first_name"`
	LastName        string          `json:"last_name"`
	Company         string          `json:"company"`
	CompanyIndustry string          `json:"company_industry"`
	Email           string          `json:"email"`
	JobTitle        string          `json:"job_title"`
	Location        string          `json:"location"`
	Headline        string          `json:"headline"`
	Data            json.RawMessage `json:"data"`
	About           string          `json:"about"`
}

func extractCore(data json.RawMessage) (*Slice, error) {
	var raw rawCore
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("core profile: %w", err)
	}

	c := &CoreFields{
		FullName: raw.FullName,
		Company:  orDefault(raw.Company, "your company"),
		Industry: orDefault(raw.CompanyIndustry, "your industry"),
		Title:    raw.JobTitle,
		Email:    raw.Email,
		Location: raw.Location,
		Headline: raw.Headline,
		Extract:  raw.About,
	}
	if c.FullName == "" {
		c.FullName = strings.TrimSpace(raw.FirstName + " " + raw.LastName)
	}
	c.FullName = orDefault(c.FullName, "there")

	var text string
	if json.Unmarshal(raw.Data, &text) == nil && text != "" {
		c.Extract = text
	}
	return &Slice{Kind: KindCore, Core: c}, nil
}

type rawExtra struct {
	Certifications []json.RawMessage `json:"certifications"`
	Honors         []json.RawMessage `json:"honors"`
	Publications   []json.RawMessage `json:"publications"`
}

func extractExtra(data json.RawMessage) (*Slice, error) {
	var raw rawExtra
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("extra profile: %w", err)
	}
	return &Slice{Kind: KindExtra, Extra: &ExtraFields{
		Certifications: nonNil(raw.Certifications),
		Awards:         nonNil(raw.Honors),
		Publications:   nonNil(raw.Publications),
	}}, nil
}

func extractRecommendations(kind Kind) func(json.RawMessage) (*Slice, error) {
	return func(data json.RawMessage) (*Slice, error) {
		var recs []json.RawMessage
		if err := json.Unmarshal(data, &recs); err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		return &Slice{Kind: kind, Recommendations: nonNil(recs)}, nil
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func nonNil(v []json.RawMessage) []json.RawMessage {
	if v == nil {
		return []json.RawMessage{}
	}
	return v
}
