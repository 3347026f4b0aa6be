package profile

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	status map[string]int
	body   map[string]string
	got    map[string]*http.Request
}

func newFakeAPI(t *testing.T) (*fakeAPI, *Fetchers) {
	t.Helper()
	api := &fakeAPI{status: map[string]int{}, body: map[string]string{}, got: map[string]*http.Request{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.got[r.URL.Path] = r
		status := api.status[r.URL.Path]
		if status == 0 {
			status = http.StatusOK
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(api.body[r.URL.Path]))
	}))
	t.Cleanup(srv.Close)

	c := &Client{
		BaseURL: srv.URL,
		Host:    "fresh-linkedin-profile-data.p.rapidapi.com",
		HTTP:    srv.Client(),
		Router:  &CredentialRouter{PrimaryKey: "k1"},
	}
	return api, NewFetchers(c)
}

func TestCoreFetcher_RequestShape(t *testing.T) {
	api, f := newFakeAPI(t)
	api.body["/get-linkedin-profile"] = `{"data":{"full_name":"Jane Doe"}}`

	s := f.Core.Fetch(context.Background(), "https://www.linkedin.com/in/jane-doe?x=1&y=2")
	require.NotNil(t, s)

	req := api.got["/get-linkedin-profile"]
	require.NotNil(t, req)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "k1", req.Header.Get("x-rapidapi-key"))
	assert.Equal(t, "fresh-linkedin-profile-data.p.rapidapi.com", req.Header.Get("x-rapidapi-host"))

	q := req.URL.Query()
	assert.Equal(t, "https://www.linkedin.com/in/jane-doe?x=1&y=2", q.Get("linkedin_url"))
	for _, flag := range coreFlags {
		assert.Equal(t, "false", q.Get(flag), flag)
	}
}

func TestCoreFetcher_Normalisation(t *testing.T) {
	cases := []struct {
		name string
		body string
		want CoreFields
	}{
		{
			name: "full record",
			body: `{"data":{"full_name":"Jane Doe","company":"Acme","company_industry":"Robotics","job_title":"CTO","email":"jane@acme.io","location":"Berlin","headline":"Builder","data":"About Jane"}}`,
			want: CoreFields{FullName: "Jane Doe", Company: "Acme", Industry: "Robotics", Title: "CTO", Email: "jane@acme.io", Location: "Berlin", Headline: "Builder", Extract: "About Jane"},
		},
		{
			name: "name from parts and defaults",
			body: `{"data":{"first_name":"Jane","last_name":"Doe"}}`,
			want: CoreFields{FullName: "Jane Doe", Company: "your company", Industry: "your industry"},
		},
		{
			name: "no name at all",
			body: `{"data":{}}`,
			want: CoreFields{FullName: "there", Company: "your company", Industry: "your industry"},
		},
		{
			name: "about as extract",
			body: `{"data":{"full_name":"Jane Doe","about":"bio"}}`,
			want: CoreFields{FullName: "Jane Doe", Company: "your company", Industry: "your industry", Extract: "bio"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api, f := newFakeAPI(t)
			api.body["/get-linkedin-profile"] = tc.body

			s := f.Core.Fetch(context.Background(), "https://linkedin.com/in/x")
			require.NotNil(t, s)
			assert.Equal(t, KindCore, s.Kind)
			assert.Equal(t, tc.want, *s.Core)
		})
	}
}

func TestCoreFetcher_NilWithoutData(t *testing.T) {
	bodies := map[string]string{
		"null data":    `{"data":null}`,
		"empty object": `{}`,
		"message only": `{"message":"profile not found"}`,
		"array data":   `{"data":[1,2]}`,
		"string data":  `{"data":"nope"}`,
		"bare array":   `[]`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			api, f := newFakeAPI(t)
			api.body["/get-linkedin-profile"] = body
			assert.Nil(t, f.Core.Fetch(context.Background(), "u"))
		})
	}
}

func TestFetch_NilOnFailure(t *testing.T) {
	api, f := newFakeAPI(t)
	api.status["/get-linkedin-profile"] = http.StatusNotFound
	api.body["/get-linkedin-profile"] = `{"message":"not found"}`
	api.body["/get-extra-profile-data"] = `not json`

	assert.Nil(t, f.Core.Fetch(context.Background(), "u"))
	assert.Nil(t, f.Extra.Fetch(context.Background(), "u"))
}

func TestFetch_TransportError(t *testing.T) {
	c := &Client{BaseURL: "http://127.0.0.1:1", Router: &CredentialRouter{PrimaryKey: "k"}}
	f := NewFetchers(c)

	body, status := f.Core.Retrieve(context.Background(), "u")
	assert.Nil(t, body)
	assert.Zero(t, status)
	assert.Nil(t, f.Core.Fetch(context.Background(), "u"))
}

func TestExtraFetcher_MapsHonorsToAwards(t *testing.T) {
	api, f := newFakeAPI(t)
	api.body["/get-extra-profile-data"] = `{"data":{"certifications":[{"name":"CKA"}],"honors":[{"title":"Top 40"}]}}`

	s := f.Extra.Fetch(context.Background(), "u")
	require.NotNil(t, s)
	assert.Len(t, s.Extra.Certifications, 1)
	assert.JSONEq(t, `{"title":"Top 40"}`, string(s.Extra.Awards[0]))
	assert.NotNil(t, s.Extra.Publications)
	assert.Empty(t, s.Extra.Publications)
}

func TestRecommendationFetchers(t *testing.T) {
	api, f := newFakeAPI(t)
	api.body["/get-recommendations-given"] = `{"data":[{"text":"great"},{"text":"solid"}]}`
	api.body["/get-recommendations-received"] = `{"data":[]}`

	given := f.RecommendationsGiven.Fetch(context.Background(), "u")
	require.NotNil(t, given)
	assert.Len(t, given.Recommendations, 2)

	received := f.RecommendationsReceived.Fetch(context.Background(), "u")
	require.NotNil(t, received)
	assert.NotNil(t, received.Recommendations)
	assert.Empty(t, received.Recommendations)
}

func TestRetrieve_MirrorsStatus(t *testing.T) {
	api, f := newFakeAPI(t)
	api.status["/get-recommendations-given"] = http.StatusTooManyRequests
	api.body["/get-recommendations-given"] = `{"message":"slow down"}`

	body, status := f.RecommendationsGiven.Retrieve(context.Background(), "u")
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.JSONEq(t, `{"message":"slow down"}`, string(body))
}
