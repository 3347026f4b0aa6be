package controller_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/unclebandit/coldreach-backend/internal/controller"
	"github.com/unclebandit/coldreach-backend/internal/generator"
)

func TestCoreProfile(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		status   int
		wantCode int
		wantBody string
	}{
		{"success passes body through", `{"data":{"full_name":"Ada"}}`, 200, 200, `{"data":{"full_name":"Ada"}}`},
		{"upstream error mirrors status", `quota`, 429, 429, `{"error":"LinkedIn fetch failed"}`},
		{"transport failure", ``, 0, 500, `{"error":"Internal server error"}`},
		{"undecodable success", `<html>`, 200, 500, `{"error":"Internal server error"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &stubRetriever{body: tt.body, status: tt.status}
			ctrl := &controller.ProfileController{Core: src}

			req := httptest.NewRequest(http.MethodPost, "/api/linkedin-scraper",
				strings.NewReader(`{"linkedinUrl":" https://linkedin.com/in/ada "}`))
			w := httptest.NewRecorder()
			ctrl.CoreProfile(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			assert.Equal(t, "https://linkedin.com/in/ada", src.got)
		})
	}
}

func TestWrappedProfileEndpoints(t *testing.T) {
	src := &stubRetriever{body: `{"data":[{"text":"great"}]}`, status: 200}
	ctrl := &controller.ProfileController{Extra: src, RecommendationsGiven: src, RecommendationsReceived: src}

	handlers := map[string]http.HandlerFunc{
		"extra":    ctrl.ExtraProfile,
		"given":    ctrl.RecommendationsGivenProfile,
		"received": ctrl.RecommendationsReceivedProfile,
	}
	for name, h := range handlers {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"linkedinUrl":"u"}`)))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"data":{"data":[{"text":"great"}]}}`, w.Body.String())
		})
	}
}

func TestWrappedProfile_UpstreamErrorText(t *testing.T) {
	ctrl := &controller.ProfileController{Extra: &stubRetriever{body: "You are not subscribed", status: 403}}

	w := httptest.NewRecorder()
	ctrl.ExtraProfile(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"linkedinUrl":"u"}`)))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"You are not subscribed"}`, w.Body.String())
}

func TestProfile_MissingURL(t *testing.T) {
	ctrl := &controller.ProfileController{Core: &stubRetriever{}}

	w := httptest.NewRecorder()
	ctrl.CoreProfile(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"linkedinUrl":""}`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateMessage(t *testing.T) {
	body := `{"profile":{"full_name":"Ada"},"motive":"hire"}`

	t.Run("success", func(t *testing.T) {
		ctrl := &controller.ProfileController{Generator: &stubGenerator{msg: "Hi Ada"}}
		w := httptest.NewRecorder()
		ctrl.GenerateMessage(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"Hi Ada"}`, w.Body.String())
	})

	t.Run("failure returns placeholder", func(t *testing.T) {
		ctrl := &controller.ProfileController{Generator: &stubGenerator{msg: generator.Placeholder, err: errors.New("quota")}}
		w := httptest.NewRecorder()
		ctrl.GenerateMessage(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), generator.Placeholder)
	})

	t.Run("missing profile", func(t *testing.T) {
		ctrl := &controller.ProfileController{Generator: &stubGenerator{}}
		w := httptest.NewRecorder()
		ctrl.GenerateMessage(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"motive":"x"}`)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
