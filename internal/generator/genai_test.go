package generator

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/coldreach-backend/internal/errors"
)

func TestGenAIBackend_GenerateText(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Hello Jane"}]}}]}`))
	}))
	defer srv.Close()

	b, err := NewGenAIBackend(context.Background(), "test-key", "", srv.URL)
	require.NoError(t, err)

	text, err := b.GenerateText(context.Background(), "write something")
	require.NoError(t, err)
	assert.Equal(t, "Hello Jane", text)
	assert.True(t, strings.HasSuffix(gotPath, "models/gemini-2.5-flash:generateContent"), gotPath)
	assert.Contains(t, gotBody, "write something")
}

func TestGenAIBackend_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`))
	}))
	defer srv.Close()

	b, err := NewGenAIBackend(context.Background(), "bad-key", "gemini-2.5-flash", srv.URL)
	require.NoError(t, err)

	_, err = b.GenerateText(context.Background(), "p")
	var upstream *appErrors.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "genai", upstream.Service)
	assert.Equal(t, http.StatusBadRequest, upstream.Status)

	msg, err := New(b, nil).Generate(context.Background(), jane(), "m")
	require.Error(t, err)
	assert.Equal(t, Placeholder, msg)
}

func TestNewGenAIBackend_RequiresKey(t *testing.T) {
	_, err := NewGenAIBackend(context.Background(), "", "", "")
	require.Error(t, err)
}
