package profile

import (
	"context"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// CredentialRouter issues a profile API request with the primary key and
// repeats it once with the fallback key when the provider rejects the
// primary with 403 or 429.
type CredentialRouter struct {
	PrimaryKey  string
	FallbackKey string
	Logger      *zap.Logger
}

// Do runs issue with the primary key. A transport error from the first
// attempt is returned as is; only a 403/429 status triggers the fallback.
func (r *CredentialRouter) Do(ctx context.Context, endpoint string, issue func(ctx context.Context, key string) (*http.Response, error)) (*http.Response, error) {
	resp, err := issue(ctx, r.PrimaryKey)
	if err != nil {
		return nil, err
	}
	if !shouldFallback(resp.StatusCode) || r.FallbackKey == "" {
		return resp, nil
	}

	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	r.logger().Warn("primary profile API key rejected, retrying with fallback key",
		zap.Int("status", resp.StatusCode),
		zap.String("endpoint", endpoint),
	)
	return issue(ctx, r.FallbackKey)
}

func (r *CredentialRouter) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

func shouldFallback(status int) bool {
	return status == http.StatusForbidden || status == http.StatusTooManyRequests
}
