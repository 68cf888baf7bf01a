package source

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pact-foundation/pact-stub-server/internal/pact"
)

func newHTTPClient(insecureTLS bool, logger *zap.Logger) *http.Client {
	if !insecureTLS {
		return &http.Client{Timeout: 30 * time.Second}
	}
	logger.Warn("disabling TLS certificate validation for outbound pact fetches")
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // explicit --insecure-tls opt-in
		},
	}
}

func fetchURL(ctx context.Context, client *http.Client, url string, auth *pact.Auth) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if auth != nil {
		req.Header.Set("Authorization", auth.Header())
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errorf("request failed with status %d", resp.StatusCode)
	}
	return body, nil
}

func loadURL(ctx context.Context, client *http.Client, url string, auth *pact.Auth) Result {
	body, err := fetchURL(ctx, client, url, auth)
	if err != nil {
		return Result{Err: errorf("failed to load pact '%s' - %s", url, err)}
	}
	p, err := pact.Parse(body)
	if err != nil {
		return Result{Err: errorf("failed to parse pact '%s' - %s", url, err)}
	}
	return Result{Pact: p, Source: pact.URLSource(url, auth)}
}
