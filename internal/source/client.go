// Package source implements the data-source collaborators that supply
// raw CSV text to the engine.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/mverdeja/footfall/internal/common"
	"github.com/mverdeja/footfall/internal/service"
)

// EndpointSource fetches the transaction CSV from an HTTP endpoint,
// optionally authenticating with a bearer token.
type EndpointSource struct {
	httpClient *http.Client
	url        string
	token      string
}

// NewEndpointSource creates a source for the given URL. An empty token
// skips the Authorization header.
func NewEndpointSource(url, token string) *EndpointSource {
	return &EndpointSource{
		url:   url,
		token: token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchCSV downloads the CSV text, retrying transient failures.
func (s *EndpointSource) FetchCSV(ctx context.Context) (string, error) {
	var text string

	err := common.WithRetry(ctx, func() error {
		var fetchErr error
		text, fetchErr = s.fetch(ctx)
		return fetchErr
	}, service.RetryOptions{MaxAttempts: 3})
	if err != nil {
		return "", err
	}

	return text, nil
}

func (s *EndpointSource) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", &common.RetryableError{
			Err:       fmt.Errorf("failed to create request: %w", err),
			Retryable: false,
		}
	}
	req.Header.Set("Accept", "text/csv")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrSourceUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("%w: endpoint returned %d", common.ErrSourceUnavailable, resp.StatusCode)
		// Client errors will not fix themselves; only retry server
		// failures.
		return "", &common.RetryableError{
			Err:       err,
			Retryable: resp.StatusCode >= http.StatusInternalServerError,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", common.ErrSourceUnavailable, err)
	}

	return string(body), nil
}

// FileSource reads the transaction CSV from a local file.
type FileSource struct {
	path string
}

// NewFileSource creates a source for the given path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// FetchCSV reads the file contents.
func (s *FileSource) FetchCSV(_ context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrSourceUnavailable, err)
	}
	return string(data), nil
}
