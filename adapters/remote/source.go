package remote

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"bellybutton/domain/dataset"
	"bellybutton/internal/errors"
)

// Source fetches the dataset document over HTTP
type Source struct {
	url        string
	maxBytes   int64
	httpClient *http.Client
}

// NewSource creates a remote source for url. Requests time out after
// timeout and bodies larger than maxBytes are rejected.
func NewSource(url string, timeout time.Duration, maxBytes int64) *Source {
	return &Source{
		url:      url,
		maxBytes: maxBytes,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch retrieves and decodes the dataset
func (s *Source) Fetch(ctx context.Context) (*dataset.Dataset, error) {
	startTime := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, errors.InvalidInput("failed to build request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "bellybutton-dashboard/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.ExternalServiceError("dataset", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.ExternalServiceError("dataset",
			fmt.Errorf("GET %s returned status %d: %s", s.url, resp.StatusCode, string(snippet)))
	}

	// read one byte past the limit so an oversized body is detected
	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, errors.ExternalServiceError("dataset", fmt.Errorf("failed to read response: %w", err))
	}
	if int64(len(body)) > s.maxBytes {
		return nil, errors.InvalidInput(fmt.Sprintf("dataset exceeds %d bytes", s.maxBytes), nil)
	}

	ds, err := dataset.Decode(body)
	if err != nil {
		return nil, errors.InvalidInput("failed to decode dataset", err)
	}

	log.Printf("[RemoteSource] Fetched %d bytes from %s in %v", len(body), s.url, time.Since(startTime).Round(time.Millisecond))
	return ds, nil
}

// Describe returns the URL the source reads from
func (s *Source) Describe() string {
	return s.url
}
