package source

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/pkordes/racelog/internal/domain"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultRetries   = 3
	defaultBaseDelay = 500 * time.Millisecond
)

// HTTPSource downloads a CSV export, such as a published Google Sheet.
// Transport errors and 5xx responses are retried with exponential backoff;
// other non-2xx responses fail at once.
type HTTPSource struct {
	url       string
	client    *http.Client
	retries   uint64
	baseDelay time.Duration
}

// HTTPOption configures an HTTPSource.
type HTTPOption func(*HTTPSource)

// WithTimeout bounds each attempt. Zero keeps the default of 15s.
func WithTimeout(d time.Duration) HTTPOption {
	return func(s *HTTPSource) {
		if d > 0 {
			s.client.Timeout = d
		}
	}
}

// WithRetries sets the number of retries after the first attempt.
func WithRetries(n uint64) HTTPOption {
	return func(s *HTTPSource) { s.retries = n }
}

// WithBaseDelay sets the first backoff delay; it doubles on every retry.
func WithBaseDelay(d time.Duration) HTTPOption {
	return func(s *HTTPSource) {
		if d > 0 {
			s.baseDelay = d
		}
	}
}

// WithHTTPClient replaces the client. Its Timeout is kept as is.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPSource) { s.client = c }
}

// NewHTTPSource returns a source reading the CSV at url.
func NewHTTPSource(url string, opts ...HTTPOption) *HTTPSource {
	s := &HTTPSource{
		url:       url,
		client:    &http.Client{Timeout: defaultTimeout},
		retries:   defaultRetries,
		baseDelay: defaultBaseDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *HTTPSource) Name() string { return "http" }

// Fetch downloads and parses the CSV.
func (s *HTTPSource) Fetch(ctx context.Context) (Table, error) {
	backoff := retry.WithMaxRetries(s.retries, retry.NewExponential(s.baseDelay))

	var table Table
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		t, err := s.fetchOnce(ctx)
		if err != nil {
			return err
		}
		table = t
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("source.HTTPSource.Fetch: %w: %w", domain.ErrSourceUnavailable, err)
	}
	return table, nil
}

// fetchOnce performs one attempt. Errors worth retrying are wrapped with
// retry.RetryableError.
func (s *HTTPSource) fetchOnce(ctx context.Context) (Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, retry.RetryableError(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return nil, retry.RetryableError(fmt.Errorf("unexpected status %d", resp.StatusCode))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	t, err := readCSV(resp.Body)
	if err != nil {
		return nil, err
	}
	return t, nil
}
