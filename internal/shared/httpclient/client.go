// Package httpclient builds the *http.Client every provider adapter uses.
// Requests answered with 429 or 5xx, or failing in transit, are retried with
// exponential backoff before the adapter sees the result.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

// DefaultTimeout matches the per-request budget of the provider adapters.
const DefaultTimeout = 60 * time.Second

// Config controls the retry policy.
type Config struct {
	Timeout         time.Duration
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration

	// PublicOnly refuses connections to non-public addresses. Set it on
	// clients that fetch URLs supplied by callers.
	PublicOnly bool
}

// New returns an *http.Client whose transport retries transient failures.
func New(cfg Config) *http.Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	var base http.RoundTripper = http.DefaultTransport
	if cfg.PublicOnly {
		base = publicTransport()
	}
	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: NewTransport(base, cfg),
	}
}

// Transport is an http.RoundTripper that retries transient failures.
type Transport struct {
	base            http.RoundTripper
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
}

// NewTransport wraps base with the retry policy from cfg.
func NewTransport(base http.RoundTripper, cfg Config) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = 500 * time.Millisecond
	}
	if cfg.MaxInterval <= 0 {
		cfg.MaxInterval = 5 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Transport{
		base:            base,
		maxRetries:      cfg.MaxRetries,
		initialInterval: cfg.InitialInterval,
		maxInterval:     cfg.MaxInterval,
	}
}

var errRetryableStatus = errors.New("retryable status")

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.maxRetries == 0 {
		return t.base.RoundTrip(req)
	}
	if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		// body cannot be replayed
		return t.base.RoundTrip(req)
	}

	attempt := 0
	operation := func() (*http.Response, error) {
		attempt++
		r, err := cloneRequest(req)
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		resp, err := t.base.RoundTrip(r)
		if err != nil {
			if req.Context().Err() != nil || errors.Is(err, ErrBlockedAddress) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}

		if retryableStatus(resp.StatusCode) && attempt <= t.maxRetries {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil, fmt.Errorf("%w: %d", errRetryableStatus, resp.StatusCode)
		}

		return resp, nil
	}

	notify := func(err error, wait time.Duration) {
		log.Warn().
			Err(err).
			Str("url", req.URL.Redacted()).
			Int("attempt", attempt).
			Dur("wait", wait).
			Msg("retrying provider request")
	}

	return backoff.RetryNotifyWithData(operation, t.policy(req.Context()), notify)
}

func (t *Transport) policy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = t.initialInterval
	b.MaxInterval = t.maxInterval
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(t.maxRetries)), ctx)
}

func cloneRequest(req *http.Request) (*http.Request, error) {
	r := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("failed to rewind request body: %w", err)
		}
		r.Body = body
	}
	return r, nil
}

func retryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}
