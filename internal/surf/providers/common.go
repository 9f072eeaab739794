package providers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/wavewatch/surfcast/internal/surf"
)

// BackoffConfig controls exponential backoff behaviour.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// HTTPClientConfig bundles HTTP client and resilience settings.
type HTTPClientConfig struct {
	Client  *http.Client
	Backoff BackoffConfig
}

var (
	errCircuitOpen   = errors.New("circuit breaker open")
	errNoHTTPClient  = errors.New("http client not configured")
	errInvalidConfig = errors.New("invalid backoff configuration")
)

func defaultBackoff() BackoffConfig {
	return BackoffConfig{
		MaxRetries:      3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	}
}

// rateLimitedError carries the provider-indicated retry delay, if any.
type rateLimitedError struct {
	retryAfter time.Duration
}

func (e *rateLimitedError) Error() string { return "rate limited" }
func (e *rateLimitedError) Unwrap() error { return surf.ErrUpstreamRateLimited }

// doRequestWithResilience executes the HTTP request with bounded retries,
// exponential backoff, and a circuit breaker. Rate-limit responses honor the
// provider's Retry-After when it fits under MaxInterval. On exhaustion the
// last error is returned wrapping the upstream taxonomy, so callers can
// errors.Is against surf.ErrUpstreamUnavailable / ErrUpstreamRateLimited.
func doRequestWithResilience(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}
	if cfg.Backoff.MaxRetries < 0 || cfg.Backoff.InitialInterval <= 0 {
		return nil, errInvalidConfig
	}

	var attempt int
	var lastErr error

	for {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", surf.ErrUpstreamUnavailable, ctx.Err())
		}

		req, err := buildRequest()
		if err != nil {
			return nil, err
		}
		req = req.WithContext(ctx)

		result, err := cb.Execute(func() (interface{}, error) {
			resp, execErr := cfg.Client.Do(req)
			if execErr != nil {
				return nil, fmt.Errorf("%w: %v", surf.ErrUpstreamUnavailable, execErr)
			}

			switch {
			case resp.StatusCode == http.StatusTooManyRequests ||
				resp.StatusCode == http.StatusPaymentRequired:
				retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
				resp.Body.Close()
				return nil, &rateLimitedError{retryAfter: retryAfter}
			case resp.StatusCode >= 500:
				resp.Body.Close()
				return nil, fmt.Errorf("%w: status %d", surf.ErrUpstreamUnavailable, resp.StatusCode)
			case resp.StatusCode < 200 || resp.StatusCode >= 300:
				resp.Body.Close()
				return nil, fmt.Errorf("%w: unexpected status %d", surf.ErrUpstreamUnavailable, resp.StatusCode)
			}
			return resp, nil
		})

		if err == nil {
			resp, ok := result.(*http.Response)
			if !ok {
				return nil, fmt.Errorf("unexpected result type from circuit breaker")
			}
			return resp, nil
		}

		// An open circuit means recent calls keep failing; don't pile on.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v: %v", surf.ErrUpstreamUnavailable, errCircuitOpen, err)
		}

		lastErr = err
		if attempt >= cfg.Backoff.MaxRetries {
			return nil, lastErr
		}

		delay := cfg.Backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if cfg.Backoff.MaxInterval > 0 && delay > cfg.Backoff.MaxInterval {
			delay = cfg.Backoff.MaxInterval
		}
		var rle *rateLimitedError
		if errors.As(err, &rle) && rle.retryAfter > delay && rle.retryAfter <= cfg.Backoff.MaxInterval {
			delay = rle.retryAfter
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", surf.ErrUpstreamUnavailable, ctx.Err())
		case <-time.After(delay):
		}
		attempt++
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if secs, err := strconv.Atoi(header); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}
