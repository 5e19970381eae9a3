package providers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-widget/internal/logger"
	"github.com/i474232898/weather-widget/internal/metrics"
	"github.com/i474232898/weather-widget/internal/weather"
)

// BackoffConfig controls exponential backoff behaviour.
// MaxRetries of zero means a failed call is not re-attempted.
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
	errRateLimited   = errors.New("rate limited")
	errServerError   = errors.New("server error")
	errUnexpected    = errors.New("unexpected status code")
	errCircuitOpen   = errors.New("circuit breaker open")
	errNoHTTPClient  = errors.New("http client not configured")
	errInvalidConfig = errors.New("invalid backoff configuration")
)

func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// doRequestWithResilience executes the HTTP request through the circuit breaker,
// retrying transport errors, 429s and 5xx with exponential backoff.
//
// Client errors (4xx other than 429) are not retried and do not count against
// the breaker: a 404 becomes weather.ErrNotFound. Every other failure wraps
// weather.ErrUnavailable. On success the caller owns the response body.
func doRequestWithResilience(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	endpoint string,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}
	if cfg.Backoff.MaxRetries < 0 || cfg.Backoff.InitialInterval <= 0 {
		return nil, errInvalidConfig
	}

	start := time.Now()
	metrics.UpstreamRequestsTotal.WithLabelValues(endpoint).Inc()
	defer func() {
		metrics.UpstreamDurationMs.WithLabelValues(endpoint).Observe(float64(time.Since(start).Milliseconds()))
	}()

	resp, err := retry(ctx, cfg, cb, endpoint, buildRequest)
	if err != nil {
		metrics.UpstreamFailTotal.WithLabelValues(endpoint).Inc()
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		metrics.UpstreamFailTotal.WithLabelValues(endpoint).Inc()
		if resp.StatusCode == http.StatusNotFound {
			return nil, weather.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %w: %d", weather.ErrUnavailable, errUnexpected, resp.StatusCode)
	}
	return resp, nil
}

func retry(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	endpoint string,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	var attempt int

	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := buildRequest()
		if err != nil {
			return nil, err
		}
		req = req.WithContext(ctx)

		result, err := cb.Execute(func() (interface{}, error) {
			resp, execErr := cfg.Client.Do(req)
			if execErr != nil {
				return nil, execErr
			}

			if resp.StatusCode == http.StatusTooManyRequests {
				resp.Body.Close()
				return nil, errRateLimited
			}
			if resp.StatusCode >= 500 {
				resp.Body.Close()
				return nil, fmt.Errorf("%w: %d", errServerError, resp.StatusCode)
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

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %w: %v", weather.ErrUnavailable, errCircuitOpen, err)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt >= cfg.Backoff.MaxRetries {
			return nil, fmt.Errorf("%w: %w", weather.ErrUnavailable, err)
		}

		delay := cfg.Backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if delay > cfg.Backoff.MaxInterval && cfg.Backoff.MaxInterval > 0 {
			delay = cfg.Backoff.MaxInterval
		}
		logger.L().Debug("upstream_retry", "endpoint", endpoint, "attempt", attempt+1, "delay", delay, "err", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		attempt++
	}
}
