// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-08-19
// Last Modified: 2026-08-23

package github

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net"
	"net/http"
	"syscall"
	"time"
)

// RetryConfig holds configuration for exponential backoff retry of
// transient API failures.
type RetryConfig struct {
	MaxAttempts int           // Total attempts including the first (default: 5)
	BaseDelay   time.Duration // Initial delay before the first retry (default: 1s)
	MaxDelay    time.Duration // Maximum delay cap (default: 30s)
	JitterRatio float64       // Jitter as fraction of delay, 0.0-1.0 (default: 0.25)
}

// DefaultRetryConfig returns sensible defaults for GitHub API retries.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 5,
		BaseDelay:   1 * time.Second,
		MaxDelay:    30 * time.Second,
		JitterRatio: 0.25,
	}
}

// isRetryableError reports whether err is a transport-level failure worth
// retrying: connection resets, truncated responses, and other temporary
// network conditions. HTTP-level decisions (502) are made on the response,
// not here.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// retryTransport retries requests that fail with a transient transport
// error or a 502 Bad Gateway response. It sits below the cache so that
// conditional requests are retried like any other.
type retryTransport struct {
	next http.RoundTripper
	cfg  RetryConfig
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt < t.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := t.rewind(req); err != nil {
				return nil, err
			}
			select {
			case <-req.Context().Done():
				return nil, req.Context().Err()
			case <-time.After(t.delay(attempt - 1)):
			}
		}

		resp, err := t.next.RoundTrip(req)
		if err != nil {
			if !isRetryableError(err) {
				return nil, err
			}
			lastErr = err
			continue
		}
		if resp.StatusCode == http.StatusBadGateway && attempt < t.cfg.MaxAttempts-1 {
			// Drain so the connection can be reused.
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			lastErr = errors.New("bad gateway")
			continue
		}
		return resp, nil
	}

	return nil, &retryError{attempts: t.cfg.MaxAttempts, last: lastErr}
}

// rewind restores the request body before a retry.
func (t *retryTransport) rewind(req *http.Request) error {
	if req.Body == nil || req.GetBody == nil {
		return nil
	}
	body, err := req.GetBody()
	if err != nil {
		return err
	}
	req.Body = body
	return nil
}

// delay computes the backoff for a completed attempt: base * 2^attempt plus
// jitter, capped at MaxDelay.
func (t *retryTransport) delay(attempt int) time.Duration {
	delay := time.Duration(float64(t.cfg.BaseDelay) * math.Pow(2, float64(attempt)))
	if t.cfg.JitterRatio > 0 {
		delay += time.Duration(rand.Float64() * t.cfg.JitterRatio * float64(delay))
	}
	if delay > t.cfg.MaxDelay {
		delay = t.cfg.MaxDelay
	}
	return delay
}

type retryError struct {
	attempts int
	last     error
}

func (e *retryError) Error() string {
	if e.last != nil {
		return fmt.Sprintf("repeated failure talking to the GitHub API after %d attempts, giving up: %v", e.attempts, e.last)
	}
	return "repeated failure talking to the GitHub API, giving up"
}

func (e *retryError) Unwrap() error { return e.last }
