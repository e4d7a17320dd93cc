// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package otlphttpexporter // import "go.opentelemetry.io/collector/pipelinesdk/exporter/otlphttpexporter"

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrShutdown is returned by Export after Shutdown was called.
var ErrShutdown = errors.New("otlphttp exporter is shut down")

// HTTPError is returned when the server answered with a non-2xx status.
type HTTPError struct {
	StatusCode int
	Status     string
	// Message is the first line of the response body, truncated.
	Message string
	// RetryAfter is the server-requested delay, zero if none was given.
	RetryAfter time.Duration
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned HTTP status %s (%d)", e.Status, e.StatusCode)
	}
	return fmt.Sprintf("server returned HTTP status %s (%d): %s", e.Status, e.StatusCode, e.Message)
}

// Retryable reports whether resending the same request may succeed.
func (e *HTTPError) Retryable() bool {
	return isRetryableStatus(e.StatusCode)
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func newHTTPError(resp *Response) *HTTPError {
	return &HTTPError{
		StatusCode: resp.StatusCode,
		Status:     http.StatusText(resp.StatusCode),
		Message:    errorMessage(resp.Body),
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
	}
}

// parseRetryAfter accepts either delay-seconds or an HTTP date.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
