// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package otlphttpexporter

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryableStatus(t *testing.T) {
	for code, want := range map[int]bool{
		http.StatusTooManyRequests:     true,
		http.StatusBadGateway:          true,
		http.StatusServiceUnavailable:  true,
		http.StatusGatewayTimeout:      true,
		http.StatusBadRequest:          false,
		http.StatusUnauthorized:        false,
		http.StatusNotFound:            false,
		http.StatusInternalServerError: false,
	} {
		assert.Equal(t, want, (&HTTPError{StatusCode: code}).Retryable(), "status %d", code)
	}
}

func TestNewHTTPError(t *testing.T) {
	header := http.Header{}
	header.Set("Retry-After", "3")
	err := newHTTPError(&Response{
		StatusCode: http.StatusServiceUnavailable,
		Header:     header,
		Body:       []byte("overloaded\nsecond line"),
	})
	assert.Equal(t, 3*time.Second, err.RetryAfter)
	assert.Equal(t, "server returned HTTP status Service Unavailable (503): overloaded", err.Error())

	err = newHTTPError(&Response{StatusCode: http.StatusNotFound})
	assert.Equal(t, "server returned HTTP status Not Found (404)", err.Error())
}

func TestParseRetryAfter(t *testing.T) {
	assert.Zero(t, parseRetryAfter(""))
	assert.Zero(t, parseRetryAfter("-1"))
	assert.Zero(t, parseRetryAfter("soon"))
	assert.Equal(t, 2*time.Second, parseRetryAfter("2"))

	d := parseRetryAfter(time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
	assert.Greater(t, d, 59*time.Minute)
	assert.Zero(t, parseRetryAfter(time.Now().Add(-time.Hour).UTC().Format(http.TimeFormat)))
}
