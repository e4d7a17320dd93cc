// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package otlphttpexporter // import "go.opentelemetry.io/collector/pipelinesdk/exporter/otlphttpexporter"

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

func newExponentialBackOff(rs RetrySettings) *backoff.ExponentialBackOff {
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = rs.InitialInterval
	expBackoff.MaxInterval = rs.MaxInterval
	expBackoff.MaxElapsedTime = rs.MaxElapsedTime
	expBackoff.Reset()
	return expBackoff
}

// throttledBackOff waits at least as long as the server asked for in its last
// Retry-After header.
type throttledBackOff struct {
	backoff.BackOff
	throttle time.Duration
}

func (b *throttledBackOff) NextBackOff() time.Duration {
	next := b.BackOff.NextBackOff()
	if next == backoff.Stop {
		return next
	}
	if b.throttle > next {
		next = b.throttle
	}
	b.throttle = 0
	return next
}
