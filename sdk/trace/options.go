// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package trace // import "go.opentelemetry.io/collector/pipelinesdk/sdk/trace"

import (
	"time"

	"go.opentelemetry.io/collector/pdata/ptrace"
	"go.opentelemetry.io/otel/attribute"
)

type spanConfig struct {
	kind       ptrace.SpanKind
	attributes []attribute.KeyValue
	timestamp  time.Time
	newRoot    bool
}

// SpanStartOption configures a span at start.
type SpanStartOption func(*spanConfig)

// WithSpanKind sets the span kind. The default is internal.
func WithSpanKind(kind ptrace.SpanKind) SpanStartOption {
	return func(c *spanConfig) { c.kind = kind }
}

// WithAttributes adds attributes to the span. They are visible to the sampler.
func WithAttributes(attrs ...attribute.KeyValue) SpanStartOption {
	return func(c *spanConfig) { c.attributes = append(c.attributes, attrs...) }
}

// WithTimestamp overrides the start time.
func WithTimestamp(t time.Time) SpanStartOption {
	return func(c *spanConfig) { c.timestamp = t }
}

// WithNewRoot ignores any parent in the context and starts a new trace.
func WithNewRoot() SpanStartOption {
	return func(c *spanConfig) { c.newRoot = true }
}

// SpanEndOption configures a span at end.
type SpanEndOption func(*endConfig)

type endConfig struct {
	timestamp time.Time
}

// WithEndTimestamp overrides the end time.
func WithEndTimestamp(t time.Time) SpanEndOption {
	return func(c *endConfig) { c.timestamp = t }
}
