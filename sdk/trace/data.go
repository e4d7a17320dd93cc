// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package trace // import "go.opentelemetry.io/collector/pipelinesdk/sdk/trace"

import (
	"time"

	"go.opentelemetry.io/collector/pdata/ptrace"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"go.opentelemetry.io/collector/pipelinesdk/instrumentation"
	"go.opentelemetry.io/collector/pipelinesdk/resource"
)

// SpanData is the immutable snapshot of an ended span handed to processors.
type SpanData struct {
	// Resource is shared by every span of a Provider.
	Resource *resource.Resource
	Scope    instrumentation.Scope

	SpanContext SpanContext
	// Parent is invalid for trace roots.
	Parent SpanContext

	Name       string
	Kind       ptrace.SpanKind
	StartTime  time.Time
	EndTime    time.Time
	Attributes []attribute.KeyValue
	Events     []Event
	Status     Status

	// DroppedAttributes and DroppedEvents count what SpanLimits discarded.
	DroppedAttributes int
	DroppedEvents     int
}

// Event is a timestamped annotation of a span.
type Event struct {
	Name       string
	Time       time.Time
	Attributes []attribute.KeyValue
}

// Status is the outcome of the operation a span describes.
type Status struct {
	Code        codes.Code
	Description string
}
