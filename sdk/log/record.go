// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package log // import "go.opentelemetry.io/collector/pipelinesdk/sdk/log"

import (
	"time"

	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/otel/attribute"

	"go.opentelemetry.io/collector/pipelinesdk/instrumentation"
	"go.opentelemetry.io/collector/pipelinesdk/resource"
)

// Record is a log entry as emitted by instrumentation.
type Record struct {
	// Timestamp is when the event occurred. It may be left zero.
	Timestamp time.Time
	// ObservedTimestamp defaults to the emit time.
	ObservedTimestamp time.Time
	Severity          Severity
	// SeverityText defaults to the name of Severity.
	SeverityText string
	Body         attribute.Value
	Attributes   []attribute.KeyValue
}

// RecordData is an emitted record as handed to processors.
type RecordData struct {
	Resource *resource.Resource
	Scope    instrumentation.Scope
	Record

	TraceID pcommon.TraceID
	SpanID  pcommon.SpanID
	// Sampled is the sampled flag of the span the record was emitted in.
	Sampled bool
}
