// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package trace // import "go.opentelemetry.io/collector/pipelinesdk/sdk/trace"

import (
	"context"

	"go.opentelemetry.io/collector/pdata/pcommon"
)

// SpanContext identifies a span and carries the state propagated to its
// children.
type SpanContext struct {
	TraceID pcommon.TraceID
	SpanID  pcommon.SpanID
	// Sampled is the head sampling decision of the trace.
	Sampled bool
	// Remote is set when the context was extracted from an incoming request.
	Remote bool
	// TraceState is the opaque W3C tracestate header value.
	TraceState string
}

// IsValid reports whether both ids are set.
func (sc SpanContext) IsValid() bool {
	return !sc.TraceID.IsEmpty() && !sc.SpanID.IsEmpty()
}

type spanContextKey struct{}

// ContextWithSpan returns a copy of ctx holding span as the current span.
func ContextWithSpan(ctx context.Context, span Span) context.Context {
	return context.WithValue(ctx, spanContextKey{}, span)
}

// ContextWithRemoteSpanContext returns a copy of ctx whose current span is a
// non-recording span for the remote parent sc.
func ContextWithRemoteSpanContext(ctx context.Context, sc SpanContext) context.Context {
	sc.Remote = true
	return ContextWithSpan(ctx, nonRecordingSpan{sc: sc})
}

// SpanFromContext returns the current span of ctx, or a non-recording span
// with an invalid SpanContext if there is none.
func SpanFromContext(ctx context.Context) Span {
	if ctx != nil {
		if span, ok := ctx.Value(spanContextKey{}).(Span); ok {
			return span
		}
	}
	return nonRecordingSpan{}
}

// SpanContextFromContext returns the SpanContext of the current span of ctx.
func SpanContextFromContext(ctx context.Context) SpanContext {
	return SpanFromContext(ctx).SpanContext()
}
