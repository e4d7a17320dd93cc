// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package propagation carries span contexts across process boundaries in the
// W3C Trace Context format.
package propagation // import "go.opentelemetry.io/collector/pipelinesdk/propagation"

import (
	"context"
	"net/http"

	"go.opentelemetry.io/collector/pdata/pcommon"
	otelpropagation "go.opentelemetry.io/otel/propagation"
	oteltrace "go.opentelemetry.io/otel/trace"

	"go.opentelemetry.io/collector/pipelinesdk/sdk/trace"
)

// TextMapCarrier is the storage medium of the propagated key/value pairs.
type TextMapCarrier = otelpropagation.TextMapCarrier

// HeaderCarrier adapts http.Header to TextMapCarrier.
type HeaderCarrier = otelpropagation.HeaderCarrier

var w3c = otelpropagation.TraceContext{}

// Fields returns the keys Inject writes.
func Fields() []string {
	return w3c.Fields()
}

// Extract reads traceparent and tracestate from carrier. When they hold a
// valid span context it is stored in the returned context as the remote
// parent of spans started from it. Otherwise ctx is returned unchanged.
func Extract(ctx context.Context, carrier TextMapCarrier) context.Context {
	remote := oteltrace.SpanContextFromContext(w3c.Extract(context.Background(), carrier))
	if !remote.IsValid() {
		return ctx
	}
	return trace.ContextWithRemoteSpanContext(ctx, trace.SpanContext{
		TraceID:    pcommon.TraceID(remote.TraceID()),
		SpanID:     pcommon.SpanID(remote.SpanID()),
		Sampled:    remote.IsSampled(),
		Remote:     true,
		TraceState: remote.TraceState().String(),
	})
}

// Inject writes the span context of the span in ctx to carrier. Nothing is
// written when ctx holds no valid span context.
func Inject(ctx context.Context, carrier TextMapCarrier) {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return
	}
	cfg := oteltrace.SpanContextConfig{
		TraceID: oteltrace.TraceID(sc.TraceID),
		SpanID:  oteltrace.SpanID(sc.SpanID),
		Remote:  sc.Remote,
	}
	if sc.Sampled {
		cfg.TraceFlags = oteltrace.FlagsSampled
	}
	if ts, err := oteltrace.ParseTraceState(sc.TraceState); err == nil {
		cfg.TraceState = ts
	}
	w3c.Inject(oteltrace.ContextWithSpanContext(context.Background(), oteltrace.NewSpanContext(cfg)), carrier)
}

// ExtractHTTP is Extract over request headers.
func ExtractHTTP(ctx context.Context, h http.Header) context.Context {
	return Extract(ctx, HeaderCarrier(h))
}

// InjectHTTP is Inject into request headers.
func InjectHTTP(ctx context.Context, h http.Header) {
	Inject(ctx, HeaderCarrier(h))
}
