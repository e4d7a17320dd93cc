// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package trace // import "go.opentelemetry.io/collector/pipelinesdk/sdk/trace"

import (
	"context"
	"time"

	"go.opentelemetry.io/collector/pdata/ptrace"

	"go.opentelemetry.io/collector/pipelinesdk/instrumentation"
	"go.opentelemetry.io/collector/pipelinesdk/sampler"
)

// Tracer starts spans for one instrumentation scope.
type Tracer struct {
	provider *Provider
	scope    instrumentation.Scope
}

// Scope returns the instrumentation scope of the tracer.
func (t *Tracer) Scope() instrumentation.Scope {
	return t.scope
}

// Start creates a span and returns a copy of ctx holding it. The parent is
// the current span of ctx unless WithNewRoot is given. Trace roots consult
// the provider's sampler; children inherit the decision of their parent.
func (t *Tracer) Start(ctx context.Context, name string, opts ...SpanStartOption) (context.Context, Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := spanConfig{kind: ptrace.SpanKindInternal}
	for _, opt := range opts {
		opt(&cfg)
	}

	var parentSpan Span = nonRecordingSpan{}
	if !cfg.newRoot {
		parentSpan = SpanFromContext(ctx)
	}
	parent := parentSpan.SpanContext()

	p := t.provider
	sc := SpanContext{}
	if parent.IsValid() {
		sc.TraceID = parent.TraceID
		sc.SpanID = p.idGenerator.NewSpanID(ctx, parent.TraceID)
		sc.TraceState = parent.TraceState
	} else {
		sc.TraceID, sc.SpanID = p.idGenerator.NewIDs(ctx)
	}

	if p.isShutdown.Load() {
		return ContextWithSpan(ctx, nonRecordingSpan{sc: sc}), nonRecordingSpan{sc: sc}
	}

	attrs := cfg.attributes
	var decision sampler.Decision
	switch {
	case !parent.IsValid():
		res := p.sampler.ShouldSample(sampler.Parameters{
			TraceID:    sc.TraceID,
			Name:       name,
			Kind:       cfg.kind,
			Attributes: cfg.attributes,
		})
		decision = res.Decision
		if len(res.Attributes) > 0 {
			attrs = append(attrs[:len(attrs):len(attrs)], res.Attributes...)
		}
	case parent.Sampled:
		decision = sampler.RecordAndSample
	case parentSpan.IsRecording():
		// Local parent that was recorded but not sampled.
		decision = sampler.RecordOnly
	default:
		decision = sampler.Drop
	}
	sc.Sampled = decision == sampler.RecordAndSample

	if decision == sampler.Drop {
		span := nonRecordingSpan{sc: sc}
		return ContextWithSpan(ctx, span), span
	}

	start := cfg.timestamp
	if start.IsZero() {
		start = time.Now()
	}
	span := &recordingSpan{
		tracer: t,
		limits: p.spanLimits,
		data: SpanData{
			Resource:    p.resource,
			Scope:       t.scope,
			SpanContext: sc,
			Parent:      parent,
			Name:        name,
			Kind:        cfg.kind,
			StartTime:   start,
		},
	}
	span.addAttributes(attrs)
	return ContextWithSpan(ctx, span), span
}
