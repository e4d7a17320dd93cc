// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package otlptransform // import "go.opentelemetry.io/collector/pipelinesdk/internal/otlptransform"

import (
	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/collector/pdata/ptrace"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/multierr"

	"go.opentelemetry.io/collector/pipelinesdk/instrumentation"
	"go.opentelemetry.io/collector/pipelinesdk/resource"
	"go.opentelemetry.io/collector/pipelinesdk/sdk/trace"
)

// Traces converts spans to pdata. Spans carrying an unsupported attribute
// value are left out; the returned error lists one UnsupportedValueError per
// dropped span.
func Traces(spans []trace.SpanData) (ptrace.Traces, error) {
	td := ptrace.NewTraces()
	var errs error
	g := grouper[ptrace.ResourceSpans, ptrace.SpanSlice]{}
	newResource := func(res *resource.Resource) ptrace.ResourceSpans {
		rs := td.ResourceSpans().AppendEmpty()
		putResource(rs.Resource(), res)
		return rs
	}
	newScope := func(rs ptrace.ResourceSpans, scope instrumentation.Scope) ptrace.SpanSlice {
		ss := rs.ScopeSpans().AppendEmpty()
		putScope(ss.Scope(), scope)
		return ss.Spans()
	}

	for i := range spans {
		sd := &spans[i]
		if err := checkSpan(sd); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		fillSpan(g.scope(sd.Resource, sd.Scope, newResource, newScope).AppendEmpty(), sd)
	}
	return td, errs
}

func checkSpan(sd *trace.SpanData) error {
	record := "span " + sd.Name
	if err := checkAttributes(record, sd.Attributes); err != nil {
		return err
	}
	for _, ev := range sd.Events {
		if err := checkAttributes(record+" event "+ev.Name, ev.Attributes); err != nil {
			return err
		}
	}
	return nil
}

func fillSpan(dest ptrace.Span, sd *trace.SpanData) {
	dest.SetTraceID(sd.SpanContext.TraceID)
	dest.SetSpanID(sd.SpanContext.SpanID)
	if sd.Parent.IsValid() {
		dest.SetParentSpanID(sd.Parent.SpanID)
	}
	dest.TraceState().FromRaw(sd.SpanContext.TraceState)
	dest.SetName(sd.Name)
	dest.SetKind(sd.Kind)
	dest.SetStartTimestamp(pcommon.NewTimestampFromTime(sd.StartTime))
	dest.SetEndTimestamp(pcommon.NewTimestampFromTime(sd.EndTime))
	putAttributes(dest.Attributes(), sd.Attributes)
	dest.SetDroppedAttributesCount(uint32(sd.DroppedAttributes))

	events := dest.Events()
	events.EnsureCapacity(len(sd.Events))
	for _, ev := range sd.Events {
		e := events.AppendEmpty()
		e.SetName(ev.Name)
		e.SetTimestamp(pcommon.NewTimestampFromTime(ev.Time))
		putAttributes(e.Attributes(), ev.Attributes)
	}
	dest.SetDroppedEventsCount(uint32(sd.DroppedEvents))

	switch sd.Status.Code {
	case codes.Error:
		dest.Status().SetCode(ptrace.StatusCodeError)
		dest.Status().SetMessage(sd.Status.Description)
	case codes.Ok:
		dest.Status().SetCode(ptrace.StatusCodeOk)
	}
}
