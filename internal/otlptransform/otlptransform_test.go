// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package otlptransform

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/collector/pdata/plog"
	"go.opentelemetry.io/collector/pdata/pmetric"
	"go.opentelemetry.io/collector/pdata/ptrace"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/multierr"

	"go.opentelemetry.io/collector/pipelinesdk/instrumentation"
	"go.opentelemetry.io/collector/pipelinesdk/resource"
	"go.opentelemetry.io/collector/pipelinesdk/sdk/log"
	"go.opentelemetry.io/collector/pipelinesdk/sdk/metric"
	"go.opentelemetry.io/collector/pipelinesdk/sdk/trace"
)

var (
	testTraceID = pcommon.TraceID([16]byte{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1})
	testSpanID  = pcommon.SpanID([8]byte{2, 2, 2, 2, 2, 2, 2, 2})
	testParent  = pcommon.SpanID([8]byte{3, 3, 3, 3, 3, 3, 3, 3})
)

func testSpan(res *resource.Resource, scope, name string) trace.SpanData {
	return trace.SpanData{
		Resource:    res,
		Scope:       instrumentation.Scope{Name: scope, Version: "1.0.0"},
		SpanContext: trace.SpanContext{TraceID: testTraceID, SpanID: testSpanID, Sampled: true},
		Name:        name,
		Kind:        ptrace.SpanKindClient,
		StartTime:   time.Unix(1, 0),
		EndTime:     time.Unix(2, 0),
	}
}

func TestTracesGroupsByResourceAndScope(t *testing.T) {
	resA := resource.New(attribute.String("service.name", "a"))
	resB := resource.New(attribute.String("service.name", "b"))
	// Equal content, different pointer.
	resA2 := resource.New(attribute.String("service.name", "a"))

	td, err := Traces([]trace.SpanData{
		testSpan(resA, "lib1", "s1"),
		testSpan(resA, "lib2", "s2"),
		testSpan(resB, "lib1", "s3"),
		testSpan(resA2, "lib1", "s4"),
	})
	require.NoError(t, err)
	assert.Equal(t, 4, td.SpanCount())
	require.Equal(t, 2, td.ResourceSpans().Len())

	rsA := td.ResourceSpans().At(0)
	name, ok := rsA.Resource().Attributes().Get("service.name")
	require.True(t, ok)
	assert.Equal(t, "a", name.Str())
	require.Equal(t, 2, rsA.ScopeSpans().Len())
	assert.Equal(t, "lib1", rsA.ScopeSpans().At(0).Scope().Name())
	assert.Equal(t, "1.0.0", rsA.ScopeSpans().At(0).Scope().Version())
	assert.Equal(t, 2, rsA.ScopeSpans().At(0).Spans().Len())
	assert.Equal(t, "s4", rsA.ScopeSpans().At(0).Spans().At(1).Name())
}

func TestTracesSpanFields(t *testing.T) {
	sd := testSpan(resource.Empty(), "lib", "op")
	sd.Parent = trace.SpanContext{TraceID: testTraceID, SpanID: testParent}
	sd.SpanContext.TraceState = "k=v"
	sd.Attributes = []attribute.KeyValue{
		attribute.String("s", "v"),
		attribute.Int64Slice("ints", []int64{1, 2}),
	}
	sd.Events = []trace.Event{{Name: "ev", Time: time.Unix(1, 500), Attributes: []attribute.KeyValue{attribute.Bool("b", true)}}}
	sd.Status = trace.Status{Code: codes.Error, Description: "bad"}
	sd.DroppedAttributes = 3
	sd.DroppedEvents = 4

	td, err := Traces([]trace.SpanData{sd})
	require.NoError(t, err)
	span := td.ResourceSpans().At(0).ScopeSpans().At(0).Spans().At(0)
	assert.Equal(t, testTraceID, span.TraceID())
	assert.Equal(t, testSpanID, span.SpanID())
	assert.Equal(t, testParent, span.ParentSpanID())
	assert.Equal(t, "k=v", span.TraceState().AsRaw())
	assert.Equal(t, ptrace.SpanKindClient, span.Kind())
	assert.Equal(t, pcommon.NewTimestampFromTime(time.Unix(1, 0)), span.StartTimestamp())
	assert.Equal(t, pcommon.NewTimestampFromTime(time.Unix(2, 0)), span.EndTimestamp())
	assert.Equal(t, map[string]any{"s": "v", "ints": []any{int64(1), int64(2)}}, span.Attributes().AsRaw())
	require.Equal(t, 1, span.Events().Len())
	assert.Equal(t, "ev", span.Events().At(0).Name())
	assert.Equal(t, map[string]any{"b": true}, span.Events().At(0).Attributes().AsRaw())
	assert.Equal(t, ptrace.StatusCodeError, span.Status().Code())
	assert.Equal(t, "bad", span.Status().Message())
	assert.Equal(t, uint32(3), span.DroppedAttributesCount())
	assert.Equal(t, uint32(4), span.DroppedEventsCount())
}

func TestTracesDropsUnsupportedValues(t *testing.T) {
	bad := testSpan(resource.Empty(), "lib", "bad")
	bad.Attributes = []attribute.KeyValue{attribute.String("ok", "v"), {Key: "m"}}
	badEvent := testSpan(resource.Empty(), "lib", "bad_event")
	badEvent.Events = []trace.Event{{Name: "ev", Attributes: []attribute.KeyValue{{Key: "c"}}}}
	good := testSpan(resource.Empty(), "lib", "good")

	td, err := Traces([]trace.SpanData{bad, good, badEvent})
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	var uve *UnsupportedValueError
	require.True(t, errors.As(err, &uve))
	assert.Equal(t, "m", uve.Key)
	assert.Equal(t, "INVALID", uve.Type)

	require.Equal(t, 1, td.SpanCount())
	assert.Equal(t, "good", td.ResourceSpans().At(0).ScopeSpans().At(0).Spans().At(0).Name())
}

func TestMetrics(t *testing.T) {
	res := resource.New(attribute.String("service.name", "svc"))
	scope := instrumentation.Scope{Name: "lib"}
	now := time.Unix(5, 0)
	counter := func(v int64) metric.Point {
		return metric.Point{
			Resource: res, Scope: scope, Name: "requests", Unit: "1",
			Kind: metric.KindSum, Monotonic: true, Temporality: pmetric.AggregationTemporalityDelta,
			StartTime: now, Time: now, NumberType: metric.NumberTypeInt64, Int: v,
		}
	}
	gauge := metric.Point{
		Resource: res, Scope: scope, Name: "temp", Kind: metric.KindGauge,
		Time: now, NumberType: metric.NumberTypeFloat64, Float: 21.5,
		Exemplar: &metric.Exemplar{Time: now, TraceID: testTraceID, SpanID: testSpanID, Float: 21.5},
	}
	hist := metric.Point{
		Resource: res, Scope: scope, Name: "latency", Kind: metric.KindHistogram,
		Temporality: pmetric.AggregationTemporalityDelta, Time: now,
		NumberType: metric.NumberTypeFloat64,
		Histogram: &metric.HistogramValue{Count: 1, Sum: 7, Min: 7, Max: 7, Bounds: []float64{5, 10}, BucketCounts: []uint64{0, 1, 0}},
	}

	md, err := Metrics([]metric.Point{counter(1), gauge, counter(2), hist})
	require.NoError(t, err)
	assert.Equal(t, 4, md.DataPointCount())
	ms := md.ResourceMetrics().At(0).ScopeMetrics().At(0).Metrics()
	require.Equal(t, 3, ms.Len())

	sum := ms.At(0)
	assert.Equal(t, "requests", sum.Name())
	assert.Equal(t, pmetric.MetricTypeSum, sum.Type())
	assert.True(t, sum.Sum().IsMonotonic())
	assert.Equal(t, pmetric.AggregationTemporalityDelta, sum.Sum().AggregationTemporality())
	require.Equal(t, 2, sum.Sum().DataPoints().Len())
	assert.Equal(t, int64(1), sum.Sum().DataPoints().At(0).IntValue())
	assert.Equal(t, int64(2), sum.Sum().DataPoints().At(1).IntValue())

	g := ms.At(1)
	assert.Equal(t, pmetric.MetricTypeGauge, g.Type())
	assert.Equal(t, 21.5, g.Gauge().DataPoints().At(0).DoubleValue())
	require.Equal(t, 1, g.Gauge().DataPoints().At(0).Exemplars().Len())
	ex := g.Gauge().DataPoints().At(0).Exemplars().At(0)
	assert.Equal(t, testTraceID, ex.TraceID())
	assert.Equal(t, testSpanID, ex.SpanID())
	assert.Equal(t, 21.5, ex.DoubleValue())
	assert.Equal(t, 0, sum.Sum().DataPoints().At(0).Exemplars().Len())

	h := ms.At(2)
	assert.Equal(t, pmetric.MetricTypeHistogram, h.Type())
	dp := h.Histogram().DataPoints().At(0)
	assert.Equal(t, uint64(1), dp.Count())
	assert.Equal(t, 7.0, dp.Sum())
	assert.Equal(t, []float64{5, 10}, dp.ExplicitBounds().AsRaw())
	assert.Equal(t, []uint64{0, 1, 0}, dp.BucketCounts().AsRaw())
}

func TestMetricsDropsUnsupportedValues(t *testing.T) {
	bad := metric.Point{Name: "bad", Kind: metric.KindSum, Attributes: []attribute.KeyValue{{Key: "x"}}}
	broken := metric.Point{Name: "broken", Kind: metric.KindHistogram}
	md, err := Metrics([]metric.Point{bad, broken})
	assert.Len(t, multierr.Errors(err), 2)
	assert.Equal(t, 0, md.DataPointCount())
}

func TestLogs(t *testing.T) {
	res := resource.New(attribute.String("service.name", "svc"))
	records := []log.RecordData{
		{
			Resource: res,
			Scope:    instrumentation.Scope{Name: "lib"},
			Record: log.Record{
				Timestamp:         time.Unix(3, 0),
				ObservedTimestamp: time.Unix(4, 0),
				Severity:          log.SeverityError,
				SeverityText:      "ERROR",
				Body:              attribute.StringValue("failed"),
				Attributes:        []attribute.KeyValue{attribute.String("k", "v")},
			},
			TraceID: testTraceID,
			SpanID:  testSpanID,
			Sampled: true,
		},
		{Resource: res, Scope: instrumentation.Scope{Name: "lib"}, Record: log.Record{Body: attribute.StringValue("x"), Attributes: []attribute.KeyValue{{Key: "bad"}}}},
		{Resource: res, Scope: instrumentation.Scope{Name: "lib"}},
	}

	ld, err := Logs(records)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 1)
	require.Equal(t, 2, ld.LogRecordCount())

	lr := ld.ResourceLogs().At(0).ScopeLogs().At(0).LogRecords().At(0)
	assert.Equal(t, pcommon.NewTimestampFromTime(time.Unix(3, 0)), lr.Timestamp())
	assert.Equal(t, pcommon.NewTimestampFromTime(time.Unix(4, 0)), lr.ObservedTimestamp())
	assert.Equal(t, plog.SeverityNumberError, lr.SeverityNumber())
	assert.Equal(t, "ERROR", lr.SeverityText())
	assert.Equal(t, "failed", lr.Body().Str())
	assert.Equal(t, testTraceID, lr.TraceID())
	assert.Equal(t, testSpanID, lr.SpanID())
	assert.True(t, lr.Flags().IsSampled())

	empty := ld.ResourceLogs().At(0).ScopeLogs().At(0).LogRecords().At(1)
	assert.Equal(t, pcommon.ValueTypeEmpty, empty.Body().Type())
	assert.True(t, empty.TraceID().IsEmpty())
}
