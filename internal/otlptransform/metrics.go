// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package otlptransform // import "go.opentelemetry.io/collector/pipelinesdk/internal/otlptransform"

import (
	"fmt"

	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/collector/pdata/pmetric"
	"go.uber.org/multierr"

	"go.opentelemetry.io/collector/pipelinesdk/instrumentation"
	"go.opentelemetry.io/collector/pipelinesdk/resource"
	"go.opentelemetry.io/collector/pipelinesdk/sdk/metric"
)

// metricIdentity groups the points of one instrument inside a scope.
type metricIdentity struct {
	name        string
	description string
	unit        string
	kind        metric.Kind
	monotonic   bool
	temporality pmetric.AggregationTemporality
}

type scopeMetrics struct {
	metrics pmetric.MetricSlice
	byID    map[metricIdentity]pmetric.Metric
}

// Metrics converts points to pdata. Points of the same instrument share one
// Metric with one data point per attribute set. Points carrying an unsupported attribute
// value are left out and reported.
func Metrics(points []metric.Point) (pmetric.Metrics, error) {
	md := pmetric.NewMetrics()
	var errs error
	g := grouper[pmetric.ResourceMetrics, *scopeMetrics]{}
	newResource := func(res *resource.Resource) pmetric.ResourceMetrics {
		rm := md.ResourceMetrics().AppendEmpty()
		putResource(rm.Resource(), res)
		return rm
	}
	newScope := func(rm pmetric.ResourceMetrics, scope instrumentation.Scope) *scopeMetrics {
		sm := rm.ScopeMetrics().AppendEmpty()
		putScope(sm.Scope(), scope)
		return &scopeMetrics{metrics: sm.Metrics(), byID: map[metricIdentity]pmetric.Metric{}}
	}

	for i := range points {
		pt := &points[i]
		if err := checkAttributes("metric "+pt.Name, pt.Attributes); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if pt.Kind == metric.KindHistogram && pt.Histogram == nil {
			errs = multierr.Append(errs, fmt.Errorf("metric %s: histogram point without histogram value", pt.Name))
			continue
		}
		sm := g.scope(pt.Resource, pt.Scope, newResource, newScope)
		appendPoint(sm, pt)
	}
	return md, errs
}

func appendPoint(sm *scopeMetrics, pt *metric.Point) {
	id := metricIdentity{
		name:        pt.Name,
		description: pt.Description,
		unit:        pt.Unit,
		kind:        pt.Kind,
		monotonic:   pt.Monotonic,
		temporality: pt.Temporality,
	}
	m, ok := sm.byID[id]
	if !ok {
		m = sm.metrics.AppendEmpty()
		m.SetName(pt.Name)
		m.SetDescription(pt.Description)
		m.SetUnit(pt.Unit)
		switch pt.Kind {
		case metric.KindSum:
			sum := m.SetEmptySum()
			sum.SetIsMonotonic(pt.Monotonic)
			sum.SetAggregationTemporality(pt.Temporality)
		case metric.KindGauge:
			m.SetEmptyGauge()
		case metric.KindHistogram:
			m.SetEmptyHistogram().SetAggregationTemporality(pt.Temporality)
		}
		sm.byID[id] = m
	}

	start := pcommon.NewTimestampFromTime(pt.StartTime)
	ts := pcommon.NewTimestampFromTime(pt.Time)
	switch pt.Kind {
	case metric.KindSum, metric.KindGauge:
		var dp pmetric.NumberDataPoint
		if pt.Kind == metric.KindSum {
			dp = m.Sum().DataPoints().AppendEmpty()
		} else {
			dp = m.Gauge().DataPoints().AppendEmpty()
		}
		dp.SetStartTimestamp(start)
		dp.SetTimestamp(ts)
		putAttributes(dp.Attributes(), pt.Attributes)
		if pt.NumberType == metric.NumberTypeInt64 {
			dp.SetIntValue(pt.Int)
		} else {
			dp.SetDoubleValue(pt.Float)
		}
		putExemplar(dp.Exemplars(), pt)
	case metric.KindHistogram:
		hv := pt.Histogram
		dp := m.Histogram().DataPoints().AppendEmpty()
		dp.SetStartTimestamp(start)
		dp.SetTimestamp(ts)
		putAttributes(dp.Attributes(), pt.Attributes)
		dp.SetCount(hv.Count)
		dp.SetSum(hv.Sum)
		dp.SetMin(hv.Min)
		dp.SetMax(hv.Max)
		dp.ExplicitBounds().FromRaw(hv.Bounds)
		dp.BucketCounts().FromRaw(hv.BucketCounts)
		putExemplar(dp.Exemplars(), pt)
	}
}

// putExemplar links the point to a span one of its measurements was taken in.
func putExemplar(dest pmetric.ExemplarSlice, pt *metric.Point) {
	e := pt.Exemplar
	if e == nil || e.TraceID.IsEmpty() {
		return
	}
	ex := dest.AppendEmpty()
	ex.SetTimestamp(pcommon.NewTimestampFromTime(e.Time))
	ex.SetTraceID(e.TraceID)
	ex.SetSpanID(e.SpanID)
	if pt.NumberType == metric.NumberTypeInt64 {
		ex.SetIntValue(e.Int)
	} else {
		ex.SetDoubleValue(e.Float)
	}
}
