// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package metric // import "go.opentelemetry.io/collector/pipelinesdk/sdk/metric"

import (
	"fmt"
	"time"

	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/collector/pdata/pmetric"
	"go.opentelemetry.io/otel/attribute"

	"go.opentelemetry.io/collector/pipelinesdk/instrumentation"
	"go.opentelemetry.io/collector/pipelinesdk/resource"
)

// Kind is the data model kind of a Point.
type Kind int

const (
	KindSum Kind = iota + 1
	KindGauge
	KindHistogram
)

func (k Kind) String() string {
	switch k {
	case KindSum:
		return "Sum"
	case KindGauge:
		return "Gauge"
	case KindHistogram:
		return "Histogram"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// NumberType tells which of the number fields of a Point is set.
type NumberType int

const (
	NumberTypeInt64 NumberType = iota + 1
	NumberTypeFloat64
)

// HistogramValue is the distribution of the measurements of one collection
// interval.
type HistogramValue struct {
	Count uint64
	Sum   float64
	Min   float64
	Max   float64
	// Bounds are the explicit bucket boundaries; BucketCounts has one more
	// entry than Bounds.
	Bounds       []float64
	BucketCounts []uint64
}

// Point is the aggregate of the measurements an instrument took for one
// attribute set between StartTime and Time, together with the description of
// the instrument.
type Point struct {
	Resource *resource.Resource
	Scope    instrumentation.Scope

	Name        string
	Description string
	Unit        string
	Kind        Kind
	// Monotonic is only meaningful for KindSum.
	Monotonic   bool
	Temporality pmetric.AggregationTemporality

	StartTime  time.Time
	Time       time.Time
	Attributes []attribute.KeyValue

	// Int and Float hold the sum of a KindSum point and the last value of a
	// KindGauge point, as selected by NumberType.
	NumberType NumberType
	Int        int64
	Float      float64
	Histogram  *HistogramValue

	// Exemplar is the last measurement of the interval taken inside a span.
	Exemplar *Exemplar
}

// Exemplar is a single measurement correlated with the span active when it
// was taken.
type Exemplar struct {
	Time    time.Time
	TraceID pcommon.TraceID
	SpanID  pcommon.SpanID
	Int     int64
	Float   float64
}
