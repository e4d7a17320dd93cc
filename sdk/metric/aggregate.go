// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package metric // import "go.opentelemetry.io/collector/pipelinesdk/sdk/metric"

import (
	"context"
	"math"
	"slices"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"go.opentelemetry.io/collector/pipelinesdk/sdk/trace"
)

// stream accumulates the measurements of one attribute set during a
// collection interval.
type stream struct {
	attrs    []attribute.KeyValue
	intVal   int64
	floatVal float64
	hist     *HistogramValue
	exemplar *Exemplar
}

// measurement is one value handed to an instrument.
type measurement struct {
	isInt    bool
	intVal   int64
	floatVal float64
}

// record folds m into the stream of attrs.
func (i *instrument) record(ctx context.Context, attrs []attribute.KeyValue, m measurement) {
	if i.disabled || i.meter.provider.isShutdown.Load() {
		return
	}
	set := attribute.NewSet(slices.Clone(attrs)...)
	key := set.Equivalent()
	var ex *Exemplar
	if ctx != nil {
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			ex = &Exemplar{Time: time.Now(), TraceID: sc.TraceID, SpanID: sc.SpanID, Int: m.intVal, Float: m.floatVal}
		}
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	s, ok := i.streams[key]
	if !ok {
		s = &stream{attrs: set.ToSlice()}
		if i.kind == KindHistogram {
			s.hist = &HistogramValue{
				Min:          math.Inf(1),
				Max:          math.Inf(-1),
				Bounds:       i.bounds,
				BucketCounts: make([]uint64, len(i.bounds)+1),
			}
		}
		if i.streams == nil {
			i.streams = map[attribute.Distinct]*stream{}
		}
		i.streams[key] = s
		i.order = append(i.order, s)
	}
	switch i.kind {
	case KindSum:
		if m.isInt {
			s.intVal += m.intVal
		} else {
			s.floatVal += m.floatVal
		}
	case KindGauge:
		s.floatVal = m.floatVal
	case KindHistogram:
		h := s.hist
		h.Count++
		h.Sum += m.floatVal
		h.Min = math.Min(h.Min, m.floatVal)
		h.Max = math.Max(h.Max, m.floatVal)
		// Buckets are upper-inclusive: (bounds[i-1], bounds[i]].
		h.BucketCounts[sort.SearchFloat64s(i.bounds, m.floatVal)]++
	}
	if ex != nil {
		s.exemplar = ex
	}
}

// collect emits one point per attribute set measured since the previous
// collection and starts a new interval.
func (i *instrument) collect(now time.Time, emit func(Point)) {
	i.mu.Lock()
	streams, start := i.order, i.start
	i.streams, i.order, i.start = nil, nil, now
	i.mu.Unlock()

	p := i.meter.provider
	for _, s := range streams {
		pt := Point{
			Resource:    p.resource,
			Scope:       i.meter.scope,
			Name:        i.name,
			Description: i.description,
			Unit:        i.unit,
			Kind:        i.kind,
			Monotonic:   i.monotonic,
			Temporality: i.temporality,
			StartTime:   start,
			Time:        now,
			Attributes:  s.attrs,
			NumberType:  i.numberType,
			Int:         s.intVal,
			Float:       s.floatVal,
			Histogram:   s.hist,
			Exemplar:    s.exemplar,
		}
		emit(pt)
	}
}
