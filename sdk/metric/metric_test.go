// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package metric

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/collector/pdata/pmetric"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"go.opentelemetry.io/collector/pipelinesdk/resource"
	"go.opentelemetry.io/collector/pipelinesdk/sdk/trace"
)

type pointSink struct {
	mu          sync.Mutex
	points      []Point
	shutdowns   int
	shutdownErr error
}

func (s *pointSink) Enqueue(pt Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points = append(s.points, pt)
}

func (s *pointSink) ForceFlush(context.Context) error { return nil }

func (s *pointSink) Shutdown(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shutdowns++
	return s.shutdownErr
}

func (s *pointSink) all() []Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Point(nil), s.points...)
}

func newTestProvider(t *testing.T, logger *zap.Logger, procs ...Processor) *Provider {
	p, err := NewProvider(ProviderConfig{
		Resource:   resource.New(attribute.String("service.name", "test")),
		Processors: procs,
		Logger:     logger,
	})
	require.NoError(t, err)
	return p
}

func TestMeterIsCachedPerScope(t *testing.T) {
	p := newTestProvider(t, nil)
	m := p.Meter("lib", "1.0.0")
	assert.Same(t, m, p.Meter("lib", "1.0.0"))
	assert.NotSame(t, m, p.Meter("lib", "1.1.0"))
	assert.Equal(t, "lib", m.Scope().Name)
}

func TestNewProviderRejectsNilProcessor(t *testing.T) {
	_, err := NewProvider(ProviderConfig{Processors: []Processor{nil}})
	assert.ErrorIs(t, err, ErrNilProcessor)
}

func collect(t *testing.T, p *Provider, sink *pointSink) []Point {
	t.Helper()
	require.NoError(t, p.ForceFlush(context.Background()))
	return sink.all()
}

func TestCounterPoints(t *testing.T) {
	sink := &pointSink{}
	p := newTestProvider(t, nil, sink)
	c, err := p.Meter("lib", "").Int64Counter("requests", WithUnit("1"), WithDescription("Handled requests"))
	require.NoError(t, err)

	c.Add(context.Background(), 2, attribute.String("route", "/a"))
	c.Add(context.Background(), 3, attribute.String("route", "/b"))

	points := collect(t, p, sink)
	require.Len(t, points, 2)
	pt := points[0]
	assert.Same(t, p.Resource(), pt.Resource)
	assert.Equal(t, "requests", pt.Name)
	assert.Equal(t, "1", pt.Unit)
	assert.Equal(t, "Handled requests", pt.Description)
	assert.Equal(t, KindSum, pt.Kind)
	assert.True(t, pt.Monotonic)
	assert.Equal(t, pmetric.AggregationTemporalityDelta, pt.Temporality)
	assert.Equal(t, NumberTypeInt64, pt.NumberType)
	assert.Equal(t, int64(2), pt.Int)
	assert.Equal(t, []attribute.KeyValue{attribute.String("route", "/a")}, pt.Attributes)
	assert.False(t, pt.StartTime.After(pt.Time))
	assert.Nil(t, pt.Exemplar)
	assert.Equal(t, int64(3), points[1].Int)
}

func TestCounterAggregatesPerAttributeSet(t *testing.T) {
	sink := &pointSink{}
	p := newTestProvider(t, nil, sink)
	m := p.Meter("lib", "")
	ic, err := m.Int64Counter("requests")
	require.NoError(t, err)
	fc, err := m.Float64Counter("bytes")
	require.NoError(t, err)

	const n = 100
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < n; i++ {
				// Attribute order does not split the set.
				ic.Add(context.Background(), 1, attribute.String("a", "1"), attribute.Int("b", 2))
				ic.Add(context.Background(), 1, attribute.Int("b", 2), attribute.String("a", "1"))
				fc.Add(context.Background(), 0.5)
			}
		}()
	}
	wg.Wait()

	points := collect(t, p, sink)
	require.Len(t, points, 2)
	assert.Equal(t, "requests", points[0].Name)
	assert.Equal(t, int64(8*n), points[0].Int)
	assert.Equal(t, []attribute.KeyValue{attribute.String("a", "1"), attribute.Int("b", 2)}, points[0].Attributes)
	assert.Equal(t, "bytes", points[1].Name)
	assert.Equal(t, NumberTypeFloat64, points[1].NumberType)
	assert.Equal(t, float64(2*n), points[1].Float)
	assert.Empty(t, points[1].Attributes)
}

func TestDeltaIntervals(t *testing.T) {
	sink := &pointSink{}
	p := newTestProvider(t, nil, sink)
	c, err := p.Meter("lib", "").Int64Counter("requests")
	require.NoError(t, err)

	c.Add(context.Background(), 4)
	first := collect(t, p, sink)
	require.Len(t, first, 1)

	// Nothing measured in the second interval.
	require.Len(t, collect(t, p, sink), 1)

	c.Add(context.Background(), 1)
	points := collect(t, p, sink)
	require.Len(t, points, 2)
	assert.Equal(t, int64(1), points[1].Int)
	assert.False(t, points[1].StartTime.Before(first[0].Time), "intervals do not overlap")
	assert.False(t, points[1].Time.Before(points[1].StartTime))
}

func TestNegativeCounterIncrementIsDropped(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	sink := &pointSink{}
	p := newTestProvider(t, zap.New(core), sink)
	m := p.Meter("lib", "")

	ic, err := m.Int64Counter("ints")
	require.NoError(t, err)
	fc, err := m.Float64Counter("floats")
	require.NoError(t, err)
	ic.Add(context.Background(), -1)
	fc.Add(context.Background(), -0.5)
	fc.Add(context.Background(), math.NaN())

	assert.Empty(t, collect(t, p, sink))
	assert.Equal(t, 3, logs.Len())
}

func TestUpDownCounterAndGauge(t *testing.T) {
	sink := &pointSink{}
	p := newTestProvider(t, nil, sink)
	m := p.Meter("lib", "")
	udc, err := m.Int64UpDownCounter("queue.depth")
	require.NoError(t, err)
	g, err := m.Float64Gauge("temperature")
	require.NoError(t, err)

	udc.Add(context.Background(), -4)
	udc.Add(context.Background(), 1)
	g.Record(context.Background(), 19)
	g.Record(context.Background(), 21.5)

	points := collect(t, p, sink)
	require.Len(t, points, 2)
	assert.Equal(t, KindSum, points[0].Kind)
	assert.False(t, points[0].Monotonic)
	assert.Equal(t, int64(-3), points[0].Int)
	assert.Equal(t, KindGauge, points[1].Kind)
	assert.Equal(t, pmetric.AggregationTemporalityUnspecified, points[1].Temporality)
	assert.Equal(t, 21.5, points[1].Float, "a gauge reports its last value")
}

func TestHistogramBuckets(t *testing.T) {
	sink := &pointSink{}
	p := newTestProvider(t, nil, sink)
	h, err := p.Meter("lib", "").Float64Histogram("latency", WithExplicitBucketBoundaries(1, 5, 10))
	require.NoError(t, err)

	for _, v := range []float64{0.5, 5, 7, 11, 7} {
		h.Record(context.Background(), v)
	}
	h.Record(context.Background(), math.NaN())
	h.Record(context.Background(), 100, attribute.String("route", "/slow"))

	points := collect(t, p, sink)
	require.Len(t, points, 2)
	assert.Equal(t, KindHistogram, points[0].Kind)
	assert.Equal(t, &HistogramValue{
		Count: 5,
		Sum:   30.5,
		Min:   0.5,
		Max:   11,
		// Buckets are upper-inclusive.
		Bounds:       []float64{1, 5, 10},
		BucketCounts: []uint64{1, 1, 2, 1},
	}, points[0].Histogram)
	assert.Equal(t, &HistogramValue{
		Count:        1,
		Sum:          100,
		Min:          100,
		Max:          100,
		Bounds:       []float64{1, 5, 10},
		BucketCounts: []uint64{0, 0, 0, 1},
	}, points[1].Histogram)
}

func TestHistogramDefaultBoundaries(t *testing.T) {
	sink := &pointSink{}
	p := newTestProvider(t, nil, sink)
	h, err := p.Meter("lib", "").Float64Histogram("size")
	require.NoError(t, err)
	h.Record(context.Background(), 42)
	points := collect(t, p, sink)
	require.Len(t, points, 1)
	assert.Equal(t, DefaultHistogramBoundaries, points[0].Histogram.Bounds)
	assert.Len(t, points[0].Histogram.BucketCounts, len(DefaultHistogramBoundaries)+1)
}

func TestInstrumentErrors(t *testing.T) {
	sink := &pointSink{}
	p := newTestProvider(t, nil, sink)
	m := p.Meter("lib", "")

	c, err := m.Int64Counter("1bad")
	assert.ErrorIs(t, err, ErrInvalidInstrumentName)
	c.Add(context.Background(), 1)

	_, err = m.Float64Histogram("h", WithExplicitBucketBoundaries(5, 1))
	assert.Error(t, err)
	_, err = m.Float64Histogram("h2", WithExplicitBucketBoundaries(math.Inf(1)))
	assert.Error(t, err)

	_, err = m.Int64Counter("shared")
	require.NoError(t, err)
	g, err := m.Float64Gauge("shared")
	assert.Error(t, err)
	g.Record(context.Background(), 1)

	same, err := m.Int64Counter("shared")
	assert.NoError(t, err)
	same.Add(context.Background(), 1)
	points := collect(t, p, sink)
	require.Len(t, points, 1)
	assert.Equal(t, "shared", points[0].Name)
}

func TestExemplarFromSpanContext(t *testing.T) {
	sink := &pointSink{}
	p := newTestProvider(t, nil, sink)
	tp, err := trace.NewProvider(trace.ProviderConfig{})
	require.NoError(t, err)
	ctx, span := tp.Tracer("lib", "").Start(context.Background(), "op")
	defer span.End()

	c, err := p.Meter("lib", "").Int64Counter("requests")
	require.NoError(t, err)
	c.Add(ctx, 5)
	c.Add(context.Background(), 2)

	points := collect(t, p, sink)
	require.Len(t, points, 1)
	assert.Equal(t, int64(7), points[0].Int)
	ex := points[0].Exemplar
	require.NotNil(t, ex)
	assert.Equal(t, span.SpanContext().TraceID, ex.TraceID)
	assert.Equal(t, span.SpanContext().SpanID, ex.SpanID)
	assert.Equal(t, int64(5), ex.Int)
}

func TestPeriodicCollection(t *testing.T) {
	sink := &pointSink{}
	p, err := NewProvider(ProviderConfig{
		Resource:        resource.Empty(),
		Processors:      []Processor{sink},
		CollectInterval: 10 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, p.Shutdown(context.Background())) })

	c, err := p.Meter("lib", "").Int64Counter("requests")
	require.NoError(t, err)
	c.Add(context.Background(), 1)
	c.Add(context.Background(), 1)
	assert.Eventually(t, func() bool { return len(sink.all()) == 1 }, 5*time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(2), sink.all()[0].Int)
}

func TestNoPeriodicCollectionWhenNegative(t *testing.T) {
	sink := &pointSink{}
	p, err := NewProvider(ProviderConfig{
		Resource:        resource.Empty(),
		Processors:      []Processor{sink},
		CollectInterval: -1,
	})
	require.NoError(t, err)
	c, err := p.Meter("lib", "").Int64Counter("requests")
	require.NoError(t, err)
	c.Add(context.Background(), 1)
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, sink.all())

	require.NoError(t, p.Shutdown(context.Background()))
	require.Len(t, sink.all(), 1, "Shutdown collects the pending aggregates")
}

func TestShutdownStopsRecording(t *testing.T) {
	errA := errors.New("a")
	a := &pointSink{shutdownErr: errA}
	b := &pointSink{}
	p := newTestProvider(t, nil, a, b)
	c, err := p.Meter("lib", "").Int64Counter("requests")
	require.NoError(t, err)
	c.Add(context.Background(), 3)

	assert.ErrorIs(t, p.Shutdown(context.Background()), errA)
	assert.Equal(t, 1, b.shutdowns)
	require.Len(t, a.all(), 1)
	require.Len(t, b.all(), 1)
	assert.Equal(t, int64(3), b.all()[0].Int)

	assert.NoError(t, p.Shutdown(context.Background()))
	assert.NoError(t, p.ForceFlush(context.Background()))

	c.Add(context.Background(), 1)
	assert.NoError(t, p.ForceFlush(context.Background()))
	assert.Len(t, a.all(), 1)
	assert.Len(t, b.all(), 1)
}
