// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package metric // import "go.opentelemetry.io/collector/pipelinesdk/sdk/metric"

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sync"
	"time"

	"go.opentelemetry.io/collector/pdata/pmetric"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DefaultHistogramBoundaries are the bucket boundaries used when none are
// configured.
var DefaultHistogramBoundaries = []float64{0, 5, 10, 25, 50, 75, 100, 250, 500, 750, 1000, 2500, 5000, 7500, 10000}

var instrumentNameRE = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_./-]{0,254}$`)

// ErrInvalidInstrumentName is returned for names outside the OpenTelemetry
// instrument name syntax.
var ErrInvalidInstrumentName = errors.New("invalid instrument name")

type instrumentConfig struct {
	description string
	unit        string
	bounds      []float64
}

// InstrumentOption configures an instrument.
type InstrumentOption func(*instrumentConfig)

// WithDescription sets the instrument description.
func WithDescription(desc string) InstrumentOption {
	return func(c *instrumentConfig) { c.description = desc }
}

// WithUnit sets the instrument unit, e.g. "ms" or "By".
func WithUnit(unit string) InstrumentOption {
	return func(c *instrumentConfig) { c.unit = unit }
}

// WithExplicitBucketBoundaries sets the histogram boundaries. They must be
// strictly increasing and finite.
func WithExplicitBucketBoundaries(bounds ...float64) InstrumentOption {
	return func(c *instrumentConfig) { c.bounds = append([]float64(nil), bounds...) }
}

func validateBounds(bounds []float64) error {
	for i, b := range bounds {
		if math.IsNaN(b) || math.IsInf(b, 0) {
			return fmt.Errorf("histogram boundary %v is not finite", b)
		}
		if i > 0 && b <= bounds[i-1] {
			return fmt.Errorf("histogram boundaries must be strictly increasing, got %v after %v", b, bounds[i-1])
		}
	}
	return nil
}

// instrument is the shared part of all instruments.
type instrument struct {
	meter          *Meter
	name           string
	description    string
	unit           string
	instrumentKind instrumentKind
	kind           Kind
	numberType     NumberType
	monotonic      bool
	temporality    pmetric.AggregationTemporality
	bounds         []float64
	disabled       bool

	mu sync.Mutex
	// streams and order hold the attribute sets of the current interval,
	// order in first-seen order.
	streams map[attribute.Distinct]*stream
	order   []*stream
	start   time.Time
}

// Int64Counter records monotonically increasing int64 values.
type Int64Counter struct{ *instrument }

// Add adds a non-negative increment to the sum of attrs. Negative increments
// are dropped with a warning.
func (c Int64Counter) Add(ctx context.Context, incr int64, attrs ...attribute.KeyValue) {
	if incr < 0 {
		c.meter.provider.logger.Warn("Dropping negative counter increment", zap.String("instrument", c.name), zap.Int64("value", incr))
		return
	}
	c.record(ctx, attrs, measurement{isInt: true, intVal: incr})
}

// Float64Counter records monotonically increasing float64 values.
type Float64Counter struct{ *instrument }

// Add adds a non-negative increment to the sum of attrs. Negative or NaN
// increments are dropped with a warning.
func (c Float64Counter) Add(ctx context.Context, incr float64, attrs ...attribute.KeyValue) {
	if incr < 0 || math.IsNaN(incr) {
		c.meter.provider.logger.Warn("Dropping invalid counter increment", zap.String("instrument", c.name), zap.Float64("value", incr))
		return
	}
	c.record(ctx, attrs, measurement{floatVal: incr})
}

// Int64UpDownCounter records int64 values that may go up or down.
type Int64UpDownCounter struct{ *instrument }

// Add adds an increment or decrement to the sum of attrs.
func (c Int64UpDownCounter) Add(ctx context.Context, incr int64, attrs ...attribute.KeyValue) {
	c.record(ctx, attrs, measurement{isInt: true, intVal: incr})
}

// Float64Gauge records the current value of something.
type Float64Gauge struct{ *instrument }

// Record sets the current value of attrs. The last value of each collection
// interval is reported.
func (g Float64Gauge) Record(ctx context.Context, value float64, attrs ...attribute.KeyValue) {
	g.record(ctx, attrs, measurement{floatVal: value})
}

// Float64Histogram records a distribution of values.
type Float64Histogram struct{ *instrument }

// Record adds one value to the distribution of attrs. NaN values are dropped
// with a warning.
func (h Float64Histogram) Record(ctx context.Context, value float64, attrs ...attribute.KeyValue) {
	if math.IsNaN(value) {
		h.meter.provider.logger.Warn("Dropping NaN histogram value", zap.String("instrument", h.name))
		return
	}
	h.record(ctx, attrs, measurement{floatVal: value})
}
