// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package metric // import "go.opentelemetry.io/collector/pipelinesdk/sdk/metric"

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/collector/pdata/pmetric"

	"go.opentelemetry.io/collector/pipelinesdk/instrumentation"
)

// Meter creates instruments for one instrumentation scope.
type Meter struct {
	provider *Provider
	scope    instrumentation.Scope

	mu          sync.Mutex
	instruments map[string]*instrument
	// ordered holds the instruments in registration order.
	ordered []*instrument
}

// Scope returns the instrumentation scope of the meter.
func (m *Meter) Scope() instrumentation.Scope {
	return m.scope
}

type instrumentKind int

const (
	kindInt64Counter instrumentKind = iota
	kindFloat64Counter
	kindInt64UpDownCounter
	kindFloat64Gauge
	kindFloat64Histogram
)

var instrumentKindNames = [...]string{
	kindInt64Counter:       "Int64Counter",
	kindFloat64Counter:     "Float64Counter",
	kindInt64UpDownCounter: "Int64UpDownCounter",
	kindFloat64Gauge:       "Float64Gauge",
	kindFloat64Histogram:   "Float64Histogram",
}

// lookup returns the instrument registered under name, creating it if
// needed. Reusing a name for a different instrument kind is an error. On
// error the returned instrument is usable but records nothing.
func (m *Meter) lookup(name string, kind instrumentKind, opts []InstrumentOption) (*instrument, error) {
	if !instrumentNameRE.MatchString(name) {
		return m.disabled(name, kind), fmt.Errorf("%w: %q", ErrInvalidInstrumentName, name)
	}
	cfg := instrumentConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if kind == kindFloat64Histogram {
		if cfg.bounds == nil {
			cfg.bounds = DefaultHistogramBoundaries
		}
		if err := validateBounds(cfg.bounds); err != nil {
			return m.disabled(name, kind), err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.instruments[name]; ok {
		if existing.instrumentKind != kind {
			return m.disabled(name, kind), fmt.Errorf("instrument %q already registered as %s", name, instrumentKindNames[existing.instrumentKind])
		}
		return existing, nil
	}

	inst := &instrument{
		meter:          m,
		name:           name,
		description:    cfg.description,
		unit:           cfg.unit,
		instrumentKind: kind,
		numberType:     NumberTypeFloat64,
		bounds:         cfg.bounds,
		start:          time.Now(),
	}
	switch kind {
	case kindInt64Counter:
		inst.kind, inst.monotonic, inst.temporality = KindSum, true, pmetric.AggregationTemporalityDelta
		inst.numberType = NumberTypeInt64
	case kindFloat64Counter:
		inst.kind, inst.monotonic, inst.temporality = KindSum, true, pmetric.AggregationTemporalityDelta
	case kindInt64UpDownCounter:
		inst.kind, inst.temporality = KindSum, pmetric.AggregationTemporalityDelta
		inst.numberType = NumberTypeInt64
	case kindFloat64Gauge:
		inst.kind = KindGauge
	case kindFloat64Histogram:
		inst.kind, inst.temporality = KindHistogram, pmetric.AggregationTemporalityDelta
	}
	m.instruments[name] = inst
	m.ordered = append(m.ordered, inst)
	return inst, nil
}

// collect collects every instrument in registration order.
func (m *Meter) collect(now time.Time, emit func(Point)) {
	m.mu.Lock()
	instruments := slices.Clone(m.ordered)
	m.mu.Unlock()
	for _, inst := range instruments {
		inst.collect(now, emit)
	}
}

func (m *Meter) disabled(name string, kind instrumentKind) *instrument {
	return &instrument{meter: m, name: name, instrumentKind: kind, disabled: true}
}

// Int64Counter returns the counter registered under name.
func (m *Meter) Int64Counter(name string, opts ...InstrumentOption) (Int64Counter, error) {
	inst, err := m.lookup(name, kindInt64Counter, opts)
	return Int64Counter{inst}, err
}

// Float64Counter returns the counter registered under name.
func (m *Meter) Float64Counter(name string, opts ...InstrumentOption) (Float64Counter, error) {
	inst, err := m.lookup(name, kindFloat64Counter, opts)
	return Float64Counter{inst}, err
}

// Int64UpDownCounter returns the up-down counter registered under name.
func (m *Meter) Int64UpDownCounter(name string, opts ...InstrumentOption) (Int64UpDownCounter, error) {
	inst, err := m.lookup(name, kindInt64UpDownCounter, opts)
	return Int64UpDownCounter{inst}, err
}

// Float64Gauge returns the gauge registered under name.
func (m *Meter) Float64Gauge(name string, opts ...InstrumentOption) (Float64Gauge, error) {
	inst, err := m.lookup(name, kindFloat64Gauge, opts)
	return Float64Gauge{inst}, err
}

// Float64Histogram returns the histogram registered under name.
func (m *Meter) Float64Histogram(name string, opts ...InstrumentOption) (Float64Histogram, error) {
	inst, err := m.lookup(name, kindFloat64Histogram, opts)
	return Float64Histogram{inst}, err
}
