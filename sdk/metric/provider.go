// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package metric // import "go.opentelemetry.io/collector/pipelinesdk/sdk/metric"

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"go.opentelemetry.io/collector/pipelinesdk/instrumentation"
	"go.opentelemetry.io/collector/pipelinesdk/resource"
)

// ErrNilProcessor is returned by NewProvider for a nil processor entry.
var ErrNilProcessor = errors.New("nil processor")

// DefaultCollectInterval is the collection period used when none is
// configured.
const DefaultCollectInterval = time.Minute

// Processor receives the points of every collection.
type Processor interface {
	// Enqueue must not block on I/O.
	Enqueue(point Point)
	ForceFlush(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// ProviderConfig defines configuration for a Provider.
type ProviderConfig struct {
	// Resource describes the service. Nil means resource.Default().
	Resource   *resource.Resource
	Processors []Processor
	// CollectInterval is the period at which aggregated points are handed to
	// the processors. Zero means DefaultCollectInterval; a negative value
	// collects only on ForceFlush and Shutdown.
	CollectInterval time.Duration
	Logger          *zap.Logger
}

// Provider creates Meters and owns the metric pipeline.
type Provider struct {
	resource   *resource.Resource
	processors []Processor
	logger     *zap.Logger

	mu     sync.Mutex
	meters map[instrumentation.Scope]*Meter
	// ordered holds the meters in creation order.
	ordered []*Meter

	// collectMu serializes collections so that ForceFlush sees the points of
	// a concurrent periodic collection.
	collectMu  sync.Mutex
	stopC      chan struct{}
	loop       sync.WaitGroup
	isShutdown *atomic.Bool
}

// NewProvider validates cfg and returns a Provider.
func NewProvider(cfg ProviderConfig) (*Provider, error) {
	for i, p := range cfg.Processors {
		if p == nil {
			return nil, fmt.Errorf("processor %d: %w", i, ErrNilProcessor)
		}
	}
	p := &Provider{
		resource:   cfg.Resource,
		processors: append([]Processor(nil), cfg.Processors...),
		logger:     cfg.Logger,
		meters:     map[instrumentation.Scope]*Meter{},
		stopC:      make(chan struct{}),
		isShutdown: atomic.NewBool(false),
	}
	if p.resource == nil {
		p.resource = resource.Default()
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	interval := cfg.CollectInterval
	if interval == 0 {
		interval = DefaultCollectInterval
	}
	if interval > 0 && len(p.processors) > 0 {
		p.loop.Add(1)
		go p.collectLoop(interval)
	}
	return p, nil
}

func (p *Provider) collectLoop(interval time.Duration) {
	defer p.loop.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-p.stopC:
			return
		case <-ticker.C:
			p.collect()
		}
	}
}

// collect hands the points aggregated since the previous collection to the
// processors.
func (p *Provider) collect() {
	p.collectMu.Lock()
	defer p.collectMu.Unlock()
	p.mu.Lock()
	meters := slices.Clone(p.ordered)
	p.mu.Unlock()
	now := time.Now()
	for _, m := range meters {
		m.collect(now, p.emit)
	}
}

// Meter returns the Meter for the instrumentation scope (name, version).
// Repeated calls with the same scope return the same Meter.
func (p *Provider) Meter(name, version string) *Meter {
	scope := instrumentation.Scope{Name: name, Version: version}
	p.mu.Lock()
	defer p.mu.Unlock()
	m, ok := p.meters[scope]
	if !ok {
		m = &Meter{provider: p, scope: scope, instruments: map[string]*instrument{}}
		p.meters[scope] = m
		p.ordered = append(p.ordered, m)
	}
	return m
}

// Resource returns the Resource attached to every point.
func (p *Provider) Resource() *resource.Resource {
	return p.resource
}

func (p *Provider) emit(pt Point) {
	for _, proc := range p.processors {
		proc.Enqueue(pt)
	}
}

// ForceFlush collects the pending aggregates, then flushes every processor in
// registration order. A failing processor does not prevent the others from
// being flushed.
func (p *Provider) ForceFlush(ctx context.Context) error {
	if p.isShutdown.Load() {
		return nil
	}
	p.collect()
	var errs error
	for i, proc := range p.processors {
		if err := proc.ForceFlush(ctx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("processor %d: %w", i, err))
		}
	}
	return errs
}

// Shutdown stops the periodic collection, hands the pending aggregates to the
// processors and shuts them down in registration order, reporting all of
// their errors. Measurements taken afterwards are discarded. Subsequent calls
// return nil.
func (p *Provider) Shutdown(ctx context.Context) error {
	if !p.isShutdown.CompareAndSwap(false, true) {
		return nil
	}
	close(p.stopC)
	p.loop.Wait()
	p.collect()
	var errs error
	for i, proc := range p.processors {
		if err := proc.Shutdown(ctx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("processor %d: %w", i, err))
		}
	}
	if errs != nil {
		p.logger.Warn("Metric provider shutdown reported errors", zap.Error(errs))
	}
	return errs
}
