// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package trace // import "go.opentelemetry.io/collector/pipelinesdk/sdk/trace"

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"go.opentelemetry.io/collector/pipelinesdk/instrumentation"
	"go.opentelemetry.io/collector/pipelinesdk/resource"
	"go.opentelemetry.io/collector/pipelinesdk/sampler"
)

// ErrNilProcessor is returned by NewProvider for a nil processor entry.
var ErrNilProcessor = errors.New("nil processor")

// Processor receives ended, sampled spans. The batch processor of package
// batchprocessor satisfies it.
type Processor interface {
	// Enqueue must not block on I/O.
	Enqueue(span SpanData)
	ForceFlush(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// ProviderConfig defines configuration for a Provider.
type ProviderConfig struct {
	// Resource describes the service. Nil means resource.Default().
	Resource *resource.Resource
	// Sampler is consulted for trace roots. Nil means sampler.AlwaysOn().
	Sampler sampler.Sampler
	// Processors receive every sampled span in registration order.
	Processors  []Processor
	IDGenerator IDGenerator
	// SpanLimits bound the attributes and events of each span.
	SpanLimits SpanLimits
	Logger     *zap.Logger
}

// Provider creates Tracers and owns the span pipeline.
type Provider struct {
	resource    *resource.Resource
	sampler     sampler.Sampler
	processors  []Processor
	idGenerator IDGenerator
	spanLimits  SpanLimits
	logger      *zap.Logger

	mu      sync.Mutex
	tracers map[instrumentation.Scope]*Tracer

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
		resource:    cfg.Resource,
		sampler:     cfg.Sampler,
		processors:  append([]Processor(nil), cfg.Processors...),
		idGenerator: cfg.IDGenerator,
		spanLimits:  cfg.SpanLimits.withDefaults(),
		logger:      cfg.Logger,
		tracers:     map[instrumentation.Scope]*Tracer{},
		isShutdown:  atomic.NewBool(false),
	}
	if p.resource == nil {
		p.resource = resource.Default()
	}
	if p.sampler == nil {
		p.sampler = sampler.AlwaysOn()
	}
	if p.idGenerator == nil {
		p.idGenerator = NewRandomIDGenerator()
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	return p, nil
}

// Tracer returns the Tracer for the instrumentation scope (name, version).
// Repeated calls with the same scope return the same Tracer.
func (p *Provider) Tracer(name, version string) *Tracer {
	if name == "" {
		p.logger.Debug("Tracer requested with an empty instrumentation name")
	}
	scope := instrumentation.Scope{Name: name, Version: version}
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.tracers[scope]
	if !ok {
		t = &Tracer{provider: p, scope: scope}
		p.tracers[scope] = t
	}
	return t
}

// Resource returns the Resource attached to every span.
func (p *Provider) Resource() *resource.Resource {
	return p.resource
}

// Sampler returns the head sampler.
func (p *Provider) Sampler() sampler.Sampler {
	return p.sampler
}

func (p *Provider) onEnd(data SpanData) {
	if p.isShutdown.Load() {
		return
	}
	for _, proc := range p.processors {
		proc.Enqueue(data)
	}
}

// ForceFlush flushes every processor in registration order. A failing
// processor does not prevent the others from being flushed.
func (p *Provider) ForceFlush(ctx context.Context) error {
	if p.isShutdown.Load() {
		return nil
	}
	var errs error
	for i, proc := range p.processors {
		if err := proc.ForceFlush(ctx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("processor %d: %w", i, err))
		}
	}
	return errs
}

// Shutdown shuts every processor down in registration order and reports all
// of their errors. Spans ended afterwards are discarded and new spans are
// non-recording. Subsequent calls return nil.
func (p *Provider) Shutdown(ctx context.Context) error {
	if !p.isShutdown.CompareAndSwap(false, true) {
		return nil
	}
	var errs error
	for i, proc := range p.processors {
		if err := proc.Shutdown(ctx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("processor %d: %w", i, err))
		}
	}
	if errs != nil {
		p.logger.Warn("Trace provider shutdown reported errors", zap.Error(errs))
	}
	return errs
}
