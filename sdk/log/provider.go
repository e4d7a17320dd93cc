// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package log // import "go.opentelemetry.io/collector/pipelinesdk/sdk/log"

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"go.opentelemetry.io/collector/pipelinesdk/instrumentation"
	"go.opentelemetry.io/collector/pipelinesdk/resource"
	"go.opentelemetry.io/collector/pipelinesdk/sdk/trace"
)

// ErrNilProcessor is returned by NewProvider for a nil processor entry.
var ErrNilProcessor = errors.New("nil processor")

// Processor receives every emitted record.
type Processor interface {
	// Enqueue must not block on I/O.
	Enqueue(record RecordData)
	ForceFlush(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// ProviderConfig defines configuration for a Provider.
type ProviderConfig struct {
	// Resource describes the service. Nil means resource.Default().
	Resource   *resource.Resource
	Processors []Processor
	Logger     *zap.Logger
}

// Provider creates Loggers and owns the log pipeline.
type Provider struct {
	resource   *resource.Resource
	processors []Processor
	logger     *zap.Logger

	mu      sync.Mutex
	loggers map[instrumentation.Scope]*Logger

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
		loggers:    map[instrumentation.Scope]*Logger{},
		isShutdown: atomic.NewBool(false),
	}
	if p.resource == nil {
		p.resource = resource.Default()
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	return p, nil
}

// Logger returns the Logger for the instrumentation scope (name, version).
// Repeated calls with the same scope return the same Logger.
func (p *Provider) Logger(name, version string) *Logger {
	scope := instrumentation.Scope{Name: name, Version: version}
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.loggers[scope]
	if !ok {
		l = &Logger{provider: p, scope: scope}
		p.loggers[scope] = l
	}
	return l
}

// Resource returns the Resource attached to every record.
func (p *Provider) Resource() *resource.Resource {
	return p.resource
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
// of their errors. Records emitted afterwards are discarded. Subsequent calls
// return nil.
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
		p.logger.Warn("Log provider shutdown reported errors", zap.Error(errs))
	}
	return errs
}

// Logger emits records for one instrumentation scope.
type Logger struct {
	provider *Provider
	scope    instrumentation.Scope
}

// Scope returns the instrumentation scope of the logger.
func (l *Logger) Scope() instrumentation.Scope {
	return l.scope
}

// Emit hands r to every processor. The record is correlated with the span
// active in ctx, if any.
func (l *Logger) Emit(ctx context.Context, r Record) {
	p := l.provider
	if p.isShutdown.Load() {
		return
	}
	if r.ObservedTimestamp.IsZero() {
		r.ObservedTimestamp = time.Now()
	}
	if r.SeverityText == "" && r.Severity != SeverityUndefined {
		r.SeverityText = r.Severity.String()
	}
	if len(r.Attributes) > 0 {
		set := attribute.NewSet(slices.Clone(r.Attributes)...)
		r.Attributes = set.ToSlice()
	}

	data := RecordData{Resource: p.resource, Scope: l.scope, Record: r}
	if ctx != nil {
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			data.TraceID = sc.TraceID
			data.SpanID = sc.SpanID
			data.Sampled = sc.Sampled
		}
	}
	for _, proc := range p.processors {
		proc.Enqueue(data)
	}
}
