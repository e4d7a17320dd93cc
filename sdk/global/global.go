// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package global holds the process-wide default providers. Each provider can
// be registered once; Reset is the explicit teardown used by tests and by
// services that rebuild their pipeline.
package global // import "go.opentelemetry.io/collector/pipelinesdk/sdk/global"

import (
	"errors"

	"go.uber.org/atomic"

	"go.opentelemetry.io/collector/pipelinesdk/resource"
	"go.opentelemetry.io/collector/pipelinesdk/sampler"
	"go.opentelemetry.io/collector/pipelinesdk/sdk/log"
	"go.opentelemetry.io/collector/pipelinesdk/sdk/metric"
	"go.opentelemetry.io/collector/pipelinesdk/sdk/trace"
)

// ErrAlreadyRegistered is returned when a provider of the same signal was
// registered before.
var ErrAlreadyRegistered = errors.New("a global provider is already registered")

var errNilProvider = errors.New("nil provider")

var (
	tracerProvider atomic.Pointer[trace.Provider]
	meterProvider  atomic.Pointer[metric.Provider]
	loggerProvider atomic.Pointer[log.Provider]

	noopTracerProvider = mustNoop(trace.NewProvider(trace.ProviderConfig{Resource: resource.Empty(), Sampler: sampler.AlwaysOff()}))
	noopMeterProvider  = mustNoop(metric.NewProvider(metric.ProviderConfig{Resource: resource.Empty()}))
	noopLoggerProvider = mustNoop(log.NewProvider(log.ProviderConfig{Resource: resource.Empty()}))
)

func mustNoop[T any](p T, err error) T {
	if err != nil {
		panic(err)
	}
	return p
}

// SetTracerProvider registers tp as the global trace provider.
func SetTracerProvider(tp *trace.Provider) error {
	return set(&tracerProvider, tp)
}

// SetMeterProvider registers mp as the global metric provider.
func SetMeterProvider(mp *metric.Provider) error {
	return set(&meterProvider, mp)
}

// SetLoggerProvider registers lp as the global log provider.
func SetLoggerProvider(lp *log.Provider) error {
	return set(&loggerProvider, lp)
}

func set[T any](slot *atomic.Pointer[T], p *T) error {
	if p == nil {
		return errNilProvider
	}
	if !slot.CompareAndSwap(nil, p) {
		return ErrAlreadyRegistered
	}
	return nil
}

// TracerProvider returns the registered trace provider, or a provider whose
// spans are never recorded.
func TracerProvider() *trace.Provider {
	if tp := tracerProvider.Load(); tp != nil {
		return tp
	}
	return noopTracerProvider
}

// MeterProvider returns the registered metric provider, or a provider without
// processors.
func MeterProvider() *metric.Provider {
	if mp := meterProvider.Load(); mp != nil {
		return mp
	}
	return noopMeterProvider
}

// LoggerProvider returns the registered log provider, or a provider without
// processors.
func LoggerProvider() *log.Provider {
	if lp := loggerProvider.Load(); lp != nil {
		return lp
	}
	return noopLoggerProvider
}

// Reset forgets every registered provider. It does not shut them down.
func Reset() {
	tracerProvider.Store(nil)
	meterProvider.Store(nil)
	loggerProvider.Store(nil)
}
