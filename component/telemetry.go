// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package component // import "go.opentelemetry.io/collector/pipelinesdk/component"

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// ErrAlreadyRegistered is returned by Register when a collector with the same
// descriptor is already registered.
var ErrAlreadyRegistered = errors.New("telemetry already registered")

// TelemetrySettings provides pipeline components with the APIs used to report
// on their own behavior.
type TelemetrySettings struct {
	// Logger receives export failures, dropped records and lifecycle events.
	Logger *zap.Logger

	// Registerer, if set, receives the self-observability collectors of the
	// processors and exporters. Nil disables registration.
	Registerer prometheus.Registerer
}

// NewNopTelemetrySettings returns settings that discard everything.
func NewNopTelemetrySettings() TelemetrySettings {
	return TelemetrySettings{Logger: zap.NewNop()}
}

// WithDefaults returns a copy of ts with a no-op logger in place of a nil one.
func (ts TelemetrySettings) WithDefaults() TelemetrySettings {
	if ts.Logger == nil {
		ts.Logger = zap.NewNop()
	}
	return ts
}

// Register registers the collectors on the configured Registerer, if any.
// Registration is all or nothing: if a collector is rejected, for example
// because a component with the same identity already registered it, the ones
// registered before it are removed again. The returned function unregisters
// every collector and is never nil.
func (ts TelemetrySettings) Register(cs ...prometheus.Collector) (unregister func(), err error) {
	if ts.Registerer == nil {
		return func() {}, nil
	}
	registered := make([]prometheus.Collector, 0, len(cs))
	unregister = func() {
		for _, c := range registered {
			ts.Registerer.Unregister(c)
		}
	}
	for _, c := range cs {
		if err := ts.Registerer.Register(c); err != nil {
			unregister()
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				return nil, fmt.Errorf("%w: %w", ErrAlreadyRegistered, err)
			}
			return nil, err
		}
		registered = append(registered, c)
	}
	return unregister, nil
}
