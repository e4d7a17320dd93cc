// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package component // import "go.opentelemetry.io/collector/pipelinesdk/component"

import (
	"fmt"
)

// Signal is the type of telemetry carried by a pipeline.
type Signal int

const (
	SignalTraces Signal = iota + 1
	SignalMetrics
	SignalLogs
)

// String returns the lower-case signal name used in URLs and metric labels.
func (s Signal) String() string {
	switch s {
	case SignalTraces:
		return "traces"
	case SignalMetrics:
		return "metrics"
	case SignalLogs:
		return "logs"
	}
	return fmt.Sprintf("Signal(%d)", int(s))
}

// Path returns the OTLP/HTTP path for the signal, "/v1/<signal>".
func (s Signal) Path() string {
	return "/v1/" + s.String()
}
