// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package instrumentation describes the code that emitted a telemetry record.
package instrumentation // import "go.opentelemetry.io/collector/pipelinesdk/instrumentation"

// Scope identifies the instrumentation library that produced a record. Handles
// returned by the providers are keyed by Scope.
type Scope struct {
	Name    string
	Version string
}

// String returns "name" or "name@version".
func (s Scope) String() string {
	if s.Version == "" {
		return s.Name
	}
	return s.Name + "@" + s.Version
}
