// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package resource builds the immutable attribute set that identifies the
// process emitting telemetry. One Resource is built per service and shared by
// the trace, metric and log providers.
package resource // import "go.opentelemetry.io/collector/pipelinesdk/resource"
