// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package exportertest provides an in-memory exporter for tests.
package exportertest // import "go.opentelemetry.io/collector/pipelinesdk/exporter/exportertest"
