// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package metric implements the metric provider. Instruments aggregate their
// measurements per attribute set: counters into a sum, gauges into the last
// value and histograms into bucket counts. Every collection interval, and on
// ForceFlush and Shutdown, each aggregate becomes one Point handed to the
// provider's processors, with delta temporality for sums and histograms.
package metric // import "go.opentelemetry.io/collector/pipelinesdk/sdk/metric"
