// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package batchprocessor implements the bounded record queue that sits between
// the providers and an exporter. Records are exported in batches on a timer,
// when a full batch is available, or on an explicit flush. Memory is bounded:
// overflowing records and failed batches are counted and discarded, never
// retried.
package batchprocessor // import "go.opentelemetry.io/collector/pipelinesdk/processor/batchprocessor"
