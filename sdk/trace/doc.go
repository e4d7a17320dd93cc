// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package trace implements the trace provider. A Provider owns the service
// Resource, the head Sampler and the processors that receive ended spans.
//
// Sampling is decided once, when a trace root starts. Every descendant, local
// or propagated from a remote process, inherits that decision so a trace is
// never partially sampled.
package trace // import "go.opentelemetry.io/collector/pipelinesdk/sdk/trace"
