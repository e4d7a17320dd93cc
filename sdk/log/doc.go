// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package log implements the log provider. Emitted records are correlated
// with the span active in the emitting context.
package log // import "go.opentelemetry.io/collector/pipelinesdk/sdk/log"
