// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package otlptransform converts batches of SDK records into pdata, grouped
// by resource and then by instrumentation scope. Records that cannot be
// represented are left out and reported.
package otlptransform // import "go.opentelemetry.io/collector/pipelinesdk/internal/otlptransform"
