// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package sampler contains the head samplers consulted when a trace root is
// started: always on, always off and trace id ratio based.
package sampler // import "go.opentelemetry.io/collector/pipelinesdk/sampler"
