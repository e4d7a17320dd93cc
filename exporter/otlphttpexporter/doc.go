// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package otlphttpexporter sends traces, metrics and logs to an OTLP/HTTP
// endpoint, encoded as protobuf or JSON.
package otlphttpexporter // import "go.opentelemetry.io/collector/pipelinesdk/exporter/otlphttpexporter"
