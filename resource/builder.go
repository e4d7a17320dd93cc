// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package resource // import "go.opentelemetry.io/collector/pipelinesdk/resource"

import (
	conventions "go.opentelemetry.io/collector/semconv/v1.18.0"
	"go.opentelemetry.io/otel/attribute"
)

// Build returns the resource of a service: the detected Default baseline, the
// service identity and extras, in increasing order of precedence.
func Build(serviceName, serviceVersion string, extras ...attribute.KeyValue) *Resource {
	return BuildFrom(Default(), serviceName, serviceVersion, extras...)
}

// BuildFrom is Build with an explicit baseline. Empty serviceName or
// serviceVersion leave the baseline value in place.
func BuildFrom(baseline *Resource, serviceName, serviceVersion string, extras ...attribute.KeyValue) *Resource {
	identity := make([]attribute.KeyValue, 0, len(extras)+2)
	if serviceName != "" {
		identity = append(identity, attribute.String(conventions.AttributeServiceName, serviceName))
	}
	if serviceVersion != "" {
		identity = append(identity, attribute.String(conventions.AttributeServiceVersion, serviceVersion))
	}
	identity = append(identity, extras...)
	return Merge(baseline, New(identity...))
}
