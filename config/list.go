// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package config // import "go.opentelemetry.io/collector/pipelinesdk/config"

import (
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/multierr"
)

// ParseList parses a "k1=v1,k2=v2" list as used by OTEL_EXPORTER_OTLP_HEADERS
// and OTEL_RESOURCE_ATTRIBUTES. Keys and values are trimmed and URL-decoded.
// Empty members are skipped, later duplicates win.
func ParseList(s string) (map[string]string, error) {
	out := map[string]string{}
	var errs error
	for _, member := range strings.Split(s, ",") {
		member = strings.TrimSpace(member)
		if member == "" {
			continue
		}
		k, v, ok := strings.Cut(member, "=")
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("invalid list member %q: missing '='", member))
			continue
		}
		key, err := url.PathUnescape(strings.TrimSpace(k))
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("invalid list key %q: %w", k, err))
			continue
		}
		if key == "" {
			errs = multierr.Append(errs, fmt.Errorf("invalid list member %q: empty key", member))
			continue
		}
		val, err := url.PathUnescape(strings.TrimSpace(v))
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("invalid list value for %q: %w", key, err))
			continue
		}
		out[key] = val
	}
	return out, errs
}
