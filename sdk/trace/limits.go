// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package trace // import "go.opentelemetry.io/collector/pipelinesdk/sdk/trace"

// Default span limits.
const (
	DefaultAttributeCountLimit = 128
	DefaultEventCountLimit     = 128
)

// SpanLimits bounds what a span keeps. A zero limit takes the default, a
// negative one disables the limit.
type SpanLimits struct {
	// AttributeCountLimit is the maximum number of distinct attribute keys.
	// Updates of a key already present are always applied.
	AttributeCountLimit int `mapstructure:"attribute_count_limit"`
	// EventCountLimit is the maximum number of events. The oldest event is
	// evicted to make room for a new one.
	EventCountLimit int `mapstructure:"event_count_limit"`
}

// NewDefaultSpanLimits returns the limits used when none are configured.
func NewDefaultSpanLimits() SpanLimits {
	return SpanLimits{
		AttributeCountLimit: DefaultAttributeCountLimit,
		EventCountLimit:     DefaultEventCountLimit,
	}
}

func (l SpanLimits) withDefaults() SpanLimits {
	if l.AttributeCountLimit == 0 {
		l.AttributeCountLimit = DefaultAttributeCountLimit
	}
	if l.EventCountLimit == 0 {
		l.EventCountLimit = DefaultEventCountLimit
	}
	return l
}
