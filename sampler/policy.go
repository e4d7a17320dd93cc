// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package sampler // import "go.opentelemetry.io/collector/pipelinesdk/sampler"

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Policy selects one of the built-in samplers.
type Policy int

const (
	PolicyAlwaysOn Policy = iota
	PolicyAlwaysOff
	PolicyTraceIDRatio
)

func (p Policy) String() string {
	switch p {
	case PolicyAlwaysOn:
		return "always_on"
	case PolicyAlwaysOff:
		return "always_off"
	case PolicyTraceIDRatio:
		return "traceidratio"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParsePolicy.
func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePolicy maps a sampler name to a Policy. The parentbased_* names are
// accepted as aliases: child spans always inherit the decision of their
// parent, so only the root policy is configurable.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "always_on", "parentbased_always_on":
		return PolicyAlwaysOn, nil
	case "always_off", "parentbased_always_off":
		return PolicyAlwaysOff, nil
	case "traceidratio", "parentbased_traceidratio":
		return PolicyTraceIDRatio, nil
	}
	return PolicyAlwaysOn, fmt.Errorf("unknown sampler %q", name)
}

// PolicyFromName is the lenient form of ParsePolicy: unknown names fall back
// to PolicyAlwaysOn so that a typo never silently discards data. The fallback
// is logged.
func PolicyFromName(name string, logger *zap.Logger) Policy {
	p, err := ParsePolicy(name)
	if err != nil {
		if logger != nil {
			logger.Warn("Unknown sampler, falling back to always_on", zap.String("sampler", name))
		}
		return PolicyAlwaysOn
	}
	return p
}

// Config describes a sampler by policy and argument.
type Config struct {
	Policy Policy `mapstructure:"policy"`
	// Ratio is only used by PolicyTraceIDRatio.
	Ratio float64 `mapstructure:"ratio"`
}

// Validate checks the policy argument.
func (cfg Config) Validate() error {
	switch cfg.Policy {
	case PolicyAlwaysOn, PolicyAlwaysOff:
		return nil
	case PolicyTraceIDRatio:
		_, err := TraceIDRatioBased(cfg.Ratio)
		return err
	}
	return fmt.Errorf("unknown sampler policy %v", cfg.Policy)
}

// New returns the Sampler described by cfg.
func (cfg Config) New() (Sampler, error) {
	switch cfg.Policy {
	case PolicyAlwaysOn:
		return AlwaysOn(), nil
	case PolicyAlwaysOff:
		return AlwaysOff(), nil
	case PolicyTraceIDRatio:
		return TraceIDRatioBased(cfg.Ratio)
	}
	return nil, fmt.Errorf("unknown sampler policy %v", cfg.Policy)
}
