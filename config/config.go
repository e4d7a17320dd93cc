// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package config holds the configuration of a telemetry pipeline and loads it
// from defaults, an optional YAML file and OTEL_* environment variables.
package config // import "go.opentelemetry.io/collector/pipelinesdk/config"

import (
	"errors"
	"fmt"
	"sort"

	conventions "go.opentelemetry.io/collector/semconv/v1.18.0"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"go.opentelemetry.io/collector/pipelinesdk/exporter/otlphttpexporter"
	"go.opentelemetry.io/collector/pipelinesdk/processor/batchprocessor"
	"go.opentelemetry.io/collector/pipelinesdk/resource"
	"go.opentelemetry.io/collector/pipelinesdk/sampler"
	"go.opentelemetry.io/collector/pipelinesdk/sdk/trace"
)

// ServiceConfig identifies the instrumented service.
type ServiceConfig struct {
	// Name is service.name. Empty keeps the detected "unknown_service:<exe>".
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ExporterConfig is the OTLP/HTTP exporter shared by all signals.
type ExporterConfig struct {
	// Enabled turns exporting off. Providers are still built so that
	// instrumentation keeps working.
	Enabled                 bool `mapstructure:"enabled"`
	otlphttpexporter.Config `mapstructure:",squash"`
}

// SamplerConfig selects the trace sampler by name. Unknown names fall back
// to always_on with a warning.
type SamplerConfig struct {
	Name string  `mapstructure:"name"`
	Arg  float64 `mapstructure:"arg"`
}

// SignalConfig configures the pipeline of one signal.
type SignalConfig struct {
	Enabled bool                 `mapstructure:"enabled"`
	Batch   batchprocessor.Config `mapstructure:"batch"`
}

// Config is the configuration of the whole pipeline.
type Config struct {
	Service ServiceConfig `mapstructure:"service"`
	// ResourceAttributes are added to the resource below the service identity.
	ResourceAttributes map[string]string `mapstructure:"resource_attributes"`
	Exporter           ExporterConfig    `mapstructure:"exporter"`
	Sampler            SamplerConfig     `mapstructure:"sampler"`
	SpanLimits         trace.SpanLimits  `mapstructure:"span_limits"`

	Traces  SignalConfig `mapstructure:"traces"`
	Metrics SignalConfig `mapstructure:"metrics"`
	Logs    SignalConfig `mapstructure:"logs"`
}

// Defaults of the service identity.
const (
	DefaultServiceVersion = "1.0.0"
	DefaultEnvironment    = "production"
)

// NewDefault returns the configuration used when nothing is overridden.
func NewDefault() *Config {
	return &Config{
		Service: ServiceConfig{
			Version:     DefaultServiceVersion,
			Environment: DefaultEnvironment,
		},
		Exporter: ExporterConfig{
			Enabled: true,
			Config:  *otlphttpexporter.NewDefaultConfig(),
		},
		Sampler:    SamplerConfig{Name: sampler.PolicyAlwaysOn.String(), Arg: 1},
		SpanLimits: trace.NewDefaultSpanLimits(),
		Traces:     SignalConfig{Enabled: true, Batch: batchprocessor.NewDefaultConfig()},
		Metrics:    SignalConfig{Enabled: true, Batch: batchprocessor.NewDefaultConfig()},
		Logs:       SignalConfig{Enabled: true, Batch: batchprocessor.NewDefaultConfig()},
	}
}

var errEmptyAttributeKey = errors.New("resource_attributes: empty key")

// Validate checks the whole configuration and reports every invalid field.
func (cfg *Config) Validate() error {
	var errs error
	if cfg.Exporter.Enabled {
		if err := cfg.Exporter.Config.Validate(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("exporter: %w", err))
		}
	}
	for _, s := range []struct {
		name string
		cfg  SignalConfig
	}{
		{"traces", cfg.Traces},
		{"metrics", cfg.Metrics},
		{"logs", cfg.Logs},
	} {
		if !s.cfg.Enabled {
			continue
		}
		if err := s.cfg.Batch.Validate(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s.batch: %w", s.name, err))
		}
	}
	if cfg.Traces.Enabled {
		if err := cfg.SamplerConfig(nil).Validate(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("sampler: %w", err))
		}
	}
	if _, ok := cfg.ResourceAttributes[""]; ok {
		errs = multierr.Append(errs, errEmptyAttributeKey)
	}
	return errs
}

// SamplerConfig resolves the sampler name. An unknown name is logged to
// logger and replaced by always_on.
func (cfg *Config) SamplerConfig(logger *zap.Logger) sampler.Config {
	return sampler.Config{
		Policy: sampler.PolicyFromName(cfg.Sampler.Name, logger),
		Ratio:  cfg.Sampler.Arg,
	}
}

// Resource builds the resource of the service: the detected baseline,
// ResourceAttributes, then the service identity, the latter winning.
func (cfg *Config) Resource() *resource.Resource {
	return cfg.resourceFrom(resource.Default())
}

func (cfg *Config) resourceFrom(baseline *resource.Resource) *resource.Resource {
	keys := make([]string, 0, len(cfg.ResourceAttributes))
	for k := range cfg.ResourceAttributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	extra := make([]attribute.KeyValue, 0, len(keys))
	for _, k := range keys {
		extra = append(extra, attribute.String(k, cfg.ResourceAttributes[k]))
	}

	var identity []attribute.KeyValue
	if cfg.Service.Environment != "" {
		identity = append(identity, attribute.String(conventions.AttributeDeploymentEnvironment, cfg.Service.Environment))
	}
	return resource.BuildFrom(
		resource.Merge(baseline, resource.New(extra...)),
		cfg.Service.Name,
		cfg.Service.Version,
		identity...,
	)
}
