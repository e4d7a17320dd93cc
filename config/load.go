// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package config // import "go.opentelemetry.io/collector/pipelinesdk/config"

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/multierr"
)

type envKind int

const (
	envString envKind = iota
	envMillis
	envList
)

type envBinding struct {
	key  string
	kind envKind
}

// envBindings maps environment variables to configuration keys.
var envBindings = map[string]envBinding{
	"OTEL_SERVICE_NAME":                   {key: "service.name"},
	"OTEL_SERVICE_VERSION":                {key: "service.version"},
	"OTEL_DEPLOYMENT_ENVIRONMENT":         {key: "service.environment"},
	"OTEL_RESOURCE_ATTRIBUTES":            {key: "resource_attributes", kind: envList},
	"OTEL_EXPORTER_OTLP_ENABLED":          {key: "exporter.enabled"},
	"OTEL_EXPORTER_OTLP_ENDPOINT":         {key: "exporter.endpoint"},
	"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT":  {key: "exporter.traces_endpoint"},
	"OTEL_EXPORTER_OTLP_METRICS_ENDPOINT": {key: "exporter.metrics_endpoint"},
	"OTEL_EXPORTER_OTLP_LOGS_ENDPOINT":    {key: "exporter.logs_endpoint"},
	"OTEL_EXPORTER_OTLP_PROTOCOL":         {key: "exporter.protocol"},
	"OTEL_EXPORTER_OTLP_HEADERS":          {key: "exporter.headers", kind: envList},
	"OTEL_EXPORTER_OTLP_COMPRESSION":      {key: "exporter.compression"},
	"OTEL_EXPORTER_OTLP_TIMEOUT":          {key: "exporter.timeout", kind: envMillis},
	"OTEL_TRACES_SAMPLER":                 {key: "sampler.name"},
	"OTEL_TRACES_SAMPLER_ARG":             {key: "sampler.arg"},
	"OTEL_SPAN_ATTRIBUTE_COUNT_LIMIT":     {key: "span_limits.attribute_count_limit"},
	"OTEL_SPAN_EVENT_COUNT_LIMIT":         {key: "span_limits.event_count_limit"},
	"OTEL_TRACES_ENABLED":                 {key: "traces.enabled"},
	"OTEL_METRICS_ENABLED":                {key: "metrics.enabled"},
	"OTEL_LOGS_ENABLED":                   {key: "logs.enabled"},
	"OTEL_BSP_SCHEDULE_DELAY":             {key: "traces.batch.schedule_delay", kind: envMillis},
	"OTEL_BSP_EXPORT_TIMEOUT":             {key: "traces.batch.export_timeout", kind: envMillis},
	"OTEL_BSP_MAX_QUEUE_SIZE":             {key: "traces.batch.max_queue_size"},
	"OTEL_BSP_MAX_EXPORT_BATCH_SIZE":      {key: "traces.batch.max_export_batch_size"},
	"OTEL_BLRP_SCHEDULE_DELAY":            {key: "logs.batch.schedule_delay", kind: envMillis},
	"OTEL_BLRP_EXPORT_TIMEOUT":            {key: "logs.batch.export_timeout", kind: envMillis},
	"OTEL_BLRP_MAX_QUEUE_SIZE":            {key: "logs.batch.max_queue_size"},
	"OTEL_BLRP_MAX_EXPORT_BATCH_SIZE":     {key: "logs.batch.max_export_batch_size"},
	"OTEL_METRIC_EXPORT_INTERVAL":         {key: "metrics.batch.schedule_delay", kind: envMillis},
	"OTEL_METRIC_EXPORT_TIMEOUT":          {key: "metrics.batch.export_timeout", kind: envMillis},
}

// legacyEnvironment is read before OTEL_DEPLOYMENT_ENVIRONMENT, which wins.
const legacyEnvironment = "APP_ENV"

// Load returns the configuration built from NewDefault, overridden by the
// YAML file at path, if path is not empty, overridden by the environment. The
// result is not validated.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load configuration file: %w", err)
		}
	}

	var envErrs error
	legacy := env.ProviderWithValue(legacyEnvironment, ".", func(name, value string) (string, any) {
		if name != legacyEnvironment || value == "" {
			return "", nil
		}
		return "service.environment", value
	})
	if err := k.Load(legacy, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	otel := env.ProviderWithValue("OTEL_", ".", func(name, value string) (string, any) {
		b, ok := envBindings[name]
		if !ok || value == "" {
			return "", nil
		}
		v, err := b.convert(value)
		if err != nil {
			envErrs = multierr.Append(envErrs, fmt.Errorf("%s: %w", name, err))
			return "", nil
		}
		return b.key, v
	})
	if err := k.Load(otel, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	if envErrs != nil {
		return nil, envErrs
	}

	cfg := NewDefault()
	err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "mapstructure",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.TextUnmarshallerHookFunc(),
			),
			ErrorUnused:      true,
			WeaklyTypedInput: true,
			Result:           cfg,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return cfg, nil
}

func (b envBinding) convert(value string) (any, error) {
	value = strings.TrimSpace(value)
	switch b.kind {
	case envMillis:
		// Plain numbers are milliseconds, Go durations are accepted as well.
		if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
			if ms < 0 {
				return nil, fmt.Errorf("negative duration %d", ms)
			}
			return time.Duration(ms) * time.Millisecond, nil
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q", value)
		}
		return d, nil
	case envList:
		return ParseList(value)
	}
	return value, nil
}
