// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package otlphttpexporter // import "go.opentelemetry.io/collector/pipelinesdk/exporter/otlphttpexporter"

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/multierr"

	"go.opentelemetry.io/collector/pipelinesdk/component"
)

// Protocol is the OTLP wire encoding.
type Protocol string

const (
	// ProtocolHTTPProtobuf sends binary protobuf payloads.
	ProtocolHTTPProtobuf Protocol = "http/protobuf"
	// ProtocolHTTPJSON sends protobuf-JSON payloads.
	ProtocolHTTPJSON Protocol = "http/json"
)

const (
	contentTypeProtobuf = "application/x-protobuf"
	contentTypeJSON     = "application/json"
)

// ContentType returns the Content-Type header value of the protocol.
func (p Protocol) ContentType() string {
	if p == ProtocolHTTPJSON {
		return contentTypeJSON
	}
	return contentTypeProtobuf
}

// Compression is the Content-Encoding applied to request bodies.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
)

// RetrySettings defines configuration for retrying batches after a retryable
// failure. Retries never outlive the export timeout.
type RetrySettings struct {
	// Enabled indicates whether to retry. Disabled by default so that a
	// failed batch costs one request.
	Enabled bool `mapstructure:"enabled"`
	// InitialInterval is the time to wait after the first failure.
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	// MaxInterval is the upper bound on backoff interval.
	MaxInterval time.Duration `mapstructure:"max_interval"`
	// MaxElapsedTime is the maximum amount of time spent trying to send a
	// batch, further bounded by the export timeout.
	MaxElapsedTime time.Duration `mapstructure:"max_elapsed_time"`
}

// NewDefaultRetrySettings returns the default retry settings.
func NewDefaultRetrySettings() RetrySettings {
	return RetrySettings{
		Enabled:         false,
		InitialInterval: time.Second,
		MaxInterval:     5 * time.Second,
		MaxElapsedTime:  30 * time.Second,
	}
}

// Config defines configuration for the OTLP/HTTP exporter.
type Config struct {
	// Endpoint is the base URL; "/v1/<signal>" is appended per signal.
	Endpoint string `mapstructure:"endpoint"`

	// The URL to send traces to. If omitted the Endpoint + "/v1/traces" will be used.
	TracesEndpoint string `mapstructure:"traces_endpoint"`

	// The URL to send metrics to. If omitted the Endpoint + "/v1/metrics" will be used.
	MetricsEndpoint string `mapstructure:"metrics_endpoint"`

	// The URL to send logs to. If omitted the Endpoint + "/v1/logs" will be used.
	LogsEndpoint string `mapstructure:"logs_endpoint"`

	Protocol Protocol `mapstructure:"protocol"`

	// Headers are added to every request.
	Headers map[string]string `mapstructure:"headers"`

	Compression Compression `mapstructure:"compression"`

	// Timeout bounds one export call, retries included.
	Timeout time.Duration `mapstructure:"timeout"`

	RetryOnFailure RetrySettings `mapstructure:"retry_on_failure"`
}

// DefaultEndpoint is the local collector OTLP/HTTP endpoint.
const DefaultEndpoint = "http://localhost:4318"

// NewDefaultConfig returns the default exporter configuration.
func NewDefaultConfig() *Config {
	return &Config{
		Endpoint:       DefaultEndpoint,
		Protocol:       ProtocolHTTPProtobuf,
		Compression:    CompressionNone,
		Timeout:        10 * time.Second,
		RetryOnFailure: NewDefaultRetrySettings(),
	}
}

var (
	errNoEndpoint      = errors.New("at least one endpoint must be specified")
	errNegativeTimeout = errors.New("timeout must not be negative")
)

// Validate checks if the exporter configuration is valid.
func (cfg *Config) Validate() error {
	var errs error
	if cfg.Endpoint == "" && cfg.TracesEndpoint == "" && cfg.MetricsEndpoint == "" && cfg.LogsEndpoint == "" {
		errs = multierr.Append(errs, errNoEndpoint)
	}
	for name, endpoint := range map[string]string{
		"endpoint":         cfg.Endpoint,
		"traces_endpoint":  cfg.TracesEndpoint,
		"metrics_endpoint": cfg.MetricsEndpoint,
		"logs_endpoint":    cfg.LogsEndpoint,
	} {
		if endpoint == "" {
			continue
		}
		if err := validateEndpoint(endpoint); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	switch cfg.Protocol {
	case ProtocolHTTPProtobuf, ProtocolHTTPJSON, "":
	case "grpc":
		errs = multierr.Append(errs, errors.New(`protocol "grpc" is not supported, use "http/protobuf" or "http/json"`))
	default:
		errs = multierr.Append(errs, fmt.Errorf("unknown protocol %q", cfg.Protocol))
	}
	switch cfg.Compression {
	case CompressionNone, CompressionGzip, CompressionZstd, "":
	default:
		errs = multierr.Append(errs, fmt.Errorf("unsupported compression %q", cfg.Compression))
	}
	if cfg.Timeout < 0 {
		errs = multierr.Append(errs, errNegativeTimeout)
	}
	if r := cfg.RetryOnFailure; r.Enabled && (r.InitialInterval <= 0 || r.MaxInterval <= 0) {
		errs = multierr.Append(errs, errors.New("retry_on_failure intervals must be positive"))
	}
	return errs
}

func validateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q: scheme must be http or https", endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("%q: missing host", endpoint)
	}
	return nil
}

// SignalURL returns the URL the signal is posted to: the per-signal override
// if set, else Endpoint with "/v1/<signal>" appended.
func (cfg *Config) SignalURL(signal component.Signal) (string, error) {
	var override string
	switch signal {
	case component.SignalTraces:
		override = cfg.TracesEndpoint
	case component.SignalMetrics:
		override = cfg.MetricsEndpoint
	case component.SignalLogs:
		override = cfg.LogsEndpoint
	default:
		return "", fmt.Errorf("unknown signal %v", signal)
	}
	if override != "" {
		return override, validateEndpoint(override)
	}
	if cfg.Endpoint == "" {
		return "", fmt.Errorf("no endpoint configured for %v", signal)
	}
	if err := validateEndpoint(cfg.Endpoint); err != nil {
		return "", err
	}
	return strings.TrimSuffix(cfg.Endpoint, "/") + signal.Path(), nil
}
