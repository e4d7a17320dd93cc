// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package service assembles the trace, metric and log pipelines described by
// a config.Config.
package service // import "go.opentelemetry.io/collector/pipelinesdk/service"

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go.opentelemetry.io/collector/pipelinesdk/bridge/zapbridge"
	"go.opentelemetry.io/collector/pipelinesdk/component"
	"go.opentelemetry.io/collector/pipelinesdk/config"
	"go.opentelemetry.io/collector/pipelinesdk/exporter/otlphttpexporter"
	"go.opentelemetry.io/collector/pipelinesdk/processor/batchprocessor"
	"go.opentelemetry.io/collector/pipelinesdk/resource"
	"go.opentelemetry.io/collector/pipelinesdk/sdk/global"
	"go.opentelemetry.io/collector/pipelinesdk/sdk/log"
	"go.opentelemetry.io/collector/pipelinesdk/sdk/metric"
	"go.opentelemetry.io/collector/pipelinesdk/sdk/trace"
)

// Settings holds what is needed to build a Service besides its Config.
type Settings struct {
	// Logger receives the pipeline's own diagnostics. Nil discards them.
	Logger *zap.Logger

	// Registerer receives the processor and exporter self metrics. Nil
	// disables them.
	Registerer prometheus.Registerer

	// Resource replaces the resource built from the Config.
	Resource *resource.Resource

	// ExporterOptions are applied to every exporter.
	ExporterOptions []otlphttpexporter.Option
}

// Service owns one provider per signal and the processors and exporters
// behind them.
type Service struct {
	logger   *zap.Logger
	resource *resource.Resource

	tracerProvider *trace.Provider
	meterProvider  *metric.Provider
	loggerProvider *log.Provider
}

// New validates cfg and builds the pipelines. Nothing is started when an
// error is returned.
func New(set Settings, cfg *config.Config) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger := set.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	res := set.Resource
	if res == nil {
		res = cfg.Resource()
	}
	smp, err := cfg.SamplerConfig(logger).New()
	if err != nil {
		return nil, fmt.Errorf("failed to create sampler: %w", err)
	}

	b := &builder{
		cfg:       cfg,
		telemetry: component.TelemetrySettings{Logger: logger, Registerer: set.Registerer},
		opts:      set.ExporterOptions,
	}
	tracesProcessors, err := buildProcessors(b, component.SignalTraces, cfg.Traces, otlphttpexporter.NewTraces)
	if err != nil {
		return nil, err
	}
	metricsProcessors, err := buildProcessors(b, component.SignalMetrics, cfg.Metrics, otlphttpexporter.NewMetrics)
	if err != nil {
		return nil, err
	}
	logsProcessors, err := buildProcessors(b, component.SignalLogs, cfg.Logs, otlphttpexporter.NewLogs)
	if err != nil {
		return nil, err
	}

	srv := &Service{logger: logger, resource: res}
	if srv.tracerProvider, err = trace.NewProvider(trace.ProviderConfig{
		Resource:   res,
		Sampler:    smp,
		Processors: processorsAs[trace.Processor](tracesProcessors),
		SpanLimits: cfg.SpanLimits,
		Logger:     logger,
	}); err != nil {
		return nil, err
	}
	if srv.meterProvider, err = metric.NewProvider(metric.ProviderConfig{
		Resource:        res,
		Processors:      processorsAs[metric.Processor](metricsProcessors),
		CollectInterval: cfg.Metrics.Batch.ScheduleDelay,
		Logger:          logger,
	}); err != nil {
		return nil, err
	}
	if srv.loggerProvider, err = log.NewProvider(log.ProviderConfig{
		Resource:   res,
		Processors: processorsAs[log.Processor](logsProcessors),
		Logger:     logger,
	}); err != nil {
		return nil, err
	}

	for _, started := range b.started {
		started.Start()
	}
	logger.Info("Telemetry pipeline started",
		zap.Stringer("resource", res),
		zap.String("sampler", smp.Description()),
		zap.Bool("exporting", cfg.Exporter.Enabled))
	return srv, nil
}

type starter interface{ Start() }

type builder struct {
	cfg       *config.Config
	telemetry component.TelemetrySettings
	opts      []otlphttpexporter.Option
	started   []starter
}

// buildProcessors returns the batch processor of a signal, or none when the
// signal or exporting is disabled.
func buildProcessors[T any](
	b *builder,
	signal component.Signal,
	scfg config.SignalConfig,
	newExporter func(otlphttpexporter.Settings, *otlphttpexporter.Config, ...otlphttpexporter.Option) (*otlphttpexporter.Exporter[T], error),
) ([]*batchprocessor.Processor[T], error) {
	if !scfg.Enabled || !b.cfg.Exporter.Enabled {
		return nil, nil
	}
	exp, err := newExporter(otlphttpexporter.Settings{TelemetrySettings: b.telemetry}, &b.cfg.Exporter.Config, b.opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create %v exporter: %w", signal, err)
	}
	bp, err := batchprocessor.New[T](batchprocessor.Settings{
		Signal:            signal,
		TelemetrySettings: b.telemetry,
	}, scfg.Batch, exp)
	if err != nil {
		return nil, fmt.Errorf("failed to create %v processor: %w", signal, err)
	}
	b.started = append(b.started, bp)
	return []*batchprocessor.Processor[T]{bp}, nil
}

func processorsAs[P any, T any](in []*batchprocessor.Processor[T]) []P {
	out := make([]P, 0, len(in))
	for _, p := range in {
		out = append(out, any(p).(P))
	}
	return out
}

// TracerProvider returns the provider of the traces pipeline.
func (srv *Service) TracerProvider() *trace.Provider { return srv.tracerProvider }

// MeterProvider returns the provider of the metrics pipeline.
func (srv *Service) MeterProvider() *metric.Provider { return srv.meterProvider }

// LoggerProvider returns the provider of the logs pipeline.
func (srv *Service) LoggerProvider() *log.Provider { return srv.loggerProvider }

// Resource returns the resource attached to every record.
func (srv *Service) Resource() *resource.Resource { return srv.resource }

// ZapLogger returns a logger whose entries at or above level are emitted
// through the logs pipeline under the instrumentation scope name. Entries are
// also written to the Settings.Logger.
func (srv *Service) ZapLogger(name string, level zapcore.LevelEnabler) *zap.Logger {
	bridge := zapbridge.NewCore(srv.loggerProvider.Logger(name, ""), level)
	return srv.logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, bridge)
	}))
}

// RegisterGlobal makes the providers reachable through package global. It
// fails for every provider kind already registered.
func (srv *Service) RegisterGlobal() error {
	return multierr.Combine(
		global.SetTracerProvider(srv.tracerProvider),
		global.SetMeterProvider(srv.meterProvider),
		global.SetLoggerProvider(srv.loggerProvider),
	)
}

// ForceFlush flushes every pipeline and reports all failures.
func (srv *Service) ForceFlush(ctx context.Context) error {
	var errs error
	if err := srv.tracerProvider.ForceFlush(ctx); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("failed to flush traces: %w", err))
	}
	if err := srv.meterProvider.ForceFlush(ctx); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("failed to flush metrics: %w", err))
	}
	if err := srv.loggerProvider.ForceFlush(ctx); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("failed to flush logs: %w", err))
	}
	return errs
}

// Shutdown shuts every pipeline down in the order traces, metrics, logs. A
// failing pipeline does not prevent the others from shutting down.
func (srv *Service) Shutdown(ctx context.Context) error {
	var errs error
	if err := srv.tracerProvider.Shutdown(ctx); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("failed to shutdown traces: %w", err))
	}
	if err := srv.meterProvider.Shutdown(ctx); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("failed to shutdown metrics: %w", err))
	}
	if err := srv.loggerProvider.Shutdown(ctx); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("failed to shutdown logs: %w", err))
	}
	srv.logger.Info("Shutdown complete.")
	return errs
}
