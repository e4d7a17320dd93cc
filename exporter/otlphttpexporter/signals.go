// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package otlphttpexporter // import "go.opentelemetry.io/collector/pipelinesdk/exporter/otlphttpexporter"

import (
	"go.opentelemetry.io/collector/pdata/plog/plogotlp"
	"go.opentelemetry.io/collector/pdata/pmetric/pmetricotlp"
	"go.opentelemetry.io/collector/pdata/ptrace/ptraceotlp"

	"go.opentelemetry.io/collector/pipelinesdk/component"
	"go.opentelemetry.io/collector/pipelinesdk/internal/otlptransform"
	"go.opentelemetry.io/collector/pipelinesdk/sdk/log"
	"go.opentelemetry.io/collector/pipelinesdk/sdk/metric"
	"go.opentelemetry.io/collector/pipelinesdk/sdk/trace"
)

// NewTraces returns an exporter posting spans to the traces URL of cfg.
func NewTraces(set Settings, cfg *Config, opts ...Option) (*Exporter[trace.SpanData], error) {
	return newExporter(set, cfg, signalCodec[trace.SpanData]{
		signal: component.SignalTraces,
		request: func(batch []trace.SpanData) (exportRequest, int, error) {
			td, dropped := otlptransform.Traces(batch)
			return ptraceotlp.NewExportRequestFromTraces(td), td.SpanCount(), dropped
		},
		newResponse: func() (exportResponse, func() (int64, string)) {
			resp := ptraceotlp.NewExportResponse()
			return resp, func() (int64, string) {
				ps := resp.PartialSuccess()
				return ps.RejectedSpans(), ps.ErrorMessage()
			}
		},
	}, opts)
}

// NewMetrics returns an exporter posting metric points to the metrics URL of cfg.
func NewMetrics(set Settings, cfg *Config, opts ...Option) (*Exporter[metric.Point], error) {
	return newExporter(set, cfg, signalCodec[metric.Point]{
		signal: component.SignalMetrics,
		request: func(batch []metric.Point) (exportRequest, int, error) {
			md, dropped := otlptransform.Metrics(batch)
			return pmetricotlp.NewExportRequestFromMetrics(md), md.DataPointCount(), dropped
		},
		newResponse: func() (exportResponse, func() (int64, string)) {
			resp := pmetricotlp.NewExportResponse()
			return resp, func() (int64, string) {
				ps := resp.PartialSuccess()
				return ps.RejectedDataPoints(), ps.ErrorMessage()
			}
		},
	}, opts)
}

// NewLogs returns an exporter posting log records to the logs URL of cfg.
func NewLogs(set Settings, cfg *Config, opts ...Option) (*Exporter[log.RecordData], error) {
	return newExporter(set, cfg, signalCodec[log.RecordData]{
		signal: component.SignalLogs,
		request: func(batch []log.RecordData) (exportRequest, int, error) {
			ld, dropped := otlptransform.Logs(batch)
			return plogotlp.NewExportRequestFromLogs(ld), ld.LogRecordCount(), dropped
		},
		newResponse: func() (exportResponse, func() (int64, string)) {
			resp := plogotlp.NewExportResponse()
			return resp, func() (int64, string) {
				ps := resp.PartialSuccess()
				return ps.RejectedLogRecords(), ps.ErrorMessage()
			}
		},
	}, opts)
}
