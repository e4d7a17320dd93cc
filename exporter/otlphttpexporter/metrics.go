// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package otlphttpexporter // import "go.opentelemetry.io/collector/pipelinesdk/exporter/otlphttpexporter"

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"go.opentelemetry.io/collector/pipelinesdk/component"
)

const (
	namespace = "pipelinesdk"
	subsystem = "exporter_otlphttp"
)

type exporterTelemetry struct {
	sent            prometheus.Counter
	failed          prometheus.Counter
	dropped         prometheus.Counter
	rejected        prometheus.Counter
	sentBytes       prometheus.Counter
	requests        *prometheus.CounterVec
	requestDuration prometheus.Histogram

	unregister func()
}

func newExporterTelemetry(set Settings, signal component.Signal) (*exporterTelemetry, error) {
	labels := prometheus.Labels{"signal": signal.String(), "exporter": set.ID}
	opts := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{Namespace: namespace, Subsystem: subsystem, Name: name, Help: help, ConstLabels: labels}
	}
	et := &exporterTelemetry{
		sent:      prometheus.NewCounter(opts("sent_records_total", "Number of records successfully sent to the destination")),
		failed:    prometheus.NewCounter(opts("failed_records_total", "Number of records in failed export requests")),
		dropped:   prometheus.NewCounter(opts("dropped_records_total", "Number of records dropped because they cannot be serialized")),
		rejected:  prometheus.NewCounter(opts("rejected_records_total", "Number of records the destination reported as rejected")),
		sentBytes: prometheus.NewCounter(opts("sent_bytes_total", "Uncompressed size of sent request bodies")),
		requests:  prometheus.NewCounterVec(opts("requests_total", "Number of HTTP requests by response code"), []string{"code"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "request_duration_seconds",
			Help:        "Duration of HTTP requests",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}),
	}
	unregister, err := set.TelemetrySettings.Register(
		et.sent,
		et.failed,
		et.dropped,
		et.rejected,
		et.sentBytes,
		et.requests,
		et.requestDuration,
	)
	if err != nil {
		return nil, err
	}
	et.unregister = unregister
	return et, nil
}

// request records one HTTP attempt. A zero code means no response arrived.
func (et *exporterTelemetry) request(code int, elapsed time.Duration) {
	label := "error"
	if code != 0 {
		label = strconv.Itoa(code)
	}
	et.requests.WithLabelValues(label).Inc()
	et.requestDuration.Observe(elapsed.Seconds())
}
