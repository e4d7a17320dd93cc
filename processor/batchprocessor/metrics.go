// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package batchprocessor // import "go.opentelemetry.io/collector/pipelinesdk/processor/batchprocessor"

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type trigger int

const (
	triggerTimeout trigger = iota
	triggerBatchSize
	triggerForceFlush
	triggerShutdown
)

func (t trigger) String() string {
	switch t {
	case triggerTimeout:
		return "timeout"
	case triggerBatchSize:
		return "batch_size"
	case triggerForceFlush:
		return "force_flush"
	}
	return "shutdown"
}

const (
	dropReasonOverflow = "overflow"
	dropReasonShutdown = "shutdown"
	dropReasonDeadline = "deadline"
)

const (
	namespace = "pipelinesdk"
	subsystem = "processor_batch"
)

type batchProcessorTelemetry struct {
	batchSizeTriggerSend prometheus.Counter
	timeoutTriggerSend   prometheus.Counter
	enqueued             prometheus.Counter
	exported             prometheus.Counter
	failed               *prometheus.CounterVec
	dropped              *prometheus.CounterVec
	batchSendSize        prometheus.Histogram
	exportDuration       prometheus.Histogram
	queueSize            prometheus.GaugeFunc

	unregister func()
}

func newBatchProcessorTelemetry(set Settings, queueSize func() float64) (*batchProcessorTelemetry, error) {
	labels := prometheus.Labels{"signal": set.Signal.String(), "processor": set.ID}
	opts := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{Namespace: namespace, Subsystem: subsystem, Name: name, Help: help, ConstLabels: labels}
	}
	bpt := &batchProcessorTelemetry{
		batchSizeTriggerSend: prometheus.NewCounter(opts("batch_size_trigger_send_total", "Number of times the batch was sent due to a size trigger")),
		timeoutTriggerSend:   prometheus.NewCounter(opts("timeout_trigger_send_total", "Number of times the batch was sent due to a timeout trigger")),
		enqueued:             prometheus.NewCounter(opts("records_enqueued_total", "Number of records accepted into the queue")),
		exported:             prometheus.NewCounter(opts("records_exported_total", "Number of records successfully exported")),
		failed:               prometheus.NewCounterVec(opts("records_failed_total", "Number of records in batches the exporter failed to send"), []string{"status"}),
		dropped:              prometheus.NewCounterVec(opts("records_dropped_total", "Number of records dropped before being exported"), []string{"reason"}),
		batchSendSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "batch_send_size",
			Help:        "Number of units in the batch",
			ConstLabels: labels,
			Buckets:     []float64{10, 25, 50, 75, 100, 250, 500, 750, 1000, 2000, 3000, 4000, 5000, 6000, 7000, 8000, 9000, 10000, 20000, 30000, 50000, 100000},
		}),
		exportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "export_duration_seconds",
			Help:        "Duration of export calls",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}),
		queueSize: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "queue_size",
			Help:        "Current number of queued records",
			ConstLabels: labels,
		}, queueSize),
	}
	unregister, err := set.TelemetrySettings.Register(
		bpt.batchSizeTriggerSend,
		bpt.timeoutTriggerSend,
		bpt.enqueued,
		bpt.exported,
		bpt.failed,
		bpt.dropped,
		bpt.batchSendSize,
		bpt.exportDuration,
		bpt.queueSize,
	)
	if err != nil {
		return nil, err
	}
	bpt.unregister = unregister
	return bpt, nil
}

func (bpt *batchProcessorTelemetry) record(trigger trigger, status Status, sent int, elapsed time.Duration) {
	switch trigger {
	case triggerBatchSize:
		bpt.batchSizeTriggerSend.Inc()
	case triggerTimeout:
		bpt.timeoutTriggerSend.Inc()
	}
	bpt.batchSendSize.Observe(float64(sent))
	bpt.exportDuration.Observe(elapsed.Seconds())
	if status == StatusSuccess {
		bpt.exported.Add(float64(sent))
		return
	}
	bpt.failed.WithLabelValues(status.String()).Add(float64(sent))
}

func (bpt *batchProcessorTelemetry) drop(reason string, n int) {
	bpt.dropped.WithLabelValues(reason).Add(float64(n))
}
