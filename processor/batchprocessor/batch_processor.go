// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package batchprocessor // import "go.opentelemetry.io/collector/pipelinesdk/processor/batchprocessor"

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"go.opentelemetry.io/collector/pipelinesdk/component"
)

// ErrTimeout is returned by ForceFlush and Shutdown when the caller's deadline
// passed before every queued record was handed to the exporter.
var ErrTimeout = errors.New("batch processor: deadline exceeded")

// Exporter sends batches of records. Export must be safe for concurrent use.
type Exporter[T any] interface {
	Export(ctx context.Context, batch []T) error
	Shutdown(ctx context.Context) error
}

// Settings identifies a processor and gives it its telemetry.
type Settings struct {
	// ID names the processor in logs and metric labels.
	ID     string
	Signal component.Signal
	component.TelemetrySettings
}

// Stats is a snapshot of the processor counters.
type Stats struct {
	// Queued is the number of records currently waiting for export.
	Queued int
	// Enqueued counts records accepted by Enqueue, including ones later evicted.
	Enqueued int64
	Exported int64
	// Dropped counts records discarded before an export attempt: overflow,
	// enqueue after shutdown and records left over when a deadline passed.
	Dropped int64
	// Failed counts records in batches whose export failed or timed out.
	Failed int64
}

// Processor is a bounded in-memory queue that hands records to an Exporter in
// batches. Batches are sent out when any of the following happens:
//   - the queue holds MaxExportBatchSize records,
//   - ScheduleDelay elapsed since the previous periodic flush,
//   - ForceFlush or Shutdown is called.
//
// A batch is handed to exactly one export attempt. Failed batches are logged
// and discarded.
type Processor[T any] struct {
	cfg       Config
	exporter  Exporter[T]
	logger    *zap.Logger
	signal    component.Signal
	telemetry *batchProcessorTelemetry

	mu      sync.Mutex
	queue   *ring[T]
	started bool
	stopped bool

	// exportSem serializes flushes. It is a channel so that acquiring it
	// respects the caller's context.
	exportSem chan struct{}
	fullC     chan struct{}
	shutdownC chan struct{}

	goroutines   sync.WaitGroup
	shutdownOnce sync.Once
	shutdownErr  error

	enqueued *atomic.Int64
	exported *atomic.Int64
	dropped  *atomic.Int64
	failed   *atomic.Int64
}

// New creates a processor feeding exp. The periodic flush starts with Start.
func New[T any](set Settings, cfg Config, exp Exporter[T]) (*Processor[T], error) {
	if exp == nil {
		return nil, errors.New("nil exporter")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid batch processor config: %w", err)
	}
	set.TelemetrySettings = set.TelemetrySettings.WithDefaults()
	if set.ID == "" {
		set.ID = "batch"
	}

	bp := &Processor[T]{
		cfg:       cfg,
		exporter:  exp,
		logger:    set.Logger.With(zap.String("processor", set.ID), zap.Stringer("signal", set.Signal)),
		signal:    set.Signal,
		queue:     newRing[T](cfg.MaxQueueSize),
		exportSem: make(chan struct{}, 1),
		fullC:     make(chan struct{}, 1),
		shutdownC: make(chan struct{}),
		enqueued:  atomic.NewInt64(0),
		exported:  atomic.NewInt64(0),
		dropped:   atomic.NewInt64(0),
		failed:    atomic.NewInt64(0),
	}
	tel, err := newBatchProcessorTelemetry(set, func() float64 {
		bp.mu.Lock()
		defer bp.mu.Unlock()
		return float64(bp.queue.len())
	})
	if err != nil {
		return nil, err
	}
	bp.telemetry = tel
	return bp, nil
}

// Start launches the periodic flush loop. Calling it more than once, or after
// Shutdown, has no effect.
func (bp *Processor[T]) Start() {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	// Add must not race with the Wait in shutdown, which only runs after
	// stopped is set under mu.
	if bp.started || bp.stopped {
		return
	}
	bp.started = true
	bp.goroutines.Add(1)
	go bp.startProcessingCycle()
}

// Enqueue adds a record to the queue. It never blocks on export; when the
// queue is full a record is dropped according to the overflow policy.
func (bp *Processor[T]) Enqueue(item T) {
	bp.mu.Lock()
	if bp.stopped {
		bp.mu.Unlock()
		bp.drop(dropReasonShutdown, 1)
		return
	}
	evicted := false
	if bp.queue.full() {
		if bp.cfg.OverflowPolicy == DropNewest {
			bp.mu.Unlock()
			bp.drop(dropReasonOverflow, 1)
			return
		}
		bp.queue.popFront()
		evicted = true
	}
	bp.queue.push(item)
	batchReady := bp.queue.len() >= bp.cfg.MaxExportBatchSize
	bp.mu.Unlock()

	bp.enqueued.Inc()
	bp.telemetry.enqueued.Inc()
	if evicted {
		bp.drop(dropReasonOverflow, 1)
	}
	if batchReady {
		select {
		case bp.fullC <- struct{}{}:
		default:
		}
	}
}

// ForceFlush exports every record queued at the time of the call, in
// enqueue order and in batches of at most MaxExportBatchSize. Export
// failures are logged, not returned. If ctx expires first, the remaining
// records are dropped and an error wrapping ErrTimeout is returned.
func (bp *Processor[T]) ForceFlush(ctx context.Context) error {
	return bp.flush(ctx, triggerForceFlush)
}

// Shutdown stops the periodic flush, exports what is still queued and shuts
// the exporter down. Records enqueued afterwards are dropped. Only the first
// call does any work.
func (bp *Processor[T]) Shutdown(ctx context.Context) error {
	bp.shutdownOnce.Do(func() {
		bp.shutdownErr = bp.shutdown(ctx)
	})
	return bp.shutdownErr
}

func (bp *Processor[T]) shutdown(ctx context.Context) error {
	bp.mu.Lock()
	bp.stopped = true
	bp.mu.Unlock()
	close(bp.shutdownC)

	var errs error
	if err := bp.waitForLoop(ctx); err != nil {
		errs = multierr.Append(errs, err)
	} else if err := bp.flush(ctx, triggerShutdown); err != nil {
		errs = multierr.Append(errs, err)
	}

	bp.mu.Lock()
	left := bp.queue.len()
	bp.queue.take(left)
	bp.mu.Unlock()
	if left > 0 {
		bp.drop(dropReasonShutdown, left)
		bp.logger.Warn("Dropping queued records on shutdown", zap.Int("records", left))
	}

	if err := bp.exporter.Shutdown(ctx); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("exporter shutdown: %w", err))
	}
	bp.telemetry.unregister()
	return errs
}

// Stats returns a snapshot of the processor counters.
func (bp *Processor[T]) Stats() Stats {
	bp.mu.Lock()
	queued := bp.queue.len()
	bp.mu.Unlock()
	return Stats{
		Queued:   queued,
		Enqueued: bp.enqueued.Load(),
		Exported: bp.exported.Load(),
		Dropped:  bp.dropped.Load(),
		Failed:   bp.failed.Load(),
	}
}

func (bp *Processor[T]) waitForLoop(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		bp.goroutines.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: waiting for the flush loop: %w", ErrTimeout, ctx.Err())
	}
}

func (bp *Processor[T]) startProcessingCycle() {
	defer bp.goroutines.Done()
	timer := time.NewTimer(bp.cfg.ScheduleDelay)
	defer timer.Stop()
	for {
		select {
		case <-bp.shutdownC:
			return
		case <-bp.fullC:
			bp.flushFromLoop(triggerBatchSize)
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(bp.cfg.ScheduleDelay)
		case <-timer.C:
			bp.flushFromLoop(triggerTimeout)
			timer.Reset(bp.cfg.ScheduleDelay)
		}
	}
}

func (bp *Processor[T]) flushFromLoop(trigger trigger) {
	// Each export is bounded by ExportTimeout; the loop itself has no deadline.
	if err := bp.flush(context.Background(), trigger); err != nil {
		bp.logger.Warn("Periodic flush did not complete", zap.Error(err))
	}
}

// flush exports the records queued when it acquires the export semaphore.
// Records enqueued while it runs wait for the next flush.
func (bp *Processor[T]) flush(ctx context.Context, trigger trigger) error {
	select {
	case bp.exportSem <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrTimeout, ctx.Err())
	}
	defer func() { <-bp.exportSem }()

	bp.mu.Lock()
	pending := bp.queue.len()
	bp.mu.Unlock()

	for pending > 0 {
		if err := ctx.Err(); err != nil {
			bp.dropPending(pending)
			return fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		bp.mu.Lock()
		batch := bp.queue.take(min(pending, bp.cfg.MaxExportBatchSize))
		bp.mu.Unlock()
		if len(batch) == 0 {
			return nil
		}
		// Evictions may have shrunk the queue since pending was read.
		pending -= len(batch)
		if err := bp.export(ctx, batch, trigger); err != nil {
			bp.dropPending(pending)
			return fmt.Errorf("%w: %w", ErrTimeout, err)
		}
	}
	return nil
}

// dropPending drops up to n of the oldest queued records.
func (bp *Processor[T]) dropPending(n int) {
	bp.mu.Lock()
	dropped := len(bp.queue.take(n))
	bp.mu.Unlock()
	if dropped > 0 {
		bp.drop(dropReasonDeadline, dropped)
		bp.logger.Warn("Dropping records, flush deadline exceeded", zap.Int("records", dropped))
	}
}

// export hands batch to the exporter and waits for the result until the
// export timeout or ctx expires, whichever comes first. An abandoned export
// keeps running in the background but its result is ignored. The returned
// error is non-nil only when ctx itself expired.
func (bp *Processor[T]) export(ctx context.Context, batch []T, trigger trigger) error {
	exportCtx, cancel := ctx, context.CancelFunc(func() {})
	if bp.cfg.ExportTimeout > 0 {
		exportCtx, cancel = context.WithTimeout(ctx, bp.cfg.ExportTimeout)
	}
	defer cancel()

	start := time.Now()
	result := make(chan error, 1)
	go func() {
		result <- bp.exporter.Export(exportCtx, batch)
	}()

	var err error
	select {
	case err = <-result:
	case <-exportCtx.Done():
		err = fmt.Errorf("export abandoned: %w", context.DeadlineExceeded)
	}

	status := StatusFromError(err)
	bp.telemetry.record(trigger, status, len(batch), time.Since(start))
	if status == StatusSuccess {
		bp.exported.Add(int64(len(batch)))
		return nil
	}
	bp.failed.Add(int64(len(batch)))
	bp.logger.Warn("Sender failed",
		zap.Stringer("status", status),
		zap.Stringer("trigger", trigger),
		zap.Int("records", len(batch)),
		zap.Error(err))
	return ctx.Err()
}

func (bp *Processor[T]) drop(reason string, n int) {
	bp.dropped.Add(int64(n))
	bp.telemetry.drop(reason, n)
}
