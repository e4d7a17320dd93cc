// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package exportertest // import "go.opentelemetry.io/collector/pipelinesdk/exporter/exportertest"

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSinkShutdown is returned by Export after Shutdown.
var ErrSinkShutdown = errors.New("sink is shut down")

// Sink is an exporter that stores every batch it receives and allows querying
// them for testing. Failures and latency can be injected.
type Sink[T any] struct {
	mu        sync.Mutex
	batches   [][]T
	count     int
	calls     int
	err       error
	delay     time.Duration
	block     chan struct{}
	shutdown  bool
	shutdowns int
}

// Option configures a Sink.
type Option[T any] func(*Sink[T])

// WithError makes every Export call fail with err without storing the batch.
func WithError[T any](err error) Option[T] {
	return func(s *Sink[T]) { s.err = err }
}

// WithDelay makes every Export call sleep for d, or until its context ends.
func WithDelay[T any](d time.Duration) Option[T] {
	return func(s *Sink[T]) { s.delay = d }
}

// WithBlock makes every Export call wait until ch is closed or its context
// ends, whichever happens first.
func WithBlock[T any](ch chan struct{}) Option[T] {
	return func(s *Sink[T]) { s.block = ch }
}

// NewSink returns an empty Sink.
func NewSink[T any](opts ...Option[T]) *Sink[T] {
	s := &Sink[T]{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Export stores batch in the sink.
func (s *Sink[T]) Export(ctx context.Context, batch []T) error {
	s.mu.Lock()
	s.calls++
	delay, block, err, shutdown := s.delay, s.block, s.err, s.shutdown
	s.mu.Unlock()

	if shutdown {
		return ErrSinkShutdown
	}
	if delay > 0 {
		t := time.NewTimer(delay)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		}
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, append([]T(nil), batch...))
	s.count += len(batch)
	return nil
}

// Shutdown marks the sink as shut down.
func (s *Sink[T]) Shutdown(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shutdown = true
	s.shutdowns++
	return nil
}

// SetError changes the error returned by subsequent Export calls.
func (s *Sink[T]) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// AllBatches returns the batches stored by this sink since last Reset.
func (s *Sink[T]) AllBatches() [][]T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]T, len(s.batches))
	copy(out, s.batches)
	return out
}

// All returns the stored records flattened in export order.
func (s *Sink[T]) All() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, 0, s.count)
	for _, b := range s.batches {
		out = append(out, b...)
	}
	return out
}

// Count returns the number of stored records.
func (s *Sink[T]) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Calls returns the number of Export calls, successful or not.
func (s *Sink[T]) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// ShutdownCount returns how many times Shutdown was called.
func (s *Sink[T]) ShutdownCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdowns
}

// Reset deletes any stored data.
func (s *Sink[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = nil
	s.count = 0
	s.calls = 0
}
