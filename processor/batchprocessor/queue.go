// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package batchprocessor // import "go.opentelemetry.io/collector/pipelinesdk/processor/batchprocessor"

// ring is a fixed capacity FIFO. It is not safe for concurrent use; the
// processor guards it with its mutex.
type ring[T any] struct {
	items []T
	head  int
	size  int
}

func newRing[T any](capacity int) *ring[T] {
	return &ring[T]{items: make([]T, capacity)}
}

func (r *ring[T]) len() int { return r.size }

func (r *ring[T]) full() bool { return r.size == len(r.items) }

// push appends item. The caller must make room first.
func (r *ring[T]) push(item T) {
	r.items[(r.head+r.size)%len(r.items)] = item
	r.size++
}

// popFront removes the oldest item.
func (r *ring[T]) popFront() {
	var zero T
	r.items[r.head] = zero
	r.head = (r.head + 1) % len(r.items)
	r.size--
}

// take removes and returns up to n of the oldest items in order.
func (r *ring[T]) take(n int) []T {
	if n > r.size {
		n = r.size
	}
	if n <= 0 {
		return nil
	}
	out := make([]T, n)
	var zero T
	for i := range out {
		idx := (r.head + i) % len(r.items)
		out[i] = r.items[idx]
		r.items[idx] = zero
	}
	r.head = (r.head + n) % len(r.items)
	r.size -= n
	return out
}
