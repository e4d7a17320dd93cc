// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package exportertest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSink(t *testing.T) {
	sink := NewSink[int]()
	require.NoError(t, sink.Export(context.Background(), []int{1, 2}))
	require.NoError(t, sink.Export(context.Background(), []int{3}))
	assert.Equal(t, [][]int{{1, 2}, {3}}, sink.AllBatches())
	assert.Equal(t, []int{1, 2, 3}, sink.All())
	assert.Equal(t, 3, sink.Count())
	assert.Equal(t, 2, sink.Calls())

	sink.Reset()
	assert.Equal(t, 0, sink.Count())
	assert.Empty(t, sink.AllBatches())

	require.NoError(t, sink.Shutdown(context.Background()))
	assert.ErrorIs(t, sink.Export(context.Background(), []int{4}), ErrSinkShutdown)
	assert.Equal(t, 1, sink.ShutdownCount())
}

func TestSinkError(t *testing.T) {
	errBoom := errors.New("boom")
	sink := NewSink(WithError[string](errBoom))
	assert.ErrorIs(t, sink.Export(context.Background(), []string{"a"}), errBoom)
	assert.Equal(t, 0, sink.Count())
	assert.Equal(t, 1, sink.Calls())

	sink.SetError(nil)
	assert.NoError(t, sink.Export(context.Background(), []string{"a"}))
	assert.Equal(t, 1, sink.Count())
}

func TestSinkDelayHonorsContext(t *testing.T) {
	sink := NewSink(WithDelay[int](time.Hour))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, sink.Export(ctx, []int{1}), context.DeadlineExceeded)
}

func TestSinkBlock(t *testing.T) {
	release := make(chan struct{})
	sink := NewSink(WithBlock[int](release))
	done := make(chan error, 1)
	go func() { done <- sink.Export(context.Background(), []int{1}) }()
	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, sink.Count())
}
