// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"

	"go.opentelemetry.io/collector/pipelinesdk/resource"
	"go.opentelemetry.io/collector/pipelinesdk/sdk/trace"
)

type recordSink struct {
	mu          sync.Mutex
	records     []RecordData
	flushes     int
	shutdowns   int
	shutdownErr error
}

func (s *recordSink) Enqueue(r RecordData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
}

func (s *recordSink) ForceFlush(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushes++
	return nil
}

func (s *recordSink) Shutdown(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shutdowns++
	return s.shutdownErr
}

func (s *recordSink) all() []RecordData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordData(nil), s.records...)
}

func TestSeverityString(t *testing.T) {
	tests := []struct {
		sev  Severity
		want string
	}{
		{sev: SeverityUndefined, want: "UNDEFINED"},
		{sev: SeverityTrace, want: "TRACE"},
		{sev: SeverityDebug2, want: "DEBUG2"},
		{sev: SeverityInfo, want: "INFO"},
		{sev: SeverityWarn4, want: "WARN4"},
		{sev: SeverityError, want: "ERROR"},
		{sev: SeverityFatal, want: "FATAL"},
		{sev: Severity(25), want: "UNDEFINED"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sev.String())
		})
	}
}

func TestEmit(t *testing.T) {
	sink := &recordSink{}
	p, err := NewProvider(ProviderConfig{
		Resource:   resource.New(attribute.String("service.name", "test")),
		Processors: []Processor{sink},
	})
	require.NoError(t, err)
	logger := p.Logger("lib", "1.0.0")
	assert.Same(t, logger, p.Logger("lib", "1.0.0"))

	ts := time.Unix(10, 0)
	before := time.Now()
	logger.Emit(context.Background(), Record{
		Timestamp:  ts,
		Severity:   SeverityWarn,
		Body:       attribute.StringValue("disk almost full"),
		Attributes: []attribute.KeyValue{attribute.Int("pct", 91), attribute.Int("pct", 92)},
	})

	records := sink.all()
	require.Len(t, records, 1)
	got := records[0]
	assert.Same(t, p.Resource(), got.Resource)
	assert.Equal(t, "lib", got.Scope.Name)
	assert.Equal(t, ts, got.Timestamp)
	assert.False(t, got.ObservedTimestamp.Before(before))
	assert.Equal(t, "WARN", got.SeverityText)
	assert.Equal(t, "disk almost full", got.Body.AsString())
	assert.Equal(t, []attribute.KeyValue{attribute.Int("pct", 92)}, got.Attributes)
	assert.True(t, got.TraceID.IsEmpty())
}

func TestEmitKeepsExplicitSeverityText(t *testing.T) {
	sink := &recordSink{}
	p, err := NewProvider(ProviderConfig{Processors: []Processor{sink}})
	require.NoError(t, err)
	p.Logger("lib", "").Emit(context.Background(), Record{Severity: SeverityError, SeverityText: "err"})
	assert.Equal(t, "err", sink.all()[0].SeverityText)
}

func TestEmitCorrelatesWithSpan(t *testing.T) {
	sink := &recordSink{}
	p, err := NewProvider(ProviderConfig{Processors: []Processor{sink}})
	require.NoError(t, err)
	tp, err := trace.NewProvider(trace.ProviderConfig{})
	require.NoError(t, err)

	ctx, span := tp.Tracer("lib", "").Start(context.Background(), "op")
	p.Logger("lib", "").Emit(ctx, Record{Severity: SeverityInfo, Body: attribute.StringValue("inside")})
	span.End()

	got := sink.all()[0]
	assert.Equal(t, span.SpanContext().TraceID, got.TraceID)
	assert.Equal(t, span.SpanContext().SpanID, got.SpanID)
	assert.True(t, got.Sampled)
}

func TestShutdown(t *testing.T) {
	errA := errors.New("a")
	a := &recordSink{shutdownErr: errA}
	b := &recordSink{}
	p, err := NewProvider(ProviderConfig{Processors: []Processor{a, b}})
	require.NoError(t, err)

	require.NoError(t, p.ForceFlush(context.Background()))
	assert.Equal(t, 1, a.flushes)
	assert.ErrorIs(t, p.Shutdown(context.Background()), errA)
	assert.Equal(t, 1, b.shutdowns)
	assert.NoError(t, p.Shutdown(context.Background()))

	p.Logger("lib", "").Emit(context.Background(), Record{Body: attribute.StringValue("late")})
	assert.Empty(t, a.all())
	assert.NoError(t, p.ForceFlush(context.Background()))
	assert.Equal(t, 1, a.flushes)
}

func TestNewProviderRejectsNilProcessor(t *testing.T) {
	_, err := NewProvider(ProviderConfig{Processors: []Processor{nil}})
	assert.ErrorIs(t, err, ErrNilProcessor)
}
