// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package trace // import "go.opentelemetry.io/collector/pipelinesdk/sdk/trace"

import (
	"reflect"
	"slices"
	"sync"
	"time"

	conventions "go.opentelemetry.io/collector/semconv/v1.18.0"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const exceptionEventName = "exception"

// Span is the handle instrumentation uses to describe an operation. All
// methods are safe for concurrent use and become no-ops once the span ended.
type Span interface {
	SpanContext() SpanContext
	// IsRecording reports whether changes to the span are kept.
	IsRecording() bool
	SetName(name string)
	SetAttributes(attrs ...attribute.KeyValue)
	AddEvent(name string, attrs ...attribute.KeyValue)
	// RecordError adds an exception event for err. It does not change the
	// status.
	RecordError(err error, attrs ...attribute.KeyValue)
	SetStatus(code codes.Code, description string)
	End(opts ...SpanEndOption)
}

type recordingSpan struct {
	tracer *Tracer

	limits SpanLimits

	mu    sync.Mutex
	data  SpanData
	keys  map[attribute.Key]int
	ended bool
}

var _ Span = (*recordingSpan)(nil)

func (s *recordingSpan) SpanContext() SpanContext { return s.data.SpanContext }

func (s *recordingSpan) IsRecording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.ended
}

func (s *recordingSpan) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ended {
		s.data.Name = name
	}
}

func (s *recordingSpan) SetAttributes(attrs ...attribute.KeyValue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ended {
		s.addAttributes(attrs)
	}
}

// addAttributes applies attrs in order under s.mu. A key already present is
// overwritten in place; a new key past the limit is counted as dropped.
func (s *recordingSpan) addAttributes(attrs []attribute.KeyValue) {
	limit := s.limits.AttributeCountLimit
	for _, kv := range attrs {
		if i, ok := s.keys[kv.Key]; ok {
			s.data.Attributes[i] = kv
			continue
		}
		if limit >= 0 && len(s.data.Attributes) >= limit {
			s.data.DroppedAttributes++
			continue
		}
		if s.keys == nil {
			s.keys = make(map[attribute.Key]int)
		}
		s.keys[kv.Key] = len(s.data.Attributes)
		s.data.Attributes = append(s.data.Attributes, kv)
	}
}

func (s *recordingSpan) AddEvent(name string, attrs ...attribute.KeyValue) {
	s.addEvent(name, time.Now(), attrs)
}

func (s *recordingSpan) addEvent(name string, t time.Time, attrs []attribute.KeyValue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	if limit := s.limits.EventCountLimit; limit >= 0 && len(s.data.Events) >= limit {
		if limit == 0 {
			s.data.DroppedEvents++
			return
		}
		s.data.Events = slices.Delete(s.data.Events, 0, 1)
		s.data.DroppedEvents++
	}
	s.data.Events = append(s.data.Events, Event{Name: name, Time: t, Attributes: slices.Clone(attrs)})
}

func (s *recordingSpan) RecordError(err error, attrs ...attribute.KeyValue) {
	if err == nil {
		return
	}
	all := make([]attribute.KeyValue, 0, len(attrs)+2)
	all = append(all,
		attribute.String(conventions.AttributeExceptionType, errorType(err)),
		attribute.String(conventions.AttributeExceptionMessage, err.Error()),
	)
	all = append(all, attrs...)
	s.addEvent(exceptionEventName, time.Now(), all)
}

// SetStatus sets the status. Ok cannot be overridden and Unset is ignored.
func (s *recordingSpan) SetStatus(code codes.Code, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended || code == codes.Unset || s.data.Status.Code == codes.Ok {
		return
	}
	status := Status{Code: code}
	if code == codes.Error {
		status.Description = description
	}
	s.data.Status = status
}

// End finishes the span. Sampled spans are handed to every processor of the
// provider; RecordOnly spans are discarded. Only the first call has effect.
func (s *recordingSpan) End(opts ...SpanEndOption) {
	cfg := endConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.timestamp.IsZero() {
		cfg.timestamp = time.Now()
	}

	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.ended = true
	s.data.EndTime = cfg.timestamp
	data := s.data
	if len(data.Attributes) > 0 {
		// Sorted by key, like a resource.
		set := attribute.NewSet(slices.Clone(data.Attributes)...)
		data.Attributes = set.ToSlice()
	}
	s.mu.Unlock()

	if !data.SpanContext.Sampled {
		return
	}
	s.tracer.provider.onEnd(data)
}

func errorType(err error) string {
	t := reflect.TypeOf(err)
	if t.PkgPath() == "" && t.Name() == "" {
		// Pointer types such as *errors.errorString.
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// nonRecordingSpan propagates a SpanContext without recording anything.
type nonRecordingSpan struct {
	sc SpanContext
}

var _ Span = nonRecordingSpan{}

func (s nonRecordingSpan) SpanContext() SpanContext               { return s.sc }
func (nonRecordingSpan) IsRecording() bool                        { return false }
func (nonRecordingSpan) SetName(string)                           {}
func (nonRecordingSpan) SetAttributes(...attribute.KeyValue)      {}
func (nonRecordingSpan) AddEvent(string, ...attribute.KeyValue)   {}
func (nonRecordingSpan) RecordError(error, ...attribute.KeyValue) {}
func (nonRecordingSpan) SetStatus(codes.Code, string)             {}
func (nonRecordingSpan) End(...SpanEndOption)                     {}
