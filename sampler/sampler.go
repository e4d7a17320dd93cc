// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package sampler // import "go.opentelemetry.io/collector/pipelinesdk/sampler"

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/collector/pdata/ptrace"
	"go.opentelemetry.io/otel/attribute"
)

// Decision is the outcome of a sampling decision.
type Decision int

const (
	// Drop means the span is neither recorded nor exported.
	Drop Decision = iota
	// RecordOnly means the span is recorded locally but never exported.
	RecordOnly
	// RecordAndSample means the span is recorded and exported.
	RecordAndSample
)

func (d Decision) String() string {
	switch d {
	case Drop:
		return "Drop"
	case RecordOnly:
		return "RecordOnly"
	case RecordAndSample:
		return "RecordAndSample"
	}
	return fmt.Sprintf("Decision(%d)", int(d))
}

// Parent describes the span context the sampled span descends from.
type Parent struct {
	// Valid is false for trace roots.
	Valid   bool
	Sampled bool
	Remote  bool
}

// Parameters holds the inputs of a sampling decision.
type Parameters struct {
	TraceID    pcommon.TraceID
	Parent     Parent
	Name       string
	Kind       ptrace.SpanKind
	Attributes []attribute.KeyValue
}

// Result is a sampling decision plus the attributes to attach to sampled spans.
type Result struct {
	Decision   Decision
	Attributes []attribute.KeyValue
}

// Sampler decides whether a trace is recorded and exported. Implementations
// must be safe for concurrent use and deterministic for a given trace id when
// used for trace roots, so that independent processes agree without
// coordination.
type Sampler interface {
	ShouldSample(p Parameters) Result
	Description() string
}

// ErrInvalidRatio is returned for ratios outside [0, 1].
var ErrInvalidRatio = errors.New("sampling ratio must be within [0, 1]")

type alwaysOn struct{}

// AlwaysOn returns a Sampler that records and samples every trace.
func AlwaysOn() Sampler { return alwaysOn{} }

func (alwaysOn) ShouldSample(Parameters) Result { return Result{Decision: RecordAndSample} }
func (alwaysOn) Description() string            { return "AlwaysOnSampler" }

type alwaysOff struct{}

// AlwaysOff returns a Sampler that drops every trace.
func AlwaysOff() Sampler { return alwaysOff{} }

func (alwaysOff) ShouldSample(Parameters) Result { return Result{Decision: Drop} }
func (alwaysOff) Description() string            { return "AlwaysOffSampler" }

type traceIDRatio struct {
	traceIDUpperBound uint64
	description       string
}

// TraceIDRatioBased returns a Sampler keeping the given fraction of traces.
// The verdict depends only on the low-order 63 bits of the trace id, read as
// a big-endian integer and compared against ratio * 2^63. A ratio of 0 drops
// every trace and a ratio of 1 keeps every trace.
func TraceIDRatioBased(ratio float64) (Sampler, error) {
	if math.IsNaN(ratio) || ratio < 0 || ratio > 1 {
		return nil, fmt.Errorf("%w, got %v", ErrInvalidRatio, ratio)
	}
	switch ratio {
	case 0:
		return AlwaysOff(), nil
	case 1:
		return AlwaysOn(), nil
	}
	return &traceIDRatio{
		traceIDUpperBound: uint64(ratio * (1 << 63)),
		description:       fmt.Sprintf("TraceIDRatioBased{%g}", ratio),
	}, nil
}

func (ts *traceIDRatio) ShouldSample(p Parameters) Result {
	x := binary.BigEndian.Uint64(p.TraceID[8:16]) >> 1
	if x < ts.traceIDUpperBound {
		return Result{Decision: RecordAndSample}
	}
	return Result{Decision: Drop}
}

func (ts *traceIDRatio) Description() string {
	return ts.description
}
