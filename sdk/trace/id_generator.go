// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package trace // import "go.opentelemetry.io/collector/pipelinesdk/sdk/trace"

import (
	"context"
	"encoding/binary"
	"math/rand/v2"

	"go.opentelemetry.io/collector/pdata/pcommon"
)

// IDGenerator creates trace and span ids. Implementations must be safe for
// concurrent use and must never return all-zero ids.
type IDGenerator interface {
	NewIDs(ctx context.Context) (pcommon.TraceID, pcommon.SpanID)
	NewSpanID(ctx context.Context, traceID pcommon.TraceID) pcommon.SpanID
}

type randomIDGenerator struct{}

// NewRandomIDGenerator returns the default IDGenerator, backed by the runtime's
// concurrency-safe random source. Trace ids are uniformly distributed, which
// ratio based sampling relies on.
func NewRandomIDGenerator() IDGenerator {
	return randomIDGenerator{}
}

func (randomIDGenerator) NewIDs(ctx context.Context) (pcommon.TraceID, pcommon.SpanID) {
	var tid [16]byte
	for tid == [16]byte{} {
		binary.BigEndian.PutUint64(tid[:8], rand.Uint64())
		binary.BigEndian.PutUint64(tid[8:], rand.Uint64())
	}
	return pcommon.TraceID(tid), randomIDGenerator{}.NewSpanID(ctx, pcommon.TraceID(tid))
}

func (randomIDGenerator) NewSpanID(context.Context, pcommon.TraceID) pcommon.SpanID {
	var sid [8]byte
	for sid == [8]byte{} {
		binary.BigEndian.PutUint64(sid[:], rand.Uint64())
	}
	return pcommon.SpanID(sid)
}
