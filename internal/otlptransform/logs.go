// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package otlptransform // import "go.opentelemetry.io/collector/pipelinesdk/internal/otlptransform"

import (
	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/collector/pdata/plog"
	"go.uber.org/multierr"

	"go.opentelemetry.io/collector/pipelinesdk/instrumentation"
	"go.opentelemetry.io/collector/pipelinesdk/resource"
	"go.opentelemetry.io/collector/pipelinesdk/sdk/log"
)

// Logs converts log records to pdata. Records carrying an unsupported
// attribute value are left out and reported. A zero body is
// exported as an empty body.
func Logs(records []log.RecordData) (plog.Logs, error) {
	ld := plog.NewLogs()
	var errs error
	g := grouper[plog.ResourceLogs, plog.LogRecordSlice]{}
	newResource := func(res *resource.Resource) plog.ResourceLogs {
		rl := ld.ResourceLogs().AppendEmpty()
		putResource(rl.Resource(), res)
		return rl
	}
	newScope := func(rl plog.ResourceLogs, scope instrumentation.Scope) plog.LogRecordSlice {
		sl := rl.ScopeLogs().AppendEmpty()
		putScope(sl.Scope(), scope)
		return sl.LogRecords()
	}

	for i := range records {
		r := &records[i]
		if err := checkLog(r); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		fillLog(g.scope(r.Resource, r.Scope, newResource, newScope).AppendEmpty(), r)
	}
	return ld, errs
}

func checkLog(r *log.RecordData) error {
	return checkAttributes("log record", r.Attributes)
}

func fillLog(dest plog.LogRecord, r *log.RecordData) {
	if !r.Timestamp.IsZero() {
		dest.SetTimestamp(pcommon.NewTimestampFromTime(r.Timestamp))
	}
	dest.SetObservedTimestamp(pcommon.NewTimestampFromTime(r.ObservedTimestamp))
	dest.SetSeverityNumber(plog.SeverityNumber(r.Severity))
	dest.SetSeverityText(r.SeverityText)
	// A zero body stays empty.
	setValue(dest.Body(), r.Body)
	putAttributes(dest.Attributes(), r.Attributes)
	if !r.TraceID.IsEmpty() {
		dest.SetTraceID(r.TraceID)
		dest.SetSpanID(r.SpanID)
		dest.SetFlags(plog.DefaultLogRecordFlags.WithIsSampled(r.Sampled))
	}
}
