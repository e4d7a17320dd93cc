// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package zapbridge forwards zap log entries to a pipeline Logger.
package zapbridge // import "go.opentelemetry.io/collector/pipelinesdk/bridge/zapbridge"

import (
	"context"
	"fmt"
	"math"
	"sort"

	conventions "go.opentelemetry.io/collector/semconv/v1.18.0"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap/zapcore"

	"go.opentelemetry.io/collector/pipelinesdk/sdk/log"
)

const attributeLoggerName = "logger.name"

var _ zapcore.Core = (*core)(nil)

type core struct {
	zapcore.LevelEnabler
	logger *log.Logger
	fields []attribute.KeyValue
}

// NewCore returns a zapcore.Core emitting every enabled entry as a log record:
// the message becomes the body, the level the severity and fields, logger
// name and caller become attributes. Combine it with an existing core through
// zapcore.NewTee to keep local output.
func NewCore(logger *log.Logger, level zapcore.LevelEnabler) zapcore.Core {
	return &core{LevelEnabler: level, logger: logger}
}

func (c *core) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.fields = append(c.fields[:len(c.fields):len(c.fields)], convertFields(fields)...)
	return &clone
}

func (c *core) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *core) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	attrs := append(c.fields[:len(c.fields):len(c.fields)], convertFields(fields)...)
	if ent.LoggerName != "" {
		attrs = append(attrs, attribute.String(attributeLoggerName, ent.LoggerName))
	}
	if ent.Caller.Defined {
		attrs = append(attrs,
			attribute.String(conventions.AttributeCodeFilepath, ent.Caller.File),
			attribute.Int(conventions.AttributeCodeLineNumber, ent.Caller.Line),
		)
		if ent.Caller.Function != "" {
			attrs = append(attrs, attribute.String(conventions.AttributeCodeFunction, ent.Caller.Function))
		}
	}
	if ent.Stack != "" {
		attrs = append(attrs, attribute.String(conventions.AttributeExceptionStacktrace, ent.Stack))
	}
	c.logger.Emit(context.Background(), log.Record{
		Timestamp:    ent.Time,
		Severity:     severity(ent.Level),
		SeverityText: ent.Level.CapitalString(),
		Body:         attribute.StringValue(ent.Message),
		Attributes:   attrs,
	})
	return nil
}

// Sync is a no-op; flushing belongs to the provider.
func (c *core) Sync() error { return nil }

func severity(l zapcore.Level) log.Severity {
	switch l {
	case zapcore.DebugLevel:
		return log.SeverityDebug
	case zapcore.InfoLevel:
		return log.SeverityInfo
	case zapcore.WarnLevel:
		return log.SeverityWarn
	case zapcore.ErrorLevel:
		return log.SeverityError
	case zapcore.DPanicLevel:
		return log.SeverityFatal
	case zapcore.PanicLevel:
		return log.SeverityFatal2
	case zapcore.FatalLevel:
		return log.SeverityFatal4
	}
	return log.SeverityUndefined
}

// convertFields encodes fields the way zap's JSON encoder would see them and
// keeps the result representable as attributes.
func convertFields(fields []zapcore.Field) []attribute.KeyValue {
	if len(fields) == 0 {
		return nil
	}
	enc := zapcore.NewMapObjectEncoder()
	for i := range fields {
		fields[i].AddTo(enc)
	}
	keys := make([]string, 0, len(enc.Fields))
	for k := range enc.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]attribute.KeyValue, 0, len(keys))
	for _, k := range keys {
		out = append(out, attribute.KeyValue{Key: attribute.Key(k), Value: toValue(enc.Fields[k])})
	}
	return out
}

func toValue(v any) attribute.Value {
	switch val := v.(type) {
	case uint:
		return uintValue(uint64(val))
	case uint64:
		return uintValue(val)
	case uintptr:
		return uintValue(uint64(val))
	case uint8:
		return attribute.Int64Value(int64(val))
	case uint16:
		return attribute.Int64Value(int64(val))
	case uint32:
		return attribute.Int64Value(int64(val))
	case int:
		return attribute.IntValue(val)
	case int8:
		return attribute.Int64Value(int64(val))
	case int16:
		return attribute.Int64Value(int64(val))
	case int32:
		return attribute.Int64Value(int64(val))
	case int64:
		return attribute.Int64Value(val)
	case float32:
		return attribute.Float64Value(float64(val))
	case float64:
		return attribute.Float64Value(val)
	case bool:
		return attribute.BoolValue(val)
	case string:
		return attribute.StringValue(val)
	case []string:
		return attribute.StringSliceValue(val)
	case []bool:
		return attribute.BoolSliceValue(val)
	case []int64:
		return attribute.Int64SliceValue(val)
	case []float64:
		return attribute.Float64SliceValue(val)
	case fmt.Stringer:
		return attribute.StringValue(val.String())
	}
	// Nested objects and arrays end up as their printed form.
	return attribute.StringValue(fmt.Sprint(v))
}

func uintValue(v uint64) attribute.Value {
	if v > math.MaxInt64 {
		return attribute.StringValue(fmt.Sprint(v))
	}
	return attribute.Int64Value(int64(v))
}
