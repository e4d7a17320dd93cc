// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package otlptransform // import "go.opentelemetry.io/collector/pipelinesdk/internal/otlptransform"

import (
	"fmt"

	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/otel/attribute"

	"go.opentelemetry.io/collector/pipelinesdk/instrumentation"
	"go.opentelemetry.io/collector/pipelinesdk/resource"
)

// UnsupportedValueError reports an attribute whose value has no OTLP
// representation.
type UnsupportedValueError struct {
	// Record names the record that was dropped.
	Record string
	Key    string
	Type   string
}

func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("%s: attribute %q has unsupported type %s", e.Record, e.Key, e.Type)
}

// checkAttributes rejects the first attribute that holds no value. Such pairs
// come from a zero attribute.Value and cannot be encoded.
func checkAttributes(record string, attrs []attribute.KeyValue) error {
	for _, kv := range attrs {
		if kv.Key.Defined() && kv.Value.Type() == attribute.INVALID {
			return &UnsupportedValueError{Record: record, Key: string(kv.Key), Type: kv.Value.Type().String()}
		}
	}
	return nil
}

func putAttributes(dest pcommon.Map, attrs []attribute.KeyValue) {
	dest.EnsureCapacity(len(attrs))
	for _, kv := range attrs {
		if !kv.Valid() {
			continue
		}
		setValue(dest.PutEmpty(string(kv.Key)), kv.Value)
	}
}

func setValue(dest pcommon.Value, v attribute.Value) {
	switch v.Type() {
	case attribute.STRING:
		dest.SetStr(v.AsString())
	case attribute.BOOL:
		dest.SetBool(v.AsBool())
	case attribute.INT64:
		dest.SetInt(v.AsInt64())
	case attribute.FLOAT64:
		dest.SetDouble(v.AsFloat64())
	case attribute.STRINGSLICE:
		s := dest.SetEmptySlice()
		for _, e := range v.AsStringSlice() {
			s.AppendEmpty().SetStr(e)
		}
	case attribute.BOOLSLICE:
		s := dest.SetEmptySlice()
		for _, e := range v.AsBoolSlice() {
			s.AppendEmpty().SetBool(e)
		}
	case attribute.INT64SLICE:
		s := dest.SetEmptySlice()
		for _, e := range v.AsInt64Slice() {
			s.AppendEmpty().SetInt(e)
		}
	case attribute.FLOAT64SLICE:
		s := dest.SetEmptySlice()
		for _, e := range v.AsFloat64Slice() {
			s.AppendEmpty().SetDouble(e)
		}
	}
}

func putResource(dest pcommon.Resource, res *resource.Resource) {
	putAttributes(dest.Attributes(), res.Attributes())
}

func putScope(dest pcommon.InstrumentationScope, scope instrumentation.Scope) {
	dest.SetName(scope.Name)
	dest.SetVersion(scope.Version)
}

// grouper keeps resources and scopes in order of first appearance. Resources
// are grouped by their attribute set.
type grouper[R any, S any] struct {
	index   map[attribute.Distinct]int
	rgroups []R
	scopes  []map[instrumentation.Scope]S
}

func (g *grouper[R, S]) resourceIndex(res *resource.Resource, newGroup func(*resource.Resource) R) int {
	key := res.Equivalent()
	if i, ok := g.index[key]; ok {
		return i
	}
	if g.index == nil {
		g.index = map[attribute.Distinct]int{}
	}
	g.index[key] = len(g.rgroups)
	g.rgroups = append(g.rgroups, newGroup(res))
	g.scopes = append(g.scopes, map[instrumentation.Scope]S{})
	return len(g.rgroups) - 1
}

func (g *grouper[R, S]) scope(res *resource.Resource, scope instrumentation.Scope, newGroup func(*resource.Resource) R, newScope func(R, instrumentation.Scope) S) S {
	i := g.resourceIndex(res, newGroup)
	s, ok := g.scopes[i][scope]
	if !ok {
		s = newScope(g.rgroups[i], scope)
		g.scopes[i][scope] = s
	}
	return s
}
