// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package resource // import "go.opentelemetry.io/collector/pipelinesdk/resource"

import (
	"slices"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

// Resource is an immutable set of attributes identifying the process that
// emits telemetry. Keys are unique and kept sorted.
//
// A nil *Resource is valid and behaves like an empty one.
type Resource struct {
	set attribute.Set
}

// Empty returns a Resource without attributes.
func Empty() *Resource {
	return &Resource{set: *attribute.EmptySet()}
}

// New returns a Resource holding attrs. When a key appears more than once the
// last occurrence wins. Pairs with an empty key are ignored.
func New(attrs ...attribute.KeyValue) *Resource {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, kv := range attrs {
		if !kv.Key.Defined() {
			continue
		}
		filtered = append(filtered, kv)
	}
	return &Resource{set: attribute.NewSet(filtered...)}
}

// Merge returns a new Resource holding the attributes of both base and
// override. Attributes of override win on key collision.
func Merge(base, override *Resource) *Resource {
	combined := slices.Concat(base.Attributes(), override.Attributes())
	return New(combined...)
}

// Set returns the attribute set of the resource.
func (r *Resource) Set() *attribute.Set {
	if r == nil {
		return attribute.EmptySet()
	}
	return &r.set
}

// Equivalent returns a comparable key identifying the attributes of r.
func (r *Resource) Equivalent() attribute.Distinct {
	return r.Set().Equivalent()
}

// Attributes returns a copy of the attributes sorted by key.
func (r *Resource) Attributes() []attribute.KeyValue {
	if r.Len() == 0 {
		return nil
	}
	return r.set.ToSlice()
}

// Len returns the number of attributes.
func (r *Resource) Len() int {
	return r.Set().Len()
}

// Value returns the value stored under key.
func (r *Resource) Value(key string) (attribute.Value, bool) {
	return r.Set().Value(attribute.Key(key))
}

// Equal reports whether r and o hold the same attributes.
func (r *Resource) Equal(o *Resource) bool {
	return r.Equivalent() == o.Equivalent()
}

// String renders the resource as "k1=v1,k2=v2".
func (r *Resource) String() string {
	var sb strings.Builder
	for i, kv := range r.Attributes() {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(string(kv.Key))
		sb.WriteByte('=')
		sb.WriteString(kv.Value.Emit())
	}
	return sb.String()
}
