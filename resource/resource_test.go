// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	conventions "go.opentelemetry.io/collector/semconv/v1.18.0"
	"go.opentelemetry.io/otel/attribute"
)

func TestNewLastWriterWins(t *testing.T) {
	r := New(
		attribute.String("k", "1"),
		attribute.String("a", "x"),
		attribute.String("k", "2"),
		attribute.String("", "ignored"),
	)
	require.Equal(t, 2, r.Len())
	v, ok := r.Value("k")
	require.True(t, ok)
	assert.Equal(t, "2", v.AsString())
	assert.Equal(t, "a=x,k=2", r.String())
}

func TestBuildFromOverrideWins(t *testing.T) {
	baseline := New(
		attribute.String("k", "baseline"),
		attribute.String("only.baseline", "kept"),
		attribute.String(conventions.AttributeServiceName, "unknown_service:test"),
	)

	r := BuildFrom(baseline, "svc", "1.0", attribute.String("k", "v"))

	v, ok := r.Value("k")
	require.True(t, ok)
	assert.Equal(t, "v", v.AsString())

	v, ok = r.Value("only.baseline")
	require.True(t, ok)
	assert.Equal(t, "kept", v.AsString())

	v, _ = r.Value(conventions.AttributeServiceName)
	assert.Equal(t, "svc", v.AsString())
	v, _ = r.Value(conventions.AttributeServiceVersion)
	assert.Equal(t, "1.0", v.AsString())

	// The baseline is never modified.
	v, _ = baseline.Value("k")
	assert.Equal(t, "baseline", v.AsString())
}

func TestBuildFromEmptyIdentityKeepsBaseline(t *testing.T) {
	baseline := New(attribute.String(conventions.AttributeServiceName, "unknown_service:test"))
	r := BuildFrom(baseline, "", "")
	v, _ := r.Value(conventions.AttributeServiceName)
	assert.Equal(t, "unknown_service:test", v.AsString())
	_, ok := r.Value(conventions.AttributeServiceVersion)
	assert.False(t, ok)
}

func TestEquivalent(t *testing.T) {
	a := New(attribute.String("a", "1"), attribute.Int("n", 1))
	b := New(attribute.Int("n", 1), attribute.String("a", "1"))
	c := New(attribute.Int("n", 2), attribute.String("a", "1"))

	byKey := map[attribute.Distinct]int{a.Equivalent(): 1}
	assert.Contains(t, byKey, b.Equivalent())
	assert.NotContains(t, byKey, c.Equivalent())
	assert.Equal(t, Empty().Equivalent(), (*Resource)(nil).Equivalent())
	assert.Equal(t, 2, a.Set().Len())
}

func TestMerge(t *testing.T) {
	a := New(attribute.String("a", "1"), attribute.Int("n", 1))
	b := New(attribute.Int("n", 2))

	merged := Merge(a, b)
	assert.True(t, merged.Equal(New(attribute.String("a", "1"), attribute.Int("n", 2))))
	assert.True(t, Merge(nil, b).Equal(b))
	assert.True(t, Merge(a, nil).Equal(a))
	assert.Equal(t, 0, Merge(nil, nil).Len())
}

func TestDefault(t *testing.T) {
	old := hostName
	defer func() { hostName = old }()

	hostName = func() string { return "test-host" }
	r := Default()
	for _, key := range []string{
		conventions.AttributeTelemetrySDKName,
		conventions.AttributeTelemetrySDKLanguage,
		conventions.AttributeTelemetrySDKVersion,
		conventions.AttributeServiceName,
		conventions.AttributeServiceInstanceID,
		conventions.AttributeOSType,
		conventions.AttributeHostArch,
		conventions.AttributeProcessPID,
	} {
		_, ok := r.Value(key)
		assert.True(t, ok, key)
	}
	v, _ := r.Value(conventions.AttributeHostName)
	assert.Equal(t, "test-host", v.AsString())

	// Instance id is stable for the process.
	id1, _ := r.Value(conventions.AttributeServiceInstanceID)
	id2, _ := Default().Value(conventions.AttributeServiceInstanceID)
	assert.Equal(t, id1.AsString(), id2.AsString())
}

func TestDefaultEmptyHostNameIsAbsent(t *testing.T) {
	old := hostName
	defer func() { hostName = old }()

	hostName = func() string { return "" }
	_, ok := Default().Value(conventions.AttributeHostName)
	assert.False(t, ok)
}

func TestNilResource(t *testing.T) {
	var r *Resource
	assert.Equal(t, 0, r.Len())
	assert.Nil(t, r.Attributes())
	_, ok := r.Value("a")
	assert.False(t, ok)
	assert.True(t, r.Equal(Empty()))
}

func TestHostArch(t *testing.T) {
	assert.Equal(t, "amd64", hostArch("amd64"))
	assert.Equal(t, "x86", hostArch("386"))
	assert.Equal(t, "arm32", hostArch("arm"))
	assert.Equal(t, "ppc64", hostArch("ppc64le"))
}
