// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package resource // import "go.opentelemetry.io/collector/pipelinesdk/resource"

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v3/host"
	conventions "go.opentelemetry.io/collector/semconv/v1.18.0"
	"go.opentelemetry.io/otel/attribute"
)

const (
	// SDKName is reported as telemetry.sdk.name.
	SDKName = "pipelinesdk"
	// SDKVersion is reported as telemetry.sdk.version.
	SDKVersion = "0.1.0"
)

var (
	// hostName is swapped in tests.
	hostName = detectHostName

	instanceOnce sync.Once
	instanceID   string
)

// Default returns the baseline resource detected from the host environment.
// A failed or empty host name lookup leaves host.name absent.
func Default() *Resource {
	attrs := []attribute.KeyValue{
		attribute.String(conventions.AttributeTelemetrySDKName, SDKName),
		attribute.String(conventions.AttributeTelemetrySDKLanguage, conventions.AttributeTelemetrySDKLanguageGo),
		attribute.String(conventions.AttributeTelemetrySDKVersion, SDKVersion),
		attribute.String(conventions.AttributeServiceName, defaultServiceName()),
		attribute.String(conventions.AttributeServiceInstanceID, processInstanceID()),
		attribute.String(conventions.AttributeOSType, runtime.GOOS),
		attribute.String(conventions.AttributeHostArch, hostArch(runtime.GOARCH)),
		attribute.Int(conventions.AttributeProcessPID, os.Getpid()),
	}
	if name := hostName(); name != "" {
		attrs = append(attrs, attribute.String(conventions.AttributeHostName, name))
	}
	return New(attrs...)
}

func detectHostName() string {
	info, err := host.Info()
	if err == nil && info.Hostname != "" {
		return info.Hostname
	}
	name, err := os.Hostname()
	if err != nil {
		return ""
	}
	return name
}

func defaultServiceName() string {
	exe, err := os.Executable()
	if err != nil || exe == "" {
		return "unknown_service:go"
	}
	return "unknown_service:" + filepath.Base(exe)
}

// processInstanceID is stable for the lifetime of the process.
func processInstanceID() string {
	instanceOnce.Do(func() {
		id, err := uuid.NewRandom()
		if err == nil {
			instanceID = id.String()
		}
	})
	return instanceID
}

func hostArch(goarch string) string {
	switch goarch {
	case "386":
		return conventions.AttributeHostArchX86
	case "arm":
		return conventions.AttributeHostArchARM32
	case "ppc64", "ppc64le":
		return conventions.AttributeHostArchPPC64
	}
	return goarch
}
