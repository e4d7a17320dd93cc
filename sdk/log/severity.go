// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package log // import "go.opentelemetry.io/collector/pipelinesdk/sdk/log"

import (
	"strconv"
)

// Severity is the OTLP severity number of a record.
type Severity int

const (
	SeverityUndefined Severity = 0
	SeverityTrace     Severity = 1
	SeverityTrace2    Severity = 2
	SeverityTrace3    Severity = 3
	SeverityTrace4    Severity = 4
	SeverityDebug     Severity = 5
	SeverityDebug2    Severity = 6
	SeverityDebug3    Severity = 7
	SeverityDebug4    Severity = 8
	SeverityInfo      Severity = 9
	SeverityInfo2     Severity = 10
	SeverityInfo3     Severity = 11
	SeverityInfo4     Severity = 12
	SeverityWarn      Severity = 13
	SeverityWarn2     Severity = 14
	SeverityWarn3     Severity = 15
	SeverityWarn4     Severity = 16
	SeverityError     Severity = 17
	SeverityError2    Severity = 18
	SeverityError3    Severity = 19
	SeverityError4    Severity = 20
	SeverityFatal     Severity = 21
	SeverityFatal2    Severity = 22
	SeverityFatal3    Severity = 23
	SeverityFatal4    Severity = 24
)

var severityNames = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

// String returns the short name of the severity range, with the position in
// the range appended for the non-base numbers, e.g. "INFO" or "ERROR3".
func (s Severity) String() string {
	if s < SeverityTrace || s > SeverityFatal4 {
		return "UNDEFINED"
	}
	idx := int(s-1) / 4
	pos := int(s-1)%4 + 1
	if pos == 1 {
		return severityNames[idx]
	}
	return severityNames[idx] + strconv.Itoa(pos)
}
