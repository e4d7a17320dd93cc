// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package batchprocessor // import "go.opentelemetry.io/collector/pipelinesdk/processor/batchprocessor"

import (
	"context"
	"errors"
)

// Status classifies the outcome of one export call.
type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
	StatusTimeout
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusTimeout:
		return "timeout"
	}
	return "failure"
}

// StatusFromError maps an export error to its Status. Errors wrapping
// context.DeadlineExceeded are timeouts.
func StatusFromError(err error) Status {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, context.DeadlineExceeded):
		return StatusTimeout
	}
	return StatusFailure
}
