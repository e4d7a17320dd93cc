// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package batchprocessor // import "go.opentelemetry.io/collector/pipelinesdk/processor/batchprocessor"

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"
)

// OverflowPolicy selects which record is discarded when the queue is full.
type OverflowPolicy int

const (
	// DropOldest evicts the oldest queued record to make room for the new one.
	DropOldest OverflowPolicy = iota
	// DropNewest discards the record being enqueued.
	DropNewest
)

func (p OverflowPolicy) String() string {
	switch p {
	case DropOldest:
		return "drop_oldest"
	case DropNewest:
		return "drop_newest"
	}
	return fmt.Sprintf("OverflowPolicy(%d)", int(p))
}

// MarshalText implements encoding.TextMarshaler.
func (p OverflowPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *OverflowPolicy) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "drop_oldest", "":
		*p = DropOldest
	case "drop_newest":
		*p = DropNewest
	default:
		return fmt.Errorf("unknown overflow policy %q", string(text))
	}
	return nil
}

// Config defines configuration for a batch processor.
type Config struct {
	// MaxQueueSize is the number of records kept in memory; records beyond it
	// are dropped according to OverflowPolicy.
	MaxQueueSize int `mapstructure:"max_queue_size"`

	// MaxExportBatchSize is the largest batch handed to the exporter. Reaching
	// it also triggers an early flush.
	MaxExportBatchSize int `mapstructure:"max_export_batch_size"`

	// ScheduleDelay is the interval of the periodic flush.
	ScheduleDelay time.Duration `mapstructure:"schedule_delay"`

	// ExportTimeout bounds each export call. Zero means only the caller's
	// deadline applies.
	ExportTimeout time.Duration `mapstructure:"export_timeout"`

	OverflowPolicy OverflowPolicy `mapstructure:"overflow_policy"`
}

// NewDefaultConfig returns the default batching settings.
func NewDefaultConfig() Config {
	return Config{
		MaxQueueSize:       2048,
		MaxExportBatchSize: 512,
		ScheduleDelay:      5 * time.Second,
		ExportTimeout:      30 * time.Second,
		OverflowPolicy:     DropOldest,
	}
}

var (
	errNonPositiveQueueSize = errors.New("max_queue_size must be positive")
	errNonPositiveBatchSize = errors.New("max_export_batch_size must be positive")
	errBatchLargerThanQueue = errors.New("max_export_batch_size must not exceed max_queue_size")
	errNonPositiveDelay     = errors.New("schedule_delay must be positive")
	errNegativeTimeout      = errors.New("export_timeout must not be negative")
)

// Validate checks if the processor configuration is valid.
func (cfg *Config) Validate() error {
	var errs error
	if cfg.MaxQueueSize <= 0 {
		errs = multierr.Append(errs, errNonPositiveQueueSize)
	}
	if cfg.MaxExportBatchSize <= 0 {
		errs = multierr.Append(errs, errNonPositiveBatchSize)
	} else if cfg.MaxQueueSize > 0 && cfg.MaxExportBatchSize > cfg.MaxQueueSize {
		errs = multierr.Append(errs, errBatchLargerThanQueue)
	}
	if cfg.ScheduleDelay <= 0 {
		errs = multierr.Append(errs, errNonPositiveDelay)
	}
	if cfg.ExportTimeout < 0 {
		errs = multierr.Append(errs, errNegativeTimeout)
	}
	if cfg.OverflowPolicy != DropOldest && cfg.OverflowPolicy != DropNewest {
		errs = multierr.Append(errs, fmt.Errorf("unknown overflow policy %v", cfg.OverflowPolicy))
	}
	return errs
}
