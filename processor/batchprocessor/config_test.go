// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package batchprocessor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.Equal(t, Config{
		MaxQueueSize:       2048,
		MaxExportBatchSize: 512,
		ScheduleDelay:      5 * time.Second,
		ExportTimeout:      30 * time.Second,
		OverflowPolicy:     DropOldest,
	}, cfg)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr []error
	}{
		{
			name:    "zero_queue",
			mutate:  func(c *Config) { c.MaxQueueSize = 0 },
			wantErr: []error{errNonPositiveQueueSize},
		},
		{
			name:    "batch_larger_than_queue",
			mutate:  func(c *Config) { c.MaxExportBatchSize = c.MaxQueueSize + 1 },
			wantErr: []error{errBatchLargerThanQueue},
		},
		{
			name: "all_wrong",
			mutate: func(c *Config) {
				c.MaxQueueSize = -1
				c.MaxExportBatchSize = 0
				c.ScheduleDelay = 0
				c.ExportTimeout = -time.Second
			},
			wantErr: []error{errNonPositiveQueueSize, errNonPositiveBatchSize, errNonPositiveDelay, errNegativeTimeout},
		},
		{
			name:    "unknown_policy",
			mutate:  func(c *Config) { c.OverflowPolicy = OverflowPolicy(7) },
			wantErr: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.ErrorIs(t, err, want)
			}
			if tt.wantErr != nil {
				assert.Len(t, multierr.Errors(err), len(tt.wantErr))
			}
		})
	}
}

func TestOverflowPolicyText(t *testing.T) {
	var p OverflowPolicy
	require.NoError(t, p.UnmarshalText([]byte("drop_newest")))
	assert.Equal(t, DropNewest, p)
	require.NoError(t, p.UnmarshalText([]byte("DROP_OLDEST")))
	assert.Equal(t, DropOldest, p)
	assert.Error(t, p.UnmarshalText([]byte("block")))

	b, err := DropNewest.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "drop_newest", string(b))
}
