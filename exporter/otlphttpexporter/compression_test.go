// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package otlphttpexporter

import (
	"bytes"
	"io"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decompress(t *testing.T, encoding string, body []byte) []byte {
	t.Helper()
	switch encoding {
	case "gzip":
		r, err := gzip.NewReader(bytes.NewReader(body))
		require.NoError(t, err)
		out, err := io.ReadAll(r)
		require.NoError(t, err)
		return out
	case "zstd":
		dec, err := zstd.NewReader(nil)
		require.NoError(t, err)
		defer dec.Close()
		out, err := dec.DecodeAll(body, nil)
		require.NoError(t, err)
		return out
	}
	return body
}

func TestCompressors(t *testing.T) {
	payload := bytes.Repeat([]byte("telemetry "), 200)
	for _, c := range []Compression{CompressionGzip, CompressionZstd} {
		t.Run(string(c), func(t *testing.T) {
			comp, err := newCompressor(c)
			require.NoError(t, err)
			assert.Equal(t, string(c), comp.encoding())
			// Twice to exercise encoder reuse.
			for i := 0; i < 2; i++ {
				out, err := comp.compress(payload)
				require.NoError(t, err)
				assert.Less(t, len(out), len(payload))
				assert.Equal(t, payload, decompress(t, comp.encoding(), out))
			}
		})
	}
}

func TestNoCompressor(t *testing.T) {
	for _, c := range []Compression{"", CompressionNone} {
		comp, err := newCompressor(c)
		require.NoError(t, err)
		assert.Nil(t, comp)
	}
	_, err := newCompressor("lz4")
	assert.Error(t, err)
}

func TestCompressorClose(t *testing.T) {
	for _, c := range []Compression{CompressionGzip, CompressionZstd} {
		t.Run(string(c), func(t *testing.T) {
			comp, err := newCompressor(c)
			require.NoError(t, err)
			require.NoError(t, comp.close())
			require.NoError(t, comp.close())
			if c == CompressionZstd {
				_, err = comp.compress([]byte("telemetry"))
				assert.ErrorIs(t, err, errCompressorClosed)
			}
		})
	}
}
