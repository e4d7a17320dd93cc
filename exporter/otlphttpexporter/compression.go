// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package otlphttpexporter // import "go.opentelemetry.io/collector/pipelinesdk/exporter/otlphttpexporter"

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var errCompressorClosed = errors.New("compressor is closed")

// compressor encodes request bodies. It is safe for concurrent use.
type compressor interface {
	encoding() string
	compress([]byte) ([]byte, error)
	// close releases the encoder. compress fails afterwards.
	close() error
}

func newCompressor(c Compression) (compressor, error) {
	switch c {
	case CompressionNone, "":
		return nil, nil
	case CompressionGzip:
		return &gzipCompressor{}, nil
	case CompressionZstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		return &zstdCompressor{enc: enc}, nil
	}
	return nil, fmt.Errorf("unsupported compression %q", c)
}

type gzipCompressor struct {
	pool sync.Pool
}

func (*gzipCompressor) encoding() string { return "gzip" }

func (g *gzipCompressor) compress(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, _ := g.pool.Get().(*gzip.Writer)
	if w == nil {
		w = gzip.NewWriter(&buf)
	} else {
		w.Reset(&buf)
	}
	defer g.pool.Put(w)
	if _, err := w.Write(body); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (*gzipCompressor) close() error { return nil }

type zstdCompressor struct {
	mu     sync.RWMutex
	enc    *zstd.Encoder
	closed bool
}

func (*zstdCompressor) encoding() string { return "zstd" }

func (z *zstdCompressor) compress(body []byte) ([]byte, error) {
	z.mu.RLock()
	defer z.mu.RUnlock()
	if z.closed {
		return nil, errCompressorClosed
	}
	return z.enc.EncodeAll(body, make([]byte, 0, len(body)/2)), nil
}

func (z *zstdCompressor) close() error {
	z.mu.Lock()
	defer z.mu.Unlock()
	if z.closed {
		return nil
	}
	z.closed = true
	return z.enc.Close()
}
