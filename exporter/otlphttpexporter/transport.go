// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package otlphttpexporter // import "go.opentelemetry.io/collector/pipelinesdk/exporter/otlphttpexporter"

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	// maxErrMsgLen bounds how much of a non-2xx response body ends up in the
	// returned error.
	maxErrMsgLen = 1024
	// maxResponseLen bounds how much of a successful response body is decoded
	// for partial success details.
	maxResponseLen = 64 * 1024

	userAgent = "pipelinesdk-otlphttp"
)

// Request is one encoded export request.
type Request struct {
	URL         string
	ContentType string
	Body        []byte
}

// Response is the part of an HTTP response the exporter inspects. Body is
// truncated.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
}

// Transport delivers a request and returns the response. A non-nil error means
// no response was received.
type Transport interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// HTTPTransport is the default Transport, backed by an *http.Client.
type HTTPTransport struct {
	client     *http.Client
	headers    map[string]string
	compressor compressor
}

var _ Transport = (*HTTPTransport)(nil)

// NewHTTPTransport returns a Transport sending with client, or with a client
// of its own if client is nil. Headers and Compression are taken from cfg.
func NewHTTPTransport(cfg *Config, client *http.Client) (*HTTPTransport, error) {
	comp, err := newCompressor(cfg.Compression)
	if err != nil {
		return nil, err
	}
	if client == nil {
		client = &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()}
	}
	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	return &HTTPTransport{client: client, headers: headers, compressor: comp}, nil
}

// Send posts the request body.
func (t *HTTPTransport) Send(ctx context.Context, r *Request) (*Response, error) {
	body := r.Body
	if t.compressor != nil {
		var err error
		if body, err = t.compressor.compress(body); err != nil {
			return nil, fmt.Errorf("failed to compress request body: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Content-Type", r.ContentType)
	req.Header.Set("User-Agent", userAgent)
	if t.compressor != nil {
		req.Header.Set("Content-Encoding", t.compressor.encoding())
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	limit := int64(maxResponseLen)
	if resp.StatusCode/100 != 2 {
		limit = maxErrMsgLen
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil && ctx.Err() != nil {
		return nil, err
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// CloseIdleConnections closes the idle keep-alive connections of the client.
func (t *HTTPTransport) CloseIdleConnections() {
	t.client.CloseIdleConnections()
}

// Close releases the body encoder and the idle connections. Send fails for
// compressed bodies afterwards.
func (t *HTTPTransport) Close() error {
	t.client.CloseIdleConnections()
	if t.compressor == nil {
		return nil
	}
	return t.compressor.close()
}

// errorMessage returns the first line of a response body.
func errorMessage(body []byte) string {
	msg, _, _ := strings.Cut(string(body), "\n")
	return strings.TrimSpace(msg)
}
