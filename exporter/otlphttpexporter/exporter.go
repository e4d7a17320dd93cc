// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package otlphttpexporter // import "go.opentelemetry.io/collector/pipelinesdk/exporter/otlphttpexporter"

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"go.opentelemetry.io/collector/pipelinesdk/component"
)

// Settings identifies an exporter and gives it its telemetry.
type Settings struct {
	// ID names the exporter in logs and metric labels. Defaults to "otlphttp".
	ID string
	component.TelemetrySettings
}

// Option customizes an Exporter.
type Option func(*options)

type options struct {
	transport Transport
	client    *http.Client
}

// WithTransport replaces the HTTP transport. Headers and Compression of the
// Config are then the transport's responsibility.
func WithTransport(t Transport) Option {
	return func(o *options) { o.transport = t }
}

// WithHTTPClient sets the client used by the default transport.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.client = c }
}

type exportRequest interface {
	MarshalProto() ([]byte, error)
	MarshalJSON() ([]byte, error)
}

type exportResponse interface {
	UnmarshalProto([]byte) error
	UnmarshalJSON([]byte) error
}

// signalCodec binds an Exporter to the records of one signal.
type signalCodec[T any] struct {
	signal component.Signal
	// request converts a batch. count is the number of records in req, dropped
	// lists the records left out.
	request func(batch []T) (req exportRequest, count int, dropped error)
	// newResponse returns the response message and a reader of its partial
	// success.
	newResponse func() (exportResponse, func() (rejected int64, msg string))
}

// Exporter sends batches of one signal to an OTLP/HTTP endpoint. It is safe
// for concurrent use.
type Exporter[T any] struct {
	codec     signalCodec[T]
	cfg       Config
	url       string
	transport Transport
	logger    *zap.Logger
	telemetry *exporterTelemetry

	mu       sync.RWMutex
	stopped  bool
	inflight sync.WaitGroup
}

func newExporter[T any](set Settings, cfg *Config, codec signalCodec[T], opts []Option) (*Exporter[T], error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	url, err := cfg.SignalURL(codec.signal)
	if err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.transport == nil {
		if o.transport, err = NewHTTPTransport(cfg, o.client); err != nil {
			return nil, err
		}
	}
	if set.ID == "" {
		set.ID = "otlphttp"
	}
	set.TelemetrySettings = set.TelemetrySettings.WithDefaults()
	telemetry, err := newExporterTelemetry(set, codec.signal)
	if err != nil {
		return nil, err
	}

	e := &Exporter[T]{
		codec:     codec,
		cfg:       *cfg,
		url:       url,
		transport: o.transport,
		telemetry: telemetry,
		logger: set.Logger.With(
			zap.String("exporter", set.ID),
			zap.Stringer("signal", codec.signal),
		),
	}
	if e.cfg.Protocol == "" {
		e.cfg.Protocol = ProtocolHTTPProtobuf
	}
	return e, nil
}

// URL returns the URL batches are posted to.
func (e *Exporter[T]) URL() string { return e.url }

// Export converts, encodes and posts the batch. Records that cannot be
// serialized are dropped and logged; the remainder is still sent. The batch
// is never retained after Export returns.
func (e *Exporter[T]) Export(ctx context.Context, batch []T) error {
	if !e.acquire() {
		return ErrShutdown
	}
	defer e.inflight.Done()

	if len(batch) == 0 {
		return nil
	}
	req, count, dropped := e.codec.request(batch)
	if dropped != nil {
		n := len(multierr.Errors(dropped))
		e.telemetry.dropped.Add(float64(n))
		e.logger.Warn("Dropping records with unsupported attribute values",
			zap.Int("dropped", n),
			zap.Error(dropped))
	}
	if count == 0 {
		return nil
	}

	body, err := e.marshal(req)
	if err != nil {
		e.telemetry.failed.Add(float64(count))
		return fmt.Errorf("failed to marshal %s: %w", e.codec.signal, err)
	}

	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}
	err = e.send(ctx, &Request{URL: e.url, ContentType: e.cfg.Protocol.ContentType(), Body: body})
	if err != nil {
		e.telemetry.failed.Add(float64(count))
		return fmt.Errorf("failed to export %d %s to %s: %w", count, e.codec.signal, e.url, err)
	}
	e.telemetry.sent.Add(float64(count))
	e.telemetry.sentBytes.Add(float64(len(body)))
	return nil
}

func (e *Exporter[T]) acquire() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.stopped {
		return false
	}
	e.inflight.Add(1)
	return true
}

func (e *Exporter[T]) marshal(req exportRequest) ([]byte, error) {
	if e.cfg.Protocol == ProtocolHTTPJSON {
		return req.MarshalJSON()
	}
	return req.MarshalProto()
}

// send delivers the request once, or with backoff while the failure is
// retryable and ctx allows.
func (e *Exporter[T]) send(ctx context.Context, req *Request) error {
	if !e.cfg.RetryOnFailure.Enabled {
		return e.attempt(ctx, req)
	}

	b := &throttledBackOff{BackOff: newExponentialBackOff(e.cfg.RetryOnFailure)}
	var lastErr error
	op := func() error {
		err := e.attempt(ctx, req)
		if err == nil {
			return nil
		}
		lastErr = err
		var httpErr *HTTPError
		switch {
		case errors.As(err, &httpErr):
			if !httpErr.Retryable() {
				return backoff.Permanent(err)
			}
			b.throttle = httpErr.RetryAfter
		case ctx.Err() != nil:
			return backoff.Permanent(err)
		}
		e.logger.Debug("Exporting failed. Will retry the request after interval.", zap.Error(err))
		return err
	}
	err := backoff.Retry(op, backoff.WithContext(b, ctx))
	if err != nil && ctx.Err() != nil && lastErr != nil && !errors.Is(lastErr, ctx.Err()) {
		// Keep the cause of the last attempt next to the deadline.
		return fmt.Errorf("%w, last error: %w", ctx.Err(), lastErr)
	}
	return err
}

func (e *Exporter[T]) attempt(ctx context.Context, req *Request) error {
	start := time.Now()
	resp, err := e.transport.Send(ctx, req)
	if err != nil {
		e.telemetry.request(0, time.Since(start))
		return err
	}
	e.telemetry.request(resp.StatusCode, time.Since(start))
	if resp.StatusCode/100 != 2 {
		return newHTTPError(resp)
	}
	e.partialSuccess(resp)
	return nil
}

// partialSuccess logs records the server accepted the request but rejected.
func (e *Exporter[T]) partialSuccess(resp *Response) {
	if len(resp.Body) == 0 {
		return
	}
	msg, read := e.codec.newResponse()
	var err error
	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	switch mediaType {
	case contentTypeProtobuf:
		err = msg.UnmarshalProto(resp.Body)
	case contentTypeJSON:
		err = msg.UnmarshalJSON(resp.Body)
	default:
		return
	}
	if err != nil {
		e.logger.Debug("Failed to decode export response", zap.Error(err))
		return
	}
	rejected, errMsg := read()
	if rejected == 0 && errMsg == "" {
		return
	}
	e.telemetry.rejected.Add(float64(rejected))
	e.logger.Warn("Partial success response",
		zap.Int64("rejected", rejected),
		zap.String("message", errMsg))
}

// Shutdown rejects further exports, waits for in-flight ones until ctx is
// done and closes the transport.
func (e *Exporter[T]) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	e.stopped = true
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		e.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return fmt.Errorf("waiting for in-flight exports: %w", ctx.Err())
	}
	e.telemetry.unregister()
	switch c := e.transport.(type) {
	case interface{ Close() error }:
		return c.Close()
	case interface{ CloseIdleConnections() }:
		c.CloseIdleConnections()
	}
	return nil
}
