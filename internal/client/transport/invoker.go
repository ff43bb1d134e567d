// Package transport sends request descriptors over HTTP. It is the only
// I/O boundary of the client: everything above it works on descriptors and
// raw (status, body) results.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrijs2005/tripjournal/internal/client/request"
	"github.com/dmitrijs2005/tripjournal/internal/common"
	"github.com/dmitrijs2005/tripjournal/internal/logging"
)

const (
	DefaultRequestTimeout  = 30 * time.Second
	DefaultResourceTimeout = 60 * time.Second
)

// Result is the raw outcome of a round trip.
type Result struct {
	Status int
	Body   []byte
}

// Invoker executes descriptors. Implementations must be safe for
// concurrent use.
type Invoker interface {
	Do(ctx context.Context, d *request.Descriptor) (Result, error)
}

// Options configure an HTTPInvoker. Zero values pick the defaults.
type Options struct {
	// RequestTimeout bounds the wait for response headers.
	RequestTimeout time.Duration
	// ResourceTimeout bounds the whole exchange, body included.
	ResourceTimeout time.Duration
	// Registerer receives the request metrics; nil disables registration.
	Registerer prometheus.Registerer
	Logger     logging.Logger
	// Transport overrides the base round tripper (tests).
	Transport http.RoundTripper
}

// HTTPInvoker is an Invoker over net/http.
type HTTPInvoker struct {
	client  *http.Client
	log     logging.Logger
	metrics *metrics
}

func NewHTTPInvoker(opts Options) (*HTTPInvoker, error) {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if opts.ResourceTimeout <= 0 {
		opts.ResourceTimeout = DefaultResourceTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}

	rt := opts.Transport
	if rt == nil {
		base := http.DefaultTransport.(*http.Transport).Clone()
		base.ResponseHeaderTimeout = opts.RequestTimeout
		rt = base
	}

	m, err := newMetrics(opts.Registerer)
	if err != nil {
		return nil, fmt.Errorf("register transport metrics: %w", err)
	}

	return &HTTPInvoker{
		client: &http.Client{
			Transport: rt,
			Timeout:   opts.ResourceTimeout,
		},
		log:     opts.Logger.With("component", "transport"),
		metrics: m,
	}, nil
}

// Do sends d and returns the status and full body. Any failure before a
// status is obtained is reported as ErrBadResponse joined with its cause,
// so context cancellation stays detectable with errors.Is.
func (t *HTTPInvoker) Do(ctx context.Context, d *request.Descriptor) (Result, error) {
	reqID := uuid.NewString()

	var body io.Reader
	if b := d.Body(); b != nil {
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, d.Method(), d.URL(), body)
	if err != nil {
		return Result{}, fmt.Errorf("%w: new request: %w", common.ErrBadResponse, err)
	}
	req.Header = d.HTTPHeader()
	// every call is a live round trip
	req.Header.Set(common.HeaderCacheControl, "no-cache")

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		t.observe(d.Method(), "error", start)
		t.log.Debug(ctx, "request failed", "request_id", reqID, "method", d.Method(), "url", d.URL(), "error", err)
		return Result{}, fmt.Errorf("%w: %w", common.ErrBadResponse, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.observe(d.Method(), "error", start)
		return Result{}, fmt.Errorf("%w: read body: %w", common.ErrBadResponse, err)
	}

	t.observe(d.Method(), strconv.Itoa(resp.StatusCode), start)
	t.log.Debug(ctx, "request completed",
		"request_id", reqID,
		"method", d.Method(),
		"url", d.URL(),
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return Result{Status: resp.StatusCode, Body: data}, nil
}

func (t *HTTPInvoker) observe(method, code string, start time.Time) {
	t.metrics.requests.WithLabelValues(method, code).Inc()
	t.metrics.duration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}
