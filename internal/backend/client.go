// Package backend is the JSON/HTTPS transport shared by the booking and
// admin-auth clients of the managed backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/barbershop-booking-site/internal/observability/metrics"
	"github.com/wolfman30/barbershop-booking-site/pkg/logging"
)

const defaultTimeout = 15 * time.Second

// Options configures a Client.
type Options struct {
	BaseURL   string
	PublicKey string
	Timeout   time.Duration
	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
	Logger     *logging.Logger
	Metrics    *metrics.BackendMetrics
	// Tracer defaults to the global provider's tracer.
	Tracer trace.Tracer
}

// Client performs authenticated JSON calls against the backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	publicKey  string
	logger     *logging.Logger
	metrics    *metrics.BackendMetrics
	tracer     trace.Tracer
}

// NewClient constructs a backend client.
func NewClient(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer("barbershop.internal.backend")
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		publicKey:  opts.PublicKey,
		logger:     logger,
		metrics:    opts.Metrics,
		tracer:     tracer,
	}
}

// Call describes one backend request.
type Call struct {
	Op     string
	Method string
	Path   string
	// Token is the admin access token. Empty means the public key is sent.
	Token string
	Body  interface{}
	// Kind classifies non-2xx responses; defaults to ErrRequest.
	Kind error
	// Fallback is the visitor-facing message when the backend sends none.
	Fallback string
	// StatusKinds overrides Kind for specific HTTP statuses.
	StatusKinds map[int]error
}

// Do executes call and decodes a successful JSON response into out.
// A 401 on a token-authenticated call is always reported as ErrAuthExpired.
func (c *Client) Do(ctx context.Context, call Call, out interface{}) error {
	ctx, span := c.tracer.Start(ctx, "backend."+call.Op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", call.Method),
		attribute.String("barbershop.backend.path", call.Path),
		attribute.Bool("barbershop.backend.authenticated", call.Token != ""),
	)

	start := time.Now()
	err := c.do(ctx, call, out, span.SetAttributes)
	c.metrics.ObserveRequest(call.Op, outcome(err), time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (c *Client) do(ctx context.Context, call Call, out interface{}, annotate func(...attribute.KeyValue)) error {
	kind := call.Kind
	if kind == nil {
		kind = ErrRequest
	}
	fallback := call.Fallback
	if fallback == "" {
		fallback = "Váratlan hiba történt"
	}

	var bodyReader io.Reader
	if call.Body != nil {
		payload, err := json.Marshal(call.Body)
		if err != nil {
			return &Error{Kind: kind, Op: call.Op, Message: fallback, Err: fmt.Errorf("marshal request: %w", err)}
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, call.Method, c.baseURL+call.Path, bodyReader)
	if err != nil {
		return &Error{Kind: kind, Op: call.Op, Message: fallback, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if call.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	bearer := c.publicKey
	if call.Token != "" {
		bearer = call.Token
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed", "op", call.Op, "path", call.Path, "error", err)
		return &Error{Kind: ErrNetwork, Op: call.Op, Message: MessageNetwork, Err: err}
	}
	defer resp.Body.Close()
	annotate(attribute.Int("http.status_code", resp.StatusCode))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: ErrNetwork, Op: call.Op, Status: resp.StatusCode, Message: MessageNetwork, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(respBody)
		if len(msg) > 300 {
			msg = msg[:300]
		}
		c.logger.Warn("backend API non-2xx response", "op", call.Op, "status", resp.StatusCode, "path", call.Path, "body", msg)

		if resp.StatusCode == http.StatusUnauthorized && call.Token != "" {
			return &Error{Kind: ErrAuthExpired, Op: call.Op, Status: resp.StatusCode, Message: MessageAuthExpired}
		}
		errKind := kind
		if k, ok := call.StatusKinds[resp.StatusCode]; ok {
			errKind = k
		}
		message := errorMessage(respBody)
		if message == "" {
			message = fallback
		}
		return &Error{Kind: errKind, Op: call.Op, Status: resp.StatusCode, Message: message}
	}

	if len(respBody) == 0 || out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &Error{Kind: kind, Op: call.Op, Status: resp.StatusCode, Message: fallback, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// errorMessage extracts the backend's {"error": "..."} text.
func errorMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Error)
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if be, ok := err.(*Error); ok {
		return kindLabel(be.Kind)
	}
	return "error"
}
