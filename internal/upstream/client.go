// Package upstream is the JSON-over-HTTP transport shared by every downstream
// service client. It carries no business logic.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vvakame/shopgate/internal/auth"
	"github.com/vvakame/shopgate/internal/log"
)

// DefaultTimeout bounds every downstream call when the client is not configured otherwise.
const DefaultTimeout = 10 * time.Second

const maxBodySize = 8 << 20

type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{}
}

type Client struct {
	name       string
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	metrics    *Metrics
}

type Option func(c *Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New returns a client bound to baseURL. Clients are immutable and safe for concurrent use.
func New(name, baseURL string, opts ...Option) *Client {
	c := &Client{
		name:       name,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Name() string {
	return c.name
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends req and returns the raw response body of a 2xx answer.
// The bearer token of the request context in ctx is forwarded when present.
// Every other outcome is reported as *Error.
func (c *Client) Do(ctx context.Context, req Request) ([]byte, error) {
	if req.Method == "" {
		req.Method = http.MethodGet
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	b, status, err := c.do(ctx, req)
	elapsed := time.Since(start)

	c.metrics.observe(c.name, req.Method, status, elapsed)
	log.FromContext(ctx).V(1).Info(
		"upstream call",
		"service", c.name,
		"method", req.Method,
		"path", req.Path,
		"status", status,
		"elapsed", elapsed.String(),
	)

	return b, err
}

func (c *Client) do(ctx context.Context, req Request) ([]byte, int, error) {
	endpoint := c.baseURL + req.Path
	if len(req.Query) != 0 {
		endpoint += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, 0, c.newError(req, 0, "", fmt.Errorf("marshal request body: %w", err))
		}
		body = bytes.NewReader(b)
	}

	hreq, err := http.NewRequestWithContext(ctx, req.Method, endpoint, body)
	if err != nil {
		return nil, 0, c.newError(req, 0, "", err)
	}
	hreq.Header.Set("Accept", "application/json")
	if body != nil {
		hreq.Header.Set("Content-Type", "application/json")
	}
	if token := auth.FromContext(ctx).BearerToken(); token != "" {
		hreq.Header.Set("Authorization", "Bearer "+token)
	}
	if id := RequestIDFromContext(ctx); id != "" {
		hreq.Header.Set("X-Request-Id", id)
	}

	resp, err := c.httpClient.Do(hreq)
	if err != nil {
		return nil, 0, c.newError(req, 0, "", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, resp.StatusCode, c.newError(req, resp.StatusCode, "", fmt.Errorf("read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, c.newError(req, resp.StatusCode, ExtractMessage(b), nil)
	}

	return b, resp.StatusCode, nil
}

func (c *Client) newError(req Request, status int, message string, cause error) *Error {
	e := &Error{
		Service:    c.name,
		Method:     req.Method,
		Path:       req.Path,
		StatusCode: status,
		Message:    message,
		Err:        cause,
	}
	var te interface{ Timeout() bool }
	if cause != nil && (errors.Is(cause, context.DeadlineExceeded) || errors.As(cause, &te) && te.Timeout()) {
		e.Timeout = true
	}
	if e.Message == "" {
		e.Message = defaultMessage(c.name, status, e.Timeout)
	}
	return e
}

func defaultMessage(service string, status int, timeout bool) string {
	switch {
	case timeout:
		return fmt.Sprintf("%s service timed out", service)
	case status == 0:
		return fmt.Sprintf("%s service is unreachable", service)
	case status >= 500:
		return fmt.Sprintf("%s service is unavailable", service)
	default:
		text := http.StatusText(status)
		if text == "" {
			text = "request failed"
		}
		return text
	}
}

type requestIDKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
