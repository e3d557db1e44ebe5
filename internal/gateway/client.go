package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/smallbiznis/helpdesk/internal/config"
	"github.com/smallbiznis/helpdesk/internal/credential"
	"github.com/smallbiznis/helpdesk/internal/observability/logger"
	"github.com/smallbiznis/helpdesk/internal/observability/metrics"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxResponseBody = 8 << 20

type Params struct {
	fx.In

	Cfg       config.Config
	Log       *zap.Logger
	Holder    credential.Holder
	Navigator Navigator
	Metrics   *metrics.Metrics     `optional:"true"`
	Tracer    trace.TracerProvider `optional:"true"`
	// HTTPClient overrides the instrumented default; tests pass httptest clients.
	HTTPClient *http.Client `optional:"true"`
}

// Client speaks the backend's JSON contract. It is safe for concurrent use.
type Client struct {
	baseURL   string
	loginPath string
	http      *http.Client
	holder    credential.Holder
	navigator Navigator
	limiter   *rate.Limiter
	metrics   *metrics.Metrics
	log       *zap.Logger
}

func NewClient(p Params) *Client {
	httpClient := p.HTTPClient
	if httpClient == nil {
		opts := []otelhttp.Option{}
		if p.Tracer != nil {
			opts = append(opts, otelhttp.WithTracerProvider(p.Tracer))
		}
		httpClient = &http.Client{
			Timeout:   p.Cfg.Gateway.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport, opts...),
		}
	}

	var limiter *rate.Limiter
	if p.Cfg.Gateway.RatePerSecond > 0 {
		burst := p.Cfg.Gateway.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(p.Cfg.Gateway.RatePerSecond), burst)
	}

	loginPath := p.Cfg.LoginPath
	if loginPath == "" {
		loginPath = "/login"
	}

	return &Client{
		baseURL:   strings.TrimRight(p.Cfg.Gateway.BaseURL, "/"),
		loginPath: loginPath,
		http:      httpClient,
		holder:    p.Holder,
		navigator: p.Navigator,
		limiter:   limiter,
		metrics:   p.Metrics,
		log:       p.Log.Named("gateway"),
	}
}

// Request sends body as JSON and decodes the response into out when both are
// non-nil. A {"data": ...} envelope is unwrapped.
func (c *Client) Request(ctx context.Context, method, path string, body, out any) error {
	log := logger.WithContext(ctx, c.log).With(zap.String("method", method), zap.String("path", path))

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &TransportError{Method: method, Path: path, Err: err}
		}
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token, err := c.holder.Token(ctx); err != nil {
		log.Warn("credential read failed", zap.Error(err))
	} else if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordGatewayRequest(method, 0, time.Since(start))
		log.Error("gateway request failed", zap.Error(err))
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()
	c.metrics.RecordGatewayRequest(method, resp.StatusCode, time.Since(start))

	// The status alone expires the session; the body may never arrive.
	if resp.StatusCode == http.StatusUnauthorized {
		c.expire(ctx)
		return ErrAuthExpired
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		log.Error("gateway response read failed", zap.Error(err))
		return &TransportError{Method: method, Path: path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RequestFailedError{
			Method:  method,
			Path:    path,
			Status:  resp.StatusCode,
			Message: errorMessage(raw, resp.StatusCode),
		}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := decode(raw, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// expire runs on every 401, concurrent ones included.
func (c *Client) expire(ctx context.Context) {
	if err := c.holder.Clear(ctx); err != nil {
		logger.WithContext(ctx, c.log).Warn("credential clear failed", zap.Error(err))
	}
	if c.navigator != nil {
		c.navigator.Redirect(ctx, c.loginPath)
	}
}

// File is a binary payload for UploadBinary.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadBinary PUTs the raw file to a presigned URL. It reports success only;
// failures are logged.
func (c *Client) UploadBinary(ctx context.Context, presignedURL string, file File) bool {
	log := logger.WithContext(ctx, c.log).With(zap.String("file", file.Name))

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, presignedURL, file.Body)
	if err != nil {
		log.Warn("upload request invalid", zap.Error(err))
		return false
	}
	if file.ContentType != "" {
		req.Header.Set("Content-Type", file.ContentType)
	}
	if file.Size > 0 {
		req.ContentLength = file.Size
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordGatewayRequest(http.MethodPut, 0, time.Since(start))
		log.Warn("upload failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))
	c.metrics.RecordGatewayRequest(http.MethodPut, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn("upload rejected", zap.Int("status", resp.StatusCode))
		return false
	}
	return true
}

func decode(raw []byte, out any) error {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 {
		return json.Unmarshal(envelope.Data, out)
	}
	return json.Unmarshal(raw, out)
}

func errorMessage(raw []byte, status int) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && strings.TrimSpace(body.Message) != "" {
		return body.Message
	}
	return fmt.Sprintf("request failed with status %d", status)
}
