package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/javiermolinar/horario/internal/timetable"
)

// Endpoint paths, relative to the base URL.
const (
	PathGenerate     = "/generate/"
	PathValidateMove = "/validate-move/"
	PathExport       = "/export/"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

const (
	// DefaultTimeout bounds a single request when no timeout is configured.
	DefaultTimeout = 30 * time.Second

	maxErrorBody = 512
)

// HTTPClient implements Client over HTTP and JSON.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	timeout    time.Duration
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *HTTPClient) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTimeout sets the per-request timeout. It applies to a copy of the http.Client,
// so a client passed through WithHTTPClient is left untouched.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewHTTPClient creates a client for the service at baseURL.
func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrEmptyBaseURL
	}
	c := &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 && c.httpClient.Timeout != c.timeout {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c, nil
}

// BaseURL returns the service root.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// Generate runs the remote solver. A successful response without a schedules key is
// reported as a *GenerationError carrying the service's message.
func (c *HTTPClient) Generate(ctx context.Context) (timetable.Collection, error) {
	body, err := c.post(ctx, PathGenerate, nil)
	if err != nil {
		return nil, err
	}

	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding generate response: %w", err)
	}
	if resp.Schedules == nil {
		return nil, &GenerationError{Message: resp.Message}
	}
	return *resp.Schedules, nil
}

// ValidateMove posts the proposed timetable and returns the verdict.
func (c *HTTPClient) ValidateMove(ctx context.Context, req ValidateMoveRequest) (ValidateMoveResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return ValidateMoveResponse{}, fmt.Errorf("encoding validate request: %w", err)
	}

	body, err := c.post(ctx, PathValidateMove, payload)
	if err != nil {
		return ValidateMoveResponse{}, err
	}

	var resp ValidateMoveResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return ValidateMoveResponse{}, fmt.Errorf("decoding validate response: %w", err)
	}
	return resp, nil
}

// Export posts one schedule and returns the rendered document bytes.
func (c *HTTPClient) Export(ctx context.Context, s timetable.Schedule) ([]byte, error) {
	payload, err := json.Marshal(exportRequest{Schedule: s})
	if err != nil {
		return nil, fmt.Errorf("encoding export request: %w", err)
	}
	return c.post(ctx, PathExport, payload)
}

func (c *HTTPClient) post(ctx context.Context, path string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	log := c.logger.With(
		zap.String("endpoint", path),
		zap.String("request_id", requestID),
	)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("solver request failed", zap.Error(err))
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: reading response: %w", path, err)
	}

	log.Debug("solver request",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text := strings.TrimSpace(string(body))
		if len(text) > maxErrorBody {
			text = text[:maxErrorBody]
		}
		return nil, &StatusError{Endpoint: path, Code: resp.StatusCode, Body: text}
	}
	return body, nil
}
