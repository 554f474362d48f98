package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nhle/monthcal/internal/adapter"
)

// Option configures a Gateway or Client.
type Option func(*transport)

// WithHTTPClient sets the HTTP client used for every request.
func WithHTTPClient(c *http.Client) Option {
	return func(t *transport) {
		t.httpClient = c
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *transport) {
		if l != nil {
			t.logger = l
		}
	}
}

// transport issues JSON requests against the backend and buffers the
// response. It applies no auth policy of its own.
type transport struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func newTransport(baseURL string, opts []Option) transport {
	t := transport{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// response is a fully read HTTP response.
type response struct {
	status int
	body   []byte
}

func (r *response) ok() bool {
	return r.status >= 200 && r.status < 300
}

// empty reports whether the response carries no data.
func (r *response) empty() bool {
	return r.status == http.StatusNoContent || len(bytes.TrimSpace(r.body)) == 0
}

func marshalBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request body: %w", err)
	}
	return data, nil
}

// send performs one HTTP round trip. header may be nil.
func (t *transport) send(
	ctx context.Context,
	method string,
	path string,
	payload []byte,
	header http.Header,
) (*response, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	t.logger.Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	return &response{status: resp.StatusCode, body: body}, nil
}

// decodeEntity parses a response body that must hold one entity.
func decodeEntity(entity string, body []byte) (any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &adapter.ShapeError{Entity: entity, Reason: "empty body"}
	}
	raw, err := adapter.Decode(body)
	if err != nil {
		return nil, &adapter.ShapeError{Entity: entity, Reason: err.Error()}
	}
	return raw, nil
}
