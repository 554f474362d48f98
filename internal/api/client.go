// Package api talks to the calendar backend: credential exchange and
// refresh, authenticated requests with a single retry on expiry, and the
// entity endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/nhle/monthcal/internal/credential"
)

// RequestOptions controls the auth policy of one Request.
type RequestOptions struct {
	// RequiresAuth attaches the stored access credential.
	RequiresAuth bool

	// RetryOnExpiry refreshes and reissues once after a 401.
	RetryOnExpiry bool
}

var authed = RequestOptions{RequiresAuth: true, RetryOnExpiry: true}

// Client issues authenticated requests against the backend.
type Client struct {
	transport
	creds   credential.Store
	gateway *Gateway
}

// NewClient creates a Client reading credentials from creds and
// refreshing through gateway.
func NewClient(baseURL string, creds credential.Store, gateway *Gateway, opts ...Option) *Client {
	return &Client{
		transport: newTransport(baseURL, opts),
		creds:     creds,
		gateway:   gateway,
	}
}

// Request issues one logical call. A 401 with both options set triggers
// at most one refresh and one reissue. Any 401 that ends the call fires
// the unrecoverable-session callback. A 204 or empty body yields a nil
// message.
func (c *Client) Request(
	ctx context.Context,
	method string,
	path string,
	body any,
	opts RequestOptions,
) (json.RawMessage, error) {
	payload, err := marshalBody(body)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	resp, err := c.send(ctx, method, path, payload, c.headers(requestID, opts.RequiresAuth))
	if err != nil {
		return nil, err
	}

	if resp.status == http.StatusUnauthorized && opts.RequiresAuth && opts.RetryOnExpiry {
		c.logger.Debug("access credential expired, refreshing",
			"method", method, "path", path, "request_id", requestID)

		if _, err := c.gateway.Refresh(ctx); err != nil {
			return nil, fmt.Errorf("%s %s: %w", method, path, err)
		}

		resp, err = c.send(ctx, method, path, payload, c.headers(requestID, true))
		if err != nil {
			return nil, err
		}
	}

	switch {
	case resp.status == http.StatusUnauthorized:
		c.gateway.notifyUnrecoverable()
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, newHTTPError(method, path, resp.status, resp.body))
	case !resp.ok():
		return nil, newHTTPError(method, path, resp.status, resp.body)
	case resp.empty():
		return nil, nil
	}
	return json.RawMessage(resp.body), nil
}

func (c *Client) headers(requestID string, withAuth bool) http.Header {
	h := http.Header{}
	h.Set("X-Request-ID", requestID)
	if !withAuth {
		return h
	}
	if pair, ok := c.creds.Get().Get(); ok && pair.Access != "" {
		h.Set("Authorization", "Bearer "+pair.Access)
	}
	return h
}

// Get performs an authenticated GET and decodes the response into result.
func (c *Client) Get(ctx context.Context, path string, result any) error {
	return c.call(ctx, http.MethodGet, path, nil, result)
}

// Post performs an authenticated POST and decodes the response into result.
func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	return c.call(ctx, http.MethodPost, path, body, result)
}

// Patch performs an authenticated PATCH and decodes the response into result.
func (c *Client) Patch(ctx context.Context, path string, body, result any) error {
	return c.call(ctx, http.MethodPatch, path, body, result)
}

// Delete performs an authenticated DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.call(ctx, http.MethodDelete, path, nil, nil)
}

// call decodes with UseNumber so numeric ids keep their textual form.
// An empty response leaves result untouched.
func (c *Client) call(ctx context.Context, method, path string, body, result any) error {
	raw, err := c.Request(ctx, method, path, body, authed)
	if err != nil {
		return err
	}
	if result == nil || raw == nil {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(result); err != nil {
		return fmt.Errorf("decoding response from %s %s: %w", method, path, err)
	}
	return nil
}
