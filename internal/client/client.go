// Package client talks to the overlay JSON API and maps HTTP outcomes onto
// the shared error taxonomy in package model.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/dvrpc/tp-updater/internal/catalog"
	"github.com/dvrpc/tp-updater/internal/model"
)

var _ model.OverlayService = (*Client)(nil)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 1 << 20

// Client implements model.OverlayService over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New constructs a client for baseURL (for example
// http://127.0.0.1:8000/tracking-progress/v1). The timeout bounds every request.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = model.DefaultRequestTimeout
	}
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

// NewWithHTTPClient constructs a client using the supplied *http.Client.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: hc,
	}
}

// Add marks indicator as recently updated.
func (c *Client) Add(ctx context.Context, indicator string) error {
	status, body, err := c.do(ctx, http.MethodPost, "/indicators", model.IndicatorRequest{Name: indicator})
	if err != nil {
		return err
	}
	switch status {
	case http.StatusCreated, http.StatusOK:
		return nil
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %q", model.ErrInvalidIndicator, indicator)
	default:
		return statusError("add", status, body)
	}
}

// Remove clears the overlay for indicator. A missing overlay yields model.ErrNotFound.
func (c *Client) Remove(ctx context.Context, indicator string) error {
	status, body, err := c.do(ctx, http.MethodDelete, "/indicators", model.IndicatorRequest{Name: indicator})
	if err != nil {
		return err
	}
	switch status {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("%w: %q", model.ErrNotFound, indicator)
	default:
		return statusError("remove", status, body)
	}
}

// List returns the currently overlaid indicators as reported by the server.
func (c *Client) List(ctx context.Context) ([]string, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/indicators", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, statusError("list", status, body)
	}

	var names []string
	if err := json.Unmarshal(body, &names); err != nil || names == nil {
		return nil, malformed("list", body, err)
	}
	return names, nil
}

// Catalog fetches the server's indicator catalog.
func (c *Client) Catalog(ctx context.Context) (*catalog.Catalog, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/catalog", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, statusError("catalog", status, body)
	}

	var resp model.CatalogResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, malformed("catalog", body, err)
	}
	cat, err := catalog.New(resp.Version, resp.Indicators)
	if err != nil {
		return nil, malformed("catalog", body, err)
	}
	return cat, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	if c.baseURL == "" {
		return 0, nil, fmt.Errorf("%w: base URL not configured", model.ErrUnavailable)
	}

	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("client: marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, model.Unavailable(method+" "+path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, model.Unavailable("read "+path, err)
	}
	return resp.StatusCode, body, nil
}

func statusError(op string, status int, body []byte) error {
	var e model.ErrorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return fmt.Errorf("%w: %s: status %d: %s", model.ErrUnavailable, op, status, e.Error)
	}
	return fmt.Errorf("%w: %s: status %d", model.ErrUnavailable, op, status)
}

func malformed(op string, body []byte, err error) error {
	log.Printf("client: malformed response (%s): %v: %.120q", op, err, body)
	if err == nil {
		return fmt.Errorf("%w: %s: unexpected shape", model.ErrMalformed, op)
	}
	return fmt.Errorf("%w: %s: %v", model.ErrMalformed, op, err)
}
