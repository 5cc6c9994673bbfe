// Package catalogclient is the consumer-side data layer for the catalog API:
// an HTTP client plus a TTL-cached pager supporting classic pagination and
// infinite scroll.
package catalogclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rupamlabs/ecatalog/pkg/api"
)

// ErrNotFound is returned by FindByID when no product matches the ID.
var ErrNotFound = errors.New("product not found")

// Fetcher issues catalog page queries. Implemented by Client over HTTP and by
// the catalog service directly for in-process consumers and tests.
type Fetcher interface {
	ListProducts(ctx context.Context, q api.Query) (*api.ProductListResponse, error)
}

// Client is an HTTP Fetcher against a catalog service instance.
type Client struct {
	baseURL string
	http    *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient creates a catalog API client for the given base URL
// (e.g. "http://localhost:8080").
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListProducts fetches one catalog page.
func (c *Client) ListProducts(ctx context.Context, q api.Query) (*api.ProductListResponse, error) {
	u := c.baseURL + "/api/v1/products?" + q.Values().Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var body api.ProductListResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode product list: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog query failed: %s", errorFromEnvelope(body.Error, body.Details, resp.StatusCode))
	}
	return &body, nil
}

// FindByID fetches a single product merged with the company snapshot.
func (c *Client) FindByID(ctx context.Context, id string) (*api.ProductDetail, error) {
	u := c.baseURL + "/api/v1/products?id=" + id
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		var envelope struct {
			Error   string `json:"error"`
			Details string `json:"details"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		return nil, fmt.Errorf("product lookup failed: %s", errorFromEnvelope(envelope.Error, envelope.Details, resp.StatusCode))
	}

	var detail api.ProductDetail
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return nil, fmt.Errorf("failed to decode product: %w", err)
	}
	return &detail, nil
}

func errorFromEnvelope(msg, details string, statusCode int) string {
	switch {
	case msg != "" && details != "":
		return msg + ": " + details
	case msg != "":
		return msg
	default:
		return fmt.Sprintf("unexpected status %d", statusCode)
	}
}
