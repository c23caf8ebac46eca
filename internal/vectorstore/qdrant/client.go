// Package qdrant implements vectorstore.Store over the Qdrant REST API.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/prodexhq/prodex/internal/domain"
	"github.com/prodexhq/prodex/internal/vectorstore"
)

// Compile-time check: Client implements vectorstore.Store.
var _ vectorstore.Store = (*Client)(nil)

const defaultTimeout = 5 * time.Second

// Config holds connection parameters for a Qdrant instance.
type Config struct {
	URL     string        // e.g. http://localhost:6333
	APIKey  string        // optional, sent as api-key header
	Timeout time.Duration // per-request; defaults to 5s
	Logger  *zap.Logger
}

// Client talks to Qdrant over REST. Safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	hc      *http.Client
	logger  *zap.Logger
}

// New creates a Qdrant REST client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: cfg.URL,
		apiKey:  cfg.APIKey,
		hc:      &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// CollectionExists checks collection presence via GET /collections/{name}.
func (c *Client) CollectionExists(ctx context.Context, name string) (bool, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/collections/"+name, nil)
	if err != nil {
		return false, err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return false, fmt.Errorf("get collection %q: %w: %w", name, domain.ErrVectorStoreUnavailable, err)
	}
	defer drain(resp)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, nil
	default:
		return false, fmt.Errorf("get collection %q: unexpected status %d", name, resp.StatusCode)
	}
}

// CreateCollection creates a collection via PUT /collections/{name}.
// A conflict on an already-existing collection is treated as success so that
// concurrent first callers racing on check-then-create stay correct.
func (c *Client) CreateCollection(ctx context.Context, name string, vectorSize int, distance string) error {
	if distance == "" {
		distance = vectorstore.DistanceCosine
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     vectorSize,
			"distance": distance,
		},
	}

	resp, err := c.doJSON(ctx, http.MethodPut, "/collections/"+name, body)
	if err != nil {
		return fmt.Errorf("create collection %q: %w", name, err)
	}
	defer drain(resp)

	if resp.StatusCode == http.StatusConflict {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("create collection %q: status %d: %s", name, resp.StatusCode, readError(resp))
	}
	return nil
}

// Upsert writes one point via PUT /collections/{name}/points.
// Overwrites by id: duplicate upserts from racing indexers are last-write-wins.
func (c *Client) Upsert(ctx context.Context, collection string, id int, vector []float32, payload map[string]any) error {
	body := map[string]any{
		"points": []map[string]any{
			{
				"id":      id,
				"vector":  vector,
				"payload": payload,
			},
		},
	}

	resp, err := c.doJSON(ctx, http.MethodPut, "/collections/"+collection+"/points", body)
	if err != nil {
		return fmt.Errorf("upsert point %d: %w", id, err)
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("upsert point %d: status %d: %s", id, resp.StatusCode, readError(resp))
	}
	return nil
}

// Search queries the topK nearest neighbors via POST .../points/search.
// An unreachable store or non-2xx response yields an empty id list, not an
// error. The retriever's fallback contract relies on this.
func (c *Client) Search(ctx context.Context, collection string, vector []float32, topK int) ([]int, error) {
	body := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": false,
	}

	resp, err := c.doJSON(ctx, http.MethodPost, "/collections/"+collection+"/points/search", body)
	if err != nil {
		c.logger.Warn("Vector store unreachable, returning no neighbors", zap.Error(err))
		return nil, nil
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("Vector search failed, returning no neighbors",
			zap.Int("status", resp.StatusCode),
			zap.String("collection", collection),
		)
		return nil, nil
	}

	var parsed struct {
		Result []struct {
			ID    int     `json:"id"`
			Score float64 `json:"score"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.logger.Warn("Malformed vector search response", zap.Error(err))
		return nil, nil
	}

	ids := make([]int, 0, len(parsed.Result))
	for _, r := range parsed.Result {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

// DeleteCollection removes a collection via DELETE /collections/{name}.
func (c *Client) DeleteCollection(ctx context.Context, name string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/collections/"+name, nil)
	if err != nil {
		return err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("delete collection %q: %w: %w", name, domain.ErrVectorStoreUnavailable, err)
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("delete collection %q: status %d", name, resp.StatusCode)
	}
	return nil
}

// Ping checks reachability via GET /collections.
func (c *Client) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/collections", nil)
	if err != nil {
		return err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("ping: %w: %w", domain.ErrVectorStoreUnavailable, err)
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ping: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := c.newRequest(ctx, method, path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrVectorStoreUnavailable, err)
	}
	return resp, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}
	return req, nil
}

// drain consumes and closes the body so the connection can be reused.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}

func readError(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil || len(data) == 0 {
		return "no error body"
	}
	return string(data)
}
