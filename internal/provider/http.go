package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/lbuchert/photowall/internal/photo"
)

// Client communicates with a photowall server over JSON/HTTP.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new API client. The token may be empty for
// unauthenticated browsing; authenticated endpoints will then fail with
// ErrUnauthorized.
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// ListPhotos fetches one page of the public photo stream.
func (c *Client) ListPhotos(ctx context.Context, cursor string) (Page, error) {
	path := "/api/photos"
	if cursor != "" {
		path += "?cursor=" + url.QueryEscape(cursor)
	}

	var page Page
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return Page{}, err
	}

	c.logger.Debug("fetched photo page",
		"cursor", cursor,
		"count", len(page.Items),
		"has_more", page.HasMore,
	)
	return page, nil
}

// ListMyPhotos fetches one page of the calling user's own photos,
// optionally narrowed to a category.
func (c *Client) ListMyPhotos(ctx context.Context, cursor string, category photo.Category) (Page, error) {
	query := url.Values{}
	if cursor != "" {
		query.Set("cursor", cursor)
	}
	if category != "" && category != photo.CategoryAll {
		query.Set("category", string(category))
	}

	path := "/api/photos/mine"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var page Page
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return Page{}, err
	}

	c.logger.Debug("fetched own photo page",
		"cursor", cursor,
		"category", category,
		"count", len(page.Items),
	)
	return page, nil
}

// UpdatePhoto applies a partial update and returns the updated photo.
func (c *Client) UpdatePhoto(ctx context.Context, id string, patch PhotoPatch) (photo.Item, error) {
	var item photo.Item
	if err := c.do(ctx, http.MethodPatch, "/api/photos/"+url.PathEscape(id), patch, &item); err != nil {
		return photo.Item{}, err
	}

	c.logger.Info("updated photo", "id", id)
	return item, nil
}

// DeletePhoto removes a photo.
func (c *Client) DeletePhoto(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/photos/"+url.PathEscape(id), nil, nil); err != nil {
		return err
	}

	c.logger.Info("deleted photo", "id", id)
	return nil
}

// ListSeries fetches the calling user's series.
func (c *Client) ListSeries(ctx context.Context) ([]photo.Series, error) {
	var series []photo.Series
	if err := c.do(ctx, http.MethodGet, "/api/series", nil, &series); err != nil {
		return nil, err
	}
	return series, nil
}

// CreateSeries creates a new series and returns it.
func (c *Client) CreateSeries(ctx context.Context, input SeriesInput) (photo.Series, error) {
	var series photo.Series
	if err := c.do(ctx, http.MethodPost, "/api/series", input, &series); err != nil {
		return photo.Series{}, err
	}

	c.logger.Info("created series", "id", series.ID, "title", series.Title)
	return series, nil
}

// do issues one request and decodes the JSON response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
