// Package client is the Go consumer of the ShareHub listing API. It covers
// the browse surface (search, filters, item detail) and layers debounced
// live search on top, so interactive callers get at most one request per
// pause in typing and never see a stale result page.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/sharehub-app/sharehub-backend/pkg/errors"
	"github.com/sharehub-app/sharehub-backend/pkg/geo"
	"github.com/sharehub-app/sharehub-backend/pkg/pagination"
	"github.com/sharehub-app/sharehub-backend/pkg/search"
)

const errorBodyReadLimit int64 = 1024

// Client talks to a ShareHub API server.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithToken attaches a bearer token to every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// NewClient builds a client for the API server at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "base URL is required")
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return client, nil
}

// Item is the listing payload returned by the API.
type Item struct {
	ID          uuid.UUID        `json:"id"`
	OwnerID     uuid.UUID        `json:"owner_id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	ListingType string           `json:"listing_type"`
	Condition   string           `json:"condition"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Address     *string          `json:"address,omitempty"`
	Latitude    *float64         `json:"latitude,omitempty"`
	Longitude   *float64         `json:"longitude,omitempty"`
	Images      []string         `json:"images"`
	Status      string           `json:"status"`
	ViewsCount  int64            `json:"views_count"`
	DistanceKm  *float64         `json:"distance_km,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ItemsPage is one page of search results.
type ItemsPage struct {
	Items []Item          `json:"items"`
	Meta  pagination.Meta `json:"meta"`
}

// SearchItems runs a listing search with the given filters. A non-nil viewer
// position makes the server annotate each result with its distance.
func (c *Client) SearchItems(ctx context.Context, filters search.Filters, viewer *geo.Point) (*ItemsPage, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "client not configured")
	}

	values := filters.Values()
	if viewer != nil {
		values.Set("lat", strconv.FormatFloat(viewer.Lat, 'f', -1, 64))
		values.Set("lng", strconv.FormatFloat(viewer.Lng, 'f', -1, 64))
	}

	endpoint := c.baseURL + "/api/v1/items"
	if encoded := values.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var page ItemsPage
	if err := c.getJSON(ctx, endpoint, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetItem fetches one listing by ID.
func (c *Client) GetItem(ctx context.Context, itemID uuid.UUID, viewer *geo.Point) (*Item, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "client not configured")
	}
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item ID is required")
	}

	endpoint := fmt.Sprintf("%s/api/v1/items/%s", c.baseURL, url.PathEscape(itemID.String()))
	if viewer != nil {
		values := url.Values{}
		values.Set("lat", strconv.FormatFloat(viewer.Lat, 'f', -1, 64))
		values.Set("lng", strconv.FormatFloat(viewer.Lng, 'f', -1, 64))
		endpoint += "?" + values.Encode()
	}

	var item Item
	if err := c.getJSON(ctx, endpoint, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build request")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode response")
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode response payload")
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Code != "" {
		return pkgerrors.New(pkgerrors.Code(envelope.Error.Code), envelope.Error.Message)
	}
	return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
}
