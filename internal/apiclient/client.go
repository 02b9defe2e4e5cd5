// Package apiclient talks to the catalog/order backend.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/adityabima03/YuhuKopi/internal/domain"
	apperrors "github.com/adityabima03/YuhuKopi/pkg/errors"
	"github.com/adityabima03/YuhuKopi/pkg/httpclient"
	applog "github.com/adityabima03/YuhuKopi/pkg/logger"
)

// ErrFetchCoffeeDetail wraps every non-404 failure of FetchCoffeeByID.
var ErrFetchCoffeeDetail = errors.New("failed to fetch coffee detail")

const upstream = "coffee-api"

// Client is the storefront's view of the backend API.
type Client struct {
	http    httpclient.Doer
	baseURL string
	logger  *slog.Logger
}

// New creates a Client for baseURL using doer for transport.
func New(doer httpclient.Doer, baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Client{http: doer, baseURL: baseURL, logger: logger}
}

type envelope[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

func (c *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, http.NoBody)
	}
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := applog.CorrelationIDFromContext(ctx); id != "" {
		req.Header.Set("X-Correlation-ID", id)
	}
	if id := applog.SessionIDFromContext(ctx); id != "" {
		req.Header.Set("X-Session-ID", id)
	}
	return req, nil
}

// FetchCoffees returns the full menu.
func (c *Client) FetchCoffees(ctx context.Context) ([]domain.Coffee, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/coffees", nil)
	if err != nil {
		return nil, fmt.Errorf("create list coffees request: %w", err)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("list coffees: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, upstream)
	}
	defer resp.Body.Close()

	var out envelope[[]domain.Coffee]
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode coffees: %w", err)
	}
	return out.Data, nil
}

// FetchCoffeeByID returns one coffee. A 404 yields (nil, nil); any other
// failure is reported as ErrFetchCoffeeDetail wrapping the cause.
func (c *Client) FetchCoffeeByID(ctx context.Context, id string) (*domain.Coffee, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/coffees/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchCoffeeDetail, err)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchCoffeeDetail, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		_ = resp.Body.Close()
		c.logger.DebugContext(ctx, "coffee not found", slog.String("coffee_id", id))
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %w", ErrFetchCoffeeDetail, httpclient.ParseResponseError(resp, upstream))
	}
	defer resp.Body.Close()

	var out envelope[*domain.Coffee]
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrFetchCoffeeDetail, err)
	}
	if out.Data == nil {
		return nil, fmt.Errorf("%w: empty response", ErrFetchCoffeeDetail)
	}
	return out.Data, nil
}

// CreateOrder submits an order and returns the backend's receipt.
func (c *Client) CreateOrder(ctx context.Context, payload *domain.CreateOrderRequest) (*domain.OrderReceipt, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal create order request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/orders", body)
	if err != nil {
		return nil, fmt.Errorf("create order request: %w", err)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("call order api: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, httpclient.ParseResponseError(resp, upstream)
	}
	defer resp.Body.Close()

	var out envelope[*domain.OrderReceipt]
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode order response: %w", err)
	}
	if out.Data == nil {
		return nil, apperrors.Internal(errors.New("order api returned no receipt"))
	}

	c.logger.InfoContext(ctx, "order created",
		slog.String("order_id", out.Data.ID),
		slog.String("delivery_type", string(out.Data.DeliveryType)),
		slog.String("total", out.Data.Total.StringFixed(2)),
	)
	return out.Data, nil
}
