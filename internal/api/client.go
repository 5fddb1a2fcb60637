package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/orders-dashboard/internal/metrics"
	"github.com/orders-dashboard/internal/model"
)

// Client talks to the backend orders REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	authToken  string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetAuthToken sets the bearer token sent with every request.
func (c *Client) SetAuthToken(token string) {
	c.authToken = token
}

func (c *Client) CreateOrder(ctx context.Context, req model.OrderRequest) (*model.Order, error) {
	var order model.Order
	if err := c.do(ctx, "create_order", http.MethodPost, "/admin/orders", nil, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) UpdateOrder(ctx context.Context, req model.OrderRequest) (*model.Order, error) {
	var order model.Order
	path := "/admin/orders/" + strconv.FormatInt(req.ID, 10)
	if err := c.do(ctx, "update_order", http.MethodPut, path, nil, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) DeleteOrder(ctx context.Context, id int64) error {
	path := "/admin/orders/" + strconv.FormatInt(id, 10)
	return c.do(ctx, "delete_order", http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	var order model.Order
	path := "/admin/orders/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, "get_order", http.MethodGet, path, nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) GetAllOrders(ctx context.Context, page int) (*model.OrderPage, error) {
	var resp model.OrderPage
	query := url.Values{"page": {strconv.Itoa(page)}}
	if err := c.do(ctx, "get_all_orders", http.MethodGet, "/orders", query, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetOrdersByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	var orders []model.Order
	path := "/orders/status/" + url.PathEscape(string(status))
	if err := c.do(ctx, "get_orders_by_status", http.MethodGet, path, nil, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) error {
	path := "/orders/" + strconv.FormatInt(id, 10) + "/status"
	query := url.Values{"status": {string(status)}}
	return c.do(ctx, "update_order_status", http.MethodPatch, path, query, nil, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, result any) (err error) {
	start := time.Now()
	defer func() {
		metrics.BackendRequestDuration.WithLabelValues(op, metrics.Outcome(err)).Observe(time.Since(start).Seconds())
	}()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %s %s: %w", op, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read body: %w", op, err)
	}

	if resp.StatusCode >= 400 {
		return &Error{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}

	if result != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("%s: decode response: %w", op, err)
		}
	}
	return nil
}

// errorMessage extracts the "message" of a backend error body. Plain-text
// bodies are returned as-is.
func errorMessage(data []byte) string {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return ""
	}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(trimmed, &body); err != nil {
		return string(trimmed)
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
