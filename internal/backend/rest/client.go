// Package rest implements the service.Service interface against a JSON REST backend.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"todoctl/internal/config"
	"todoctl/internal/service"
)

// RequestIDHeader carries a per-request id for correlating client and server logs.
const RequestIDHeader = "X-Request-ID"

// Client implements service.Service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	log        *log.Logger
}

// New creates a client for the backend configured in cfg.
// If cfg carries a token, requests are sent with it as a bearer token.
func New(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIURL) == "" {
		return nil, fmt.Errorf("api url is not configured")
	}

	httpClient := &http.Client{}
	if cfg.Token != nil {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(cfg.Token))
	}

	c := NewWithHTTPClient(cfg.APIURL, httpClient, logger)
	c.timeout = cfg.Timeout
	return c, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		timeout:    config.DefaultTimeout,
		log:        logger,
	}
}

// ListTodos returns every todo in backend order.
func (c *Client) ListTodos(ctx context.Context) ([]service.Todo, error) {
	var todos []service.Todo
	if err := c.do(ctx, service.OpList, http.MethodGet, "/todos", nil, &todos); err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []service.Todo{}
	}
	return todos, nil
}

// CreateTodo creates a todo.
func (c *Client) CreateTodo(ctx context.Context, in service.TodoInput) (service.Todo, error) {
	var created service.Todo
	if err := c.do(ctx, service.OpCreate, http.MethodPost, "/todos", in, &created); err != nil {
		return service.Todo{}, err
	}
	return created, nil
}

// UpdateTodo replaces a todo.
func (c *Client) UpdateTodo(ctx context.Context, id int64, t service.Todo) (service.Todo, error) {
	var updated service.Todo
	if err := c.do(ctx, service.OpUpdate, http.MethodPut, todoPath(id), t, &updated); err != nil {
		return service.Todo{}, err
	}
	return updated, nil
}

// DeleteTodo deletes a todo.
func (c *Client) DeleteTodo(ctx context.Context, id int64) (service.Ack, error) {
	var ack service.Ack
	if err := c.do(ctx, service.OpDelete, http.MethodDelete, todoPath(id), nil, &ack); err != nil {
		return service.Ack{}, err
	}
	return ack, nil
}

func todoPath(id int64) string {
	return "/todos/" + strconv.FormatInt(id, 10)
}

// do performs one request and decodes the JSON response into out.
// Every failure is reported as a *service.RequestError for op.
func (c *Client) do(ctx context.Context, op service.Op, method, path string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return service.Fail(op, 0, fmt.Errorf("encode request: %w", err))
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return service.Fail(op, 0, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("request failed", "id", requestID, "method", method, "path", path, "err", err)
		return service.Fail(op, 0, wrapError(err))
	}
	defer googleapi.CloseBody(res)

	c.log.Debug("request", "id", requestID, "method", method, "path", path,
		"status", res.StatusCode, "duration", time.Since(start))

	if err := googleapi.CheckResponse(res); err != nil {
		return service.Fail(op, res.StatusCode, err)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return service.Fail(op, 0, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// wrapError wraps transport errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "context deadline exceeded") {
		return fmt.Errorf("request timed out: %w", err)
	}
	return err
}
