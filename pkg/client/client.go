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

	"github.com/dennisdiepolder/monti/dashboard/internal/types"
	"github.com/dennisdiepolder/monti/dashboard/internal/views"
)

// Client talks to the dashboard HTTP API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// APIError is a non-2xx response from the server
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// NewClient creates a new dashboard client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Health retrieves the server health document
func (c *Client) Health(ctx context.Context) (map[string]string, error) {
	var out map[string]string
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAgents returns every agent
func (c *Client) ListAgents(ctx context.Context) ([]types.Agent, error) {
	var out []types.Agent
	if err := c.do(ctx, http.MethodGet, "/api/agents", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAgent returns one agent
func (c *Client) GetAgent(ctx context.Context, id int) (*types.Agent, error) {
	var out types.Agent
	if err := c.do(ctx, http.MethodGet, "/api/agents/"+strconv.Itoa(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAgent removes an agent and returns it
func (c *Client) DeleteAgent(ctx context.Context, id int) (*types.Agent, error) {
	var out types.Agent
	if err := c.do(ctx, http.MethodDelete, "/api/agents/"+strconv.Itoa(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AgentsPage fetches the agent page for the given list query
func (c *Client) AgentsPage(ctx context.Context, q url.Values) (*views.AgentsPage, error) {
	var out views.AgentsPage
	if err := c.do(ctx, http.MethodGet, "/api/views/agents", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CallsPage fetches the call log page for the given list query
func (c *Client) CallsPage(ctx context.Context, q url.Values) (*views.CallsPage, error) {
	var out views.CallsPage
	if err := c.do(ctx, http.MethodGet, "/api/views/calls", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// QueuesPage fetches the queue page for the given list query
func (c *Client) QueuesPage(ctx context.Context, q url.Values) (*views.QueuesPage, error) {
	var out views.QueuesPage
	if err := c.do(ctx, http.MethodGet, "/api/views/queues", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		var e struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
