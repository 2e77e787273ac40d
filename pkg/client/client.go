package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/terra-clan/sitetrack/internal/models"
	"github.com/terra-clan/sitetrack/internal/schedule"
	"github.com/terra-clan/sitetrack/internal/snapshots"
)

// Client is a Go SDK for the sitetrack API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new sitetrack client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError is an error reported by the server in the response envelope
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %s - %s", e.Code, e.Message)
}

// ListOptions contains pagination options for listing projects
type ListOptions struct {
	Limit  int
	Offset int
}

// TaskListOptions filters the tasks of a project
type TaskListOptions struct {
	Status   string
	Category string
}

// ListProjects retrieves a page of projects
func (c *Client) ListProjects(ctx context.Context, opts ListOptions) ([]*models.Project, error) {
	q := url.Values{}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		q.Set("offset", strconv.Itoa(opts.Offset))
	}

	var data struct {
		Projects []*models.Project `json:"projects"`
	}
	if err := c.call(ctx, http.MethodGet, withQuery("/api/v1/projects", q), nil, &data); err != nil {
		return nil, err
	}
	return data.Projects, nil
}

// GetProject retrieves a project by ID
func (c *Client) GetProject(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	if err := c.call(ctx, http.MethodGet, "/api/v1/projects/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListTasks retrieves the tasks of a project
func (c *Client) ListTasks(ctx context.Context, projectID string, opts TaskListOptions) ([]*models.Task, error) {
	q := url.Values{}
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	if opts.Category != "" {
		q.Set("category", opts.Category)
	}

	var data struct {
		Tasks []*models.Task `json:"tasks"`
	}
	path := withQuery(fmt.Sprintf("/api/v1/projects/%s/tasks", url.PathEscape(projectID)), q)
	if err := c.call(ctx, http.MethodGet, path, nil, &data); err != nil {
		return nil, err
	}
	return data.Tasks, nil
}

// GetSchedule retrieves the schedule report of a project
func (c *Client) GetSchedule(ctx context.Context, projectID string) (*schedule.Report, error) {
	var report schedule.Report
	path := fmt.Sprintf("/api/v1/projects/%s/schedule", url.PathEscape(projectID))
	if err := c.call(ctx, http.MethodGet, path, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// GetScheduleHistory retrieves stored snapshots of a project, newest first
func (c *Client) GetScheduleHistory(ctx context.Context, projectID string, limit int) ([]snapshots.Snapshot, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var data struct {
		Snapshots []snapshots.Snapshot `json:"snapshots"`
	}
	path := withQuery(fmt.Sprintf("/api/v1/projects/%s/schedule/history", url.PathEscape(projectID)), q)
	if err := c.call(ctx, http.MethodGet, path, nil, &data); err != nil {
		return nil, err
	}
	return data.Snapshots, nil
}

// PatchTask applies a partial update to a task
func (c *Client) PatchTask(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	body, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var t models.Task
	if err := c.call(ctx, http.MethodPatch, "/api/v1/tasks/"+url.PathEscape(id), bytes.NewReader(body), &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Health checks if the service is healthy
func (c *Client) Health(ctx context.Context) error {
	return c.call(ctx, http.MethodGet, "/health", nil, nil)
}

// call performs a request and decodes the data field of the envelope into out
func (c *Client) call(ctx context.Context, method, path string, body io.Reader, out interface{}) error {
	status, resp, err := c.doRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	var result struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *APIError       `json:"error"`
	}

	if err := json.Unmarshal(resp, &result); err != nil {
		if status >= 400 {
			return fmt.Errorf("HTTP %d: %s", status, string(resp))
		}
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if !result.Success {
		if result.Error == nil {
			return &APIError{Status: status, Code: "unknown", Message: http.StatusText(status)}
		}
		result.Error.Status = status
		return result.Error
	}

	if out == nil || len(result.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(result.Data, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// doRequest performs an HTTP request
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, respBody, nil
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
