// Package dispatch executes resolved actions: locally answered replies,
// backend command calls, and browser fallbacks when the backend is offline.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"

	apperrors "github.com/elsahq/elsa/internal/errors"
)

const defaultClientTimeout = 15 * time.Second

// Client talks to the assistant backend over its JSON HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a backend client for the given base URL, e.g.
// "http://127.0.0.1:5000". A zero timeout selects the default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// CommandResponse is the generic command result envelope.
type CommandResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ChatResponse is the /api/chat result.
type ChatResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
	Model    string `json:"model"`
	Error    string `json:"error,omitempty"`
}

// ImageResponse is the /api/image/generate result.
type ImageResponse struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"image_url"`
	Message  string `json:"message"`
}

// SystemInfo describes the backend host.
type SystemInfo struct {
	OS            string  `json:"os"`
	OSVersion     string  `json:"os_version"`
	Hostname      string  `json:"hostname"`
	CPUUsage      float64 `json:"cpu_usage"`
	CPUCores      int     `json:"cpu_cores"`
	MemoryTotal   float64 `json:"memory_total"`
	MemoryUsed    float64 `json:"memory_used"`
	MemoryPercent float64 `json:"memory_percent"`
	DiskPercent   float64 `json:"disk_percent"`
}

// SystemInfoResponse is the /api/system/info result.
type SystemInfoResponse struct {
	Success bool       `json:"success"`
	Info    SystemInfo `json:"info"`
}

// Process is one entry of the running-process listing.
type Process struct {
	PID    int     `json:"pid"`
	Name   string  `json:"name"`
	Memory float64 `json:"memory"`
	Status string  `json:"status"`
}

// ProcessListResponse is the /api/system/apps result.
type ProcessListResponse struct {
	Success   bool      `json:"success"`
	Processes []Process `json:"processes"`
}

// Health probes the backend. A nil error means the backend is reachable.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return errors.Wrap(err, "build health request")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.UnreachableBackend("backend health check failed", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return apperrors.UnreachableBackend(fmt.Sprintf("backend health returned %d", resp.StatusCode), nil)
	}
	return nil
}

// Online reports reachability without surfacing the cause.
func (c *Client) Online(ctx context.Context) bool {
	return c.Health(ctx) == nil
}

// Command posts an action to /api/command and decodes the generic envelope.
func (c *Client) Command(ctx context.Context, action string, params map[string]any) (*CommandResponse, error) {
	var out CommandResponse
	body := map[string]any{"action": action, "params": params}
	if err := c.post(ctx, "/api/command", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Chat posts a message to /api/chat.
func (c *Client) Chat(ctx context.Context, message, model string) (*ChatResponse, error) {
	var out ChatResponse
	body := map[string]any{"message": message, "model": model}
	if err := c.post(ctx, "/api/chat", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Screenshot triggers a capture on the backend host.
func (c *Client) Screenshot(ctx context.Context) (*CommandResponse, error) {
	var out CommandResponse
	if err := c.post(ctx, "/api/screenshot", map[string]any{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateImage asks the backend to render an image for the prompt.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (*ImageResponse, error) {
	var out ImageResponse
	body := map[string]any{"prompt": prompt}
	if err := c.post(ctx, "/api/image/generate", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SystemInfo fetches host stats from the backend.
func (c *Client) SystemInfo(ctx context.Context) (*SystemInfoResponse, error) {
	var out SystemInfoResponse
	if err := c.get(ctx, "/api/system/info", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RunningApps fetches the process listing from the backend.
func (c *Client) RunningApps(ctx context.Context) (*ProcessListResponse, error) {
	var out ProcessListResponse
	if err := c.get(ctx, "/api/system/apps", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// OpenApp launches a desktop application on the backend host.
func (c *Client) OpenApp(ctx context.Context, name string) (*CommandResponse, error) {
	var out CommandResponse
	body := map[string]any{"app_name": name}
	if err := c.post(ctx, "/api/system/open-app", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClearHistory resets the backend conversation history.
func (c *Client) ClearHistory(ctx context.Context) (*CommandResponse, error) {
	var out CommandResponse
	if err := c.post(ctx, "/api/clear", map[string]any{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrapf(err, "marshal %s request", path)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrapf(err, "build %s request", path)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return errors.Wrapf(err, "build %s request", path)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.UnreachableBackend("backend request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read backend response")
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		var fail struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(raw, &fail)
		if fail.Error != "" {
			return apperrors.ActionFailed(fail.Error, nil)
		}
		return apperrors.ActionFailed(fmt.Sprintf("backend returned %d", resp.StatusCode), nil)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrap(err, "decode backend response")
	}
	return nil
}
