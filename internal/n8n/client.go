// Package n8n is the remote client adapter for the n8n public REST API.
// It implements tool.Remote using stdlib net/http: API-key header auth,
// optional HTTP basic auth for webhook endpoints, and classification of
// every HTTP failure into a tool.RemoteError. Retry policy is deliberately
// none — each call is one shot; retries belong to the calling agent.
package n8n

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/automationtools/n8n-mcp/internal/domain/tool"
	"github.com/automationtools/n8n-mcp/pkg/uuid"
)

const (
	apiPrefix         = "/api/v1"
	headerAPIKey      = "X-N8N-API-KEY"
	headerContentType = "Content-Type"
	mimeJSON          = "application/json"
)

// Config holds the connection settings for one n8n instance.
type Config struct {
	BaseURL  string
	APIKey   string
	User     string        // optional basic auth, used by protected webhooks
	Password string        // optional basic auth
	Timeout  time.Duration // per-request; default 30s
}

// Client talks to a single n8n instance. Safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	user       string
	password   string
	httpClient *http.Client
}

// NewClient creates a Client with a 30s default request timeout.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		user:       cfg.User,
		password:   cfg.Password,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// collectionPath maps a resource kind onto its API collection.
func collectionPath(kind tool.ResourceKind) string {
	switch kind {
	case tool.ResourceExecution:
		return "/executions"
	case tool.ResourceWorkflow:
		return "/workflows"
	case tool.ResourceTag:
		return "/tags"
	default:
		return "/" + string(kind) + "s"
	}
}

// ─── tool.Remote implementation ──────────────────────────────────────────────

// List fetches a resource collection. A tag filter carrying workflowId is
// routed to the workflow's tag subresource.
func (c *Client) List(ctx context.Context, kind tool.ResourceKind, filter map[string]any) (json.RawMessage, error) {
	if kind == tool.ResourceTag {
		if workflowID, ok := filter["workflowId"].(string); ok {
			path := "/workflows/" + url.PathEscape(workflowID) + "/tags"
			return c.doJSON(ctx, http.MethodGet, path, nil, nil, "workflow "+workflowID)
		}
	}
	return c.doJSON(ctx, http.MethodGet, collectionPath(kind), queryFromFilter(filter), nil, string(kind)+"s")
}

// Get fetches one resource by ID.
func (c *Client) Get(ctx context.Context, kind tool.ResourceKind, id string) (json.RawMessage, error) {
	path := collectionPath(kind) + "/" + url.PathEscape(id)
	return c.doJSON(ctx, http.MethodGet, path, nil, nil, resourceLabel(kind, id))
}

// Create creates a resource.
func (c *Client) Create(ctx context.Context, kind tool.ResourceKind, payload map[string]any) (json.RawMessage, error) {
	return c.doJSON(ctx, http.MethodPost, collectionPath(kind), nil, payload, string(kind))
}

// Update replaces a resource. Two single-purpose workflow payloads are routed
// to dedicated endpoints: {"active": bool} becomes POST .../activate or
// .../deactivate, and {"tags": [...]} becomes PUT .../tags. The core stays
// ignorant of upstream URL layout; that mapping is this adapter's job.
func (c *Client) Update(ctx context.Context, kind tool.ResourceKind, id string, payload map[string]any) (json.RawMessage, error) {
	label := resourceLabel(kind, id)
	base := collectionPath(kind) + "/" + url.PathEscape(id)

	if kind == tool.ResourceWorkflow && len(payload) == 1 {
		if active, ok := payload["active"].(bool); ok {
			action := "/deactivate"
			if active {
				action = "/activate"
			}
			return c.doJSON(ctx, http.MethodPost, base+action, nil, nil, label)
		}
		if tags, ok := payload["tags"]; ok {
			return c.doJSON(ctx, http.MethodPut, base+"/tags", nil, tags, label)
		}
	}

	return c.doJSON(ctx, http.MethodPut, base, nil, payload, label)
}

// Delete removes a resource by ID.
func (c *Client) Delete(ctx context.Context, kind tool.ResourceKind, id string) error {
	path := collectionPath(kind) + "/" + url.PathEscape(id)
	_, err := c.doJSON(ctx, http.MethodDelete, path, nil, nil, resourceLabel(kind, id))
	return err
}

// Trigger fires a workflow's webhook and returns as soon as the run is
// accepted. The handle ID is the upstream execution ID when the webhook
// response echoes one, otherwise a locally generated correlation ID.
func (c *Client) Trigger(ctx context.Context, webhookPath string, data map[string]any) (tool.ExecutionHandle, error) {
	endpoint := c.baseURL + "/webhook/" + strings.TrimLeft(webhookPath, "/")

	method := http.MethodGet
	var body any
	if data != nil {
		method = http.MethodPost
		body = data
	}

	raw, err := c.do(ctx, method, endpoint, nil, body, "webhook "+webhookPath)
	if err != nil {
		return tool.ExecutionHandle{}, err
	}

	if id := executionIDFrom(raw); id != "" {
		return tool.ExecutionHandle{ID: id}, nil
	}
	return tool.ExecutionHandle{ID: uuid.NewV7().String()}, nil
}

// ─── request plumbing ────────────────────────────────────────────────────────

// doJSON performs an API call under /api/v1.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body any, label string) (json.RawMessage, error) {
	return c.do(ctx, method, c.baseURL+apiPrefix+path, query, body, label)
}

// do executes one HTTP request and returns the raw response JSON, or a
// classified *tool.RemoteError. Context errors pass through untouched so the
// dispatcher can map them to timeout/cancelled.
func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, body any, label string) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("n8n: encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("n8n: build request: %w", err)
	}
	if body != nil {
		req.Header.Set(headerContentType, mimeJSON)
	}
	if c.apiKey != "" {
		req.Header.Set(headerAPIKey, c.apiKey)
	}
	if c.user != "" {
		req.SetBasicAuth(c.user, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, context.DeadlineExceeded
		}
		return nil, &tool.RemoteError{
			Kind:    tool.ErrorRemoteUnavailable,
			Message: fmt.Sprintf("n8n unreachable: %v", err),
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &tool.RemoteError{
			Kind:    tool.ErrorRemoteUnavailable,
			Message: fmt.Sprintf("n8n: read response: %v", err),
		}
	}

	if resp.StatusCode >= 400 {
		return nil, classifyStatus(resp.StatusCode, raw, label)
	}

	if len(raw) == 0 {
		return json.RawMessage(`null`), nil
	}
	return json.RawMessage(raw), nil
}

// classifyStatus maps an upstream HTTP error onto the core taxonomy:
// 404 → not found, other 4xx → rejected business error, 5xx → unavailable.
func classifyStatus(status int, body []byte, label string) *tool.RemoteError {
	switch {
	case status == http.StatusNotFound:
		return &tool.RemoteError{
			Kind:    tool.ErrorNotFound,
			Message: label + " not found",
		}
	case status < 500:
		return &tool.RemoteError{
			Kind:    tool.ErrorRemoteRejected,
			Message: fmt.Sprintf("n8n rejected the request for %s (status %d): %s", label, status, upstreamMessage(body)),
		}
	default:
		return &tool.RemoteError{
			Kind:    tool.ErrorRemoteUnavailable,
			Message: fmt.Sprintf("n8n returned status %d for %s", status, label),
		}
	}
}

// upstreamMessage pulls the human-readable message out of an n8n error body.
func upstreamMessage(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "no error detail"
	}
	return trimmed
}

// executionIDFrom extracts an execution ID from a webhook response, if any.
func executionIDFrom(raw json.RawMessage) string {
	var envelope struct {
		ExecutionID string `json:"executionId"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.ExecutionID != "" {
		return envelope.ExecutionID
	}
	return ""
}

// resourceLabel names one resource for error messages: "workflow 123".
func resourceLabel(kind tool.ResourceKind, id string) string {
	return string(kind) + " " + id
}

// queryFromFilter encodes a filter map as URL query parameters. Only values
// present in the validated argument set ever appear here, so an omitted
// optional filter never becomes a spurious zero-valued parameter.
func queryFromFilter(filter map[string]any) url.Values {
	if len(filter) == 0 {
		return nil
	}
	query := url.Values{}
	for key, value := range filter {
		switch v := value.(type) {
		case string:
			query.Set(key, v)
		case bool:
			query.Set(key, strconv.FormatBool(v))
		case int64:
			query.Set(key, strconv.FormatInt(v, 10))
		case float64:
			query.Set(key, strconv.FormatFloat(v, 'f', -1, 64))
		default:
			query.Set(key, fmt.Sprintf("%v", v))
		}
	}
	return query
}
