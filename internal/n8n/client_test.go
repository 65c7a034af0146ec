package n8n

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/automationtools/n8n-mcp/internal/domain/tool"
)

// capture records the last request the test server saw.
type capture struct {
	method string
	path   string
	query  map[string]string
	header http.Header
	body   map[string]any
}

func newTestServer(t *testing.T, status int, response string) (*httptest.Server, *capture) {
	t.Helper()
	cap := &capture{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cap.method = r.Method
		cap.path = r.URL.Path
		cap.query = map[string]string{}
		for key := range r.URL.Query() {
			cap.query[key] = r.URL.Query().Get(key)
		}
		cap.header = r.Header.Clone()
		cap.body = nil
		if r.Body != nil {
			json.NewDecoder(r.Body).Decode(&cap.body) //nolint:errcheck
		}
		w.WriteHeader(status)
		w.Write([]byte(response)) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)
	return srv, cap
}

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(Config{BaseURL: srv.URL, APIKey: "test-key"})
}

func TestList_PathAuthAndQuery(t *testing.T) {
	t.Parallel()

	srv, cap := newTestServer(t, http.StatusOK, `{"data":[]}`)
	c := newTestClient(srv)

	raw, err := c.List(context.Background(), tool.ResourceExecution, map[string]any{
		"status":      "error",
		"limit":       int64(50),
		"includeData": true,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if string(raw) != `{"data":[]}` {
		t.Errorf("raw = %s", raw)
	}

	if cap.method != http.MethodGet || cap.path != "/api/v1/executions" {
		t.Errorf("request = %s %s", cap.method, cap.path)
	}
	if got := cap.header.Get("X-N8N-API-KEY"); got != "test-key" {
		t.Errorf("api key header = %q", got)
	}
	if cap.query["status"] != "error" || cap.query["limit"] != "50" || cap.query["includeData"] != "true" {
		t.Errorf("query = %v", cap.query)
	}
}

func TestList_WorkflowTagsSubresource(t *testing.T) {
	t.Parallel()

	srv, cap := newTestServer(t, http.StatusOK, `[]`)
	c := newTestClient(srv)

	if _, err := c.List(context.Background(), tool.ResourceTag, map[string]any{"workflowId": "wf-1"}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if cap.method != http.MethodGet || cap.path != "/api/v1/workflows/wf-1/tags" {
		t.Errorf("request = %s %s", cap.method, cap.path)
	}
	if len(cap.query) != 0 {
		t.Errorf("query = %v, want none", cap.query)
	}
}

func TestGet_EscapesID(t *testing.T) {
	t.Parallel()

	srv, cap := newTestServer(t, http.StatusOK, `{"id":"a/b"}`)
	c := newTestClient(srv)

	if _, err := c.Get(context.Background(), tool.ResourceWorkflow, "a/b"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cap.path != "/api/v1/workflows/a%2Fb" && cap.path != "/api/v1/workflows/a/b" {
		// httptest may decode the escaped segment; EscapedPath is the strict check.
		t.Errorf("path = %q", cap.path)
	}
}

func TestCreate_PostsBody(t *testing.T) {
	t.Parallel()

	srv, cap := newTestServer(t, http.StatusOK, `{"id":"t1"}`)
	c := newTestClient(srv)

	if _, err := c.Create(context.Background(), tool.ResourceTag, map[string]any{"name": "prod"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if cap.method != http.MethodPost || cap.path != "/api/v1/tags" {
		t.Errorf("request = %s %s", cap.method, cap.path)
	}
	if cap.header.Get("Content-Type") != "application/json" {
		t.Errorf("content type = %q", cap.header.Get("Content-Type"))
	}
	if cap.body["name"] != "prod" {
		t.Errorf("body = %v", cap.body)
	}
}

func TestUpdate_RoutesActivation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload map[string]any
		method  string
		path    string
	}{
		{"activate", map[string]any{"active": true}, http.MethodPost, "/api/v1/workflows/wf-1/activate"},
		{"deactivate", map[string]any{"active": false}, http.MethodPost, "/api/v1/workflows/wf-1/deactivate"},
		{"tags", map[string]any{"tags": []any{map[string]any{"id": "t1"}}}, http.MethodPut, "/api/v1/workflows/wf-1/tags"},
		{"full update", map[string]any{"name": "x", "nodes": []any{}}, http.MethodPut, "/api/v1/workflows/wf-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv, cap := newTestServer(t, http.StatusOK, `{}`)
			c := newTestClient(srv)

			if _, err := c.Update(context.Background(), tool.ResourceWorkflow, "wf-1", tt.payload); err != nil {
				t.Fatalf("Update: %v", err)
			}
			if cap.method != tt.method || cap.path != tt.path {
				t.Errorf("request = %s %s, want %s %s", cap.method, cap.path, tt.method, tt.path)
			}
		})
	}
}

func TestUpdate_TagRename(t *testing.T) {
	t.Parallel()

	srv, cap := newTestServer(t, http.StatusOK, `{}`)
	c := newTestClient(srv)

	// The single-key routing only applies to workflows; a one-key tag update
	// is a plain PUT.
	if _, err := c.Update(context.Background(), tool.ResourceTag, "t1", map[string]any{"name": "x"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if cap.method != http.MethodPut || cap.path != "/api/v1/tags/t1" {
		t.Errorf("request = %s %s", cap.method, cap.path)
	}
}

func TestDelete_EmptyBodyIsFine(t *testing.T) {
	t.Parallel()

	srv, cap := newTestServer(t, http.StatusNoContent, ``)
	c := newTestClient(srv)

	if err := c.Delete(context.Background(), tool.ResourceExecution, "e1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if cap.method != http.MethodDelete || cap.path != "/api/v1/executions/e1" {
		t.Errorf("request = %s %s", cap.method, cap.path)
	}
}

func TestStatusClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		kind    tool.ErrorKind
		message string
	}{
		{"not found", http.StatusNotFound, `{}`, tool.ErrorNotFound, "workflow 123 not found"},
		{"bad request", http.StatusBadRequest, `{"message":"request/body must have required property 'name'"}`,
			tool.ErrorRemoteRejected, "n8n rejected the request for workflow 123 (status 400): request/body must have required property 'name'"},
		{"unauthorized", http.StatusUnauthorized, ``, tool.ErrorRemoteRejected,
			"n8n rejected the request for workflow 123 (status 401): no error detail"},
		{"bad gateway", http.StatusBadGateway, `oops`, tool.ErrorRemoteUnavailable,
			"n8n returned status 502 for workflow 123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv, _ := newTestServer(t, tt.status, tt.body)
			c := newTestClient(srv)

			_, err := c.Get(context.Background(), tool.ResourceWorkflow, "123")
			var remote *tool.RemoteError
			if !errors.As(err, &remote) {
				t.Fatalf("error = %v, want RemoteError", err)
			}
			if remote.Kind != tt.kind {
				t.Errorf("kind = %q, want %q", remote.Kind, tt.kind)
			}
			if remote.Message != tt.message {
				t.Errorf("message = %q, want %q", remote.Message, tt.message)
			}
		})
	}
}

func TestDo_ConnectionRefused(t *testing.T) {
	t.Parallel()

	// Grab a port that nothing listens on.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := srv.URL
	srv.Close()

	c := NewClient(Config{BaseURL: addr, Timeout: time.Second})

	_, err := c.Get(context.Background(), tool.ResourceWorkflow, "1")
	var remote *tool.RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("error = %v, want RemoteError", err)
	}
	if remote.Kind != tool.ErrorRemoteUnavailable {
		t.Errorf("kind = %q", remote.Kind)
	}
}

func TestDo_ContextCancellationPassesThrough(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	t.Cleanup(func() { close(block); srv.Close() })

	c := newTestClient(srv)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := c.Get(ctx, tool.ResourceWorkflow, "1")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestTrigger_GetWithoutData(t *testing.T) {
	t.Parallel()

	srv, cap := newTestServer(t, http.StatusOK, `{"executionId":"exec-7"}`)
	c := newTestClient(srv)

	handle, err := c.Trigger(context.Background(), "order-intake", nil)
	if err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	if cap.method != http.MethodGet || cap.path != "/webhook/order-intake" {
		t.Errorf("request = %s %s", cap.method, cap.path)
	}
	if handle.ID != "exec-7" {
		t.Errorf("handle = %+v", handle)
	}
}

func TestTrigger_PostWithData(t *testing.T) {
	t.Parallel()

	srv, cap := newTestServer(t, http.StatusOK, `{"message":"Workflow was started"}`)
	c := newTestClient(srv)

	handle, err := c.Trigger(context.Background(), "/order-intake", map[string]any{"orderId": "o-1"})
	if err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	if cap.method != http.MethodPost || cap.path != "/webhook/order-intake" {
		t.Errorf("request = %s %s", cap.method, cap.path)
	}
	if cap.body["orderId"] != "o-1" {
		t.Errorf("body = %v", cap.body)
	}
	// No executionId in the response, so the handle gets a local ID.
	if handle.ID == "" {
		t.Error("handle ID is empty")
	}
}

func TestTrigger_BasicAuthForwarded(t *testing.T) {
	t.Parallel()

	srv, cap := newTestServer(t, http.StatusOK, `{}`)
	c := NewClient(Config{BaseURL: srv.URL, APIKey: "k", User: "hook", Password: "s3cret"})

	if _, err := c.Trigger(context.Background(), "p", nil); err != nil {
		t.Fatalf("Trigger: %v", err)
	}

	user, pass, ok := (&http.Request{Header: cap.header}).BasicAuth()
	if !ok || user != "hook" || pass != "s3cret" {
		t.Errorf("basic auth = %q/%q ok=%v", user, pass, ok)
	}
}
