package tool

import (
	"context"
	"encoding/json"
)

// ResourceKind enumerates the upstream entities the adapter operates on.
type ResourceKind string

const (
	ResourceExecution ResourceKind = "execution"
	ResourceWorkflow  ResourceKind = "workflow"
	ResourceTag       ResourceKind = "tag"
)

// ExecutionHandle identifies a workflow run started by Trigger. The ID is
// the upstream execution ID when the webhook response carries one, otherwise
// a locally generated correlation ID — never empty.
type ExecutionHandle struct {
	ID string `json:"id"`
}

// Remote is the external collaborator performing the actual network calls to
// the upstream platform. It owns transport, authentication and retry policy;
// the core only sees raw resource JSON or a classified *RemoteError.
//
// Trigger is distinct from the CRUD methods because it starts asynchronous
// remote work (fires a workflow webhook) rather than performing a
// synchronous mutation.
type Remote interface {
	List(ctx context.Context, kind ResourceKind, filter map[string]any) (json.RawMessage, error)
	Get(ctx context.Context, kind ResourceKind, id string) (json.RawMessage, error)
	Create(ctx context.Context, kind ResourceKind, payload map[string]any) (json.RawMessage, error)
	Update(ctx context.Context, kind ResourceKind, id string, payload map[string]any) (json.RawMessage, error)
	Delete(ctx context.Context, kind ResourceKind, id string) error
	Trigger(ctx context.Context, webhookPath string, data map[string]any) (ExecutionHandle, error)
}
