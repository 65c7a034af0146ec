package tool

import (
	"context"
	"fmt"
)

// Tool names exposed to MCP clients, one per supported n8n operation.
const (
	ToolListExecutions     = "list_executions"
	ToolGetExecution       = "get_execution"
	ToolDeleteExecution    = "delete_execution"
	ToolCreateWorkflow     = "create_workflow"
	ToolListWorkflows      = "list_workflows"
	ToolGetWorkflow        = "get_workflow"
	ToolDeleteWorkflow     = "delete_workflow"
	ToolUpdateWorkflow     = "update_workflow"
	ToolActivateWorkflow   = "activate_workflow"
	ToolDeactivateWorkflow = "deactivate_workflow"
	ToolGetWorkflowTags    = "get_workflow_tags"
	ToolUpdateWorkflowTags = "update_workflow_tags"
	ToolRunWorkflow        = "run_workflow"
	ToolListTags           = "list_tags"
	ToolGetTag             = "get_tag"
	ToolCreateTag          = "create_tag"
	ToolUpdateTag          = "update_tag"
	ToolDeleteTag          = "delete_tag"
)

// RegisterCatalog registers every supported tool against remote. Called once
// during startup wiring, before any dispatch begins.
func RegisterCatalog(r *Registry, remote Remote) error {
	descriptors := []*Descriptor{
		listExecutionsDescriptor(remote),
		getExecutionDescriptor(remote),
		deleteExecutionDescriptor(remote),
		createWorkflowDescriptor(remote),
		listWorkflowsDescriptor(remote),
		getWorkflowDescriptor(remote),
		deleteWorkflowDescriptor(remote),
		updateWorkflowDescriptor(remote),
		activateWorkflowDescriptor(remote),
		deactivateWorkflowDescriptor(remote),
		getWorkflowTagsDescriptor(remote),
		updateWorkflowTagsDescriptor(remote),
		runWorkflowDescriptor(remote),
		listTagsDescriptor(remote),
		getTagDescriptor(remote),
		createTagDescriptor(remote),
		updateTagDescriptor(remote),
		deleteTagDescriptor(remote),
	}

	for _, desc := range descriptors {
		if err := r.Register(desc); err != nil {
			return err
		}
	}
	return nil
}

// ─── executions ──────────────────────────────────────────────────────────────

func listExecutionsDescriptor(remote Remote) *Descriptor {
	return &Descriptor{
		Name:        ToolListExecutions,
		Description: "Retrieve all executions, optionally filtered by workflow, project or status.",
		Params: []ParameterSpec{
			{Name: "include_data", Kind: KindBoolean, Default: false, Description: "Whether to include the execution's detailed data."},
			{Name: "status", Kind: KindString, Description: "Execution status to filter by: 'error', 'success' or 'waiting'."},
			{Name: "workflow_id", Kind: KindString, Description: "Workflow ID to filter executions by."},
			{Name: "project_id", Kind: KindString, Description: "Project ID to filter executions by."},
			{Name: "limit", Kind: KindInteger, Default: 100, Description: "Maximum number of items to return. The upstream maximum is 250."},
			{Name: "cursor", Kind: KindString, Description: "Pagination cursor. Leave blank for the first page."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			filter := map[string]any{}
			copyArg(filter, "includeData", args, "include_data")
			copyArg(filter, "status", args, "status")
			copyArg(filter, "workflowId", args, "workflow_id")
			copyArg(filter, "projectId", args, "project_id")
			copyArg(filter, "limit", args, "limit")
			copyArg(filter, "cursor", args, "cursor")
			return remote.List(ctx, ResourceExecution, filter)
		},
	}
}

func getExecutionDescriptor(remote Remote) *Descriptor {
	return &Descriptor{
		Name:        ToolGetExecution,
		Description: "Retrieve an execution by ID.",
		Params: []ParameterSpec{
			{Name: "id", Kind: KindString, Required: true, Description: "The execution ID."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			id, _ := args.String("id")
			return remote.Get(ctx, ResourceExecution, id)
		},
	}
}

func deleteExecutionDescriptor(remote Remote) *Descriptor {
	return &Descriptor{
		Name:        ToolDeleteExecution,
		Description: "Delete an execution by ID.",
		Params: []ParameterSpec{
			{Name: "id", Kind: KindString, Required: true, Description: "The execution ID."},
		},
		Handler: deleteHandler(remote, ResourceExecution),
	}
}

// ─── workflows ───────────────────────────────────────────────────────────────

func createWorkflowDescriptor(remote Remote) *Descriptor {
	return &Descriptor{
		Name:        ToolCreateWorkflow,
		Description: "Create a new workflow from nodes and connections.",
		Params:      workflowBodyParams(),
		Handler: func(ctx context.Context, args Args) (any, error) {
			return remote.Create(ctx, ResourceWorkflow, workflowBody(args))
		},
	}
}

func listWorkflowsDescriptor(remote Remote) *Descriptor {
	return &Descriptor{
		Name: ToolListWorkflows,
		Description: "Retrieve all workflows, with optional filters. " +
			"For a workflow to be runnable via run_workflow, its first node must be a webhook trigger.",
		Params: []ParameterSpec{
			{Name: "active", Kind: KindBoolean, Description: "Filter by active state."},
			{Name: "tags", Kind: KindString, Description: "Comma-separated tag names to filter by."},
			{Name: "name", Kind: KindString, Description: "Workflow name to filter by."},
			{Name: "project_id", Kind: KindString, Description: "Project ID to filter by."},
			{Name: "exclude_pinned_data", Kind: KindBoolean, Description: "Omit pinned data from the returned workflows."},
			{Name: "limit", Kind: KindInteger, Description: "Maximum number of items to return. The upstream maximum is 250."},
			{Name: "cursor", Kind: KindString, Description: "Pagination cursor. Leave blank for the first page."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			filter := map[string]any{}
			copyArg(filter, "active", args, "active")
			copyArg(filter, "tags", args, "tags")
			copyArg(filter, "name", args, "name")
			copyArg(filter, "projectId", args, "project_id")
			copyArg(filter, "excludePinnedData", args, "exclude_pinned_data")
			copyArg(filter, "limit", args, "limit")
			copyArg(filter, "cursor", args, "cursor")
			return remote.List(ctx, ResourceWorkflow, filter)
		},
	}
}

func getWorkflowDescriptor(remote Remote) *Descriptor {
	return &Descriptor{
		Name:        ToolGetWorkflow,
		Description: "Retrieve the details of a single workflow by its ID.",
		Params: []ParameterSpec{
			{Name: "id", Kind: KindString, Required: true, Description: "The workflow ID."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			id, _ := args.String("id")
			return remote.Get(ctx, ResourceWorkflow, id)
		},
	}
}

func deleteWorkflowDescriptor(remote Remote) *Descriptor {
	return &Descriptor{
		Name:        ToolDeleteWorkflow,
		Description: "Delete a single workflow by its ID.",
		Params: []ParameterSpec{
			{Name: "id", Kind: KindString, Required: true, Description: "The workflow ID."},
		},
		Handler: deleteHandler(remote, ResourceWorkflow),
	}
}

func updateWorkflowDescriptor(remote Remote) *Descriptor {
	params := append([]ParameterSpec{
		{Name: "id", Kind: KindString, Required: true, Description: "The ID of the workflow to update."},
	}, workflowBodyParams()...)

	return &Descriptor{
		Name:        ToolUpdateWorkflow,
		Description: "Replace a workflow's name, nodes and connections.",
		Params:      params,
		Handler: func(ctx context.Context, args Args) (any, error) {
			id, _ := args.String("id")
			return remote.Update(ctx, ResourceWorkflow, id, workflowBody(args))
		},
	}
}

func activateWorkflowDescriptor(remote Remote) *Descriptor {
	return &Descriptor{
		Name:        ToolActivateWorkflow,
		Description: "Activate a workflow by ID so its triggers start running.",
		Params: []ParameterSpec{
			{Name: "id", Kind: KindString, Required: true, Description: "The workflow ID."},
		},
		Handler: setActiveHandler(remote, true),
	}
}

func deactivateWorkflowDescriptor(remote Remote) *Descriptor {
	return &Descriptor{
		Name:        ToolDeactivateWorkflow,
		Description: "Deactivate a workflow by ID, stopping its triggers.",
		Params: []ParameterSpec{
			{Name: "id", Kind: KindString, Required: true, Description: "The workflow ID."},
		},
		Handler: setActiveHandler(remote, false),
	}
}

func getWorkflowTagsDescriptor(remote Remote) *Descriptor {
	return &Descriptor{
		Name:        ToolGetWorkflowTags,
		Description: "Get the tags of a single workflow by ID.",
		Params: []ParameterSpec{
			{Name: "id", Kind: KindString, Required: true, Description: "The workflow ID."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			id, _ := args.String("id")
			return remote.List(ctx, ResourceTag, map[string]any{"workflowId": id})
		},
	}
}

func updateWorkflowTagsDescriptor(remote Remote) *Descriptor {
	return &Descriptor{
		Name:        ToolUpdateWorkflowTags,
		Description: "Replace the tags assigned to a workflow.",
		Params: []ParameterSpec{
			{Name: "id", Kind: KindString, Required: true, Description: "The workflow ID."},
			{Name: "tags", Kind: KindArray, Required: true, Description: "IDs of the tags to assign to this workflow."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			id, _ := args.String("id")
			raw, _ := args.Array("tags")

			// The upstream API wants [{"id": "..."}]; accept plain ID
			// strings and already-wrapped objects.
			refs := make([]any, 0, len(raw))
			for _, item := range raw {
				switch v := item.(type) {
				case string:
					refs = append(refs, map[string]any{"id": v})
				case map[string]any:
					refs = append(refs, v)
				default:
					return nil, fmt.Errorf("tags must be tag ID strings, got %T", item)
				}
			}
			return remote.Update(ctx, ResourceWorkflow, id, map[string]any{"tags": refs})
		},
	}
}

func runWorkflowDescriptor(remote Remote) *Descriptor {
	return &Descriptor{
		Name: ToolRunWorkflow,
		Description: "Run a workflow through its webhook trigger. " +
			"Returns as soon as the run is accepted; it does not wait for the execution to finish. " +
			"Use list_workflows first if you do not know which workflow to run.",
		Params: []ParameterSpec{
			{Name: "webhook_path", Kind: KindString, Required: true, Description: "The path of the webhook belonging to the workflow to run."},
			{Name: "data", Kind: KindObject, Description: "Payload to pass to the webhook. Omit unless data was explicitly requested."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			path, _ := args.String("webhook_path")
			data, _ := args.Object("data")
			handle, err := remote.Trigger(ctx, path, data)
			if err != nil {
				return nil, err
			}
			return handle, nil
		},
	}
}

// ─── tags ────────────────────────────────────────────────────────────────────

func listTagsDescriptor(remote Remote) *Descriptor {
	return &Descriptor{
		Name:        ToolListTags,
		Description: "Retrieve all tags.",
		Params: []ParameterSpec{
			{Name: "limit", Kind: KindInteger, Description: "Maximum number of items to return."},
			{Name: "cursor", Kind: KindString, Description: "Pagination cursor. Leave blank for the first page."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			filter := map[string]any{}
			copyArg(filter, "limit", args, "limit")
			copyArg(filter, "cursor", args, "cursor")
			return remote.List(ctx, ResourceTag, filter)
		},
	}
}

func getTagDescriptor(remote Remote) *Descriptor {
	return &Descriptor{
		Name:        ToolGetTag,
		Description: "Retrieve a tag by ID.",
		Params: []ParameterSpec{
			{Name: "id", Kind: KindString, Required: true, Description: "The tag ID."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			id, _ := args.String("id")
			return remote.Get(ctx, ResourceTag, id)
		},
	}
}

func createTagDescriptor(remote Remote) *Descriptor {
	return &Descriptor{
		Name:        ToolCreateTag,
		Description: "Create a tag.",
		Params: []ParameterSpec{
			{Name: "name", Kind: KindString, Required: true, Description: "The tag name."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			name, _ := args.String("name")
			return remote.Create(ctx, ResourceTag, map[string]any{"name": name})
		},
	}
}

func updateTagDescriptor(remote Remote) *Descriptor {
	return &Descriptor{
		Name:        ToolUpdateTag,
		Description: "Rename a tag by its ID.",
		Params: []ParameterSpec{
			{Name: "id", Kind: KindString, Required: true, Description: "The tag ID."},
			{Name: "name", Kind: KindString, Required: true, Description: "The new tag name."},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			id, _ := args.String("id")
			name, _ := args.String("name")
			return remote.Update(ctx, ResourceTag, id, map[string]any{"name": name})
		},
	}
}

func deleteTagDescriptor(remote Remote) *Descriptor {
	return &Descriptor{
		Name:        ToolDeleteTag,
		Description: "Delete a tag by its ID.",
		Params: []ParameterSpec{
			{Name: "id", Kind: KindString, Required: true, Description: "The tag ID."},
		},
		Handler: deleteHandler(remote, ResourceTag),
	}
}

// ─── shared handler pieces ───────────────────────────────────────────────────

// workflowBodyParams declares the shared create/update workflow body.
func workflowBodyParams() []ParameterSpec {
	return []ParameterSpec{
		{Name: "name", Kind: KindString, Required: true, Description: "The workflow name."},
		{Name: "nodes", Kind: KindArray, Required: true, Description: "The workflow's node definitions."},
		{Name: "connections", Kind: KindObject, Required: true, Description: "The connections between the workflow's nodes."},
		{Name: "settings", Kind: KindObject, Description: "Workflow settings. Upstream defaults apply when omitted."},
	}
}

// workflowBody assembles the upstream create/update payload.
func workflowBody(args Args) map[string]any {
	body := map[string]any{}
	copyArg(body, "name", args, "name")
	copyArg(body, "nodes", args, "nodes")
	copyArg(body, "connections", args, "connections")
	if settings, ok := args.Object("settings"); ok {
		body["settings"] = settings
	} else {
		body["settings"] = map[string]any{}
	}
	return body
}

func deleteHandler(remote Remote, kind ResourceKind) Handler {
	return func(ctx context.Context, args Args) (any, error) {
		id, _ := args.String("id")
		if err := remote.Delete(ctx, kind, id); err != nil {
			return nil, err
		}
		return map[string]any{"deleted": true, "id": id}, nil
	}
}

func setActiveHandler(remote Remote, active bool) Handler {
	return func(ctx context.Context, args Args) (any, error) {
		id, _ := args.String("id")
		return remote.Update(ctx, ResourceWorkflow, id, map[string]any{"active": active})
	}
}

// copyArg copies a present argument into an upstream payload under the
// upstream field name. Absent optional arguments stay absent.
func copyArg(dst map[string]any, upstreamName string, args Args, param string) {
	if v, ok := args.Value(param); ok {
		dst[upstreamName] = v
	}
}
