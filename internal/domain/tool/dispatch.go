package tool

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/automationtools/n8n-mcp/internal/infra/eventbus"
)

// TopicInvocation is the event bus topic carrying one event per dispatch.
const TopicInvocation = "tool.invocation"

// Request is a single inbound tool call.
type Request struct {
	Tool      string
	Arguments map[string]any
}

// Failure is the error arm of a Result: a machine-readable kind plus a
// human-readable message.
type Failure struct {
	Kind    ErrorKind
	Message string
}

// Result is the uniform envelope returned for every dispatch: either a
// payload or a classified Failure, never both.
type Result struct {
	Payload any
	Failure *Failure
}

// Succeeded reports whether the dispatch produced a payload.
func (r Result) Succeeded() bool {
	return r.Failure == nil
}

func succeed(payload any) Result {
	return Result{Payload: payload}
}

func fail(kind ErrorKind, format string, args ...any) Result {
	return Result{Failure: &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}}
}

// InvocationEvent is published on TopicInvocation after every dispatch.
type InvocationEvent struct {
	Tool      string
	Succeeded bool
	ErrorKind ErrorKind // empty on success
	Message   string    // empty on success
	Duration  time.Duration
}

// Dispatcher orchestrates one tool call: registry lookup, argument
// validation, handler invocation, and outcome classification. Each dispatch
// is stateless and self-contained; the only shared state is the read-only
// registry, so concurrent dispatches need no locking.
type Dispatcher struct {
	registry *Registry
	timeout  time.Duration
	bus      eventbus.EventBus // optional; nil disables invocation events
}

// NewDispatcher creates a Dispatcher. timeout bounds a single handler call
// when the caller's context has no deadline of its own (0 disables the
// bound). bus may be nil.
func NewDispatcher(registry *Registry, timeout time.Duration, bus eventbus.EventBus) *Dispatcher {
	return &Dispatcher{registry: registry, timeout: timeout, bus: bus}
}

// Dispatch handles one tool call end to end and always returns a Result:
// validation failures are rejected locally before any network activity, and
// remote errors are classified — a raw transport error never leaks through.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) Result {
	start := time.Now()
	res := d.dispatch(ctx, req)
	d.publish(req.Tool, res, time.Since(start))
	return res
}

func (d *Dispatcher) dispatch(ctx context.Context, req Request) Result {
	desc, err := d.registry.Lookup(req.Tool)
	if err != nil {
		return fail(ErrorUnknownTool, "unknown tool %q", req.Tool)
	}

	args, err := Validate(desc, req.Arguments)
	if err != nil {
		return fail(ErrorInvalidArguments, "%s: %s", req.Tool, err.Error())
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline && d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	payload, err := desc.Handler(ctx, args)

	// A caller abort or deadline expiry wins over whatever the handler
	// returned: a partial response must not be mapped.
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return fail(ErrorTimeout, "%s: deadline exceeded", req.Tool)
		}
		return fail(ErrorCancelled, "%s: cancelled by caller", req.Tool)
	}

	if err != nil {
		return classify(err)
	}
	return succeed(payload)
}

// classify maps a handler error to the closest ErrorKind. Unclassifiable
// errors become ErrorUnknown — never silently dropped, never unmapped.
func classify(err error) Result {
	var remote *RemoteError
	if errors.As(err, &remote) {
		kind := remote.Kind
		if kind == "" {
			kind = ErrorUnknown
		}
		return fail(kind, "%s", remote.Message)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fail(ErrorTimeout, "%s", err.Error())
	}
	if errors.Is(err, context.Canceled) {
		return fail(ErrorCancelled, "%s", err.Error())
	}
	return fail(ErrorUnknown, "%s", err.Error())
}

func (d *Dispatcher) publish(toolName string, res Result, elapsed time.Duration) {
	if d.bus == nil {
		return
	}
	evt := InvocationEvent{
		Tool:      toolName,
		Succeeded: res.Succeeded(),
		Duration:  elapsed,
	}
	if res.Failure != nil {
		evt.ErrorKind = res.Failure.Kind
		evt.Message = res.Failure.Message
	}
	d.bus.Publish(TopicInvocation, evt)
}
