package tool

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateTool = errors.New("tool already registered")
	ErrUnknownTool   = errors.New("tool not registered")
)

// ErrorKind is the machine-readable failure classification carried by every
// Failure. The calling agent uses it to decide whether to retry, fix
// arguments, or give up.
type ErrorKind string

const (
	ErrorUnknownTool       ErrorKind = "unknown_tool"
	ErrorInvalidArguments  ErrorKind = "invalid_arguments"
	ErrorNotFound          ErrorKind = "not_found"
	ErrorRemoteUnavailable ErrorKind = "remote_unavailable"
	ErrorRemoteRejected    ErrorKind = "remote_rejected"
	ErrorTimeout           ErrorKind = "timeout"
	ErrorCancelled         ErrorKind = "cancelled"
	ErrorUnknown           ErrorKind = "unknown"
)

// MissingParameterError reports a required argument that was not supplied.
type MissingParameterError struct {
	Parameter string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("missing required parameter %q", e.Parameter)
}

// TypeMismatchError reports an argument whose runtime type does not match the
// declared parameter kind.
type TypeMismatchError struct {
	Parameter string
	Expected  Kind
	Actual    string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("parameter %q: expected %s, got %s", e.Parameter, e.Expected, e.Actual)
}

// UnknownParameterError reports an argument key absent from the descriptor.
// Rejecting these keeps typos from silently reaching the remote API.
type UnknownParameterError struct {
	Key string
}

func (e *UnknownParameterError) Error() string {
	return fmt.Sprintf("unknown parameter %q", e.Key)
}

// RemoteError is the classified failure returned by a Remote adapter.
// Kind is one of ErrorNotFound, ErrorRemoteRejected, ErrorRemoteUnavailable.
type RemoteError struct {
	Kind    ErrorKind
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}
