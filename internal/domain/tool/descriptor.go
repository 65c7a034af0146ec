// Package tool implements the dispatch core of the MCP server: a static tool
// registry, argument validation against declared parameter schemas, and a
// dispatcher that maps every outcome — local or remote — into a uniform
// result envelope.
package tool

import "context"

// Kind enumerates the runtime types a tool parameter can declare.
type Kind int

const (
	KindString Kind = iota
	KindInteger
	KindBoolean
	KindObject
	KindArray
)

// String returns the JSON-schema name of the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// ParameterSpec declares a single tool parameter.
type ParameterSpec struct {
	Name        string
	Kind        Kind
	Required    bool
	Default     any // substituted when the argument is absent; nil means no default
	Description string
}

// Handler executes one remote operation with validated arguments.
// It is the dispatcher's sole suspension point.
type Handler func(ctx context.Context, args Args) (any, error)

// Descriptor binds a tool name to its parameter schema and handler.
// Descriptors are immutable after registration.
type Descriptor struct {
	Name        string
	Description string
	Params      []ParameterSpec
	Handler     Handler
}
