package tool

import (
	"fmt"
	"strings"
)

// Registry maps tool names to descriptors. It is populated once during
// startup wiring and read-only afterwards, so Lookup needs no locking.
type Registry struct {
	names  []string
	byName map[string]*Descriptor
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Descriptor)}
}

// Register adds a descriptor. Returns ErrDuplicateTool if the name is taken,
// and rejects descriptors with empty names, nil handlers, or duplicate
// parameter names. Must only be called before dispatch begins.
func (r *Registry) Register(desc *Descriptor) error {
	if desc == nil || strings.TrimSpace(desc.Name) == "" {
		return fmt.Errorf("tool: register: descriptor has no name")
	}
	if desc.Handler == nil {
		return fmt.Errorf("tool: register %q: nil handler", desc.Name)
	}
	if _, exists := r.byName[desc.Name]; exists {
		return fmt.Errorf("tool: register %q: %w", desc.Name, ErrDuplicateTool)
	}

	seen := make(map[string]struct{}, len(desc.Params))
	for _, p := range desc.Params {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("tool: register %q: parameter with empty name", desc.Name)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("tool: register %q: duplicate parameter %q", desc.Name, p.Name)
		}
		seen[p.Name] = struct{}{}
	}

	r.byName[desc.Name] = desc
	r.names = append(r.names, desc.Name)
	return nil
}

// Lookup returns the descriptor for name, or ErrUnknownTool.
func (r *Registry) Lookup(name string) (*Descriptor, error) {
	desc, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("tool: lookup %q: %w", name, ErrUnknownTool)
	}
	return desc, nil
}

// Descriptors returns all descriptors in registration order.
func (r *Registry) Descriptors() []*Descriptor {
	out := make([]*Descriptor, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.byName[name])
	}
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.names)
}
