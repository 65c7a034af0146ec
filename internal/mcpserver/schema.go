package mcpserver

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/automationtools/n8n-mcp/internal/domain/tool"
)

// inputSchema converts a descriptor's parameter specs into the JSON schema
// advertised over MCP: one property per parameter, required list in declared
// order, defaults carried through, and additionalProperties forbidden to
// mirror the validator's unknown-key rejection.
func inputSchema(desc *tool.Descriptor) *jsonschema.Schema {
	properties := make(map[string]*jsonschema.Schema, len(desc.Params))
	var required []string

	for _, p := range desc.Params {
		prop := &jsonschema.Schema{
			Type:        p.Kind.String(),
			Description: p.Description,
		}
		if p.Default != nil {
			if raw, err := json.Marshal(p.Default); err == nil {
				prop.Default = json.RawMessage(raw)
			}
		}
		properties[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}

	return &jsonschema.Schema{
		Type:                 "object",
		Properties:           properties,
		Required:             required,
		AdditionalProperties: falseSchema(),
	}
}

// falseSchema is the boolean "false" schema: {"not": {}} matches nothing.
func falseSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Not: &jsonschema.Schema{}}
}
