package server

import (
	"fmt"

	"github.com/ironsheep/media-actions/internal/actions"
)

// colorPattern matches the colour strings accepted by every colour parameter.
const colorPattern = "^#?([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{8})$"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// ToolDefinitions returns one tool per registered operation, in menu order.
//
// Every tool takes a "paths" array plus the operation's parameters, e.g.
//
//	{"paths": ["/photos/a.jpg"], "threshold": 100}
func ToolDefinitions(reg *actions.Registry) []Tool {
	ops := reg.Operations()
	tools := make([]Tool, 0, len(ops))
	for _, op := range ops {
		tools = append(tools, toolFor(op))
	}
	return tools
}

func toolFor(op *actions.Operation) Tool {
	properties := map[string]interface{}{
		"paths": pathsSchema(op),
	}
	for _, p := range op.Params {
		properties[p.Name] = paramSchema(p)
	}

	return Tool{
		Name:        op.Name,
		Description: fmt.Sprintf("[%s] %s.", op.Group, op.Description),
		InputSchema: map[string]interface{}{
			"type":                 "object",
			"properties":           properties,
			"required":             []string{"paths"},
			"additionalProperties": false,
		},
	}
}

func pathsSchema(op *actions.Operation) map[string]interface{} {
	var desc string
	switch op.Input {
	case actions.InputDirectory:
		desc = "Absolute paths of the directories to process, one run each"
	case actions.InputSet:
		desc = "Absolute paths of the files, processed together"
	default:
		desc = "Absolute paths of the files, processed one after another"
	}

	schema := map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": "string"},
		"minItems":    op.MinInputs,
		"description": desc,
	}
	if op.MaxInputs > 0 {
		schema["maxItems"] = op.MaxInputs
	}
	return schema
}

func paramSchema(p actions.Param) map[string]interface{} {
	schema := map[string]interface{}{
		"description": p.Description,
	}

	switch p.Type {
	case actions.TypeInteger:
		schema["type"] = "integer"
	case actions.TypeNumber:
		schema["type"] = "number"
	case actions.TypeBoolean:
		schema["type"] = "boolean"
	case actions.TypeColor:
		schema["type"] = "string"
		schema["pattern"] = colorPattern
	case actions.TypeEnum:
		schema["type"] = "string"
		schema["enum"] = p.Choices
	default:
		schema["type"] = "string"
	}

	if p.Default != nil {
		schema["default"] = p.Default
	}
	return schema
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": ToolDefinitions(s.registry),
		},
	}
}
