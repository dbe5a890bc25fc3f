package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "resize_image", "make_movie").
	Name string `json:"name"`

	// Arguments holds "paths" and the operation parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the actions.Result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Skipped inputs are part of a successful result. Tool execution errors
// return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool splits the arguments into paths and parameters and runs the
// operation through the registry, which validates both.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	paths, raw, err := splitArguments(args)
	if err != nil {
		return nil, err
	}
	res, err := s.registry.Run(ctx, name, paths, raw)
	if err != nil {
		if res != nil && len(res.Outputs) > 0 {
			s.logger.Warn("partial outputs left on disk", "tool", name, "outputs", res.Outputs)
		}
		return nil, err
	}
	return res, nil
}

// splitArguments decodes the arguments object, keeping numbers as
// json.Number so integers are not rounded through float64.
func splitArguments(args json.RawMessage) ([]string, map[string]any, error) {
	raw := map[string]any{}
	if len(bytes.TrimSpace(args)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(args))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, fmt.Errorf("invalid arguments: %w", err)
		}
	}

	value, ok := raw["paths"]
	if !ok {
		return nil, nil, errors.New("missing required argument: paths")
	}
	delete(raw, "paths")

	list, ok := value.([]any)
	if !ok {
		return nil, nil, fmt.Errorf("paths must be an array of strings, got %T", value)
	}
	paths := make([]string, 0, len(list))
	for i, v := range list {
		p, ok := v.(string)
		if !ok || p == "" {
			return nil, nil, fmt.Errorf("paths[%d] must be a non-empty string", i)
		}
		paths = append(paths, p)
	}
	return paths, raw, nil
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
