package server

import (
	"encoding/json"
	"testing"

	"github.com/ironsheep/media-actions/internal/actions"
	"github.com/ironsheep/media-actions/internal/imaging"
	"github.com/ironsheep/media-actions/internal/video"
)

func testRegistry() *actions.Registry {
	return actions.NewRegistry(imaging.NewProcessor(), video.NewProcessor(""))
}

func TestToolDefinitions(t *testing.T) {
	reg := testRegistry()
	tools := ToolDefinitions(reg)
	ops := reg.Operations()

	if len(tools) != len(ops) {
		t.Fatalf("got %d tools for %d operations", len(tools), len(ops))
	}
	for i, op := range ops {
		if tools[i].Name != op.Name {
			t.Errorf("tool %d: got %s, want %s", i, tools[i].Name, op.Name)
		}
	}

	expectedTools := []string{
		"prefix_filename",
		"weed_out_files",
		"number_filenames",
		"resize_image",
		"image_wall",
		"apply_filter",
		"write_tags",
		"make_movie",
		"make_slideshow",
		"merge_videos",
	}
	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		toolMap[tool.Name] = tool
	}
	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range ToolDefinitions(testRegistry()) {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want object", tool.InputSchema["type"])
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("InputSchema should have properties")
			}
			paths, ok := props["paths"].(map[string]interface{})
			if !ok {
				t.Fatal("paths property missing")
			}
			if paths["type"] != "array" {
				t.Errorf("paths type: got %v, want array", paths["type"])
			}

			required, ok := tool.InputSchema["required"].([]string)
			if !ok || len(required) != 1 || required[0] != "paths" {
				t.Errorf("required: got %v, want [paths]", tool.InputSchema["required"])
			}

			for name, raw := range props {
				schema := raw.(map[string]interface{})
				if _, ok := schema["type"]; !ok {
					t.Errorf("property %s has no type", name)
				}
			}
		})
	}
}

func TestToolDefinitions_ParamSchemas(t *testing.T) {
	tools := make(map[string]Tool)
	for _, tool := range ToolDefinitions(testRegistry()) {
		tools[tool.Name] = tool
	}
	prop := func(tool, name string) map[string]interface{} {
		t.Helper()
		props := tools[tool].InputSchema["properties"].(map[string]interface{})
		p, ok := props[name].(map[string]interface{})
		if !ok {
			t.Fatalf("%s has no property %s", tool, name)
		}
		return p
	}

	mode := prop("grayscale", "mode")
	if mode["default"] != "L" {
		t.Errorf("grayscale mode default: got %v", mode["default"])
	}
	if enum, _ := mode["enum"].([]string); len(enum) != 3 {
		t.Errorf("grayscale mode enum: got %v", mode["enum"])
	}

	if bg := prop("add_margin", "background_color"); bg["pattern"] != colorPattern {
		t.Errorf("colour pattern: got %v", bg["pattern"])
	}

	if deg := prop("rotate_image", "degrees"); deg["type"] != "number" {
		t.Errorf("degrees type: got %v, want number", deg["type"])
	}

	paths := prop("image_difference", "paths")
	if paths["minItems"] != 2 || paths["maxItems"] != 2 {
		t.Errorf("image_difference paths bounds: got %v..%v", paths["minItems"], paths["maxItems"])
	}
	if _, ok := prop("resize_image", "paths")["maxItems"]; ok {
		t.Error("resize_image paths should be unbounded")
	}

	if _, ok := prop("write_tags", "artist")["default"]; ok {
		t.Error("optional tag should not advertise a default")
	}
}

func TestToolDefinitions_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(ToolDefinitions(testRegistry()))
	if err != nil {
		t.Fatalf("Failed to marshal tools: %v", err)
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal tools: %v", err)
	}
	for _, tool := range decoded {
		if _, ok := tool["inputSchema"]; !ok {
			t.Errorf("tool %v has no inputSchema key", tool["name"])
		}
	}
}
