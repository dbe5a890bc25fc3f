package server

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/media-actions/internal/actions"
)

// createTestImageFile creates a test image file and returns its path
func createTestImageFile(t *testing.T, dir string, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(dir, "photo.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// callTool sends a tools/call request and returns the response.
func callTool(t *testing.T, s *Server, name string, arguments interface{}) *MCPResponse {
	t.Helper()

	params := map[string]interface{}{
		"name":      name,
		"arguments": arguments,
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}

	resp := s.handleRequest(context.Background(), &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// decodeResult extracts the actions.Result from a successful response.
func decodeResult(t *testing.T, resp *MCPResponse) actions.Result {
	t.Helper()

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("content: got %v", result["content"])
	}
	if content[0]["type"] != "text" {
		t.Errorf("content type: got %v, want text", content[0]["type"])
	}

	var res actions.Result
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), &res); err != nil {
		t.Fatalf("content text is not a result: %v", err)
	}
	return res
}

func TestHandleToolsCall_Solarize(t *testing.T) {
	dir := t.TempDir()
	imgPath := createTestImageFile(t, dir, 20, 10, color.RGBA{200, 50, 0, 255})

	resp := callTool(t, newTestServer(), "solarize", map[string]interface{}{
		"paths":     []string{imgPath},
		"threshold": 100,
	})
	res := decodeResult(t, resp)

	want := filepath.Join(dir, "photo_solarized100.png")
	if len(res.Outputs) != 1 || res.Outputs[0] != want {
		t.Fatalf("outputs: got %v, want [%s]", res.Outputs, want)
	}
	if res.Skipped {
		t.Error("should not be skipped")
	}

	f, err := os.Open(want)
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("output does not decode: %v", err)
	}
	r, g, b, _ := img.At(0, 0).RGBA()
	if r>>8 != 55 || g>>8 != 50 || b>>8 != 0 {
		t.Errorf("pixel: got %d,%d,%d, want 55,50,0", r>>8, g>>8, b>>8)
	}
}

func TestHandleToolsCall_Skipped(t *testing.T) {
	dir := t.TempDir()
	imgPath := createTestImageFile(t, dir, 10, 10, color.White)

	resp := callTool(t, newTestServer(), "crop_center", map[string]interface{}{
		"paths":      []string{imgPath},
		"new_width":  50,
		"new_height": 50,
	})
	res := decodeResult(t, resp)

	if !res.Skipped {
		t.Error("expected a skipped result")
	}
	if res.Reason == "" {
		t.Error("skip reason is empty")
	}
	if len(res.Outputs) != 0 {
		t.Errorf("outputs: got %v, want none", res.Outputs)
	}
}

func TestHandleToolsCall_ReadTags(t *testing.T) {
	dir := t.TempDir()
	imgPath := createTestImageFile(t, dir, 8, 8, color.Black)
	s := newTestServer()

	written := decodeResult(t, callTool(t, s, "write_tags", map[string]interface{}{
		"paths":  []string{imgPath},
		"artist": "Grace",
	}))
	if len(written.Outputs) != 1 {
		t.Fatalf("write_tags outputs: got %v", written.Outputs)
	}

	read := decodeResult(t, callTool(t, s, "read_tags", map[string]interface{}{
		"paths": written.Outputs,
	}))
	tags, ok := read.Data[written.Outputs[0]].(map[string]interface{})
	if !ok {
		t.Fatalf("data: got %v", read.Data)
	}
	if tags["artist"] != "Grace" {
		t.Errorf("artist: got %v, want Grace", tags["artist"])
	}
}

func TestHandleToolsCall_Errors(t *testing.T) {
	dir := t.TempDir()
	imgPath := createTestImageFile(t, dir, 10, 10, color.White)

	tests := []struct {
		name      string
		tool      string
		arguments interface{}
		wantData  string
	}{
		{"unknown tool", "explode", map[string]interface{}{"paths": []string{imgPath}}, "unknown operation"},
		{"missing paths", "solarize", map[string]interface{}{}, "paths"},
		{"paths not an array", "solarize", map[string]interface{}{"paths": imgPath}, "array"},
		{"empty path", "solarize", map[string]interface{}{"paths": []string{""}}, "paths[0]"},
		{"out of range", "solarize", map[string]interface{}{"paths": []string{imgPath}, "threshold": 300}, "threshold"},
		{"unknown parameter", "solarize", map[string]interface{}{"paths": []string{imgPath}, "colour": "red"}, "colour"},
		{"missing file", "solarize", map[string]interface{}{"paths": []string{filepath.Join(dir, "nope.png")}}, "nope.png"},
	}

	s := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, s, tt.tool, tt.arguments)
			if resp.Error == nil {
				t.Fatal("Expected error response")
			}
			if resp.Error.Code != -32000 {
				t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
			}
			data, _ := resp.Error.Data.(string)
			if !strings.Contains(data, tt.wantData) {
				t.Errorf("Error data %q does not mention %q", data, tt.wantData)
			}
		})
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	resp := newTestServer().handleRequest(context.Background(), &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`{invalid json}`),
	})

	if resp == nil || resp.Error == nil {
		t.Fatal("Expected error response")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("Error code: got %d, want -32602", resp.Error.Code)
	}
}

func TestSplitArguments_KeepsIntegers(t *testing.T) {
	paths, raw, err := splitArguments(json.RawMessage(`{"paths":["/a","/b"],"seed":9007199254740993}`))
	if err != nil {
		t.Fatalf("splitArguments failed: %v", err)
	}
	if len(paths) != 2 || paths[0] != "/a" || paths[1] != "/b" {
		t.Errorf("paths: got %v", paths)
	}
	if _, ok := raw["paths"]; ok {
		t.Error("paths must not be passed on as a parameter")
	}
	n, ok := raw["seed"].(json.Number)
	if !ok || n.String() != "9007199254740993" {
		t.Errorf("seed: got %v (%T)", raw["seed"], raw["seed"])
	}
}
