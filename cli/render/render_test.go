package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/harbourline/steward/bridge"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr bool
	}{
		{"json lowercase", "json", FormatJSON, false},
		{"json uppercase", "JSON", FormatJSON, false},
		{"table", "table", FormatTable, false},
		{"yaml", "yaml", FormatYAML, false},
		{"empty", "", "", false},
		{"invalid", "xml", "", true},
		{"invalid with message", "csv", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormat_InvalidErrorMessage(t *testing.T) {
	_, err := ParseFormat("xml")
	if err == nil {
		t.Fatal("expected error for invalid format")
	}
	if !strings.Contains(err.Error(), "json, table, or yaml") {
		t.Errorf("error message should mention valid formats, got: %v", err)
	}
}

func TestRenderer_JSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatJSON, false, &buf)

	data := map[string]string{"key": "value"}
	if err := r.Render(data); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, `"key"`) || !strings.Contains(got, `"value"`) {
		t.Errorf("JSON output missing expected content: %s", got)
	}
}

func TestRenderer_YAML(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatYAML, false, &buf)

	data := map[string]string{"key": "value"}
	if err := r.Render(data); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "key:") || !strings.Contains(got, "value") {
		t.Errorf("YAML output missing expected content: %s", got)
	}
}

func TestRenderer_Table_Struct(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, false, &buf)

	type TestStruct struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}

	data := TestStruct{Name: "test", Value: 42}
	if err := r.Render(data); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "name:") || !strings.Contains(got, "test") {
		t.Errorf("Table output missing name field: %s", got)
	}
	if !strings.Contains(got, "value:") || !strings.Contains(got, "42") {
		t.Errorf("Table output missing value field: %s", got)
	}
}

func TestRenderer_Table_Slice(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, false, &buf)

	type Item struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	data := []Item{
		{ID: "1", Name: "first"},
		{ID: "2", Name: "second"},
	}

	if err := r.Render(data); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := buf.String()
	// Should have header row
	if !strings.Contains(got, "id") || !strings.Contains(got, "name") {
		t.Errorf("Table output missing headers: %s", got)
	}
	// Should have data rows
	if !strings.Contains(got, "first") || !strings.Contains(got, "second") {
		t.Errorf("Table output missing data: %s", got)
	}
}

func TestRenderer_Table_EmptySlice(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, false, &buf)

	data := []string{}
	if err := r.Render(data); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "(no results)") {
		t.Errorf("Empty slice should show '(no results)', got: %s", got)
	}
}

func TestRenderer_Table_FloatFormatting(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, false, &buf)

	data := map[string]any{
		"whole":    float64(5),
		"fraction": 42.5,
	}
	if err := r.Render(data); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := buf.String()
	// Whole floats render without a decimal point
	if !strings.Contains(got, "whole:") || strings.Contains(got, "5.00") {
		t.Errorf("whole float should render as integer: %s", got)
	}
	if !strings.Contains(got, "42.50") {
		t.Errorf("fractional float should render with 2 decimals: %s", got)
	}
}

func TestRenderResult_Success(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatJSON, false, &buf)

	res := bridge.Result{
		Success: true,
		Mode:    bridge.ModeReal,
		Data:    map[string]any{"state": "running"},
	}
	if err := r.RenderResult(res); err != nil {
		t.Fatalf("RenderResult failed: %v", err)
	}
	if !strings.Contains(buf.String(), "running") {
		t.Errorf("output missing data: %s", buf.String())
	}
}

func TestRenderResult_FailureBecomesError(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatJSON, false, &buf)

	res := bridge.Result{
		Success:   false,
		Mode:      bridge.ModeMock,
		Error:     "Client not found: c-9",
		ErrorCode: "CLIENT_NOT_FOUND",
	}
	err := r.RenderResult(res)
	if err == nil {
		t.Fatal("expected error for failed result")
	}
	if !strings.Contains(err.Error(), "CLIENT_NOT_FOUND") {
		t.Errorf("error should carry the error code, got: %v", err)
	}
	if !strings.Contains(err.Error(), "Client not found") {
		t.Errorf("error should carry the message, got: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("failed result should not write output, got: %s", buf.String())
	}
}

func TestRenderResult_MockNoticeOnlyInTableMode(t *testing.T) {
	res := bridge.Result{
		Success: true,
		Mode:    bridge.ModeMock,
		Data:    map[string]any{"state": "running"},
	}

	var tableBuf bytes.Buffer
	rTable := NewRendererWithWriter(FormatTable, false, &tableBuf)
	if err := rTable.RenderResult(res); err != nil {
		t.Fatalf("RenderResult (table) failed: %v", err)
	}
	if !strings.Contains(tableBuf.String(), "simulated data") {
		t.Errorf("table mode should carry simulated-data notice: %s", tableBuf.String())
	}

	var jsonBuf bytes.Buffer
	rJSON := NewRendererWithWriter(FormatJSON, false, &jsonBuf)
	if err := rJSON.RenderResult(res); err != nil {
		t.Fatalf("RenderResult (json) failed: %v", err)
	}
	if strings.Contains(jsonBuf.String(), "simulated data") {
		t.Errorf("json mode must stay machine-parseable: %s", jsonBuf.String())
	}
}

func TestRenderResult_NilDataPrintsMessage(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatJSON, false, &buf)

	res := bridge.Result{
		Success: true,
		Mode:    bridge.ModeMock,
		Message: "Logs cleared",
	}
	if err := r.RenderResult(res); err != nil {
		t.Fatalf("RenderResult failed: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "Logs cleared" {
		t.Errorf("expected message output, got: %q", buf.String())
	}
}

func TestRenderer_NoColor_DoesNotAffectJSON(t *testing.T) {
	// --no-color should not change JSON output
	var bufColor, bufNoColor bytes.Buffer

	rColor := NewRendererWithWriter(FormatJSON, false, &bufColor)
	rNoColor := NewRendererWithWriter(FormatJSON, true, &bufNoColor)

	data := map[string]string{"key": "value"}

	if err := rColor.Render(data); err != nil {
		t.Fatalf("Render with color failed: %v", err)
	}
	if err := rNoColor.Render(data); err != nil {
		t.Fatalf("Render without color failed: %v", err)
	}

	if bufColor.String() != bufNoColor.String() {
		t.Errorf("--no-color should not affect JSON output")
	}
}
