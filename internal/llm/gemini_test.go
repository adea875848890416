package llm

import (
	"testing"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"},
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiContents_AttachesImages(t *testing.T) {
	contents := buildGeminiContents([]Message{{
		Role:    RoleUser,
		Content: "Transcribe.",
		Images:  []Image{{MediaType: "image/webp", Data: []byte("webp")}},
	}})
	if len(contents) != 1 || contents[0].Role != "user" {
		t.Fatalf("unexpected contents: %+v", contents)
	}
	parts := contents[0].Parts
	if len(parts) != 2 {
		t.Fatalf("expected text + image parts, got %d", len(parts))
	}
	if parts[0].Text != "Transcribe." {
		t.Fatalf("unexpected text part %q", parts[0].Text)
	}
	if parts[1].InlineData == nil || parts[1].InlineData.MIMEType != "image/webp" {
		t.Fatalf("expected inline image part, got %+v", parts[1])
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{"type": "string"},
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{"type": "string"},
						"type":     map[string]any{"type": "string", "enum": []any{"mcq", "true_false", "open"}},
						"options":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					},
					"required": []any{"question", "type"},
				},
			},
		},
		"required": []any{"title", "questions"},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != "OBJECT" {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 2 {
		t.Fatalf("expected 2 properties, got %d", len(schema.Properties))
	}
	questions := schema.Properties["questions"]
	if questions.Type != "ARRAY" || questions.Items.Type != "OBJECT" {
		t.Fatalf("expected ARRAY of OBJECT, got %s of %s", questions.Type, questions.Items.Type)
	}
	item := questions.Items
	if len(item.Properties["type"].Enum) != 3 {
		t.Fatalf("expected 3 enum values, got %d", len(item.Properties["type"].Enum))
	}
	if item.Properties["options"].Items.Type != "STRING" {
		t.Fatalf("expected STRING options, got %s", item.Properties["options"].Items.Type)
	}
	if len(schema.Required) != 2 || len(item.Required) != 2 {
		t.Fatalf("unexpected required lists: %v / %v", schema.Required, item.Required)
	}
}
