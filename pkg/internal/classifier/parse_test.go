package classifier_test

import (
	"strings"
	"testing"

	"github.com/yeisme/scenevault/pkg/internal/classifier"
)

// TestParsePlainJSON 模型按要求返回纯 JSON.
func TestParsePlainJSON(t *testing.T) {
	text := `{"label": "alpine lake", "description": "A clear mountain lake.", "tags": ["lake", "mountain", "alpine"], "confidence": 0.92}`

	cls, err := classifier.ParseClassification(text)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cls.Label != "alpine lake" {
		t.Errorf("Expected label 'alpine lake', got %q", cls.Label)
	}

	if len(cls.Tags) != 3 {
		t.Errorf("Expected 3 tags, got %d", len(cls.Tags))
	}

	if cls.Confidence == nil || *cls.Confidence != 0.92 {
		t.Errorf("Expected confidence 0.92, got %v", cls.Confidence)
	}
}

// TestParseProseWrappedJSON 模型在 JSON 前后夹带客套话.
func TestParseProseWrappedJSON(t *testing.T) {
	text := `Sure! Here you go: {"label": "forest", "description": "Dense pine forest.", "tags": ["forest", "pine", "green"]} Hope this helps!`

	cls, err := classifier.ParseClassification(text)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cls.Label != "forest" {
		t.Errorf("Expected label 'forest', got %q", cls.Label)
	}

	if cls.Confidence != nil {
		t.Errorf("Expected nil confidence when omitted, got %v", *cls.Confidence)
	}
}

// TestParseFencedJSON 模型输出 markdown 代码围栏.
func TestParseFencedJSON(t *testing.T) {
	text := "```json\n{\"label\": \"desert\", \"description\": \"Sand dunes at dusk.\", \"tags\": [\"desert\", \"sand\", \"dunes\", \"dusk\"]}\n```"

	cls, err := classifier.ParseClassification(text)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cls.Label != "desert" {
		t.Errorf("Expected label 'desert', got %q", cls.Label)
	}
}

// TestParseNoJSON 输出中完全没有 JSON 时必须报错，绝不伪造结果.
func TestParseNoJSON(t *testing.T) {
	_, err := classifier.ParseClassification("I cannot identify this image.")
	if err == nil {
		t.Fatal("Expected error for output without JSON, got nil")
	}
}

// TestParseInvalidJSON 花括号里不是合法 JSON.
func TestParseInvalidJSON(t *testing.T) {
	_, err := classifier.ParseClassification("{not valid json}")
	if err == nil {
		t.Fatal("Expected error for invalid JSON, got nil")
	}
}

// TestParseMissingFields 必填字段缺失时失败.
func TestParseMissingFields(t *testing.T) {
	cases := []string{
		`{"description": "no label", "tags": ["a", "b", "c"]}`,
		`{"label": "x", "tags": ["a", "b", "c"]}`,
		`{"label": "x", "description": "no tags"}`,
		`{"label": "x", "description": "empty tags", "tags": []}`,
	}

	for _, text := range cases {
		if _, err := classifier.ParseClassification(text); err == nil {
			t.Errorf("Expected error for %s, got nil", text)
		}
	}
}

// TestParseConfidenceRange 置信度超出 [0,1] 视为上游错误.
func TestParseConfidenceRange(t *testing.T) {
	_, err := classifier.ParseClassification(`{"label": "x", "description": "y", "tags": ["a"], "confidence": 1.5}`)
	if err == nil {
		t.Fatal("Expected error for confidence > 1, got nil")
	}

	if !strings.Contains(err.Error(), "confidence") {
		t.Errorf("Expected confidence error, got %v", err)
	}
}

// TestExtractJSON 提取子串的边界行为.
func TestExtractJSON(t *testing.T) {
	if _, ok := classifier.ExtractJSON("no braces here"); ok {
		t.Error("Expected no match for text without braces")
	}

	got, ok := classifier.ExtractJSON(`prefix {"a": {"b": 1}} suffix`)
	if !ok {
		t.Fatal("Expected match for nested object")
	}

	if got != `{"a": {"b": 1}}` {
		t.Errorf("Expected full nested object, got %q", got)
	}
}
