package service

import "testing"

func TestExtractFirstJSONObject(t *testing.T) {
	input := `ruido previo {"traits": {"humor": 0.5}, "notes": "a } dentro de \"string\""} ruido posterior {"otro": 1}`
	got := extractFirstJSONObject(input)
	want := `{"traits": {"humor": 0.5}, "notes": "a } dentro de \"string\""}`
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestExtractFirstJSONObjectUnbalanced(t *testing.T) {
	if got := extractFirstJSONObject(`{"sin cierre": 1`); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
	if got := extractFirstJSONObject("sin objetos"); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestCleanLLMJSONResponseStripsFences(t *testing.T) {
	raw := "```json\n{\"a\": 1}\n```"
	if got := cleanLLMJSONResponse(raw); got != `{"a": 1}` {
		t.Fatalf("expected fences stripped, got %q", got)
	}

	raw = "\uFEFF{\"a\": 1}"
	if got := cleanLLMJSONResponse(raw); got != `{"a": 1}` {
		t.Fatalf("expected BOM stripped, got %q", got)
	}

	if got := cleanLLMJSONResponse("   "); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
