package aigen

import (
	"strings"
	"testing"
)

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt("Roman history", "", 5)
	if !strings.Contains(prompt, "Generate 5 quiz questions") {
		t.Fatalf("prompt missing question count: %q", prompt)
	}
	if !strings.Contains(prompt, "about: Roman history") {
		t.Fatalf("prompt missing topic: %q", prompt)
	}
	if strings.Contains(prompt, "source material") {
		t.Fatalf("prompt mentions source material with none given: %q", prompt)
	}
}

func TestBuildPromptWithSourceText(t *testing.T) {
	prompt := buildPrompt("", "The mitochondria is the powerhouse of the cell.", 3)
	if !strings.Contains(prompt, "Base every question on this source material:") {
		t.Fatalf("prompt missing source material section: %q", prompt)
	}
	if !strings.Contains(prompt, "powerhouse of the cell") {
		t.Fatalf("prompt missing source text: %q", prompt)
	}
	if strings.Contains(prompt, "about:") {
		t.Fatalf("prompt has a topic clause with no topic: %q", prompt)
	}
}

func TestParseToolArguments(t *testing.T) {
	raw := []byte(`{"questions": [
		{"question": "2+2?", "choices": ["3", "4", "5", "6"], "answer": 1, "explanation": "basic arithmetic"},
		{"question": "The sky is blue", "choices": ["true", "false"], "answer": 0}
	]}`)

	questions, err := parseToolArguments(raw)
	if err != nil {
		t.Fatalf("parseToolArguments failed: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	if questions[0].Explanation != "basic arithmetic" {
		t.Fatalf("explanation lost: %+v", questions[0])
	}
}

func TestParseToolArgumentsRejectsMalformedJSON(t *testing.T) {
	if _, err := parseToolArguments([]byte(`{"questions": [`)); err == nil {
		t.Fatalf("expected error for truncated arguments")
	}
}

func TestParseToolArgumentsRejectsInvalidBank(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"three choices", `{"questions": [{"question": "q", "choices": ["a", "b", "c"], "answer": 0}]}`},
		{"answer out of range", `{"questions": [{"question": "q", "choices": ["a", "b"], "answer": 5}]}`},
		{"empty list", `{"questions": []}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parseToolArguments([]byte(tc.raw)); err == nil {
				t.Fatalf("expected error for %s", tc.name)
			}
		})
	}
}
