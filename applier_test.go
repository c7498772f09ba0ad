package ludtwig

import "testing"

func TestApplySuggestionsFixesIndentation(t *testing.T) {
	src := "{% block o %}\n  <div></div>\n{% endblock %}"
	tree := Parse(src)
	engine := NewEngine(indentationRule())
	diags := engine.Run(tree, DefaultConfig())

	fixed, n, err := ApplySuggestions(src, diags, SeverityWarning, DefaultConfig())
	if err != nil {
		t.Fatalf("ApplySuggestions: %v", err)
	}
	if n == 0 {
		t.Fatal("expected at least one suggestion to be applied")
	}
	want := "{% block o %}\n    <div></div>\n{% endblock %}"
	if fixed != want {
		t.Errorf("got %q, want %q", fixed, want)
	}
}

func TestApplySuggestionsRejectsOverlap(t *testing.T) {
	diags := []Diagnostic{
		{RuleName: "a", Severity: SeverityWarning, Suggestions: []Suggestion{{Range: Range{0, 5}, Replacement: "x"}}},
		{RuleName: "b", Severity: SeverityWarning, Suggestions: []Suggestion{{Range: Range{3, 8}, Replacement: "y"}}},
	}
	_, _, err := ApplySuggestions("0123456789", diags, SeverityWarning, DefaultConfig())
	if err == nil {
		t.Fatal("expected an overlap error, got nil")
	}
}

func TestApplySuggestionsRespectsMinSeverity(t *testing.T) {
	diags := []Diagnostic{
		{RuleName: "a", Severity: SeverityHelp, Suggestions: []Suggestion{{Range: Range{0, 1}, Replacement: "X"}}},
	}
	out, n, err := ApplySuggestions("abc", diags, SeverityWarning, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 || out != "abc" {
		t.Fatalf("expected no change below min severity, got %q (%d applied)", out, n)
	}
}

func TestApplySuggestionsHonorsConfiguredLinebreak(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Format.Linebreak = LinebreakCRLF
	src := "a\nb\n"
	out, _, err := ApplySuggestions(src, nil, SeverityWarning, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "a\r\nb\r\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}
