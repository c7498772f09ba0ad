package ludtwig

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestEngineIgnoreDirectiveSuppressesNextSibling(t *testing.T) {
	src := `<div class="a" class="b"></div>` +
		"{# ludtwig-ignore duplicate-attribute #}" +
		`<span class="c" class="d"></span>`
	tree := Parse(src)
	engine := NewEngine(duplicateAttributeRule())
	diags := engine.Run(tree, DefaultConfig())

	var ruleDiags []Diagnostic
	for _, d := range diags {
		if d.RuleName == "duplicate-attribute" {
			ruleDiags = append(ruleDiags, d)
		}
	}
	if len(ruleDiags) != 1 {
		t.Fatalf("expected exactly 1 unsuppressed duplicate-attribute diagnostic, got %d: %v", len(ruleDiags), ruleDiags)
	}
}

func TestEngineIgnoreFileSuppressesEverything(t *testing.T) {
	src := `{# ludtwig-ignore-file #}<div class="a" class="b"></div>`
	tree := Parse(src)
	engine := NewEngine(duplicateAttributeRule())
	diags := engine.Run(tree, DefaultConfig())
	for _, d := range diags {
		if d.RuleName != "" {
			t.Fatalf("expected no rule diagnostics, got %v", d)
		}
	}
}

func TestEngineDuplicateAttribute(t *testing.T) {
	tree := Parse(`<div class="a" class="b"></div>`)
	engine := NewEngine(duplicateAttributeRule())
	diags := engine.Run(tree, DefaultConfig())

	want := []string{"duplicate-attribute"}
	var got []string
	for _, d := range diags {
		got = append(got, d.RuleName)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("unexpected diagnostics (-want +got):\n%s", diff)
	}
}

func TestEngineDisabledRuleProducesNothing(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rules["duplicate-attribute"] = RuleConfig{Enabled: boolPtr(false)}
	tree := Parse(`<div class="a" class="b"></div>`)
	engine := NewEngine(duplicateAttributeRule())
	diags := engine.Run(tree, cfg)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics with rule disabled, got %v", diags)
	}
}

func boolPtr(b bool) *bool { return &b }
