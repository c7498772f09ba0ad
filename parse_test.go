package ludtwig

import "testing"

func TestParseLosslessRoundTrip(t *testing.T) {
	cases := []string{
		"",
		"hello world",
		"<div class=\"x\">\n  <span>{{ name }}</span>\n</div>",
		"{% block o %}\n  <div>\n{% endblock %}",
		"{% if a %}yes{% elseif b %}maybe{% else %}no{% endif %}",
		"{% for item in items %}{{ item }}{% else %}empty{% endfor %}",
		"{% set x = 1 %}",
		"{% set y %}content{% endset %}",
		"{% extends \"base.twig\" %}",
		"{# a comment {% if %} #}",
		"garbage <<< {% unknownTag %} >>>",
		"{% if unterminated",
	}
	for _, src := range cases {
		tree := Parse(src)
		if got := tree.Root.Text(); got != src {
			t.Errorf("round trip failed for %q: got %q", src, got)
		}
	}
}

func TestParseNeverPanics(t *testing.T) {
	cases := []string{
		"{%",
		"{{",
		"{#",
		"</>",
		"<",
		">",
		"{% endif %}",
		"{% block %}",
		`{{ "unterminated`,
		"#{}}}}{{{{",
	}
	for _, src := range cases {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Parse(%q) panicked: %v", src, r)
				}
			}()
			tree := Parse(src)
			if tree.Root.Text() != src {
				t.Errorf("round trip failed for %q", src)
			}
		}()
	}
}

func TestParseBlockStructure(t *testing.T) {
	tree := Parse("{% block outer %}body{% endblock outer %}")
	block := tree.Root.ChildNode(KindTwigBlock)
	if block == nil {
		t.Fatal("expected a TWIG_BLOCK node")
	}
	start := block.ChildNode(KindTwigStartingBlock)
	if start == nil {
		t.Fatal("expected a starting block node")
	}
	name, ok := start.ChildToken(KindWord)
	if !ok || name.Text != "outer" {
		t.Fatalf("expected block name %q, got %q (ok=%v)", "outer", name.Text, ok)
	}
}

func TestParseStrayEndifRecordsDiagnostic(t *testing.T) {
	tree := Parse("{% endif %}")
	if len(tree.Diags) == 0 {
		t.Fatal("expected a diagnostic for a stray endif")
	}
}

func TestParseMismatchedEndblockName(t *testing.T) {
	tree := Parse("{% block a %} x {% endblock b %}")
	want := "expected nothing or same twig block name as opening (a) but found word"
	found := false
	for _, d := range tree.Diags {
		if d.Message == want {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected parser diagnostic %q, got %v", want, tree.Diags)
	}
}

func TestParseBlockShortcutForm(t *testing.T) {
	tree := Parse(`{% block title page_title|title %}`)
	if len(tree.Diags) != 0 {
		t.Fatalf("unexpected diagnostics for shortcut block form: %v", tree.Diags)
	}
	block := tree.Root.ChildNode(KindTwigBlock)
	if block == nil {
		t.Fatal("expected a TWIG_BLOCK node")
	}
	if block.ChildNode(KindTwigEndingBlock) != nil {
		t.Fatal("shortcut block form must not have a TWIG_ENDING_BLOCK")
	}
	if block.ChildNode(KindBody) != nil {
		t.Fatal("shortcut block form must not have a BODY")
	}
}
