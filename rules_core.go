package ludtwig

import (
	"fmt"
	"strings"
)

// CoreRules returns the baseline rule set ludtwig ships with, enabled by
// default unless Config turns them off (config.go). Each is grounded on a
// concrete scenario from §8 of the spec; none carries state between calls,
// per §4.F's "rules are stateless" requirement.
func CoreRules() []Rule {
	return []Rule{
		indentationRule(),
		trailingWhitespaceRule(),
		duplicateAttributeRule(),
	}
}

// indentationRule checks that the first token of every source line is
// indented by exactly (nesting depth of enclosing BODY nodes) * indent
// unit, per §8's worked example: "{% block o %}\n  <div>\n{% endblock %}"
// under default 4-space config should indent "<div>" to four spaces, not
// two. This is a direct port of the original's check_root algorithm
// (original_source/crates/ludtwig/src/check/rules/indentation.rs): a single
// pre-order walk over the whole tree (tokens included) that tracks a
// running depth counter, incremented on entering a BODY node and
// decremented on leaving it (optionally skipping TWIG_BLOCK's own BODY per
// format.indent_children_of_blocks), and checks the first token after every
// line break against the expected indent string.
func indentationRule() Rule {
	return Rule{
		Name: "indentation",
		CheckRoot: func(rc *RuleContext, root *Node) {
			if !rc.Config.ruleEnabled("indentation") || root == nil {
				return
			}
			depth := 0
			atLineStart := true
			var walk func(n *Node)
			walk = func(n *Node) {
				entersDepth := n.Kind == KindBody &&
					(rc.Config.Format.IndentChildrenOfBlocks || n.Parent == nil || n.Parent.Kind != KindTwigBlock)
				if entersDepth {
					depth++
				}
				for _, c := range n.Children {
					if c.IsToken() {
						checkIndentToken(rc, c.Tok, depth, &atLineStart)
						continue
					}
					walk(c.Node)
				}
				if entersDepth {
					depth--
				}
			}
			walk(root)
		},
	}
}

func checkIndentToken(rc *RuleContext, t Token, depth int, atLineStart *bool) {
	if t.Kind == KindLinebreak {
		*atLineStart = true
		return
	}
	if !*atLineStart {
		return
	}
	*atLineStart = false
	want := rc.Config.indentString(depth * rc.Config.indentUnit())
	switch t.Kind {
	case KindWhitespace:
		if t.Text == want {
			return
		}
		rc.Report(SeverityWarning, "indentation",
			fmt.Sprintf("expected %d columns of indentation, found %d", len(want), len(t.Text)),
			t.Range,
			Suggestion{Message: "fix indentation", Range: t.Range, Replacement: want})
	default:
		if want == "" {
			return
		}
		rc.Report(SeverityWarning, "indentation",
			fmt.Sprintf("expected %d columns of indentation, found 0", len(want)),
			t.Range,
			Suggestion{Message: "fix indentation", Range: Range{t.Range.Start, t.Range.Start}, Replacement: want})
	}
}

// trailingWhitespaceRule flags a run of two or more trailing space/tab
// characters immediately before a linebreak, a common auto-format target.
func trailingWhitespaceRule() Rule {
	return Rule{
		Name: "no-double-trailing-whitespace",
		CheckToken: func(rc *RuleContext, t Token, parent *Node) {
			if rc.Config.ruleEnabled("no-double-trailing-whitespace") && t.Kind == KindWhitespace && len(t.Text) >= 2 {
				// only flag whitespace immediately followed by a linebreak or EOF:
				// trivia lands in the same node as the token after it, so that
				// token is the next sibling, and trailing trivia at EOF has none
				for i, c := range parent.Children {
					if c.IsToken() && c.Tok.Range == t.Range {
						if i+1 < len(parent.Children) && parent.Children[i+1].Kind() != KindLinebreak {
							return
						}
						break
					}
				}
				rc.Report(SeverityHelp, "no-double-trailing-whitespace",
					"trailing whitespace should be a single space or removed entirely",
					t.Range,
					Suggestion{Message: "trim trailing whitespace", Range: t.Range, Replacement: ""})
			}
		},
	}
}

// duplicateAttributeRule flags an HTML tag that repeats the same attribute
// name, which the HTML spec treats as an error but the lenient parser
// happily accepts as two HTML_ATTRIBUTE nodes.
func duplicateAttributeRule() Rule {
	return Rule{
		Name: "duplicate-attribute",
		CheckNode: func(rc *RuleContext, n *Node) {
			if n.Kind != KindHTMLStartingTag || !rc.Config.ruleEnabled("duplicate-attribute") {
				return
			}
			seen := map[string]Range{}
			for _, attr := range n.ChildNodes(KindHTMLAttribute) {
				name, ok := attr.ChildToken(KindWord)
				if !ok {
					continue
				}
				key := strings.ToLower(name.Text)
				if first, dup := seen[key]; dup {
					rc.Report(SeverityWarning, "duplicate-attribute",
						fmt.Sprintf("attribute %q is already set at %s", name.Text, first), name.Range)
					continue
				}
				seen[key] = name.Range
			}
		},
	}
}
