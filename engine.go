package ludtwig

import "strings"

// ignoreDirectivePrefix is the comment text ludtwig-ignore directives start
// with, e.g. "{# ludtwig-ignore required-attributes, no-double-trailing-
// whitespace #}" to silence specific rules on the node right after the
// comment, or "{# ludtwig-ignore #}" with no names to silence everything.
const ignoreDirectivePrefix = "ludtwig-ignore"

// ignoreSpan records that diagnostics from the named rules (or every rule,
// if names is empty) should be dropped when their Primary range falls
// inside cover.
type ignoreSpan struct {
	cover Range
	names map[string]bool // nil means "all rules"
}

// Engine owns the registered rule set and runs the single pre-order
// traversal the spec's §7 calls for: one walk of the tree, dispatching
// CheckRoot/CheckNode/CheckToken per rule as each node/token is visited,
// rather than one walk per rule.
type Engine struct {
	rules []Rule
}

// NewEngine builds an Engine from the given rules, in registration order;
// diagnostics from rule i are emitted before rule i+1's for the same node,
// which keeps output deterministic across runs.
func NewEngine(rules ...Rule) *Engine {
	return &Engine{rules: rules}
}

// Run traverses tree.Root once, collecting every rule's diagnostics plus
// the parse-time diagnostics already on the Tree, with ludtwig-ignore
// directives applied, and returns them sorted by ascending source position.
func (e *Engine) Run(tree *Tree, cfg *Config) []Diagnostic {
	diags := append([]Diagnostic{}, tree.Diags...)
	spans := collectIgnoreSpans(tree.Root)
	fileNames, fileIgnored := fileIgnoreDirective(tree.Root)

	var walk func(n *Node, trav TreeTraversalContext)
	walk = func(n *Node, trav TreeTraversalContext) {
		rc := &RuleContext{Config: cfg, Trav: trav, diags: &diags}
		for _, r := range e.rules {
			if r.CheckNode != nil {
				r.CheckNode(rc, n)
			}
		}
		childTrav := trav.pushed(n.Kind)
		if whitespaceSensitiveKind(n.Kind) {
			childTrav = childTrav.withWhitespaceSensitive(true)
		}
		if start := n.ChildNode(KindHTMLStartingTag); n.Kind == KindHTMLTag && start != nil {
			if name, ok := start.ChildToken(KindWord); ok && strings.EqualFold(name.Text, "pre") {
				childTrav = childTrav.withWhitespaceSensitive(true)
			}
		}
		for _, c := range n.Children {
			if c.IsToken() {
				for _, r := range e.rules {
					if r.CheckToken != nil {
						r.CheckToken(rc, c.Tok, n)
					}
				}
				continue
			}
			walk(c.Node, childTrav)
		}
	}

	rootCtx := &RuleContext{Config: cfg, diags: &diags}
	for _, r := range e.rules {
		if r.CheckRoot != nil {
			r.CheckRoot(rootCtx, tree.Root)
		}
	}
	if tree.Root != nil {
		walk(tree.Root, TreeTraversalContext{})
	}

	diags = applyIgnoreSpans(diags, spans)
	if fileIgnored {
		diags = filterRuleNames(diags, fileNames)
	}
	sortDiagnostics(diags)
	return diags
}

// fileIgnoreDirective reports whether the tree starts (before any other
// significant content) with a "{# ludtwig-ignore-file [names...] #}"
// comment, and if so which rule names it names (nil meaning "all rules").
func fileIgnoreDirective(root *Node) (names map[string]bool, ok bool) {
	if root == nil {
		return nil, false
	}
	for _, c := range root.Children {
		if c.IsToken() {
			if !c.Tok.Kind.IsTrivia() {
				return nil, false
			}
			continue
		}
		if c.Node.Kind != KindTwigComment {
			return nil, false
		}
		inner := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(c.Node.Text(), "{#"), "#}"))
		const prefix = "ludtwig-ignore-file"
		if !strings.HasPrefix(inner, prefix) {
			return nil, false
		}
		rest := strings.TrimSpace(strings.TrimPrefix(inner, prefix))
		if rest == "" {
			return nil, true
		}
		names = map[string]bool{}
		for _, part := range strings.Split(rest, ",") {
			if n := strings.TrimSpace(part); n != "" {
				names[n] = true
			}
		}
		return names, true
	}
	return nil, false
}

// filterRuleNames drops diagnostics whose RuleName is in names (or every
// rule diagnostic, if names is nil), leaving parser-level diagnostics
// (RuleName == "") untouched.
func filterRuleNames(diags []Diagnostic, names map[string]bool) []Diagnostic {
	out := diags[:0]
	for _, d := range diags {
		if d.RuleName != "" && (names == nil || names[d.RuleName]) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// whitespaceSensitiveKind reports whether kind always puts its subtree into
// whitespace-sensitive mode. Only TWIG_APPLY does; an HTML <pre> element is
// an HTML_TAG like any other, so Run recognizes it by its tag name instead.
func whitespaceSensitiveKind(kind SyntaxKind) bool {
	return kind == KindTwigApply // apply|spaceless is detected by rules that need the filter name; being conservative here just flags every apply block
}

func collectIgnoreSpans(root *Node) []ignoreSpan {
	var spans []ignoreSpan
	if root == nil {
		return spans
	}
	var visit func(n *Node)
	visit = func(n *Node) {
		for i, c := range n.Children {
			if !c.IsToken() && c.Node.Kind == KindTwigComment {
				if names, ok := parseIgnoreDirective(c.Node.Text()); ok {
					if next := nextSignificantSibling(n.Children, i); next != nil {
						spans = append(spans, ignoreSpan{cover: next.Range(), names: names})
					}
				}
			}
			if !c.IsToken() {
				visit(c.Node)
			}
		}
	}
	visit(root)
	return spans
}

func nextSignificantSibling(children []Element, idx int) *Element {
	for i := idx + 1; i < len(children); i++ {
		if children[i].IsToken() && children[i].Tok.Kind.IsTrivia() {
			continue
		}
		return &children[i]
	}
	return nil
}

// parseIgnoreDirective recognizes "{# ludtwig-ignore [name, name...] #}"
// inside a comment's raw text. names is nil (meaning "all rules") when no
// names follow the directive keyword.
func parseIgnoreDirective(commentText string) (names map[string]bool, ok bool) {
	inner := strings.TrimSuffix(strings.TrimPrefix(commentText, "{#"), "#}")
	inner = strings.TrimSpace(inner)
	if !strings.HasPrefix(inner, ignoreDirectivePrefix) {
		return nil, false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(inner, ignoreDirectivePrefix))
	if rest == "" {
		return nil, true
	}
	names = map[string]bool{}
	for _, part := range strings.Split(rest, ",") {
		if n := strings.TrimSpace(part); n != "" {
			names[n] = true
		}
	}
	return names, true
}

func applyIgnoreSpans(diags []Diagnostic, spans []ignoreSpan) []Diagnostic {
	if len(spans) == 0 {
		return diags
	}
	out := diags[:0]
	for _, d := range diags {
		if d.RuleName == "" {
			out = append(out, d)
			continue
		}
		silenced := false
		for _, s := range spans {
			if !s.cover.Contains(d.Primary) {
				continue
			}
			if s.names == nil || s.names[d.RuleName] {
				silenced = true
				break
			}
		}
		if !silenced {
			out = append(out, d)
		}
	}
	return out
}

func sortDiagnostics(diags []Diagnostic) {
	for i := 1; i < len(diags); i++ {
		for j := i; j > 0 && diags[j-1].Primary.Start > diags[j].Primary.Start; j-- {
			diags[j-1], diags[j] = diags[j], diags[j-1]
		}
	}
}
