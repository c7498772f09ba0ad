package ludtwig

// TreeTraversalContext carries traversal state a rule may need but that
// doesn't belong on the node itself, most importantly whether the
// traversal is currently inside a whitespace-sensitive construct (e.g. a
// <pre> element or a Twig "spaceless"-equivalent region), mirroring the
// teacher's own "is this tag whitespace-sensitive" checks scattered through
// tags_spaceless.go, generalized into one place every rule can consult.
type TreeTraversalContext struct {
	WhitespaceSensitive bool
	AncestorKinds       []SyntaxKind
}

func (c TreeTraversalContext) withWhitespaceSensitive(v bool) TreeTraversalContext {
	c.WhitespaceSensitive = v
	return c
}

func (c TreeTraversalContext) pushed(kind SyntaxKind) TreeTraversalContext {
	out := c
	out.AncestorKinds = append(append([]SyntaxKind{}, c.AncestorKinds...), kind)
	return out
}

// RuleContext is what a Rule's callbacks receive on every invocation: the
// shared config, the traversal context, and a sink for diagnostics. Rules
// themselves are stateless (no field survives between calls, per §7); any
// state a rule needs across a single file's traversal belongs in Config or
// is recomputed from the node it's given.
type RuleContext struct {
	Config *Config
	Trav   TreeTraversalContext
	diags  *[]Diagnostic
}

// Report appends a finding. severity/ruleName/message/primary are required;
// suggestions are optional fixes the applier (applier.go) can later apply.
func (rc *RuleContext) Report(severity Severity, ruleName, message string, primary Range, suggestions ...Suggestion) {
	if override, ok := rc.Config.severityOverride(ruleName); ok {
		severity = override
	}
	*rc.diags = append(*rc.diags, Diagnostic{
		Severity:    severity,
		RuleName:    ruleName,
		Message:     message,
		Primary:     primary,
		Suggestions: suggestions,
	})
}

// Rule is one lint/format check. Every callback is optional (a rule that
// only cares about one node kind implements just CheckNode, say); the
// engine calls whichever ones are non-nil during its single pre-order
// traversal (§7 "single-pass rule engine").
type Rule struct {
	Name string

	CheckRoot  func(rc *RuleContext, root *Node)
	CheckNode  func(rc *RuleContext, n *Node)
	CheckToken func(rc *RuleContext, t Token, parent *Node)
}
