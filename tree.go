package ludtwig

import "strings"

// Element is one child of a Node: either a nested Node or a leaf Token. Node
// is nil for a token element, which is how IsToken distinguishes the two
// without a separate tag field.
type Element struct {
	Node *Node
	Tok  Token
}

func (e Element) IsToken() bool { return e.Node == nil }

// Kind reports the SyntaxKind of whichever side of the union is populated.
func (e Element) Kind() SyntaxKind {
	if e.Node != nil {
		return e.Node.Kind
	}
	return e.Tok.Kind
}

// Range reports the byte range of whichever side of the union is populated.
func (e Element) Range() Range {
	if e.Node != nil {
		return e.Node.Range
	}
	return e.Tok.Range
}

// Node is one interior point of the lossless CST: it knows its own kind, its
// byte range (the cover of all its children, trivia included), an O(1)
// pointer to its parent, and its ordered children. Every byte of source
// text is accounted for by exactly one Token somewhere under the Root node
// (§3's lossless invariant); nothing here throws any byte away, including
// whitespace and comments.
type Node struct {
	Kind     SyntaxKind
	Range    Range
	Parent   *Node
	Children []Element
}

// Text reconstructs this node's exact source slice by concatenating every
// token beneath it in order; round-tripping Text() on the Root equals the
// original source byte-for-byte (§8 property 1).
func (n *Node) Text() string {
	var b strings.Builder
	n.writeText(&b)
	return b.String()
}

func (n *Node) writeText(b *strings.Builder) {
	for _, c := range n.Children {
		if c.IsToken() {
			b.WriteString(c.Tok.Text)
		} else {
			c.Node.writeText(b)
		}
	}
}

// Tokens yields every leaf token under n, in source order.
func (n *Node) Tokens() []Token {
	var out []Token
	var walk func(*Node)
	walk = func(m *Node) {
		for _, c := range m.Children {
			if c.IsToken() {
				out = append(out, c.Tok)
			} else {
				walk(c.Node)
			}
		}
	}
	walk(n)
	return out
}

// ChildNode returns the first direct child Node of the given kind, or nil.
func (n *Node) ChildNode(kind SyntaxKind) *Node {
	for _, c := range n.Children {
		if !c.IsToken() && c.Node.Kind == kind {
			return c.Node
		}
	}
	return nil
}

// ChildNodes returns every direct child Node of the given kind, in order.
func (n *Node) ChildNodes(kind SyntaxKind) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if !c.IsToken() && c.Node.Kind == kind {
			out = append(out, c.Node)
		}
	}
	return out
}

// ChildToken returns the first direct child Token of the given kind.
func (n *Node) ChildToken(kind SyntaxKind) (Token, bool) {
	for _, c := range n.Children {
		if c.IsToken() && c.Tok.Kind == kind {
			return c.Tok, true
		}
	}
	return Token{}, false
}

// Dump renders an indented tree listing in the teacher's pretty-printer
// style (pongo2's nodes.go Execute methods favor simple recursive %v
// formatting over a dedicated visitor); useful for golden-file tests and
// debugging.
func (n *Node) Dump() string {
	var b strings.Builder
	n.dump(&b, 0)
	return b.String()
}

func (n *Node) dump(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(n.Kind.String())
	b.WriteString(" ")
	b.WriteString(n.Range.String())
	b.WriteString("\n")
	for _, c := range n.Children {
		if c.IsToken() {
			b.WriteString(strings.Repeat("  ", depth+1))
			b.WriteString(c.Tok.String())
			b.WriteString("\n")
		} else {
			c.Node.dump(b, depth+1)
		}
	}
}

// buildTree replays a Parser's finished event stream into a Node tree,
// resolving every forwardParent chain precede() recorded along the way.
// This is the "retroactive parent wrapping" algorithm the spec names in §9,
// grounded on rust-analyzer's Sink::process: a forward pass that, on
// reaching a Start event, walks its forwardParent chain to collect every
// enclosing kind not yet opened, tombstones each visited Start so the main
// loop skips it when it is reached in turn, then opens the collected kinds
// outermost-first before finally opening the triggering node itself.
func buildTree(events []event) (*Node, []Diagnostic) {
	consumed := make([]bool, len(events))
	var stack []*Node
	var diags []Diagnostic
	offset := 0 // end of the last token seen; where a childless node sits

	push := func(kind SyntaxKind) {
		n := &Node{Kind: kind, Range: Range{offset, offset}}
		if len(stack) > 0 {
			n.Parent = stack[len(stack)-1]
		}
		stack = append(stack, n)
	}
	pop := func() {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(n.Children) > 0 {
			cov := n.Children[0].Range()
			for _, c := range n.Children[1:] {
				cov = Cover(cov, c.Range())
			}
			n.Range = cov
		}
		if len(stack) > 0 {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, Element{Node: n})
		} else {
			stack = append(stack, n) // root: put back so the caller can read it
		}
	}

	for i := range events {
		if consumed[i] {
			continue
		}
		switch events[i].kind {
		case evStart:
			if events[i].syn == KindTombstone && events[i].forwardParent == 0 {
				consumed[i] = true
				continue
			}
			var chain []SyntaxKind
			idx := i
			for {
				chain = append(chain, events[idx].syn)
				consumed[idx] = true
				fp := events[idx].forwardParent
				if fp == 0 {
					break
				}
				idx += fp
			}
			for j := len(chain) - 1; j >= 0; j-- {
				push(chain[j])
			}
		case evToken:
			cur := stack[len(stack)-1]
			cur.Children = append(cur.Children, Element{Tok: events[i].tok})
			offset = events[i].tok.Range.End
		case evFinish:
			pop()
		case evError:
			diags = append(diags, events[i].diag)
		}
	}

	if len(stack) != 1 {
		panic("ludtwig: tree builder ended with an unbalanced node stack")
	}
	return stack[0], diags
}

// Tree is the parse result: the root Node plus every diagnostic recorded
// while building it (lexer- and parser-level errors only; rule findings are
// layered on top by the engine, see rule.go/engine.go).
type Tree struct {
	Source string
	Root   *Node
	Diags  []Diagnostic
}
