package ludtwig

// Parse lexes and parses source into a lossless CST. It never returns an
// error: malformed input still produces a usable Tree, with every problem
// recorded as a Diagnostic (§3, §8 property 3 "parser totality"). Callers
// that want lint findings on top of parse errors run the Tree through
// Engine.Run (engine.go).
func Parse(source string) *Tree {
	tokens := Lex(source)
	p := NewParser(tokens)

	root := p.start()
	parseBody(p, func(*Parser) bool { return false })
	p.drainRemainingTrivia()
	root.Complete(KindRoot)
	p.finishUnclosedMarkers()

	node, diags := buildTree(p.events)
	return &Tree{Source: source, Root: node, Diags: diags}
}

// stopFn reports whether the body loop at the call site should yield back
// to its caller without consuming the current token. Twig block productions
// each build one matching their own closing tag (e.g. "{% endif %}"); the
// root body's stopFn never fires, since there's nothing enclosing it.
type stopFn func(*Parser) bool

// atClosingTag builds a stopFn that matches a specific "{% <keyword>" pair,
// the shape every Twig block closer (endif, endfor, endblock, ...) takes.
func atClosingTag(kw SyntaxKind) stopFn {
	return func(p *Parser) bool { return p.atFollowing(KindTwigStarting, kw) }
}

// atAnyClosingTag matches any one of several closer keywords, used by
// productions with more than one valid closer at the same nesting depth
// (e.g. the "if" production stops its branch bodies at elseif/else/endif).
func atAnyClosingTag(kws ...SyntaxKind) stopFn {
	return func(p *Parser) bool {
		if !p.at(KindTwigStarting) {
			return false
		}
		next := p.nth(1)
		for _, kw := range kws {
			if next == kw {
				return true
			}
		}
		return false
	}
}

// parseBodyWrapped is parseBody wrapped in a BODY node. Every nested content
// slot (a Twig block's body, an if/elseif/else branch, a for loop's body,
// an HTML element's children, ...) uses this instead of parseBody directly;
// only the root's own top-level content is left unwrapped, which is what
// lets the indentation rule (rules_core.go) track nesting depth purely by
// counting BODY node entries/exits during its traversal, exactly like the
// original's check_root (original_source/.../rules/indentation.rs).
func parseBodyWrapped(p *Parser, stop stopFn) {
	m := p.start()
	parseBody(p, stop)
	m.Complete(KindBody)
}

// parseBody consumes HTML text, Twig constructs, and nested tags until EOF
// or stop reports true, dispatching purely on the current token's kind.
// Every branch is guaranteed to consume at least one token when stop is
// false, which is what keeps this loop total over arbitrary/malformed input.
func parseBody(p *Parser, stop stopFn) {
	for !p.eof() && !stop(p) {
		switch {
		case p.at(KindTwigCommentStart):
			parseTwigComment(p)
		case p.at(KindTwigVarStarting):
			parseTwigVar(p)
		case p.at(KindTwigStarting):
			parseTwigTag(p)
		case p.at(KindLess) && p.nth(1) == KindSlash:
			// an end tag that no enclosing element's stop condition claimed
			p.errorf("closing tag does not match any open element")
			parseHTMLEndTag(p)
		case p.at(KindLess) && atFollowingCommentOpen(p):
			parseHTMLComment(p)
		case p.at(KindLess):
			parseHTMLStartTag(p)
		default:
			parseHTMLText(p)
		}
	}
}

// atFollowingCommentOpen reports whether the lexer happened to split
// "<!--" across punctuation/word tokens starting at the current "<". HTML
// comments aren't part of the closed lexer token set (§4.A only defines
// Twig delimiters), so the grammar recognizes them from plain text tokens.
func atFollowingCommentOpen(p *Parser) bool {
	t1, t2, t3 := p.nthToken(1), p.nthToken(2), p.nthToken(3)
	return t1 != nil && t1.Text == "!" &&
		t2 != nil && t2.Text == "-" &&
		t3 != nil && t3.Text == "-"
}

// parseHTMLText accumulates a run of plain-text tokens (anything that isn't
// "<" or a Twig delimiter) under a single HTML_TEXT node. It always
// consumes at least one token, since the dispatcher in parseBody only
// reaches this branch when the current token is none of those delimiters.
func parseHTMLText(p *Parser) {
	m := p.start()
	for !p.eof() &&
		!p.at(KindLess) &&
		!p.at(KindTwigStarting) &&
		!p.at(KindTwigVarStarting) &&
		!p.at(KindTwigCommentStart) {
		p.bump()
	}
	if len(p.events) > 0 && m.pos == len(p.events)-1 {
		// nothing was actually consumed (can't happen given the dispatch
		// guard above, but stay total rather than emit a childless node).
		p.bump()
	}
	m.Complete(KindHTMLText)
}

// parseHTMLComment consumes a "<!-- ... -->" run verbatim as a single
// opaque HTML_COMMENT node; ludtwig does not parse HTML comment contents.
func parseHTMLComment(p *Parser) {
	m := p.start()
	p.bump() // "<"
	p.bump() // "!"
	p.bump() // "-"
	p.bump() // "-"
	for !p.eof() && !atFollowingCommentClose(p) {
		p.bump()
	}
	if atFollowingCommentClose(p) {
		p.bump() // "-"
		p.bump() // "-"
		p.bump() // ">"
	} else {
		p.errorf("unterminated HTML comment")
	}
	m.Complete(KindHTMLComment)
}

func atFollowingCommentClose(p *Parser) bool {
	t1, t2, t3 := p.nthToken(0), p.nthToken(1), p.nthToken(2)
	return t1 != nil && t1.Text == "-" &&
		t2 != nil && t2.Text == "-" &&
		t3 != nil && t3.Kind == KindGreater
}

// parseHTMLStartTag parses "<name attr=\"value\" ...>" or its self-closing
// "/>" form, recursing into parseBody for element content and matching the
// corresponding end tag by name (§5 "HTML tags nest like Twig blocks").
func parseHTMLStartTag(p *Parser) {
	outer := p.start()
	tagM := p.start()
	p.bump() // "<"
	name := ""
	if p.at(KindWord) {
		name = p.current().Text
		p.bump()
	} else {
		p.errorExpected(KindWord)
	}
	for !p.eof() && !p.at(KindGreater) && !isSelfClosingSlash(p) {
		parseHTMLAttribute(p)
	}
	selfClosing := isSelfClosingSlash(p)
	if selfClosing {
		p.bump() // "/"
	}
	if p.at(KindGreater) {
		p.bump()
	} else {
		p.errorExpected(KindGreater)
	}
	tagM.Complete(KindHTMLStartingTag)

	if !selfClosing && !voidElement(name) {
		parseBodyWrapped(p, atMatchingEndTag(name))
		if atAnyEndTag(p) {
			parseHTMLEndTag(p)
		} else if !p.eof() {
			p.errorf("missing closing tag for <%s>", name)
		}
	}
	outer.Complete(KindHTMLTag)
}

func isSelfClosingSlash(p *Parser) bool { return p.at(KindSlash) && p.nth(1) == KindGreater }

func atMatchingEndTag(name string) stopFn {
	return func(p *Parser) bool {
		if !(p.at(KindLess) && p.nth(1) == KindSlash) {
			return false
		}
		t := p.nthToken(2)
		return t != nil && t.Kind == KindWord && t.Text == name
	}
}

func atAnyEndTag(p *Parser) bool { return p.at(KindLess) && p.nth(1) == KindSlash }

// parseHTMLEndTag parses "</name>" without checking the name. An end tag
// that matches no open element is still parsed here (the tree stays lossless
// over malformed markup); parseBody records the diagnostic for it.
func parseHTMLEndTag(p *Parser) {
	m := p.start()
	p.bump() // "<"
	p.bump() // "/"
	if p.at(KindWord) {
		p.bump()
	} else {
		p.errorExpected(KindWord)
	}
	p.expect(KindGreater)
	m.Complete(KindHTMLEndingTag)
}

// parseHTMLAttribute parses "name", "name=value", or a malformed leftover
// token, always consuming forward progress.
func parseHTMLAttribute(p *Parser) {
	m := p.start()
	if p.at(KindWord) {
		p.bump()
	} else {
		p.skipOne()
		m.Complete(KindErrorNode)
		return
	}
	if p.at(KindAssign) {
		p.bump()
		parseHTMLAttributeValue(p)
	}
	m.Complete(KindHTMLAttribute)
}

// parseHTMLAttributeValue handles a quoted literal, a bare word, or a
// Twig expression used directly as an attribute value (e.g. name={{ x }}).
func parseHTMLAttributeValue(p *Parser) {
	m := p.start()
	switch {
	case p.at(KindTwigVarStarting):
		parseTwigVar(p)
	case p.at(KindDoubleQuote) || p.at(KindSingleQuote):
		quote := p.nth(0)
		p.bump()
		for !p.eof() && p.nth(0) != quote {
			if p.at(KindTwigVarStarting) {
				parseTwigVar(p)
				continue
			}
			p.bump()
		}
		p.expect(quote)
	case p.at(KindWord):
		p.bump()
	default:
		p.skipOne()
	}
	m.Complete(KindHTMLAttributeValue)
}

// voidElement reports whether name is an HTML void element, which never
// takes a matching end tag (§5, following the standard HTML void list).
func voidElement(name string) bool {
	switch name {
	case "area", "base", "br", "col", "embed", "hr", "img", "input",
		"link", "meta", "param", "source", "track", "wbr":
		return true
	default:
		return false
	}
}
