package ludtwig

import "fmt"

// Parser is the event-based parser core (component C). It walks a
// pre-materialized, non-trivia token view with forward-only lookahead and
// records a linear event stream; it never builds a tree itself (that's
// buildTree's job, tree.go) and it never aborts on bad input — every production
// that can fail instead synthesizes a diagnostic and keeps going, bounded by
// a follow set.
//
// This generalizes the teacher's Parser (parser.go), which walks a flat
// []*Token with Consume/Match/Peek helpers but has no event buffer, no
// marker/precede mechanism, and gives up with a single hard error on the
// first malformed construct. Error recovery, the marker API, and the
// trivia-attachment policy are grounded on the spec's own §4.C/§9
// description and on the "lenient parsing that still returns a usable tree"
// shape seen in grafana-tempo's parse_lenient.go (other_examples) and the
// CST-with-ERROR-nodes idiom in playbymail-ottomap's cst-parser.go.
type Parser struct {
	raw       []Token
	nonTrivia []int // indices into raw naming every non-trivia token, in order
	rawPos    int    // next raw index not yet turned into an event
	ntPos     int    // cursor into nonTrivia

	events      []event
	openMarkers int
}

// NewParser builds a parser over the full (trivia-included) token stream
// produced by Lex.
func NewParser(tokens []Token) *Parser {
	p := &Parser{raw: tokens}
	for i, t := range tokens {
		if !t.Kind.IsTrivia() {
			p.nonTrivia = append(p.nonTrivia, i)
		}
	}
	return p
}

func (p *Parser) push(e event) { p.events = append(p.events, e) }

// eof reports whether there is no more non-trivia input to look at.
func (p *Parser) eof() bool { return p.ntPos >= len(p.nonTrivia) }

// nth returns the kind of the non-trivia token n positions ahead of the
// cursor (0 = current), or KindTombstone past the end of input.
func (p *Parser) nth(n int) SyntaxKind {
	i := p.ntPos + n
	if i < 0 || i >= len(p.nonTrivia) {
		return KindTombstone
	}
	return p.raw[p.nonTrivia[i]].Kind
}

// nthToken returns the full token n positions ahead, or nil past EOF.
func (p *Parser) nthToken(n int) *Token {
	i := p.ntPos + n
	if i < 0 || i >= len(p.nonTrivia) {
		return nil
	}
	return &p.raw[p.nonTrivia[i]]
}

// at reports whether the current non-trivia token has the given kind.
func (p *Parser) at(kind SyntaxKind) bool { return p.nth(0) == kind }

// atSet reports whether the current non-trivia token's kind is in kinds.
func (p *Parser) atSet(kinds ...SyntaxKind) bool {
	cur := p.nth(0)
	for _, k := range kinds {
		if cur == k {
			return true
		}
	}
	return false
}

// atFollowing reports whether the next len(kinds) non-trivia tokens match
// kinds in order; used to bound error recovery against a production's
// follow set (e.g. "{% endif %}" as two tokens: KindTwigStarting,
// KindKwEndif).
func (p *Parser) atFollowing(kinds ...SyntaxKind) bool {
	for i, k := range kinds {
		if p.nth(i) != k {
			return false
		}
	}
	return true
}

// current returns the current non-trivia token, or nil at EOF.
func (p *Parser) current() *Token { return p.nthToken(0) }

// bump unconditionally consumes the current non-trivia token (and any
// trivia immediately preceding it), emitting Token events for each. Trivia
// is emitted first so that, since the enclosing node's Start event always
// precedes the first bump() inside it, trivia attaches to whatever node the
// call site is currently building (§4.E "trivia attachment policy").
func (p *Parser) bump() {
	if p.eof() {
		return
	}
	target := p.nonTrivia[p.ntPos]
	p.drainTriviaUpTo(target)
	p.push(event{kind: evToken, syn: p.raw[target].Kind, tok: p.raw[target]})
	p.rawPos = target + 1
	p.ntPos++
}

// drainTriviaUpTo emits Token events for every raw token in [rawPos, upto).
func (p *Parser) drainTriviaUpTo(upto int) {
	for p.rawPos < upto {
		t := p.raw[p.rawPos]
		p.push(event{kind: evToken, syn: t.Kind, tok: t})
		p.rawPos++
	}
}

// drainRemainingTrivia flushes any trivia left after the last non-trivia
// token has been bumped (trailing whitespace at EOF). Called once, by the
// top-level Parse entry point, before the root marker completes.
func (p *Parser) drainRemainingTrivia() {
	p.drainTriviaUpTo(len(p.raw))
}

// expect consumes the current token if it matches kind; otherwise it
// records a diagnostic and leaves the cursor where it was so the caller's
// follow-set logic decides how to recover.
func (p *Parser) expect(kind SyntaxKind) bool {
	if p.at(kind) {
		p.bump()
		return true
	}
	p.errorExpected(kind)
	return false
}

// errorExpected records "expected <kind> but found <actual>" at the current
// position without consuming anything.
func (p *Parser) errorExpected(kind SyntaxKind) {
	p.errorf("expected %s but found %s", kind, p.describeCurrent())
}

func (p *Parser) describeCurrent() string {
	if p.eof() {
		return "end of input"
	}
	return p.current().Kind.String()
}

// errorf records a diagnostic at the current token's range (or at the very
// end of the source once input is exhausted).
func (p *Parser) errorf(format string, args ...any) {
	p.addError(Diagnostic{Severity: SeverityError, Message: fmt.Sprintf(format, args...), Primary: p.currentRange()})
}

// addError attaches an already-built diagnostic as an Error event at the
// current position in the stream (its Primary range is left as given).
func (p *Parser) addError(d Diagnostic) {
	p.push(event{kind: evError, diag: d})
}

func (p *Parser) currentRange() Range {
	if tok := p.current(); tok != nil {
		return tok.Range
	}
	if len(p.raw) > 0 {
		end := p.raw[len(p.raw)-1].Range.End
		return Range{end, end}
	}
	return Range{0, 0}
}

// start opens a new pending node and returns a Marker for it.
func (p *Parser) start() Marker {
	p.openMarkers++
	p.push(event{kind: evStart, syn: KindTombstone})
	return Marker{pos: len(p.events) - 1, p: p}
}

// skipOne consumes exactly one token as error recovery (used when a
// production hits something it doesn't recognize and nothing in its follow
// set matches; moving past one token guarantees forward progress).
func (p *Parser) skipOne() {
	if !p.eof() {
		p.bump()
	}
}

// finishUnclosedMarkers is an internal consistency check: every Marker the
// grammar opens must be completed or abandoned. A non-zero count here is a
// grammar bug, not a user-input problem, so it panics rather than emitting a
// diagnostic.
func (p *Parser) finishUnclosedMarkers() {
	if p.openMarkers != 0 {
		panic(fmt.Sprintf("ludtwig: %d marker(s) left open at end of parse", p.openMarkers))
	}
}
