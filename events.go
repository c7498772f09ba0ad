package ludtwig

// eventKind distinguishes the four event shapes the parser core emits while
// driving the grammar productions (§3 "Event stream").
type eventKind uint8

const (
	evStart eventKind = iota
	evToken
	evFinish
	evError
)

// event is one entry of the parser's linear event buffer. Only the fields
// relevant to evKind are meaningful; this mirrors rust-analyzer's compact
// event representation, which the spec's §9 "retroactive parent wrapping"
// note describes directly; nothing in the pack implements this exact shape
// (the teacher's Parser in parser.go consumes tokens straight into an AST
// with no intermediate event buffer and no error recovery), so the
// mechanism here is grounded on the spec's own description rather than a
// pack example, enriched by the "lenient parsing that still returns a tree"
// idiom observed in grafana-tempo's parse_lenient.go and esbuild's
// css_parser.go diagnostics-collected-during-parse style.
type event struct {
	kind eventKind

	// evStart / evToken
	syn SyntaxKind

	// evStart only: forward offset (index delta, always > 0) to a later
	// Start event that this one will end up enclosed by, set by precede().
	forwardParent int

	// evToken only
	tok Token

	// evError only
	diag Diagnostic
}

// Marker is a handle to a pending, not-yet-closed node opened by
// Parser.start(). It must be disposed exactly once, by either complete() or
// abandon() (§3 "Marker").
type Marker struct {
	pos     int
	p       *Parser
	disposed bool
}

// CompletedMarker is what a Marker becomes once complete() has recorded its
// kind. precede() uses it to retroactively wrap the finished node in a new
// outer one.
type CompletedMarker struct {
	pos int
	p   *Parser
	kind SyntaxKind
}

// Complete finalizes the node this marker was guarding as kind, closes it,
// and returns a handle that can still be wrapped by a later precede().
func (m *Marker) Complete(kind SyntaxKind) CompletedMarker {
	if m.disposed {
		panic("ludtwig: marker completed twice")
	}
	m.disposed = true
	m.p.events[m.pos].syn = kind
	m.p.push(event{kind: evFinish})
	m.p.openMarkers--
	return CompletedMarker{pos: m.pos, p: m.p, kind: kind}
}

// Abandon discards a marker without producing a node. Any events already
// recorded since it opened (tokens, nested nodes) become children of
// whatever marker encloses this one instead.
func (m *Marker) Abandon() {
	if m.disposed {
		panic("ludtwig: marker abandoned twice")
	}
	m.disposed = true
	m.p.openMarkers--
	// Only a marker with nothing recorded after it can be abandoned; dropping
	// its tombstone Start event is then exactly correct. Abandoning after
	// children were recorded would need to splice those children onto the
	// enclosing marker, which is not supported. No production in this
	// grammar currently calls Abandon.
	if m.pos != len(m.p.events)-1 {
		panic("ludtwig: abandon() on a marker with recorded children")
	}
	m.p.events = m.p.events[:m.pos]
}

// Precede returns a new pending Marker that will, once completed, enclose
// the node cm already finished. This is the "retroactive parent wrapping"
// the spec names in §9: useful when a node's true outer kind (e.g. "this
// operand is actually the left side of a pipe") is only known after some of
// it has already been parsed.
func (cm CompletedMarker) Precede() Marker {
	m := cm.p.start()
	cm.p.events[cm.pos].forwardParent = m.pos - cm.pos
	return m
}

// Kind reports the syntax kind the marker was completed with.
func (cm CompletedMarker) Kind() SyntaxKind { return cm.kind }
