package ludtwig

import "fmt"

// Range is a half-open byte interval [Start, End) into the original source
// text. Diagnostics and suggestions reference tree positions by Range, not by
// pointer, so a Tree can be discarded independently of anything that still
// needs to talk about offsets in the source it was built from.
type Range struct {
	Start int
	End   int
}

// Len returns the number of bytes the range spans.
func (r Range) Len() int { return r.End - r.Start }

// Contains reports whether r fully contains o.
func (r Range) Contains(o Range) bool { return r.Start <= o.Start && o.End <= r.End }

// Overlaps reports whether r and o share at least one byte.
func (r Range) Overlaps(o Range) bool { return r.Start < o.End && o.Start < r.End }

func (r Range) String() string { return fmt.Sprintf("%d..%d", r.Start, r.End) }

// Cover returns the smallest range containing both r and o.
func Cover(r, o Range) Range {
	cov := r
	if o.Start < cov.Start {
		cov.Start = o.Start
	}
	if o.End > cov.End {
		cov.End = o.End
	}
	return cov
}

// Token is a single lexeme: its kind, its verbatim text slice, and its
// absolute byte range in the source. Unlike the teacher's TokenType (which
// only ever labels trivia separately from real content), Whitespace and
// Linebreak tokens here are full citizens: they live in the token stream and,
// later, in the tree, which is what keeps the tree lossless (§3 invariant).
type Token struct {
	Kind SyntaxKind
	Text string
	Range Range
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q @%s", t.Kind, t.Text, t.Range)
}
