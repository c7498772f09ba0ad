package ludtwig

import (
	"strings"
	"unicode/utf8"
)

// lexerSymbols lists every multi- and single-char structural punctuation and
// delimiter the lexer recognizes, longest first so greedy matching prefers
// "{%" over "{" and "<=" over "<". Mirrors the teacher's TokenSymbols table
// (lexer.go) but generalized to Twig's own delimiter/punctuation set (§4.A).
var lexerSymbols = []struct {
	text string
	kind SyntaxKind
}{
	{"{%", KindTwigStarting},
	{"%}", KindTwigEnding},
	{"{{", KindTwigVarStarting},
	{"}}", KindTwigVarEnding},
	{"{#", KindTwigCommentStart},
	{"#}", KindTwigCommentEnd},
	{"#{", KindTwigInterpolStart},
	{"..", KindDotDot},
	{"==", KindEqual},
	{"!=", KindNotEqual},
	{"<=", KindLessEqual},
	{">=", KindGreaterEqual},
	{".", KindDot},
	{",", KindComma},
	{":", KindColon},
	{";", KindSemicolon},
	{"=", KindAssign},
	{"<", KindLess},
	{">", KindGreater},
	{"+", KindPlus},
	{"-", KindMinus},
	{"*", KindStar},
	{"/", KindSlash},
	{"%", KindPercent},
	{"?", KindQuestionMark},
	{"|", KindPipe},
	{"[", KindOpenBracket},
	{"]", KindCloseBracket},
	{"(", KindOpenParen},
	{")", KindCloseParen},
	{"{", KindOpenCurly},
	{"}", KindCloseCurly},
}

var lexerKeywords = map[string]SyntaxKind{
	"block":         KindKwBlock,
	"endblock":      KindKwEndblock,
	"if":            KindKwIf,
	"elseif":        KindKwElseif,
	"else":          KindKwElse,
	"endif":         KindKwEndif,
	"for":           KindKwFor,
	"endfor":        KindKwEndfor,
	"in":            KindKwIn,
	"set":           KindKwSet,
	"endset":        KindKwEndset,
	"extends":       KindKwExtends,
	"include":       KindKwInclude,
	"with":          KindKwWith,
	"only":          KindKwOnly,
	"ignore":        KindKwIgnore,
	"missing":       KindKwMissing,
	"use":           KindKwUse,
	"as":            KindKwAs,
	"apply":         KindKwApply,
	"endapply":      KindKwEndapply,
	"autoescape":    KindKwAutoescape,
	"endautoescape": KindKwEndautoescape,
	"deprecated":    KindKwDeprecated,
	"true":          KindKwTrue,
	"false":         KindKwFalse,
	"and":           KindKwAnd,
	"or":            KindKwOr,
	"not":           KindKwNot,
}

const identifierStartChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_"
const identifierContinueChars = identifierStartChars + "0123456789"
const digitChars = "0123456789"

// lexerMode tracks whether the lexer is scanning raw HTML body text or
// expression content inside a {% ... %} / {{ ... }} pair (§4.A).
type lexerMode int

const (
	modeHTML lexerMode = iota
	modeTwigExpr
)

// stringFrame is one level of the lexer's string/interpolation stack. While
// inString is true the lexer scans raw string body text up to the next
// quote or "#{"; once it crosses "#{" it pushes a fresh, inString=false
// frame to scan the interpolated expression, tracking braceDepth so that an
// object/hash literal's own "{"/"}" inside the interpolation don't get
// confused with the "}" that closes it.
type stringFrame struct {
	inString   bool
	quote      byte
	braceDepth int
}

// lexer turns a template source into a flat token stream, trivia included.
// It is deterministic, reads every byte exactly once, and never aborts: any
// byte it cannot classify is emitted as KindMisc rather than dropped, which
// is what keeps "every byte of source is covered by exactly one token" true
// even for garbage input. The state-machine shape (named lex* step methods
// that each consume one token) follows the teacher's lexerStateFn design
// (lexer.go) generalized to Twig's richer delimiter/keyword/string-
// interpolation set.
type lexer struct {
	input string
	pos   int

	mode   lexerMode
	frames []stringFrame
}

// Lex tokenizes source in its entirety and always returns a complete token
// list: malformed input yields KindMisc tokens inline, never a
// lexing failure (§8 property 3, parser totality starts at the lexer).
func Lex(source string) []Token {
	l := &lexer{input: source}
	toks := make([]Token, 0, len(source)/4+8)
	for !l.eof() {
		toks = append(toks, l.next())
	}
	return toks
}

func (l *lexer) eof() bool  { return l.pos >= len(l.input) }
func (l *lexer) rest() string { return l.input[l.pos:] }

func (l *lexer) top() *stringFrame {
	if len(l.frames) == 0 {
		return nil
	}
	return &l.frames[len(l.frames)-1]
}

// next produces the single next token and advances the cursor. The caller
// guarantees l.pos < len(l.input).
func (l *lexer) next() Token {
	start := l.pos

	if f := l.top(); f != nil && f.inString {
		return l.lexStringBody(start, f)
	}

	if ws, n := leadingRun(l.rest(), " \t"); n > 0 {
		l.pos += n
		return Token{Kind: KindWhitespace, Text: ws, Range: Range{start, l.pos}}
	}
	if lb, n := leadingLinebreak(l.rest()); n > 0 {
		l.pos += n
		return Token{Kind: KindLinebreak, Text: lb, Range: Range{start, l.pos}}
	}

	inExprLike := l.mode == modeTwigExpr || len(l.frames) > 0

	if inExprLike {
		if c := l.rest()[0]; c == '\'' || c == '"' {
			l.pos++
			l.frames = append(l.frames, stringFrame{inString: true, quote: c})
			kind := KindDoubleQuote
			if c == '\'' {
				kind = KindSingleQuote
			}
			return Token{Kind: kind, Text: l.input[start:l.pos], Range: Range{start, l.pos}}
		}
		if strings.ContainsRune(identifierStartChars, rune(l.rest()[0])) {
			return l.lexWord(start, true)
		}
		if strings.ContainsRune(digitChars, rune(l.rest()[0])) {
			return l.lexNumber(start)
		}
	}

	// In HTML mode a quote is a plain quote token (it opens no string frame),
	// so attribute values like class="a" keep their quotes as delimiters.
	if l.mode == modeHTML {
		if c := l.rest()[0]; c == '\'' || c == '"' {
			l.pos++
			kind := KindDoubleQuote
			if c == '\'' {
				kind = KindSingleQuote
			}
			return Token{Kind: kind, Text: l.input[start:l.pos], Range: Range{start, l.pos}}
		}
	}

	if sym, kind, ok := matchSymbol(l.rest()); ok {
		switch kind {
		case KindOpenCurly:
			if f := l.top(); f != nil && !f.inString {
				f.braceDepth++
			}
		case KindCloseCurly:
			if f := l.top(); f != nil && !f.inString {
				if f.braceDepth > 0 {
					f.braceDepth--
				} else {
					// This "}" closes the "#{...}" interpolation: pop back
					// to the enclosing string body (or, if this wasn't
					// nested in a string, to plain expression scanning).
					l.frames = l.frames[:len(l.frames)-1]
				}
			}
		case KindTwigStarting, KindTwigVarStarting:
			l.mode = modeTwigExpr
		case KindTwigEnding, KindTwigVarEnding:
			l.mode = modeHTML
		}
		l.pos += len(sym)
		return Token{Kind: kind, Text: sym, Range: Range{start, l.pos}}
	}

	if l.mode == modeHTML && strings.ContainsRune(identifierStartChars+"0123456789", rune(l.rest()[0])) {
		return l.lexWord(start, false)
	}

	// fallback: a single undecoded rune, so we always make progress and
	// never skip a byte (§3 total-coverage invariant).
	r, w := utf8.DecodeRuneInString(l.rest())
	if r == utf8.RuneError && w <= 1 {
		w = 1
	}
	l.pos += w
	return Token{Kind: KindMisc, Text: l.input[start:l.pos], Range: Range{start, l.pos}}
}

// lexWord consumes an identifier-shaped run and classifies it as a keyword
// only when the lexer is inside Twig-expression context (§4.A). HTML-body
// words (tag/attribute names) are never keyword-classified even though the
// same character classes apply.
func (l *lexer) lexWord(start int, exprContext bool) Token {
	l.pos++ // first char already validated by caller
	for !l.eof() && strings.ContainsRune(identifierContinueChars, rune(l.rest()[0])) {
		l.pos++
	}
	text := l.input[start:l.pos]
	kind := KindWord
	if exprContext {
		if kw, ok := lexerKeywords[text]; ok {
			kind = kw
		}
	}
	return Token{Kind: kind, Text: text, Range: Range{start, l.pos}}
}

// lexNumber consumes an integer literal. Twig's float syntax is
// context-sensitive with the accessor dot (e.g. "items.0" vs "8.5"); like the
// teacher (lexer.go stateNumber) we keep this simple and leave any such
// disambiguation to the expression grammar.
func (l *lexer) lexNumber(start int) Token {
	l.pos++
	for !l.eof() && strings.ContainsRune(digitChars, rune(l.rest()[0])) {
		l.pos++
	}
	return Token{Kind: KindNumber, Text: l.input[start:l.pos], Range: Range{start, l.pos}}
}

// lexStringBody consumes a run of literal string text up to (not including)
// the closing quote or a "#{" interpolation opener, whichever comes first.
// Reaching either one with zero bytes consumed means the very next token is
// that terminator/opener itself, which this emits directly.
func (l *lexer) lexStringBody(start int, f *stringFrame) Token {
	i := l.pos
	for i < len(l.input) {
		c := l.input[i]
		if c == f.quote {
			break
		}
		if strings.HasPrefix(l.input[i:], "#{") {
			break
		}
		if c == '\\' && i+1 < len(l.input) {
			i += 2
			continue
		}
		i++
	}
	if i > l.pos {
		l.pos = i
		return Token{Kind: KindStringInner, Text: l.input[start:l.pos], Range: Range{start, l.pos}}
	}

	if strings.HasPrefix(l.input[i:], "#{") {
		l.pos += 2
		l.frames = append(l.frames, stringFrame{inString: false})
		return Token{Kind: KindTwigInterpolStart, Text: "#{", Range: Range{start, l.pos}}
	}

	// Closing quote (or EOF leaves it unterminated; the grammar surfaces
	// that as a diagnostic, the lexer still makes progress either way).
	kind := KindDoubleQuote
	if f.quote == '\'' {
		kind = KindSingleQuote
	}
	if i < len(l.input) {
		l.pos++
	}
	l.frames = l.frames[:len(l.frames)-1]
	return Token{Kind: kind, Text: string(f.quote), Range: Range{start, l.pos}}
}

func matchSymbol(s string) (string, SyntaxKind, bool) {
	for _, sym := range lexerSymbols {
		if strings.HasPrefix(s, sym.text) {
			return sym.text, sym.kind, true
		}
	}
	return "", 0, false
}

func leadingRun(s, chars string) (string, int) {
	n := 0
	for n < len(s) && strings.IndexByte(chars, s[n]) >= 0 {
		n++
	}
	return s[:n], n
}

func leadingLinebreak(s string) (string, int) {
	if strings.HasPrefix(s, "\r\n") {
		return "\r\n", 2
	}
	if len(s) > 0 && (s[0] == '\n' || s[0] == '\r') {
		return s[:1], 1
	}
	return "", 0
}
