package dtsparse

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tsbindgen/tsbindgen/internal/span"
)

// Lexer tokenises .d.ts-shaped source text. It is hand-rolled rather than
// generated, and only covers the declaration- and type-level syntax the
// rest of the parser consumes.
type Lexer struct {
	src       string
	pos       int
	line, col int
}

func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

type lexState struct {
	pos, line, col int
}

func (l *Lexer) Save() lexState { return lexState{l.pos, l.line, l.col} }
func (l *Lexer) Restore(s lexState) {
	l.pos, l.line, l.col = s.pos, s.line, s.col
}

func (l *Lexer) loc() span.Location { return span.Location{Line: l.line, Column: l.col} }

func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) peekRune() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	return r
}

func (l *Lexer) peekAt(offset int) rune {
	p := l.pos
	for i := 0; i < offset && p < len(l.src); i++ {
		_, size := utf8.DecodeRuneInString(l.src[p:])
		p += size
	}
	if p >= len(l.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[p:])
	return r
}

func (l *Lexer) skipTrivia() {
	for {
		r := l.peekRune()
		switch {
		case r == ' ' || r == '\t' || r == '\r' || r == '\n':
			l.advance()
		case r == '/' && l.peekAt(1) == '/':
			for l.peekRune() != '\n' && l.peekRune() != 0 {
				l.advance()
			}
		case r == '/' && l.peekAt(1) == '*':
			l.advance()
			l.advance()
			for !(l.peekRune() == '*' && l.peekAt(1) == '/') && l.peekRune() != 0 {
				l.advance()
			}
			if l.peekRune() != 0 {
				l.advance()
				l.advance()
			}
		default:
			return
		}
	}
}

// Next returns the next token, skipping whitespace and comments.
func (l *Lexer) Next() Token {
	l.skipTrivia()
	start := l.loc()
	r := l.peekRune()

	if r == 0 {
		return Token{Kind: EOF, Span: span.New(start, start)}
	}

	if r == '"' || r == '\'' {
		return l.lexString(r, start)
	}
	if r == '`' {
		return l.lexTemplate(start)
	}
	if unicode.IsDigit(r) {
		return l.lexNumber(start)
	}
	if isIdentStart(r) {
		return l.lexIdentOrKeyword(start)
	}

	return l.lexPunct(start)
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '$'
}

func isIdentContinue(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$'
}

func (l *Lexer) lexString(quote rune, start span.Location) Token {
	l.advance() // opening quote
	var b strings.Builder
	for l.peekRune() != quote && l.peekRune() != 0 {
		c := l.advance()
		if c == '\\' {
			b.WriteRune(c)
			b.WriteRune(l.advance())
			continue
		}
		b.WriteRune(c)
	}
	if l.peekRune() == quote {
		l.advance()
	}
	return Token{Kind: StrLit, Value: b.String(), Span: span.New(start, l.loc())}
}

// lexTemplate consumes a whole `...` template literal verbatim (including
// ${...} substitutions, tracked only by brace-depth) so the caller can
// raise UnsupportedLiteral with the literal's raw text rather than
// aborting the lex at the first backtick.
func (l *Lexer) lexTemplate(start span.Location) Token {
	l.advance() // opening backtick
	var b strings.Builder
	depth := 0
	for {
		r := l.peekRune()
		if r == 0 {
			break
		}
		if r == '`' && depth == 0 {
			l.advance()
			break
		}
		if r == '$' && l.peekAt(1) == '{' {
			depth++
		}
		if r == '}' && depth > 0 {
			depth--
		}
		b.WriteRune(l.advance())
	}
	return Token{Kind: Backtick, Value: b.String(), Span: span.New(start, l.loc())}
}

func (l *Lexer) lexNumber(start span.Location) Token {
	var b strings.Builder
	for unicode.IsDigit(l.peekRune()) || l.peekRune() == '.' {
		b.WriteRune(l.advance())
	}
	// bigint literal suffix: 123n
	if l.peekRune() == 'n' {
		b.WriteRune(l.advance())
	}
	return Token{Kind: NumLit, Value: b.String(), Span: span.New(start, l.loc())}
}

func (l *Lexer) lexIdentOrKeyword(start span.Location) Token {
	var b strings.Builder
	for isIdentContinue(l.peekRune()) {
		b.WriteRune(l.advance())
	}
	text := b.String()
	if kind, ok := keywords[text]; ok {
		return Token{Kind: kind, Value: text, Span: span.New(start, l.loc())}
	}
	return Token{Kind: Ident, Value: text, Span: span.New(start, l.loc())}
}

func (l *Lexer) lexPunct(start span.Location) Token {
	two := func(a, b rune, kind TokenKind) (Token, bool) {
		if l.peekRune() == a && l.peekAt(1) == b {
			l.advance()
			l.advance()
			return Token{Kind: kind, Span: span.New(start, l.loc())}, true
		}
		return Token{}, false
	}
	if t, ok := two('=', '>', Arrow); ok {
		return t
	}
	if l.peekRune() == '.' && l.peekAt(1) == '.' && l.peekAt(2) == '.' {
		l.advance()
		l.advance()
		l.advance()
		return Token{Kind: DotDotDot, Span: span.New(start, l.loc())}
	}

	r := l.advance()
	single := map[rune]TokenKind{
		'{': OpenBrace, '}': CloseBrace, '(': OpenParen, ')': CloseParen,
		'[': OpenBracket, ']': CloseBracket, ',': Comma, ';': Semicolon,
		':': Colon, '?': Question, '!': Bang, '|': Pipe, '&': Amp,
		'=': Equal, '.': Dot, '*': Asterisk, '<': LessThan, '>': GreaterThan,
	}
	if kind, ok := single[r]; ok {
		return Token{Kind: kind, Value: string(r), Span: span.New(start, l.loc())}
	}
	// Unrecognised byte: treat as its own single-rune identifier so the
	// parser can skip past it rather than looping forever.
	return Token{Kind: Ident, Value: string(r), Span: span.New(start, l.loc())}
}
