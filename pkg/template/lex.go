package template

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenNumber
	tokenString
	tokenOp     // operators and punctuation
	tokenKeyword
)

// keywords of the segment language. Everything else alphabetic is an
// identifier resolved against the render bindings.
var keywords = map[string]struct{}{
	"if": {}, "else": {}, "for": {}, "in": {}, "set": {},
	"and": {}, "or": {}, "not": {},
	"true": {}, "false": {}, "nil": {},
}

type token struct {
	kind tokenKind
	text string
	pos  int
}

// lexer tokenizes a single code segment.
type lexer struct {
	src string
	pos int
}

func newLexer(src string) *lexer {
	return &lexer{src: src}
}

func (l *lexer) next() (token, error) {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return token{kind: tokenEOF, pos: l.pos}, nil
	}

	start := l.pos
	c := l.src[l.pos]

	switch {
	case isIdentStart(rune(c)):
		for l.pos < len(l.src) && isIdentPart(rune(l.src[l.pos])) {
			l.pos++
		}
		text := l.src[start:l.pos]
		if _, ok := keywords[text]; ok {
			return token{kind: tokenKeyword, text: text, pos: start}, nil
		}
		return token{kind: tokenIdent, text: text, pos: start}, nil

	case c >= '0' && c <= '9':
		for l.pos < len(l.src) && (l.src[l.pos] >= '0' && l.src[l.pos] <= '9' || l.src[l.pos] == '.') {
			l.pos++
		}
		return token{kind: tokenNumber, text: l.src[start:l.pos], pos: start}, nil

	case c == '"' || c == '\'':
		return l.scanString(c)

	default:
		// Two-character operators first.
		if l.pos+1 < len(l.src) {
			two := l.src[l.pos : l.pos+2]
			switch two {
			case "==", "!=", "<=", ">=":
				l.pos += 2
				return token{kind: tokenOp, text: two, pos: start}, nil
			}
		}
		switch c {
		case '+', '-', '*', '/', '%', '<', '>', '=', '(', ')', '{', '}', '[', ']', '.', ',':
			l.pos++
			return token{kind: tokenOp, text: string(c), pos: start}, nil
		}
		r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
		return token{}, fmt.Errorf("unexpected character %q at offset %d", r, l.pos)
	}
}

func (l *lexer) scanString(quote byte) (token, error) {
	start := l.pos
	l.pos++ // opening quote

	var b strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch c {
		case quote:
			l.pos++
			return token{kind: tokenString, text: b.String(), pos: start}, nil
		case '\\':
			if l.pos+1 >= len(l.src) {
				return token{}, fmt.Errorf("unterminated string at offset %d", start)
			}
			l.pos++
			switch l.src[l.pos] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(l.src[l.pos])
			}
			l.pos++
		default:
			b.WriteByte(c)
			l.pos++
		}
	}
	return token{}, fmt.Errorf("unterminated string at offset %d", start)
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) && unicode.IsSpace(rune(l.src[l.pos])) {
		l.pos++
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
