// Package lexer turns C source text into tokens for the minimal grammar
// accepted so far: parentheses, braces, semicolons, the keywords int, void
// and return, identifiers and unsigned decimal constants.
//
// Unlike the rest of the compiler the lexer does not stop at the first
// problem: every unrecognized stretch of input is reported.
package lexer

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

// Error is one stretch of input that is not a token.
type Error struct {
	Pos  Pos
	Text string
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s %q", e.Pos, e.Msg, e.Text)
}

// ErrorList collects every Error of one pass.
type ErrorList []*Error

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no lexical errors"
	case 1:
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more lexical errors)", l[0], len(l)-1)
}

// Lexer produces tokens from src one at a time.
type Lexer struct {
	src string
	pos Pos
}

func New(src string) *Lexer {
	return &Lexer{src: src, pos: Pos{Offset: 0, Line: 1, Column: 1}}
}

// Tokenize lexes all of src. It returns either the tokens or an ErrorList
// holding every error found.
func Tokenize(src string) ([]Token, error) {
	l := New(src)
	tokens := []Token{}
	var errs ErrorList
	for {
		tok, err := l.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			var lexErr *Error
			if !errors.As(err, &lexErr) {
				return nil, err
			}
			errs = append(errs, lexErr)
			continue
		}
		tokens = append(tokens, tok)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return tokens, nil
}

// Next returns the next token, or io.EOF once the input is exhausted. An
// unrecognized stretch of input is returned as an *Error and skipped, so
// Next may be called again.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespace()
	if l.atEnd() {
		return Token{}, io.EOF
	}

	start := l.pos
	r, size := l.peek()
	switch {
	case r == utf8.RuneError && size == 1:
		return Token{}, l.invalidUTF8()
	case r == '(':
		l.advance()
		return Token{Kind: LParen, Pos: start}, nil
	case r == ')':
		l.advance()
		return Token{Kind: RParen, Pos: start}, nil
	case r == '{':
		l.advance()
		return Token{Kind: LBrace, Pos: start}, nil
	case r == '}':
		l.advance()
		return Token{Kind: RBrace, Pos: start}, nil
	case r == ';':
		l.advance()
		return Token{Kind: Semicolon, Pos: start}, nil
	case isIdentStart(r):
		return l.scanIdent(), nil
	case isDigit(r):
		return l.scanConstant()
	}
	return Token{}, l.unrecognized()
}

func (l *Lexer) atEnd() bool {
	return l.pos.Offset >= len(l.src)
}

func (l *Lexer) peek() (rune, int) {
	return utf8.DecodeRuneInString(l.src[l.pos.Offset:])
}

// advance consumes one rune, or one byte of invalid UTF-8.
func (l *Lexer) advance() {
	r, size := l.peek()
	l.pos.Offset += size
	if r == '\n' {
		l.pos.Line++
		l.pos.Column = 1
	} else {
		l.pos.Column++
	}
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() {
		r, _ := l.peek()
		if !unicode.IsSpace(r) {
			return
		}
		l.advance()
	}
}

func (l *Lexer) text(start Pos) string {
	return l.src[start.Offset:l.pos.Offset]
}

func (l *Lexer) scanIdent() Token {
	start := l.pos
	l.advanceWhile(isIdentPart)
	text := l.text(start)
	// Reserved words win over identifiers.
	if keywords[text] {
		return Token{Kind: Keyword, Text: text, Pos: start}
	}
	return Token{Kind: Identifier, Text: text, Pos: start}
}

func (l *Lexer) scanConstant() (Token, error) {
	start := l.pos
	l.advanceWhile(isDigit)
	if r, _ := l.peek(); !l.atEnd() && isIdentPart(r) {
		// 0x1A, 12u, 3abc: not a decimal constant, and not to be split.
		l.advanceWhile(isIdentPart)
		return Token{}, &Error{Pos: start, Text: l.text(start), Msg: "invalid constant"}
	}

	text := l.text(start)
	v, err := strconv.ParseUint(text, 10, 32)
	if err != nil {
		return Token{}, &Error{Pos: start, Text: text, Msg: "constant out of range"}
	}
	return Token{Kind: Constant, Value: uint32(v), Pos: start}, nil
}

// unrecognized consumes input up to the next whitespace or plausible token start.
func (l *Lexer) unrecognized() error {
	start := l.pos
	l.advance()
	l.advanceWhile(func(r rune) bool {
		return r != utf8.RuneError && !unicode.IsSpace(r) && !startsToken(r)
	})
	return &Error{Pos: start, Text: l.text(start), Msg: "unrecognized input"}
}

func (l *Lexer) invalidUTF8() error {
	start := l.pos
	for !l.atEnd() {
		if r, size := l.peek(); r != utf8.RuneError || size != 1 {
			break
		}
		l.advance()
	}
	return &Error{Pos: start, Text: l.text(start), Msg: "invalid UTF-8"}
}

func (l *Lexer) advanceWhile(pred func(rune) bool) {
	for !l.atEnd() {
		r, _ := l.peek()
		if !pred(r) {
			return
		}
		l.advance()
	}
}

func startsToken(r rune) bool {
	return strings.ContainsRune("(){};", r) || isIdentStart(r) || isDigit(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}
