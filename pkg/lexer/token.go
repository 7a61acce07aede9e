package lexer

import "fmt"

// Kind identifies the category of a lexed token.
type Kind int

const (
	LParen Kind = iota // (
	RParen             // )
	LBrace             // {
	RBrace             // }
	Semicolon          // ;
	Keyword            // reserved word, see keywords
	Identifier         // variable / function name
	Constant           // unsigned decimal integer
)

var kindNames = [...]string{
	LParen:     "LPAREN",
	RParen:     "RPAREN",
	LBrace:     "LBRACE",
	RBrace:     "RBRACE",
	Semicolon:  "SEMICOLON",
	Keyword:    "KEYWORD",
	Identifier: "IDENTIFIER",
	Constant:   "CONSTANT",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// keywords is the closed set of reserved words.
var keywords = map[string]bool{
	"int":    true,
	"void":   true,
	"return": true,
}

// Pos is a location in the source text.
type Pos struct {
	Offset int // byte offset, 0-based
	Line   int // 1-based
	Column int // 1-based, in runes
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a single lexical unit. Text is set for keywords and identifiers,
// Value for constants.
type Token struct {
	Kind  Kind
	Text  string
	Value uint32
	Pos   Pos
}

func (t Token) String() string {
	switch t.Kind {
	case Keyword, Identifier:
		return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
	case Constant:
		return fmt.Sprintf("%s(%d)", t.Kind, t.Value)
	}
	return t.Kind.String()
}

// Equal compares tokens ignoring their positions.
func (t Token) Equal(o Token) bool {
	return t.Kind == o.Kind && t.Text == o.Text && t.Value == o.Value
}

// Constructors for the expected side of comparisons.

func KeywordToken(text string) Token    { return Token{Kind: Keyword, Text: text} }
func IdentifierToken(text string) Token { return Token{Kind: Identifier, Text: text} }
func ConstantToken(v uint32) Token      { return Token{Kind: Constant, Value: v} }
func PunctToken(k Kind) Token           { return Token{Kind: k} }
