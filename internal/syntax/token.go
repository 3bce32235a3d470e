// Package syntax implements lexical and syntactic analysis for a legacy
// BASIC-family language.
package syntax

import (
	"fmt"
	"strings"
)

// Kind classifies a lexical token.
type Kind uint

const (
	EOF Kind = iota // end of file sentinel, always last in a token stream

	Keyword    // If, Sub, Dim, ... (case-insensitive)
	Ident      // foo, Counter, lblRetry
	Number     // 123
	Float      // 3.14, 1e10
	Hex        // &HFF
	Octal      // &O77
	String     // "hello"
	Date       // #1/1/2000#
	Operator   // + - * / \ ^ & = <> <= >= < > .
	Punct      // ( ) , : ;
	Comment    // ' ... or REM ...
	Newline    // physical end of line
	Whitespace // spaces/tabs (emitted only in trivia mode)
	LineCont   // _ at end of line (emitted only in trivia mode)
	Directive  // #If, #Const, ... at statement start
	TypeSuffix // % & ! # @ $ immediately after a name or number
	Label      // identifier followed by : at statement start
	Attribute  // Attribute VB_Name = "..." line

	kindCount
)

// kindNames maps kinds to their string representation.
var kindNames = [...]string{
	EOF:        "EOF",
	Keyword:    "KEYWORD",
	Ident:      "IDENT",
	Number:     "NUMBER",
	Float:      "FLOAT",
	Hex:        "HEX",
	Octal:      "OCTAL",
	String:     "STRING",
	Date:       "DATE",
	Operator:   "OPERATOR",
	Punct:      "PUNCT",
	Comment:    "COMMENT",
	Newline:    "NEWLINE",
	Whitespace: "WHITESPACE",
	LineCont:   "LINECONT",
	Directive:  "DIRECTIVE",
	TypeSuffix: "TYPESUFFIX",
	Label:      "LABEL",
	Attribute:  "ATTRIBUTE",
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Token is a single lexical token. Tokens are immutable values; the
// lexer produces an append-only sequence of them terminated by EOF.
type Token struct {
	Kind   Kind
	Text   string // raw text (decoded content for strings)
	Line   uint32 // 1-based line of the first character
	Col    uint32 // 1-based column of the first character
	Length int    // source length in bytes
}

// String returns a short representation for debugging and dumps.
func (t Token) String() string {
	return fmt.Sprintf("%s %q @%d:%d", t.Kind, t.Text, t.Line, t.Col)
}

// IsEOF reports whether t is the EOF sentinel.
func (t Token) IsEOF() bool {
	return t.Kind == EOF
}

// IsKeyword reports whether t is the given keyword (case-insensitive).
func (t Token) IsKeyword(kw string) bool {
	return t.Kind == Keyword && strings.EqualFold(t.Text, kw)
}

// IsOperator reports whether t is the given operator.
func (t Token) IsOperator(op string) bool {
	return t.Kind == Operator && t.Text == op
}

// IsPunct reports whether t is the given punctuation character.
func (t Token) IsPunct(p string) bool {
	return t.Kind == Punct && t.Text == p
}

// IsTrivia reports whether t carries no syntactic content
// (comments, newlines are significant separators and are NOT trivia).
func (t Token) IsTrivia() bool {
	return t.Kind == Whitespace || t.Kind == LineCont
}

// IsLiteral reports whether t is a literal token.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case Number, Float, Hex, Octal, String, Date:
		return true
	}
	return false
}

// keywords is the fixed keyword set, keyed by lowercased text.
// REM is absent: the lexer turns it into a comment before keyword lookup.
var keywords = map[string]bool{
	"alias": true, "and": true, "as": true, "byref": true, "byval": true,
	"call": true, "case": true, "const": true, "declare": true, "dim": true,
	"do": true, "each": true, "else": true, "elseif": true, "empty": true,
	"end": true, "enum": true, "error": true, "event": true, "exit": true,
	"false": true, "for": true, "friend": true, "function": true,
	"get": true, "global": true, "gosub": true, "goto": true, "if": true,
	"in": true, "is": true, "let": true, "lib": true, "like": true,
	"loop": true, "me": true, "mod": true, "new": true, "next": true,
	"not": true, "nothing": true, "null": true, "on": true, "option": true,
	"optional": true, "or": true, "paramarray": true, "preserve": true,
	"private": true, "property": true, "public": true, "redim": true,
	"resume": true, "return": true, "select": true, "set": true,
	"static": true, "step": true, "sub": true, "then": true, "to": true,
	"true": true, "type": true, "until": true, "wend": true, "while": true,
	"with": true, "withevents": true, "xor": true,
}

// LookupKeyword returns Keyword if the identifier text is a keyword
// (case-insensitive), Ident otherwise.
func LookupKeyword(ident string) Kind {
	if keywords[strings.ToLower(ident)] {
		return Keyword
	}
	return Ident
}

// isTypeSuffix reports whether r is one of the single-character type
// suffixes that may trail a name or numeric literal.
func isTypeSuffix(r rune) bool {
	switch r {
	case '%', '&', '!', '#', '@', '$':
		return true
	}
	return false
}
