package syntax

import (
	"fmt"
	"strings"
)

// LexError is a fatal lexical error. Only unterminated string, date, hex,
// and octal literals qualify: the lexer has no sound way to resynchronize
// inside a literal.
type LexError struct {
	Pos Pos
	Msg string
}

func (e *LexError) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// Lexer turns source text into an ordered token sequence.
// The sequence is never empty: it always ends with an EOF sentinel.
type Lexer struct {
	src *source

	toks       []Token
	keepTrivia bool // emit Whitespace/LineCont tokens (token dumps)
	stmtStart  bool // at statement position (line start or after ':')
	err        *LexError
}

// NewLexer creates a Lexer for the given source text.
func NewLexer(filename, text string) *Lexer {
	return &Lexer{
		src:       newSource(filename, text),
		stmtStart: true,
	}
}

// SetKeepTrivia controls whether whitespace and line-continuation tokens
// are emitted. Off by default; the parser never sees trivia.
func (lx *Lexer) SetKeepTrivia(keep bool) {
	lx.keepTrivia = keep
}

// Tokenize scans the entire source and returns the token sequence.
// On a fatal lexical error the tokens scanned so far are returned
// together with a *LexError.
func Tokenize(filename, text string) ([]Token, error) {
	return NewLexer(filename, text).Tokenize()
}

// Tokenize scans the entire source. It is total except for the closed set
// of unterminated-literal conditions, which abort the scan with *LexError.
func (lx *Lexer) Tokenize() ([]Token, error) {
	s := lx.src
	for lx.err == nil {
		pos := s.pos()

		switch {
		case s.ch < 0:
			lx.emit(EOF, "", pos)
			return lx.toks, nil

		case s.ch == '\r':
			s.nextch()
			if s.ch == '\n' {
				s.nextch()
			}
			lx.emit(Newline, "\n", pos)
			lx.stmtStart = true

		case s.ch == '\n':
			s.nextch()
			lx.emit(Newline, "\n", pos)
			lx.stmtStart = true

		case isBlank(s.ch):
			for isBlank(s.ch) {
				s.nextch()
			}
			if lx.keepTrivia {
				lx.emit(Whitespace, lx.text(pos), pos)
			}

		case s.ch == '\'':
			lx.scanComment(pos)

		case s.ch == '_' && isEOL(s.peek(0)):
			lx.scanLineCont(pos)

		case isLetter(s.ch):
			lx.scanIdent(pos)

		case isDigit(s.ch):
			lx.scanNumber(pos)

		case s.ch == '"':
			lx.scanString(pos)

		case s.ch == '&' && (lower(s.peek(0)) == 'h' || lower(s.peek(0)) == 'o'):
			lx.scanBasedNumber(pos)

		case s.ch == '#':
			if lx.stmtStart && isLetter(s.peek(0)) {
				lx.scanDirective(pos)
			} else {
				lx.scanDate(pos)
			}

		default:
			lx.scanOperator(pos)
		}
	}
	return lx.toks, lx.err
}

// text returns the raw source bytes from the token's start position up to
// the current character.
func (lx *Lexer) text(pos Pos) string {
	return string(lx.src.buf[pos.Offset():lx.src.chOffs])
}

// emit appends a token and updates the statement-position flag.
// The token's byte length is the span from the position's offset to the
// current character.
func (lx *Lexer) emit(kind Kind, text string, pos Pos) {
	lx.toks = append(lx.toks, Token{
		Kind:   kind,
		Text:   text,
		Line:   pos.Line(),
		Col:    pos.Col(),
		Length: lx.src.chOffs - pos.Offset(),
	})
	switch kind {
	case Whitespace, LineCont, Comment, Newline, EOF:
		// statement position is unaffected by trivia and decided by
		// Newline/':' for the rest
	default:
		lx.stmtStart = kind == Punct && text == ":"
	}
}

// fatal records a fatal lexical error and stops the scan.
func (lx *Lexer) fatal(pos Pos, format string, args ...interface{}) {
	lx.err = &LexError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// scanComment scans a ' comment to end of line.
func (lx *Lexer) scanComment(pos Pos) {
	s := lx.src
	for s.ch >= 0 && s.ch != '\n' && s.ch != '\r' {
		s.nextch()
	}
	lx.emit(Comment, lx.text(pos), pos)
}

// scanLineCont consumes "_" followed by the line terminator and any
// indentation of the continued line, so a logical statement can span
// physical lines.
func (lx *Lexer) scanLineCont(pos Pos) {
	s := lx.src
	s.nextch() // _
	if s.ch == '\r' {
		s.nextch()
	}
	if s.ch == '\n' {
		s.nextch()
	}
	for isBlank(s.ch) {
		s.nextch()
	}
	if lx.keepTrivia {
		lx.emit(LineCont, "_", pos)
	}
}

// scanIdent scans an identifier, keyword, label, REM comment, or
// Attribute line.
func (lx *Lexer) scanIdent(pos Pos) {
	s := lx.src
	atStmt := lx.stmtStart

	for isAlnum(s.ch) {
		s.nextch()
	}
	text := lx.text(pos)

	// REM comments: only at statement position, and the keyword must not
	// run into an alphanumeric character (REMARK is an identifier).
	if atStmt && strings.EqualFold(text, "rem") && !isAlnum(s.ch) {
		for s.ch >= 0 && s.ch != '\n' && s.ch != '\r' {
			s.nextch()
		}
		lx.emit(Comment, lx.text(pos), pos)
		return
	}

	// Attribute header lines carry the whole line as one token.
	if atStmt && strings.EqualFold(text, "attribute") && isBlank(s.ch) {
		for s.ch >= 0 && s.ch != '\n' && s.ch != '\r' {
			s.nextch()
		}
		lx.emit(Attribute, lx.text(pos), pos)
		return
	}

	kind := LookupKeyword(text)

	// Labels are lexically ambiguous with identifiers: an identifier at
	// statement position directly followed by ':' is a label. The ':'
	// itself is emitted as the next Punct token by the main loop.
	if kind == Ident && atStmt && s.ch == ':' {
		lx.emit(Label, text, pos)
		return
	}

	lx.emit(kind, text, pos)

	// A trailing type suffix modifies the identifier but is its own token.
	if kind == Ident && isTypeSuffix(s.ch) {
		lx.scanTypeSuffix()
	}
}

// scanNumber scans a decimal integer or float literal, with an optional
// exponent and an optional trailing type suffix (emitted separately).
func (lx *Lexer) scanNumber(pos Pos) {
	s := lx.src
	kind := Number

	for isDigit(s.ch) {
		s.nextch()
	}
	if s.ch == '.' && isDigit(s.peek(0)) {
		kind = Float
		s.nextch()
		for isDigit(s.ch) {
			s.nextch()
		}
	}
	if lower(s.ch) == 'e' && (isDigit(s.peek(0)) ||
		(s.peek(0) == '+' || s.peek(0) == '-') && isDigit(s.peek(1))) {
		kind = Float
		s.nextch()
		if s.ch == '+' || s.ch == '-' {
			s.nextch()
		}
		for isDigit(s.ch) {
			s.nextch()
		}
	}

	lx.emit(kind, lx.text(pos), pos)

	if isTypeSuffix(s.ch) {
		lx.scanTypeSuffix()
	}
}

// scanBasedNumber scans a &H hex or &O octal literal.
// An empty digit run after the prefix is fatal.
func (lx *Lexer) scanBasedNumber(pos Pos) {
	s := lx.src
	s.nextch() // &
	base := lower(s.ch)
	s.nextch() // H or O

	kind := Hex
	digits := isHexDigit
	if base == 'o' {
		kind = Octal
		digits = isOctalDigit
	}

	if !digits(s.ch) {
		lx.fatal(pos, "%s literal has no digits", strings.ToLower(kind.String()))
		return
	}
	for digits(s.ch) {
		s.nextch()
	}

	lx.emit(kind, lx.text(pos), pos)

	if isTypeSuffix(s.ch) {
		lx.scanTypeSuffix()
	}
}

// scanTypeSuffix emits the single-character type suffix at the current
// position.
func (lx *Lexer) scanTypeSuffix() {
	s := lx.src
	pos := s.pos()
	text := string(s.ch)
	s.nextch()
	lx.emit(TypeSuffix, text, pos)
}

// scanString scans a double-quoted string literal. A doubled "" inside the
// literal is an escaped quote. Running into end of line or end of file is
// fatal: the lexer cannot resynchronize mid-literal.
func (lx *Lexer) scanString(pos Pos) {
	s := lx.src
	s.nextch() // opening "

	var b strings.Builder
	for {
		switch {
		case s.ch == '"':
			if s.peek(0) == '"' {
				s.nextch()
				s.nextch()
				b.WriteByte('"')
				continue
			}
			s.nextch()
			lx.emit(String, b.String(), pos)
			return

		case s.ch < 0 || s.ch == '\n' || s.ch == '\r':
			lx.fatal(pos, "string literal not terminated")
			return

		default:
			b.WriteRune(s.ch)
			s.nextch()
		}
	}
}

// scanDate scans a #...# date literal. The closing # must appear on the
// same line.
func (lx *Lexer) scanDate(pos Pos) {
	s := lx.src
	s.nextch() // opening #

	var b strings.Builder
	for {
		switch {
		case s.ch == '#':
			s.nextch()
			lx.emit(Date, b.String(), pos)
			return

		case s.ch < 0 || s.ch == '\n' || s.ch == '\r':
			lx.fatal(pos, "date literal not terminated")
			return

		default:
			b.WriteRune(s.ch)
			s.nextch()
		}
	}
}

// scanDirective scans a #If/#Else/#Const preprocessor line.
func (lx *Lexer) scanDirective(pos Pos) {
	s := lx.src
	for s.ch >= 0 && s.ch != '\n' && s.ch != '\r' {
		s.nextch()
	}
	lx.emit(Directive, lx.text(pos), pos)
}

// scanOperator scans an operator or punctuation character, always
// preferring the longest match for two-character operators.
func (lx *Lexer) scanOperator(pos Pos) {
	s := lx.src
	ch := s.ch
	s.nextch()

	switch ch {
	case '<':
		switch s.ch {
		case '>':
			s.nextch()
			lx.emit(Operator, "<>", pos)
		case '=':
			s.nextch()
			lx.emit(Operator, "<=", pos)
		default:
			lx.emit(Operator, "<", pos)
		}
	case '>':
		if s.ch == '=' {
			s.nextch()
			lx.emit(Operator, ">=", pos)
		} else {
			lx.emit(Operator, ">", pos)
		}
	case '+', '-', '*', '/', '\\', '^', '&', '=', '.':
		lx.emit(Operator, string(ch), pos)
	case '(', ')', ',', ';', ':':
		lx.emit(Punct, string(ch), pos)
	default:
		// Unknown characters become punctuation so the scan stays total;
		// the parser reports them.
		lx.emit(Punct, string(ch), pos)
	}
}

// isEOL reports whether r terminates a physical line.
func isEOL(r rune) bool {
	return r == '\n' || r == '\r'
}
