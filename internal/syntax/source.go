package syntax

import "unicode/utf8"

// source is a character reader with position tracking.
// It reads the source text and provides character-by-character access
// with one-token lookahead via peek.
type source struct {
	buf []byte // entire source text

	// Position tracking
	filename string
	line     uint32 // current line number (1-based)
	col      uint32 // current column number (1-based)

	// Current state
	ch     rune // current character, -1 for EOF
	offs   int  // byte offset of the character after ch
	chOffs int  // byte offset of ch itself (len(buf) at EOF)
}

// newSource creates a new source over the given text.
func newSource(filename, text string) *source {
	s := &source{
		buf:      []byte(text),
		filename: filename,
		line:     1,
		col:      0,  // incremented to 1 by the first nextch
		ch:       -1, // sentinel: before first char
	}
	s.nextch()
	return s
}

// nextch advances to the next character and updates the position.
// Sets s.ch to -1 at EOF. (line, col) always refer to s.ch.
func (s *source) nextch() {
	if s.ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}

	s.chOffs = s.offs
	if s.offs >= len(s.buf) {
		s.ch = -1
		return
	}

	r, width := utf8.DecodeRune(s.buf[s.offs:])
	s.ch = r
	s.offs += width
}

// peek returns the character i positions past the current one without
// consuming anything. peek(0) is the character immediately after s.ch.
func (s *source) peek(i int) rune {
	offs := s.offs
	for ; offs < len(s.buf); i-- {
		r, width := utf8.DecodeRune(s.buf[offs:])
		if i == 0 {
			return r
		}
		offs += width
	}
	return -1
}

// pos returns the position of the current character, byte offset included.
func (s *source) pos() Pos {
	return MakePos(s.filename, s.chOffs, s.line, s.col)
}

// Character classification helpers

// isLetter reports whether r is a letter (a-z, A-Z, or _).
func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_'
}

// isDigit reports whether r is a decimal digit (0-9).
func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// isHexDigit reports whether r is a hexadecimal digit.
func isHexDigit(r rune) bool {
	return isDigit(r) || 'a' <= lower(r) && lower(r) <= 'f'
}

// isOctalDigit reports whether r is an octal digit (0-7).
func isOctalDigit(r rune) bool {
	return '0' <= r && r <= '7'
}

// isAlnum reports whether r is a letter or a decimal digit.
func isAlnum(r rune) bool {
	return isLetter(r) || isDigit(r)
}

// lower returns the lowercase version of an ASCII letter,
// other characters are returned unchanged.
func lower(r rune) rune {
	return ('a' - 'A') | r
}

// isBlank reports whether r is a space or tab.
// Newlines are significant statement separators and are never skipped here.
func isBlank(r rune) bool {
	return r == ' ' || r == '\t'
}
