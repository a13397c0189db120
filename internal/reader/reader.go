// Package reader implements the character-reader-based cursor underlying
// internal/parser, adapted from the teacher's
// ai/vectorstore/filter/lexer.Lexer (rune-at-a-time reads over a
// strings.Reader with line/column tracking) to a rewindable-by-offset
// cursor better suited to a combinator parser's heavy backtracking.
package reader

import "github.com/hurlgo/hurl/internal/sourcepos"

// Reader is a rewindable rune cursor over a source string.
type Reader struct {
	input []rune
	pos   int // index into input
	at    sourcepos.Position
}

// New returns a Reader positioned at the start of input.
func New(input string) *Reader {
	return &Reader{input: []rune(input), pos: 0, at: sourcepos.NewPosition()}
}

// Eof reports whether the cursor is at the end of input.
func (r *Reader) Eof() bool { return r.pos >= len(r.input) }

// Peek returns the rune at the cursor without consuming it, and false at
// EOF.
func (r *Reader) Peek() (rune, bool) {
	if r.Eof() {
		return 0, false
	}
	return r.input[r.pos], true
}

// PeekAt returns the rune offset runes ahead of the cursor.
func (r *Reader) PeekAt(offset int) (rune, bool) {
	idx := r.pos + offset
	if idx < 0 || idx >= len(r.input) {
		return 0, false
	}
	return r.input[idx], true
}

// Next consumes and returns the rune at the cursor, advancing position
// tracking (including line/column on newline).
func (r *Reader) Next() (rune, bool) {
	c, ok := r.Peek()
	if !ok {
		return 0, false
	}
	r.pos++
	r.at = r.at.Advance(c)
	return c, true
}

// Position returns the current line/column.
func (r *Reader) Position() sourcepos.Position { return r.at }

// Offset returns the current rune index, usable with Mark/Reset.
func (r *Reader) Offset() int { return r.pos }

// Mark captures enough state to later Reset back to this point —
// essential for the parser's `choice` combinator, which must backtrack
// on a recoverable failure.
type Mark struct {
	pos int
	at  sourcepos.Position
}

func (r *Reader) Mark() Mark { return Mark{pos: r.pos, at: r.at} }

// Offset returns the rune index this mark was taken at.
func (m Mark) Offset() int { return m.pos }

func (r *Reader) Reset(m Mark) {
	r.pos = m.pos
	r.at = m.at
}

// Slice returns the source text between two offsets obtained from Offset.
func (r *Reader) Slice(fromOffset, toOffset int) string {
	if fromOffset < 0 {
		fromOffset = 0
	}
	if toOffset > len(r.input) {
		toOffset = len(r.input)
	}
	if toOffset < fromOffset {
		return ""
	}
	return string(r.input[fromOffset:toOffset])
}

// Remainder returns everything from the cursor to the end of input,
// without consuming it.
func (r *Reader) Remainder() string {
	return string(r.input[r.pos:])
}
