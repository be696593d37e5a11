// Package scan provides a stateful lexical scanner over an in-memory string.
//
// A Scanner owns a source text and a cursor. Patterns (literal strings or
// regular expressions) are matched against the text that follows the cursor,
// and every successful scan advances the cursor past the matched text. On top
// of those primitives the package builds composite operations:
//
//   - ScanDelimited - start/end delimited spans with escapes and nested grammars
//   - ScanUntil - everything up to (optionally including) a terminator
//   - ScanInteger, ScanDecimal - configurable number recognizers
//   - Backscan - matching a pattern against the tail of a string
//
// Composite operations run on a duplicate of the scanner and commit the
// duplicate's state back in a single step, so a failed operation never leaves
// the scanner half-advanced.
//
// # Failure
//
// A failed match is not an error. Operations return (value, false) and leave
// the cursor where it was. Errors are reserved for construction problems such
// as a regular expression that does not compile.
//
// # Positions
//
// Positions are byte offsets into the UTF-8 text. Peek and Grab count
// user-perceived characters (grapheme clusters), so a single Grab(1) never
// splits "é" written as "e" followed by a combining accent.
//
// # Thread Safety
//
// A Scanner is not safe for concurrent use. Use Duplicate to obtain an
// independent scanner per goroutine. Compiled Regex values are immutable and
// may be shared freely.
//
// # Example usage:
//
//	s := scan.New(`say "hi \"there\"" now`)
//	s.ScanUntil([]scan.Pattern{scan.Literal(`"`)}, scan.UntilOptions{})
//	text, ok := s.ScanDelimited(scan.Grammar{})
//	// text == `hi "there"`, ok == true
package scan

import (
	"strconv"
	"strings"

	"github.com/rivo/uniseg"
)

// Scanner is a cursor over a source text.
type Scanner struct {
	text string
	data []byte // lazily built byte view of text, shared with duplicates

	cur  State
	last State

	insensitive bool
}

// New creates a scanner positioned at the start of text.
func New(text string) *Scanner {
	return &Scanner{text: text}
}

// Text returns the whole source text.
func (s *Scanner) Text() string { return s.text }

// Pos returns the byte offset of the cursor.
func (s *Scanner) Pos() int { return s.cur.Pos }

// LastPos returns the cursor position before the most recent move.
func (s *Scanner) LastPos() int { return s.cur.LastPos }

// LastMatch returns the text of the most recent successful match.
func (s *Scanner) LastMatch() (string, bool) { return s.cur.LastMatch, s.cur.Matched }

// State returns a snapshot of the cursor.
func (s *Scanner) State() State { return s.cur }

// LastState returns the snapshot Undo would restore.
func (s *Scanner) LastState() State { return s.last }

// Insensitive reports whether matching ignores case.
func (s *Scanner) Insensitive() bool { return s.insensitive }

// SetInsensitive switches case-insensitive matching on or off.
func (s *Scanner) SetInsensitive(on bool) { s.insensitive = on }

// Unscanned returns the text after the cursor.
func (s *Scanner) Unscanned() string { return s.text[s.cur.Pos:] }

// Scanned returns the text before the cursor.
func (s *Scanner) Scanned() string { return s.text[:s.cur.Pos] }

// EOS reports whether the cursor is at the end of the text.
func (s *Scanner) EOS() bool { return s.cur.Pos >= len(s.text) }

// source returns the whole text as bytes.
func (s *Scanner) source() []byte {
	if s.data == nil {
		s.data = []byte(s.text)
	}
	return s.data
}

// Move shifts the cursor by n bytes, clamped to the text. Moving by zero does
// nothing; any other move saves the current state for Undo first.
func (s *Scanner) Move(n int) {
	if n == 0 {
		return
	}
	s.last = s.cur
	s.cur.LastPos = s.cur.Pos
	s.cur.Pos = clampInt(s.cur.Pos+n, len(s.text))
}

// SetPosition moves the cursor to an absolute byte offset, clamped to the text.
func (s *Scanner) SetPosition(pos int) {
	s.last = s.cur
	s.cur.LastPos = s.cur.Pos
	s.cur.Pos = clampInt(pos, len(s.text))
}

// LoadState replaces the cursor with st, saving the current state for Undo.
// Positions outside the text are clamped.
func (s *Scanner) LoadState(st State) {
	s.last = s.cur
	s.cur = st.clamp(len(s.text))
}

// UpdateMatch advances the cursor past text and records it as the last match.
// Every successful scan goes through here.
func (s *Scanner) UpdateMatch(text string) {
	s.Move(len(text))
	s.cur.LastMatch = text
	s.cur.Matched = true
}

// Undo swaps the cursor with the state saved by the most recent move. Undo
// keeps a single level: calling it twice restores the state before the first call.
func (s *Scanner) Undo() {
	s.cur, s.last = s.last, s.cur
}

// Peek returns the next n characters without moving the cursor. Fewer are
// returned near the end of the text.
func (s *Scanner) Peek(n int) string {
	rest := s.Unscanned()
	return rest[:clusterPrefix(rest, n)]
}

// Grab consumes the next n characters and records them as the last match.
func (s *Scanner) Grab(n int) string {
	text := s.Peek(n)
	s.UpdateMatch(text)
	return text
}

// clusterPrefix returns the byte length of the first n grapheme clusters of str.
func clusterPrefix(str string, n int) int {
	size, state := 0, -1
	for i := 0; i < n && str != ""; i++ {
		var cluster string
		cluster, str, _, state = uniseg.FirstGraphemeClusterInString(str, state)
		size += len(cluster)
	}
	return size
}

// Reset returns the scanner to its freshly constructed state. The text is kept.
func (s *Scanner) Reset() {
	s.cur = State{}
	s.last = State{}
	s.insensitive = false
}

// Terminate moves the cursor to the end of the text. With clear set, the last
// match is forgotten as well.
func (s *Scanner) Terminate(clear bool) {
	s.SetPosition(len(s.text))
	if clear {
		s.cur.LastMatch = ""
		s.cur.Matched = false
	}
}

// Append adds text to the end of the source. The cursor is unchanged.
func (s *Scanner) Append(text string) {
	if text == "" {
		return
	}
	s.text += text
	s.data = nil
}

// Prepend adds text to the start of the source. With reset set the scanner is
// reset; otherwise every saved position is shifted so it keeps pointing at the
// same character.
func (s *Scanner) Prepend(text string, reset bool) {
	s.text = text + s.text
	s.data = nil
	if reset {
		s.Reset()
		return
	}
	s.cur = s.cur.shift(len(text))
	s.last = s.last.shift(len(text))
}

// Duplicate returns an independent copy of the scanner.
func (s *Scanner) Duplicate() *Scanner {
	dup := *s
	return &dup
}

// Location is a line and column in the source text, both starting at 1.
// Columns count user-perceived characters.
type Location struct {
	Line   int
	Column int
}

// Location returns the line and column of the cursor.
func (s *Scanner) Location() Location {
	scanned := s.Scanned()
	line := strings.Count(scanned, "\n") + 1
	if i := strings.LastIndexByte(scanned, '\n'); i >= 0 {
		scanned = scanned[i+1:]
	}
	return Location{Line: line, Column: uniseg.GraphemeClusterCount(scanned) + 1}
}

// String formats the location as line:column.
func (l Location) String() string {
	return strconv.Itoa(l.Line) + ":" + strconv.Itoa(l.Column)
}
