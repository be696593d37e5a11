package scan

import (
	"strings"

	"github.com/coregx/ahocorasick"
	"github.com/rivo/uniseg"
)

// UntilOptions controls ScanUntil.
type UntilOptions struct {
	// FailIfNone makes the scan fail when no terminator is found. Otherwise the
	// rest of the text is returned.
	FailIfNone bool

	// IncludePattern consumes the terminator and appends it to the result.
	// Otherwise the cursor stops in front of it.
	IncludePattern bool
}

// ScanUntil consumes characters until one of patterns matches. Terminators are
// tried in order at every position, so the first pattern wins when several
// match at the same place.
func (s *Scanner) ScanUntil(patterns []Pattern, opts UntilOptions) (string, bool) {
	d := s.Duplicate()
	jump := newLiteralJump(d, patterns)

	var (
		buf   strings.Builder
		term  string
		found bool
	)
	for !d.EOS() {
		if jump != nil {
			buf.WriteString(jump.advance(d))
			if d.EOS() {
				break
			}
		}
		if m, ok := d.Scan(patterns...); ok && m != "" {
			term, found = m, true
			break
		}
		buf.WriteString(d.Grab(1))
	}
	if !found && opts.FailIfNone {
		return "", false
	}

	result := buf.String()
	if found {
		if opts.IncludePattern {
			result += term
		} else {
			d.Undo()
		}
	}
	s.LoadState(State{Pos: d.cur.Pos, LastPos: s.cur.Pos, LastMatch: result, Matched: true})
	return result, true
}

// literalJump finds the next possible terminator with an Aho-Corasick
// automaton when every terminator is a case-sensitive literal, so the
// character loop only runs where a terminator can start.
//
// The automaton may report the match that ends first rather than the one that
// starts first: in "xabcd" with terminators "abcd" and "c" it reports "c". No
// match ends earlier, so none starts before End minus the longest terminator,
// and the jump stops there at the latest.
type literalJump struct {
	auto   *ahocorasick.Automaton
	text   []byte
	maxLen int
}

func newLiteralJump(s *Scanner, patterns []Pattern) *literalJump {
	if s.insensitive || len(patterns) == 0 {
		return nil
	}
	b := ahocorasick.NewBuilder()
	maxLen := 0
	for _, p := range patterns {
		lit, ok := p.(Literal)
		if !ok {
			return nil
		}
		if lit != "" {
			b.AddPattern([]byte(lit))
			maxLen = max(maxLen, len(lit))
		}
	}
	auto, err := b.Build()
	if err != nil {
		return nil
	}
	return &literalJump{auto: auto, text: s.source(), maxLen: maxLen}
}

// advance consumes the whole characters in front of the next terminator
// candidate, or the rest of the text when there is none, and returns them.
func (j *literalJump) advance(s *Scanner) string {
	target := len(j.text)
	if m := j.auto.Find(j.text, s.cur.Pos); m != nil {
		target = min(m.Start, max(s.cur.Pos, m.End-j.maxLen))
	}
	rest := s.Unscanned()
	limit, size, state := target-s.cur.Pos, 0, -1
	for rest != "" {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if size+len(cluster) > limit {
			break
		}
		size += len(cluster)
	}
	if size == 0 {
		return ""
	}
	text := s.Unscanned()[:size]
	s.UpdateMatch(text)
	return text
}
