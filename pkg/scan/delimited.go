package scan

import "strings"

// Grammar describes a delimited span such as a quoted string or a bracketed
// block.
//
// Optional fields are pointers so an inner grammar can tell "unset" from an
// explicit value. Defaults for a top-level grammar, and what an unset field of
// an inner grammar takes instead:
//
//	field           top level   inner grammar
//	Start, End      `"`         required
//	Escape          `\`         enclosing grammar's escape
//	KeepDelimiters  false       true
//	NoEndFail       true        enclosing grammar's value
//	Inner           none        enclosing grammar's inner grammars
//	AutoNest        none        enclosing grammar's auto-nest
//
// An empty Escape disables escaping. A Grammar is never modified by scanning
// and may be reused across scans and scanners.
type Grammar struct {
	Start string
	End   string

	Escape         *string
	KeepDelimiters *bool
	NoEndFail      *bool

	// Inner lists nested spans, tried in order at every character.
	Inner []Grammar

	// AutoNest, when set, nests a copy of the enclosing grammar inside itself.
	// Its empty Start and End take the enclosing grammar's delimiters and its
	// other unset fields are inherited, so AutoNest: &Grammar{} on a grammar
	// delimited by { and } matches balanced brace blocks.
	AutoNest *Grammar
}

// Ptr returns a pointer to v, for filling in optional Grammar fields.
func Ptr[T any](v T) *T { return &v }

// delimiters is a Grammar with every field resolved for one scan.
type delimiters struct {
	start, end string
	escape     string
	keep       bool
	noEndFail  bool
	inner      []Grammar
	autoNest   *Grammar
}

func (g Grammar) resolve() delimiters {
	r := delimiters{
		start:     g.Start,
		end:       g.End,
		escape:    `\`,
		noEndFail: true,
		inner:     g.Inner,
		autoNest:  g.AutoNest,
	}
	if r.start == "" {
		r.start = `"`
	}
	if r.end == "" {
		r.end = `"`
	}
	if g.Escape != nil {
		r.escape = *g.Escape
	}
	if g.KeepDelimiters != nil {
		r.keep = *g.KeepDelimiters
	}
	if g.NoEndFail != nil {
		r.noEndFail = *g.NoEndFail
	}
	return r
}

// resolveIn resolves g as a grammar nested inside parent.
func (g Grammar) resolveIn(parent delimiters) delimiters {
	r := delimiters{
		start:     g.Start,
		end:       g.End,
		escape:    parent.escape,
		keep:      true,
		noEndFail: parent.noEndFail,
		inner:     parent.inner,
		autoNest:  parent.autoNest,
	}
	if g.Escape != nil {
		r.escape = *g.Escape
	}
	if g.KeepDelimiters != nil {
		r.keep = *g.KeepDelimiters
	}
	if g.NoEndFail != nil {
		r.noEndFail = *g.NoEndFail
	}
	if g.Inner != nil {
		r.inner = g.Inner
	}
	if g.AutoNest != nil {
		r.autoNest = g.AutoNest
	}
	return r
}

// candidates returns the inner grammars to try, with the auto-nest grammar
// materialized last.
func (r delimiters) candidates() []Grammar {
	if r.autoNest == nil {
		return r.inner
	}
	nested := *r.autoNest
	if nested.Start == "" {
		nested.Start = r.start
	}
	if nested.End == "" {
		nested.End = r.end
	}
	if nested.KeepDelimiters == nil {
		nested.KeepDelimiters = Ptr(r.keep)
	}
	if nested.AutoNest == nil {
		nested.AutoNest = r.autoNest
	}
	out := make([]Grammar, 0, len(r.inner)+1)
	out = append(out, r.inner...)
	return append(out, nested)
}

// ScanDelimited scans a span that opens with g.Start and closes with g.End.
//
// Inside the span an escape consumes the following character verbatim, and
// the start of an inner grammar begins a nested span, scanned recursively.
// A nested span that fails fails the whole scan. With KeepDelimiters the
// result includes the delimiters; escapes are dropped either way.
//
// Reaching the end of the text before g.End fails unless NoEndFail is false,
// in which case everything up to the end of the text is returned.
func (s *Scanner) ScanDelimited(g Grammar) (string, bool) {
	return s.scanDelimited(g.resolve())
}

func (s *Scanner) scanDelimited(r delimiters) (string, bool) {
	d := s.Duplicate()
	open, ok := d.ScanLiteral(r.start)
	if !ok {
		return "", false
	}
	inner := r.candidates()

	var (
		buf     strings.Builder
		closing string
		closed  bool
		escaped bool
	)
	for !d.EOS() && !closed {
		if escaped {
			buf.WriteString(d.Grab(1))
			escaped = false
			continue
		}
		if closing, closed = d.ScanLiteral(r.end); closed {
			break
		}
		if _, ok := d.ScanLiteral(r.escape); ok {
			escaped = true
			continue
		}
		if i := d.innerStart(inner); i >= 0 {
			nested := inner[i].resolveIn(r)
			text, ok := d.scanDelimited(nested)
			if !ok {
				return "", false
			}
			// A nested span may have consumed text ending in our own closing
			// delimiter.
			if nested.end != r.end && !r.keep {
				if tail := Backscan(text, Literal(r.end)); tail.Found {
					text = tail.Rest
				}
			}
			buf.WriteString(text)
			continue
		}
		buf.WriteString(d.Grab(1))
	}
	if !closed && r.noEndFail {
		return "", false
	}

	match := buf.String()
	full := open + match + closing
	s.LoadState(State{Pos: d.cur.Pos, LastPos: s.cur.Pos, LastMatch: full, Matched: true})
	if r.keep {
		return full, true
	}
	return match, true
}

// innerStart returns the index of the first grammar whose start matches at
// the cursor, or -1.
func (s *Scanner) innerStart(grammars []Grammar) int {
	for i, g := range grammars {
		if _, ok := s.CheckLiteral(g.Start); ok {
			return i
		}
	}
	return -1
}
