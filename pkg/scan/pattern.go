package scan

import (
	"fmt"
	"regexp/syntax"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/coregx/coregex"
	"golang.org/x/text/cases"
)

// Pattern is something a Scanner can match at its cursor: a Literal or a *Regex.
type Pattern interface {
	// String returns the literal text or the regular expression source.
	String() string

	check(s *Scanner) (string, bool)
	matchTail(slice string, whole bool) bool
}

// Literal matches its text exactly, or ignoring case when the scanner is
// insensitive. The empty literal never matches.
type Literal string

func (l Literal) String() string { return string(l) }

func (l Literal) check(s *Scanner) (string, bool) { return s.CheckLiteral(string(l)) }

func (l Literal) matchTail(slice string, _ bool) bool { return l != "" && slice == string(l) }

// Regex is a regular expression anchored at the scanner's cursor.
type Regex struct {
	expr     string
	anchored *coregex.Regex

	foldOnce sync.Once
	folded   *coregex.Regex
}

// NewRegex compiles expr for use as a Pattern. The expression is anchored at
// the cursor; a leading ^ is allowed but not required. Expressions that can
// only match the empty string are rejected with ErrEmptyPattern.
func NewRegex(expr string) (*Regex, error) {
	parsed, err := syntax.Parse(expr, syntax.Perl)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}
	if onlyEmpty(parsed.Simplify()) {
		return nil, fmt.Errorf("%w: %q", ErrEmptyPattern, expr)
	}
	re, err := compileAnchored(expr, false)
	if err != nil {
		return nil, err
	}
	return &Regex{expr: expr, anchored: re}, nil
}

// MustRegex is like NewRegex but panics if the expression is rejected.
func MustRegex(expr string) *Regex {
	re, err := NewRegex(expr)
	if err != nil {
		panic(err)
	}
	return re
}

func compileAnchored(expr string, fold bool) (*coregex.Regex, error) {
	src := "^(?:" + expr + ")"
	if fold {
		src = "(?i)" + src
	}
	re, err := coregex.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}
	re.Longest()
	return re, nil
}

// String returns the expression as given to NewRegex.
func (r *Regex) String() string { return r.expr }

func (r *Regex) check(s *Scanner) (string, bool) { return s.CheckRegex(r) }

// matchTail matches r at the start of slice. With whole set the match must
// cover all of slice.
func (r *Regex) matchTail(slice string, whole bool) bool {
	loc := r.anchored.FindStringIndex(slice)
	if loc == nil || loc[0] != 0 {
		return false
	}
	return !whole || loc[1] == len(slice)
}

// compiled returns the case-sensitive or case-insensitive form.
func (r *Regex) compiled(fold bool) *coregex.Regex {
	if !fold {
		return r.anchored
	}
	r.foldOnce.Do(func() {
		re, err := compileAnchored(r.expr, true)
		if err != nil {
			re = r.anchored
		}
		r.folded = re
	})
	return r.folded
}

// onlyEmpty reports whether re cannot match anything but the empty string.
func onlyEmpty(re *syntax.Regexp) bool {
	switch re.Op {
	case syntax.OpEmptyMatch, syntax.OpBeginLine, syntax.OpEndLine,
		syntax.OpBeginText, syntax.OpEndText, syntax.OpWordBoundary, syntax.OpNoWordBoundary:
		return true
	case syntax.OpLiteral:
		return len(re.Rune) == 0
	case syntax.OpCapture, syntax.OpStar, syntax.OpPlus, syntax.OpQuest, syntax.OpRepeat,
		syntax.OpConcat, syntax.OpAlternate:
		for _, sub := range re.Sub {
			if !onlyEmpty(sub) {
				return false
			}
		}
		return true
	}
	return false
}

// CheckLiteral reports whether the unscanned text starts with lit and returns
// the matching source text. The cursor does not move.
func (s *Scanner) CheckLiteral(lit string) (string, bool) {
	if lit == "" {
		return "", false
	}
	rest := s.Unscanned()
	if !s.insensitive {
		if strings.HasPrefix(rest, lit) {
			return lit, true
		}
		return "", false
	}
	n, ok := hasPrefixFold(rest, lit)
	if !ok {
		return "", false
	}
	return rest[:n], true
}

// ScanLiteral is CheckLiteral followed by consuming the match.
func (s *Scanner) ScanLiteral(lit string) (string, bool) {
	m, ok := s.CheckLiteral(lit)
	if ok {
		s.UpdateMatch(m)
	}
	return m, ok
}

// hasPrefixFold compares prefix against the start of text rune by rune under
// Unicode case folding and returns the number of bytes of text it covers.
// ASCII pairs are compared directly; the folding caser is only built for the
// first pair of differing non-ASCII runes.
func hasPrefixFold(text, prefix string) (int, bool) {
	var folder *cases.Caser
	i := 0
	for _, pr := range prefix {
		if i >= len(text) {
			return 0, false
		}
		tr, size := utf8.DecodeRuneInString(text[i:])
		i += size
		if tr == pr {
			continue
		}
		if tr < utf8.RuneSelf && pr < utf8.RuneSelf {
			if asciiLower(tr) != asciiLower(pr) {
				return 0, false
			}
			continue
		}
		if folder == nil {
			c := cases.Fold()
			folder = &c
		}
		if folder.String(string(tr)) != folder.String(string(pr)) {
			return 0, false
		}
	}
	return i, true
}

func asciiLower(r rune) rune {
	if 'A' <= r && r <= 'Z' {
		return r + 'a' - 'A'
	}
	return r
}

// CheckRegex matches re at the cursor without moving it.
func (s *Scanner) CheckRegex(re *Regex) (string, bool) {
	if re == nil {
		return "", false
	}
	loc := re.compiled(s.insensitive).FindIndex(s.source()[s.cur.Pos:])
	if loc == nil || loc[0] != 0 {
		return "", false
	}
	return s.text[s.cur.Pos : s.cur.Pos+loc[1]], true
}

// ScanRegex is CheckRegex followed by consuming the match. An empty match is
// reported but leaves the scanner untouched.
func (s *Scanner) ScanRegex(re *Regex) (string, bool) {
	m, ok := s.CheckRegex(re)
	if ok && m != "" {
		s.UpdateMatch(m)
	}
	return m, ok
}

// Check tries each pattern in order and returns the first match. Order
// matters: the first pattern that matches wins even if a later one would
// match more text. Nil patterns are skipped.
func (s *Scanner) Check(patterns ...Pattern) (string, bool) {
	for _, p := range patterns {
		if p == nil {
			continue
		}
		if m, ok := p.check(s); ok {
			return m, true
		}
	}
	return "", false
}

// Scan is Check followed by consuming the match. An empty match is reported
// but leaves the scanner untouched.
func (s *Scanner) Scan(patterns ...Pattern) (string, bool) {
	m, ok := s.Check(patterns...)
	if ok && m != "" {
		s.UpdateMatch(m)
	}
	return m, ok
}

// Skip moves past the first matching pattern without recording a match and
// returns the number of bytes skipped.
func (s *Scanner) Skip(patterns ...Pattern) int {
	m, ok := s.Check(patterns...)
	if !ok {
		return 0
	}
	s.Move(len(m))
	return len(m)
}
