package matcher

import (
	"github.com/shapestone/shape-core/pkg/tokenizer"
	"github.com/shapestone/shape-scan/pkg/scan"
)

var (
	whitespacePattern = scan.MustRegex(`\s+`)
	identPattern      = scan.MustRegex(`[A-Za-z_][A-Za-z0-9_]*`)
	punctPattern      = scan.MustRegex(`[-+*/%=<>!&|^~?:;,.()\[\]{}@#$]`)
	lineEnd           = []scan.Pattern{scan.Literal("\n")}
)

// NewSourceTokenizer creates a tokenizer for C-like source text.
//
// Ordering is critical:
// 1. Whitespace
// 2. Comments (before the / operator)
// 3. Strings
// 4. Numbers (before the . operator)
// 5. Identifiers
// 6. Two-character operators, then single punctuation
// 7. Any other character
func NewSourceTokenizer() tokenizer.Tokenizer {
	return tokenizer.NewTokenizerWithoutWhitespace(SourceMatchers()...)
}

// NewBlockTokenizer is NewSourceTokenizer with balanced {...} blocks matched
// as single Block tokens.
func NewBlockTokenizer() tokenizer.Tokenizer {
	matchers := append([]tokenizer.Matcher{Whitespace(), BlockMatcher()}, SourceMatchers()[1:]...)
	return tokenizer.NewTokenizerWithoutWhitespace(matchers...)
}

// SourceMatchers returns the matchers used by NewSourceTokenizer, in order.
func SourceMatchers() []tokenizer.Matcher {
	return []tokenizer.Matcher{
		Whitespace(),

		LineComment("//"),
		Delimited(KindComment, scan.Grammar{Start: "/*", End: "*/", Escape: scan.Ptr("")}),

		Delimited(KindString, scan.Grammar{}),
		Delimited(KindString, scan.Grammar{Start: "'", End: "'"}),

		Decimal(KindNumber, SourceNumber()),

		Pattern(KindIdent, identPattern),

		tokenizer.StringMatcherFunc(KindOperator, "=="),
		tokenizer.StringMatcherFunc(KindOperator, "!="),
		tokenizer.StringMatcherFunc(KindOperator, "<="),
		tokenizer.StringMatcherFunc(KindOperator, ">="),
		tokenizer.StringMatcherFunc(KindOperator, "&&"),
		tokenizer.StringMatcherFunc(KindOperator, "||"),
		Pattern(KindOperator, punctPattern),

		AnyChar(KindText),
	}
}

// SourceNumber is the decimal grammar for numbers in source text: no sign
// (a leading - is an operator) and _ as the digit separator.
func SourceNumber() scan.DecimalGrammar {
	g := scan.DefaultDecimal()
	g.Sign = nil
	g.Separator = scan.Literal("_")
	return g
}

// Whitespace matches a run of whitespace.
func Whitespace() tokenizer.Matcher {
	return Pattern(KindWhitespace, whitespacePattern)
}

// LineComment matches prefix and the rest of its line, excluding the newline.
func LineComment(prefix string) tokenizer.Matcher {
	return New(KindComment, func(s *scan.Scanner) bool {
		if _, ok := s.ScanLiteral(prefix); !ok {
			return false
		}
		s.ScanUntil(lineEnd, scan.UntilOptions{})
		return true
	})
}

// BlockMatcher matches a balanced {...} block. Braces inside strings do not
// count.
func BlockMatcher() tokenizer.Matcher {
	return Delimited(KindBlock, scan.Grammar{
		Start:          "{",
		End:            "}",
		Escape:         scan.Ptr(""),
		KeepDelimiters: scan.Ptr(true),
		Inner: []scan.Grammar{
			{Start: `"`, End: `"`, Escape: scan.Ptr(`\`), Inner: []scan.Grammar{}},
			{Start: "'", End: "'", Escape: scan.Ptr(`\`), Inner: []scan.Grammar{}},
		},
		AutoNest: &scan.Grammar{},
	})
}

// AnyChar matches any single character.
func AnyChar(kind string) tokenizer.Matcher {
	return New(kind, func(s *scan.Scanner) bool {
		return s.Grab(1) != ""
	})
}
