// Package matcher exposes scan operations as shape-core tokenizer matchers.
//
// Each matcher runs a scan.Scanner over the stream's remaining input. When the
// scan succeeds, the stream is advanced past exactly the text the scanner
// consumed and a token of the given kind is returned whose value is that
// source text, delimiters and escapes included. When the scan fails the
// matcher returns nil and the stream is left for the next matcher.
//
// Streams that implement tokenizer.ByteStream, as those built by
// tokenizer.NewStream do, are scanned in place. Other streams, such as
// tokenizer.NewStreamFromReader, are read a character at a time into the
// scanner, at most RuneWindow characters ahead.
//
// # Example usage:
//
//	tok := tokenizer.NewTokenizerWithoutWhitespace(
//	    matcher.Whitespace(),
//	    matcher.Delimited("String", scan.Grammar{}),
//	    matcher.Decimal("Number", scan.DefaultDecimal()),
//	)
//	tok.Initialize(`"total" 12.50`)
package matcher

import (
	"strings"

	"github.com/shapestone/shape-core/pkg/tokenizer"
	"github.com/shapestone/shape-scan/pkg/scan"
)

// Op is a scan run against the stream's remaining input. It reports whether
// it matched; the scanner's position says how much it consumed.
type Op func(s *scan.Scanner) bool

// RuneWindow is the most characters a matcher reads ahead on a stream that is
// not a tokenizer.ByteStream. It stays inside the backtracking window of
// buffered reader streams.
const RuneWindow = 8 * 1024

// New returns a matcher that emits a token of the given kind when op matches
// and consumes at least one byte.
func New(kind string, op Op) tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		// Try ByteStream fast path
		if byteStream, ok := stream.(tokenizer.ByteStream); ok {
			return matchBytes(byteStream, kind, op)
		}

		// Fallback to rune-based matching for other streams
		return matchRunes(stream, kind, op)
	}
}

// matchBytes scans the stream's remaining bytes in place.
func matchBytes(stream tokenizer.ByteStream, kind string, op Op) *tokenizer.Token {
	s := scan.New(string(stream.RemainingBytes()))
	if !op(s) || s.Pos() == 0 {
		return nil
	}
	text := s.Scanned()
	for i := 0; i < len(text); i++ {
		if _, ok := stream.NextByte(); !ok {
			return nil
		}
	}
	return tokenizer.NewToken(kind, []rune(text))
}

// matchRunes reads up to RuneWindow characters from a clone of the stream,
// scans them, and advances the stream by the characters the scan consumed.
func matchRunes(stream tokenizer.Stream, kind string, op Op) *tokenizer.Token {
	ahead := stream.Clone()
	var buf strings.Builder
	for i := 0; i < RuneWindow; i++ {
		r, ok := ahead.NextChar()
		if !ok {
			break
		}
		buf.WriteRune(r)
	}

	s := scan.New(buf.String())
	if !op(s) || s.Pos() == 0 {
		return nil
	}
	value := []rune(s.Scanned())
	for range value {
		if _, ok := stream.NextChar(); !ok {
			return nil
		}
	}
	return tokenizer.NewToken(kind, value)
}

// Insensitive wraps op so it matches ignoring case.
func Insensitive(op Op) Op {
	return func(s *scan.Scanner) bool {
		s.SetInsensitive(true)
		return op(s)
	}
}

// Pattern matches the first of patterns that matches, in order.
func Pattern(kind string, patterns ...scan.Pattern) tokenizer.Matcher {
	return New(kind, func(s *scan.Scanner) bool {
		_, ok := s.Scan(patterns...)
		return ok
	})
}

// Delimited matches a span described by g.
func Delimited(kind string, g scan.Grammar) tokenizer.Matcher {
	return New(kind, func(s *scan.Scanner) bool {
		_, ok := s.ScanDelimited(g)
		return ok
	})
}

// Until matches everything up to one of patterns.
func Until(kind string, patterns []scan.Pattern, opts scan.UntilOptions) tokenizer.Matcher {
	return New(kind, func(s *scan.Scanner) bool {
		_, ok := s.ScanUntil(patterns, opts)
		return ok
	})
}

// Integer matches an integer described by g.
func Integer(kind string, g scan.IntegerGrammar) tokenizer.Matcher {
	return New(kind, func(s *scan.Scanner) bool {
		_, ok := s.ScanInteger(g)
		return ok
	})
}

// Decimal matches a decimal number described by g.
func Decimal(kind string, g scan.DecimalGrammar) tokenizer.Matcher {
	return New(kind, func(s *scan.Scanner) bool {
		_, ok := s.ScanDecimal(g)
		return ok
	})
}
