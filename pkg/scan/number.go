package scan

import (
	"fmt"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

var (
	defaultSign   = MustRegex(`[+-]?`)
	defaultDigits = MustRegex(`[0-9]`)
)

// IntegerGrammar configures ScanInteger. A nil pattern is skipped. A Literal
// Digits pattern is a set of single characters, so Literal("01") accepts binary
// digits.
type IntegerGrammar struct {
	Sign      Pattern
	Prefix    Pattern
	Leading   Pattern
	Digits    Pattern
	Separator Pattern
	Postfix   Pattern

	// RemoveSeparators drops separators from the returned number. The cursor
	// always consumes them.
	RemoveSeparators bool
}

// DefaultInteger returns the default integer grammar: an optional + or -
// sign, leading zeros, decimal digits and "," as the separator, which is
// removed from the number.
func DefaultInteger() IntegerGrammar {
	return IntegerGrammar{
		Sign:             defaultSign,
		Leading:          Literal("0"),
		Digits:           defaultDigits,
		Separator:        Literal(","),
		RemoveSeparators: true,
	}
}

// DecimalGrammar configures ScanDecimal. It extends IntegerGrammar with a radix
// point and trailing text after the fractional digits.
type DecimalGrammar struct {
	IntegerGrammar

	Radix    Pattern
	Trailing Pattern
}

// DefaultDecimal returns DefaultInteger with "." as the radix point and
// trailing zeros.
func DefaultDecimal() DecimalGrammar {
	return DecimalGrammar{
		IntegerGrammar: DefaultInteger(),
		Radix:          Literal("."),
		Trailing:       Literal("0"),
	}
}

// IntegerMatch is an integer split into its parts. A part that did not match
// is empty.
type IntegerMatch struct {
	Sign    string
	Prefix  string
	Leading string
	Number  string
	Postfix string

	source string
}

// String returns the parts joined back together.
func (m IntegerMatch) String() string {
	return m.Sign + m.Prefix + m.Leading + m.Number + m.Postfix
}

// Source returns the text the match covers in the scanned text, separators
// included.
func (m IntegerMatch) Source() string { return m.source }

// Value converts the number to a decimal. A "-" sign negates it.
func (m IntegerMatch) Value() (decimal.Decimal, error) {
	return toDecimal(m.Sign, m.Number)
}

// DecimalMatch is a decimal number split into its parts. A part that did not
// match is empty.
type DecimalMatch struct {
	Sign       string
	Prefix     string
	Leading    string
	Whole      string
	Radix      string
	Fractional string
	Trailing   string
	Postfix    string

	source string
}

// Number returns the whole part, radix point and fractional part.
func (m DecimalMatch) Number() string { return m.Whole + m.Radix + m.Fractional }

// String returns the parts joined back together.
func (m DecimalMatch) String() string {
	return m.Sign + m.Prefix + m.Leading + m.Number() + m.Trailing + m.Postfix
}

// Source returns the text the match covers in the scanned text, separators
// included.
func (m DecimalMatch) Source() string { return m.source }

// Value converts the number to a decimal. The radix point is read as "." and
// a "-" sign negates the value.
func (m DecimalMatch) Value() (decimal.Decimal, error) {
	number := m.Whole
	if number == "" {
		number = "0"
	}
	if m.Fractional != "" {
		number += "." + m.Fractional
	}
	return toDecimal(m.Sign, number)
}

func toDecimal(sign, number string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(number)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNotNumber, number)
	}
	if sign == "-" {
		v = v.Neg()
	}
	return v, nil
}

// CheckInteger matches an integer at the cursor without moving it.
func (s *Scanner) CheckInteger(g IntegerGrammar) (IntegerMatch, bool) {
	p, ok := s.number(g, nil)
	if !ok {
		return IntegerMatch{}, false
	}
	return p.integer(), true
}

// ScanInteger matches an integer at the cursor and consumes it.
//
// After the sign and prefix, Leading is matched repeatedly (a regex Leading is
// matched once), then digits and separators alternate until neither matches.
// When the leading text swallowed every digit, as "000" does with the default
// grammar, digits are moved back from its end into Number. The scan fails if
// no digit is found.
func (s *Scanner) ScanInteger(g IntegerGrammar) (IntegerMatch, bool) {
	p, ok := s.number(g, nil)
	if !ok {
		return IntegerMatch{}, false
	}
	s.UpdateMatch(p.source)
	return p.integer(), true
}

// CheckDecimal matches a decimal number at the cursor without moving it.
func (s *Scanner) CheckDecimal(g DecimalGrammar) (DecimalMatch, bool) {
	p, ok := s.number(g.IntegerGrammar, &g)
	if !ok {
		return DecimalMatch{}, false
	}
	return p.decimal(), true
}

// ScanDecimal matches a decimal number at the cursor and consumes it.
//
// It scans like ScanInteger, with the first radix point switching from the
// whole part to the fractional part. If the whole part is empty, digits are
// moved into it from the end of the leading text, keeping one leading
// character when there are several. Trailing text at the end of the fractional
// part is moved into Trailing, keeping at least one fractional digit, and any
// further Trailing text after the cursor is consumed.
func (s *Scanner) ScanDecimal(g DecimalGrammar) (DecimalMatch, bool) {
	p, ok := s.number(g.IntegerGrammar, &g)
	if !ok {
		return DecimalMatch{}, false
	}
	s.UpdateMatch(p.source)
	return p.decimal(), true
}

type numberParts struct {
	sign, prefix, leading string
	whole, radix, frac    string
	trailing, postfix     string
	source                string
}

func (p numberParts) integer() IntegerMatch {
	return IntegerMatch{
		Sign:    p.sign,
		Prefix:  p.prefix,
		Leading: p.leading,
		Number:  p.whole,
		Postfix: p.postfix,
		source:  p.source,
	}
}

func (p numberParts) decimal() DecimalMatch {
	return DecimalMatch{
		Sign:       p.sign,
		Prefix:     p.prefix,
		Leading:    p.leading,
		Whole:      p.whole,
		Radix:      p.radix,
		Fractional: p.frac,
		Trailing:   p.trailing,
		Postfix:    p.postfix,
		source:     p.source,
	}
}

// number runs the shared integer/decimal scan on a duplicate. dec is nil for
// integers.
func (s *Scanner) number(g IntegerGrammar, dec *DecimalGrammar) (numberParts, bool) {
	d := s.Duplicate()
	digits := charClass(g.Digits)

	var p numberParts
	p.sign, _ = d.Scan(g.Sign)
	p.prefix, _ = d.Scan(g.Prefix)
	p.leading = scanRepeated(d, g.Leading)

	found, pastRadix := false, false
	for !d.EOS() {
		if m, ok := d.Scan(digits...); ok && m != "" {
			found = true
			if pastRadix {
				p.frac += m
			} else {
				p.whole += m
			}
			continue
		}
		if m, ok := d.Scan(g.Separator); ok && m != "" {
			if !g.RemoveSeparators {
				if pastRadix {
					p.frac += m
				} else {
					p.whole += m
				}
			}
			continue
		}
		if dec != nil && !pastRadix {
			if m, ok := d.Scan(dec.Radix); ok && m != "" {
				p.radix, pastRadix = m, true
				continue
			}
		}
		break
	}

	if dec == nil {
		if !found {
			found = p.reclaimLeading(digits, 0)
		}
	} else {
		if p.whole == "" && p.reclaimLeading(digits, 1) {
			found = true
		}
		p.reclaimTrailing(d, dec.Trailing)
	}
	if !found {
		return numberParts{}, false
	}

	p.postfix, _ = d.Scan(g.Postfix)
	p.source = s.text[s.cur.Pos:d.cur.Pos]
	return p, true
}

// reclaimLeading moves digits from the end of the leading text to the front
// of the whole part, one at a time, until keep characters are left. The first
// digit is always taken. It reports whether any digit moved.
func (p *numberParts) reclaimLeading(digits []Pattern, keep int) bool {
	moved := false
	for p.leading != "" && (!moved || utf8.RuneCountInString(p.leading) > keep) {
		tail := backscanAny(p.leading, digits)
		if !tail.Found {
			break
		}
		p.leading = tail.Rest
		p.whole = tail.Match + p.whole
		moved = true
	}
	return moved
}

// reclaimTrailing moves trailing text off the end of the fractional part,
// leaving at least one character, then consumes any further trailing text at
// the cursor.
func (p *numberParts) reclaimTrailing(d *Scanner, trailing Pattern) {
	if trailing == nil {
		return
	}
	for utf8.RuneCountInString(p.frac) > 1 {
		tail := Backscan(p.frac, trailing)
		if !tail.Found {
			break
		}
		p.frac = tail.Rest
		p.trailing = tail.Match + p.trailing
	}
	p.trailing += scanRepeated(d, trailing)
}

// scanRepeated consumes p as many times as it matches when p is a Literal,
// and once when it is a regular expression.
func scanRepeated(d *Scanner, p Pattern) string {
	if p == nil {
		return ""
	}
	if _, ok := p.(Literal); !ok {
		m, _ := d.Scan(p)
		return m
	}
	var out string
	for {
		m, ok := d.Scan(p)
		if !ok || m == "" {
			return out
		}
		out += m
	}
}

// charClass expands a Literal into one pattern per character.
func charClass(p Pattern) []Pattern {
	lit, ok := p.(Literal)
	if !ok {
		return []Pattern{p}
	}
	out := make([]Pattern, 0, len(lit))
	for _, r := range string(lit) {
		out = append(out, Literal(string(r)))
	}
	return out
}
