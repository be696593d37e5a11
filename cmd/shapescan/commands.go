package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/shapestone/shape-scan/pkg/matcher"
	"github.com/shapestone/shape-scan/pkg/scan"
)

var (
	locationColor = color.New(color.FgCyan)
	matchColor    = color.New(color.FgGreen)
	partColor     = color.New(color.FgYellow)
)

// part is a named piece of a match, printed under it.
type part struct {
	name, value string
}

// scanFunc runs one scan at the cursor and returns the text to print.
type scanFunc func(s *scan.Scanner) (string, []part, bool)

// scanInput runs fn at the start of the input, or with all set at every
// position where it matches, and prints each match with its location.
func (c *Context) scanInput(all bool, fn scanFunc) error {
	text, err := c.ReadInput()
	if err != nil {
		return err
	}
	s := scan.New(text)
	s.SetInsensitive(c.Insensitive)

	matches := 0
	for {
		loc, before := s.Location(), s.Pos()
		out, parts, ok := fn(s)
		if ok {
			matches++
			c.printMatch(loc, out, parts)
		}
		if !all || s.EOS() {
			break
		}
		if !ok || s.Pos() == before {
			s.Grab(1)
		}
	}
	if matches == 0 {
		return ErrNoMatch
	}
	return nil
}

func (c *Context) printMatch(loc scan.Location, text string, parts []part) {
	fmt.Fprintf(c.Out, "%s\t%s\n", locationColor.Sprint(loc), matchColor.Sprintf("%q", text))
	for _, p := range parts {
		if p.value != "" {
			fmt.Fprintf(c.Out, "  %s %q\n", partColor.Sprintf("%-10s", p.name), p.value)
		}
	}
}

// DelimitedCmd scans delimited spans.
type DelimitedCmd struct {
	Start string `help:"Start delimiter (overrides the grammar file)"`
	End   string `help:"End delimiter (overrides the grammar file)"`
	Keep  bool   `help:"Include the delimiters in the output"`
	All   bool   `help:"Scan the whole input for spans" short:"a"`
}

// Run executes the delimited command
func (cmd *DelimitedCmd) Run(ctx *Context) error {
	g := ctx.Config.DelimitedGrammar()
	if cmd.Start != "" {
		g.Start = cmd.Start
	}
	if cmd.End != "" {
		g.End = cmd.End
	}
	if cmd.Keep {
		g.KeepDelimiters = scan.Ptr(true)
	}
	return ctx.scanInput(cmd.All, func(s *scan.Scanner) (string, []part, bool) {
		out, ok := s.ScanDelimited(g)
		return out, nil, ok
	})
}

// UntilCmd scans up to a terminator.
type UntilCmd struct {
	Patterns   []string `arg:"" optional:"" help:"Terminators (replace the grammar file's)"`
	Regex      bool     `help:"Treat terminators as regular expressions" short:"r"`
	Include    bool     `help:"Consume and print the terminator"`
	FailIfNone bool     `help:"Fail when no terminator is found"`
	All        bool     `help:"Split the whole input at terminators" short:"a"`
}

// Run executes the until command
func (cmd *UntilCmd) Run(ctx *Context) error {
	patterns, err := ctx.Config.UntilPatterns()
	if err != nil {
		return err
	}
	if len(cmd.Patterns) > 0 {
		patterns = patterns[:0]
		for _, p := range cmd.Patterns {
			if !cmd.Regex {
				patterns = append(patterns, scan.Literal(p))
				continue
			}
			re, err := scan.NewRegex(p)
			if err != nil {
				return err
			}
			patterns = append(patterns, re)
		}
	}
	if len(patterns) == 0 {
		return ErrNoTerminators
	}

	opts := ctx.Config.UntilOptions()
	opts.IncludePattern = opts.IncludePattern || cmd.Include
	opts.FailIfNone = opts.FailIfNone || cmd.FailIfNone

	return ctx.scanInput(cmd.All, func(s *scan.Scanner) (string, []part, bool) {
		out, ok := s.ScanUntil(patterns, opts)
		if ok && !opts.IncludePattern {
			// Step over the terminator so the next scan starts after it.
			s.Scan(patterns...)
		}
		return out, nil, ok
	})
}

// IntegerCmd scans integers.
type IntegerCmd struct {
	Parts bool `help:"Print the parts of each number and its value"`
	All   bool `help:"Scan the whole input for numbers" short:"a"`
}

// Run executes the integer command
func (cmd *IntegerCmd) Run(ctx *Context) error {
	g, err := ctx.Config.IntegerGrammar()
	if err != nil {
		return err
	}
	return ctx.scanInput(cmd.All, func(s *scan.Scanner) (string, []part, bool) {
		m, ok := s.ScanInteger(g)
		if !ok {
			return "", nil, false
		}
		if !cmd.Parts {
			return m.Source(), nil, true
		}
		parts := []part{
			{"sign", m.Sign},
			{"prefix", m.Prefix},
			{"leading", m.Leading},
			{"number", m.Number},
			{"postfix", m.Postfix},
		}
		if v, err := m.Value(); err == nil {
			parts = append(parts, part{"value", v.String()})
		}
		return m.Source(), parts, true
	})
}

// DecimalCmd scans decimal numbers.
type DecimalCmd struct {
	Parts bool `help:"Print the parts of each number and its value"`
	All   bool `help:"Scan the whole input for numbers" short:"a"`
}

// Run executes the decimal command
func (cmd *DecimalCmd) Run(ctx *Context) error {
	g, err := ctx.Config.DecimalGrammar()
	if err != nil {
		return err
	}
	return ctx.scanInput(cmd.All, func(s *scan.Scanner) (string, []part, bool) {
		m, ok := s.ScanDecimal(g)
		if !ok {
			return "", nil, false
		}
		if !cmd.Parts {
			return m.Source(), nil, true
		}
		parts := []part{
			{"sign", m.Sign},
			{"prefix", m.Prefix},
			{"leading", m.Leading},
			{"whole", m.Whole},
			{"radix", m.Radix},
			{"fractional", m.Fractional},
			{"trailing", m.Trailing},
			{"postfix", m.Postfix},
		}
		if v, err := m.Value(); err == nil {
			parts = append(parts, part{"value", v.String()})
		}
		return m.Source(), parts, true
	})
}

// BackscanCmd matches a pattern against the end of a text.
type BackscanCmd struct {
	Text    string `arg:"" help:"Text to search"`
	Pattern string `arg:"" help:"Pattern to find at the end of the text"`
	Regex   bool   `help:"Treat the pattern as a regular expression" short:"r"`
}

// Run executes the backscan command
func (cmd *BackscanCmd) Run(ctx *Context) error {
	var p scan.Pattern = scan.Literal(cmd.Pattern)
	if cmd.Regex {
		re, err := scan.NewRegex(cmd.Pattern)
		if err != nil {
			return err
		}
		p = re
	}
	res := scan.Backscan(cmd.Text, p)
	if !res.Found {
		return ErrNoMatch
	}
	fmt.Fprintf(ctx.Out, "%s\t%s\n", matchColor.Sprintf("%q", res.Match), partColor.Sprintf("%q", res.Rest))
	return nil
}

// TokensCmd tokenizes source code with the built-in source matchers.
type TokensCmd struct {
	Blocks bool `help:"Match balanced {...} blocks as single tokens"`
}

// Run executes the tokens command
func (cmd *TokensCmd) Run(ctx *Context) error {
	text, err := ctx.ReadInput()
	if err != nil {
		return err
	}
	tz := matcher.NewSourceTokenizer()
	if cmd.Blocks {
		tz = matcher.NewBlockTokenizer()
	}
	tz.Initialize(text)

	count := 0
	for {
		token, ok := tz.NextToken()
		if !ok {
			break
		}
		if token.Kind() == matcher.KindWhitespace {
			continue
		}
		count++
		fmt.Fprintf(ctx.Out, "%s\t%-10s %q\n", locationColor.Sprint(token.Row()), token.Kind(), token.ValueString())
	}
	if count == 0 {
		return ErrNoMatch
	}
	return nil
}
