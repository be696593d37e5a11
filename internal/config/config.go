// Package config loads scanning grammars from YAML files.
//
// A grammar file configures any of the scan operations the CLI can run:
//
//	insensitive: false
//	delimited:
//	  start: "{"
//	  end: "}"
//	  escape: ""          # empty disables escaping
//	  keep_delimiters: true
//	  inner:
//	    - start: '"'
//	      end: '"'
//	  auto_nest: {}
//	until:
//	  patterns: [";", {regex: '\n'}]
//	  include_pattern: true
//	decimal:
//	  separator: "_"
//	  radix: ","
//
// A pattern is either a plain string (a literal) or a mapping with a literal
// or regex key. In the numeric sections an omitted pattern keeps its default
// and an empty string disables it.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/shapestone/shape-scan/pkg/scan"
)

var (
	// ErrInvalidConfig is returned when a grammar file is well-formed YAML but
	// describes an unusable grammar.
	ErrInvalidConfig = errors.New("invalid grammar configuration")

	// ErrUnknownPattern is returned for a pattern that is neither a string nor
	// a literal/regex mapping.
	ErrUnknownPattern = errors.New("unknown pattern form")
)

// Config is the content of a grammar file.
type Config struct {
	Insensitive bool         `yaml:"insensitive"`
	Delimited   *GrammarSpec `yaml:"delimited"`
	Until       *UntilSpec   `yaml:"until"`
	Integer     *NumberSpec  `yaml:"integer"`
	Decimal     *NumberSpec  `yaml:"decimal"`
}

// Load reads and validates a grammar file. A missing file yields an empty
// Config, which selects every operation's defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read grammar file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates grammar YAML. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("failed to parse grammar file: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Delimited != nil {
		for i, inner := range c.Delimited.Inner {
			if err := inner.validateInner(fmt.Sprintf("delimited.inner[%d]", i)); err != nil {
				return err
			}
		}
	}
	if _, err := c.UntilPatterns(); err != nil {
		return err
	}
	if _, err := c.IntegerGrammar(); err != nil {
		return err
	}
	if _, err := c.DecimalGrammar(); err != nil {
		return err
	}
	return nil
}

// LoadEnvFiles loads .env from the working directory if it exists.
func LoadEnvFiles() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	if err := godotenv.Load(".env"); err != nil {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	return nil
}

// PatternSpec is a pattern as written in a grammar file.
type PatternSpec struct {
	Literal string `yaml:"literal"`
	Regex   string `yaml:"regex"`
}

// UnmarshalYAML accepts a plain scalar or a literal/regex mapping.
func (p *PatternSpec) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return fmt.Errorf("%w: %w", ErrUnknownPattern, err)
	}
	switch v := raw.(type) {
	case string:
		*p = PatternSpec{Literal: v}
		return nil
	case int, int64, uint64, float64, bool:
		*p = PatternSpec{Literal: fmt.Sprint(v)}
		return nil
	case map[string]any:
		return p.fromMapping(v)
	}
	return fmt.Errorf("%w: %T", ErrUnknownPattern, raw)
}

func (p *PatternSpec) fromMapping(m map[string]any) error {
	if len(m) != 1 {
		return fmt.Errorf("%w: pattern needs exactly one of literal or regex", ErrUnknownPattern)
	}
	for key, value := range m {
		text, ok := value.(string)
		if !ok {
			text = fmt.Sprint(value)
		}
		switch key {
		case "literal":
			*p = PatternSpec{Literal: text}
		case "regex":
			*p = PatternSpec{Regex: text}
		default:
			return fmt.Errorf("%w: unknown key %q", ErrUnknownPattern, key)
		}
	}
	return nil
}

// Pattern compiles p. An empty literal yields nil.
func (p PatternSpec) Pattern() (scan.Pattern, error) {
	if p.Regex != "" {
		re, err := scan.NewRegex(p.Regex)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		return re, nil
	}
	if p.Literal == "" {
		return nil, nil
	}
	return scan.Literal(p.Literal), nil
}

// GrammarSpec is a delimited-span grammar as written in a grammar file.
type GrammarSpec struct {
	Start          string        `yaml:"start"`
	End            string        `yaml:"end"`
	Escape         *string       `yaml:"escape"`
	KeepDelimiters *bool         `yaml:"keep_delimiters"`
	NoEndFail      *bool         `yaml:"no_end_fail"`
	Inner          []GrammarSpec `yaml:"inner"`
	AutoNest       *GrammarSpec  `yaml:"auto_nest"`
}

func (g GrammarSpec) validateInner(path string) error {
	if g.Start == "" || g.End == "" {
		return fmt.Errorf("%w: %s: inner grammars need start and end", ErrInvalidConfig, path)
	}
	for i, inner := range g.Inner {
		if err := inner.validateInner(fmt.Sprintf("%s.inner[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

// Grammar converts g to a scan.Grammar.
func (g GrammarSpec) Grammar() scan.Grammar {
	out := scan.Grammar{
		Start:          g.Start,
		End:            g.End,
		Escape:         g.Escape,
		KeepDelimiters: g.KeepDelimiters,
		NoEndFail:      g.NoEndFail,
	}
	if g.Inner != nil {
		out.Inner = make([]scan.Grammar, len(g.Inner))
		for i, inner := range g.Inner {
			out.Inner[i] = inner.Grammar()
		}
	}
	if g.AutoNest != nil {
		nested := g.AutoNest.Grammar()
		out.AutoNest = &nested
	}
	return out
}

// DelimitedGrammar returns the configured delimited grammar, or the defaults.
func (c *Config) DelimitedGrammar() scan.Grammar {
	if c.Delimited == nil {
		return scan.Grammar{}
	}
	return c.Delimited.Grammar()
}

// UntilSpec configures ScanUntil.
type UntilSpec struct {
	Patterns       []PatternSpec `yaml:"patterns"`
	IncludePattern bool          `yaml:"include_pattern"`
	FailIfNone     bool          `yaml:"fail_if_none"`
}

// UntilPatterns returns the configured terminators, or nil.
func (c *Config) UntilPatterns() ([]scan.Pattern, error) {
	if c.Until == nil {
		return nil, nil
	}
	out := make([]scan.Pattern, 0, len(c.Until.Patterns))
	for i, spec := range c.Until.Patterns {
		p, err := spec.Pattern()
		if err != nil {
			return nil, fmt.Errorf("until.patterns[%d]: %w", i, err)
		}
		if p != nil {
			out = append(out, p)
		}
	}
	return out, nil
}

// UntilOptions returns the configured scan-until options.
func (c *Config) UntilOptions() scan.UntilOptions {
	if c.Until == nil {
		return scan.UntilOptions{}
	}
	return scan.UntilOptions{IncludePattern: c.Until.IncludePattern, FailIfNone: c.Until.FailIfNone}
}

// NumberSpec overrides parts of the default integer or decimal grammar.
type NumberSpec struct {
	Sign             *PatternSpec `yaml:"sign"`
	Prefix           *PatternSpec `yaml:"prefix"`
	Leading          *PatternSpec `yaml:"leading"`
	Digits           *PatternSpec `yaml:"digits"`
	Separator        *PatternSpec `yaml:"separator"`
	Postfix          *PatternSpec `yaml:"postfix"`
	RemoveSeparators *bool        `yaml:"remove_separators"`

	// Decimal only.
	Radix    *PatternSpec `yaml:"radix"`
	Trailing *PatternSpec `yaml:"trailing"`
}

// override replaces *dst with the compiled pattern when one is given.
func override(dst *scan.Pattern, spec *PatternSpec, name string) error {
	if spec == nil {
		return nil
	}
	p, err := spec.Pattern()
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = p
	return nil
}

func (n *NumberSpec) apply(g *scan.IntegerGrammar, section string) error {
	if n == nil {
		return nil
	}
	fields := []struct {
		dst  *scan.Pattern
		spec *PatternSpec
		name string
	}{
		{&g.Sign, n.Sign, "sign"},
		{&g.Prefix, n.Prefix, "prefix"},
		{&g.Leading, n.Leading, "leading"},
		{&g.Digits, n.Digits, "digits"},
		{&g.Separator, n.Separator, "separator"},
		{&g.Postfix, n.Postfix, "postfix"},
	}
	for _, f := range fields {
		if err := override(f.dst, f.spec, section+"."+f.name); err != nil {
			return err
		}
	}
	if g.Digits == nil {
		return fmt.Errorf("%w: %s.digits must not be empty", ErrInvalidConfig, section)
	}
	if n.RemoveSeparators != nil {
		g.RemoveSeparators = *n.RemoveSeparators
	}
	return nil
}

// IntegerGrammar returns scan.DefaultInteger with the file's overrides.
func (c *Config) IntegerGrammar() (scan.IntegerGrammar, error) {
	g := scan.DefaultInteger()
	if err := c.Integer.apply(&g, "integer"); err != nil {
		return scan.IntegerGrammar{}, err
	}
	return g, nil
}

// DecimalGrammar returns scan.DefaultDecimal with the file's overrides.
func (c *Config) DecimalGrammar() (scan.DecimalGrammar, error) {
	g := scan.DefaultDecimal()
	if c.Decimal == nil {
		return g, nil
	}
	if err := c.Decimal.apply(&g.IntegerGrammar, "decimal"); err != nil {
		return scan.DecimalGrammar{}, err
	}
	if err := override(&g.Radix, c.Decimal.Radix, "decimal.radix"); err != nil {
		return scan.DecimalGrammar{}, err
	}
	if err := override(&g.Trailing, c.Decimal.Trailing, "decimal.trailing"); err != nil {
		return scan.DecimalGrammar{}, err
	}
	return g, nil
}
