// Command shapescan runs the scan operations of shape-scan over a file or
// standard input.
//
// Grammars come from a YAML file (see internal/config) and can be overridden
// with flags:
//
//	shapescan delimited --start '{' --end '}' --all < input.txt
//	shapescan until ';' --include -i query.sql
//	shapescan decimal --parts <<< '-0,001.2500 USD'
//	shapescan backscan 'report.tar.gz' '.gz'
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/shapestone/shape-scan/internal/config"
)

var (
	// ErrNoMatch is returned when a scan matched nothing. The command exits
	// with status 1 without printing it.
	ErrNoMatch = errors.New("no match")

	// ErrNoTerminators is returned by until when neither the arguments nor the
	// grammar file name a terminator.
	ErrNoTerminators = errors.New("no terminators given: pass them as arguments or in the grammar file")
)

// Context carries the global options and loaded grammar to every command.
type Context struct {
	Config      *config.Config
	InputPath   string
	Insensitive bool
	Out         io.Writer
}

// CLI represents the command-line interface
var CLI struct {
	Config      string `help:"Grammar file path" default:"shapescan.yaml" env:"SHAPESCAN_CONFIG"`
	Input       string `help:"Input file (default: standard input)" short:"i" type:"existingfile"`
	Insensitive bool   `help:"Match ignoring case" short:"c"`
	NoColor     bool   `help:"Disable colored output" env:"NO_COLOR"`

	Delimited DelimitedCmd `cmd:"" help:"Scan a delimited span such as a quoted string"`
	Until     UntilCmd     `cmd:"" help:"Scan up to a terminator"`
	Integer   IntegerCmd   `cmd:"" help:"Scan an integer"`
	Decimal   DecimalCmd   `cmd:"" help:"Scan a decimal number"`
	Backscan  BackscanCmd  `cmd:"" help:"Match a pattern against the end of a text"`
	Tokens    TokensCmd    `cmd:"" help:"Tokenize source code"`
}

func main() {
	if err := config.LoadEnvFiles(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx := kong.Parse(&CLI,
		kong.Name("shapescan"),
		kong.Description("Run stateful lexical scans over text."),
		kong.UsageOnError(),
	)

	if CLI.NoColor {
		color.NoColor = true
	}

	appCtx, err := newContext()
	if err == nil {
		err = ctx.Run(appCtx)
	}
	if errors.Is(err, ErrNoMatch) {
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newContext() (*Context, error) {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return nil, err
	}

	return &Context{
		Config:      cfg,
		InputPath:   CLI.Input,
		Insensitive: CLI.Insensitive || cfg.Insensitive,
		Out:         color.Output,
	}, nil
}

// ReadInput returns the input file, or standard input when none was given.
func (c *Context) ReadInput() (string, error) {
	path := c.InputPath
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read standard input: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}
	return string(data), nil
}
