package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/fatih/color"
	"github.com/shapestone/shape-scan/internal/config"
)

func newTestContext(t *testing.T, input, grammar string) (*Context, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true

	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	assert.NoError(t, os.WriteFile(path, []byte(input), 0o600))

	cfg, err := config.Parse([]byte(grammar))
	assert.NoError(t, err)

	var out bytes.Buffer
	return &Context{Config: cfg, InputPath: path, Out: &out}, &out
}

// TestDelimitedCmd tests the delimited command
func TestDelimitedCmd(t *testing.T) {
	ctx, out := newTestContext(t, "say \"hi\"\nand \"bye\"", "{}")
	assert.NoError(t, (&DelimitedCmd{All: true}).Run(ctx))
	assert.Equal(t, "1:5\t\"hi\"\n2:5\t\"bye\"\n", out.String())
}

// TestDelimitedCmd_GrammarFileAndFlags tests grammar files and flag overrides
func TestDelimitedCmd_GrammarFileAndFlags(t *testing.T) {
	ctx, out := newTestContext(t, "<a <b> c>", "delimited:\n  start: '<'\n  end: '>'\n  auto_nest: {}\n")
	assert.NoError(t, (&DelimitedCmd{Keep: true}).Run(ctx))
	assert.Equal(t, "1:1\t\"<a <b> c>\"\n", out.String())

	ctx, out = newTestContext(t, "[x]", "{}")
	assert.NoError(t, (&DelimitedCmd{Start: "[", End: "]"}).Run(ctx))
	assert.Equal(t, "1:1\t\"x\"\n", out.String())
}

// TestDelimitedCmd_NoMatch tests the no-match result
func TestDelimitedCmd_NoMatch(t *testing.T) {
	ctx, _ := newTestContext(t, "plain", "{}")
	assert.IsError(t, (&DelimitedCmd{}).Run(ctx), ErrNoMatch)
}

// TestUntilCmd tests the until command
func TestUntilCmd(t *testing.T) {
	ctx, out := newTestContext(t, "a;bb;c", "{}")
	assert.NoError(t, (&UntilCmd{Patterns: []string{";"}, All: true}).Run(ctx))
	assert.Equal(t, "1:1\t\"a\"\n1:3\t\"bb\"\n1:6\t\"c\"\n", out.String())

	ctx, out = newTestContext(t, "a1b22", "{}")
	assert.NoError(t, (&UntilCmd{Patterns: []string{"[0-9]+"}, Regex: true, Include: true}).Run(ctx))
	assert.Equal(t, "1:1\t\"a1\"\n", out.String())
}

// TestUntilCmd_Errors tests until command failures
func TestUntilCmd_Errors(t *testing.T) {
	ctx, _ := newTestContext(t, "abc", "{}")
	assert.IsError(t, (&UntilCmd{}).Run(ctx), ErrNoTerminators)

	ctx, _ = newTestContext(t, "abc", "{}")
	assert.IsError(t, (&UntilCmd{Patterns: []string{";"}, FailIfNone: true}).Run(ctx), ErrNoMatch)
}

// TestNumberCmds tests the integer and decimal commands
func TestNumberCmds(t *testing.T) {
	ctx, out := newTestContext(t, "x 1,024 and 7", "{}")
	assert.NoError(t, (&IntegerCmd{All: true}).Run(ctx))
	assert.Equal(t, "1:3\t\"1,024\"\n1:13\t\"7\"\n", out.String())

	ctx, out = newTestContext(t, "-2.50", "{}")
	assert.NoError(t, (&DecimalCmd{Parts: true}).Run(ctx))
	assert.Equal(t, "1:1\t\"-2.50\"\n"+
		"  sign       \"-\"\n"+
		"  whole      \"2\"\n"+
		"  radix      \".\"\n"+
		"  fractional \"5\"\n"+
		"  trailing   \"0\"\n"+
		"  value      \"-2.5\"\n", out.String())
}

// TestBackscanCmd tests the backscan command
func TestBackscanCmd(t *testing.T) {
	ctx, out := newTestContext(t, "", "{}")
	assert.NoError(t, (&BackscanCmd{Text: "report.tar.gz", Pattern: ".gz"}).Run(ctx))
	assert.Equal(t, "\".gz\"\t\"report.tar\"\n", out.String())

	assert.IsError(t, (&BackscanCmd{Text: "report", Pattern: ".gz"}).Run(ctx), ErrNoMatch)
}

// TestTokensCmd tests the tokens command
func TestTokensCmd(t *testing.T) {
	ctx, out := newTestContext(t, "x = 1", "{}")
	assert.NoError(t, (&TokensCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "\"x\"")
	assert.Contains(t, out.String(), "\"1\"")
}
