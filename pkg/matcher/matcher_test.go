package matcher

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shapestone/shape-core/pkg/tokenizer"
	"github.com/shapestone/shape-scan/pkg/scan"
)

type tok struct {
	kind  string
	value string
}

// collectTokens drains the tokenizer, skipping whitespace.
func collectTokens(t *testing.T, tz tokenizer.Tokenizer) []tok {
	t.Helper()
	var tokens []tok
	for {
		token, ok := tz.NextToken()
		if !ok {
			break
		}
		if token.Kind() != KindWhitespace {
			tokens = append(tokens, tok{token.Kind(), token.ValueString()})
		}
	}
	return tokens
}

// TestSourceTokenizer tests the source code tokenizer
func TestSourceTokenizer(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []tok
	}{
		{
			name:  "assignment",
			input: `total = price * 1_000.50;`,
			want: []tok{
				{KindIdent, "total"},
				{KindOperator, "="},
				{KindIdent, "price"},
				{KindOperator, "*"},
				{KindNumber, "1_000.50"},
				{KindOperator, ";"},
			},
		},
		{
			name:  "strings keep quotes and escapes",
			input: `say("hi \"there\"", 'x')`,
			want: []tok{
				{KindIdent, "say"},
				{KindOperator, "("},
				{KindString, `"hi \"there\""`},
				{KindOperator, ","},
				{KindString, `'x'`},
				{KindOperator, ")"},
			},
		},
		{
			name:  "comments",
			input: "a // line\n/* block\n */ b",
			want: []tok{
				{KindIdent, "a"},
				{KindComment, "// line"},
				{KindComment, "/* block\n */"},
				{KindIdent, "b"},
			},
		},
		{
			name:  "two character operators",
			input: "a<=b&&c!=-1",
			want: []tok{
				{KindIdent, "a"},
				{KindOperator, "<="},
				{KindIdent, "b"},
				{KindOperator, "&&"},
				{KindIdent, "c"},
				{KindOperator, "!="},
				{KindOperator, "-"},
				{KindNumber, "1"},
			},
		},
		{
			name:  "sign and comma are not part of numbers",
			input: `-1,000.50`,
			want: []tok{
				{KindOperator, "-"},
				{KindNumber, "1"},
				{KindOperator, ","},
				{KindNumber, "000.50"},
			},
		},
		{
			name:  "unterminated string falls through",
			input: `"abc`,
			want: []tok{
				{KindText, `"`},
				{KindIdent, "abc"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tz := NewSourceTokenizer()
			tz.Initialize(tt.input)
			assert.Equal(t, tt.want, collectTokens(t, tz))
		})
	}
}

// TestBlockTokenizer tests block tokens
func TestBlockTokenizer(t *testing.T) {
	input := `fn main() { if x { print("}") } } rest`

	tz := NewBlockTokenizer()
	tz.Initialize(input)

	want := []tok{
		{KindIdent, "fn"},
		{KindIdent, "main"},
		{KindOperator, "("},
		{KindOperator, ")"},
		{KindBlock, `{ if x { print("}") } }`},
		{KindIdent, "rest"},
	}
	assert.Equal(t, want, collectTokens(t, tz))
}

// TestMatcher_Position tests token rows
func TestMatcher_Position(t *testing.T) {
	tz := tokenizer.NewTokenizerWithoutWhitespace(
		Whitespace(),
		Delimited(KindString, scan.Grammar{}),
		Pattern(KindIdent, identPattern),
	)
	tz.Initialize("key\n  \"value\"")

	first, ok := tz.NextToken()
	assert.True(t, ok)
	assert.Equal(t, "key", first.ValueString())

	_, ok = tz.NextToken() // whitespace
	assert.True(t, ok)

	second, ok := tz.NextToken()
	assert.True(t, ok)
	assert.Equal(t, KindString, second.Kind())
	assert.Equal(t, `"value"`, second.ValueString())
	assert.True(t, second.Row() > first.Row())
}

// TestInsensitive tests case-insensitive matchers
func TestInsensitive(t *testing.T) {
	keyword := New("Keyword", Insensitive(func(s *scan.Scanner) bool {
		_, ok := s.ScanLiteral("select")
		return ok
	}))
	tz := tokenizer.NewTokenizerWithoutWhitespace(Whitespace(), keyword, Pattern(KindIdent, identPattern))
	tz.Initialize("SELECT name")

	assert.Equal(t, []tok{{"Keyword", "SELECT"}, {KindIdent, "name"}}, collectTokens(t, tz))
}

// TestUntilAndInteger tests scan-until and integer matchers together
func TestUntilAndInteger(t *testing.T) {
	tz := tokenizer.NewTokenizerWithoutWhitespace(
		Integer(KindNumber, scan.DefaultInteger()),
		Until(KindText, []scan.Pattern{scan.MustRegex(`[0-9]`)}, scan.UntilOptions{}),
	)
	tz.Initialize("width 1,024 px")

	want := []tok{
		{KindText, "width "},
		{KindNumber, "1,024"},
		{KindText, " px"},
	}
	assert.Equal(t, want, collectTokens(t, tz))
}

// TestMatcher_RuneStream tests matching on a reader stream, which has no byte
// access, with multi-byte input.
func TestMatcher_RuneStream(t *testing.T) {
	stream := tokenizer.NewStreamFromReader(strings.NewReader(`"日本語" 名前`))
	_, isByteStream := stream.(tokenizer.ByteStream)
	assert.False(t, isByteStream)

	token := Delimited(KindString, scan.Grammar{})(stream)
	assert.True(t, token != nil)
	assert.Equal(t, KindString, token.Kind())
	assert.Equal(t, `"日本語"`, token.ValueString())
	assert.Equal(t, 5, stream.GetOffset())

	r, ok := stream.PeekChar()
	assert.True(t, ok)
	assert.Equal(t, ' ', r)
}

// TestMatcher_RuneStreamNoMatch tests that a failed scan leaves the reader
// stream where it was.
func TestMatcher_RuneStreamNoMatch(t *testing.T) {
	stream := tokenizer.NewStreamFromReader(strings.NewReader("名前"))
	assert.True(t, Delimited(KindString, scan.Grammar{})(stream) == nil)
	assert.Equal(t, 0, stream.GetOffset())
}

// TestSourceTokenizer_RuneStream tests that a reader stream yields the same
// tokens as a string stream.
func TestSourceTokenizer_RuneStream(t *testing.T) {
	input := `名前 = "値" + 1_000.5`
	want := []tok{
		{KindText, "名"},
		{KindText, "前"},
		{KindOperator, "="},
		{KindString, `"値"`},
		{KindOperator, "+"},
		{KindNumber, "1_000.5"},
	}

	fromString := NewSourceTokenizer()
	fromString.Initialize(input)
	assert.Equal(t, want, collectTokens(t, fromString))

	fromReader := NewSourceTokenizer()
	fromReader.InitializeFromStream(tokenizer.NewStreamFromReader(strings.NewReader(input)))
	assert.Equal(t, want, collectTokens(t, fromReader))
}
