package scan

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

// TestBackscan tests matching at the end of a string
func TestBackscan(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		pattern Pattern
		want    BackscanResult
	}{
		{"literal suffix", "aab0", Literal("0"), BackscanResult{Match: "0", Found: true, Rest: "aab"}},
		{"no match", "aab0", Literal("z"), BackscanResult{Rest: "aab0"}},
		{"multi-character literal", "a}}", Literal("}}"), BackscanResult{Match: "}}", Found: true, Rest: "a"}},
		{"whole text is never a suffix", "ab", Literal("ab"), BackscanResult{Rest: "ab"}},
		{"single character equal", "0", Literal("0"), BackscanResult{Match: "0", Found: true}},
		{"single character differs", "1", Literal("0"), BackscanResult{Rest: "1"}},
		{"regex takes shortest suffix", "0042", MustRegex(`[0-9]`), BackscanResult{Match: "2", Found: true, Rest: "004"}},
		{"regex matches start of suffix", "x12", MustRegex(`1`), BackscanResult{Match: "12", Found: true, Rest: "x"}},
		{"single character regex", "7", MustRegex(`[0-9]`), BackscanResult{Match: "7", Found: true}},
		{"single character regex must cover it", "7", MustRegex(`7?x?`), BackscanResult{Match: "7", Found: true}},
		{"multibyte characters", "日本語", Literal("語"), BackscanResult{Match: "語", Found: true, Rest: "日本"}},
		{"empty text", "", Literal("a"), BackscanResult{}},
		{"nil pattern", "abc", nil, BackscanResult{Rest: "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Backscan(tt.text, tt.pattern))
		})
	}
}

// TestBackscan_RestPlusMatchIsInput tests that Rest and Match rebuild the input
func TestBackscan_RestPlusMatchIsInput(t *testing.T) {
	for _, text := range []string{"1000", "a.0", "ééé0", "00"} {
		res := Backscan(text, Literal("0"))
		assert.True(t, res.Found)
		assert.Equal(t, text, res.Rest+res.Match)
	}
}
