package scan

import "unicode/utf8"

// BackscanResult is the outcome of Backscan.
type BackscanResult struct {
	// Match is the suffix that matched the pattern.
	Match string

	// Found reports whether any suffix matched.
	Found bool

	// Rest is the input with Match removed from its end. It is the whole input
	// when nothing matched.
	Rest string
}

// Backscan matches p against the end of text and returns the shortest
// matching suffix.
//
// A single-character text must match p as a whole. Longer texts are tried one
// suffix at a time, starting with the last character and growing towards the
// front, never including the whole text. A literal must equal the suffix; a
// regular expression must match at the start of the suffix.
//
// Returning the shortest suffix lets the numeric scanners move digits between
// parts one character at a time.
func Backscan(text string, p Pattern) BackscanResult {
	none := BackscanResult{Rest: text}
	if p == nil || text == "" {
		return none
	}
	if utf8.RuneCountInString(text) == 1 {
		if p.matchTail(text, true) {
			return BackscanResult{Match: text, Found: true}
		}
		return none
	}
	for i := len(text); ; {
		_, size := utf8.DecodeLastRuneInString(text[:i])
		i -= size
		if i <= 0 {
			return none
		}
		if slice := text[i:]; p.matchTail(slice, false) {
			return BackscanResult{Match: slice, Found: true, Rest: text[:i]}
		}
	}
}

// backscanAny returns the first Backscan result that finds a match, trying
// patterns in order.
func backscanAny(text string, patterns []Pattern) BackscanResult {
	for _, p := range patterns {
		if res := Backscan(text, p); res.Found {
			return res
		}
	}
	return BackscanResult{Rest: text}
}
