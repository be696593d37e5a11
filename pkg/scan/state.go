package scan

// State is a snapshot of a Scanner's cursor. It is a plain value: capturing it
// copies it, and changing a Scanner never changes a State handed out earlier.
type State struct {
	// Pos is the byte offset of the next character to scan.
	Pos int

	// LastPos is Pos as it was immediately before the most recent move.
	LastPos int

	// LastMatch is the text recorded by the most recent successful match.
	// It is only meaningful when Matched is true.
	LastMatch string

	// Matched reports whether LastMatch holds a match.
	Matched bool
}

// clamp keeps Pos and LastPos inside [0, n].
func (st State) clamp(n int) State {
	st.Pos = clampInt(st.Pos, n)
	st.LastPos = clampInt(st.LastPos, n)
	return st
}

// shift moves Pos and LastPos forward by n bytes.
func (st State) shift(n int) State {
	st.Pos += n
	st.LastPos += n
	return st
}

func clampInt(v, n int) int {
	if v < 0 {
		return 0
	}
	if v > n {
		return n
	}
	return v
}
