package matcher

// Token kinds produced by NewSourceTokenizer.
const (
	KindWhitespace = "Whitespace" // spaces, tabs, newlines
	KindComment    = "Comment"    // // line or /* block */
	KindString     = "String"     // "double" or 'single' quoted
	KindNumber     = "Number"     // 42, 1_000.50 (a leading - is an operator)
	KindIdent      = "Ident"      // identifiers and keywords
	KindOperator   = "Operator"   // == != <= >= && || and single punctuation
	KindBlock      = "Block"      // balanced {...} block (NewBlockTokenizer only)
	KindText       = "Text"       // anything else, one character at a time
)
