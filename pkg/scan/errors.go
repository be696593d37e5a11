package scan

import "errors"

// Construction errors. Match operations never return errors: a failed match is
// reported through the ok result instead.
var (
	// ErrInvalidPattern is returned when a regular expression does not compile.
	ErrInvalidPattern = errors.New("scan: invalid pattern")

	// ErrEmptyPattern is returned for a regular expression that can only ever
	// match the empty string. Such a pattern would never move the cursor.
	ErrEmptyPattern = errors.New("scan: pattern only matches the empty string")

	// ErrNotNumber is returned when a numeric match cannot be converted to a value,
	// for example when the grammar's digits are not decimal digits.
	ErrNotNumber = errors.New("scan: match is not a decimal number")
)
