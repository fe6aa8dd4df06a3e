package parser

import (
	"fmt"

	"w3xparser/internal/cursor"
)

// DefaultName is the display name used when the caller supplies none.
const DefaultName = "..."

// ParseError is the single diagnostic raised by the scanners. Scanning stops
// at the first one.
type ParseError struct {
	Name string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Name, e.Line, e.Msg)
}

// errorf builds a ParseError at the cursor's line; the display name is
// attached by the entry point.
func errorf(c *cursor.Cursor, format string, args ...any) *ParseError {
	return &ParseError{Line: c.Line(), Msg: fmt.Sprintf(format, args...)}
}

// withName sets the display name on a scanner error.
func withName(err *ParseError, name string) error {
	if err == nil {
		return nil
	}
	if name == "" {
		name = DefaultName
	}
	err.Name = name
	return err
}

// endLine checks the line terminator after a line's content and consumes it.
// It reports done when input is exhausted.
func endLine(c *cursor.Cursor) (done bool, err *ParseError) {
	switch {
	case c.AtEnd():
		return true, nil
	case c.Peek() == '\n' || c.Peek() == '\r':
		c.AdvanceLine()
		return false, nil
	default:
		return false, errorf(c, `'\n' expected near '%s'`, c.Near())
	}
}

// lower folds ASCII letters to lower case and leaves other bytes untouched.
func lower(s string) string {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= 'A' && c <= 'Z' {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				if b[j] >= 'A' && b[j] <= 'Z' {
					b[j] += 'a' - 'A'
				}
			}
			return string(b)
		}
	}
	return s
}
