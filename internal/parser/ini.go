package parser

import (
	"w3xparser/internal/cursor"
	"w3xparser/internal/document"
)

// iniScanner parses the generic key/value format: one "key=value" per line,
// "//" comments, no sections and no value lists. The value is the raw rest
// of the line.
type iniScanner struct {
	c *cursor.Cursor
	b document.FlatBuilder
}

// ParseINI scans text and drives b with every assignment found.
func ParseINI(b document.FlatBuilder, text []byte, name string) error {
	s := &iniScanner{c: cursor.New(text), b: b}
	return withName(s.parse(), name)
}

// ParseINIFlat parses text into a new Flat table.
func ParseINIFlat(text []byte, name string) (*document.Flat, error) {
	f := document.NewFlat()
	if err := ParseINI(f, text, name); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *iniScanner) parse() *ParseError {
	s.b.BeginDocument()
	for {
		if s.c.Peek() == '/' && s.c.PeekAt(1) == '/' {
			s.c.Expect('/')
			s.c.Expect('/')
			s.c.SkipToLineEnd()
		} else {
			s.parseAssign()
		}
		done, err := endLine(s.c)
		if err != nil {
			return err
		}
		if done {
			s.b.EndDocument()
			return nil
		}
	}
}

func (s *iniScanner) parseAssign() {
	start := s.c.Pos()
	for !s.c.AtLineEnd() {
		if s.c.Peek() == '=' {
			key := lower(s.c.Since(start))
			s.c.Advance()
			valueStart := s.c.Pos()
			s.c.SkipToLineEnd()
			s.b.SetValue(key, s.c.Since(valueStart))
			return
		}
		s.c.Advance()
	}
}
