package parser

import (
	"w3xparser/internal/cursor"
	"w3xparser/internal/document"
)

// txtScanner parses the sectioned key/multi-value format:
//
//	[Section]
//	// comment
//	Key=value,"quoted, with comma",other
//
// Section names and keys are folded to lower case. Malformed assignments and
// unterminated quotes are tolerated; only an unterminated section header or a
// stray character after a line's content fails the parse.
type txtScanner struct {
	c *cursor.Cursor
	b document.Builder
}

// ParseTxt scans text and drives b with the sections, keys and values found.
func ParseTxt(b document.Builder, text []byte, name string) error {
	s := &txtScanner{c: cursor.New(text), b: b}
	return withName(s.parse(), name)
}

// ParseTxtDocument parses text into a new Document.
func ParseTxtDocument(text []byte, name string) (*document.Document, error) {
	return ParseTxtInto(document.New(), text, name)
}

// ParseTxtInto parses text and merges the result into doc. On failure doc may
// hold part of the input and should be discarded.
func ParseTxtInto(doc *document.Document, text []byte, name string) (*document.Document, error) {
	b := document.NewBuilderInto(doc)
	if err := ParseTxt(b, text, name); err != nil {
		return nil, err
	}
	return b.Document(), nil
}

func (s *txtScanner) parse() *ParseError {
	s.b.BeginDocument()
	for {
		if err := s.parseLine(); err != nil {
			return err
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

func (s *txtScanner) parseLine() *ParseError {
	switch {
	case s.c.Peek() == '[':
		return s.parseSection()
	case s.c.Peek() == '/' && s.c.PeekAt(1) == '/':
		s.parseComment()
		return nil
	default:
		s.parseAssign()
		return nil
	}
}

func (s *txtScanner) parseComment() {
	s.c.Expect('/')
	s.c.Expect('/')
	s.c.SkipToLineEnd()
}

// parseSection reads "[name]" and discards whatever follows the bracket.
func (s *txtScanner) parseSection() *ParseError {
	s.c.Expect('[')
	start := s.c.Pos()
	for !s.c.AtLineEnd() {
		if s.c.Peek() == ']' {
			s.b.OpenSection(lower(s.c.Since(start)))
			s.c.Advance()
			s.c.SkipToLineEnd()
			return nil
		}
		s.c.Advance()
	}
	return errorf(s.c, "']' expected near '%s'", s.c.Near())
}

// parseAssign reads "key=values". A line without '=' contributes nothing.
func (s *txtScanner) parseAssign() {
	start := s.c.Pos()
	for !s.c.AtLineEnd() {
		if s.c.Peek() == '=' {
			s.b.SetKey(lower(s.c.Since(start)))
			s.c.Advance()
			s.parseValues()
			return
		}
		s.c.Advance()
	}
}

// parseValues reads the comma-separated list up to the end of the line.
//
// A bare comma yields an empty token only while pendingEmpty is set. A quoted
// token clears it and a bare comma sets it again; unquoted tokens leave it
// alone.
func (s *txtScanner) parseValues() {
	defer s.b.EndValue()

	pendingEmpty := true
	for {
		switch {
		case s.c.AtLineEnd():
			return
		case s.c.Peek() == '"':
			s.c.Advance()
			if !s.scanQuoted() {
				return
			}
			s.c.Expect('"')
			pendingEmpty = false
		case s.c.Peek() == ',':
			if pendingEmpty {
				s.b.AppendValue("")
			}
			s.c.Advance()
			pendingEmpty = true
		default:
			if !s.scanUnquoted() {
				return
			}
			s.c.Expect(',')
		}
	}
}

// scanQuoted emits the bytes up to the closing quote, leaving the cursor on
// it. At end of line it emits the remainder and reports false.
func (s *txtScanner) scanQuoted() bool {
	start := s.c.Pos()
	for !s.c.AtLineEnd() {
		if s.c.Peek() == '"' {
			s.b.AppendValue(s.c.Since(start))
			return true
		}
		s.c.Advance()
	}
	s.b.AppendValue(s.c.Since(start))
	return false
}

// scanUnquoted emits the bytes up to the next comma, leaving the cursor on
// it. At end of line it emits the remainder and reports false.
func (s *txtScanner) scanUnquoted() bool {
	start := s.c.Pos()
	for !s.c.AtLineEnd() {
		if s.c.Peek() == ',' {
			s.b.AppendValue(s.c.Since(start))
			return true
		}
		s.c.Advance()
	}
	s.b.AppendValue(s.c.Since(start))
	return false
}
