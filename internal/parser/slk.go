package parser

import (
	"strconv"

	"w3xparser/internal/cursor"
	"w3xparser/internal/document"
)

const digits = "0123456789"

// MaxCoordinate is the largest row or column index a grid may address.
const MaxCoordinate = 1 << 16

// slkScanner parses the SYLK cell-grid format used by game tables:
//
//	ID;PWXL;N;E
//	B;X3;Y2;D0
//	C;Y1;X1;K"ID"
//	C;X2;K"name"
//	C;Y2;X1;K"hfoo"
//	C;X2;K"Footman"
//	E
//
// Every line is a record type followed by ';'-separated fields, each a
// one-letter tag and its payload. X and Y are sticky across C and F records.
// Records other than B, C, F and E are skipped.
type slkScanner struct {
	c    *cursor.Cursor
	b    document.GridBuilder
	x, y int
}

// ParseSLK scans text and drives b with the grid extents and cells found.
func ParseSLK(b document.GridBuilder, text []byte, name string) error {
	s := &slkScanner{c: cursor.New(text), b: b}
	return withName(s.parse(), name)
}

// ParseSLKGrid parses text into a new Grid.
func ParseSLKGrid(text []byte, name string) (*document.Grid, error) {
	g := document.NewGrid()
	if err := ParseSLK(g, text, name); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *slkScanner) parse() *ParseError {
	s.b.BeginGrid()
	if !s.atHeader() {
		return errorf(s.c, "'ID' expected near '%s'", s.c.Near())
	}
	s.c.SkipToLineEnd()

	for {
		done, err := endLine(s.c)
		if err != nil {
			return err
		}
		if done {
			break
		}
		ended, err := s.parseRecord()
		if err != nil {
			return err
		}
		if ended {
			break
		}
	}
	s.b.EndGrid()
	return nil
}

// atHeader reports whether the cursor sits on an ID record: "ID" followed by
// ';' or the end of the line.
func (s *slkScanner) atHeader() bool {
	if s.c.Peek() != 'I' || s.c.PeekAt(1) != 'D' {
		return false
	}
	switch s.c.PeekAt(2) {
	case ';', '\n', '\r', 0:
		return true
	}
	return false
}

// parseRecord reads one record line and reports whether it was the end
// record.
func (s *slkScanner) parseRecord() (bool, *ParseError) {
	start := s.c.Pos()
	for !s.c.AtLineEnd() && s.c.Peek() != ';' {
		s.c.Advance()
	}

	switch s.c.Since(start) {
	case "B":
		return false, s.parseBounds()
	case "C":
		return false, s.parseCell()
	case "F":
		return false, s.parseFields(nil)
	case "E":
		return true, nil
	default:
		s.c.SkipToLineEnd()
		return false, nil
	}
}

func (s *slkScanner) parseBounds() *ParseError {
	var width, height int
	err := s.parseFields(func(tag byte) (bool, *ParseError) {
		switch tag {
		case 'X':
			n, err := s.parseCoordinate(tag)
			width = n + 1
			return true, err
		case 'Y':
			n, err := s.parseCoordinate(tag)
			height = n + 1
			return true, err
		}
		return false, nil
	})
	if err != nil {
		return err
	}
	s.b.SetExtent(width, height)
	return nil
}

func (s *slkScanner) parseCell() *ParseError {
	return s.parseFields(func(tag byte) (bool, *ParseError) {
		if tag != 'K' {
			return false, nil
		}
		if s.x == 0 || s.y == 0 {
			return true, errorf(s.c, "cell position expected near 'K'")
		}
		s.b.SetCell(s.x, s.y, s.scanContent())
		return true, nil
	})
}

// parseFields walks the ';'-separated fields of the current record. Each tag
// is offered to handle first, which reports whether it consumed the payload.
// Unclaimed X and Y fields move the sticky position; other unclaimed payloads
// are skipped.
func (s *slkScanner) parseFields(handle func(tag byte) (bool, *ParseError)) *ParseError {
	for s.c.Peek() == ';' {
		s.c.Advance()
		if s.c.AtLineEnd() {
			return nil
		}
		if s.c.Peek() == ';' {
			continue
		}
		tag := s.c.Peek()
		s.c.Advance()

		var claimed bool
		var err *ParseError
		if handle != nil {
			claimed, err = handle(tag)
		}
		if !claimed && err == nil && (tag == 'X' || tag == 'Y') {
			claimed, err = true, s.parsePosition(tag)
		}
		if err != nil {
			return err
		}
		if !claimed {
			s.skipPayload()
		}
	}
	return nil
}

func (s *slkScanner) parsePosition(tag byte) *ParseError {
	n, err := s.parseCoordinate(tag)
	if err != nil {
		return err
	}
	if n == 0 {
		return errorf(s.c, "cell coordinate out of range near '%c%d'", tag, n)
	}
	if tag == 'X' {
		s.x = n
	} else {
		s.y = n
	}
	return nil
}

// parseCoordinate reads a coordinate payload no larger than MaxCoordinate.
func (s *slkScanner) parseCoordinate(tag byte) (int, *ParseError) {
	n, err := s.parseNumber()
	if err != nil {
		return 0, err
	}
	if n > MaxCoordinate {
		return 0, errorf(s.c, "cell coordinate out of range near '%c%d'", tag, n)
	}
	return n, nil
}

// parseNumber reads a run of digits; anything else up to the next field is
// ignored.
func (s *slkScanner) parseNumber() (int, *ParseError) {
	start := s.c.Pos()
	if !s.c.ConsumeWhile(digits) {
		return 0, errorf(s.c, "number expected near '%s'", s.c.Near())
	}
	n, err := strconv.Atoi(s.c.Since(start))
	if err != nil {
		return 0, errorf(s.c, "number too large near '%s'", s.c.Since(start))
	}
	s.skipPayload()
	return n, nil
}

// scanContent reads a K payload. A payload opening with '"' runs to the
// closing quote, semicolons included, and keeps its quotes.
func (s *slkScanner) scanContent() string {
	start := s.c.Pos()
	if s.c.Peek() == '"' {
		s.c.Advance()
		for !s.c.AtLineEnd() && s.c.Peek() != '"' {
			s.c.Advance()
		}
		if !s.c.AtLineEnd() {
			s.c.Expect('"')
		}
	}
	s.skipPayload()
	return s.c.Since(start)
}

func (s *slkScanner) skipPayload() {
	for !s.c.AtLineEnd() && s.c.Peek() != ';' {
		s.c.Advance()
	}
}
