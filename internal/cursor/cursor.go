package cursor

import (
	"fmt"
	"strings"
)

// bom is the UTF-8 byte-order mark skipped at the start of input.
const bom = "\xEF\xBB\xBF"

// Cursor tracks the scanning position and line number within an input buffer.
// It is owned by a single parse and must not be shared.
type Cursor struct {
	buf  []byte
	pos  int
	line int
}

// New creates a Cursor at the start of buf, skipping a leading BOM.
func New(buf []byte) *Cursor {
	c := &Cursor{buf: buf, line: 1}
	if len(buf) >= len(bom) && string(buf[:len(bom)]) == bom {
		c.pos = len(bom)
	}
	return c
}

// Line returns the current 1-based line number.
func (c *Cursor) Line() int { return c.line }

// Pos returns the current byte offset.
func (c *Cursor) Pos() int { return c.pos }

// AtEnd reports whether the input is exhausted. A NUL byte terminates input.
func (c *Cursor) AtEnd() bool {
	return c.pos >= len(c.buf) || c.buf[c.pos] == 0
}

// Peek returns the current byte, or 0 at end of input.
func (c *Cursor) Peek() byte {
	return c.PeekAt(0)
}

// PeekAt returns the byte n positions ahead, or 0 past the end.
func (c *Cursor) PeekAt(n int) byte {
	if c.pos+n < len(c.buf) {
		return c.buf[c.pos+n]
	}
	return 0
}

// Advance moves past the current byte. It does nothing at end of input.
func (c *Cursor) Advance() {
	if !c.AtEnd() {
		c.pos++
	}
}

// IsOneOf reports whether the current byte belongs to set.
func (c *Cursor) IsOneOf(set string) bool {
	if c.AtEnd() {
		return false
	}
	return strings.IndexByte(set, c.buf[c.pos]) >= 0
}

// ConsumeWhile advances past a run of bytes in set and reports whether it moved.
func (c *Cursor) ConsumeWhile(set string) bool {
	start := c.pos
	for c.IsOneOf(set) {
		c.pos++
	}
	return c.pos > start
}

// Expect advances past ch. The grammar must already guarantee ch is current.
func (c *Cursor) Expect(ch byte) {
	if c.Peek() != ch {
		panic(fmt.Sprintf("cursor: expected %q at offset %d, found %q", ch, c.pos, c.Peek()))
	}
	c.pos++
}

// AtLineEnd reports whether the cursor sits on '\n', '\r' or end of input.
func (c *Cursor) AtLineEnd() bool {
	return c.AtEnd() || c.buf[c.pos] == '\n' || c.buf[c.pos] == '\r'
}

// SkipToLineEnd advances until AtLineEnd.
func (c *Cursor) SkipToLineEnd() {
	for !c.AtLineEnd() {
		c.pos++
	}
}

// AdvanceLine consumes one line break and bumps the line counter.
//
// A second newline byte is folded into the same break only when it differs
// from the first, so "\r\n" and "\n\r" count once while "\n\n" counts twice.
func (c *Cursor) AdvanceLine() {
	first := c.Peek()
	if first != '\n' && first != '\r' {
		panic(fmt.Sprintf("cursor: line break expected at offset %d, found %q", c.pos, first))
	}
	c.pos++
	if next := c.Peek(); (next == '\n' || next == '\r') && next != first {
		c.pos++
	}
	c.line++
}

// Since returns the bytes between start and the current position as a string.
func (c *Cursor) Since(start int) string {
	return string(c.buf[start:c.pos])
}

// Near renders the current byte for diagnostics.
func (c *Cursor) Near() string {
	if c.AtEnd() {
		return "<eof>"
	}
	switch ch := c.buf[c.pos]; ch {
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	default:
		return string(ch)
	}
}
