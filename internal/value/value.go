// Package value classifies raw scanner output into the typed values a
// consumer sees: quoted strings, numbers and absent entries.
package value

import "w3xparser/internal/number"

// Kind is the classification of a raw value.
type Kind int

const (
	Nil Kind = iota
	String
	Number
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Number:
		return "number"
	default:
		return "nil"
	}
}

// Value is a classified raw value.
type Value struct {
	Kind Kind
	Str  string
	Num  number.Number
}

// StripQuotes removes a leading and a trailing double quote, each when
// present, and reports whether either was found.
func StripQuotes(s string) (string, bool) {
	quoted := false
	if len(s) > 0 && s[0] == '"' {
		s = s[1:]
		quoted = true
	}
	if len(s) > 0 && s[len(s)-1] == '"' {
		s = s[:len(s)-1]
		quoted = true
	}
	return s, quoted
}

// Classify turns a raw value into a string, a number or nil. Quoted values
// are strings. Other non-empty values are numbers, falling back to integer
// zero when they do not convert. Empty values are nil.
func Classify(raw string) Value {
	if s, quoted := StripQuotes(raw); quoted {
		return Value{Kind: String, Str: s}
	}
	if raw == "" {
		return Value{Kind: Nil}
	}
	n, ok := number.Parse(raw)
	if !ok {
		n = number.Integer(0)
	}
	return Value{Kind: Number, Num: n}
}
