package number

import (
	"errors"
	"strconv"
	"strings"
)

// space is the set of characters allowed around a numeral.
const space = " \f\n\r\t\v"

// Number is a converted numeral, either an integer or a float.
type Number struct {
	Int   int64
	Float float64
	IsInt bool
}

// Integer returns an integer Number.
func Integer(i int64) Number {
	return Number{Int: i, Float: float64(i), IsInt: true}
}

// Float64 returns the value as a float64.
func (n Number) Float64() float64 {
	if n.IsInt {
		return float64(n.Int)
	}
	return n.Float
}

// String formats the number the way it would appear in a data file.
func (n Number) String() string {
	if n.IsInt {
		return strconv.FormatInt(n.Int, 10)
	}
	return strconv.FormatFloat(n.Float, 'g', -1, 64)
}

// Parse converts s using Lua numeral rules: optional surrounding whitespace,
// decimal or hexadecimal integers (hex wraps around on overflow), decimal or
// hexadecimal floats. Decimal integers that overflow become floats. The words
// inf and nan are not numerals.
func Parse(s string) (Number, bool) {
	t := strings.Trim(s, space)
	if t == "" {
		return Number{}, false
	}
	if n, ok := parseInt(t); ok {
		return n, true
	}
	if strings.ContainsAny(t, "nN_") {
		return Number{}, false
	}
	if isHex(t) && !strings.ContainsAny(t, "pP") {
		t += "p0"
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Number{}, false
	}
	return Number{Float: f}, true
}

func parseInt(t string) (Number, bool) {
	if !isHex(t) {
		i, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return Number{}, false
		}
		return Integer(i), true
	}

	neg := t[0] == '-'
	digits := strings.TrimLeft(t, "+-")[2:]
	if digits == "" {
		return Number{}, false
	}
	var u uint64
	for i := 0; i < len(digits); i++ {
		d, ok := hexDigit(digits[i])
		if !ok {
			return Number{}, false
		}
		u = u*16 + uint64(d)
	}
	if neg {
		u = -u
	}
	return Integer(int64(u)), true
}

func isHex(t string) bool {
	if t[0] == '-' || t[0] == '+' {
		t = t[1:]
	}
	return len(t) >= 2 && t[0] == '0' && (t[1] == 'x' || t[1] == 'X')
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
