package calc

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Compute applies op to the two operand strings.
// Operands are parsed with ParseNumber; an unknown operator yields the
// second operand unchanged.
func Compute(first, second string, op Operator) float64 {
	a := ParseNumber(first)
	b := ParseNumber(second)

	switch op {
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	case OpDiv:
		return a / b
	default:
		return b
	}
}

// ParseNumber reads the longest leading decimal numeral of s, the way a
// browser's parseFloat does. Leading whitespace is skipped and the special
// spellings Infinity and NaN are accepted with an optional sign.
// A string without a numeric prefix parses as 0.
func ParseNumber(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\r")

	body := strings.TrimLeft(s, "+-")
	if len(s)-len(body) <= 1 {
		neg := strings.HasPrefix(s, "-")
		switch {
		case strings.HasPrefix(body, "Infinity"):
			if neg {
				return math.Inf(-1)
			}
			return math.Inf(1)
		case strings.HasPrefix(body, "NaN"):
			return math.NaN()
		}
	}

	prefix := numericPrefix(s)
	if prefix == "" {
		return 0
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		// Out-of-range values come back as ±Inf together with ErrRange.
		if errors.Is(err, strconv.ErrRange) {
			return v
		}
		return 0
	}
	return v
}

// numericPrefix returns the longest prefix of s matching
// [+-]? digits* (. digits*)? ([eE] [+-]? digits+)? with at least one digit
// in the mantissa.
func numericPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	mantissaDigits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		mantissaDigits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if mantissaDigits > 0 || frac > 0 {
			i = j
			mantissaDigits += frac
		}
	}
	if mantissaDigits == 0 {
		return ""
	}
	end := i

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		expDigits := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			expDigits++
		}
		if expDigits > 0 {
			end = j
		}
	}

	return strings.TrimSuffix(s[:end], ".")
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// FormatNumber renders v the way a browser converts a number to a string:
// shortest round-trip digits, plain notation between 1e-6 and 1e21,
// exponent notation outside that range, and Infinity/-Infinity/NaN for the
// IEEE-754 special values. Negative zero renders as "0".
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}

	abs := math.Abs(v)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	s := strconv.FormatFloat(v, 'e', -1, 64)
	mant, exp, ok := strings.Cut(s, "e")
	if !ok {
		return s
	}
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + sign + digits
}
