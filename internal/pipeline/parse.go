package pipeline

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseNumeric converts field text to a number. Empty or non-numeric text
// yields nil. Like a lenient float parser it reads the longest numeric
// prefix, so "12mm" is 12. Negative numbers are returned as-is.
func ParseNumeric(text string) *float64 {
	prefix := numericPrefix(strings.TrimLeftFunc(text, unicode.IsSpace))
	if prefix == "" {
		return nil
	}

	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil && !isRangeError(err) {
		return nil
	}
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func isRangeError(err error) bool {
	numErr, ok := err.(*strconv.NumError)
	return ok && numErr.Err == strconv.ErrRange
}

// numericPrefix returns the longest prefix of s that forms a decimal number,
// or "" if s does not start with one.
func numericPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
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

	return s[:end]
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
