package tui

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Placeholder is shown in place of an absent radius.
const Placeholder = "--"

// Unit is appended to every displayed radius.
const Unit = "mm"

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatNumber renders v with two decimals and thousands separators,
// rounding halves away from zero on the shortest decimal form of v, so
// 1000.625 shows as 1,000.63.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return Placeholder
	case math.IsInf(v, 1):
		return "∞"
	case math.IsInf(v, -1):
		return "-∞"
	}
	return printer.Sprintf("%.2f", roundHalfAway(v, 2))
}

// FormatMillimeters renders an optional radius with its unit; nil renders
// as the placeholder.
func FormatMillimeters(v *float64) string {
	if v == nil {
		return Placeholder + " " + Unit
	}
	return FormatNumber(*v) + " " + Unit
}

func roundHalfAway(v float64, places int) float64 {
	s := strconv.FormatFloat(math.Abs(v), 'f', -1, 64)
	dot := strings.IndexByte(s, '.')
	if dot < 0 || len(s)-dot-1 <= places {
		return v
	}

	cut := dot + 1 + places
	t, err := strconv.ParseFloat(s[:cut], 64)
	if err != nil {
		return v
	}
	if s[cut] >= '5' {
		t += math.Pow10(-places)
	}
	return math.Copysign(t, v)
}
