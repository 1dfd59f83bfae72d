package pattern

import (
	"regexp"
	"strconv"
	"strings"
)

// rangeSep splits range expressions such as "40-140", "2,5 bis 3,5" or
// "100.000 ~ 150.000". The en dash shows up in listings copied from
// editorial tooling.
var rangeSep = regexp.MustCompile(`\s*(?:[-–~]|\bbis\b|\bto\b)\s*`)

// parseGermanNumber converts a German-formatted numeric string to a float:
// "." is a thousands separator, "," the decimal mark. Spaces are ignored.
// The dot is stripped unconditionally, so a dot-decimal like "2.5" reads as
// 25; German listings write decimal values with a comma, and implausible
// results are caught by the per-field bounds.
func parseGermanNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseNumberOrRange parses a captured value that may be a single number or
// a range. For a range the lower endpoint is returned and ranged is true;
// listings quote ranges low-to-high but the order is not trusted.
func parseNumberOrRange(s string) (value float64, ranged bool, ok bool) {
	parts := rangeSep.Split(strings.TrimSpace(s), -1)
	if len(parts) >= 2 {
		lo, okLo := parseGermanNumber(parts[0])
		hi, okHi := parseGermanNumber(parts[len(parts)-1])
		if okLo && okHi {
			if hi < lo {
				lo = hi
			}
			return lo, true, true
		}
		if okLo {
			return lo, true, true
		}
		return 0, false, false
	}
	v, ok := parseGermanNumber(s)
	return v, false, ok
}

// plausibleIntegerPart rejects matches that are likely the tail of a larger
// number ("0,43" out of "1.340,43"). The digits before the first separator
// must either be two or more, or a single non-zero digit.
func plausibleIntegerPart(s string) bool {
	s = strings.TrimSpace(s)
	i := strings.IndexAny(s, ".,")
	intPart := s
	if i >= 0 {
		intPart = s[:i]
	}
	intPart = strings.TrimSpace(intPart)
	if len(intPart) == 0 {
		return false
	}
	if len(intPart) >= 2 {
		return true
	}
	return intPart[0] >= '1' && intPart[0] <= '9'
}

// precededByNumberFragment reports whether the byte just before start looks
// like the middle of a number, meaning the match at start is a fragment.
func precededByNumberFragment(text string, start int) bool {
	if start == 0 {
		return false
	}
	c := text[start-1]
	return (c >= '0' && c <= '9') || c == '.' || c == ','
}
