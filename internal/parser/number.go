package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/andyalbarracin/condor-dashboard/internal/analytics"
)

// numericRegex validates a token after separator cleanup. Matches
// integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// NormalizeValue converts a raw cell token into a metric value. Thousands
// separators and percent signs are stripped and a locale decimal comma
// becomes a dot before parsing. An empty token normalizes to number 0.
// A non-empty token that is still not numeric is retained verbatim as
// text rather than discarded.
func NormalizeValue(raw string) analytics.Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return analytics.Num(0)
	}
	if f, ok := parseNumeric(s); ok {
		return analytics.Num(f)
	}
	return analytics.Str(s)
}

// CleanNumber converts a raw cell token to a float the way the platform
// parsers expect: separators and percent signs stripped, anything
// unparseable (including empty) defaulting to 0. The zero default mirrors
// the source exports' own behavior; it can mask upstream data-quality
// issues and is documented as such, not a validation layer.
func CleanNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	f, _ := parseNumeric(s)
	return f
}

// parseNumeric normalizes separators and attempts a float parse.
func parseNumeric(s string) (float64, bool) {
	s = strings.ReplaceAll(s, "%", "")
	s = strings.TrimSpace(s)

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")
	switch {
	case hasComma && hasDot:
		// Comma is a thousands separator: 1,234.56
		s = strings.ReplaceAll(s, ",", "")
	case hasComma && strings.Count(s, ",") == 1:
		// Lone comma is a locale decimal: 12,5
		s = strings.Replace(s, ",", ".", 1)
	case hasComma:
		// Multiple commas without a dot: 1,234,567
		s = strings.ReplaceAll(s, ",", "")
	}

	if !numericRegex.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
