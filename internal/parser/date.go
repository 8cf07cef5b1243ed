package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// serialEpoch is the spreadsheet serial-day epoch (1899-12-30): serial
// 25569 corresponds to 1970-01-01.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var (
	isoDateRegex     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	slashDateRegex   = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	verboseDateRegex = regexp.MustCompile(`^[A-Za-z]+,\s+([A-Za-z]+)\s+(\d{1,2}),\s+(\d{4})$`)
)

// NormalizeDate converts a date literal from any recognized family into
// canonical YYYY-MM-DD form. Recognized families:
//
//   - canonical ISO: 2025-07-23
//   - slash (US): 07/23/2025 or 7/3/2025
//   - verbose: "Wed, Jul 23, 2025"
//   - spreadsheet serial day: 45000 (days since 1899-12-30)
//
// A literal matching no family returns a *DateParseError; callers treat
// it as a per-row skip, never a whole-file abort.
func NormalizeDate(raw string) (string, error) {
	s := strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), `"`))
	if s == "" {
		return "", &DateParseError{Input: raw}
	}

	if isoDateRegex.MatchString(s) {
		// Validate the literal actually denotes a calendar date;
		// 2025-13-45 matches the shape but not a date.
		if _, err := time.Parse("2006-01-02", s); err != nil {
			return "", &DateParseError{Input: raw}
		}
		return s, nil
	}

	if m := slashDateRegex.FindStringSubmatch(s); m != nil {
		t, err := time.Parse("1/2/2006", s)
		if err != nil {
			return "", &DateParseError{Input: raw}
		}
		return t.Format("2006-01-02"), nil
	}

	if m := verboseDateRegex.FindStringSubmatch(s); m != nil {
		t, err := time.Parse("Jan 2, 2006", m[1]+" "+m[2]+", "+m[3])
		if err != nil {
			t, err = time.Parse("January 2, 2006", m[1]+" "+m[2]+", "+m[3])
			if err != nil {
				return "", &DateParseError{Input: raw}
			}
		}
		return t.Format("2006-01-02"), nil
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		t := serialEpoch.AddDate(0, 0, int(serial))
		return t.Format("2006-01-02"), nil
	}

	return "", &DateParseError{Input: raw}
}

// normalizeCompactDate converts Google Analytics YYYYMMDD range stamps to
// canonical form; anything else passes through unchanged.
func normalizeCompactDate(s string) string {
	if len(s) == 8 {
		if _, err := strconv.Atoi(s); err == nil {
			return s[0:4] + "-" + s[4:6] + "-" + s[6:8]
		}
	}
	return s
}
