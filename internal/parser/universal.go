package parser

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/andyalbarracin/condor-dashboard/internal/analytics"
)

// ParseFile routes an uploaded file to the right parser family. The
// extension decides first: spreadsheet containers go straight to the
// workbook parser (the platform then comes from sheet names); csv goes
// through content-based detection and falls back to the generic delimited
// parser when detection yields unknown. Anything else fails immediately
// without a parse attempt.
//
// No failure escapes this boundary as a panic or error value; every
// outcome is a Result.
func ParseFile(data []byte, filename string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Result{Error: UserMessage(fmt.Errorf("parse failed: %v", r))}
		}
	}()

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	switch ext {
	case "xls", "xlsx":
		return ParseLinkedInWorkbook(data, ext)
	case "csv":
		// Fall through to delimited handling below.
	default:
		return failure(fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext))
	}

	content := decodeText(data)

	switch DetectPlatform(content, filename) {
	case analytics.PlatformTwitter:
		return ParseTwitter(content)
	case analytics.PlatformGoogleAnalytics:
		return ParseGoogleAnalytics(content)
	default:
		// LinkedIn CSV exports and undetected files share the generic
		// delimited path; it re-derives the variant from the headers.
		return ParseGeneric(content)
	}
}

// decodeText decodes uploaded bytes to a string. Exports are usually
// UTF-8; anything else is re-decoded as Windows-1252 so accented header
// text survives instead of turning into replacement runes.
func decodeText(data []byte) string {
	data = trimBOM(data)
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}

// trimBOM drops a UTF-8 byte-order mark if present. Spreadsheet
// tools prepend one when re-saving CSVs.
func trimBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}
