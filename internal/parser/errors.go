// Package parser implements the ingestion pipeline for exported analytics
// files: platform and schema-variant detection, header mapping, date and
// numeric normalization, per-source parsing, and the universal dispatcher
// that ties them together.
//
// # Error Policy
//
// Row-level failures (a date that does not parse, a short row) are
// recovered locally by skipping the row; they never cross the parser
// boundary individually. Only file-level outcomes escape, as a Result
// whose Success flag and Data pointer are always mutually consistent.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/andyalbarracin/condor-dashboard/internal/analytics"
)

// ErrUnsupportedFileType is returned for extensions outside csv/xls/xlsx.
// No parse is attempted.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// ErrEmptyResult is returned when zero valid rows survive row-level
// filtering. Individual rows never throw past the parser, but an empty
// survivor set is still a file-level failure.
var ErrEmptyResult = errors.New("no valid data points found after parsing")

// StructureError reports a missing expected header row or sheet.
// It is a whole-file failure.
type StructureError struct {
	Detail string
}

func (e *StructureError) Error() string {
	return "file structure not recognized: " + e.Detail
}

// DateParseError reports a date literal matching none of the recognized
// families. Parsers catch it and skip the row; it is never fatal to the
// file.
type DateParseError struct {
	Input string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("unable to parse date: %q", e.Input)
}

// Result is the tagged outcome of a parse operation. Success and Data are
// mutually consistent: a failed result never carries a partial dataset.
type Result struct {
	Success  bool               `json:"success"`
	Data     *analytics.Dataset `json:"data,omitempty"`
	Error    string             `json:"error,omitempty"`
	Warnings []string           `json:"warnings,omitempty"`
}

func failure(err error) Result {
	return Result{Error: UserMessage(err)}
}

func success(d analytics.Dataset, warnings ...string) Result {
	return Result{Success: true, Data: &d, Warnings: warnings}
}

// messagePattern maps a technical error substring to a short display
// message with a support code.
type messagePattern struct {
	pattern string
	message string
	code    string
}

// messagePatterns is evaluated top to bottom, first match wins, so more
// specific patterns must precede general ones. Matched case-insensitively
// with strings.Contains.
var messagePatterns = []messagePattern{
	{"unsupported file type", "This file type is not supported. Upload a CSV, XLS or XLSX export", "FILE001"},
	{"file too large", "File exceeds the maximum upload size", "FILE002"},
	{"no file provided", "No file was selected", "FILE003"},
	{"no valid data points", "No usable rows were found in this file", "DATA001"},
	{"no date column", "The file has no recognizable date column", "DATA002"},
	{"structure not recognized", "The file layout was not recognized. Export it again from the platform and retry", "DATA003"},
	{"empty or has insufficient data", "The file is empty or has too few rows", "DATA004"},
	{"workbook has no sheets", "The spreadsheet contains no sheets", "DATA005"},
}

// defaultUserMessage covers errors no pattern matches.
const defaultUserMessage = "Could not parse this file"

// UserMessage converts a technical parse error into a short string
// suitable for direct display. Unknown errors keep their own text when it
// is already human-sized, otherwise fall back to a generic message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	lower := strings.ToLower(err.Error())
	for _, mp := range messagePatterns {
		if strings.Contains(lower, mp.pattern) {
			return fmt.Sprintf("%s (Code: %s)", mp.message, mp.code)
		}
	}
	if len(err.Error()) <= 120 {
		return err.Error()
	}
	return defaultUserMessage
}
