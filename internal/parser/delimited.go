package parser

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/andyalbarracin/condor-dashboard/internal/analytics"
)

// DetectDelimiter picks the field delimiter for a delimited export by
// comparing semicolon and comma counts on the first line. European
// exports commonly use semicolons with decimal commas.
func DetectDelimiter(firstLine string) rune {
	if strings.Count(firstLine, ";") > strings.Count(firstLine, ",") {
		return ';'
	}
	return ','
}

// splitDelimitedLine splits one line on the delimiter, honoring quoted
// fields that contain the delimiter. Surrounding quotes are dropped and
// fields are trimmed.
func splitDelimitedLine(line string, delimiter rune) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == delimiter && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))
	return fields
}

// splitDelimitedRows materializes all rows of a delimited export.
// Blank lines and "Aggregated" footer lines (LinkedIn CSV exports append
// an aggregate summary block) are dropped.
func splitDelimitedRows(content string) [][]string {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	kept := lines[:0]
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "Aggregated") {
			continue
		}
		kept = append(kept, line)
	}
	if len(kept) == 0 {
		return nil
	}

	delimiter := DetectDelimiter(kept[0])
	rows := make([][]string, 0, len(kept))
	for _, line := range kept {
		rows = append(rows, splitDelimitedLine(line, delimiter))
	}
	return rows
}

// ParseGeneric is the fallback parser for delimited exports whose
// platform could not be detected. It classifies the schema variant from
// the header row, maps every header to a canonical key, normalizes dates
// and metric values row by row, and derives missing aggregate metrics.
// Rows with unparseable dates are skipped, never fatal.
func ParseGeneric(content string) Result {
	rows := splitDelimitedRows(content)
	if len(rows) < 2 {
		return failure(errors.New("file is empty or has insufficient data"))
	}

	headers := rows[0]
	dataRows := rows[1:]

	source, subType := DetectDelimitedVariant(headers)
	headerMap := MapHeaders(headers)

	dateIdx := -1
	for i, h := range headers {
		if headerMap[h] == "date" {
			dateIdx = i
			break
		}
	}
	if dateIdx == -1 {
		return failure(errors.New("no date column found"))
	}

	var records []analytics.Record
	skipped := 0
	for _, row := range dataRows {
		if dateIdx >= len(row) || strings.TrimSpace(row[dateIdx]) == "" {
			skipped++
			continue
		}
		date, err := NormalizeDate(row[dateIdx])
		if err != nil {
			skipped++
			continue
		}

		var metrics analytics.Metrics
		for i, h := range headers {
			key := headerMap[h]
			if key == "date" {
				continue
			}
			var raw string
			if i < len(row) {
				raw = row[i]
			}
			metrics.Set(key, NormalizeValue(raw))
		}
		deriveMetrics(&metrics)

		records = append(records, analytics.Record{
			Date:    date,
			Source:  source,
			Metrics: metrics,
		})
	}

	if len(records) == 0 {
		return failure(ErrEmptyResult)
	}

	ds := analytics.Dataset{
		Source:            source,
		SubType:           subType,
		DataPoints:        records,
		RawHeaders:        headers,
		NormalizedHeaders: headerMap,
	}
	sortDataset(&ds)

	var warnings []string
	if skipped > 0 {
		warnings = append(warnings, fmt.Sprintf("%d rows skipped (missing or unparseable date)", skipped))
	}
	return success(ds, warnings...)
}

// deriveMetrics fills in metrics that are absent as raw columns but
// derivable from ones that are present: an aggregate clicks total from
// the click sub-type columns, and engagement_rate from engagements over
// impressions.
func deriveMetrics(m *analytics.Metrics) {
	if _, ok := m.Get("clicks"); !ok {
		var total float64
		found := false
		for _, key := range []string{"clicks_organic", "clicks_sponsored"} {
			if v, ok := m.Get(key); ok && !v.IsText {
				total += v.Number
				found = true
			}
		}
		if found {
			m.SetNum("clicks", total)
		}
	}

	if _, ok := m.Get("engagement_rate"); !ok {
		impressions, haveImpr := m.Get("impressions")
		engagements, haveEng := m.Get("engagements")
		if haveImpr && haveEng && !impressions.IsText && !engagements.IsText && impressions.Number > 0 {
			m.SetNum("engagement_rate", engagements.Number/impressions.Number)
		}
	}
}

// sortDataset establishes the dataset invariants: records ascending by
// date and DateRange spanning (min, max). Canonical dates compare
// chronologically as strings.
func sortDataset(d *analytics.Dataset) {
	sort.SliceStable(d.DataPoints, func(i, j int) bool {
		return d.DataPoints[i].Date < d.DataPoints[j].Date
	})
	d.RecomputeDateRange()
}
