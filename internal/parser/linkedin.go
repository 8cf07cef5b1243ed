package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/andyalbarracin/condor-dashboard/internal/analytics"
)

// headerScanRows bounds the header-row search: spreadsheet exports may
// prepend title and date-range rows, but never more than a few.
const headerScanRows = 5

// postInfo is the title/link pair joined from the "All posts" sheet onto
// the per-day metrics sheet.
type postInfo struct {
	title string
	link  string
}

// ParseLinkedInWorkbook parses a LinkedIn analytics workbook. ext selects
// the container decoder (legacy "xls" vs. OOXML). The schema variant
// (content, followers, visitors) is detected from the sheet names; an
// unrecognized workbook is a whole-file failure.
func ParseLinkedInWorkbook(data []byte, ext string) Result {
	wb, err := openWorkbook(data, ext)
	if err != nil {
		return failure(&StructureError{Detail: "could not open workbook: " + err.Error()})
	}
	if len(wb.names) == 0 {
		return failure(errors.New("workbook has no sheets"))
	}

	subType, ok := DetectWorkbookSubType(wb.names)
	if !ok {
		return failure(&StructureError{Detail: "sheet names match no known LinkedIn export"})
	}

	switch subType {
	case analytics.SubTypeContent:
		return parseLinkedInContent(wb)
	case analytics.SubTypeFollowers:
		return parseLinkedInFollowers(wb)
	default:
		return parseLinkedInVisitors(wb)
	}
}

// parseLinkedInContent handles the content export: per-day metrics on the
// "Metrics" sheet, post titles and links on the "All posts" sheet. The
// two sheets share no stable join key, so rows are paired by normalized
// date plus a per-date positional counter: the nth metrics row of a date
// pairs with the nth post of that date in file order. File authoring
// order is trusted; this is a documented approximation, not a heuristic
// to improve on.
func parseLinkedInContent(wb *workbook) Result {
	rows := wb.rowsOf(pickSheet(wb, "metrics"))
	if len(rows) < 2 {
		return failure(errors.New("file is empty or has insufficient data"))
	}

	headerIdx := findHeaderRow(rows, "date", 20)
	if headerIdx == -1 {
		return failure(&StructureError{Detail: "no header row with a date column"})
	}
	headers := rows[headerIdx]
	index := headerIndex(headers)

	postMap := collectPosts(wb)

	var records []analytics.Record
	dateCounter := make(map[string]int)
	skipped := 0
	for _, row := range rows[headerIdx+1:] {
		dateRaw := pickCell(row, index, "date")
		if strings.TrimSpace(dateRaw) == "" {
			continue
		}
		date, err := NormalizeDate(dateRaw)
		if err != nil {
			skipped++
			continue
		}

		occurrence := dateCounter[date]
		dateCounter[date] = occurrence + 1

		var post postInfo
		if posts := postMap[date]; occurrence < len(posts) {
			post = posts[occurrence]
		}

		impressions := CleanNumber(pickCell(row, index, "impressions (total)", "impressions"))
		impressionsOrganic := CleanNumber(pickCell(row, index, "impressions (organic)"))
		clicks := CleanNumber(pickCell(row, index, "clicks (total)", "clicks"))
		reactions := CleanNumber(pickCell(row, index, "reactions (total)", "reactions"))
		comments := CleanNumber(pickCell(row, index, "comments (total)", "comments"))
		reposts := CleanNumber(pickCell(row, index, "reposts (total)", "reposts"))
		engagementRate := CleanNumber(pickCell(row, index, "engagement rate (total)", "engagement rate"))

		engagements := reactions + comments + reposts
		if engagementRate == 0 && impressions > 0 {
			engagementRate = engagements / impressions * 100
		}

		var m analytics.Metrics
		m.SetStr("post_id", date)
		m.SetStr("title", post.title)
		m.SetStr("link", post.link)
		m.SetNum("impressions", impressions)
		m.SetNum("impressions_organic", impressionsOrganic)
		m.SetNum("clicks", clicks)
		m.SetNum("reactions", reactions)
		m.SetNum("comments", comments)
		m.SetNum("reposts", reposts)
		m.SetNum("engagements", engagements)
		m.SetNum("engagement_rate", engagementRate)

		records = append(records, analytics.Record{
			ID:      linkedInContentID(date, post.title, occurrence),
			Date:    date,
			Source:  analytics.PlatformLinkedIn,
			Metrics: m,
		})
	}

	return finishLinkedIn(analytics.SubTypeContent, records, headers, skipped)
}

// parseLinkedInFollowers handles the follower-growth export: one row per
// day on the "New followers" sheet, header on the first row.
func parseLinkedInFollowers(wb *workbook) Result {
	rows := wb.rowsOf(pickSheet(wb, "new follower"))
	if len(rows) < 2 {
		return failure(errors.New("file is empty or has insufficient data"))
	}

	headers := rows[0]
	index := headerIndex(headers)

	var records []analytics.Record
	skipped := 0
	for _, row := range rows[1:] {
		dateRaw := pickCell(row, index, "date")
		if strings.TrimSpace(dateRaw) == "" {
			continue
		}
		date, err := NormalizeDate(dateRaw)
		if err != nil {
			skipped++
			continue
		}

		total := CleanNumber(pickCell(row, index, "total followers"))
		organic := CleanNumber(pickCell(row, index, "organic followers"))
		sponsored := CleanNumber(pickCell(row, index, "sponsored followers"))
		autoInvited := CleanNumber(pickCell(row, index, "auto-invited followers"))

		var m analytics.Metrics
		m.SetNum("total_followers", total)
		m.SetNum("organic_followers", organic)
		m.SetNum("sponsored_followers", sponsored)
		m.SetNum("auto_invited_followers", autoInvited)
		m.SetNum("new_followers", total)

		records = append(records, analytics.Record{
			ID:      "linkedin-followers-" + date,
			Date:    date,
			Source:  analytics.PlatformLinkedIn,
			Metrics: m,
		})
	}

	return finishLinkedIn(analytics.SubTypeFollowers, records, headers, skipped)
}

// parseLinkedInVisitors handles the visitor-traffic export.
func parseLinkedInVisitors(wb *workbook) Result {
	rows := wb.rowsOf(pickSheet(wb, "visitor"))
	if len(rows) < 2 {
		return failure(errors.New("file is empty or has insufficient data"))
	}

	headers := rows[0]
	index := headerIndex(headers)

	var records []analytics.Record
	skipped := 0
	for _, row := range rows[1:] {
		dateRaw := pickCell(row, index, "date")
		if strings.TrimSpace(dateRaw) == "" {
			continue
		}
		date, err := NormalizeDate(dateRaw)
		if err != nil {
			skipped++
			continue
		}

		var m analytics.Metrics
		m.SetNum("page_views", CleanNumber(pickCell(row, index, "overview page views (total)")))
		m.SetNum("page_views_desktop", CleanNumber(pickCell(row, index, "overview page views (desktop)")))
		m.SetNum("page_views_mobile", CleanNumber(pickCell(row, index, "overview page views (mobile)")))
		m.SetNum("unique_visitors", CleanNumber(pickCell(row, index, "overview unique visitors (total)")))
		m.SetNum("unique_visitors_desktop", CleanNumber(pickCell(row, index, "overview unique visitors (desktop)")))
		m.SetNum("unique_visitors_mobile", CleanNumber(pickCell(row, index, "overview unique visitors (mobile)")))
		m.SetNum("custom_button_clicks", CleanNumber(pickCell(row, index, "custom button clicks (total)", "custom button clicks")))

		records = append(records, analytics.Record{
			ID:      "linkedin-visitors-" + date,
			Date:    date,
			Source:  analytics.PlatformLinkedIn,
			Metrics: m,
		})
	}

	return finishLinkedIn(analytics.SubTypeVisitors, records, headers, skipped)
}

// collectPosts reads the "All posts" sheet into a date-keyed list of
// title/link pairs in file order. A missing sheet is fine; the content
// parser then emits records without titles.
func collectPosts(wb *workbook) map[string][]postInfo {
	var sheet string
	for _, name := range wb.names {
		if strings.Contains(strings.ToLower(name), "all post") {
			sheet = name
			break
		}
	}
	if sheet == "" {
		return nil
	}

	rows := wb.rowsOf(sheet)
	if len(rows) == 0 {
		return nil
	}

	headerIdx := findHeaderRow(rows, "post title", 30)
	if headerIdx == -1 {
		headerIdx = 0
	}
	headers := headerIndex(rows[headerIdx])

	posts := make(map[string][]postInfo)
	for _, row := range rows[headerIdx+1:] {
		dateRaw := pickCell(row, headers, "created date", "date")
		if strings.TrimSpace(dateRaw) == "" {
			continue
		}
		date, err := NormalizeDate(dateRaw)
		if err != nil {
			continue
		}
		posts[date] = append(posts[date], postInfo{
			title: pickCell(row, headers, "post title", "title"),
			link:  pickCell(row, headers, "post link", "link"),
		})
	}
	return posts
}

// finishLinkedIn assembles the dataset shared by all three variants.
func finishLinkedIn(subType analytics.SubType, records []analytics.Record, headers []string, skipped int) Result {
	if len(records) == 0 {
		return failure(ErrEmptyResult)
	}
	ds := analytics.Dataset{
		Source:            analytics.PlatformLinkedIn,
		SubType:           subType,
		DataPoints:        records,
		RawHeaders:        headers,
		NormalizedHeaders: MapHeaders(headers),
	}
	sortDataset(&ds)

	var warnings []string
	if skipped > 0 {
		warnings = append(warnings, fmt.Sprintf("%d rows skipped (missing or unparseable date)", skipped))
	}
	return success(ds, warnings...)
}

// pickSheet returns the first sheet whose name contains marker, falling
// back to the first sheet.
func pickSheet(wb *workbook, marker string) string {
	for _, name := range wb.names {
		if strings.Contains(strings.ToLower(name), marker) {
			return name
		}
	}
	return wb.names[0]
}

// findHeaderRow scans the first few rows for one containing a short cell
// with the given keyword. maxCellLen guards against matching long prose
// cells in title rows that merely mention the keyword.
func findHeaderRow(rows [][]string, keyword string, maxCellLen int) int {
	limit := headerScanRows
	if len(rows) < limit {
		limit = len(rows)
	}
	for i := 0; i < limit; i++ {
		for _, cell := range rows[i] {
			cell = strings.TrimSpace(cell)
			if len(cell) < maxCellLen && strings.Contains(strings.ToLower(cell), keyword) {
				return i
			}
		}
	}
	return -1
}

// headerIndex maps lowercased, trimmed header names to their column
// position.
func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, exists := idx[key]; !exists {
			idx[key] = i
		}
	}
	return idx
}

// pickCell returns the first non-empty cell among the candidate column
// names, mirroring exports that rename columns between versions.
func pickCell(row []string, index map[string]int, names ...string) string {
	for _, name := range names {
		if pos, ok := index[name]; ok && pos < len(row) {
			if v := strings.TrimSpace(row[pos]); v != "" {
				return v
			}
		}
	}
	return ""
}

// linkedInContentID builds the deterministic record id: normalized date,
// a slug of the first 30 alphanumeric-ish characters of the post title,
// and the per-date occurrence counter. The counter keeps ids unique when
// several posts share a date, which a bare (date, source) key would not.
func linkedInContentID(date, title string, occurrence int) string {
	slug := title
	if len(slug) > 30 {
		slug = slug[:30]
	}
	var b strings.Builder
	for _, r := range slug {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	cleaned := b.String()
	for strings.Contains(cleaned, "--") {
		cleaned = strings.ReplaceAll(cleaned, "--", "-")
	}
	cleaned = strings.Trim(cleaned, "-")
	return fmt.Sprintf("linkedin-%s-%s-%d", date, cleaned, occurrence)
}
