package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/andyalbarracin/condor-dashboard/internal/analytics"
)

// twitterMetricColumns are the numeric columns of an X/Twitter content
// export, matched by exact (case-insensitive) header name.
var twitterMetricColumns = []string{
	"impressions",
	"likes",
	"engagements",
	"bookmarks",
	"shares",
	"new follows",
	"replies",
	"reposts",
	"profile visits",
	"detail expands",
	"url clicks",
	"hashtag clicks",
	"permalink clicks",
}

// ParseTwitter parses an X/Twitter per-post analytics CSV. The export
// uses a verbose date format ("Wed, Jul 23, 2025") and either the current
// "Post ..." or the legacy "Tweet ..." column spellings for the id, text
// and link columns. Rows whose date fails to parse are skipped.
func ParseTwitter(content string) Result {
	rows, err := readCSV(content)
	if err != nil {
		return failure(fmt.Errorf("invalid csv: %w", err))
	}
	if len(rows) < 2 {
		return failure(errors.New("file is empty or has insufficient data"))
	}

	headers := rows[0]
	dateIdx := findHeader(headers, func(h string) bool { return h == "date" })
	if dateIdx == -1 {
		return failure(errors.New("no date column found"))
	}

	idIdx := findHeader(headers, anyOf("post id", "tweet id"))
	textIdx := findHeader(headers, anyOf("post text", "tweet text"))
	linkIdx := findHeader(headers, anyOf("post link", "tweet link"))

	metricIdx := make(map[string]int, len(twitterMetricColumns))
	for _, name := range twitterMetricColumns {
		metricIdx[name] = findHeader(headers, func(h string) bool { return h == name })
	}

	var records []analytics.Record
	skipped := 0
	for _, row := range rows[1:] {
		if dateIdx >= len(row) || strings.TrimSpace(row[dateIdx]) == "" {
			skipped++
			continue
		}
		date, err := NormalizeDate(row[dateIdx])
		if err != nil {
			skipped++
			continue
		}

		var m analytics.Metrics
		m.SetStr("post_id", cell(row, idIdx))
		m.SetStr("title", cell(row, textIdx))
		m.SetStr("link", cell(row, linkIdx))

		values := make(map[string]float64, len(twitterMetricColumns))
		for _, name := range twitterMetricColumns {
			values[name] = CleanNumber(cell(row, metricIdx[name]))
		}

		m.SetNum("impressions", values["impressions"])
		m.SetNum("likes", values["likes"])
		m.SetNum("reactions", values["likes"])
		m.SetNum("engagements", values["engagements"])
		m.SetNum("bookmarks", values["bookmarks"])
		m.SetNum("shares", values["shares"])
		m.SetNum("new_follows", values["new follows"])
		m.SetNum("replies", values["replies"])
		m.SetNum("comments", values["replies"])
		m.SetNum("reposts", values["reposts"])
		m.SetNum("profile_visits", values["profile visits"])
		m.SetNum("detail_expands", values["detail expands"])
		m.SetNum("url_clicks", values["url clicks"])
		m.SetNum("hashtag_clicks", values["hashtag clicks"])
		m.SetNum("permalink_clicks", values["permalink clicks"])

		clicks := values["url clicks"] + values["hashtag clicks"] + values["permalink clicks"]
		m.SetNum("clicks", clicks)

		if values["impressions"] > 0 {
			m.SetNum("engagement_rate", values["engagements"]/values["impressions"]*100)
		} else {
			m.SetNum("engagement_rate", 0)
		}

		idPart := cell(row, idIdx)
		if idPart == "" {
			idPart = strconv.Itoa(len(records))
		}
		records = append(records, analytics.Record{
			ID:      fmt.Sprintf("twitter-%s-%s", date, idPart),
			Date:    date,
			Source:  analytics.PlatformTwitter,
			Metrics: m,
		})
	}

	if len(records) == 0 {
		return failure(ErrEmptyResult)
	}

	ds := analytics.Dataset{
		Source:            analytics.PlatformTwitter,
		SubType:           analytics.SubTypeContent,
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

// readCSV parses comma-delimited content tolerantly: ragged rows are
// allowed and quoting is lazy, matching real-world exports.
func readCSV(content string) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader([]byte(content)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

// findHeader returns the index of the first header satisfying pred after
// lowercase/trim normalization, or -1.
func findHeader(headers []string, pred func(string) bool) int {
	for i, h := range headers {
		if pred(strings.ToLower(strings.TrimSpace(h))) {
			return i
		}
	}
	return -1
}

func anyOf(subs ...string) func(string) bool {
	return func(h string) bool {
		for _, sub := range subs {
			if strings.Contains(h, sub) {
				return true
			}
		}
		return false
	}
}

// cell returns row[i] trimmed, or "" when the index is out of range or -1.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
