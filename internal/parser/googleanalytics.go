package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/andyalbarracin/condor-dashboard/internal/analytics"
)

// gaHeaderPrefix starts the real header line of a GA4 traffic-acquisition
// export; everything above it is a commented preamble.
const gaHeaderPrefix = "Session campaign"

// ParseGoogleAnalytics parses a Google Analytics 4 traffic-acquisition
// CSV. The export carries a preamble with the account, property, and
// reporting range, then one row per session campaign. Each row becomes a
// traffic-source metadata entry plus one record dated at the range end
// (campaign rows have no date of their own). Engagement rates arrive as
// fractions and are scaled to percentages.
func ParseGoogleAnalytics(content string) Result {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line != "" {
			lines = append(lines, line)
		}
	}

	var startDate, endDate, account, property string
	for _, line := range lines {
		switch {
		case strings.Contains(line, "Start date:"):
			startDate = afterColon(line)
		case strings.Contains(line, "End date:"):
			endDate = afterColon(line)
		case strings.Contains(line, "Account:"):
			account = afterColon(line)
		case strings.Contains(line, "Property:"):
			property = afterColon(line)
		}
	}

	headerIdx := -1
	for i, line := range lines {
		if strings.HasPrefix(line, gaHeaderPrefix) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return failure(&StructureError{Detail: "no " + gaHeaderPrefix + " header line"})
	}

	headers := splitDelimitedLine(lines[headerIdx], ',')
	endDate = normalizeCompactDate(endDate)
	startDate = normalizeCompactDate(startDate)
	if endDate == "" {
		return failure(errors.New("no reporting date range in file"))
	}

	var sources []analytics.TrafficSource
	var records []analytics.Record
	for i, line := range lines[headerIdx+1:] {
		if strings.HasPrefix(line, "#") {
			continue
		}
		values := splitDelimitedLine(line, ',')
		if len(values) != len(headers) || len(values) < 10 {
			continue
		}

		campaign := values[0]
		if campaign == "" {
			campaign = "(not set)"
		}
		ts := analytics.TrafficSource{
			Campaign:            campaign,
			Sessions:            CleanNumber(values[1]),
			EngagedSessions:     CleanNumber(values[2]),
			EngagementRate:      CleanNumber(values[3]),
			AvgEngagementTime:   CleanNumber(values[4]),
			EventsPerSession:    CleanNumber(values[5]),
			EventCount:          CleanNumber(values[6]),
			KeyEvents:           CleanNumber(values[7]),
			SessionKeyEventRate: CleanNumber(values[8]),
			TotalRevenue:        CleanNumber(values[9]),
		}
		sources = append(sources, ts)

		var m analytics.Metrics
		m.SetStr("campaign", ts.Campaign)
		m.SetNum("sessions", ts.Sessions)
		m.SetNum("engaged_sessions", ts.EngagedSessions)
		m.SetNum("engagement_rate", ts.EngagementRate*100)
		m.SetNum("avg_engagement_time", ts.AvgEngagementTime)
		m.SetNum("events_per_session", ts.EventsPerSession)
		m.SetNum("event_count", ts.EventCount)
		m.SetNum("key_events", ts.KeyEvents)
		m.SetNum("session_key_event_rate", ts.SessionKeyEventRate*100)
		m.SetNum("total_revenue", ts.TotalRevenue)

		records = append(records, analytics.Record{
			ID:      fmt.Sprintf("ga-%d", i),
			Date:    endDate,
			Source:  analytics.PlatformGoogleAnalytics,
			Metrics: m,
		})
	}

	if len(records) == 0 {
		return failure(ErrEmptyResult)
	}

	ds := analytics.Dataset{
		Source:            analytics.PlatformGoogleAnalytics,
		DataPoints:        records,
		RawHeaders:        headers,
		NormalizedHeaders: MapHeaders(headers),
		// Campaign rows are undated, so every record is pinned to the
		// range end and DateRange follows the records like everywhere
		// else. The declared preamble range survives in the metadata.
		Metadata: &analytics.Metadata{
			Account:        account,
			Property:       property,
			ReportStart:    startDate,
			ReportEnd:      endDate,
			TrafficSources: sources,
		},
	}
	sortDataset(&ds)
	return success(ds)
}

// afterColon returns the trimmed remainder after the first colon.
func afterColon(line string) string {
	_, rest, ok := strings.Cut(line, ":")
	if !ok {
		return ""
	}
	return strings.TrimSpace(rest)
}
