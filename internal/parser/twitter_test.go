package parser

import (
	"strings"
	"testing"

	"github.com/andyalbarracin/condor-dashboard/internal/analytics"
)

const twitterExport = `Date,Post id,Post text,Post link,Impressions,Likes,Engagements,Bookmarks,Shares,New follows,Replies,Reposts,Profile visits,Detail expands,Url clicks,Hashtag clicks,Permalink clicks
"Wed, Jul 23, 2025",1948475,"Launch day!",https://x.com/i/status/1948475,1000,40,50,3,2,1,5,8,12,20,6,1,3
"Thu, Jul 24, 2025",1948476,"Follow-up",https://x.com/i/status/1948476,500,10,0,0,0,0,2,1,4,5,0,0,0
`

func TestParseTwitter(t *testing.T) {
	res := ParseTwitter(twitterExport)
	if !res.Success {
		t.Fatalf("ParseTwitter failed: %s", res.Error)
	}
	ds := res.Data

	if ds.Source != analytics.PlatformTwitter {
		t.Errorf("source = %q, want twitter", ds.Source)
	}
	if ds.SubType != analytics.SubTypeContent {
		t.Errorf("subType = %q, want content", ds.SubType)
	}
	if len(ds.DataPoints) != 2 {
		t.Fatalf("got %d records, want 2", len(ds.DataPoints))
	}

	first := ds.DataPoints[0]
	if first.Date != "2025-07-23" {
		t.Errorf("date = %q, want 2025-07-23", first.Date)
	}
	if first.ID != "twitter-2025-07-23-1948475" {
		t.Errorf("id = %q", first.ID)
	}

	m := first.Metrics
	if v, _ := m.Get("post_id"); v.Text != "1948475" {
		t.Errorf("post_id = %q", v.Text)
	}
	if v, _ := m.Get("title"); v.Text != "Launch day!" {
		t.Errorf("title = %q", v.Text)
	}
	if got := m.Float("impressions"); got != 1000 {
		t.Errorf("impressions = %v, want 1000", got)
	}

	// Aliases mirror their source columns.
	if m.Float("reactions") != m.Float("likes") {
		t.Errorf("reactions = %v, likes = %v, want equal", m.Float("reactions"), m.Float("likes"))
	}
	if m.Float("comments") != m.Float("replies") {
		t.Errorf("comments = %v, replies = %v, want equal", m.Float("comments"), m.Float("replies"))
	}

	// clicks aggregates url + hashtag + permalink clicks.
	if got := m.Float("clicks"); got != 10 {
		t.Errorf("clicks = %v, want 10", got)
	}

	// engagement_rate scales to a percentage.
	if got := m.Float("engagement_rate"); got != 5 {
		t.Errorf("engagement_rate = %v, want 5", got)
	}
}

func TestParseTwitter_ZeroImpressionsRate(t *testing.T) {
	content := strings.Join([]string{
		"Date,Post id,Post text,Post link,Impressions,Engagements",
		`"Wed, Jul 23, 2025",42,"quiet post",https://x.com/i/status/42,0,0`,
	}, "\n")

	res := ParseTwitter(content)
	if !res.Success {
		t.Fatalf("ParseTwitter failed: %s", res.Error)
	}
	if got := res.Data.DataPoints[0].Metrics.Float("engagement_rate"); got != 0 {
		t.Errorf("engagement_rate = %v, want 0", got)
	}
}

func TestParseTwitter_LegacyTweetColumns(t *testing.T) {
	content := strings.Join([]string{
		"Date,Tweet id,Tweet text,Tweet link,Impressions",
		`"Wed, Jul 23, 2025",99,"old export",https://twitter.com/i/status/99,100`,
	}, "\n")

	res := ParseTwitter(content)
	if !res.Success {
		t.Fatalf("ParseTwitter failed: %s", res.Error)
	}
	m := res.Data.DataPoints[0].Metrics
	if v, _ := m.Get("post_id"); v.Text != "99" {
		t.Errorf("post_id = %q, want 99", v.Text)
	}
}

func TestParseTwitter_MissingPostIDFallsBackToIndex(t *testing.T) {
	content := strings.Join([]string{
		"Date,Post id,Post text,Post link,Impressions",
		`"Wed, Jul 23, 2025",,"anonymous",https://x.com/x,100`,
	}, "\n")

	res := ParseTwitter(content)
	if !res.Success {
		t.Fatalf("ParseTwitter failed: %s", res.Error)
	}
	if got := res.Data.DataPoints[0].ID; got != "twitter-2025-07-23-0" {
		t.Errorf("id = %q, want twitter-2025-07-23-0", got)
	}
}

func TestParseTwitter_SkipsBadDates(t *testing.T) {
	content := strings.Join([]string{
		"Date,Post id,Post text,Post link,Impressions",
		`garbage,1,"a",https://x.com/1,100`,
		`"Thu, Jul 24, 2025",2,"b",https://x.com/2,200`,
	}, "\n")

	res := ParseTwitter(content)
	if !res.Success {
		t.Fatalf("ParseTwitter failed: %s", res.Error)
	}
	if len(res.Data.DataPoints) != 1 {
		t.Fatalf("got %d records, want 1", len(res.Data.DataPoints))
	}
	if len(res.Warnings) != 1 {
		t.Errorf("warnings = %v, want one skip warning", res.Warnings)
	}
}

func TestParseTwitter_Failures(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"header only", "Date,Post id,Post text,Post link"},
		{"no date column", "Post id,Post text,Post link\n1,a,b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if res := ParseTwitter(tt.content); res.Success {
				t.Errorf("ParseTwitter(%q) succeeded, want failure", tt.content)
			}
		})
	}
}
