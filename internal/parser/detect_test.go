package parser

import (
	"testing"

	"github.com/andyalbarracin/condor-dashboard/internal/analytics"
)

// ----------------------------------------------------------------------------
// DetectPlatform Tests
// ----------------------------------------------------------------------------

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		filename string
		want     analytics.Platform
	}{
		{
			name:     "twitter via post columns",
			content:  "Date,Post id,Post text,Post link,Impressions\n",
			filename: "account_analytics.csv",
			want:     analytics.PlatformTwitter,
		},
		{
			name:     "twitter via legacy tweet columns",
			content:  "Date,Tweet id,Tweet text,Impressions\n",
			filename: "export.csv",
			want:     analytics.PlatformTwitter,
		},
		{
			name:     "one twitter marker is not enough",
			content:  "Date,Post id,Impressions\n",
			filename: "export.csv",
			want:     analytics.PlatformUnknown,
		},
		{
			name:     "google analytics via preamble marker",
			content:  "# Traffic acquisition: Session campaign\n# Account: Condor\n",
			filename: "data-export.csv",
			want:     analytics.PlatformGoogleAnalytics,
		},
		{
			name:     "google analytics via header run",
			content:  "Session campaign,Sessions,Engaged sessions\n",
			filename: "report.csv",
			want:     analytics.PlatformGoogleAnalytics,
		},
		{
			name:     "linkedin via filename",
			content:  "Date,Impressions\n",
			filename: "linkedin_content_2025.csv",
			want:     analytics.PlatformLinkedIn,
		},
		{
			name:     "linkedin via organic columns",
			content:  "Date,Impressions (organic),Clicks (organic)\n",
			filename: "metrics.csv",
			want:     analytics.PlatformLinkedIn,
		},
		{
			name:     "twitter outranks linkedin filename",
			content:  "Date,Post id,Post text,Post link\n",
			filename: "linkedin-lookalike.csv",
			want:     analytics.PlatformTwitter,
		},
		{
			name:     "nothing recognizable",
			content:  "Date,Widgets\n2025-01-01,5\n",
			filename: "widgets.csv",
			want:     analytics.PlatformUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectPlatform(tt.content, tt.filename); got != tt.want {
				t.Errorf("DetectPlatform() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// DetectWorkbookSubType Tests
// ----------------------------------------------------------------------------

func TestDetectWorkbookSubType(t *testing.T) {
	tests := []struct {
		name   string
		sheets []string
		want   analytics.SubType
		ok     bool
	}{
		{"content workbook", []string{"Metrics", "All posts"}, analytics.SubTypeContent, true},
		{"followers workbook", []string{"New followers", "Location"}, analytics.SubTypeFollowers, true},
		{"visitors workbook", []string{"Visitor metrics", "Visitor demographics"}, analytics.SubTypeVisitors, true},
		{"unknown workbook", []string{"Sheet1"}, "", false},
		{"content beats followers when both present", []string{"All posts", "New followers"}, analytics.SubTypeContent, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DetectWorkbookSubType(tt.sheets)
			if ok != tt.ok || got != tt.want {
				t.Errorf("DetectWorkbookSubType(%v) = (%q, %v), want (%q, %v)", tt.sheets, got, ok, tt.want, tt.ok)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// DetectDelimitedVariant Tests
// ----------------------------------------------------------------------------

func TestDetectDelimitedVariant(t *testing.T) {
	tests := []struct {
		name        string
		headers     []string
		wantSource  analytics.Platform
		wantSubType analytics.SubType
	}{
		{
			name:        "followers export",
			headers:     []string{"Date", "Total followers", "Organic followers"},
			wantSource:  analytics.PlatformLinkedIn,
			wantSubType: analytics.SubTypeFollowers,
		},
		{
			name:        "content export",
			headers:     []string{"Date", "Impressions", "Engagement rate"},
			wantSource:  analytics.PlatformLinkedIn,
			wantSubType: analytics.SubTypeContent,
		},
		{
			name:        "twitter account overview",
			headers:     []string{"Date", "Impressions", "Bookmarks", "Reposts"},
			wantSource:  analytics.PlatformTwitter,
			wantSubType: analytics.SubTypeAccountOverview,
		},
		{
			name:        "default is linkedin content",
			headers:     []string{"Date", "Widgets"},
			wantSource:  analytics.PlatformLinkedIn,
			wantSubType: analytics.SubTypeContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source, subType := DetectDelimitedVariant(tt.headers)
			if source != tt.wantSource || subType != tt.wantSubType {
				t.Errorf("DetectDelimitedVariant() = (%q, %q), want (%q, %q)",
					source, subType, tt.wantSource, tt.wantSubType)
			}
		})
	}
}
