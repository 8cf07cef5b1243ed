package parser

import (
	"strings"

	"github.com/andyalbarracin/condor-dashboard/internal/analytics"
)

// platformRule pairs a detection predicate with the platform it implies.
// Rules form an ordered precedence chain: the most specific, least
// ambiguous marker sets come first, because platforms share vocabulary
// ("impressions" appears in several schemas) and a loose single-keyword
// check evaluated early would misclassify. The first matching rule wins.
type platformRule struct {
	name     string
	platform analytics.Platform
	match    func(content, filename string) bool
}

// twitterColumnMarkers identify X/Twitter exports by their characteristic
// column trio. Both the "post" and older "tweet" spellings count.
var twitterColumnMarkers = [][]string{
	{"post id", "tweet id"},
	{"post text", "tweet text"},
	{"post link", "tweet link"},
}

// gaMarkers are specific to Google Analytics 4 traffic exports. They must
// stay narrow so GA is never confused with Twitter, which shares generic
// metric vocabulary.
var gaMarkers = []string{
	"traffic acquisition:",
	"session primary channel",
	"# account:",
	"# property:",
	"session campaign,sessions,engaged sessions",
}

var platformRules = []platformRule{
	{
		name:     "twitter column trio",
		platform: analytics.PlatformTwitter,
		match: func(content, _ string) bool {
			hits := 0
			for _, alternatives := range twitterColumnMarkers {
				for _, marker := range alternatives {
					if strings.Contains(content, marker) {
						hits++
						break
					}
				}
			}
			return hits >= 2
		},
	},
	{
		name:     "google analytics markers",
		platform: analytics.PlatformGoogleAnalytics,
		match: func(content, _ string) bool {
			for _, marker := range gaMarkers {
				if strings.Contains(content, marker) {
					return true
				}
			}
			return false
		},
	},
	{
		name:     "linkedin filename",
		platform: analytics.PlatformLinkedIn,
		match: func(_, filename string) bool {
			return strings.Contains(filename, "linkedin")
		},
	},
	{
		name:     "linkedin organic columns",
		platform: analytics.PlatformLinkedIn,
		match: func(content, _ string) bool {
			return strings.Contains(content, "impressions (organic)") ||
				strings.Contains(content, "engagement rate (organic)")
		},
	},
}

// DetectPlatform classifies decoded file content plus filename into a
// platform via the ordered precedence chain. Returns PlatformUnknown when
// nothing matches; the caller then falls back to the generic parser.
func DetectPlatform(content, filename string) analytics.Platform {
	lowerContent := strings.ToLower(content)
	lowerName := strings.ToLower(filename)

	for _, rule := range platformRules {
		if rule.match(lowerContent, lowerName) {
			return rule.platform
		}
	}
	return analytics.PlatformUnknown
}

// sheetRule pairs a sheet-name marker with the LinkedIn schema variant it
// implies. Evaluated in order; first match wins.
type sheetRule struct {
	markers []string
	subType analytics.SubType
}

var sheetRules = []sheetRule{
	{[]string{"metrics", "all post"}, analytics.SubTypeContent},
	{[]string{"new follower"}, analytics.SubTypeFollowers},
	{[]string{"visitor"}, analytics.SubTypeVisitors},
}

// DetectWorkbookSubType classifies a LinkedIn workbook by its sheet
// names. Returns false when no sheet matches any known variant.
func DetectWorkbookSubType(sheetNames []string) (analytics.SubType, bool) {
	lower := make([]string, len(sheetNames))
	for i, n := range sheetNames {
		lower[i] = strings.ToLower(n)
	}
	for _, rule := range sheetRules {
		for _, name := range lower {
			for _, marker := range rule.markers {
				if strings.Contains(name, marker) {
					return rule.subType, true
				}
			}
		}
	}
	return "", false
}

// DetectDelimitedVariant classifies a delimited export by its header row
// when content-level detection already failed or was skipped. It always
// produces an answer; linkedin/content is the historical default for
// generic engagement CSVs.
func DetectDelimitedVariant(headers []string) (analytics.Platform, analytics.SubType) {
	joined := strings.ToLower(strings.Join(headers, " "))

	switch {
	case strings.Contains(joined, "followers"):
		return analytics.PlatformLinkedIn, analytics.SubTypeFollowers
	case strings.Contains(joined, "impressions") && strings.Contains(joined, "engagement rate"):
		return analytics.PlatformLinkedIn, analytics.SubTypeContent
	case strings.Contains(joined, "bookmarks") || strings.Contains(joined, "reposts"):
		return analytics.PlatformTwitter, analytics.SubTypeAccountOverview
	default:
		return analytics.PlatformLinkedIn, analytics.SubTypeContent
	}
}
