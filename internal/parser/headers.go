package parser

import "strings"

// headerRule pairs an ordered predicate with the canonical metric key it
// yields. Rules are evaluated top to bottom and the first match wins, so
// multi-condition rules (followers + sponsored) must precede the looser
// single-condition rules (followers) they overlap with. Swapping two
// overlapping rules changes the mapping; the order below is load-bearing.
type headerRule struct {
	key   string
	match func(h string) bool
}

func contains(subs ...string) func(string) bool {
	return func(h string) bool {
		for _, sub := range subs {
			if !strings.Contains(h, sub) {
				return false
			}
		}
		return true
	}
}

func containsNone(fn func(string) bool, excluded ...string) func(string) bool {
	return func(h string) bool {
		if !fn(h) {
			return false
		}
		for _, sub := range excluded {
			if strings.Contains(h, sub) {
				return false
			}
		}
		return true
	}
}

var headerRules = []headerRule{
	{"date", contains("date")},
	{"sponsored_followers", contains("followers", "sponsored")},
	{"organic_followers", contains("followers", "organic")},
	{"auto_invited_followers", contains("followers", "auto")},
	{"total_followers", containsNone(contains("followers"), "sponsored", "organic")},
	{"impressions_organic", contains("impressions", "organic")},
	{"impressions_sponsored", contains("impressions", "sponsored")},
	{"impressions_total", contains("impressions", "total")},
	{"impressions", contains("impressions")},
	{"clicks_organic", contains("clicks", "organic")},
	{"clicks_sponsored", contains("clicks", "sponsored")},
	{"clicks", contains("clicks")},
	{"reactions_organic", contains("reactions", "organic")},
	{"reactions", contains("reactions")},
	{"comments_organic", contains("comments", "organic")},
	{"comments", contains("comments")},
	{"reposts_organic", contains("reposts", "organic")},
	{"reposts", contains("reposts")},
	{"engagement_rate_organic", contains("engagement rate", "organic")},
	{"engagement_rate", contains("engagement rate")},
	{"likes", contains("likes")},
	{"engagements", contains("engagements")},
	{"bookmarks", contains("bookmarks")},
	{"shares", contains("shares")},
	{"new_follows", contains("new follows")},
	{"unfollows", contains("unfollows")},
	{"replies", contains("replies")},
	{"profile_visits", contains("profile visits")},
	{"video_views", contains("video views")},
}

// MapHeaders maps each raw column header to its canonical metric key via
// the ordered rule table. A header matching no rule falls back to a
// lowercase/underscore slug of itself, so every raw column is guaranteed
// a canonical key.
func MapHeaders(headers []string) map[string]string {
	m := make(map[string]string, len(headers))
	for _, h := range headers {
		m[h] = CanonicalKey(h)
	}
	return m
}

// CanonicalKey maps one raw header to its canonical metric key.
func CanonicalKey(header string) string {
	normalized := strings.ToLower(strings.TrimSpace(header))
	for _, rule := range headerRules {
		if rule.match(normalized) {
			return rule.key
		}
	}
	return slugKey(normalized)
}

// slugKey lowercases and underscore-joins a header that matched no rule.
func slugKey(normalized string) string {
	return strings.Join(strings.Fields(normalized), "_")
}
