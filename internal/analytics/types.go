// Package analytics defines the canonical data model produced by the
// ingestion pipeline: normalized records, datasets, and multi-dataset
// bundles. This package has no parser or HTTP dependencies and can be
// consumed by any frontend.
package analytics

// Platform identifies the originating analytics platform of a record.
type Platform string

const (
	PlatformLinkedIn        Platform = "linkedin"
	PlatformTwitter         Platform = "twitter"
	PlatformInstagram       Platform = "instagram"
	PlatformTikTok          Platform = "tiktok"
	PlatformGoogleAnalytics Platform = "google-analytics"
	PlatformUnknown         Platform = "unknown"
)

// SubType identifies a platform-specific schema variant, e.g. a LinkedIn
// content export vs. a LinkedIn followers export.
type SubType string

const (
	SubTypeContent         SubType = "content"
	SubTypeFollowers       SubType = "followers"
	SubTypeVisitors        SubType = "visitors"
	SubTypeAccountOverview SubType = "account_overview"
)

// Record is one fully normalized (date, source, metrics) tuple.
// Date is always a canonical YYYY-MM-DD string; metric keys are canonical
// (lowercase, underscore-separated) after header mapping.
type Record struct {
	ID      string   `json:"id,omitempty"`
	Date    string   `json:"date"`
	Source  Platform `json:"source"`
	Metrics Metrics  `json:"metrics"`
}

// DateRange is the inclusive (min, max) date span of a dataset.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// TrafficSource is one per-campaign row from a Google Analytics
// traffic-acquisition export, carried in dataset metadata.
type TrafficSource struct {
	Campaign            string  `json:"campaign"`
	Sessions            float64 `json:"sessions"`
	EngagedSessions     float64 `json:"engaged_sessions"`
	EngagementRate      float64 `json:"engagement_rate"`
	AvgEngagementTime   float64 `json:"avg_engagement_time"`
	EventsPerSession    float64 `json:"events_per_session"`
	EventCount          float64 `json:"event_count"`
	KeyEvents           float64 `json:"key_events"`
	SessionKeyEventRate float64 `json:"session_key_event_rate"`
	TotalRevenue        float64 `json:"total_revenue"`
}

// Metadata carries auxiliary export information that is not part of the
// time series itself.
type Metadata struct {
	Account        string          `json:"account,omitempty"`
	Property       string          `json:"property,omitempty"`
	ReportStart    string          `json:"reportStart,omitempty"`
	ReportEnd      string          `json:"reportEnd,omitempty"`
	TrafficSources []TrafficSource `json:"trafficSources,omitempty"`
}

// Dataset is one coherent normalized time series plus header metadata for
// a single platform/sub-type.
//
// Invariants: DataPoints is sorted ascending by date, and DateRange equals
// (min date, max date) over DataPoints. An empty DataPoints slice leaves
// DateRange zero; callers must check before using it.
type Dataset struct {
	Source            Platform          `json:"source"`
	SubType           SubType           `json:"subType,omitempty"`
	DataPoints        []Record          `json:"dataPoints"`
	RawHeaders        []string          `json:"rawHeaders"`
	NormalizedHeaders map[string]string `json:"normalizedHeaders"`
	DateRange         DateRange         `json:"dateRange"`
	Metadata          *Metadata         `json:"metadata,omitempty"`
}

// Empty reports whether the dataset holds no records.
func (d *Dataset) Empty() bool {
	return d == nil || len(d.DataPoints) == 0
}

// RecomputeDateRange resets DateRange to (min, max) over DataPoints.
// DataPoints must already be sorted ascending by date.
func (d *Dataset) RecomputeDateRange() {
	if len(d.DataPoints) == 0 {
		d.DateRange = DateRange{}
		return
	}
	d.DateRange = DateRange{
		Start: d.DataPoints[0].Date,
		End:   d.DataPoints[len(d.DataPoints)-1].Date,
	}
}

// MultiDataset bundles up to three LinkedIn datasets (content, followers,
// visitors) for one account. At least one slot is non-nil in a valid
// bundle; consumers distinguish it from a bare Dataset structurally by
// the presence of any of these keys.
type MultiDataset struct {
	Content   *Dataset `json:"content,omitempty"`
	Followers *Dataset `json:"followers,omitempty"`
	Visitors  *Dataset `json:"visitors,omitempty"`
}

// Slot returns a pointer to the bundle slot for the given sub-type, or
// nil when the sub-type has no slot (e.g. account_overview).
func (m *MultiDataset) Slot(st SubType) **Dataset {
	switch st {
	case SubTypeContent:
		return &m.Content
	case SubTypeFollowers:
		return &m.Followers
	case SubTypeVisitors:
		return &m.Visitors
	default:
		return nil
	}
}

// Empty reports whether no slot is populated.
func (m *MultiDataset) Empty() bool {
	return m == nil || (m.Content == nil && m.Followers == nil && m.Visitors == nil)
}
