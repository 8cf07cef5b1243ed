package analytics

import "sort"

// dedupKey is the composite key identifying duplicate records across
// merges. Two records with the same date and source are the same logical
// record; the first occurrence wins.
type dedupKey struct {
	date   string
	source Platform
}

// Merge combines a newly parsed dataset with a previously persisted one of
// the same platform/sub-type and returns the merged result. Record lists
// are concatenated (existing first), deduplicated on (date, source) with
// stable first-occurrence-wins order, sorted ascending by date, and the
// date range is recomputed over the survivors.
//
// The dedup pass runs on every merge, including the first one against a
// nil existing dataset, so merging is a fixed point: merge-once equals
// merge-twice even when the incoming file itself carries several records
// sharing a (date, source) key.
//
// Raw header sequences are concatenated without deduplication; header
// maps and metadata merge with the incoming upload's keys winning on
// conflict.
func Merge(existing *Dataset, incoming Dataset) Dataset {
	merged := Dataset{
		Source:  incoming.Source,
		SubType: incoming.SubType,
	}

	var combined []Record
	if existing != nil {
		combined = append(combined, existing.DataPoints...)
	}
	combined = append(combined, incoming.DataPoints...)

	seen := make(map[dedupKey]struct{}, len(combined))
	for _, r := range combined {
		key := dedupKey{date: r.Date, source: r.Source}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		merged.DataPoints = append(merged.DataPoints, r)
	}

	if existing != nil {
		merged.RawHeaders = append(append([]string{}, existing.RawHeaders...), incoming.RawHeaders...)
		merged.NormalizedHeaders = mergeHeaderMaps(existing.NormalizedHeaders, incoming.NormalizedHeaders)
		merged.Metadata = mergeMetadata(existing.Metadata, incoming.Metadata)
	} else {
		merged.RawHeaders = incoming.RawHeaders
		merged.NormalizedHeaders = incoming.NormalizedHeaders
		merged.Metadata = incoming.Metadata
	}

	normalize(&merged)
	return merged
}

// MergeSnapshot folds a newly parsed dataset into the persisted snapshot.
//
// LinkedIn datasets with a bundle sub-type (content, followers, visitors)
// merge into their slot of a MultiDataset; an existing bare LinkedIn
// dataset with a bundle sub-type is promoted into its slot first. All
// other datasets merge against a previous bare dataset of the same
// platform, or replace the snapshot outright.
func MergeSnapshot(prev Snapshot, incoming Dataset) Snapshot {
	if incoming.Source == PlatformLinkedIn {
		if slot := (&MultiDataset{}).Slot(incoming.SubType); slot != nil {
			multi := prev.Multi
			if multi == nil {
				multi = &MultiDataset{}
				if d := prev.Dataset; d != nil && d.Source == PlatformLinkedIn {
					if ps := multi.Slot(d.SubType); ps != nil {
						*ps = d
					}
				}
			}
			target := multi.Slot(incoming.SubType)
			merged := Merge(*target, incoming)
			*target = &merged
			return Snapshot{Multi: multi}
		}
	}

	if d := prev.Dataset; d != nil && d.Source == incoming.Source {
		merged := Merge(d, incoming)
		return Snapshot{Dataset: &merged}
	}
	merged := Merge(nil, incoming)
	return Snapshot{Dataset: &merged}
}

// normalize sorts records ascending by date and recomputes the range.
// Canonical dates compare chronologically as strings.
func normalize(d *Dataset) {
	sort.SliceStable(d.DataPoints, func(i, j int) bool {
		return d.DataPoints[i].Date < d.DataPoints[j].Date
	})
	d.RecomputeDateRange()
}

func mergeHeaderMaps(older, newer map[string]string) map[string]string {
	if older == nil && newer == nil {
		return nil
	}
	out := make(map[string]string, len(older)+len(newer))
	for k, v := range older {
		out[k] = v
	}
	for k, v := range newer {
		out[k] = v
	}
	return out
}

func mergeMetadata(older, newer *Metadata) *Metadata {
	if older == nil {
		return newer
	}
	if newer == nil {
		return older
	}
	out := *older
	if newer.Account != "" {
		out.Account = newer.Account
	}
	if newer.Property != "" {
		out.Property = newer.Property
	}
	if newer.ReportStart != "" {
		out.ReportStart = newer.ReportStart
	}
	if newer.ReportEnd != "" {
		out.ReportEnd = newer.ReportEnd
	}
	if newer.TrafficSources != nil {
		out.TrafficSources = newer.TrafficSources
	}
	return &out
}
