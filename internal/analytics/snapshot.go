package analytics

import (
	"encoding/json"
	"fmt"
)

// Snapshot is the persisted shape consumed by the presentation layer:
// either a bare Dataset or a MultiDataset bundle. Exactly one of the two
// fields is non-nil in a populated snapshot.
//
// The serialized form is disambiguated structurally: an object carrying
// any of the keys "content", "followers" or "visitors" is a bundle,
// anything else is a bare dataset.
type Snapshot struct {
	Dataset *Dataset
	Multi   *MultiDataset
}

// Empty reports whether the snapshot holds no data at all.
func (s Snapshot) Empty() bool {
	return (s.Dataset == nil || s.Dataset.Empty()) && s.Multi.Empty()
}

// MarshalJSON serializes whichever shape is populated. An empty snapshot
// serializes as JSON null.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	if s.Multi != nil {
		return json.Marshal(s.Multi)
	}
	if s.Dataset != nil {
		return json.Marshal(s.Dataset)
	}
	return []byte("null"), nil
}

// UnmarshalJSON probes the object for bundle keys before deciding the
// target shape.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	s.Dataset = nil
	s.Multi = nil

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if probe == nil {
		return nil
	}

	_, hasContent := probe["content"]
	_, hasFollowers := probe["followers"]
	_, hasVisitors := probe["visitors"]
	if hasContent || hasFollowers || hasVisitors {
		s.Multi = &MultiDataset{}
		return json.Unmarshal(data, s.Multi)
	}

	s.Dataset = &Dataset{}
	return json.Unmarshal(data, s.Dataset)
}
