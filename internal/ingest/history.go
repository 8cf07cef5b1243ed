package ingest

import (
	"sync"
	"time"

	"github.com/andyalbarracin/condor-dashboard/internal/analytics"
)

// UploadRecord describes one accepted upload.
type UploadRecord struct {
	ID         string             `json:"id"`
	FileName   string             `json:"fileName"`
	Source     analytics.Platform `json:"source"`
	SubType    analytics.SubType  `json:"subType,omitempty"`
	Records    int                `json:"records"`
	Warnings   []string           `json:"warnings,omitempty"`
	UploadedAt time.Time          `json:"uploadedAt"`
}

// history is a bounded in-process log of accepted uploads. It is not
// persisted; it exists so the UI can show what was uploaded this session.
type history struct {
	mu      sync.Mutex
	entries []UploadRecord
	limit   int
}

func newHistory(limit int) *history {
	if limit <= 0 {
		limit = 1
	}
	return &history{limit: limit}
}

// add prepends a record, evicting the oldest beyond the limit.
func (h *history) add(rec UploadRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append([]UploadRecord{rec}, h.entries...)
	if len(h.entries) > h.limit {
		h.entries = h.entries[:h.limit]
	}
}

// list returns a copy of the entries, newest first.
func (h *history) list() []UploadRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]UploadRecord, len(h.entries))
	copy(out, h.entries)
	return out
}
