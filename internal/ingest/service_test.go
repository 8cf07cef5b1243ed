package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/andyalbarracin/condor-dashboard/internal/analytics"
	"github.com/andyalbarracin/condor-dashboard/internal/store"
)

const twitterCSV = `Date,Post id,Post text,Post link,Impressions,Engagements
"Wed, Jul 23, 2025",1,"launch",https://x.com/1,1000,50
"Thu, Jul 24, 2025",2,"followup",https://x.com/2,500,10
`

func newTestService() *Service {
	return NewService(store.NewMemory(), "default", 10)
}

func TestProcessUpload_Success(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	outcome, err := svc.ProcessUpload(ctx, "twitter.csv", []byte(twitterCSV))
	if err != nil {
		t.Fatalf("ProcessUpload error = %v", err)
	}
	if !outcome.Result.Success {
		t.Fatalf("parse failed: %s", outcome.Result.Error)
	}
	if outcome.UploadID == "" {
		t.Error("no upload id assigned")
	}
	if outcome.RecordCount != 2 {
		t.Errorf("recordCount = %d, want 2", outcome.RecordCount)
	}

	snap, err := svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot error = %v", err)
	}
	if snap.Dataset == nil || snap.Dataset.Source != analytics.PlatformTwitter {
		t.Errorf("stored snapshot = %+v", snap)
	}

	uploads := svc.History()
	if len(uploads) != 1 {
		t.Fatalf("history has %d entries, want 1", len(uploads))
	}
	if uploads[0].FileName != "twitter.csv" || uploads[0].Records != 2 {
		t.Errorf("history entry = %+v", uploads[0])
	}
}

func TestProcessUpload_MergesSequentialUploads(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	if _, err := svc.ProcessUpload(ctx, "twitter.csv", []byte(twitterCSV)); err != nil {
		t.Fatalf("first upload error = %v", err)
	}

	second := strings.Replace(twitterCSV, "Jul 23", "Jul 25", 1)
	second = strings.Replace(second, "Jul 24", "Jul 26", 1)
	if _, err := svc.ProcessUpload(ctx, "twitter2.csv", []byte(second)); err != nil {
		t.Fatalf("second upload error = %v", err)
	}

	snap, err := svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot error = %v", err)
	}
	if got := len(snap.Dataset.DataPoints); got != 4 {
		t.Errorf("got %d merged records, want 4", got)
	}
	if snap.Dataset.DateRange.Start != "2025-07-23" || snap.Dataset.DateRange.End != "2025-07-26" {
		t.Errorf("dateRange = %+v", snap.Dataset.DateRange)
	}
}

func TestProcessUpload_DuplicateUploadIsStable(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	for i := 0; i < 2; i++ {
		if _, err := svc.ProcessUpload(ctx, "twitter.csv", []byte(twitterCSV)); err != nil {
			t.Fatalf("upload %d error = %v", i, err)
		}
	}

	snap, err := svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot error = %v", err)
	}
	if got := len(snap.Dataset.DataPoints); got != 2 {
		t.Errorf("got %d records after duplicate upload, want 2", got)
	}
}

func TestProcessUpload_ParseFailureDoesNotTouchStore(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	outcome, err := svc.ProcessUpload(ctx, "report.pdf", []byte("not a csv"))
	if err != nil {
		t.Fatalf("ProcessUpload error = %v", err)
	}
	if outcome.Result.Success {
		t.Fatal("want parse failure")
	}
	if outcome.Result.Error == "" {
		t.Error("failure carries no message")
	}

	if _, err := svc.Snapshot(ctx); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Snapshot error = %v, want ErrNotFound", err)
	}
	if len(svc.History()) != 0 {
		t.Error("rejected upload recorded in history")
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	if _, err := svc.ProcessUpload(ctx, "twitter.csv", []byte(twitterCSV)); err != nil {
		t.Fatalf("upload error = %v", err)
	}
	if err := svc.Reset(ctx); err != nil {
		t.Fatalf("Reset error = %v", err)
	}
	if _, err := svc.Snapshot(ctx); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Snapshot after reset error = %v, want ErrNotFound", err)
	}
}

func TestHistory_Bounded(t *testing.T) {
	h := newHistory(2)
	for _, id := range []string{"a", "b", "c"} {
		h.add(UploadRecord{ID: id})
	}

	got := h.list()
	if len(got) != 2 {
		t.Fatalf("history has %d entries, want 2", len(got))
	}
	if got[0].ID != "c" || got[1].ID != "b" {
		t.Errorf("history order = %v, want newest first with oldest evicted", got)
	}
}
