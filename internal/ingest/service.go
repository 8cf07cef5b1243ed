// Package ingest coordinates the upload pipeline: parse the file, merge
// the resulting dataset into the persisted snapshot, and save it back.
//
// Processing is synchronous and single-flight per call: each upload
// operates on its own buffers and the store is touched only through a
// whole-value load → merge → save cycle. Concurrent uploads racing on the
// same account are out of scope and may lose updates.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/andyalbarracin/condor-dashboard/internal/analytics"
	"github.com/andyalbarracin/condor-dashboard/internal/logging"
	"github.com/andyalbarracin/condor-dashboard/internal/parser"
	"github.com/andyalbarracin/condor-dashboard/internal/store"
)

// Service runs uploads against a snapshot store.
type Service struct {
	store   store.Store
	account string
	history *history
}

// NewService creates a Service persisting under the given account key and
// remembering the last historySize uploads.
func NewService(st store.Store, account string, historySize int) *Service {
	return &Service{
		store:   st,
		account: account,
		history: newHistory(historySize),
	}
}

// UploadOutcome is the result of one processed upload. The embedded
// parse result flattens into the serialized form, so clients see
// {success, data, error, warnings, uploadId, recordCount}.
type UploadOutcome struct {
	UploadID string `json:"uploadId"`
	parser.Result
	RecordCount int `json:"recordCount"`
}

// ProcessUpload parses the uploaded file and, on parse success, folds it
// into the persisted snapshot. A parse failure is reported inside the
// outcome, not as an error; the returned error covers store failures
// only.
func (s *Service) ProcessUpload(ctx context.Context, fileName string, data []byte) (UploadOutcome, error) {
	outcome := UploadOutcome{UploadID: uuid.NewString()}
	log := logging.WithFields(ctx, "upload_id", outcome.UploadID, "file", fileName)

	start := time.Now()
	outcome.Result = parser.ParseFile(data, fileName)
	if !outcome.Result.Success {
		log.Info("upload rejected", "error", outcome.Result.Error, "duration", time.Since(start))
		return outcome, nil
	}

	ds := *outcome.Result.Data
	outcome.RecordCount = len(ds.DataPoints)

	prev, err := s.store.Load(ctx, s.account)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return outcome, fmt.Errorf("load snapshot: %w", err)
	}

	merged := analytics.MergeSnapshot(prev, ds)
	if err := s.store.Save(ctx, s.account, merged); err != nil {
		return outcome, fmt.Errorf("save snapshot: %w", err)
	}

	s.history.add(UploadRecord{
		ID:         outcome.UploadID,
		FileName:   fileName,
		Source:     ds.Source,
		SubType:    ds.SubType,
		Records:    outcome.RecordCount,
		Warnings:   outcome.Result.Warnings,
		UploadedAt: time.Now().UTC(),
	})

	log.Info("upload processed",
		"source", ds.Source,
		"sub_type", ds.SubType,
		"records", outcome.RecordCount,
		"duration", time.Since(start),
	)
	return outcome, nil
}

// Snapshot returns the persisted snapshot for the service account.
func (s *Service) Snapshot(ctx context.Context) (analytics.Snapshot, error) {
	return s.store.Load(ctx, s.account)
}

// Reset clears the persisted snapshot.
func (s *Service) Reset(ctx context.Context) error {
	return s.store.Reset(ctx, s.account)
}

// Ping reports store health.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// History returns the most recent uploads, newest first.
func (s *Service) History() []UploadRecord {
	return s.history.list()
}
