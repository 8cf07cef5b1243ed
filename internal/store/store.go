// Package store persists the merged analytics snapshot for an account.
//
// Access is a whole-value read-modify-write cycle: load the current
// snapshot, merge the new upload in memory, store the merged value. There
// is no fine-grained locking and no multi-writer guarantee; the design
// assumes one interactive user issuing sequential uploads, and concurrent
// saves to the same account are last-write-wins.
package store

import (
	"context"
	"errors"

	"github.com/andyalbarracin/condor-dashboard/internal/analytics"
)

// ErrNotFound is returned by Load when the account has no stored
// snapshot yet.
var ErrNotFound = errors.New("snapshot not found")

// Store loads and saves analytics snapshots keyed by account.
type Store interface {
	Load(ctx context.Context, account string) (analytics.Snapshot, error)
	Save(ctx context.Context, account string, snap analytics.Snapshot) error
	Reset(ctx context.Context, account string) error
	Ping(ctx context.Context) error
}
