package snapshot

import (
	"context"

	"github.com/rotisserie/eris"
)

// NopStorage discards snapshots. It is the default when REACTOR_SNAPSHOT_STORAGE is unset.
type NopStorage struct{}

var _ Storage = (*NopStorage)(nil)

// NewNopStorage creates a new no-op snapshot storage.
func NewNopStorage() *NopStorage {
	return &NopStorage{}
}

func (n *NopStorage) Store(_ context.Context, _ *Snapshot) error {
	return nil
}

func (n *NopStorage) Load(_ context.Context) (*Snapshot, error) {
	return nil, eris.Wrap(ErrSnapshotNotFound, "no snapshots available (using no-op storage)")
}

// LoadPrevious never finds a backup.
func (n *NopStorage) LoadPrevious(_ context.Context) (*Snapshot, error) {
	return nil, eris.Wrap(ErrSnapshotNotFound, "no backup available (using no-op storage)")
}

// Close is a no-op.
func (n *NopStorage) Close() error { return nil }
