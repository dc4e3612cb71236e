package snapshot

import (
	"context"
	"strings"
	"time"

	"github.com/argus-labs/reactor/pkg/ecs"
	"github.com/rotisserie/eris"
)

// Snapshot is a point-in-time capture of a world's serializable entities.
type Snapshot struct {
	Tick      uint64    `json:"tick"`
	Timestamp time.Time `json:"timestamp"`
	Data      []byte    `json:"data"`
	Version   uint32    `json:"version"`
}

const CurrentVersion uint32 = 1

var ErrSnapshotNotFound = eris.New("snapshot not found")

// Take captures the world. The world should be reconciled first if removed entities must not
// appear, though entities already flagged as removed are skipped either way.
func Take(w *ecs.World, tick uint64, now time.Time) (*Snapshot, error) {
	data, err := Encode(w)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Tick: tick, Timestamp: now, Data: data, Version: CurrentVersion}, nil
}

// Restore adds the entities in the snapshot to w.
func Restore(w *ecs.World, s *Snapshot) error {
	if s.Version != CurrentVersion {
		return eris.Errorf("unsupported snapshot version %d, expected %d", s.Version, CurrentVersion)
	}
	return Decode(w, s.Data)
}

// Storage provides persistence for world snapshots.
// Implementations handle atomic storage with automatic backup of previous snapshots.
type Storage interface {
	// Store saves the snapshot, atomically replacing any existing snapshot.
	// The previous snapshot should be preserved as backup if possible.
	Store(ctx context.Context, snapshot *Snapshot) error

	// Load retrieves the current snapshot.
	// Returns ErrSnapshotNotFound if no snapshot exists.
	Load(ctx context.Context) (*Snapshot, error)
}

// StorageType defines the type of snapshot storage to use.
type StorageType uint8

const (
	StorageTypeUndefined StorageType = iota
	StorageTypeNop
	StorageTypeRedis
	StorageTypeJetStream
)

const (
	nopStorageString       = "NOP"
	redisStorageString     = "REDIS"
	jetStreamStorageString = "JETSTREAM"
	undefinedStorageString = "UNDEFINED"
)

func (s StorageType) String() string {
	switch s {
	case StorageTypeUndefined:
		return undefinedStorageString
	case StorageTypeNop:
		return nopStorageString
	case StorageTypeRedis:
		return redisStorageString
	case StorageTypeJetStream:
		return jetStreamStorageString
	default:
		return undefinedStorageString
	}
}

func (s StorageType) IsValid() bool {
	return s == StorageTypeNop || s == StorageTypeRedis || s == StorageTypeJetStream
}

func ParseStorageType(s string) (StorageType, error) {
	switch strings.ToUpper(s) {
	case nopStorageString:
		return StorageTypeNop, nil
	case redisStorageString:
		return StorageTypeRedis, nil
	case jetStreamStorageString:
		return StorageTypeJetStream, nil
	default:
		return StorageTypeUndefined, eris.Errorf("invalid snapshot storage type: %s", s)
	}
}

// NewStorage creates the storage selected by the environment.
func NewStorage(ctx context.Context) (Storage, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	storageType, _ := ParseStorageType(cfg.StorageType) // Checked by loadConfig
	switch storageType {
	case StorageTypeNop:
		return NewNopStorage(), nil
	case StorageTypeRedis:
		return NewRedisStorage(RedisStorageOptions{})
	case StorageTypeJetStream:
		return NewJetStreamStorage(ctx, JetStreamStorageOptions{})
	case StorageTypeUndefined:
	}
	return nil, eris.Errorf("unsupported snapshot storage type %s", storageType)
}
