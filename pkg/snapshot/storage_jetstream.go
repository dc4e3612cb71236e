package snapshot

import (
	"context"
	"errors"
	"math"

	"github.com/caarlos0/env/v11"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rotisserie/eris"
)

const (
	currentObjectName  = "snapshot"
	previousObjectName = "snapshot.previous"
)

// JetStreamStorage keeps snapshots in a NATS JetStream object store bucket.
type JetStreamStorage struct {
	os     jetstream.ObjectStore
	conn   *nats.Conn
	ownsNC bool // Whether Close should close conn
}

var _ Storage = (*JetStreamStorage)(nil)

// NewJetStreamStorage creates a JetStream object store backed snapshot storage. Unset options
// are read from the environment. If Conn is nil a connection is opened to URL.
func NewJetStreamStorage(ctx context.Context, opts JetStreamStorageOptions) (*JetStreamStorage, error) {
	fromEnv := jetStreamEnv{}
	if err := env.Parse(&fromEnv); err != nil {
		return nil, eris.Wrap(err, "failed to parse env")
	}
	if opts.URL == "" {
		opts.URL = fromEnv.URL
	}
	if opts.Bucket == "" {
		opts.Bucket = fromEnv.Bucket
	}
	if opts.MaxBytes == 0 {
		opts.MaxBytes = fromEnv.MaxBytes
	}

	if err := opts.Validate(); err != nil {
		return nil, eris.Wrap(err, "invalid options passed")
	}

	conn, ownsNC := opts.Conn, false
	if conn == nil {
		var err error
		conn, err = nats.Connect(opts.URL, nats.Name("reactor-snapshot"))
		if err != nil {
			return nil, eris.Wrapf(err, "failed to connect to nats at %s", opts.URL)
		}
		ownsNC = true
	}

	storage, err := newJetStreamStorage(ctx, conn, opts)
	if err != nil {
		if ownsNC {
			conn.Close()
		}
		return nil, err
	}
	storage.ownsNC = ownsNC
	return storage, nil
}

func newJetStreamStorage(ctx context.Context, conn *nats.Conn, opts JetStreamStorageOptions) (*JetStreamStorage, error) {
	js, err := jetstream.New(conn)
	if err != nil {
		return nil, eris.Wrap(err, "failed to create JetStream client")
	}

	osConfig := jetstream.ObjectStoreConfig{
		Bucket:   opts.Bucket,
		MaxBytes: int64(opts.MaxBytes), //nolint:gosec // Checked by Validate
	}
	os, err := js.CreateObjectStore(ctx, osConfig)
	if err != nil {
		if !errors.Is(err, jetstream.ErrBucketExists) {
			return nil, eris.Wrapf(err, "failed to create object store (bucket=%s, maxBytes=%d)",
				osConfig.Bucket, osConfig.MaxBytes)
		}
		os, err = js.ObjectStore(ctx, opts.Bucket)
		if err != nil {
			return nil, eris.Wrapf(err, "failed to get existing object store (bucket=%s)", opts.Bucket)
		}
	}
	return &JetStreamStorage{os: os, conn: conn}, nil
}

func (j *JetStreamStorage) Store(ctx context.Context, snapshot *Snapshot) error {
	data, err := marshalEnvelope(snapshot)
	if err != nil {
		return err
	}

	// The object store has no multi-object transactions. Writing the backup first means a failure
	// between the two puts leaves the current snapshot untouched.
	previous, err := j.os.GetBytes(ctx, currentObjectName)
	switch {
	case err == nil:
		if _, err = j.os.PutBytes(ctx, previousObjectName, previous); err != nil {
			return eris.Wrap(err, "failed to back up current snapshot")
		}
	case !errors.Is(err, jetstream.ErrObjectNotFound):
		return eris.Wrap(err, "failed to read current snapshot")
	}

	if _, err = j.os.PutBytes(ctx, currentObjectName, data); err != nil {
		return eris.Wrap(err, "failed to store snapshot in object store")
	}
	return nil
}

func (j *JetStreamStorage) Load(ctx context.Context) (*Snapshot, error) {
	return j.load(ctx, currentObjectName)
}

// LoadPrevious retrieves the snapshot that was replaced by the latest Store.
func (j *JetStreamStorage) LoadPrevious(ctx context.Context) (*Snapshot, error) {
	return j.load(ctx, previousObjectName)
}

func (j *JetStreamStorage) load(ctx context.Context, name string) (*Snapshot, error) {
	data, err := j.os.GetBytes(ctx, name)
	if errors.Is(err, jetstream.ErrObjectNotFound) {
		return nil, eris.Wrapf(ErrSnapshotNotFound, "object %s", name)
	}
	if err != nil {
		return nil, eris.Wrap(err, "failed to get snapshot from object store")
	}
	return unmarshalEnvelope(data)
}

// Close closes the NATS connection if the storage opened it.
func (j *JetStreamStorage) Close() error {
	if j.ownsNC {
		j.conn.Close()
	}
	return nil
}

// -------------------------------------------------------------------------------------------------
// Options
// -------------------------------------------------------------------------------------------------

// JetStreamStorageOptions configures a JetStreamStorage. Empty fields fall back to the environment.
type JetStreamStorageOptions struct {
	// Optional connection. URL is ignored when set.
	Conn *nats.Conn

	URL    string
	Bucket string

	// Maximum bytes for the bucket, 0 means unlimited. Required by some NATS providers.
	MaxBytes uint64
}

type jetStreamEnv struct {
	URL      string `env:"REACTOR_NATS_URL" envDefault:"nats://127.0.0.1:4222"`
	Bucket   string `env:"REACTOR_SNAPSHOT_BUCKET" envDefault:"reactor_snapshot"`
	MaxBytes uint64 `env:"REACTOR_SNAPSHOT_MAX_BYTES" envDefault:"0"`
}

func (opt *JetStreamStorageOptions) Validate() error {
	if opt.Conn == nil && opt.URL == "" {
		return eris.New("nats url cannot be empty")
	}
	if opt.Bucket == "" {
		return eris.New("snapshot bucket cannot be empty")
	}
	if opt.MaxBytes > math.MaxInt64 {
		return eris.New("snapshot max bytes exceeds maximum int64 value")
	}
	return nil
}
