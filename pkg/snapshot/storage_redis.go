package snapshot

import (
	"context"
	"errors"

	"github.com/caarlos0/env/v11"
	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
)

// maxStoreAttempts bounds the optimistic transaction retries of RedisStorage.Store.
const maxStoreAttempts = 16

// RedisStorage keeps the latest snapshot under one key and the one before it under a backup key.
type RedisStorage struct {
	client *redis.Client
	key    string
}

var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a Redis-backed snapshot storage. Unset options are read from the
// environment. If Client is nil a client is created from Address and Password.
func NewRedisStorage(opts RedisStorageOptions) (*RedisStorage, error) {
	fromEnv := redisEnv{}
	if err := env.Parse(&fromEnv); err != nil {
		return nil, eris.Wrap(err, "failed to parse env")
	}
	if opts.Address == "" {
		opts.Address = fromEnv.Address
	}
	if opts.Password == "" {
		opts.Password = fromEnv.Password
	}
	if opts.Key == "" {
		opts.Key = fromEnv.Key
	}

	if err := opts.Validate(); err != nil {
		return nil, eris.Wrap(err, "invalid options passed")
	}

	client := opts.Client
	if client == nil {
		client = redis.NewClient(&redis.Options{
			Addr:     opts.Address,
			Password: opts.Password,
			DB:       0,
		})
	}
	return &RedisStorage{client: client, key: opts.Key}, nil
}

func (r *RedisStorage) backupKey() string {
	return r.key + ":previous"
}

func (r *RedisStorage) Store(ctx context.Context, snapshot *Snapshot) error {
	data, err := marshalEnvelope(snapshot)
	if err != nil {
		return err
	}

	// WATCH makes the read of the current snapshot part of the MULTI/EXEC that replaces it. A
	// concurrent Store between the two fails the transaction, which is then retried.
	swap := func(tx *redis.Tx) error {
		previous, err := tx.Get(ctx, r.key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return eris.Wrap(err, "failed to read current snapshot")
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if previous != nil {
				pipe.Set(ctx, r.backupKey(), previous, 0)
			}
			pipe.Set(ctx, r.key, data, 0)
			return nil
		})
		return err
	}

	for range maxStoreAttempts {
		err = r.client.Watch(ctx, swap, r.key)
		if err == nil {
			return nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return eris.Wrap(err, "failed to store snapshot")
		}
	}
	return eris.Errorf("failed to store snapshot: key %s kept changing after %d attempts", r.key, maxStoreAttempts)
}

func (r *RedisStorage) Load(ctx context.Context) (*Snapshot, error) {
	return r.load(ctx, r.key)
}

// LoadPrevious retrieves the snapshot that was replaced by the latest Store.
func (r *RedisStorage) LoadPrevious(ctx context.Context) (*Snapshot, error) {
	return r.load(ctx, r.backupKey())
}

func (r *RedisStorage) load(ctx context.Context, key string) (*Snapshot, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, eris.Wrapf(ErrSnapshotNotFound, "key %s", key)
	}
	if err != nil {
		return nil, eris.Wrap(err, "failed to get snapshot from redis")
	}
	return unmarshalEnvelope(data)
}

// Close closes the underlying client.
func (r *RedisStorage) Close() error {
	return eris.Wrap(r.client.Close(), "failed to close redis client")
}

// -------------------------------------------------------------------------------------------------
// Options
// -------------------------------------------------------------------------------------------------

// RedisStorageOptions configures a RedisStorage. Empty fields fall back to the environment.
type RedisStorageOptions struct {
	// Optional pre-built client. Address and Password are ignored when set.
	Client *redis.Client

	Address  string
	Password string
	Key      string
}

type redisEnv struct {
	Address  string `env:"REACTOR_REDIS_ADDRESS" envDefault:"localhost:6379"`
	Password string `env:"REACTOR_REDIS_PASSWORD"`
	Key      string `env:"REACTOR_SNAPSHOT_KEY" envDefault:"reactor:snapshot"`
}

func (opt *RedisStorageOptions) Validate() error {
	if opt.Client == nil && opt.Address == "" {
		return eris.New("redis address cannot be empty")
	}
	if opt.Key == "" {
		return eris.New("snapshot key cannot be empty")
	}
	return nil
}
