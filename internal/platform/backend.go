// Package platform opens the storage and signalling backends selected by configuration.
// Both the HTTP server and the admin CLI build their services on top of a Backend.
package platform

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/training-registration-api/internal/realtime"
	"github.com/noah-isme/training-registration-api/pkg/config"
	"github.com/noah-isme/training-registration-api/pkg/database"
	"github.com/noah-isme/training-registration-api/pkg/redisconn"
	"github.com/noah-isme/training-registration-api/pkg/storage"
)

// ErrUnknownDriver is returned when STORAGE_DRIVER or NOTIFIER_DRIVER names no known backend.
var ErrUnknownDriver = errors.New("unknown driver")

// Check reports whether one dependency is reachable.
type Check func(ctx context.Context) error

// Backend bundles the blob store with the connections it was opened on.
type Backend struct {
	Store    storage.BlobStore
	Notifier realtime.Notifier
	Redis    *redis.Client
	DB       *sqlx.DB

	key    string
	logger *zap.Logger
}

// Open connects the configured storage and notifier drivers. observe, when set, receives the
// latency of every blob operation.
func Open(ctx context.Context, cfg *config.Config, observe storage.Observer, logger *zap.Logger) (*Backend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Backend{key: cfg.Storage.Key, logger: logger}

	store, err := b.openStore(ctx, cfg)
	if err != nil {
		b.Close()
		return nil, err
	}
	b.Store = storage.Instrument(store, observe)

	notifier, err := b.openNotifier(ctx, cfg)
	if err != nil {
		b.Close()
		return nil, err
	}
	b.Notifier = notifier

	logger.Info("backend ready",
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.String("notifier_driver", cfg.Dashboard.NotifierDriver),
		zap.String("storage_key", cfg.Storage.Key),
	)
	return b, nil
}

func (b *Backend) openStore(ctx context.Context, cfg *config.Config) (storage.BlobStore, error) {
	switch cfg.Storage.Driver {
	case "", config.StorageDriverMemory:
		return storage.NewMemoryStorage(), nil
	case config.StorageDriverFile:
		return storage.NewLocalStorage(cfg.Storage.Dir)
	case config.StorageDriverRedis:
		client, err := b.redisClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return storage.NewRedisStorage(client), nil
	case config.StorageDriverPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		b.DB = db
		store := storage.NewPostgresStorage(db)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("storage %q: %w", cfg.Storage.Driver, ErrUnknownDriver)
	}
}

func (b *Backend) openNotifier(ctx context.Context, cfg *config.Config) (realtime.Notifier, error) {
	switch cfg.Dashboard.NotifierDriver {
	case "", config.NotifierDriverLocal:
		return realtime.NewLocalNotifier(), nil
	case config.NotifierDriverRedis:
		client, err := b.redisClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return realtime.NewRedisNotifier(client, b.logger), nil
	default:
		return nil, fmt.Errorf("notifier %q: %w", cfg.Dashboard.NotifierDriver, ErrUnknownDriver)
	}
}

// redisClient dials Redis once and shares the client between storage and notifier.
func (b *Backend) redisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if b.Redis != nil {
		return b.Redis, nil
	}
	client, err := redisconn.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	b.Redis = client
	return client, nil
}

// Checks returns the readiness probes for every open connection.
func (b *Backend) Checks() map[string]Check {
	checks := map[string]Check{
		"storage": func(ctx context.Context) error {
			if _, err := b.Store.Get(ctx, b.key); err != nil && !errors.Is(err, storage.ErrNotFound) {
				return err
			}
			return nil
		},
	}
	if b.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return b.Redis.Ping(ctx).Err()
		}
	}
	if b.DB != nil {
		checks["postgres"] = func(ctx context.Context) error {
			return b.DB.PingContext(ctx)
		}
	}
	return checks
}

// Close releases the connections. It is safe on a partially opened backend.
func (b *Backend) Close() {
	if b.Redis != nil {
		if err := b.Redis.Close(); err != nil {
			b.logger.Warn("close redis", zap.Error(err))
		}
	}
	if b.DB != nil {
		if err := b.DB.Close(); err != nil {
			b.logger.Warn("close postgres", zap.Error(err))
		}
	}
}
