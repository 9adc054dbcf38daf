package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gomokuarena/backend/internal/config"
	"github.com/gomokuarena/backend/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

// Cache wraps the redis client for the two things the server caches:
// auth sessions and game snapshots for polling.
type Cache struct {
	client *redis.Client
}

// New connects to redis. The connection is verified eagerly so a
// misconfigured address fails at startup rather than on first use.
func New(ctx context.Context, cfg config.Redis) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis unreachable: %w", err)
	}
	return &Cache{client: client}, nil
}

// NewWithClient wires an existing client, used by tests with miniredis.
func NewWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Close() error {
	return c.client.Close()
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

func snapshotKey(gameID string) string {
	return "game:snapshot:" + gameID
}

// PutSession stores an auth session id -> user id mapping with a TTL.
func (c *Cache) PutSession(ctx context.Context, sessionID string, userID int64, ttl time.Duration) error {
	return c.client.Set(ctx, sessionKey(sessionID), userID, ttl).Err()
}

// GetSession resolves a session id to the user holding it.
func (c *Cache) GetSession(ctx context.Context, sessionID string) (int64, error) {
	userID, err := c.client.Get(ctx, sessionKey(sessionID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, ErrCacheMiss
	}
	return userID, err
}

// DeleteSession revokes a session (logout).
func (c *Cache) DeleteSession(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, sessionKey(sessionID)).Err()
}

// PutSnapshot caches a serialized game snapshot.
func (c *Cache) PutSnapshot(ctx context.Context, snap domain.Snapshot, ttl time.Duration) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return c.client.Set(ctx, snapshotKey(snap.GameID), raw, ttl).Err()
}

// GetSnapshot returns a cached snapshot, or ErrCacheMiss.
func (c *Cache) GetSnapshot(ctx context.Context, gameID string) (domain.Snapshot, error) {
	raw, err := c.client.Get(ctx, snapshotKey(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Snapshot{}, ErrCacheMiss
	}
	if err != nil {
		return domain.Snapshot{}, err
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snap, nil
}
