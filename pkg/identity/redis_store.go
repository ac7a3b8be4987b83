package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/painelhub/accesskit/pkg/authz"
)

// Redis infrastructure errors.
var (
	ErrInvalidRedisConfig = errors.New("identity.invalid_redis_config")
	ErrRedisUnavailable   = errors.New("identity.redis_unavailable")
)

// RedisConfig configures the connection for the Redis session store.
type RedisConfig struct {
	ConnectionURL string        `env:"ACCESSKIT_REDIS_URL,required"`
	RetryAttempts int           `env:"ACCESSKIT_REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval time.Duration `env:"ACCESSKIT_REDIS_RETRY_INTERVAL" envDefault:"5s"`
	KeyPrefix     string        `env:"ACCESSKIT_REDIS_KEY_PREFIX" envDefault:"accesskit:session:"`
}

// ConnectRedis establishes a Redis client, retrying so a briefly
// unavailable server does not fail startup.
func ConnectRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrInvalidRedisConfig, err)
	}

	for range cfg.RetryAttempts {
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrRedisUnavailable, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}

	return nil, ErrRedisUnavailable
}

// RedisSessionStore implements SessionStore on a Redis client. Sessions are
// stored as JSON values and expiry is delegated entirely to key TTLs, so an
// expired session is indistinguishable from an unknown one.
type RedisSessionStore struct {
	client *redis.Client
	prefix string
}

// NewRedisSessionStore creates a store over an established client.
func NewRedisSessionStore(client *redis.Client, prefix string) *RedisSessionStore {
	return &RedisSessionStore{
		client: client,
		prefix: prefix,
	}
}

// Save stores the session under the token with the TTL as key expiry.
func (r *RedisSessionStore) Save(ctx context.Context, token string, session *authz.Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := r.client.Set(ctx, r.prefix+token, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Get returns the session for the token. TTL-lapsed keys are gone from
// Redis, so they surface as ErrSessionNotFound.
func (r *RedisSessionStore) Get(ctx context.Context, token string) (*authz.Session, error) {
	data, err := r.client.Get(ctx, r.prefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session authz.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}

// Delete removes the session. Unknown tokens are a no-op.
func (r *RedisSessionStore) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, r.prefix+token).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Compile-time interface assertion
var _ SessionStore = (*RedisSessionStore)(nil)
