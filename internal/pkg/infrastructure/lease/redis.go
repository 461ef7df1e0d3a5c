package lease

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/lukas-kratochvil/music-event-connect/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "mec:lease:"

// RedisManager coordinates writers across processes. Acquire is SET NX PX,
// renew and release are Lua scripts that only touch the key while it still
// holds the caller's token.
type RedisManager struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisManager(client redis.UniversalClient, prefix string) (*RedisManager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if strings.TrimSpace(prefix) == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisManager{client: client, prefix: prefix}, nil
}

func (m *RedisManager) Acquire(ctx context.Context, key string, ttl time.Duration) (*Lease, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("lease key cannot be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	token, err := randomToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	ok, err := m.client.SetNX(ctx, m.key(key), token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lease %s: %w", key, err)
	}
	if !ok {
		return nil, errors.NewLeaseConflictError(key)
	}

	return &Lease{Key: key, Token: token, ExpiresAt: now.Add(ttl)}, nil
}

func (m *RedisManager) Renew(ctx context.Context, lease *Lease, ttl time.Duration) (*Lease, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if lease == nil || strings.TrimSpace(lease.Key) == "" || strings.TrimSpace(lease.Token) == "" {
		return nil, fmt.Errorf("valid lease is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := time.Now().UTC()
	res, err := renewScript.Run(ctx, m.client, []string{m.key(lease.Key)}, lease.Token, ttl.Milliseconds()).Int()
	if err != nil {
		return nil, fmt.Errorf("failed to renew lease %s: %w", lease.Key, err)
	}
	if res != 1 {
		return nil, errors.NewLeaseConflictError(lease.Key)
	}

	return &Lease{Key: lease.Key, Token: lease.Token, ExpiresAt: now.Add(ttl)}, nil
}

// Release frees the lease if it is still owned by lease.Token. It does not
// use the caller's context, a cancelled job must still free its key.
func (m *RedisManager) Release(_ context.Context, lease *Lease) error {
	if lease == nil || strings.TrimSpace(lease.Key) == "" || strings.TrimSpace(lease.Token) == "" {
		return nil
	}

	releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := releaseScript.Run(releaseCtx, m.client, []string{m.key(lease.Key)}, lease.Token).Int()
	return err
}

func (m *RedisManager) key(key string) string {
	return m.prefix + key
}

func randomToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate random token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

var renewScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if current == ARGV[1] then
  redis.call('PEXPIRE', KEYS[1], ARGV[2])
  return 1
end
return 0
`)

var releaseScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if current == ARGV[1] then
  redis.call('DEL', KEYS[1])
  return 1
end
return 0
`)
