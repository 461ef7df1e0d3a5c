package lease

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lukas-kratochvil/music-event-connect/pkg/errors"
)

type record struct {
	token     string
	expiresAt time.Time
}

// InMemoryManager coordinates the writers of a single process
type InMemoryManager struct {
	mu       sync.Mutex
	leases   map[string]record
	tokenSeq atomic.Uint64
}

func NewInMemoryManager() *InMemoryManager {
	return &InMemoryManager{
		leases: make(map[string]record),
	}
}

func (m *InMemoryManager) Acquire(ctx context.Context, key string, ttl time.Duration) (*Lease, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if key == "" {
		return nil, fmt.Errorf("lease key cannot be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := time.Now().UTC()

	m.mu.Lock()
	defer m.mu.Unlock()

	if rec, ok := m.leases[key]; ok && now.Before(rec.expiresAt) {
		return nil, errors.NewLeaseConflictError(key)
	}

	token := fmt.Sprintf("%s-%d-%d", key, now.UnixNano(), m.tokenSeq.Add(1))
	expiresAt := now.Add(ttl)
	m.leases[key] = record{token: token, expiresAt: expiresAt}

	return &Lease{Key: key, Token: token, ExpiresAt: expiresAt}, nil
}

func (m *InMemoryManager) Renew(ctx context.Context, lease *Lease, ttl time.Duration) (*Lease, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if lease == nil || lease.Key == "" || lease.Token == "" {
		return nil, fmt.Errorf("valid lease is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := time.Now().UTC()

	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.leases[lease.Key]
	if !ok || rec.token != lease.Token || !now.Before(rec.expiresAt) {
		return nil, errors.NewLeaseConflictError(lease.Key)
	}

	expiresAt := now.Add(ttl)
	m.leases[lease.Key] = record{token: lease.Token, expiresAt: expiresAt}

	return &Lease{Key: lease.Key, Token: lease.Token, ExpiresAt: expiresAt}, nil
}

func (m *InMemoryManager) Release(ctx context.Context, lease *Lease) error {
	if lease == nil || lease.Key == "" || lease.Token == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if rec, ok := m.leases[lease.Key]; ok && rec.token == lease.Token {
		delete(m.leases, lease.Key)
	}
	return nil
}
