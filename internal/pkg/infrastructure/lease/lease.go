// Package lease serialises writes of the same music event across handler
// instances. A lease is held for the duration of one upsert.
package lease

import (
	"context"
	"fmt"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
)

const DefaultTTL = 30 * time.Second

// Lease is a held write lock on Key. Token proves ownership on Renew and
// Release.
type Lease struct {
	Key       string
	Token     string
	ExpiresAt time.Time
}

// Manager hands out leases. Acquire fails with errors.ErrLeaseConflict while
// another holder owns the key.
type Manager interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (*Lease, error)
	Renew(ctx context.Context, lease *Lease, ttl time.Duration) (*Lease, error)
	Release(ctx context.Context, lease *Lease) error
}

// Do runs fn while holding the lease on key. The lease is renewed every half
// ttl until fn returns and is released even when fn fails. If a renewal fails
// the context passed to fn is cancelled and Do returns the renewal error.
func Do(ctx context.Context, m Manager, key string, ttl time.Duration, fn func(ctx context.Context) error) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	l, err := m.Acquire(ctx, key, ttl)
	if err != nil {
		return err
	}

	defer func() {
		if releaseErr := m.Release(context.WithoutCancel(ctx), l); releaseErr != nil {
			logging.GetFromContext(ctx).Warn("failed to release write lease", "key", key, "err", releaseErr.Error())
		}
	}()

	fnCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	done := make(chan struct{})
	renewerStopped := make(chan struct{})

	go func() {
		defer close(renewerStopped)
		keepAlive(fnCtx, m, l, ttl, done, cancel)
	}()

	err = fn(fnCtx)

	close(done)
	<-renewerStopped

	if cause := context.Cause(fnCtx); cause != nil && cause != context.Canceled && ctx.Err() == nil {
		return cause
	}

	return err
}

func keepAlive(ctx context.Context, m Manager, l *Lease, ttl time.Duration, done <-chan struct{}, cancel context.CancelCauseFunc) {
	ticker := time.NewTicker(ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.Renew(ctx, l, ttl); err != nil {
				logging.GetFromContext(ctx).Warn("failed to renew write lease", "key", l.Key, "err", err.Error())
				cancel(fmt.Errorf("lost write lease on %s: %w", l.Key, err))
				return
			}
		}
	}
}
