package locking

import (
	"context"
	"time"

	"github.com/go-redsync/redsync/v4"
)

// RedsyncLocker coordinates several processes through redis. The expiry must
// outlast one upstream fetch plus the snapshot write.
type RedsyncLocker struct {
	rs     *redsync.Redsync
	expiry time.Duration
}

func NewRedsyncLocker(rs *redsync.Redsync, expiry time.Duration) *RedsyncLocker {
	return &RedsyncLocker{rs: rs, expiry: expiry}
}

func (l *RedsyncLocker) Lock(ctx context.Context, key string) (func() error, error) {
	mutex := l.rs.NewMutex(key,
		redsync.WithExpiry(l.expiry),
		redsync.WithTries(64),
		redsync.WithRetryDelay(250*time.Millisecond),
	)
	if err := mutex.LockContext(ctx); err != nil {
		return nil, err
	}

	return func() error {
		_, err := mutex.Unlock()
		return err
	}, nil
}
