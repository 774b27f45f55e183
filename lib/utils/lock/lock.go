package lock

import (
	"context"
	"sync"
	"time"
)

const pollInterval = 20 * time.Millisecond

var lockMap sync.Map

// WithDelay runs safeCode while holding the named lock. It waits up to wait for
// a running holder to finish and reports success=false when the lock was not taken.
func WithDelay(ctx context.Context, key string, wait time.Duration, safeCode func() error) (success bool, err error) {
	timeout := time.NewTimer(wait)
	defer timeout.Stop()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		if _, loaded := lockMap.LoadOrStore(key, struct{}{}); !loaded {
			break
		}
		select {
		case <-timeout.C:
			return false, nil
		case <-ctx.Done():
			return false, ctx.Err()
		case <-ticker.C:
		}
	}
	defer lockMap.Delete(key)
	return true, safeCode()
}
