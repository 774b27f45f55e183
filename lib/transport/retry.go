package transport

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
)

// RetryOnTransportError repeats fn until it succeeds, backing off between attempts.
// Only ErrSimulated is retried, any other error is returned at once.
func RetryOnTransportError(ctx context.Context, maxInterval time.Duration, fn func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	if maxInterval > 0 {
		b.MaxInterval = maxInterval
	}
	if b.InitialInterval > b.MaxInterval {
		b.InitialInterval = b.MaxInterval
	}
	b.MaxElapsedTime = 0
	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := fn()
		if err == nil {
			return nil
		}
		if !IsSimulated(err) {
			return backoff.Permanent(err)
		}
		log.WithError(err).WithField("attempt", attempt).Warn("retrying after simulated network failure")
		return err
	}, backoff.WithContext(b, ctx))
}
