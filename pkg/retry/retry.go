package retry

import (
	"context"
	"errors"
	"time"

	"github.com/ADVAN-ELAA-34207421/tools-tradefederation/pkg/poolerrors"
)

var errNoAttempts = errors.New("retry: Attempts must be > 0")

// Config controls the behavior of Do.
type Config struct {
	Attempts int           // required, must be > 0
	Interval time.Duration // sleep between attempts
}

// Do calls fn up to cfg.Attempts times, sleeping cfg.Interval between
// attempts. It stops early if ctx is done or if fn returns an error whose
// poolerrors.Kind is not TransientAdb (i.e. not worth retrying).
func Do(ctx context.Context, cfg Config, fn func() error) error {
	if cfg.Attempts <= 0 {
		return errNoAttempts
	}

	var lastErr error
	for attempt := 0; attempt < cfg.Attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !poolerrors.IsRetryable(lastErr) {
			return lastErr
		}
		if attempt == cfg.Attempts-1 {
			break
		}
		if err := ContextSleep(ctx, cfg.Interval); err != nil {
			return poolerrors.Cancel(err)
		}
	}
	return lastErr
}

// ContextSleep waits for d or until ctx is done, whichever comes first.
// Returns ctx.Err() if the context was cancelled first.
func ContextSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
