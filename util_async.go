package flow

import (
	"context"
	"time"
)

// execAsyncItemWithRetry mirrors execItemWithRetry for the cooperative
// async lifecycle: the inter-attempt wait is a context-aware suspension
// rather than a blocking sleep, so a cancelled context aborts a pending
// backoff immediately instead of blocking the caller.
func execAsyncItemWithRetry(
	ctx context.Context,
	maxRetries int,
	wait time.Duration,
	execFn func(context.Context, interface{}) (interface{}, error),
	fallbackFn func(context.Context, interface{}, error) (interface{}, error),
	prep interface{},
	attemptSink *int,
) (interface{}, error) {
	max := maxRetries
	if max < 1 {
		max = 1
	}
	var lastErr error
	for attempt := 0; attempt < max; attempt++ {
		if attemptSink != nil {
			*attemptSink = attempt
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if execFn == nil {
			return nil, nil
		}
		res, err := execFn(ctx, prep)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if attempt == max-1 {
			if fallbackFn != nil {
				return fallbackFn(ctx, prep, err)
			}
			return nil, err
		}
		if wait > 0 {
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}
