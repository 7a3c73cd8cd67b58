// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"time"
)

// BackoffBaseDelay is the starting delay for Retry. Tests override this
// to avoid real sleeps.
var BackoffBaseDelay = 500 * time.Millisecond

// BackoffMaxDelay caps the delay between Retry attempts.
var BackoffMaxDelay = 10 * time.Second

// Retry calls fn up to 1+retries times, doubling the delay between
// attempts starting from BackoffBaseDelay and capping at BackoffMaxDelay.
// It returns nil on the first success, the last error after the final
// attempt, or ctx.Err() if the context is cancelled during a wait.
func Retry(ctx context.Context, retries int, fn func() error) error {
	if retries < 0 {
		retries = 0
	}

	delay := BackoffBaseDelay
	var err error
	for attempt := 0; ; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt >= retries {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if delay > BackoffMaxDelay {
			delay = BackoffMaxDelay
		}
	}
}
