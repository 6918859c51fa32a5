// Package poller runs the repeating fetch-and-project cycles that keep the
// display in sync with the cooking-session server.
//
// Every poller runs its body, then waits a fixed interval, then repeats
// until its context is cancelled. The wait starts after the body returns,
// so a slow or failing fetch never shortens or skips it. Fetch failures are
// projected as placeholder text and logged; they never stop a poller. A
// fetch cut short by the poller's own cancellation projects nothing.
package poller

import (
	"context"
	"time"
)

// Fixed cadences.
const (
	TimerInterval    = 1 * time.Second
	StatusInterval   = 2 * time.Second
	ProgressInterval = 2 * time.Second
)

// stopping reports whether a fetch failed because the poller is shutting
// down. Such failures are not projected.
func stopping(ctx context.Context, err error) bool {
	return err != nil && ctx.Err() != nil
}

// cycle runs body, sleeps interval, and repeats until ctx is done.
func cycle(ctx context.Context, interval time.Duration, body func(context.Context)) {
	for {
		if ctx.Err() != nil {
			return
		}
		body(ctx)

		t := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
	}
}
