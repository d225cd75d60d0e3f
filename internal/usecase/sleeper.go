package usecase

import (
	"context"
	"time"
)

// Sleeper pauses a batch driver between records.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// ContextSleeper waits on a timer and wakes early when ctx is done.
type ContextSleeper struct{}

// Sleep returns ctx.Err() if the context ends before d elapses.
func (ContextSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
