package progress

import (
	"context"
	"time"
)

// DefaultTickInterval matches the learning view's 10-second study ticker.
const DefaultTickInterval = 10 * time.Second

// RunTicker drives study-time accounting for an active session until the
// context is cancelled, then performs one final flush so no elapsed whole
// minute is lost on teardown. Blocks; run it in its own goroutine scoped to
// the learning view's lifetime.
func (e *Engine) RunTicker(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			e.UpdateStudyTime()
			return
		case <-t.C:
			e.UpdateStudyTime()
		}
	}
}
