package worker

import (
	"context"
	"time"

	"github.com/okian/prode/internal/adapters/mq/queue"
	"github.com/okian/prode/pkg/logger"
	"github.com/okian/prode/pkg/metrics"
)

// Enqueuer accepts refresh jobs.
type Enqueuer interface {
	Enqueue(ctx context.Context, j queue.Job) bool
}

// Schedule enqueues every month once, then again on each interval tick
// until ctx is done. A non-positive interval schedules the startup pass only.
func Schedule(ctx context.Context, q Enqueuer, months []string, interval time.Duration, l logger.Logger) {
	if l == nil {
		l = logger.Discard()
	}
	enqueueAll(ctx, q, months, "startup", l)
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			enqueueAll(ctx, q, months, "interval", l)
		}
	}
}

func enqueueAll(ctx context.Context, q Enqueuer, months []string, reason string, l logger.Logger) {
	for _, m := range months {
		if !q.Enqueue(ctx, queue.Job{Month: m, Reason: reason}) {
			metrics.RecordRefreshJob("dropped", 0)
			l.Warn(ctx, "refresh job dropped", logger.String("month", m), logger.String("reason", reason))
		}
	}
}
