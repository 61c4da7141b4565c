package tasks

import (
	"context"
	"log/slog"
)

type PruneRateLimitsTask struct {
	Task
	limiter Pruner
}

func NewPruneRateLimitsTask(limiter Pruner) *PruneRateLimitsTask {
	return &PruneRateLimitsTask{
		Task:    NewTask(TaskTypePruneRateLimits),
		limiter: limiter,
	}
}

func (t *PruneRateLimitsTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	removed := t.limiter.Prune()

	slog.Debug("Task completed",
		"type", string(t.Type),
		"removed_keys", removed,
		"remaining_keys", t.limiter.Len(),
		"duration", t.GetDuration())

	return nil
}
