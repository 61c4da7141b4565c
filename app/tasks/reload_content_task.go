package tasks

import (
	"context"
	"fmt"
	"log/slog"
)

type ReloadContentTask struct {
	Task
	content Reloader
}

func NewReloadContentTask(content Reloader) *ReloadContentTask {
	return &ReloadContentTask{
		Task:    NewTask(TaskTypeReloadContent),
		content: content,
	}
}

func (t *ReloadContentTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := t.content.Run(); err != nil {
		return fmt.Errorf("failed to reload content: %w", err)
	}

	slog.Info("Task completed",
		"type", string(t.Type),
		"posts", t.content.GetPostCount(),
		"duration", t.GetDuration())

	return nil
}
