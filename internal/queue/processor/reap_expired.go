package processor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vibe-gaming/bmr-reminder/internal/queue/task"
	"github.com/vibe-gaming/bmr-reminder/internal/worker"

	"github.com/hibiken/asynq"
)

type reapExpiredProcessor struct {
	workers *worker.Workers
}

func NewReapExpiredProcessor(workers *worker.Workers) *reapExpiredProcessor {
	return &reapExpiredProcessor{
		workers: workers,
	}
}

func (p *reapExpiredProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var data task.ReapExpired
	if err := json.Unmarshal(t.Payload(), &data); err != nil {
		return fmt.Errorf("process reap expired task json unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}

	if _, err := p.workers.Reaper.Run(ctx, data.Purpose); err != nil {
		return fmt.Errorf("reap expired %s codes failed: %w", data.Purpose, err)
	}

	return nil
}
