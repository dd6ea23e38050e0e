package processor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vibe-gaming/bmr-reminder/internal/queue/task"
	"github.com/vibe-gaming/bmr-reminder/internal/worker"

	"github.com/hibiken/asynq"
)

type sendNotificationProcessor struct {
	workers *worker.Workers
}

func NewSendNotificationProcessor(workers *worker.Workers) *sendNotificationProcessor {
	return &sendNotificationProcessor{
		workers: workers,
	}
}

func (p *sendNotificationProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var data task.SendNotification
	if err := json.Unmarshal(t.Payload(), &data); err != nil {
		return fmt.Errorf("process send notification task json unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}

	if err := p.workers.EmailSender.Send(ctx, data.Notification()); err != nil {
		return fmt.Errorf("send %s notification failed: %w", data.Kind, err)
	}

	return nil
}
