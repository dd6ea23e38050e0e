package processor

import (
	"context"
	"fmt"

	"github.com/vibe-gaming/bmr-reminder/internal/worker"

	"github.com/hibiken/asynq"
)

type scheduleRemindersProcessor struct {
	workers *worker.Workers
}

func NewScheduleRemindersProcessor(workers *worker.Workers) *scheduleRemindersProcessor {
	return &scheduleRemindersProcessor{
		workers: workers,
	}
}

// ProcessTask fails only when the due list could not be read. Per-reminder
// problems are left for the next run.
func (p *scheduleRemindersProcessor) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	if _, err := p.workers.ReminderScheduler.Run(ctx); err != nil {
		return fmt.Errorf("schedule reminders failed: %w", err)
	}

	return nil
}
