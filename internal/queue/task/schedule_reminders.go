package task

import (
	"github.com/hibiken/asynq"
)

const (
	ScheduleRemindersTaskName = "reminders:schedule"
	MaintenanceQueueName      = "maintenance"
)

// NewScheduleRemindersTask carries no payload; a run handles whatever is due
// when it starts.
func NewScheduleRemindersTask() *asynq.Task {
	return asynq.NewTask(
		ScheduleRemindersTaskName,
		nil,
		asynq.MaxRetry(0),
		asynq.Queue(MaintenanceQueueName),
	)
}
