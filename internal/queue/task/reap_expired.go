package task

import (
	"encoding/json"
	"fmt"

	"github.com/vibe-gaming/bmr-reminder/internal/domain"

	"github.com/hibiken/asynq"
)

const ReapExpiredTaskName = "codes:reap_expired"

type ReapExpired struct {
	Purpose domain.CodePurpose `json:"purpose"`
}

func NewReapExpiredTask(purpose domain.CodePurpose) (*asynq.Task, error) {
	if !purpose.Valid() {
		return nil, fmt.Errorf("unknown code purpose %q", purpose)
	}

	payload, err := json.Marshal(ReapExpired{Purpose: purpose})
	if err != nil {
		return nil, fmt.Errorf("json data marshal failed: %w", err)
	}

	return asynq.NewTask(
		ReapExpiredTaskName,
		payload,
		asynq.MaxRetry(0),
		asynq.Queue(MaintenanceQueueName),
	), nil
}
