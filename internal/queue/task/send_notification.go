package task

import (
	"encoding/json"
	"fmt"

	"github.com/vibe-gaming/bmr-reminder/internal/domain"

	"github.com/hibiken/asynq"
)

const (
	SendNotificationTaskName  = "notification:send"
	SendNotificationQueueName = "notifications"
)

type SendNotification struct {
	Kind  domain.NotificationKind `json:"kind"`
	Email string                  `json:"email"`
	SubID int64                   `json:"sub_id"`
	Code  int64                   `json:"code"`
}

func (p SendNotification) Notification() domain.Notification {
	return domain.Notification{
		Kind:  p.Kind,
		Email: p.Email,
		SubID: p.SubID,
		Code:  p.Code,
	}
}

func NewSendNotificationTask(n domain.Notification, maxRetry int) (*asynq.Task, error) {
	if !n.Kind.Valid() {
		return nil, fmt.Errorf("unknown notification kind %q", n.Kind)
	}

	data := SendNotification{
		Kind:  n.Kind,
		Email: n.Email,
		SubID: n.SubID,
		Code:  n.Code,
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("json data marshal failed: %w", err)
	}

	return asynq.NewTask(
		SendNotificationTaskName,
		payload,
		asynq.MaxRetry(maxRetry),
		asynq.Queue(SendNotificationQueueName),
	), nil
}
