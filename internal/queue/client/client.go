package client

import (
	"context"
	"fmt"

	"github.com/vibe-gaming/bmr-reminder/internal/config"
	"github.com/vibe-gaming/bmr-reminder/internal/domain"
	"github.com/vibe-gaming/bmr-reminder/internal/queue/task"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Enqueuer is the part of *asynq.Client the queue client relies on.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, t *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Client puts notifications on the asynq notification queue.
type Client struct {
	enqueuer Enqueuer
	maxRetry int
	logger   *zap.Logger
}

func New(enqueuer Enqueuer, cfg config.Queue, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		enqueuer: enqueuer,
		maxRetry: cfg.MaxRetry,
		logger:   logger,
	}
}

func (c *Client) Enqueue(ctx context.Context, notification domain.Notification) error {
	t, err := task.NewSendNotificationTask(notification, c.maxRetry)
	if err != nil {
		return fmt.Errorf("create send notification task failed: %w", err)
	}

	info, err := c.enqueuer.EnqueueContext(ctx, t)
	if err != nil {
		return fmt.Errorf("enqueue send notification task failed: %w", err)
	}

	c.logger.Debug("notification enqueued",
		zap.String("task_id", info.ID),
		zap.String("kind", string(notification.Kind)),
		zap.Int64("sub_id", notification.SubID),
	)

	return nil
}
