package asynqserver

import (
	"fmt"
	"time"

	"github.com/vibe-gaming/bmr-reminder/internal/cache"
	"github.com/vibe-gaming/bmr-reminder/internal/config"
	"github.com/vibe-gaming/bmr-reminder/internal/domain"
	"github.com/vibe-gaming/bmr-reminder/internal/queue/processor"
	"github.com/vibe-gaming/bmr-reminder/internal/queue/task"
	"github.com/vibe-gaming/bmr-reminder/internal/worker"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func New(cfg *config.Config, workers *worker.Workers, logger *zap.Logger) (*asynq.Server, *asynq.ServeMux) {
	mux, queues := getQueues(workers)
	srv := asynq.NewServer(
		RedisOptions(cfg.Cache),
		asynq.Config{
			Concurrency: cfg.Queue.Concurrency,
			Logger:      logger.Sugar(),
			LogLevel:    asynq.ErrorLevel,
			Queues:      queues,
		},
	)

	return srv, mux
}

// NewScheduler registers the periodic reminder and reaper tasks.
func NewScheduler(cfg *config.Config, logger *zap.Logger) (*asynq.Scheduler, error) {
	location, err := time.LoadLocation(cfg.Schedule.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("time load location failed: %w", err)
	}

	scheduler := asynq.NewScheduler(
		RedisOptions(cfg.Cache),
		&asynq.SchedulerOpts{
			Location: location,
			Logger:   logger.Sugar(),
			LogLevel: asynq.ErrorLevel,
		},
	)

	for _, entry := range periodicTasks(cfg.Schedule) {
		if _, err := scheduler.Register(entry.spec, entry.task); err != nil {
			return nil, fmt.Errorf("register %s periodic task failed: %w", entry.task.Type(), err)
		}
	}

	return scheduler, nil
}

type periodicTask struct {
	spec string
	task *asynq.Task
}

func periodicTasks(cfg config.Schedule) []periodicTask {
	tasks := []periodicTask{
		{spec: every(cfg.Reminders), task: task.NewScheduleRemindersTask()},
	}

	reapers := map[domain.CodePurpose]time.Duration{
		domain.PurposeConfirmation:  cfg.ExpireConfirmation,
		domain.PurposeUpdate:        cfg.ExpireUpdate,
		domain.PurposeUnsubscribe:   cfg.ExpireUnsubscribe,
		domain.PurposePendingUpdate: cfg.ExpirePendingUpdate,
	}
	for _, purpose := range domain.CodePurposes {
		t, err := task.NewReapExpiredTask(purpose)
		if err != nil {
			continue
		}
		tasks = append(tasks, periodicTask{spec: every(reapers[purpose]), task: t})
	}

	return tasks
}

func every(d time.Duration) string {
	return "@every " + d.String()
}

func RedisOptions(cfg config.Cache) asynq.RedisConnOpt {
	var opts asynq.RedisConnOpt
	if cfg.Type == cache.RedisTypeCluster {
		opts = asynq.RedisClusterClientOpt{
			Addrs:    cfg.RedisCluster.Addresses,
			Password: cfg.RedisCluster.Password,
		}
	} else {
		opts = asynq.RedisClientOpt{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
		}
	}
	return opts
}

func getQueues(workers *worker.Workers) (*asynq.ServeMux, map[string]int) {
	mux := asynq.NewServeMux()
	mux.Handle(task.SendNotificationTaskName, processor.NewSendNotificationProcessor(workers))
	mux.Handle(task.ScheduleRemindersTaskName, processor.NewScheduleRemindersProcessor(workers))
	mux.Handle(task.ReapExpiredTaskName, processor.NewReapExpiredProcessor(workers))
	queues := map[string]int{
		task.SendNotificationQueueName: 3,
		task.MaintenanceQueueName:      1,
	}
	return mux, queues
}
