package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/vibe-gaming/bmr-reminder/internal/cache"
	"github.com/vibe-gaming/bmr-reminder/internal/domain"
	"github.com/vibe-gaming/bmr-reminder/internal/repository"
	"github.com/vibe-gaming/bmr-reminder/internal/service"
	"github.com/vibe-gaming/bmr-reminder/pkg/metrics"

	"go.uber.org/zap"
)

const (
	reminderSent             = "sent"
	reminderSkipped          = "skipped"
	reminderRescheduleFailed = "reschedule_failed"
)

type ReminderReport struct {
	Due              int
	Sent             int
	Skipped          int
	RescheduleFailed int
}

type reminderScheduler struct {
	repos    *repository.Repositories
	codes    service.Codes
	notifier service.NotificationQueue
	locker   service.Locker
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

func newReminderScheduler(
	repos *repository.Repositories,
	codes service.Codes,
	notifier service.NotificationQueue,
	locker service.Locker,
	location *time.Location,
	logger *zap.Logger,
	now func() time.Time,
) *reminderScheduler {
	return &reminderScheduler{
		repos:    repos,
		codes:    codes,
		notifier: notifier,
		locker:   locker,
		location: location,
		logger:   logger,
		now:      now,
	}
}

// Run sends a reminder for every reminder due by the end of today and
// advances each one by a single interval once its notification is queued,
// or to one interval from now when it was further behind than that.
// Reminders whose reschedule fails stay due and are sent again on a later
// run, reusing the same update code.
func (r *reminderScheduler) Run(ctx context.Context) (*ReminderReport, error) {
	now := r.now().In(r.location)
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, r.location).AddDate(0, 0, 1)

	due, err := r.repos.Reminders.ListDue(ctx, endOfDay)
	if err != nil {
		return nil, fmt.Errorf("list due reminders failed: %w", err)
	}

	report := &ReminderReport{Due: len(due)}
	for _, reminder := range due {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		status := r.process(ctx, reminder, now, endOfDay)
		metrics.RecordReminder(status)

		switch status {
		case reminderSent:
			report.Sent++
		case reminderSkipped:
			report.Skipped++
		case reminderRescheduleFailed:
			report.Sent++
			report.RescheduleFailed++
		}
	}

	r.logger.Info("reminders processed",
		zap.Int("due", report.Due),
		zap.Int("sent", report.Sent),
		zap.Int("skipped", report.Skipped),
		zap.Int("reschedule_failed", report.RescheduleFailed),
	)

	return report, nil
}

func (r *reminderScheduler) process(ctx context.Context, reminder domain.ScheduledReminder, now, endOfDay time.Time) string {
	log := r.logger.With(zap.Int64("sub_id", reminder.SubID))

	release, err := r.locker.Acquire(ctx, cache.SubscriberIDKey(reminder.SubID))
	if err != nil {
		log.Warn("lock subscriber failed", zap.Error(err))
		return reminderSkipped
	}
	defer release()

	subscriber, err := r.repos.Subscribers.GetOne(ctx, domain.ByID(reminder.SubID))
	if err != nil {
		log.Warn("get subscriber failed", zap.Error(err))
		return reminderSkipped
	}

	freq, err := r.repos.Frequencies.GetByID(ctx, subscriber.FreqID)
	if err != nil {
		log.Warn("get frequency failed", zap.Error(err))
		return reminderSkipped
	}

	code, err := r.codes.Obtain(ctx, domain.PurposeUpdate, subscriber.ID)
	if err != nil {
		log.Error("obtain update code failed", zap.Error(err))
		return reminderSkipped
	}

	err = r.notifier.Enqueue(ctx, domain.Notification{
		Kind:  domain.NotificationUpdateReminder,
		Email: subscriber.Email,
		SubID: subscriber.ID,
		Code:  code.Code,
	})
	if err != nil {
		metrics.RecordNotification(string(domain.NotificationUpdateReminder), "enqueue_failed")
		log.Error("enqueue reminder failed", zap.Error(err))
		return reminderSkipped
	}
	metrics.RecordNotification(string(domain.NotificationUpdateReminder), "enqueued")

	// An overdue reminder that one interval would leave due again is
	// restarted from now, so it is sent once and not on every run.
	next := freq.Next(reminder.DateScheduled)
	if next.Before(endOfDay) {
		next = freq.Next(now)
	}
	if err := r.repos.Reminders.Reschedule(ctx, subscriber.ID, next); err != nil {
		log.Error("reschedule reminder failed, reminder will be sent again",
			zap.Time("date_scheduled", reminder.DateScheduled),
			zap.Time("next", next),
			zap.Error(err),
		)
		return reminderRescheduleFailed
	}

	return reminderSent
}
