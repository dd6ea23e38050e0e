package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/vibe-gaming/bmr-reminder/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminderSendsAndAdvances(t *testing.T) {
	f := setup(t)
	id := f.confirmed(t, "a@b.com")
	scheduled := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	f.store.PutReminder(domain.ScheduledReminder{SubID: id, DateScheduled: scheduled})

	report, err := f.workers.ReminderScheduler.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Due)
	assert.Equal(t, 1, report.Sent)

	code, found := f.store.Code(domain.PurposeUpdate, id)
	require.True(t, found)

	sent := f.queue.ofKind(domain.NotificationUpdateReminder)
	require.Len(t, sent, 1)
	assert.Equal(t, domain.Notification{
		Kind:  domain.NotificationUpdateReminder,
		Email: "a@b.com",
		SubID: id,
		Code:  code.Code,
	}, sent[0])

	reminder, _ := f.store.Reminder(id)
	assert.Equal(t, scheduled.AddDate(0, 0, 30), reminder.DateScheduled)
}

func TestReminderIncludesLaterToday(t *testing.T) {
	f := setup(t)
	id := f.confirmed(t, "a@b.com")
	f.store.PutReminder(domain.ScheduledReminder{SubID: id, DateScheduled: time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC)})

	report, err := f.workers.ReminderScheduler.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent)
}

func TestReminderSkipsFutureDays(t *testing.T) {
	f := setup(t)
	id := f.confirmed(t, "a@b.com")
	f.store.PutReminder(domain.ScheduledReminder{SubID: id, DateScheduled: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)})

	report, err := f.workers.ReminderScheduler.Run(context.Background())

	require.NoError(t, err)
	assert.Zero(t, report.Due)
	assert.Empty(t, f.queue.ofKind(domain.NotificationUpdateReminder))
}

func TestReminderEnqueueFailureKeepsReminderDue(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	id := f.confirmed(t, "a@b.com")
	scheduled := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	f.store.PutReminder(domain.ScheduledReminder{SubID: id, DateScheduled: scheduled})

	f.queue.setErr(errBoom)
	report, err := f.workers.ReminderScheduler.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)

	reminder, _ := f.store.Reminder(id)
	assert.Equal(t, scheduled, reminder.DateScheduled)
	first, found := f.store.Code(domain.PurposeUpdate, id)
	require.True(t, found)

	f.queue.setErr(nil)
	report, err = f.workers.ReminderScheduler.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent)

	sent := f.queue.ofKind(domain.NotificationUpdateReminder)
	require.Len(t, sent, 1)
	assert.Equal(t, first.Code, sent[0].Code)
}

func TestReminderRescheduleFailureResendsSameCode(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	id := f.confirmed(t, "a@b.com")
	scheduled := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	f.store.PutReminder(domain.ScheduledReminder{SubID: id, DateScheduled: scheduled})

	f.store.FailOn("reminders.Reschedule", errBoom)
	report, err := f.workers.ReminderScheduler.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.RescheduleFailed)

	reminder, _ := f.store.Reminder(id)
	assert.Equal(t, scheduled, reminder.DateScheduled)

	f.store.ClearFailures()
	_, err = f.workers.ReminderScheduler.Run(ctx)
	require.NoError(t, err)

	sent := f.queue.ofKind(domain.NotificationUpdateReminder)
	require.Len(t, sent, 2)
	assert.Equal(t, sent[0].Code, sent[1].Code)

	reminder, _ = f.store.Reminder(id)
	assert.Equal(t, scheduled.AddDate(0, 0, 30), reminder.DateScheduled)
}

func TestReminderSkipsWhenSubscriberLookupFails(t *testing.T) {
	f := setup(t)
	id := f.confirmed(t, "a@b.com")
	f.store.PutReminder(domain.ScheduledReminder{SubID: id, DateScheduled: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)})
	f.store.FailOn("subscribers.GetOne", errBoom)

	report, err := f.workers.ReminderScheduler.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	_, found := f.store.Code(domain.PurposeUpdate, id)
	assert.False(t, found)
	assert.Empty(t, f.queue.ofKind(domain.NotificationUpdateReminder))
}

func TestReminderListFailureIsReturned(t *testing.T) {
	f := setup(t)
	f.store.FailOn("reminders.ListDue", errBoom)

	_, err := f.workers.ReminderScheduler.Run(context.Background())

	assert.ErrorIs(t, err, errBoom)
}

func TestReminderOverdueIsSentOnceAcrossRuns(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	id := f.confirmed(t, "a@b.com")
	start := f.now
	f.store.PutReminder(domain.ScheduledReminder{SubID: id, DateScheduled: start.AddDate(0, 0, -95)})

	for i := 0; i < 5; i++ {
		_, err := f.workers.ReminderScheduler.Run(ctx)
		require.NoError(t, err)
		f.now = f.now.Add(time.Hour)
	}

	assert.Len(t, f.queue.ofKind(domain.NotificationUpdateReminder), 1)

	reminder, _ := f.store.Reminder(id)
	assert.Equal(t, start.AddDate(0, 0, 30), reminder.DateScheduled)
}

func TestReminderOneIntervalBehindKeepsCadence(t *testing.T) {
	f := setup(t)
	id := f.confirmed(t, "a@b.com")
	scheduled := f.now.AddDate(0, 0, -10)
	f.store.PutReminder(domain.ScheduledReminder{SubID: id, DateScheduled: scheduled})

	_, err := f.workers.ReminderScheduler.Run(context.Background())
	require.NoError(t, err)

	reminder, _ := f.store.Reminder(id)
	assert.Equal(t, scheduled.AddDate(0, 0, 30), reminder.DateScheduled)
}
