package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vibe-gaming/bmr-reminder/internal/db"
	"github.com/vibe-gaming/bmr-reminder/internal/domain"

	"github.com/jmoiron/sqlx"
)

type reminderRepository struct {
	db *sqlx.DB
}

func newReminderRepository(db *sqlx.DB) *reminderRepository {
	return &reminderRepository{
		db: db,
	}
}

func (r *reminderRepository) Create(ctx context.Context, reminder *domain.ScheduledReminder) error {
	const op = "repository.reminder.Create"

	const query = `
	INSERT INTO scheduled_reminder (sub_id, date_scheduled)
	VALUES (:sub_id, :date_scheduled)
	`

	if _, err := executorFrom(ctx, r.db).NamedExecContext(ctx, query, reminder); err != nil {
		if db.IsDuplicateEntry(err) {
			return domain.ErrDuplicateEntry
		}
		if db.IsForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("%s: insert scheduled_reminder failed: %w", op, err)
	}

	return nil
}

func (r *reminderRepository) GetBySubID(ctx context.Context, subID int64) (*domain.ScheduledReminder, error) {
	const op = "repository.reminder.GetBySubID"

	const query = `
	SELECT sub_id, date_scheduled
	FROM scheduled_reminder
	WHERE sub_id = ?
	`

	var reminder domain.ScheduledReminder
	if err := executorFrom(ctx, r.db).GetContext(ctx, &reminder, query, subID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: select scheduled_reminder failed: %w", op, err)
	}

	return &reminder, nil
}

// ListDue returns reminders scheduled strictly before the given instant,
// oldest first. Passing the start of tomorrow selects everything due today
// along with anything missed earlier.
func (r *reminderRepository) ListDue(ctx context.Context, before time.Time) ([]domain.ScheduledReminder, error) {
	const op = "repository.reminder.ListDue"

	const query = `
	SELECT sub_id, date_scheduled
	FROM scheduled_reminder
	WHERE date_scheduled < ?
	ORDER BY date_scheduled
	`

	var reminders []domain.ScheduledReminder
	if err := executorFrom(ctx, r.db).SelectContext(ctx, &reminders, query, before); err != nil {
		return nil, fmt.Errorf("%s: select scheduled_reminder failed: %w", op, err)
	}

	return reminders, nil
}

func (r *reminderRepository) Reschedule(ctx context.Context, subID int64, at time.Time) error {
	const op = "repository.reminder.Reschedule"

	const query = `UPDATE scheduled_reminder SET date_scheduled = ? WHERE sub_id = ?`

	res, err := executorFrom(ctx, r.db).ExecContext(ctx, query, at, subID)
	if err != nil {
		return fmt.Errorf("%s: update scheduled_reminder failed: %w", op, err)
	}

	return expectOneRow(op, res)
}
