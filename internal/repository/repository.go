package repository

import (
	"context"
	"time"

	"github.com/vibe-gaming/bmr-reminder/internal/domain"

	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	Transactor     Transactor
	Subscribers    Subscribers
	Measurements   Measurements
	Codes          Codes
	PendingUpdates PendingUpdates
	Reminders      Reminders
	Frequencies    Frequencies
	EmailsSent     EmailsSent
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		Transactor:     newTransactor(db),
		Subscribers:    newSubscriberRepository(db),
		Measurements:   newMeasurementsRepository(db),
		Codes:          newCodeRepository(db),
		PendingUpdates: newPendingUpdateRepository(db),
		Reminders:      newReminderRepository(db),
		Frequencies:    newFrequencyRepository(db),
		EmailsSent:     newEmailSentRepository(db),
	}
}

// Transactor groups repository calls into one all-or-nothing unit. Calls made
// with the ctx passed to fn run inside the transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Subscribers interface {
	Create(ctx context.Context, subscriber *domain.Subscriber) (int64, error)
	GetOne(ctx context.Context, by domain.LookupBy) (*domain.Subscriber, error)
	Confirm(ctx context.Context, id int64, at time.Time) error
	Delete(ctx context.Context, id int64) (int64, error)
	DeleteUnconfirmed(ctx context.Context, id int64) (int64, error)
}

type Measurements interface {
	Create(ctx context.Context, measurements *domain.Measurements) error
	GetBySubID(ctx context.Context, subID int64) (*domain.Measurements, error)
	Replace(ctx context.Context, subID int64, values domain.MeasurementValues, at time.Time) error
	UpdateField(ctx context.Context, subID int64, change domain.FieldChange) error
	Touch(ctx context.Context, subID int64, at time.Time) error
}

// Codes covers the code columns shared by all four one-time code tables.
// Rows of the pending_update table are created through PendingUpdates.
type Codes interface {
	GetOne(ctx context.Context, purpose domain.CodePurpose, by domain.LookupBy) (*domain.Code, error)
	Create(ctx context.Context, purpose domain.CodePurpose, code *domain.Code) error
	Upsert(ctx context.Context, purpose domain.CodePurpose, code *domain.Code) error
	Delete(ctx context.Context, purpose domain.CodePurpose, by domain.LookupBy) (int64, error)
	ListExpired(ctx context.Context, purpose domain.CodePurpose, now time.Time) ([]domain.Code, error)
}

type PendingUpdates interface {
	Create(ctx context.Context, pending *domain.PendingUpdate) error
	GetOne(ctx context.Context, by domain.LookupBy) (*domain.PendingUpdate, error)
}

type Reminders interface {
	Create(ctx context.Context, reminder *domain.ScheduledReminder) error
	GetBySubID(ctx context.Context, subID int64) (*domain.ScheduledReminder, error)
	ListDue(ctx context.Context, before time.Time) ([]domain.ScheduledReminder, error)
	Reschedule(ctx context.Context, subID int64, at time.Time) error
}

type Frequencies interface {
	GetByDescriptor(ctx context.Context, descriptor string) (*domain.Frequency, error)
	GetByID(ctx context.Context, id int64) (*domain.Frequency, error)
	GetAll(ctx context.Context) ([]domain.Frequency, error)
}

type EmailsSent interface {
	Create(ctx context.Context, email *domain.EmailSent) error
}
