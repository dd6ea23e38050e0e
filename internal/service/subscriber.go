package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vibe-gaming/bmr-reminder/internal/cache"
	"github.com/vibe-gaming/bmr-reminder/internal/domain"
	"github.com/vibe-gaming/bmr-reminder/internal/repository"
	"github.com/vibe-gaming/bmr-reminder/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type UpdateOutcome string

const (
	// UpdateStaged: the subscriber is confirmed and must approve the change.
	UpdateStaged UpdateOutcome = "staged"
	// UpdateReplaced: the subscriber is pending; values were overwritten and
	// a fresh confirmation code was sent.
	UpdateReplaced UpdateOutcome = "replaced"
	// UpdateSubscribed: no subscriber had the email, so one was created.
	UpdateSubscribed UpdateOutcome = "subscribed"
)

type UpdateResult struct {
	SubID   int64
	Outcome UpdateOutcome
}

type subscriberService struct {
	repos    *repository.Repositories
	codes    Codes
	notifier NotificationQueue
	locker   Locker
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

func newSubscriberService(
	repos *repository.Repositories,
	codes Codes,
	notifier NotificationQueue,
	locker Locker,
	validate *validator.Validate,
	logger *zap.Logger,
	now func() time.Time,
) *subscriberService {
	return &subscriberService{
		repos:    repos,
		codes:    codes,
		notifier: notifier,
		locker:   locker,
		validate: validate,
		logger:   logger,
		now:      now,
	}
}

func (s *subscriberService) Subscribe(ctx context.Context, input domain.NewSubscriber) (int64, error) {
	if err := s.validateInput(input); err != nil {
		return 0, err
	}

	release, err := s.locker.Acquire(ctx, cache.SubscriberEmailKey(input.Email))
	if err != nil {
		return 0, fmt.Errorf("lock subscriber failed: %w", err)
	}
	defer release()

	return s.subscribe(ctx, input)
}

// subscribe expects the caller to hold the email lock.
func (s *subscriberService) subscribe(ctx context.Context, input domain.NewSubscriber) (int64, error) {
	freq, err := s.frequency(ctx, input.Freq)
	if err != nil {
		return 0, err
	}

	var (
		id   int64
		code *domain.Code
	)
	err = s.repos.Transactor.WithinTx(ctx, func(ctx context.Context) error {
		subscriber := &domain.Subscriber{Email: input.Email, FreqID: freq.ID}
		if id, err = s.repos.Subscribers.Create(ctx, subscriber); err != nil {
			if errors.Is(err, domain.ErrDuplicateEntry) {
				return ErrSubscriberAlreadyExist
			}
			return fmt.Errorf("create subscriber failed: %w", err)
		}

		measurements := &domain.Measurements{
			SubID:             id,
			MeasurementValues: input.MeasurementValues,
			DateLastUpdated:   s.now(),
		}
		if err = s.repos.Measurements.Create(ctx, measurements); err != nil {
			return fmt.Errorf("create measurements failed: %w", err)
		}

		if code, err = s.codes.Issue(ctx, domain.PurposeConfirmation, id, nil); err != nil {
			return fmt.Errorf("issue confirmation code failed: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	s.notify(ctx, domain.Notification{
		Kind:  domain.NotificationSignupConfirm,
		Email: input.Email,
		SubID: id,
		Code:  code.Code,
	})

	return id, nil
}

// Confirm reports false when the subscriber does not exist or was already
// confirmed.
func (s *subscriberService) Confirm(ctx context.Context, id int64) (bool, error) {
	release, err := s.locker.Acquire(ctx, cache.SubscriberIDKey(id))
	if err != nil {
		return false, fmt.Errorf("lock subscriber failed: %w", err)
	}
	defer release()

	var confirmed bool
	err = s.repos.Transactor.WithinTx(ctx, func(ctx context.Context) error {
		subscriber, err := s.repos.Subscribers.GetOne(ctx, domain.ByID(id))
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get subscriber failed: %w", err)
		}
		if subscriber.Confirmed {
			return nil
		}

		freq, err := s.repos.Frequencies.GetByID(ctx, subscriber.FreqID)
		if err != nil {
			return fmt.Errorf("get frequency failed: %w", err)
		}

		now := s.now()
		if err = s.repos.Subscribers.Confirm(ctx, id, now); err != nil {
			if errors.Is(err, domain.ErrNoRowsAffected) {
				return nil
			}
			return fmt.Errorf("confirm subscriber failed: %w", err)
		}

		if _, err = s.codes.Revoke(ctx, domain.PurposeConfirmation, domain.BySubID(id)); err != nil {
			return err
		}

		reminder := &domain.ScheduledReminder{SubID: id, DateScheduled: freq.Next(now)}
		if err = s.repos.Reminders.Create(ctx, reminder); err != nil {
			return fmt.Errorf("create scheduled reminder failed: %w", err)
		}

		confirmed = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return confirmed, nil
}

// RequestUpdate dispatches on the state of the subscriber owning the email.
// Requests for an unknown email become signups. The frequency of an existing
// subscriber is never changed by an update request.
func (s *subscriberService) RequestUpdate(ctx context.Context, input domain.NewSubscriber) (*UpdateResult, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, cache.SubscriberEmailKey(input.Email))
	if err != nil {
		return nil, fmt.Errorf("lock subscriber failed: %w", err)
	}
	defer release()

	subscriber, err := s.repos.Subscribers.GetOne(ctx, domain.ByEmail(input.Email))
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get subscriber failed: %w", err)
	}

	if subscriber.State() == domain.StateNonExistent {
		id, err := s.subscribe(ctx, input)
		if err != nil {
			return nil, err
		}
		return &UpdateResult{SubID: id, Outcome: UpdateSubscribed}, nil
	}

	releaseID, err := s.locker.Acquire(ctx, cache.SubscriberIDKey(subscriber.ID))
	if err != nil {
		return nil, fmt.Errorf("lock subscriber failed: %w", err)
	}
	defer releaseID()

	if subscriber.State() == domain.StateConfirmed {
		return s.stageUpdate(ctx, subscriber, input.MeasurementValues)
	}
	return s.replacePending(ctx, subscriber, input.MeasurementValues)
}

// stageUpdate stores the values as the subscriber's only pending update.
func (s *subscriberService) stageUpdate(ctx context.Context, subscriber *domain.Subscriber, values domain.MeasurementValues) (*UpdateResult, error) {
	var code *domain.Code
	err := s.repos.Transactor.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.codes.Revoke(ctx, domain.PurposePendingUpdate, domain.BySubID(subscriber.ID)); err != nil {
			return err
		}

		var err error
		if code, err = s.codes.Issue(ctx, domain.PurposePendingUpdate, subscriber.ID, &values); err != nil {
			return fmt.Errorf("issue pending update code failed: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, domain.Notification{
		Kind:  domain.NotificationUpdateConfirm,
		Email: subscriber.Email,
		SubID: subscriber.ID,
		Code:  code.Code,
	})

	return &UpdateResult{SubID: subscriber.ID, Outcome: UpdateStaged}, nil
}

// replacePending overwrites the values of an unconfirmed subscriber and
// invalidates its old confirmation code.
func (s *subscriberService) replacePending(ctx context.Context, subscriber *domain.Subscriber, values domain.MeasurementValues) (*UpdateResult, error) {
	var code *domain.Code
	err := s.repos.Transactor.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repos.Measurements.Replace(ctx, subscriber.ID, values, s.now()); err != nil {
			return fmt.Errorf("replace measurements failed: %w", err)
		}

		if _, err := s.codes.Revoke(ctx, domain.PurposeConfirmation, domain.BySubID(subscriber.ID)); err != nil {
			return err
		}

		var err error
		if code, err = s.codes.Issue(ctx, domain.PurposeConfirmation, subscriber.ID, nil); err != nil {
			return fmt.Errorf("issue confirmation code failed: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, domain.Notification{
		Kind:  domain.NotificationSignupConfirm,
		Email: subscriber.Email,
		SubID: subscriber.ID,
		Code:  code.Code,
	})

	return &UpdateResult{SubID: subscriber.ID, Outcome: UpdateReplaced}, nil
}

// ConfirmPendingUpdate applies the staged values. It reports false when the
// subscriber has nothing staged or the staged row has expired. An expired row
// is left for the reaper.
func (s *subscriberService) ConfirmPendingUpdate(ctx context.Context, subID int64) (bool, error) {
	release, err := s.locker.Acquire(ctx, cache.SubscriberIDKey(subID))
	if err != nil {
		return false, fmt.Errorf("lock subscriber failed: %w", err)
	}
	defer release()

	var applied bool
	err = s.repos.Transactor.WithinTx(ctx, func(ctx context.Context) error {
		pending, err := s.repos.PendingUpdates.GetOne(ctx, domain.BySubID(subID))
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get pending update failed: %w", err)
		}

		now := s.now()
		if !pending.AsCode().Live(now) {
			return nil
		}

		if err = s.repos.Measurements.Replace(ctx, subID, pending.MeasurementValues, now); err != nil {
			return fmt.Errorf("replace measurements failed: %w", err)
		}

		if _, err = s.codes.Revoke(ctx, domain.PurposePendingUpdate, domain.BySubID(subID)); err != nil {
			return err
		}

		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return applied, nil
}

func (s *subscriberService) RejectPendingUpdate(ctx context.Context, code int64) (int64, error) {
	return s.codes.Revoke(ctx, domain.PurposePendingUpdate, domain.ByCode(code))
}

// UpdateMeasurements writes only the fields that changed, always refreshes
// the last-updated date and consumes the subscriber's update code.
func (s *subscriberService) UpdateMeasurements(ctx context.Context, subID int64, patch domain.MeasurementsPatch) (*domain.Measurements, error) {
	if err := s.validate.Struct(patch); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	release, err := s.locker.Acquire(ctx, cache.SubscriberIDKey(subID))
	if err != nil {
		return nil, fmt.Errorf("lock subscriber failed: %w", err)
	}
	defer release()

	var measurements *domain.Measurements
	err = s.repos.Transactor.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.repos.Measurements.GetBySubID(ctx, subID)
		if errors.Is(err, domain.ErrNotFound) {
			return ErrSubscriberNotFound
		}
		if err != nil {
			return fmt.Errorf("get measurements failed: %w", err)
		}

		for _, change := range patch.Changes(current.MeasurementValues) {
			if err = s.repos.Measurements.UpdateField(ctx, subID, change); err != nil {
				return fmt.Errorf("update %s failed: %w", change.Field, err)
			}
		}

		if err = s.repos.Measurements.Touch(ctx, subID, s.now()); err != nil {
			return fmt.Errorf("touch measurements failed: %w", err)
		}

		if _, err = s.codes.Revoke(ctx, domain.PurposeUpdate, domain.BySubID(subID)); err != nil {
			return err
		}

		if measurements, err = s.repos.Measurements.GetBySubID(ctx, subID); err != nil {
			return fmt.Errorf("reload measurements failed: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return measurements, nil
}

// Unsubscribe deletes the subscriber with everything that references it.
func (s *subscriberService) Unsubscribe(ctx context.Context, subID int64) (bool, error) {
	release, err := s.locker.Acquire(ctx, cache.SubscriberIDKey(subID))
	if err != nil {
		return false, fmt.Errorf("lock subscriber failed: %w", err)
	}
	defer release()

	deleted, err := s.repos.Subscribers.Delete(ctx, subID)
	if err != nil {
		return false, fmt.Errorf("delete subscriber failed: %w", err)
	}

	return deleted > 0, nil
}

// RequestUnsubscribe mails a short-lived unsubscribe code to a confirmed
// subscriber. It reports false when no confirmed subscriber has the email.
func (s *subscriberService) RequestUnsubscribe(ctx context.Context, email string) (bool, error) {
	if err := s.validate.Var(email, "required,email,max=255"); err != nil {
		return false, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	release, err := s.locker.Acquire(ctx, cache.SubscriberEmailKey(email))
	if err != nil {
		return false, fmt.Errorf("lock subscriber failed: %w", err)
	}
	defer release()

	subscriber, err := s.repos.Subscribers.GetOne(ctx, domain.ByEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get subscriber failed: %w", err)
	}
	if subscriber.State() != domain.StateConfirmed {
		return false, nil
	}

	releaseID, err := s.locker.Acquire(ctx, cache.SubscriberIDKey(subscriber.ID))
	if err != nil {
		return false, fmt.Errorf("lock subscriber failed: %w", err)
	}
	defer releaseID()

	existing, err := s.repos.Codes.GetOne(ctx, domain.PurposeUnsubscribe, domain.BySubID(subscriber.ID))
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return false, fmt.Errorf("get unsubscribe code failed: %w", err)
	}
	if existing.Live(s.now()) {
		return false, ErrUnsubscribeAlreadyRequested
	}

	code, err := s.codes.Issue(ctx, domain.PurposeUnsubscribe, subscriber.ID, nil)
	if err != nil {
		return false, fmt.Errorf("issue unsubscribe code failed: %w", err)
	}

	s.notify(ctx, domain.Notification{
		Kind:  domain.NotificationUnsubscribeConfirm,
		Email: subscriber.Email,
		SubID: subscriber.ID,
		Code:  code.Code,
	})

	return true, nil
}

func (s *subscriberService) GetSubscriber(ctx context.Context, id int64) (*domain.Subscriber, error) {
	subscriber, err := s.repos.Subscribers.GetOne(ctx, domain.ByID(id))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrSubscriberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get subscriber failed: %w", err)
	}

	return subscriber, nil
}

func (s *subscriberService) GetMeasurements(ctx context.Context, subID int64) (*domain.Measurements, error) {
	measurements, err := s.repos.Measurements.GetBySubID(ctx, subID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrSubscriberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get measurements failed: %w", err)
	}

	return measurements, nil
}

func (s *subscriberService) GetPendingUpdate(ctx context.Context, subID int64) (*domain.PendingUpdate, error) {
	pending, err := s.repos.PendingUpdates.GetOne(ctx, domain.BySubID(subID))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrPendingUpdateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get pending update failed: %w", err)
	}

	return pending, nil
}

func (s *subscriberService) validateInput(input domain.NewSubscriber) error {
	if err := s.validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	return nil
}

func (s *subscriberService) frequency(ctx context.Context, descriptor string) (*domain.Frequency, error) {
	freq, err := s.repos.Frequencies.GetByDescriptor(ctx, descriptor)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFrequency, descriptor)
	}
	if err != nil {
		return nil, fmt.Errorf("get frequency failed: %w", err)
	}

	return freq, nil
}

// notify hands the notification to the queue. Delivery is best effort, so a
// failed enqueue is logged and counted but does not fail the transition.
func (s *subscriberService) notify(ctx context.Context, notification domain.Notification) {
	if err := s.notifier.Enqueue(ctx, notification); err != nil {
		metrics.RecordNotification(string(notification.Kind), "enqueue_failed")
		s.logger.Error("enqueue notification failed",
			zap.String("kind", string(notification.Kind)),
			zap.Int64("sub_id", notification.SubID),
			zap.Error(err),
		)
		return
	}

	metrics.RecordNotification(string(notification.Kind), "enqueued")
}
