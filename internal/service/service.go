package service

import (
	"context"
	"time"

	"github.com/vibe-gaming/bmr-reminder/internal/domain"
	"github.com/vibe-gaming/bmr-reminder/internal/repository"
	"github.com/vibe-gaming/bmr-reminder/pkg/otp"
	"github.com/vibe-gaming/bmr-reminder/pkg/validator"

	govalidator "github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type Services struct {
	Codes       Codes
	Subscribers Subscribers
}

type Deps struct {
	Logger       *zap.Logger
	Repos        *repository.Repositories
	OtpGenerator otp.Generator
	Notifier     NotificationQueue
	Locker       Locker
	Validator    *govalidator.Validate
	Now          func() time.Time
}

func NewServices(deps Deps) *Services {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Notifier == nil {
		deps.Notifier = nopQueue{logger: deps.Logger}
	}
	if deps.Locker == nil {
		deps.Locker = nopLocker{}
	}
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	codes := newCodeService(deps.Repos, deps.OtpGenerator, deps.Logger, deps.Now)

	return &Services{
		Codes: codes,
		Subscribers: newSubscriberService(
			deps.Repos,
			codes,
			deps.Notifier,
			deps.Locker,
			deps.Validator,
			deps.Logger,
			deps.Now,
		),
	}
}

// NotificationQueue accepts outbound notifications for asynchronous
// delivery.
type NotificationQueue interface {
	Enqueue(ctx context.Context, notification domain.Notification) error
}

// nopQueue drops every notification. It stands in when no queue is wired.
type nopQueue struct {
	logger *zap.Logger
}

func (q nopQueue) Enqueue(_ context.Context, notification domain.Notification) error {
	q.logger.Warn("notification dropped, no queue configured",
		zap.String("kind", string(notification.Kind)),
		zap.Int64("sub_id", notification.SubID),
	)
	return nil
}

// Locker serializes work on one subscriber across goroutines and processes.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

type nopLocker struct{}

func (nopLocker) Acquire(context.Context, string) (func(), error) {
	return func() {}, nil
}

type Codes interface {
	Issue(ctx context.Context, purpose domain.CodePurpose, subID int64, staged *domain.MeasurementValues) (*domain.Code, error)
	Obtain(ctx context.Context, purpose domain.CodePurpose, subID int64) (*domain.Code, error)
	Validate(ctx context.Context, purpose domain.CodePurpose, code int64) (bool, error)
	BelongsTo(ctx context.Context, purpose domain.CodePurpose, code int64, subID int64) (bool, error)
	Verify(ctx context.Context, purpose domain.CodePurpose, code int64, subID int64) error
	Revoke(ctx context.Context, purpose domain.CodePurpose, by domain.LookupBy) (int64, error)
}

type Subscribers interface {
	Subscribe(ctx context.Context, input domain.NewSubscriber) (int64, error)
	Confirm(ctx context.Context, id int64) (bool, error)
	RequestUpdate(ctx context.Context, input domain.NewSubscriber) (*UpdateResult, error)
	ConfirmPendingUpdate(ctx context.Context, subID int64) (bool, error)
	RejectPendingUpdate(ctx context.Context, code int64) (int64, error)
	UpdateMeasurements(ctx context.Context, subID int64, patch domain.MeasurementsPatch) (*domain.Measurements, error)
	Unsubscribe(ctx context.Context, subID int64) (bool, error)
	RequestUnsubscribe(ctx context.Context, email string) (bool, error)

	GetSubscriber(ctx context.Context, id int64) (*domain.Subscriber, error)
	GetMeasurements(ctx context.Context, subID int64) (*domain.Measurements, error)
	GetPendingUpdate(ctx context.Context, subID int64) (*domain.PendingUpdate, error)
}
