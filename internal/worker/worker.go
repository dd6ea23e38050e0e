package worker

import (
	"context"
	"time"

	"github.com/vibe-gaming/bmr-reminder/internal/config"
	"github.com/vibe-gaming/bmr-reminder/internal/domain"
	"github.com/vibe-gaming/bmr-reminder/internal/repository"
	"github.com/vibe-gaming/bmr-reminder/internal/service"
	emailProvider "github.com/vibe-gaming/bmr-reminder/pkg/email"

	"go.uber.org/zap"
)

type Workers struct {
	EmailSender       EmailSender
	ReminderScheduler ReminderScheduler
	Reaper            Reaper
}

type Deps struct {
	Logger        *zap.Logger
	Config        *config.Config
	Repos         *repository.Repositories
	Services      *service.Services
	EmailProvider emailProvider.Sender
	Notifier      service.NotificationQueue
	Locker        service.Locker
	Now           func() time.Time
}

type EmailSender interface {
	Send(ctx context.Context, notification domain.Notification) error
}

type ReminderScheduler interface {
	Run(ctx context.Context) (*ReminderReport, error)
}

type Reaper interface {
	Run(ctx context.Context, purpose domain.CodePurpose) (*ReapReport, error)
}

func NewWorkers(deps Deps) (*Workers, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Locker == nil {
		deps.Locker = nopLocker{}
	}

	location, err := time.LoadLocation(deps.Config.Schedule.TimeZone)
	if err != nil {
		return nil, err
	}

	return &Workers{
		EmailSender: newEmailSender(
			deps.EmailProvider,
			deps.Repos.EmailsSent,
			deps.Config.Email,
			deps.Logger.Named("email_sender"),
			deps.Now,
		),
		ReminderScheduler: newReminderScheduler(
			deps.Repos,
			deps.Services.Codes,
			deps.Notifier,
			deps.Locker,
			location,
			deps.Logger.Named("reminder_scheduler"),
			deps.Now,
		),
		Reaper: newReaper(deps.Repos, deps.Logger.Named("reaper"), deps.Now),
	}, nil
}

type nopLocker struct{}

func (nopLocker) Acquire(context.Context, string) (func(), error) {
	return func() {}, nil
}
