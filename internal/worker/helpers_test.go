package worker_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/vibe-gaming/bmr-reminder/internal/config"
	"github.com/vibe-gaming/bmr-reminder/internal/domain"
	"github.com/vibe-gaming/bmr-reminder/internal/repository/repotest"
	"github.com/vibe-gaming/bmr-reminder/internal/service"
	"github.com/vibe-gaming/bmr-reminder/internal/worker"
	mock_email "github.com/vibe-gaming/bmr-reminder/pkg/email/mock"
	"github.com/vibe-gaming/bmr-reminder/pkg/otp"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var errBoom = errors.New("boom")

type recordingQueue struct {
	mu   sync.Mutex
	sent []domain.Notification
	err  error
}

func (q *recordingQueue) Enqueue(_ context.Context, n domain.Notification) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.sent = append(q.sent, n)
	return nil
}

func (q *recordingQueue) setErr(err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.err = err
}

func (q *recordingQueue) ofKind(kind domain.NotificationKind) []domain.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []domain.Notification
	for _, n := range q.sent {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

type fixture struct {
	store    *repotest.Store
	services *service.Services
	workers  *worker.Workers
	queue    *recordingQueue
	sender   *mock_email.EmailSender
	config   *config.Config
	deps     worker.Deps
	now      time.Time
}

func writeTemplates(t *testing.T) config.EmailTemplates {
	t.Helper()

	templates := config.EmailTemplates{
		Dir:                t.TempDir(),
		SignupConfirm:      "signup_confirm.html",
		UpdateConfirm:      "update_confirm.html",
		UpdateReminder:     "update_reminder.html",
		UnsubscribeConfirm: "unsubscribe_confirm.html",
	}
	for _, name := range []string{templates.SignupConfirm, templates.UpdateConfirm, templates.UpdateReminder, templates.UnsubscribeConfirm} {
		body := []byte("{{.Link}}|{{.Code}}")
		require.NoError(t, os.WriteFile(filepath.Join(templates.Dir, name), body, 0o600))
	}
	return templates
}

func setup(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:  repotest.New(),
		queue:  &recordingQueue{},
		sender: &mock_email.EmailSender{},
		now:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.config = &config.Config{
		Email: config.EmailConfig{
			Enabled:   true,
			BaseURL:   "http://localhost/public/",
			Templates: writeTemplates(t),
		},
		Schedule: config.Schedule{TimeZone: "UTC"},
	}

	now := func() time.Time { return f.now }
	logger := zaptest.NewLogger(t)
	repos := f.store.Repositories()

	f.services = service.NewServices(service.Deps{
		Logger:       logger,
		Repos:        repos,
		OtpGenerator: otp.NewCryptoGenerator(),
		Notifier:     f.queue,
		Now:          now,
	})

	f.deps = worker.Deps{
		Logger:        logger,
		Config:        f.config,
		Repos:         repos,
		Services:      f.services,
		EmailProvider: f.sender,
		Notifier:      f.queue,
		Now:           now,
	}
	f.workers = rebuildWorkers(t, f)

	return f
}

func rebuildWorkers(t *testing.T, f *fixture) *worker.Workers {
	t.Helper()

	workers, err := worker.NewWorkers(f.deps)
	require.NoError(t, err)
	return workers
}

func (f *fixture) subscribe(t *testing.T, email string) int64 {
	t.Helper()

	id, err := f.services.Subscribers.Subscribe(context.Background(), domain.NewSubscriber{
		Email: email,
		Freq:  "monthly",
		MeasurementValues: domain.MeasurementValues{
			Sex:     domain.SexFemale,
			Age:     40,
			System:  domain.SystemMetric,
			Weight:  65,
			Height:  170,
			EstBMR:  1400,
			EstTDEE: 1900,
		},
	})
	require.NoError(t, err)
	return id
}

func (f *fixture) confirmed(t *testing.T, email string) int64 {
	t.Helper()

	id := f.subscribe(t, email)
	ok, err := f.services.Subscribers.Confirm(context.Background(), id)
	require.NoError(t, err)
	require.True(t, ok)
	return id
}
