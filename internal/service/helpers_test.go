package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/vibe-gaming/bmr-reminder/internal/domain"
	"github.com/vibe-gaming/bmr-reminder/internal/repository/repotest"
	"github.com/vibe-gaming/bmr-reminder/internal/service"
	"github.com/vibe-gaming/bmr-reminder/pkg/otp"

	"go.uber.org/zap/zaptest"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

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

func (q *recordingQueue) Sent() []domain.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]domain.Notification(nil), q.sent...)
}

func (q *recordingQueue) Last() domain.Notification {
	sent := q.Sent()
	if len(sent) == 0 {
		return domain.Notification{}
	}
	return sent[len(sent)-1]
}

type fixture struct {
	services *service.Services
	store    *repotest.Store
	queue    *recordingQueue
	clock    *testClock
}

func setup(t *testing.T, gen otp.Generator) *fixture {
	t.Helper()

	if gen == nil {
		gen = otp.NewCryptoGenerator()
	}

	f := &fixture{
		store: repotest.New(),
		queue: &recordingQueue{},
		clock: newTestClock(),
	}
	f.services = service.NewServices(service.Deps{
		Logger:       zaptest.NewLogger(t),
		Repos:        f.store.Repositories(),
		OtpGenerator: gen,
		Notifier:     f.queue,
		Now:          f.clock.Now,
	})

	return f
}

func exampleSubscriber() domain.NewSubscriber {
	return domain.NewSubscriber{
		Email: "a@b.com",
		Freq:  "monthly",
		MeasurementValues: domain.MeasurementValues{
			Sex:     domain.SexMale,
			Age:     30,
			System:  domain.SystemImperial,
			Weight:  180,
			Height:  70,
			EstBMR:  1800,
			EstTDEE: 2400,
		},
	}
}

func otherValues() domain.MeasurementValues {
	return domain.MeasurementValues{
		Sex:     domain.SexMale,
		Age:     31,
		System:  domain.SystemMetric,
		Weight:  80,
		Height:  178,
		EstBMR:  1750,
		EstTDEE: 2300,
	}
}

// confirmed subscribes and confirms the example subscriber.
func (f *fixture) confirmed(t *testing.T) int64 {
	t.Helper()

	ctx := context.Background()
	id, err := f.services.Subscribers.Subscribe(ctx, exampleSubscriber())
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	ok, err := f.services.Subscribers.Confirm(ctx, id)
	if err != nil || !ok {
		t.Fatalf("confirm: %v %v", ok, err)
	}
	return id
}
