package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vibe-gaming/bmr-reminder/internal/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	lockKeyPrefix = "lock:subscriber:"
	lockPoll      = 25 * time.Millisecond
)

var ErrLockTimeout = errors.New("lock wait timed out")

// releaseScript deletes the key only if it still holds our token, so an
// expired lock taken over by someone else is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker is a best-effort mutual exclusion keyed by subscriber, backed by a
// single Redis key per lock.
type Locker struct {
	rdb    redis.UniversalClient
	ttl    time.Duration
	wait   time.Duration
	logger *zap.Logger
}

func NewLocker(rdb redis.UniversalClient, cfg config.Lock, logger *zap.Logger) *Locker {
	return &Locker{
		rdb:    rdb,
		ttl:    cfg.TTL,
		wait:   cfg.Wait,
		logger: logger,
	}
}

// Acquire blocks until the lock for key is held, ctx is done, or the wait
// budget runs out. The returned func releases the lock.
func (l *Locker) Acquire(ctx context.Context, key string) (func(), error) {
	const op = "cache.Locker.Acquire"

	fullKey := lockKeyPrefix + key
	token := uuid.NewString()

	deadline := time.NewTimer(l.wait)
	defer deadline.Stop()

	ticker := time.NewTicker(lockPoll)
	defer ticker.Stop()

	for {
		ok, err := l.rdb.SetNX(ctx, fullKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("%s: setnx failed: %w", op, err)
		}
		if ok {
			return func() { l.release(fullKey, token) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%s: %w", op, ctx.Err())
		case <-deadline.C:
			return nil, fmt.Errorf("%s: %s: %w", op, key, ErrLockTimeout)
		case <-ticker.C:
		}
	}
}

func (l *Locker) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := releaseScript.Run(ctx, l.rdb, []string{key}, token).Err(); err != nil {
		l.logger.Warn("release lock failed", zap.String("key", key), zap.Error(err))
	}
}

func SubscriberIDKey(id int64) string {
	return fmt.Sprintf("id:%d", id)
}

func SubscriberEmailKey(email string) string {
	return "email:" + email
}
