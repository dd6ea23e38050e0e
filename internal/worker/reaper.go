package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/vibe-gaming/bmr-reminder/internal/domain"
	"github.com/vibe-gaming/bmr-reminder/internal/repository"
	"github.com/vibe-gaming/bmr-reminder/pkg/metrics"

	"go.uber.org/zap"
)

type ReapReport struct {
	Purpose domain.CodePurpose
	Expired int
	Deleted int
	Failed  int
}

type reaper struct {
	repos  *repository.Repositories
	logger *zap.Logger
	now    func() time.Time
}

func newReaper(repos *repository.Repositories, logger *zap.Logger, now func() time.Time) *reaper {
	return &reaper{
		repos:  repos,
		logger: logger,
		now:    now,
	}
}

// Run deletes every expired row of one code table. An expired confirmation
// code means the signup was abandoned, so its subscriber goes with it.
// Failures on single rows are counted and the sweep continues.
func (r *reaper) Run(ctx context.Context, purpose domain.CodePurpose) (*ReapReport, error) {
	if !purpose.Valid() {
		return nil, fmt.Errorf("%w: unknown code purpose %q", domain.ErrValidation, purpose)
	}

	expired, err := r.repos.Codes.ListExpired(ctx, purpose, r.now())
	if err != nil {
		return nil, fmt.Errorf("list expired %s codes failed: %w", purpose, err)
	}

	report := &ReapReport{Purpose: purpose, Expired: len(expired)}
	for _, code := range expired {
		if ctx.Err() != nil {
			break
		}

		deleted, err := r.reap(ctx, purpose, code)
		if err != nil {
			report.Failed++
			r.logger.Warn("reap expired code failed",
				zap.String("purpose", string(purpose)),
				zap.Int64("sub_id", code.SubID),
				zap.Error(err),
			)
			continue
		}
		report.Deleted += int(deleted)
	}

	metrics.RecordReaped(string(purpose), report.Deleted, report.Failed)
	if report.Expired > 0 {
		r.logger.Info("expired codes reaped",
			zap.String("purpose", string(purpose)),
			zap.Int("expired", report.Expired),
			zap.Int("deleted", report.Deleted),
			zap.Int("failed", report.Failed),
		)
	}

	return report, ctx.Err()
}

func (r *reaper) reap(ctx context.Context, purpose domain.CodePurpose, code domain.Code) (int64, error) {
	if purpose != domain.PurposeConfirmation {
		return r.repos.Codes.Delete(ctx, purpose, domain.ByCode(code.Code))
	}

	deleted, err := r.repos.Subscribers.DeleteUnconfirmed(ctx, code.SubID)
	if err != nil || deleted > 0 {
		return deleted, err
	}

	// The subscriber confirmed after the sweep listed the code; drop only the
	// stale code row.
	return r.repos.Codes.Delete(ctx, purpose, domain.ByCode(code.Code))
}
