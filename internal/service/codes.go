package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vibe-gaming/bmr-reminder/internal/domain"
	"github.com/vibe-gaming/bmr-reminder/internal/repository"
	"github.com/vibe-gaming/bmr-reminder/pkg/metrics"
	"github.com/vibe-gaming/bmr-reminder/pkg/otp"

	"go.uber.org/zap"
)

// maxIssueAttempts bounds the draw-and-check loop for every purpose.
const maxIssueAttempts = 15

type codeService struct {
	repos        *repository.Repositories
	otpGenerator otp.Generator
	logger       *zap.Logger
	now          func() time.Time
}

func newCodeService(repos *repository.Repositories, otpGenerator otp.Generator, logger *zap.Logger, now func() time.Time) *codeService {
	return &codeService{
		repos:        repos,
		otpGenerator: otpGenerator,
		logger:       logger,
		now:          now,
	}
}

// Issue draws a value unused in the purpose's table and stores it for subID.
// Update and unsubscribe codes replace the subscriber's previous row.
// Pending update codes carry the staged values, which must be non-nil.
func (s *codeService) Issue(ctx context.Context, purpose domain.CodePurpose, subID int64, staged *domain.MeasurementValues) (*domain.Code, error) {
	if !purpose.Valid() {
		return nil, fmt.Errorf("%w: unknown code purpose %q", domain.ErrValidation, purpose)
	}
	if purpose == domain.PurposePendingUpdate && staged == nil {
		return nil, fmt.Errorf("%w: pending update without staged measurements", domain.ErrValidation)
	}

	value, err := s.drawUnused(ctx, purpose)
	if err != nil {
		return nil, err
	}

	now := s.now()
	code := &domain.Code{
		SubID:       subID,
		Code:        value,
		DateCreated: now,
		DateExpires: now.Add(purpose.Window()),
	}

	switch {
	case purpose == domain.PurposePendingUpdate:
		err = s.repos.PendingUpdates.Create(ctx, &domain.PendingUpdate{
			SubID:             subID,
			Code:              value,
			MeasurementValues: *staged,
			DateCreated:       code.DateCreated,
			DateExpires:       code.DateExpires,
		})
	case purpose.Upserted():
		err = s.repos.Codes.Upsert(ctx, purpose, code)
	default:
		err = s.repos.Codes.Create(ctx, purpose, code)
	}
	if err != nil {
		return nil, fmt.Errorf("store %s code failed: %w", purpose, err)
	}

	metrics.RecordCodeIssued(string(purpose))
	return code, nil
}

func (s *codeService) drawUnused(ctx context.Context, purpose domain.CodePurpose) (int64, error) {
	for attempt := 1; attempt <= maxIssueAttempts; attempt++ {
		value, err := s.otpGenerator.RandomCode(domain.MinCode, domain.MaxCode)
		if err != nil {
			return 0, fmt.Errorf("generate code failed: %w", err)
		}

		_, err = s.repos.Codes.GetOne(ctx, purpose, domain.ByCode(value))
		if errors.Is(err, domain.ErrNotFound) {
			return value, nil
		}
		if err != nil {
			return 0, fmt.Errorf("check code uniqueness failed: %w", err)
		}

		metrics.RecordCodeCollision(string(purpose))
		s.logger.Debug("code collision, resampling", zap.String("purpose", string(purpose)), zap.Int("attempt", attempt))
	}

	return 0, fmt.Errorf("%w: %s after %d attempts", domain.ErrCodeSpaceExhausted, purpose, maxIssueAttempts)
}

// Obtain returns the subscriber's live code for purpose, issuing a new one
// when there is none.
func (s *codeService) Obtain(ctx context.Context, purpose domain.CodePurpose, subID int64) (*domain.Code, error) {
	code, err := s.repos.Codes.GetOne(ctx, purpose, domain.BySubID(subID))
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get %s code failed: %w", purpose, err)
	}
	if code.Live(s.now()) {
		return code, nil
	}

	return s.Issue(ctx, purpose, subID, nil)
}

func (s *codeService) Validate(ctx context.Context, purpose domain.CodePurpose, code int64) (bool, error) {
	row, err := s.lookup(ctx, purpose, code)
	if err != nil || row == nil {
		return false, err
	}

	return row.Live(s.now()), nil
}

func (s *codeService) BelongsTo(ctx context.Context, purpose domain.CodePurpose, code int64, subID int64) (bool, error) {
	row, err := s.lookup(ctx, purpose, code)
	if err != nil || row == nil {
		return false, err
	}

	return row.SubID == subID, nil
}

// Verify is the ownership check required before acting on a code received
// from a client: the code must be live and issued to subID.
func (s *codeService) Verify(ctx context.Context, purpose domain.CodePurpose, code int64, subID int64) error {
	valid, err := s.Validate(ctx, purpose, code)
	if err != nil {
		return err
	}
	if !valid {
		return ErrInvalidCode
	}

	owned, err := s.BelongsTo(ctx, purpose, code, subID)
	if err != nil {
		return err
	}
	if !owned {
		return ErrInvalidCode
	}

	return nil
}

func (s *codeService) Revoke(ctx context.Context, purpose domain.CodePurpose, by domain.LookupBy) (int64, error) {
	deleted, err := s.repos.Codes.Delete(ctx, purpose, by)
	if err != nil {
		return 0, fmt.Errorf("revoke %s code failed: %w", purpose, err)
	}

	return deleted, nil
}

// lookup returns nil without error for values that cannot be a code or are
// not stored.
func (s *codeService) lookup(ctx context.Context, purpose domain.CodePurpose, code int64) (*domain.Code, error) {
	if !domain.ValidCode(code) {
		return nil, nil
	}

	row, err := s.repos.Codes.GetOne(ctx, purpose, domain.ByCode(code))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s code failed: %w", purpose, err)
	}

	return row, nil
}
