package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vibe-gaming/bmr-reminder/internal/domain"

	"github.com/jmoiron/sqlx"
)

type frequencyRepository struct {
	db *sqlx.DB
}

func newFrequencyRepository(db *sqlx.DB) *frequencyRepository {
	return &frequencyRepository{
		db: db,
	}
}

func (r *frequencyRepository) GetByDescriptor(ctx context.Context, descriptor string) (*domain.Frequency, error) {
	const op = "repository.frequency.GetByDescriptor"

	const query = `SELECT id, descriptor, interval_days FROM frequency WHERE descriptor = ?`

	return r.getOne(ctx, op, query, descriptor)
}

func (r *frequencyRepository) GetByID(ctx context.Context, id int64) (*domain.Frequency, error) {
	const op = "repository.frequency.GetByID"

	const query = `SELECT id, descriptor, interval_days FROM frequency WHERE id = ?`

	return r.getOne(ctx, op, query, id)
}

func (r *frequencyRepository) GetAll(ctx context.Context) ([]domain.Frequency, error) {
	const op = "repository.frequency.GetAll"

	const query = `SELECT id, descriptor, interval_days FROM frequency ORDER BY interval_days`

	var frequencies []domain.Frequency
	if err := executorFrom(ctx, r.db).SelectContext(ctx, &frequencies, query); err != nil {
		return nil, fmt.Errorf("%s: select frequency failed: %w", op, err)
	}

	return frequencies, nil
}

func (r *frequencyRepository) getOne(ctx context.Context, op, query string, arg any) (*domain.Frequency, error) {
	var frequency domain.Frequency
	if err := executorFrom(ctx, r.db).GetContext(ctx, &frequency, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: select frequency failed: %w", op, err)
	}

	return &frequency, nil
}
