package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vibe-gaming/bmr-reminder/internal/db"
	"github.com/vibe-gaming/bmr-reminder/internal/domain"

	"github.com/jmoiron/sqlx"
)

type pendingUpdateRepository struct {
	db *sqlx.DB
}

func newPendingUpdateRepository(db *sqlx.DB) *pendingUpdateRepository {
	return &pendingUpdateRepository{
		db: db,
	}
}

func (r *pendingUpdateRepository) Create(ctx context.Context, pending *domain.PendingUpdate) error {
	const op = "repository.pending_update.Create"

	const query = `
	INSERT INTO pending_update (sub_id, code, sex, age, measurement_sys, weight_value, height_value, est_bmr, est_tdee, date_created, date_expires)
	VALUES (:sub_id, :code, :sex, :age, :measurement_sys, :weight_value, :height_value, :est_bmr, :est_tdee, :date_created, :date_expires)
	`

	if _, err := executorFrom(ctx, r.db).NamedExecContext(ctx, query, pending); err != nil {
		if db.IsDuplicateEntry(err) {
			return domain.ErrDuplicateEntry
		}
		if db.IsForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("%s: insert pending_update failed: %w", op, err)
	}

	return nil
}

func (r *pendingUpdateRepository) GetOne(ctx context.Context, by domain.LookupBy) (*domain.PendingUpdate, error) {
	const op = "repository.pending_update.GetOne"

	if err := by.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	column, err := codeColumn(by)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `
	SELECT sub_id, code, sex, age, measurement_sys, weight_value, height_value, est_bmr, est_tdee, date_created, date_expires
	FROM pending_update
	WHERE ` + column + ` = ?
	`

	var pending domain.PendingUpdate
	if err := executorFrom(ctx, r.db).GetContext(ctx, &pending, query, by.Arg()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: select pending_update failed: %w", op, err)
	}

	return &pending, nil
}
