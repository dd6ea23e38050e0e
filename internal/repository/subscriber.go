package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vibe-gaming/bmr-reminder/internal/db"
	"github.com/vibe-gaming/bmr-reminder/internal/domain"

	"github.com/jmoiron/sqlx"
)

type subscriberRepository struct {
	db *sqlx.DB
}

func newSubscriberRepository(db *sqlx.DB) *subscriberRepository {
	return &subscriberRepository{
		db: db,
	}
}

func (r *subscriberRepository) Create(ctx context.Context, subscriber *domain.Subscriber) (int64, error) {
	const op = "repository.subscriber.Create"

	const query = `
	INSERT INTO subscriber (email, freq_id)
	VALUES (?, ?)
	`

	res, err := executorFrom(ctx, r.db).ExecContext(ctx, query, subscriber.Email, subscriber.FreqID)
	if err != nil {
		if db.IsDuplicateEntry(err) {
			return 0, domain.ErrDuplicateEntry
		}
		return 0, fmt.Errorf("%s: insert subscriber failed: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: get last insert id failed: %w", op, err)
	}

	subscriber.ID = id
	return id, nil
}

func (r *subscriberRepository) GetOne(ctx context.Context, by domain.LookupBy) (*domain.Subscriber, error) {
	const op = "repository.subscriber.GetOne"

	if err := by.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var column string
	switch by.Kind {
	case domain.LookupByID:
		column = "id"
	case domain.LookupByEmail:
		column = "email"
	default:
		return nil, fmt.Errorf("%s: %w: %s", op, domain.ErrUnsupportedLookup, by.Kind)
	}

	query := `
	SELECT id, email, freq_id, confirmed, date_confirmed
	FROM subscriber
	WHERE ` + column + ` = ?
	`

	var subscriber domain.Subscriber
	if err := executorFrom(ctx, r.db).GetContext(ctx, &subscriber, query, by.Arg()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: select subscriber failed: %w", op, err)
	}

	return &subscriber, nil
}

// Confirm flips confirmed from false to true. A subscriber that is missing or
// already confirmed yields domain.ErrNoRowsAffected.
func (r *subscriberRepository) Confirm(ctx context.Context, id int64, at time.Time) error {
	const op = "repository.subscriber.Confirm"

	const query = `
	UPDATE subscriber
	SET confirmed = TRUE, date_confirmed = ?
	WHERE id = ? AND confirmed = FALSE
	`

	res, err := executorFrom(ctx, r.db).ExecContext(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("%s: update subscriber failed: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: get rows affected failed: %w", op, err)
	}

	if rows == 0 {
		return domain.ErrNoRowsAffected
	}

	return nil
}

// Delete removes the subscriber; foreign keys cascade to every dependent row.
func (r *subscriberRepository) Delete(ctx context.Context, id int64) (int64, error) {
	const op = "repository.subscriber.Delete"

	const query = `DELETE FROM subscriber WHERE id = ?`

	return r.delete(ctx, op, query, id)
}

// DeleteUnconfirmed removes the subscriber only while it is still pending.
func (r *subscriberRepository) DeleteUnconfirmed(ctx context.Context, id int64) (int64, error) {
	const op = "repository.subscriber.DeleteUnconfirmed"

	const query = `DELETE FROM subscriber WHERE id = ? AND confirmed = FALSE`

	return r.delete(ctx, op, query, id)
}

func (r *subscriberRepository) delete(ctx context.Context, op, query string, id int64) (int64, error) {
	res, err := executorFrom(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: delete subscriber failed: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: get rows affected failed: %w", op, err)
	}

	return rows, nil
}
